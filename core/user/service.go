package user

import (
	"errors"
	"time"

	"github.com/escolardev/escolar/core"
)

var (
	// errors
	ErrNotFound  = errors.New("user not found")
	ErrDNIExists = errors.New("a user with this DNI already exists")
)

type (
	Repository interface {
		CheckDNIUniqueness(dni string) error
		CreateUser(usr User) (User, error)
		QueryAllUsers() ([]User, error)
		// GetUserByDNI returns the first match on an equality filter.
		// DNI uniqueness is a data-integrity assumption, not re-validated here.
		GetUserByDNI(dni string) (User, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(dni string) error {
	if err := svc.repo.CheckDNIUniqueness(dni); err != nil {
		if errors.Is(err, ErrDNIExists) {
			return core.NewValidationError(err, core.FieldError{Field: "dni", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		DNI:       nu.DNI,
		Name:      nu.Name,
		Role:      Role(nu.Role),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateUser(usr)
}

func (svc *Service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *Service) GetByDNI(dni string) (User, error) {
	return svc.repo.GetUserByDNI(core.CleanString(dni))
}
