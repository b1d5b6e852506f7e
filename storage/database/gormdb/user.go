package gormdb

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/escolardev/escolar/core/user"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

func toUser(row userRow) user.User {
	return user.User{
		ID:        row.ID,
		DNI:       row.DNI,
		Name:      row.Name,
		Role:      user.Role(row.Role),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func (r *userRepository) CheckDNIUniqueness(dni string) error {
	var count int64
	if err := r.db.Model(&userRow{}).Where("dni = ?", dni).Count(&count).Error; err != nil {
		return errors.Wrap(err, "counting users by dni")
	}
	if count > 0 {
		return user.ErrDNIExists
	}
	return nil
}

func (r *userRepository) CreateUser(usr user.User) (user.User, error) {
	row := userRow{
		ID:        uuid.NewString(),
		DNI:       usr.DNI,
		Name:      usr.Name,
		Role:      string(usr.Role),
		CreatedAt: usr.CreatedAt,
		UpdatedAt: usr.UpdatedAt,
	}
	if err := r.db.Create(&row).Error; err != nil {
		return user.User{}, errors.Wrap(err, "creating user")
	}
	return toUser(row), nil
}

func (r *userRepository) QueryAllUsers() ([]user.User, error) {
	var rows []userRow
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, toUser(row))
	}
	return users, nil
}

func (r *userRepository) GetUserByDNI(dni string) (user.User, error) {
	var row userRow
	if err := r.db.Where("dni = ?", dni).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "querying user by dni")
	}
	return toUser(row), nil
}
