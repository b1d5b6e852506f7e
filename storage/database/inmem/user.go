package inmemdb

import (
	"github.com/google/uuid"

	"github.com/escolardev/escolar/core/user"
)

type userRepository struct {
	db *userTable
}

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user}
}

func (r *userRepository) CheckDNIUniqueness(dni string) error {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, usr := range r.db.t {
		if usr.DNI == dni {
			return user.ErrDNIExists
		}
	}
	return nil
}

func (r *userRepository) CreateUser(usr user.User) (user.User, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	usr.ID = uuid.NewString()
	r.db.t[usr.ID] = &usr
	return usr, nil
}

func (r *userRepository) QueryAllUsers() ([]user.User, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	res := make([]user.User, 0, len(r.db.t))
	for _, usr := range r.db.t {
		res = append(res, *usr)
	}
	return res, nil
}

func (r *userRepository) GetUserByDNI(dni string) (user.User, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, usr := range r.db.t {
		if usr.DNI == dni {
			return *usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}
