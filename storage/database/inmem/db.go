package inmemdb

import (
	"sync"

	"github.com/escolardev/escolar/core/school"
	"github.com/escolardev/escolar/core/task"
	"github.com/escolardev/escolar/core/user"
)

// DB is a map-backed document store keyed by opaque IDs; used in tests and
// local dev. One RWMutex per collection, matching the single-writer traffic
// the app sees.
type (
	DB struct {
		user   *userTable
		school *schoolTables
		task   *taskTable
	}

	userTable struct {
		t     map[string]*user.User
		mutex sync.RWMutex
	}

	schoolTables struct {
		classrooms  map[string]*school.Classroom
		subjects    map[string]*school.Subject
		pairs       []school.ClassroomSubject
		enrollments []school.Enrollment
		mutex       sync.RWMutex
	}

	taskTable struct {
		t     map[string]*task.Task
		order []string // insertion order; keeps listing ties stable
		mutex sync.RWMutex
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{t: make(map[string]*user.User)},
		school: &schoolTables{
			classrooms: make(map[string]*school.Classroom),
			subjects:   make(map[string]*school.Subject),
		},
		task: &taskTable{t: make(map[string]*task.Task)},
	}
	return db, nil
}
