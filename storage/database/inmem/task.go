package inmemdb

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/escolardev/escolar/core/task"
)

type taskRepository struct {
	db *taskTable
}

func NewTaskRepository(db *DB) task.Repository {
	return &taskRepository{db: db.task}
}

var _ task.LegacyRosterStore = (*taskRepository)(nil)

// cloneStudents detaches a roster from its caller: stored and returned tasks
// must never share a backing array.
func cloneStudents(recs []task.StudentRecord) []task.StudentRecord {
	if recs == nil {
		return nil
	}
	return append([]task.StudentRecord(nil), recs...)
}

func copyTask(t *task.Task) task.Task {
	cp := *t
	cp.Students = cloneStudents(t.Students)
	return cp
}

func (r *taskRepository) query() []task.Task {
	res := make([]task.Task, 0, len(r.db.order))
	for _, id := range r.db.order {
		if t, ok := r.db.t[id]; ok {
			res = append(res, copyTask(t))
		}
	}
	return res
}

func (r *taskRepository) CreateTask(t task.Task) (task.Task, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	t.ID = uuid.NewString()
	stored := copyTask(&t)
	r.db.t[t.ID] = &stored
	r.db.order = append(r.db.order, t.ID)
	return t, nil
}

func (r *taskRepository) GetTaskByID(id string) (task.Task, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if t, ok := r.db.t[id]; ok {
		return copyTask(t), nil
	}
	return task.Task{}, task.ErrNotFound
}

func (r *taskRepository) QueryTasksByTeacher(teacherID string) ([]task.Task, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	res := make([]task.Task, 0)
	for _, t := range r.query() {
		if t.TeacherID == teacherID {
			res = append(res, t)
		}
	}
	return res, nil
}

func (r *taskRepository) QueryAllTasks() ([]task.Task, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return r.query(), nil
}

func (r *taskRepository) UpdateTaskStudents(id string, students []task.StudentRecord) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	t, ok := r.db.t[id]
	if !ok {
		return task.ErrNotFound
	}
	t.Students = cloneStudents(students)
	return nil
}

func (r *taskRepository) DeleteTask(id string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.t[id]; !ok {
		return task.ErrNotFound
	}
	delete(r.db.t, id)
	return nil
}

// QueryRawRosters serves the legacy roster migration. The in-memory store
// only ever holds canonical rosters, so it marshals them back out; the
// method exists to satisfy task.LegacyRosterStore in tests.
func (r *taskRepository) QueryRawRosters() (map[string][]byte, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	res := make(map[string][]byte, len(r.db.t))
	for id, t := range r.db.t {
		raw, err := json.Marshal(t.Students)
		if err != nil {
			return nil, err
		}
		res[id] = raw
	}
	return res, nil
}
