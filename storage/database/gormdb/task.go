package gormdb

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/escolardev/escolar/core/task"
)

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) task.Repository {
	return &taskRepository{db: db}
}

// NewLegacyRosterStore exposes the raw roster access the one-time migration
// needs.
func NewLegacyRosterStore(db *gorm.DB) task.LegacyRosterStore {
	return &taskRepository{db: db}
}

var _ task.LegacyRosterStore = (*taskRepository)(nil)

func toTask(row taskRow) (task.Task, error) {
	students := make([]task.StudentRecord, 0)
	if len(row.Students) > 0 {
		if err := json.Unmarshal(row.Students, &students); err != nil {
			return task.Task{}, errors.Wrapf(err, "decoding roster of task %s", row.ID)
		}
	}
	return task.Task{
		ID:          row.ID,
		ClassroomID: row.ClassroomID,
		SubjectID:   row.SubjectID,
		TeacherID:   row.TeacherID,
		Name:        row.Name,
		Date:        row.Date,
		Observation: row.Observation,
		Type:        row.Type,
		Students:    students,
		CreatedAt:   row.CreatedAt,
	}, nil
}

func marshalStudents(students []task.StudentRecord) (datatypes.JSON, error) {
	if students == nil {
		students = []task.StudentRecord{}
	}
	raw, err := json.Marshal(students)
	if err != nil {
		return nil, errors.Wrap(err, "encoding roster")
	}
	return raw, nil
}

func (r *taskRepository) CreateTask(t task.Task) (task.Task, error) {
	students, err := marshalStudents(t.Students)
	if err != nil {
		return task.Task{}, err
	}
	row := taskRow{
		ID:          uuid.NewString(),
		ClassroomID: t.ClassroomID,
		SubjectID:   t.SubjectID,
		TeacherID:   t.TeacherID,
		Name:        t.Name,
		Date:        t.Date,
		Observation: t.Observation,
		Type:        t.Type,
		Students:    students,
		CreatedAt:   t.CreatedAt,
	}
	if err := r.db.Create(&row).Error; err != nil {
		return task.Task{}, errors.Wrap(err, "creating task")
	}
	return toTask(row)
}

func (r *taskRepository) GetTaskByID(id string) (task.Task, error) {
	var row taskRow
	if err := r.db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, errors.Wrap(err, "querying task")
	}
	return toTask(row)
}

func (r *taskRepository) queryRows(query *gorm.DB) ([]task.Task, error) {
	var rows []taskRow
	if err := query.Order("created_at").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying tasks")
	}
	tasks := make([]task.Task, 0, len(rows))
	for _, row := range rows {
		t, err := toTask(row)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (r *taskRepository) QueryTasksByTeacher(teacherID string) ([]task.Task, error) {
	return r.queryRows(r.db.Where("teacher_id = ?", teacherID))
}

func (r *taskRepository) QueryAllTasks() ([]task.Task, error) {
	return r.queryRows(r.db)
}

func (r *taskRepository) UpdateTaskStudents(id string, students []task.StudentRecord) error {
	raw, err := marshalStudents(students)
	if err != nil {
		return err
	}
	res := r.db.Model(&taskRow{}).Where("id = ?", id).Update("students", raw)
	if res.Error != nil {
		return errors.Wrap(res.Error, "updating task roster")
	}
	if res.RowsAffected == 0 {
		return task.ErrNotFound
	}
	return nil
}

func (r *taskRepository) DeleteTask(id string) error {
	res := r.db.Where("id = ?", id).Delete(&taskRow{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "deleting task")
	}
	if res.RowsAffected == 0 {
		return task.ErrNotFound
	}
	return nil
}

// QueryRawRosters feeds the one-time legacy roster migration: raw JSON as
// stored, no shape assumptions.
func (r *taskRepository) QueryRawRosters() (map[string][]byte, error) {
	var rows []struct {
		ID       string
		Students datatypes.JSON
	}
	if err := r.db.Model(&taskRow{}).Select("id", "students").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying rosters")
	}
	res := make(map[string][]byte, len(rows))
	for _, row := range rows {
		res[row.ID] = []byte(row.Students)
	}
	return res, nil
}
