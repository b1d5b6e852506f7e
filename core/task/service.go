package task

import (
	"errors"
	"time"

	"github.com/escolardev/escolar/core"
	"github.com/escolardev/escolar/core/school"
	"github.com/escolardev/escolar/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("task not found")
	ErrNotOwner = errors.New("task belongs to another teacher")
)

// Actor identifies the caller of a task operation; built from verified
// session claims, never from request payloads.
type Actor struct {
	DNI  string
	Role user.Role
}

type (
	Repository interface {
		CreateTask(t Task) (Task, error)
		GetTaskByID(id string) (Task, error)
		QueryTasksByTeacher(teacherID string) ([]Task, error)
		// QueryAllTasks is a full scan: the store only filters equality on
		// indexed fields, not "array contains object field equals".
		QueryAllTasks() ([]Task, error)
		UpdateTaskStudents(id string, students []StudentRecord) error
		DeleteTask(id string) error
	}

	Service struct {
		repo    Repository
		schools *school.Service
		users   *user.Service
	}
)

func NewService(repo Repository, schools *school.Service, users *user.Service) *Service {
	return &Service{repo: repo, schools: schools, users: users}
}

// Create validates and persists a new task owned by the acting teacher.
// The pairing and roster checks read the store separately from the final
// write; the sequence is not atomic (acceptable at this traffic).
func (svc *Service) Create(actor Actor, nt NewTask) (Task, error) {
	if err := nt.Validate(); err != nil {
		return Task{}, err
	}

	paired, err := svc.schools.IsPaired(nt.ClassroomID, nt.SubjectID)
	if err != nil {
		return Task{}, err
	}
	if !paired {
		return Task{}, core.NewValidationError(nil, core.FieldError{
			Field: "subjectId",
			Error: "subject is not taught in this classroom",
		})
	}

	roster, err := svc.schools.Roster(nt.ClassroomID)
	if err != nil {
		return Task{}, err
	}
	if err := matchRoster(nt.Students, roster); err != nil {
		return Task{}, err
	}

	t := Task{
		ClassroomID: nt.ClassroomID,
		SubjectID:   nt.SubjectID,
		TeacherID:   actor.DNI,
		Name:        nt.Name,
		Date:        nt.Date,
		Observation: nt.Observation,
		Type:        nt.Type,
		Students:    nt.Students,
		CreatedAt:   time.Now().UTC(),
	}
	return svc.repo.CreateTask(t)
}

// matchRoster requires the submitted records to cover exactly the current
// enrollment of the classroom.
func matchRoster(records []StudentRecord, roster []school.Enrollment) error {
	enrolled := make(map[string]struct{}, len(roster))
	for _, e := range roster {
		enrolled[e.StudentID] = struct{}{}
	}
	for _, rec := range records {
		if _, ok := enrolled[rec.StudentID]; !ok {
			return core.NewValidationError(nil, core.FieldError{
				Field: "students",
				Error: "student " + rec.StudentID + " is not enrolled in this classroom",
			})
		}
		delete(enrolled, rec.StudentID)
	}
	for id := range enrolled {
		return core.NewValidationError(nil, core.FieldError{
			Field: "students",
			Error: "enrolled student " + id + " is missing from the records",
		})
	}
	return nil
}

// Get returns a task to its owning teacher, or to an admin.
func (svc *Service) Get(actor Actor, id string) (Task, error) {
	t, err := svc.repo.GetTaskByID(id)
	if err != nil {
		return Task{}, err
	}
	if actor.Role != user.RoleAdmin && t.TeacherID != actor.DNI {
		return Task{}, ErrNotOwner
	}
	return t, nil
}

// UpdateStudentRecords overwrites the full roster of a task. Unlike Create,
// a missing value is normalized to "" instead of rejected: teachers may save
// a partially graded sheet. Non-empty values must still be in domain.
// Only the owning teacher may update; admins read but never mutate.
func (svc *Service) UpdateStudentRecords(actor Actor, taskID string, records []StudentRecord) error {
	t, err := svc.repo.GetTaskByID(taskID)
	if err != nil {
		return err
	}
	if t.TeacherID != actor.DNI {
		return ErrNotOwner
	}

	supplied := make(map[string]string, len(records))
	for _, rec := range records {
		if rec.Value != "" && !ValidValue(t.Type, rec.Value) {
			return core.NewValidationError(nil, core.FieldError{
				Field: "students",
				Error: "invalid value for student " + rec.StudentID,
			})
		}
		supplied[rec.StudentID] = rec.Value
	}

	roster, err := svc.schools.Roster(t.ClassroomID)
	if err != nil {
		return err
	}
	students := make([]StudentRecord, 0, len(roster))
	for _, e := range roster {
		students = append(students, StudentRecord{StudentID: e.StudentID, Value: supplied[e.StudentID]})
	}
	return svc.repo.UpdateTaskStudents(taskID, students)
}

// Delete removes a task permanently. No soft delete, no cascading cleanup.
func (svc *Service) Delete(actor Actor, id string) error {
	t, err := svc.repo.GetTaskByID(id)
	if err != nil {
		return err
	}
	if t.TeacherID != actor.DNI {
		return ErrNotOwner
	}
	return svc.repo.DeleteTask(id)
}

// ListForTeacher returns the teacher's tasks, newest first. A teacher may
// only list their own; admins may list anyone's.
func (svc *Service) ListForTeacher(actor Actor, teacherID string) ([]Task, error) {
	if actor.Role != user.RoleAdmin && teacherID != actor.DNI {
		return nil, ErrNotOwner
	}
	tasks, err := svc.repo.QueryTasksByTeacher(teacherID)
	if err != nil {
		return nil, err
	}
	SortTasks(tasks)
	return tasks, nil
}

// ListForStudent returns the tasks whose roster contains the student, newest
// first. The store cannot index into the embedded roster, so this is a full
// scan with an in-memory filter.
func (svc *Service) ListForStudent(actor Actor, studentID string) ([]Task, error) {
	if actor.Role != user.RoleAdmin && studentID != actor.DNI {
		return nil, ErrNotOwner
	}
	all, err := svc.repo.QueryAllTasks()
	if err != nil {
		return nil, err
	}
	tasks := make([]Task, 0, len(all))
	for _, t := range all {
		if t.HasStudent(studentID) {
			tasks = append(tasks, t)
		}
	}
	SortTasks(tasks)
	return tasks, nil
}

// Info is a task decorated with resolved display names for listings.
type Info struct {
	Task
	ClassroomName string `json:"classroomName"`
	SubjectName   string `json:"subjectName"`
	TeacherName   string `json:"teacherName"`
}

// Resolve decorates tasks with display names. A missing reference falls back
// to the raw ID; resolution never fails a listing.
func (svc *Service) Resolve(tasks []Task) []Info {
	infos := make([]Info, 0, len(tasks))
	teacherNames := make(map[string]string)
	for _, t := range tasks {
		name, ok := teacherNames[t.TeacherID]
		if !ok {
			name = t.TeacherID
			if usr, err := svc.users.GetByDNI(t.TeacherID); err == nil {
				name = usr.Name
			}
			teacherNames[t.TeacherID] = name
		}
		infos = append(infos, Info{
			Task:          t,
			ClassroomName: svc.schools.ClassroomName(t.ClassroomID),
			SubjectName:   svc.schools.SubjectName(t.SubjectID),
			TeacherName:   name,
		})
	}
	return infos
}
