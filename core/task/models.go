package task

import (
	"sort"
	"strconv"
	"time"

	"github.com/escolardev/escolar/core"
)

// Task types. Exact wire values; case-sensitive.
const (
	TypeAssignment = "tarea"      // graded by achievement level
	TypeEvaluation = "evaluacion" // graded by numeric score
)

// Achievement levels for TypeAssignment.
const (
	Achieved          = "L"
	PartiallyAchieved = "ML"
	NotAchieved       = "NL"
)

const dateLayout = "2006-01-02"

// StudentRecord is one student's grade within a task. The canonical roster
// shape is a sequence of these; legacy shapes are converted once by the
// admin migration, never sniffed at read time.
type StudentRecord struct {
	StudentID string `json:"studentId"`
	Value     string `json:"value"`
}

// Task is owned by its creating teacher; only that teacher edits or deletes
// it. ClassroomID/SubjectID/TeacherID are foreign keys resolved to display
// names at listing time.
type Task struct {
	ID          string          `json:"id"`
	ClassroomID string          `json:"classroomId"`
	SubjectID   string          `json:"subjectId"`
	TeacherID   string          `json:"teacherId"`
	Name        string          `json:"name"`
	Date        string          `json:"date"` // YYYY-MM-DD; may be empty on legacy records
	Observation string          `json:"observation"`
	Type        string          `json:"type"`
	Students    []StudentRecord `json:"students"`
	CreatedAt   time.Time       `json:"createdAt"` // UTC
}

// HasStudent reports whether the student appears in the task roster.
func (t *Task) HasStudent(studentID string) bool {
	for _, rec := range t.Students {
		if rec.StudentID == studentID {
			return true
		}
	}
	return false
}

// sortKey orders listings: the task date when set, createdAt otherwise.
func (t *Task) sortKey() time.Time {
	if t.Date != "" {
		if d, err := time.Parse(dateLayout, t.Date); err == nil {
			return d
		}
	}
	return t.CreatedAt
}

// SortTasks sorts descending by date (createdAt fallback); ties keep the
// stable store order.
func SortTasks(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].sortKey().After(tasks[j].sortKey())
	})
}

// ValidValue reports whether value is in the domain of the task type:
// "1".."10" for evaluations, L/ML/NL for assignments.
func ValidValue(taskType, value string) bool {
	switch taskType {
	case TypeEvaluation:
		n, err := strconv.Atoi(value)
		if err != nil || strconv.Itoa(n) != value {
			return false
		}
		return n >= 1 && n <= 10
	case TypeAssignment:
		switch value {
		case Achieved, PartiallyAchieved, NotAchieved:
			return true
		}
	}
	return false
}

// NewTask contains information needed to create a Task. TeacherID comes from
// the verified session, never from the payload.
type NewTask struct {
	ClassroomID string          `json:"classroomId" validate:"required"`
	SubjectID   string          `json:"subjectId" validate:"required"`
	Date        string          `json:"date" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Observation string          `json:"observation" validate:"required"`
	Type        string          `json:"type" validate:"required,tasktype"`
	Students    []StudentRecord `json:"students" validate:"required,min=1"`
}

// Validate checks required fields and that every roster member carries a
// value in the task type's domain. An unset value is rejected here, not
// silently defaulted.
func (nt *NewTask) Validate() error {
	nt.ClassroomID = core.CleanString(nt.ClassroomID)
	nt.SubjectID = core.CleanString(nt.SubjectID)
	nt.Date = core.CleanString(nt.Date)
	nt.Name = core.CleanString(nt.Name)
	nt.Observation = core.CleanString(nt.Observation)
	nt.Type = core.CleanString(nt.Type)

	if err := core.Validate.Struct(nt); err != nil {
		return err
	}

	if _, err := time.Parse(dateLayout, nt.Date); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "date", Error: "must be a date in YYYY-MM-DD format"})
	}

	seen := make(map[string]struct{}, len(nt.Students))
	for _, rec := range nt.Students {
		if rec.StudentID == "" {
			return core.NewValidationError(nil, core.FieldError{Field: "students", Error: "every record needs a studentId"})
		}
		if _, dup := seen[rec.StudentID]; dup {
			return core.NewValidationError(nil, core.FieldError{Field: "students", Error: "duplicate student " + rec.StudentID})
		}
		seen[rec.StudentID] = struct{}{}
		if !ValidValue(nt.Type, rec.Value) {
			return core.NewValidationError(nil, core.FieldError{
				Field: "students",
				Error: "missing or invalid value for student " + rec.StudentID,
			})
		}
	}
	return nil
}
