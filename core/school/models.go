package school

import "github.com/escolardev/escolar/core"

// Shared reference data. Owned by no single role; mutated only through the
// administrative CLI.

type Classroom struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Subject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ClassroomSubject pairs a subject with a classroom (many-to-many).
type ClassroomSubject struct {
	ClassroomID string `json:"classroomId"`
	SubjectID   string `json:"subjectId"`
}

// Enrollment links a student to a classroom. The student name is denormalized
// onto the record so rosters render without a user lookup.
type Enrollment struct {
	ClassroomID string `json:"classroomId"`
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`
}

type NewClassroom struct {
	Name string `json:"name" validate:"required"`
}

func (nc *NewClassroom) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	return core.Validate.Struct(nc)
}

type NewSubject struct {
	Name string `json:"name" validate:"required"`
}

func (ns *NewSubject) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	return core.Validate.Struct(ns)
}

type NewEnrollment struct {
	ClassroomID string `json:"classroomId" validate:"required"`
	StudentID   string `json:"studentId" validate:"required"`
	StudentName string `json:"studentName" validate:"required"`
}

func (ne *NewEnrollment) Validate() error {
	ne.ClassroomID = core.CleanString(ne.ClassroomID)
	ne.StudentID = core.CleanString(ne.StudentID)
	ne.StudentName = core.CleanString(ne.StudentName)
	return core.Validate.Struct(ne)
}
