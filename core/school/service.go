package school

import "errors"

var (
	// errors
	ErrClassroomNotFound = errors.New("classroom not found")
	ErrSubjectNotFound   = errors.New("subject not found")
)

type (
	Repository interface {
		CreateClassroom(c Classroom) (Classroom, error)
		CreateSubject(s Subject) (Subject, error)
		PairClassroomSubject(cs ClassroomSubject) error
		CreateEnrollment(e Enrollment) error
		QueryAllClassrooms() ([]Classroom, error)
		GetClassroomByID(id string) (Classroom, error)
		GetSubjectByID(id string) (Subject, error)
		// QuerySubjectsByClassroom resolves the ClassroomSubject association.
		QuerySubjectsByClassroom(classroomID string) ([]Subject, error)
		QueryEnrollmentsByClassroom(classroomID string) ([]Enrollment, error)
		ClassroomSubjectExists(classroomID, subjectID string) (bool, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) AddClassroom(nc NewClassroom) (Classroom, error) {
	if err := nc.Validate(); err != nil {
		return Classroom{}, err
	}
	return svc.repo.CreateClassroom(Classroom{Name: nc.Name})
}

func (svc *Service) AddSubject(ns NewSubject) (Subject, error) {
	if err := ns.Validate(); err != nil {
		return Subject{}, err
	}
	return svc.repo.CreateSubject(Subject{Name: ns.Name})
}

// Pair associates a subject with a classroom. Both sides must exist.
func (svc *Service) Pair(classroomID, subjectID string) error {
	if _, err := svc.repo.GetClassroomByID(classroomID); err != nil {
		return err
	}
	if _, err := svc.repo.GetSubjectByID(subjectID); err != nil {
		return err
	}
	return svc.repo.PairClassroomSubject(ClassroomSubject{ClassroomID: classroomID, SubjectID: subjectID})
}

func (svc *Service) Enroll(ne NewEnrollment) error {
	if err := ne.Validate(); err != nil {
		return err
	}
	if _, err := svc.repo.GetClassroomByID(ne.ClassroomID); err != nil {
		return err
	}
	return svc.repo.CreateEnrollment(Enrollment{
		ClassroomID: ne.ClassroomID,
		StudentID:   ne.StudentID,
		StudentName: ne.StudentName,
	})
}

func (svc *Service) Classrooms() ([]Classroom, error) {
	return svc.repo.QueryAllClassrooms()
}

func (svc *Service) SubjectsByClassroom(classroomID string) ([]Subject, error) {
	return svc.repo.QuerySubjectsByClassroom(classroomID)
}

// Roster returns the current enrollment of a classroom.
func (svc *Service) Roster(classroomID string) ([]Enrollment, error) {
	return svc.repo.QueryEnrollmentsByClassroom(classroomID)
}

func (svc *Service) IsPaired(classroomID, subjectID string) (bool, error) {
	return svc.repo.ClassroomSubjectExists(classroomID, subjectID)
}

// ClassroomName resolves a classroom's display name. A missing reference
// falls back to the raw ID; listings never fail on resolution.
func (svc *Service) ClassroomName(id string) string {
	c, err := svc.repo.GetClassroomByID(id)
	if err != nil {
		return id
	}
	return c.Name
}

// SubjectName resolves a subject's display name, raw ID on a miss.
func (svc *Service) SubjectName(id string) string {
	s, err := svc.repo.GetSubjectByID(id)
	if err != nil {
		return id
	}
	return s.Name
}
