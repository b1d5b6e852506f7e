package inmemdb

import (
	"github.com/google/uuid"

	"github.com/escolardev/escolar/core/school"
)

type schoolRepository struct {
	db *schoolTables
}

func NewSchoolRepository(db *DB) school.Repository {
	return &schoolRepository{db: db.school}
}

func (r *schoolRepository) CreateClassroom(c school.Classroom) (school.Classroom, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	c.ID = uuid.NewString()
	r.db.classrooms[c.ID] = &c
	return c, nil
}

func (r *schoolRepository) CreateSubject(s school.Subject) (school.Subject, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	s.ID = uuid.NewString()
	r.db.subjects[s.ID] = &s
	return s, nil
}

func (r *schoolRepository) PairClassroomSubject(cs school.ClassroomSubject) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	for _, p := range r.db.pairs {
		if p == cs {
			return nil // already paired
		}
	}
	r.db.pairs = append(r.db.pairs, cs)
	return nil
}

func (r *schoolRepository) CreateEnrollment(e school.Enrollment) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	for _, en := range r.db.enrollments {
		if en.ClassroomID == e.ClassroomID && en.StudentID == e.StudentID {
			return nil // already enrolled
		}
	}
	r.db.enrollments = append(r.db.enrollments, e)
	return nil
}

func (r *schoolRepository) QueryAllClassrooms() ([]school.Classroom, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	res := make([]school.Classroom, 0, len(r.db.classrooms))
	for _, c := range r.db.classrooms {
		res = append(res, *c)
	}
	return res, nil
}

func (r *schoolRepository) GetClassroomByID(id string) (school.Classroom, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if c, ok := r.db.classrooms[id]; ok {
		return *c, nil
	}
	return school.Classroom{}, school.ErrClassroomNotFound
}

func (r *schoolRepository) GetSubjectByID(id string) (school.Subject, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if s, ok := r.db.subjects[id]; ok {
		return *s, nil
	}
	return school.Subject{}, school.ErrSubjectNotFound
}

func (r *schoolRepository) QuerySubjectsByClassroom(classroomID string) ([]school.Subject, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	res := make([]school.Subject, 0)
	for _, p := range r.db.pairs {
		if p.ClassroomID != classroomID {
			continue
		}
		if s, ok := r.db.subjects[p.SubjectID]; ok {
			res = append(res, *s)
		}
	}
	return res, nil
}

func (r *schoolRepository) QueryEnrollmentsByClassroom(classroomID string) ([]school.Enrollment, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	res := make([]school.Enrollment, 0)
	for _, e := range r.db.enrollments {
		if e.ClassroomID == classroomID {
			res = append(res, e)
		}
	}
	return res, nil
}

func (r *schoolRepository) ClassroomSubjectExists(classroomID, subjectID string) (bool, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, p := range r.db.pairs {
		if p.ClassroomID == classroomID && p.SubjectID == subjectID {
			return true, nil
		}
	}
	return false, nil
}
