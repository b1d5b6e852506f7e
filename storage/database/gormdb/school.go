package gormdb

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/escolardev/escolar/core/school"
)

type schoolRepository struct {
	db *gorm.DB
}

func NewSchoolRepository(db *gorm.DB) school.Repository {
	return &schoolRepository{db: db}
}

func (r *schoolRepository) CreateClassroom(c school.Classroom) (school.Classroom, error) {
	row := classroomRow{ID: uuid.NewString(), Name: c.Name}
	if err := r.db.Create(&row).Error; err != nil {
		return school.Classroom{}, errors.Wrap(err, "creating classroom")
	}
	return school.Classroom{ID: row.ID, Name: row.Name}, nil
}

func (r *schoolRepository) CreateSubject(s school.Subject) (school.Subject, error) {
	row := subjectRow{ID: uuid.NewString(), Name: s.Name}
	if err := r.db.Create(&row).Error; err != nil {
		return school.Subject{}, errors.Wrap(err, "creating subject")
	}
	return school.Subject{ID: row.ID, Name: row.Name}, nil
}

func (r *schoolRepository) PairClassroomSubject(cs school.ClassroomSubject) error {
	row := classroomSubjectRow{ClassroomID: cs.ClassroomID, SubjectID: cs.SubjectID}
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	return errors.Wrap(err, "pairing classroom and subject")
}

func (r *schoolRepository) CreateEnrollment(e school.Enrollment) error {
	row := enrollmentRow{ClassroomID: e.ClassroomID, StudentID: e.StudentID, StudentName: e.StudentName}
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	return errors.Wrap(err, "creating enrollment")
}

func (r *schoolRepository) QueryAllClassrooms() ([]school.Classroom, error) {
	var rows []classroomRow
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying classrooms")
	}
	res := make([]school.Classroom, 0, len(rows))
	for _, row := range rows {
		res = append(res, school.Classroom{ID: row.ID, Name: row.Name})
	}
	return res, nil
}

func (r *schoolRepository) GetClassroomByID(id string) (school.Classroom, error) {
	var row classroomRow
	if err := r.db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return school.Classroom{}, school.ErrClassroomNotFound
		}
		return school.Classroom{}, errors.Wrap(err, "querying classroom")
	}
	return school.Classroom{ID: row.ID, Name: row.Name}, nil
}

func (r *schoolRepository) GetSubjectByID(id string) (school.Subject, error) {
	var row subjectRow
	if err := r.db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return school.Subject{}, school.ErrSubjectNotFound
		}
		return school.Subject{}, errors.Wrap(err, "querying subject")
	}
	return school.Subject{ID: row.ID, Name: row.Name}, nil
}

func (r *schoolRepository) QuerySubjectsByClassroom(classroomID string) ([]school.Subject, error) {
	var rows []subjectRow
	err := r.db.
		Joins("JOIN classroom_subjects ON classroom_subjects.subject_id = subjects.id").
		Where("classroom_subjects.classroom_id = ?", classroomID).
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "querying subjects by classroom")
	}
	res := make([]school.Subject, 0, len(rows))
	for _, row := range rows {
		res = append(res, school.Subject{ID: row.ID, Name: row.Name})
	}
	return res, nil
}

func (r *schoolRepository) QueryEnrollmentsByClassroom(classroomID string) ([]school.Enrollment, error) {
	var rows []enrollmentRow
	if err := r.db.Where("classroom_id = ?", classroomID).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	res := make([]school.Enrollment, 0, len(rows))
	for _, row := range rows {
		res = append(res, school.Enrollment{
			ClassroomID: row.ClassroomID,
			StudentID:   row.StudentID,
			StudentName: row.StudentName,
		})
	}
	return res, nil
}

func (r *schoolRepository) ClassroomSubjectExists(classroomID, subjectID string) (bool, error) {
	var count int64
	err := r.db.Model(&classroomSubjectRow{}).
		Where("classroom_id = ? AND subject_id = ?", classroomID, subjectID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "querying classroom subject pair")
	}
	return count > 0, nil
}
