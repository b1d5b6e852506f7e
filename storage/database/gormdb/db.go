package gormdb

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Row types. Core models stay persistence-agnostic; the mapping lives here.
// Table names mirror the store's collection names.

type userRow struct {
	ID        string `gorm:"primaryKey"`
	DNI       string `gorm:"column:dni;uniqueIndex"`
	Name      string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (userRow) TableName() string { return "users" }

type classroomRow struct {
	ID   string `gorm:"primaryKey"`
	Name string
}

func (classroomRow) TableName() string { return "classrooms" }

type subjectRow struct {
	ID   string `gorm:"primaryKey"`
	Name string
}

func (subjectRow) TableName() string { return "subjects" }

type classroomSubjectRow struct {
	ClassroomID string `gorm:"primaryKey"`
	SubjectID   string `gorm:"primaryKey"`
}

func (classroomSubjectRow) TableName() string { return "classroom_subjects" }

type enrollmentRow struct {
	ClassroomID string `gorm:"primaryKey"`
	StudentID   string `gorm:"primaryKey"`
	StudentName string
}

func (enrollmentRow) TableName() string { return "classroom_enrollments" }

type taskRow struct {
	ID          string `gorm:"primaryKey"`
	ClassroomID string `gorm:"index"`
	SubjectID   string
	TeacherID   string `gorm:"index"`
	Name        string
	Date        string
	Observation string
	Type        string
	Students    datatypes.JSON
	CreatedAt   time.Time
}

func (taskRow) TableName() string { return "tasks" }

// Open connects to Postgres and migrates the schema.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "connecting to database")
	}
	if err := db.AutoMigrate(
		&userRow{},
		&classroomRow{},
		&subjectRow{},
		&classroomSubjectRow{},
		&enrollmentRow{},
		&taskRow{},
	); err != nil {
		return nil, errors.Wrap(err, "auto migrate")
	}
	return db, nil
}
