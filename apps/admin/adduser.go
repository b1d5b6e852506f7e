package main

import (
	"fmt"

	"github.com/escolardev/escolar/core/school"
	"github.com/escolardev/escolar/core/user"
)

func (cli *commandLine) addUser(dni, name, role string) error {
	nu := user.NewUser{DNI: dni, Name: name, Role: role}
	if err := nu.Validate(cli.usrSvc); err != nil {
		return err
	}
	usr, err := cli.usrSvc.Create(nu)
	if err != nil {
		return err
	}
	fmt.Printf("user created: %s (%s, %s)\n", usr.Name, usr.DNI, usr.Role)
	return nil
}

func (cli *commandLine) listUsers() error {
	users, err := cli.usrSvc.QueryAll()
	if err != nil {
		return err
	}
	for _, usr := range users {
		fmt.Printf("%s\t%s\t%s\n", usr.DNI, usr.Role, usr.Name)
	}
	fmt.Printf("%d user(s)\n", len(users))
	return nil
}

func (cli *commandLine) addClassroom(name string) error {
	c, err := cli.schoolSvc.AddClassroom(school.NewClassroom{Name: name})
	if err != nil {
		return err
	}
	fmt.Printf("classroom created: %s (%s)\n", c.Name, c.ID)
	return nil
}

func (cli *commandLine) addSubject(name string) error {
	s, err := cli.schoolSvc.AddSubject(school.NewSubject{Name: name})
	if err != nil {
		return err
	}
	fmt.Printf("subject created: %s (%s)\n", s.Name, s.ID)
	return nil
}

func (cli *commandLine) pair(classroomID, subjectID string) error {
	if err := cli.schoolSvc.Pair(classroomID, subjectID); err != nil {
		return err
	}
	fmt.Printf("subject %s is now taught in classroom %s\n", subjectID, classroomID)
	return nil
}

func (cli *commandLine) enroll(classroomID, studentID, studentName string) error {
	ne := school.NewEnrollment{ClassroomID: classroomID, StudentID: studentID, StudentName: studentName}
	if err := cli.schoolSvc.Enroll(ne); err != nil {
		return err
	}
	fmt.Printf("student %s enrolled in classroom %s\n", studentID, classroomID)
	return nil
}
