package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/escolardev/escolar/core/school"
	"github.com/escolardev/escolar/core/task"
	"github.com/escolardev/escolar/core/user"
)

var errHelp = errors.New("help provided")

// commandLine is the out-of-band provisioning step: users, classrooms,
// subjects, pairings and enrollments are only ever created here, never over
// HTTP.
type commandLine struct {
	usrSvc    *user.Service
	schoolSvc *school.Service
	taskStore task.LegacyRosterStore
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  adduser -dni DNI -name NAME -role ADMIN|DOCENTE|ESTUDIANTE - provision a user")
	fmt.Println("  listusers                                                  - list provisioned users")
	fmt.Println("  addclassroom -name NAME                                    - create a classroom")
	fmt.Println("  addsubject -name NAME                                      - create a subject")
	fmt.Println("  pair -classroom ID -subject ID                             - teach a subject in a classroom")
	fmt.Println("  enroll -classroom ID -student DNI -name NAME               - enroll a student")
	fmt.Println("  migratelegacy                                              - normalize legacy task rosters")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "adduser":
		cmd := flag.NewFlagSet("adduser", flag.ExitOnError)
		dni := cmd.String("dni", "", "The user's DNI.")
		name := cmd.String("name", "", "The user's full name.")
		role := cmd.String("role", "", "One of ADMIN, DOCENTE, ESTUDIANTE.")
		if err := cmd.Parse(args[2:]); err != nil {
			return err
		}
		if *dni == "" || *name == "" || *role == "" {
			cmd.Usage()
			return errHelp
		}
		return cli.addUser(*dni, *name, *role)

	case "addclassroom":
		cmd := flag.NewFlagSet("addclassroom", flag.ExitOnError)
		name := cmd.String("name", "", "The classroom's display name.")
		if err := cmd.Parse(args[2:]); err != nil {
			return err
		}
		if *name == "" {
			cmd.Usage()
			return errHelp
		}
		return cli.addClassroom(*name)

	case "addsubject":
		cmd := flag.NewFlagSet("addsubject", flag.ExitOnError)
		name := cmd.String("name", "", "The subject's display name.")
		if err := cmd.Parse(args[2:]); err != nil {
			return err
		}
		if *name == "" {
			cmd.Usage()
			return errHelp
		}
		return cli.addSubject(*name)

	case "pair":
		cmd := flag.NewFlagSet("pair", flag.ExitOnError)
		classroom := cmd.String("classroom", "", "The classroom ID.")
		subject := cmd.String("subject", "", "The subject ID.")
		if err := cmd.Parse(args[2:]); err != nil {
			return err
		}
		if *classroom == "" || *subject == "" {
			cmd.Usage()
			return errHelp
		}
		return cli.pair(*classroom, *subject)

	case "enroll":
		cmd := flag.NewFlagSet("enroll", flag.ExitOnError)
		classroom := cmd.String("classroom", "", "The classroom ID.")
		student := cmd.String("student", "", "The student's DNI.")
		name := cmd.String("name", "", "The student's display name.")
		if err := cmd.Parse(args[2:]); err != nil {
			return err
		}
		if *classroom == "" || *student == "" || *name == "" {
			cmd.Usage()
			return errHelp
		}
		return cli.enroll(*classroom, *student, *name)

	case "listusers":
		return cli.listUsers()

	case "migratelegacy":
		return cli.migrateLegacy()

	default:
		cli.printUsage()
		return errHelp
	}
}
