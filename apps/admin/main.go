package main

import (
	"log"
	"os"

	"github.com/escolardev/escolar/core"
	"github.com/escolardev/escolar/core/school"
	"github.com/escolardev/escolar/core/user"
	gormdb "github.com/escolardev/escolar/storage/database/gormdb"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up DB
	db, err := gormdb.Open(core.DatabaseDSN())
	errAndDie(err)

	// start CLI
	cli := commandLine{
		usrSvc:    user.NewService(gormdb.NewUserRepository(db)),
		schoolSvc: school.NewService(gormdb.NewSchoolRepository(db)),
		taskStore: gormdb.NewLegacyRosterStore(db),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
