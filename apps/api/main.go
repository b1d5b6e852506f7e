package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	echoapi "github.com/escolardev/escolar/apps/api/echo"
	"github.com/escolardev/escolar/core"
	"github.com/escolardev/escolar/core/school"
	"github.com/escolardev/escolar/core/task"
	"github.com/escolardev/escolar/core/user"
	logsvc "github.com/escolardev/escolar/services/logger"
	gormdb "github.com/escolardev/escolar/storage/database/gormdb"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	var logger core.Logger
	if core.Conf.GetBool("debug") {
		logger = core.NewConsoleLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std)
	}

	if core.Conf.GetString("secretKey") == "" {
		std.Fatal("secretKey is not set; refusing to start")
	}

	// set up DB
	db, err := gormdb.Open(core.DatabaseDSN())
	if err != nil {
		std.Fatal(err)
	}

	// set up services
	usrSvc := user.NewService(gormdb.NewUserRepository(db))
	schoolSvc := school.NewService(gormdb.NewSchoolRepository(db))
	taskSvc := task.NewService(gormdb.NewTaskRepository(db), schoolSvc, usrSvc)

	// start API server
	app := echoapi.NewServer(&echoapi.Options{
		Addr:      core.Conf.GetString("serverAddr"),
		Logger:    logger,
		UserSvc:   usrSvc,
		SchoolSvc: schoolSvc,
		TaskSvc:   taskSvc,
	})

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.Start()
	}()

	// shutdown
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if core.IsShutdown(err) {
			std.Fatalf("server error: %v", err)
		}

	case sig := <-sigs:
		logger.Info(fmt.Sprintf("%v: shutting down...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), echoapi.StopTimeout)
		defer cancel()

		if err := app.Stop(ctx); err != nil {
			std.Fatalf("could not stop server gracefully: %v", err)
		}
	}
}
