package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/escolardev/escolar/core/school"
	"github.com/escolardev/escolar/core/user"
)

type schoolApi struct {
	service *school.Service
}

// registerSchoolAPI exposes the reference data backing the teacher panel
// forms: classrooms, their subjects, their rosters. Read-only over HTTP;
// writes happen through the admin CLI.
func registerSchoolAPI(g *echo.Group, auth echo.MiddlewareFunc, svc *school.Service) {
	api := schoolApi{service: svc}

	cg := g.Group("/classrooms", auth, panelMiddleware(user.PanelTeacher))
	cg.GET("", api.classroomQuery)
	cg.GET("/:id/subjects", api.classroomSubjects)
	cg.GET("/:id/students", api.classroomRoster)
}

func (api *schoolApi) classroomQuery(ctx echo.Context) error {
	classrooms, err := api.service.Classrooms()
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, classrooms)
}

func (api *schoolApi) classroomSubjects(ctx echo.Context) error {
	subjects, err := api.service.SubjectsByClassroom(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *schoolApi) classroomRoster(ctx echo.Context) error {
	roster, err := api.service.Roster(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, roster)
}
