package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/escolardev/escolar/core"
	"github.com/escolardev/escolar/core/task"
	"github.com/escolardev/escolar/core/user"
)

type taskApi struct {
	service *task.Service
}

func registerTaskAPI(g *echo.Group, auth echo.MiddlewareFunc, svc *task.Service) {
	api := taskApi{service: svc}

	tg := g.Group("/tasks", auth, panelMiddleware(user.PanelTeacher))
	tg.GET("", api.taskQuery)
	tg.POST("", api.taskCreate, teacherOnlyMiddleware())
	tg.GET("/:id", api.taskRetrieve)
	tg.PUT("/:id/records", api.taskUpdateRecords, teacherOnlyMiddleware())
	tg.DELETE("/:id", api.taskDestroy, teacherOnlyMiddleware())

	sg := g.Group("/student", auth, panelMiddleware(user.PanelStudent))
	sg.GET("/tasks", api.taskQueryForStudent)
}

func (api *taskApi) taskCreate(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	data := new(task.NewTask)
	if err := ctx.Bind(data); err != nil {
		return err
	}

	t, err := api.service.Create(actorFromClaims(claims), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, t)
}

// taskQuery lists a teacher's tasks, newest first. Teachers see their own;
// admins pick a teacher with ?teacher_id.
func (api *taskApi) taskQuery(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	teacherID := claims.DNI
	if user.Role(claims.Role) == user.RoleAdmin {
		teacherID = core.CleanString(ctx.QueryParam("teacher_id"))
		if teacherID == "" {
			return core.NewValidationError(nil, core.FieldError{Field: "teacher_id", Error: "this field is required"})
		}
	}

	tasks, err := api.service.ListForTeacher(actorFromClaims(claims), teacherID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.service.Resolve(tasks))
}

func (api *taskApi) taskRetrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	t, err := api.service.Get(actorFromClaims(claims), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}

type UpdateRecordsRequest struct {
	Students []task.StudentRecord `json:"students"`
}

func (api *taskApi) taskUpdateRecords(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	data := new(UpdateRecordsRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}

	if err := api.service.UpdateStudentRecords(actorFromClaims(claims), ctx.Param("id"), data.Students); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}

func (api *taskApi) taskDestroy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	if err := api.service.Delete(actorFromClaims(claims), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// taskQueryForStudent lists the tasks a student appears in, newest first.
// Students see their own; admins pick a student with ?student_id.
func (api *taskApi) taskQueryForStudent(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	studentID := claims.DNI
	if user.Role(claims.Role) == user.RoleAdmin {
		studentID = core.CleanString(ctx.QueryParam("student_id"))
		if studentID == "" {
			return core.NewValidationError(nil, core.FieldError{Field: "student_id", Error: "this field is required"})
		}
	}

	tasks, err := api.service.ListForStudent(actorFromClaims(claims), studentID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.service.Resolve(tasks))
}
