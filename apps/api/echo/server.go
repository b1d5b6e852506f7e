package echoapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/escolardev/escolar/core"
	"github.com/escolardev/escolar/core/school"
	"github.com/escolardev/escolar/core/task"
	"github.com/escolardev/escolar/core/user"
)

type (
	Options struct {
		Addr           string
		DisableReqLogs bool
		Logger         core.Logger
		UserSvc        *user.Service
		SchoolSvc      *school.Service
		TaskSvc        *task.Service
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	ConfigureAuth(
		core.Conf.GetString("appName"),
		mustSecretKey(),
		core.Conf.GetString("tokenCookieName"),
		core.Conf.GetDuration("tokenExpirationDelta"),
	)

	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	debug := core.Conf.GetBool("debug")

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || core.Conf.GetBool("testMode")) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger)
	s.app.Debug = debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	api := s.app.Group("/api")
	auth := authMiddleware()

	registerAuthAPI(api, s.opts.UserSvc)
	registerPanelAPI(api, auth)
	registerSchoolAPI(api, auth, s.opts.SchoolSvc)
	registerTaskAPI(api, auth, s.opts.TaskSvc)
}

// Start runs the listener until Stop shuts it down. Any other listener
// failure comes back as a shutdown error; the entrypoint exits on it.
func (s *server) Start() error {
	if err := s.app.Start(s.opts.Addr); err != nil && err != http.ErrServerClosed {
		return core.NewShutdownError(err.Error())
	}
	return nil
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Escolar API!")
}

// registerPanelAPI routes the three role-gated panels. Each verifies the
// session and consults the central gate; on failure the client redirects to
// the login entry point.
func registerPanelAPI(g *echo.Group, auth echo.MiddlewareFunc) {
	pg := g.Group("/panels", auth)
	pg.GET("/admin", panelHome(user.PanelAdmin), panelMiddleware(user.PanelAdmin))
	pg.GET("/teacher", panelHome(user.PanelTeacher), panelMiddleware(user.PanelTeacher))
	pg.GET("/student", panelHome(user.PanelStudent), panelMiddleware(user.PanelStudent))
}

func panelHome(panel user.Panel) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, echo.Map{
			"panel": panel,
			"dni":   claims.DNI,
			"name":  claims.Name,
		})
	}
}

// StopTimeout is how long in-flight requests get on shutdown.
const StopTimeout = 10 * time.Second
