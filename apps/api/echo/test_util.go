package echoapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"

	"github.com/escolardev/escolar/core"
	"github.com/escolardev/escolar/core/school"
	"github.com/escolardev/escolar/core/task"
	"github.com/escolardev/escolar/core/user"
	inmemdb "github.com/escolardev/escolar/storage/database/inmem"
)

var (
	testAppName    = "Escolar"
	testSecretKey  = []byte("secret")
	testCookieName = "token"
	testExpDelta   = 10 * time.Minute
)

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

type testEnv struct {
	app       *echo.Echo
	usrSvc    *user.Service
	schoolSvc *school.Service
	taskSvc   *task.Service
	usrRepo   user.Repository
	taskRepo  task.Repository
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	ConfigureAuth(testAppName, testSecretKey, testCookieName, testExpDelta)
	nowFunc = time.Now

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	usrRepo := inmemdb.NewUserRepository(db)
	taskRepo := inmemdb.NewTaskRepository(db)
	usrSvc := user.NewService(usrRepo)
	schoolSvc := school.NewService(inmemdb.NewSchoolRepository(db))
	taskSvc := task.NewService(taskRepo, schoolSvc, usrSvc)

	app := echo.New()
	app.Pre(middleware.RemoveTrailingSlash())
	app.HTTPErrorHandler = newAppHTTPErrorHandler(core.NewConsoleLogger(log.New(io.Discard, "", 0)))

	api := app.Group("/api")
	auth := authMiddleware()
	registerAuthAPI(api, usrSvc)
	registerPanelAPI(api, auth)
	registerSchoolAPI(api, auth, schoolSvc)
	registerTaskAPI(api, auth, taskSvc)

	return &testEnv{
		app:       app,
		usrSvc:    usrSvc,
		schoolSvc: schoolSvc,
		taskSvc:   taskSvc,
		usrRepo:   usrRepo,
		taskRepo:  taskRepo,
	}
}

// newAuthRequest sends the token the way clients do: in the session cookie.
func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func createUser(t *testing.T, repo user.Repository, dni, name string, role user.Role) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr, err := repo.CreateUser(user.User{DNI: dni, Name: name, Role: role, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	t.Helper()
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body = %s", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// findCookie digs the named cookie out of a recorded response.
func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
