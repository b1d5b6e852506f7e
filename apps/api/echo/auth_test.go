package echoapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/escolardev/escolar/core/user"
)

func Test_authApi_login(t *testing.T) {
	env := setup(t)
	createUser(t, env.usrRepo, "30111222", "Laura Gomez", user.RoleTeacher)

	tests := []httpTest{
		{
			name: "DNI required", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"dni": "this field is required"}),
		},
		{
			name: "unknown DNI stays generic", body: marchallObj(t, LoginRequest{DNI: "00000000"}),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "access denied"}),
		},
		{
			name: "known DNI", body: marchallObj(t, LoginRequest{DNI: "30111222"}),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, LoginResponse{Success: true, Role: "DOCENTE", Name: "Laura Gomez"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/api/auth/login", tt.body)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_authApi_login_cookie(t *testing.T) {
	env := setup(t)
	createUser(t, env.usrRepo, "30111222", "Laura Gomez", user.RoleTeacher)

	req, rec := newRequest(http.MethodPost, "/api/auth/login", marchallObj(t, LoginRequest{DNI: "30111222"}))
	env.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: code = %v; body = %s", rec.Code, rec.Body.String())
	}

	cookie := findCookie(rec, testCookieName)
	if cookie == nil {
		t.Fatal("login did not set the session cookie")
	}
	if cookie.Value == "" {
		t.Error("session cookie is empty")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HTTP-only")
	}
	if !cookie.Secure {
		t.Error("session cookie must be Secure")
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Errorf("SameSite = %v, want strict", cookie.SameSite)
	}
	// the cookie lifetime tracks the configured token TTL
	if want := int(testExpDelta / time.Second); cookie.MaxAge != want {
		t.Errorf("MaxAge = %d, want %d", cookie.MaxAge, want)
	}

	// the token from the cookie round-trips through verify
	vreq, vrec := newAuthRequest(http.MethodGet, "/api/auth/verify", cookie.Value)
	env.app.ServeHTTP(vrec, vreq)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, VerifyResponse{DNI: "30111222", Role: "DOCENTE", Name: "Laura Gomez"}),
	}, vrec)
}

func Test_authApi_verify(t *testing.T) {
	env := setup(t)
	usr := createUser(t, env.usrRepo, "45111222", "Ana Diaz", user.RoleStudent)

	// a token issued in the past, now beyond its TTL
	nowFunc = func() time.Time { return time.Now().Add(-2 * testExpDelta) }
	expiredToken := getToken(t, usr)
	nowFunc = time.Now

	tests := []httpTest{
		{
			name: "no cookie", wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "user not authenticated"}),
		},
		{
			name: "garbage token", token: "not.a.token", wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "invalid token"}),
		},
		{
			name: "expired token", token: expiredToken, wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "invalid token"}),
		},
		{
			name: "valid token", token: getToken(t, usr), wantCode: http.StatusOK,
			wantData: marchallObj(t, VerifyResponse{DNI: "45111222", Role: "ESTUDIANTE", Name: "Ana Diaz"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/api/auth/verify", tt.token)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_authApi_logout(t *testing.T) {
	env := setup(t)
	usr := createUser(t, env.usrRepo, "45111222", "Ana Diaz", user.RoleStudent)

	req, rec := newAuthRequest(http.MethodPost, "/api/auth/logout", getToken(t, usr))
	env.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, map[string]bool{"success": true}),
	}, rec)

	cookie := findCookie(rec, testCookieName)
	if cookie == nil {
		t.Fatal("logout did not reset the session cookie")
	}
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Errorf("cookie = (%q, MaxAge %d), want cleared", cookie.Value, cookie.MaxAge)
	}

	// the client now carries the cleared cookie; verify must fail
	vreq, vrec := newAuthRequest(http.MethodGet, "/api/auth/verify", cookie.Value)
	env.app.ServeHTTP(vrec, vreq)
	if vrec.Code != http.StatusUnauthorized {
		t.Errorf("verify after logout: code = %v, want 401", vrec.Code)
	}

	// logout without a session also succeeds
	req2, rec2 := newRequest(http.MethodPost, "/api/auth/logout")
	env.app.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusOK {
		t.Errorf("logout without session: code = %v, want 200", rec2.Code)
	}
}

func Test_panelAccess(t *testing.T) {
	env := setup(t)
	admin := createUser(t, env.usrRepo, "20111222", "Marta Sosa", user.RoleAdmin)
	teacher := createUser(t, env.usrRepo, "30111222", "Laura Gomez", user.RoleTeacher)
	student := createUser(t, env.usrRepo, "45111222", "Ana Diaz", user.RoleStudent)

	adminToken := getToken(t, admin)
	teacherToken := getToken(t, teacher)
	studentToken := getToken(t, student)
	forbidden := marchallObj(t, httpErr{Error: "permission denied"})

	tests := []httpTest{
		{name: "no session", path: "/api/panels/admin", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "user not authenticated"})},

		{name: "admin on admin panel", path: "/api/panels/admin", token: adminToken, wantCode: http.StatusOK},
		{name: "admin on teacher panel", path: "/api/panels/teacher", token: adminToken, wantCode: http.StatusOK},
		{name: "admin on student panel", path: "/api/panels/student", token: adminToken, wantCode: http.StatusOK},

		{name: "teacher on teacher panel", path: "/api/panels/teacher", token: teacherToken, wantCode: http.StatusOK},
		{name: "teacher on admin panel", path: "/api/panels/admin", token: teacherToken, wantCode: http.StatusForbidden, wantData: forbidden},
		{name: "teacher on student panel", path: "/api/panels/student", token: teacherToken, wantCode: http.StatusForbidden, wantData: forbidden},

		{name: "student on student panel", path: "/api/panels/student", token: studentToken, wantCode: http.StatusOK},
		{name: "student on admin panel", path: "/api/panels/admin", token: studentToken, wantCode: http.StatusForbidden, wantData: forbidden},
		{name: "student on teacher panel", path: "/api/panels/teacher", token: studentToken, wantCode: http.StatusForbidden, wantData: forbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
