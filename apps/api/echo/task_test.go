package echoapi

import (
	"net/http"
	"testing"

	"github.com/escolardev/escolar/core/school"
	"github.com/escolardev/escolar/core/task"
	"github.com/escolardev/escolar/core/user"
)

type taskFixture struct {
	*testEnv
	classroom school.Classroom
	subject   school.Subject

	adminToken   string
	teacherToken string
	teacher2     user.User
	studentToken string
}

const (
	fixTeacherDNI  = "30111222"
	fixTeacher2DNI = "30999888"
	fixStudent1DNI = "45111222"
	fixStudent2DNI = "45333444"
	fixAdminDNI    = "20111222"
)

func setupTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	env := setup(t)

	admin := createUser(t, env.usrRepo, fixAdminDNI, "Marta Sosa", user.RoleAdmin)
	teacher := createUser(t, env.usrRepo, fixTeacherDNI, "Laura Gomez", user.RoleTeacher)
	teacher2 := createUser(t, env.usrRepo, fixTeacher2DNI, "Pedro Ruiz", user.RoleTeacher)
	student := createUser(t, env.usrRepo, fixStudent1DNI, "Ana Diaz", user.RoleStudent)

	classroom, err := env.schoolSvc.AddClassroom(school.NewClassroom{Name: "5to A"})
	if err != nil {
		t.Fatalf("AddClassroom() failed: %v", err)
	}
	subject, err := env.schoolSvc.AddSubject(school.NewSubject{Name: "Matematica"})
	if err != nil {
		t.Fatalf("AddSubject() failed: %v", err)
	}
	if err := env.schoolSvc.Pair(classroom.ID, subject.ID); err != nil {
		t.Fatalf("Pair() failed: %v", err)
	}
	for _, e := range []school.NewEnrollment{
		{ClassroomID: classroom.ID, StudentID: fixStudent1DNI, StudentName: "Ana Diaz"},
		{ClassroomID: classroom.ID, StudentID: fixStudent2DNI, StudentName: "Juan Paz"},
	} {
		if err := env.schoolSvc.Enroll(e); err != nil {
			t.Fatalf("Enroll() failed: %v", err)
		}
	}

	return &taskFixture{
		testEnv:      env,
		classroom:    classroom,
		subject:      subject,
		adminToken:   getToken(t, admin),
		teacherToken: getToken(t, teacher),
		teacher2:     teacher2,
		studentToken: getToken(t, student),
	}
}

func (f *taskFixture) newTask() task.NewTask {
	return task.NewTask{
		ClassroomID: f.classroom.ID,
		SubjectID:   f.subject.ID,
		Date:        "2026-05-20",
		Name:        "Fracciones",
		Observation: "Unidad 3",
		Type:        task.TypeEvaluation,
		Students: []task.StudentRecord{
			{StudentID: fixStudent1DNI, Value: "7"},
			{StudentID: fixStudent2DNI, Value: "4"},
		},
	}
}

func (f *taskFixture) createTask(t *testing.T, teacherDNI, date string) task.Task {
	t.Helper()
	nt := f.newTask()
	nt.Date = date
	created, err := f.taskSvc.Create(task.Actor{DNI: teacherDNI, Role: user.RoleTeacher}, nt)
	if err != nil {
		t.Fatalf("creating fixture task failed: %v", err)
	}
	return created
}

func Test_taskApi_taskCreate(t *testing.T) {
	f := setupTaskFixture(t)

	badValue := f.newTask()
	badValue.Students[0].Value = "11"

	unpaired := f.newTask()
	unpaired.SubjectID = "some-other-subject"

	tests := []httpTest{
		{name: "auth required", body: marchallObj(t, f.newTask()), wantCode: http.StatusUnauthorized},
		{
			name: "students cannot create", token: f.studentToken, body: marchallObj(t, f.newTask()),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "admins observe, never create", token: f.adminToken, body: marchallObj(t, f.newTask()),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "score out of range", token: f.teacherToken, body: marchallObj(t, badValue), wantCode: http.StatusBadRequest},
		{name: "unpaired subject", token: f.teacherToken, body: marchallObj(t, unpaired), wantCode: http.StatusBadRequest},
		{name: "teacher creates", token: f.teacherToken, body: marchallObj(t, f.newTask()), wantCode: http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/api/tasks", tt.token, tt.body)
			f.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_taskApi_taskQuery(t *testing.T) {
	f := setupTaskFixture(t)
	f.createTask(t, fixTeacherDNI, "2026-03-01")
	f.createTask(t, fixTeacherDNI, "2026-05-20")
	f.createTask(t, fixTeacher2DNI, "2026-04-10")

	ownTasks, err := f.taskSvc.ListForTeacher(task.Actor{DNI: fixTeacherDNI, Role: user.RoleTeacher}, fixTeacherDNI)
	if err != nil {
		t.Fatalf("ListForTeacher() failed: %v", err)
	}

	tests := []httpTest{
		{name: "auth required", path: "/api/tasks", wantCode: http.StatusUnauthorized},
		{name: "students denied", path: "/api/tasks", token: f.studentToken, wantCode: http.StatusForbidden},
		{
			name: "teacher sees own, resolved and newest first", path: "/api/tasks", token: f.teacherToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, f.taskSvc.Resolve(ownTasks)),
		},
		{
			name: "admin must pick a teacher", path: "/api/tasks", token: f.adminToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"teacher_id": "this field is required"}),
		},
		{
			name: "admin lists any teacher", path: "/api/tasks?teacher_id=" + fixTeacherDNI, token: f.adminToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, f.taskSvc.Resolve(ownTasks)),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			f.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_taskApi_taskRetrieve(t *testing.T) {
	f := setupTaskFixture(t)
	created := f.createTask(t, fixTeacherDNI, "2026-05-20")
	teacher2Token := getToken(t, f.teacher2)

	tests := []httpTest{
		{name: "owner reads", path: "/api/tasks/" + created.ID, token: f.teacherToken, wantCode: http.StatusOK, wantData: marchallObj(t, created)},
		{name: "admin reads", path: "/api/tasks/" + created.ID + "?teacher_id=" + fixTeacherDNI, token: f.adminToken, wantCode: http.StatusOK, wantData: marchallObj(t, created)},
		{
			name: "another teacher denied", path: "/api/tasks/" + created.ID, token: teacher2Token,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "unknown id", path: "/api/tasks/nope", token: f.teacherToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			f.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_taskApi_taskUpdateRecords(t *testing.T) {
	f := setupTaskFixture(t)
	created := f.createTask(t, fixTeacherDNI, "2026-05-20")
	teacher2Token := getToken(t, f.teacher2)
	path := "/api/tasks/" + created.ID + "/records"

	partial := marchallObj(t, UpdateRecordsRequest{Students: []task.StudentRecord{
		{StudentID: fixStudent1DNI, Value: "9"},
	}})

	tests := []httpTest{
		{name: "auth required", path: path, body: partial, wantCode: http.StatusUnauthorized},
		{name: "another teacher denied", path: path, token: teacher2Token, body: partial, wantCode: http.StatusForbidden},
		{name: "admins never mutate", path: path, token: f.adminToken, body: partial, wantCode: http.StatusForbidden},
		{
			name: "invalid value", path: path, token: f.teacherToken,
			body: marchallObj(t, UpdateRecordsRequest{Students: []task.StudentRecord{
				{StudentID: fixStudent1DNI, Value: "NL"},
			}}),
			wantCode: http.StatusBadRequest,
		},
		{name: "unknown id", path: "/api/tasks/nope/records", token: f.teacherToken, body: partial, wantCode: http.StatusNotFound},
		{
			name: "owner saves a partial sheet", path: path, token: f.teacherToken, body: partial,
			wantCode: http.StatusOK, wantData: marchallObj(t, map[string]bool{"success": true}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, tt.path, tt.token, tt.body)
			f.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// ungraded students were kept with an empty placeholder
	got, err := f.taskSvc.Get(task.Actor{DNI: fixTeacherDNI, Role: user.RoleTeacher}, created.ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	values := map[string]string{}
	for _, rec := range got.Students {
		values[rec.StudentID] = rec.Value
	}
	if values[fixStudent1DNI] != "9" {
		t.Errorf("value for %s = %q, want %q", fixStudent1DNI, values[fixStudent1DNI], "9")
	}
	if v, ok := values[fixStudent2DNI]; !ok || v != "" {
		t.Errorf("value for %s = %q (present %v), want empty placeholder", fixStudent2DNI, v, ok)
	}
}

func Test_taskApi_taskDestroy(t *testing.T) {
	f := setupTaskFixture(t)
	created := f.createTask(t, fixTeacherDNI, "2026-05-20")
	teacher2Token := getToken(t, f.teacher2)
	path := "/api/tasks/" + created.ID

	tests := []httpTest{
		{name: "auth required", path: path, wantCode: http.StatusUnauthorized},
		{
			name: "another teacher denied", path: path, token: teacher2Token,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "admins never delete", path: path, token: f.adminToken, wantCode: http.StatusForbidden},
		{name: "owner deletes", path: path, token: f.teacherToken, wantCode: http.StatusNoContent},
		{name: "gone afterwards", path: path, token: f.teacherToken, wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodDelete, tt.path, tt.token)
			f.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_taskApi_taskQueryForStudent(t *testing.T) {
	f := setupTaskFixture(t)
	f.createTask(t, fixTeacherDNI, "2026-03-01")
	f.createTask(t, fixTeacher2DNI, "2026-05-20")

	studentTasks, err := f.taskSvc.ListForStudent(task.Actor{DNI: fixStudent1DNI, Role: user.RoleStudent}, fixStudent1DNI)
	if err != nil {
		t.Fatalf("ListForStudent() failed: %v", err)
	}
	if len(studentTasks) != 2 {
		t.Fatalf("fixture: got %d tasks for the student, want 2", len(studentTasks))
	}

	tests := []httpTest{
		{name: "auth required", path: "/api/student/tasks", wantCode: http.StatusUnauthorized},
		{name: "teachers denied", path: "/api/student/tasks", token: f.teacherToken, wantCode: http.StatusForbidden},
		{
			name: "student sees own, newest first", path: "/api/student/tasks", token: f.studentToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, f.taskSvc.Resolve(studentTasks)),
		},
		{
			name: "admin must pick a student", path: "/api/student/tasks", token: f.adminToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"student_id": "this field is required"}),
		},
		{
			name: "admin lists any student", path: "/api/student/tasks?student_id=" + fixStudent1DNI, token: f.adminToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, f.taskSvc.Resolve(studentTasks)),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			f.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
