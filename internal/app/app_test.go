package app

import (
	"bytes"
	"classquiz_backend/internal/config"
	"classquiz_backend/pkg/database"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	app    *App
	clock  *clock.Mock
	upload string
}

var base = time.Date(2030, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatal(err)
	}

	uploadDir := t.TempDir()
	cfg := &config.Config{
		Server:   config.ServerConfig{Port: "0", Mode: gin.TestMode},
		Database: config.DatabaseConfig{Driver: "sqlite"},
		JWT:      config.JWTConfig{Secret: "integration-test-secret-0123456789", ExpireTime: time.Hour},
		Storage:  config.StorageConfig{Type: "local", LocalPath: uploadDir},
	}

	mock := clock.NewMock()
	mock.Set(base)

	a := &App{Config: cfg, DB: db, Clock: mock}
	a.build()
	t.Cleanup(func() {
		a.cancel()
		sqlDB.Close()
	})

	return &testServer{t: t, app: a, clock: mock, upload: uploadDir}
}

func (s *testServer) do(method, path, token string, body interface{}) (int, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.app.Router.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		s.t.Fatalf("%s %s: invalid body %q", method, path, w.Body.String())
	}
	return w.Code, env
}

func (s *testServer) mustDo(want int, method, path, token string, body interface{}, out interface{}) {
	s.t.Helper()
	code, env := s.do(method, path, token, body)
	if code != want {
		s.t.Fatalf("%s %s = %d (%s), want %d", method, path, code, env.Message, want)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			s.t.Fatalf("%s %s: decode data: %v", method, path, err)
		}
	}
}

func (s *testServer) register(name, email, role string) string {
	s.t.Helper()
	var res struct {
		Token string `json:"token"`
	}
	s.mustDo(http.StatusCreated, http.MethodPost, "/api/register", "", gin.H{
		"name": name, "email": email, "password": "secret123", "role": role,
	}, &res)
	return res.Token
}

type quizSetup struct {
	teacher, student string
	courseID         string
	quizID           string
	questionID       string
	correctID        string
	wrongID          string
}

func (s *testServer) setupQuiz(duration, attempts int) quizSetup {
	s.t.Helper()
	var qs quizSetup
	qs.teacher = s.register("Teacher", "teacher@example.com", "teacher")
	qs.student = s.register("Student", "student@example.com", "student")

	var course struct {
		ID       string `json:"id"`
		JoinCode string `json:"joinCode"`
	}
	s.mustDo(http.StatusCreated, http.MethodPost, "/api/teacher/courses", qs.teacher, gin.H{"title": "Physics"}, &course)
	if len(course.JoinCode) != 6 {
		s.t.Fatalf("join code = %q", course.JoinCode)
	}
	qs.courseID = course.ID

	s.mustDo(http.StatusOK, http.MethodPost, "/api/courses/join", qs.student, gin.H{"joinCode": strings.ToLower(course.JoinCode)}, nil)

	var quiz struct {
		ID        string `json:"id"`
		Published bool   `json:"published"`
	}
	s.mustDo(http.StatusCreated, http.MethodPost, "/api/teacher/courses/"+course.ID+"/quizzes", qs.teacher, gin.H{
		"title":           "Kinematics",
		"openAt":          base,
		"closeAt":         base.Add(time.Hour),
		"durationMinutes": duration,
		"attemptsAllowed": attempts,
	}, &quiz)
	if quiz.Published {
		s.t.Fatal("new quiz must start unpublished")
	}
	qs.quizID = quiz.ID

	var question struct {
		ID      string `json:"id"`
		Choices []struct {
			ID        string `json:"id"`
			IsCorrect bool   `json:"isCorrect"`
		} `json:"choices"`
	}
	s.mustDo(http.StatusCreated, http.MethodPost, "/api/teacher/quizzes/"+quiz.ID+"/questions", qs.teacher, gin.H{
		"prompt": "g on earth?",
		"points": 5,
		"choices": []gin.H{
			{"text": "9.8 m/s²", "isCorrect": true},
			{"text": "1.6 m/s²"},
		},
	}, &question)
	qs.questionID = question.ID
	qs.correctID = question.Choices[0].ID
	qs.wrongID = question.Choices[1].ID

	s.mustDo(http.StatusOK, http.MethodPost, "/api/teacher/quizzes/"+quiz.ID+"/publish", qs.teacher, nil, nil)
	return qs
}

func TestAttemptLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	qs := s.setupQuiz(30, 1)

	var available []struct {
		ID string `json:"id"`
	}
	s.mustDo(http.StatusOK, http.MethodGet, "/api/quizzes/available", qs.student, nil, &available)
	if len(available) != 1 || available[0].ID != qs.quizID {
		t.Fatalf("available = %+v", available)
	}

	s.clock.Add(5 * time.Minute)

	var started struct {
		AttemptID string    `json:"attemptId"`
		EndAt     time.Time `json:"endAt"`
		Resumed   bool      `json:"resumed"`
		Questions []struct {
			ID      string                   `json:"id"`
			Choices []map[string]interface{} `json:"choices"`
		} `json:"questions"`
	}
	s.mustDo(http.StatusCreated, http.MethodPost, "/api/quizzes/"+qs.quizID+"/attempts/start", qs.student, nil, &started)
	if !started.EndAt.Equal(base.Add(35 * time.Minute)) {
		t.Fatalf("endAt = %v", started.EndAt)
	}
	if len(started.Questions) != 1 {
		t.Fatalf("questions = %+v", started.Questions)
	}
	for _, c := range started.Questions[0].Choices {
		if _, leaked := c["isCorrect"]; leaked {
			t.Fatal("snapshot leaks correctness")
		}
	}

	var resumed struct {
		AttemptID string `json:"attemptId"`
		Resumed   bool   `json:"resumed"`
	}
	s.mustDo(http.StatusOK, http.MethodPost, "/api/quizzes/"+qs.quizID+"/attempts/start", qs.student, nil, &resumed)
	if !resumed.Resumed || resumed.AttemptID != started.AttemptID {
		t.Fatalf("resume = %+v", resumed)
	}

	answers := "/api/attempts/" + started.AttemptID + "/answers"
	s.mustDo(http.StatusOK, http.MethodPatch, answers, qs.student, gin.H{"questionId": qs.questionID, "selectedChoiceIds": []string{qs.wrongID}}, nil)
	s.mustDo(http.StatusOK, http.MethodPatch, answers, qs.student, gin.H{"questionId": qs.questionID, "selectedChoiceIds": []string{qs.correctID}}, nil)

	code, _ := s.do(http.MethodPatch, answers, qs.student, gin.H{"questionId": "nope", "selectedChoiceIds": []string{}})
	if code != http.StatusNotFound {
		t.Fatalf("unknown question = %d, want 404", code)
	}
	code, _ = s.do(http.MethodPatch, answers, qs.teacher, gin.H{"questionId": qs.questionID, "selectedChoiceIds": []string{}})
	if code != http.StatusForbidden {
		t.Fatalf("foreign autosave = %d, want 403", code)
	}

	var submitted struct {
		Score int `json:"score"`
	}
	s.mustDo(http.StatusOK, http.MethodPost, "/api/attempts/"+started.AttemptID+"/submit", qs.student, nil, &submitted)
	if submitted.Score != 5 {
		t.Fatalf("score = %d, want 5", submitted.Score)
	}

	code, env := s.do(http.MethodPost, "/api/attempts/"+started.AttemptID+"/submit", qs.student, nil)
	if code != http.StatusBadRequest || env.Message != "Attempt already submitted" {
		t.Fatalf("second submit = %d %q", code, env.Message)
	}

	var result struct {
		Status string `json:"status"`
		Score  int    `json:"score"`
	}
	s.mustDo(http.StatusOK, http.MethodGet, "/api/attempts/"+started.AttemptID+"/result", qs.student, nil, &result)
	if result.Status != "graded" || result.Score != 5 {
		t.Fatalf("result = %+v", result)
	}

	code, env = s.do(http.MethodPost, "/api/quizzes/"+qs.quizID+"/attempts/start", qs.student, nil)
	if code != http.StatusBadRequest {
		t.Fatalf("exhausted start = %d", code)
	}
	var counts struct {
		Taken   int `json:"taken"`
		Allowed int `json:"allowed"`
	}
	if err := json.Unmarshal(env.Data, &counts); err != nil || counts.Taken != 1 || counts.Allowed != 1 {
		t.Fatalf("exhausted data = %s", env.Data)
	}

	var grades struct {
		Quiz struct {
			Title string `json:"title"`
		} `json:"quiz"`
		Results []struct {
			AttemptID string `json:"attemptId"`
			Score     int    `json:"score"`
			Student   struct {
				Email string `json:"email"`
			} `json:"student"`
		} `json:"results"`
	}
	s.mustDo(http.StatusOK, http.MethodGet, "/api/teacher/quizzes/"+qs.quizID+"/grades", qs.teacher, nil, &grades)
	if len(grades.Results) != 1 || grades.Results[0].Student.Email != "student@example.com" || grades.Results[0].Score != 5 {
		t.Fatalf("grades = %+v", grades)
	}

	var export struct {
		URL   string `json:"url"`
		Count int    `json:"count"`
	}
	s.mustDo(http.StatusOK, http.MethodGet, "/api/teacher/quizzes/"+qs.quizID+"/grades/export", qs.teacher, nil, &export)
	if export.Count != 1 || !strings.HasPrefix(export.URL, "/uploads/exports/") {
		t.Fatalf("export = %+v", export)
	}
	csvBytes, err := os.ReadFile(filepath.Join(s.upload, strings.TrimPrefix(export.URL, "/uploads/")))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(csvBytes), "student@example.com,5,") {
		t.Fatalf("csv = %s", csvBytes)
	}

	s.mustDo(http.StatusOK, http.MethodDelete, "/api/teacher/quizzes/"+qs.quizID, qs.teacher, nil, nil)

	var mine struct {
		Results []struct {
			Quiz struct {
				Title string `json:"title"`
			} `json:"quiz"`
			Course struct {
				Title string `json:"title"`
			} `json:"course"`
			Score int `json:"score"`
		} `json:"results"`
	}
	s.mustDo(http.StatusOK, http.MethodGet, "/api/attempts/my", qs.student, nil, &mine)
	if len(mine.Results) != 1 || mine.Results[0].Quiz.Title != "Unknown Quiz" || mine.Results[0].Course.Title != "Unknown Course" || mine.Results[0].Score != 5 {
		t.Fatalf("my grades = %+v", mine)
	}
}

func TestSubmitAfterDeadlineOverHTTP(t *testing.T) {
	s := newTestServer(t)
	qs := s.setupQuiz(10, 2)

	var started struct {
		AttemptID string `json:"attemptId"`
	}
	s.mustDo(http.StatusCreated, http.MethodPost, "/api/quizzes/"+qs.quizID+"/attempts/start", qs.student, nil, &started)

	s.clock.Add(11 * time.Minute)

	code, env := s.do(http.MethodPatch, "/api/attempts/"+started.AttemptID+"/answers", qs.student,
		gin.H{"questionId": qs.questionID, "selectedChoiceIds": []string{qs.correctID}})
	if code != http.StatusBadRequest || env.Message != "Attempt expired" {
		t.Fatalf("late autosave = %d %q", code, env.Message)
	}

	code, env = s.do(http.MethodPost, "/api/attempts/"+started.AttemptID+"/submit", qs.student, nil)
	if code != http.StatusBadRequest || env.Message != "Attempt expired" {
		t.Fatalf("late submit = %d %q", code, env.Message)
	}

	var result struct {
		Status string `json:"status"`
		Score  int    `json:"score"`
	}
	s.mustDo(http.StatusOK, http.MethodGet, "/api/attempts/"+started.AttemptID+"/result", qs.student, nil, &result)
	if result.Status != "expired" || result.Score != 0 {
		t.Fatalf("result = %+v", result)
	}

	// 过期的作答不计次数，可以重新开始
	var again struct {
		AttemptID string `json:"attemptId"`
	}
	s.mustDo(http.StatusCreated, http.MethodPost, "/api/quizzes/"+qs.quizID+"/attempts/start", qs.student, nil, &again)
	if again.AttemptID == started.AttemptID {
		t.Fatal("expected a fresh attempt")
	}
}

func TestAccessControlOverHTTP(t *testing.T) {
	s := newTestServer(t)
	qs := s.setupQuiz(10, 1)
	outsider := s.register("Outsider", "outsider@example.com", "student")

	code, _ := s.do(http.MethodGet, "/api/me", "", nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("anonymous /me = %d", code)
	}

	code, _ = s.do(http.MethodPost, "/api/teacher/courses", qs.student, gin.H{"title": "Nope"})
	if code != http.StatusForbidden {
		t.Fatalf("student creating course = %d", code)
	}

	code, env := s.do(http.MethodPost, "/api/quizzes/"+qs.quizID+"/attempts/start", outsider, nil)
	if code != http.StatusForbidden || env.Message != "Not enrolled in course" {
		t.Fatalf("outsider start = %d %q", code, env.Message)
	}

	code, _ = s.do(http.MethodPost, "/api/quizzes/missing/attempts/start", qs.student, nil)
	if code != http.StatusNotFound {
		t.Fatalf("missing quiz = %d", code)
	}

	// 其他教师不能加入课程或作答
	rival := s.register("Rival", "rival@example.com", "teacher")
	var course struct {
		JoinCode string `json:"joinCode"`
	}
	s.mustDo(http.StatusOK, http.MethodGet, "/api/courses/"+qs.courseID, qs.teacher, nil, &course)
	for _, tc := range []struct {
		method, path string
		body         interface{}
	}{
		{http.MethodPost, "/api/courses/join", gin.H{"joinCode": course.JoinCode}},
		{http.MethodPost, "/api/courses/" + qs.courseID + "/join", gin.H{"joinCode": course.JoinCode}},
		{http.MethodPost, "/api/quizzes/" + qs.quizID + "/attempts/start", nil},
		{http.MethodGet, "/api/attempts/my", nil},
	} {
		if code, _ := s.do(tc.method, tc.path, rival, tc.body); code != http.StatusForbidden {
			t.Fatalf("teacher %s %s = %d, want 403", tc.method, tc.path, code)
		}
	}
	if code, _ := s.do(http.MethodPost, "/api/quizzes/"+qs.quizID+"/attempts/start", qs.teacher, nil); code != http.StatusForbidden {
		t.Fatalf("owner start = %d, want 403", code)
	}

	code, env = s.do(http.MethodPost, "/api/register", "", gin.H{
		"name": "Again", "email": "student@example.com", "password": "secret123", "role": "student",
	})
	if code != http.StatusConflict || env.Message != "Email already registered" {
		t.Fatalf("duplicate register = %d %q", code, env.Message)
	}
	code, env = s.do(http.MethodPost, "/api/login", "", gin.H{"email": "student@example.com", "password": "wrong-pass"})
	if code != http.StatusUnauthorized || env.Message != "Invalid email or password" {
		t.Fatalf("bad login = %d %q", code, env.Message)
	}

	code, _ = s.do(http.MethodGet, "/api/teacher/courses/"+qs.courseID+"/roster", outsider, nil)
	if code != http.StatusForbidden {
		t.Fatalf("student roster = %d", code)
	}

	var roster []struct {
		Email string `json:"email"`
	}
	s.mustDo(http.StatusOK, http.MethodGet, "/api/teacher/courses/"+qs.courseID+"/roster", qs.teacher, nil, &roster)
	if len(roster) != 1 || roster[0].Email != "student@example.com" {
		t.Fatalf("roster = %+v", roster)
	}

	var detail struct {
		Questions []struct {
			Choices []map[string]interface{} `json:"choices"`
		} `json:"questions"`
	}
	s.mustDo(http.StatusOK, http.MethodGet, "/api/quizzes/"+qs.quizID, qs.student, nil, &detail)
	for _, c := range detail.Questions[0].Choices {
		if _, leaked := c["isCorrect"]; leaked {
			t.Fatal("student quiz detail leaks correctness")
		}
	}

	s.mustDo(http.StatusOK, http.MethodGet, "/api/health", "", nil, nil)
}

func TestSweepExpiresStaleAttempts(t *testing.T) {
	s := newTestServer(t)
	qs := s.setupQuiz(10, 1)

	var started struct {
		AttemptID string `json:"attemptId"`
	}
	s.mustDo(http.StatusCreated, http.MethodPost, "/api/quizzes/"+qs.quizID+"/attempts/start", qs.student, nil, &started)

	s.clock.Add(10 * time.Minute)
	n, err := s.app.services.attempt.SweepExpired(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("sweep = %d, %v", n, err)
	}
}
