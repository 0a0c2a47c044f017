package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"lms/config"
	"lms/database"
	"lms/database/dbtest"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type apiClient struct {
	t   *testing.T
	app *fiber.App
}

func newAPI(t *testing.T) *apiClient {
	config.AppConfig = config.Default()
	database.Database.Db = dbtest.NewTestDB(t)
	return &apiClient{t: t, app: NewApp()}
}

func (a *apiClient) do(method, path, token string, body any) (int, envelope) {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	var env envelope
	require.NoError(a.t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

// id extracts data.ID (or data.<key>.ID) from a response.
func (a *apiClient) id(env envelope, keys ...string) uint {
	a.t.Helper()
	var m map[string]any
	require.NoError(a.t, json.Unmarshal(env.Data, &m))
	for _, k := range keys {
		m = m[k].(map[string]any)
	}
	return uint(m["ID"].(float64))
}

type session struct {
	id      uint
	access  string
	refresh string
}

func (a *apiClient) signup(username, role string) session {
	a.t.Helper()
	status, env := a.do(http.MethodPost, "/auth/register", "", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
		"role":     role,
	})
	require.Equal(a.t, fiber.StatusCreated, status, env.Message)

	status, env = a.do(http.MethodPost, "/auth/login", "", map[string]any{
		"username": username,
		"password": "password123",
	})
	require.Equal(a.t, fiber.StatusOK, status, env.Message)

	var data struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &data))
	return session{id: a.id(env, "user"), access: data.Access, refresh: data.Refresh}
}

type courseTree struct {
	course, module, lesson, quiz uint
	questions                    []uint
}

// buildCourse creates a course with one module, one lesson and a quiz whose
// questions have the given answer keys.
func (a *apiClient) buildCourse(teacher session, keys ...string) courseTree {
	a.t.Helper()
	var tree courseTree

	status, env := a.do(http.MethodPost, "/courses", teacher.access, map[string]any{"title": "Go basics"})
	require.Equal(a.t, fiber.StatusCreated, status, env.Message)
	tree.course = a.id(env)

	status, env = a.do(http.MethodPost, fmt.Sprintf("/courses/%d/modules", tree.course), teacher.access, map[string]any{"title": "Intro"})
	require.Equal(a.t, fiber.StatusCreated, status, env.Message)
	tree.module = a.id(env)

	status, env = a.do(http.MethodPost, fmt.Sprintf("/modules/%d/lessons", tree.module), teacher.access, map[string]any{"title": "Hello"})
	require.Equal(a.t, fiber.StatusCreated, status, env.Message)
	tree.lesson = a.id(env)

	status, env = a.do(http.MethodPost, "/quizzes", teacher.access, map[string]any{"lesson": tree.lesson, "title": "Checkpoint"})
	require.Equal(a.t, fiber.StatusCreated, status, env.Message)
	tree.quiz = a.id(env)

	for i, key := range keys {
		status, env = a.do(http.MethodPost, "/questions", teacher.access, map[string]any{
			"quiz":           tree.quiz,
			"text":           fmt.Sprintf("Question %d", i+1),
			"option_a":       "first",
			"option_b":       "second",
			"correct_option": key,
		})
		require.Equal(a.t, fiber.StatusCreated, status, env.Message)
		tree.questions = append(tree.questions, a.id(env))
	}
	return tree
}

func TestQuizSubmissionAndResults(t *testing.T) {
	api := newAPI(t)
	teacher := api.signup("teacher", "TEACHER")
	student := api.signup("student", "STUDENT")
	tree := api.buildCourse(teacher, "A", "B")

	submitPath := fmt.Sprintf("/quizzes/%d/submit/", tree.quiz)

	status, env := api.do(http.MethodPost, submitPath, student.access, map[string]any{"answers": []any{}})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "No answers submitted.", env.Message)

	status, env = api.do(http.MethodPost, submitPath, student.access, map[string]any{"answers": []any{
		map[string]any{"question": tree.questions[0], "selected_option": "a"},
		map[string]any{"question": tree.questions[1], "selected_option": "A"},
		map[string]any{"question": 9999, "selected_option": "A"},
	}})
	require.Equal(t, fiber.StatusOK, status, env.Message)
	assert.Equal(t, "Quiz submitted successfully.", env.Message)

	var submitted struct {
		AttemptID uint `json:"attempt_id"`
		Score     int  `json:"score"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &submitted))
	assert.Equal(t, 1, submitted.Score)
	assert.NotZero(t, submitted.AttemptID)

	status, env = api.do(http.MethodPost, submitPath, student.access, map[string]any{"answers": []any{
		map[string]any{"question": tree.questions[0], "selected_option": "AB"},
	}})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, env = api.do(http.MethodGet, fmt.Sprintf("/quizzes/%d/results", tree.quiz), student.access, nil)
	require.Equal(t, fiber.StatusOK, status, env.Message)
	var result struct {
		Quiz    string  `json:"quiz"`
		Score   float64 `json:"score"`
		Answers []struct {
			Question       string  `json:"question"`
			SelectedOption *string `json:"selected_option"`
			CorrectOption  string  `json:"correct_option"`
		} `json:"answers"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "Checkpoint", result.Quiz)
	assert.Equal(t, 1.0, result.Score)
	require.Len(t, result.Answers, 2)
	assert.Equal(t, "Question 1", result.Answers[0].Question)
	assert.Equal(t, "B", result.Answers[1].CorrectOption)

	status, env = api.do(http.MethodGet, fmt.Sprintf("/quizzes/%d/results", tree.quiz), teacher.access, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "No attempt found.", env.Message)

	status, _ = api.do(http.MethodGet, fmt.Sprintf("/quizzes/%d/results", tree.quiz), "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestProgressAndCertificate(t *testing.T) {
	api := newAPI(t)
	teacher := api.signup("teacher", "TEACHER")
	student := api.signup("student", "STUDENT")
	other := api.signup("other", "STUDENT")
	tree := api.buildCourse(teacher)

	status, env := api.do(http.MethodPost, fmt.Sprintf("/lessons/%d/complete", tree.lesson), student.access, nil)
	assert.Equal(t, fiber.StatusForbidden, status, env.Message)

	status, env = api.do(http.MethodPost, fmt.Sprintf("/courses/%d/enroll", tree.course), teacher.access, nil)
	assert.Equal(t, fiber.StatusForbidden, status, env.Message)

	status, env = api.do(http.MethodPost, fmt.Sprintf("/courses/%d/enroll", tree.course), student.access, nil)
	require.Equal(t, fiber.StatusOK, status, env.Message)

	status, env = api.do(http.MethodGet, fmt.Sprintf("/courses/%d/certificate", tree.course), student.access, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Course not completed yet.", env.Message)

	status, env = api.do(http.MethodPost, fmt.Sprintf("/lessons/%d/complete", tree.lesson), student.access, nil)
	require.Equal(t, fiber.StatusOK, status, env.Message)

	status, env = api.do(http.MethodGet, fmt.Sprintf("/students/%d/progress/", student.id), student.access, nil)
	require.Equal(t, fiber.StatusOK, status, env.Message)
	var records []struct {
		CourseID        uint    `json:"course_id"`
		TotalLessons    int64   `json:"total_lessons"`
		CompletedLesson int64   `json:"completed_lessons"`
		ProgressPercent float64 `json:"progress_percent"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, tree.course, records[0].CourseID)
	assert.Equal(t, 100.0, records[0].ProgressPercent)

	status, _ = api.do(http.MethodGet, fmt.Sprintf("/students/%d/progress", student.id), other.access, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = api.do(http.MethodGet, fmt.Sprintf("/courses/%d/progress", tree.course), student.access, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	status, env = api.do(http.MethodGet, fmt.Sprintf("/courses/%d/progress", tree.course), teacher.access, nil)
	require.Equal(t, fiber.StatusOK, status, env.Message)
	assert.Contains(t, string(env.Data), `"student_username":"student"`)

	status, env = api.do(http.MethodGet, fmt.Sprintf("/courses/%d/certificate", tree.course), student.access, nil)
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	assert.Contains(t, string(env.Data), `"certificate_number":"CERT-`)

	status, _ = api.do(http.MethodGet, fmt.Sprintf("/courses/%d/certificate", tree.course), student.access, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, env = api.do(http.MethodGet, "/notifications", student.access, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(env.Data), "Certificate issued")
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	api := newAPI(t)
	user := api.signup("student", "STUDENT")

	status, env := api.do(http.MethodPost, "/auth/refresh", "", map[string]any{"refresh": user.refresh})
	require.Equal(t, fiber.StatusOK, status, env.Message)

	status, _ = api.do(http.MethodPost, "/auth/logout", user.access, map[string]any{})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env = api.do(http.MethodPost, "/auth/logout", user.access, map[string]any{"refresh": user.refresh})
	require.Equal(t, fiber.StatusOK, status, env.Message)

	status, _ = api.do(http.MethodPost, "/auth/refresh", "", map[string]any{"refresh": user.refresh})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestLoginBlocksAfterThreeFailures(t *testing.T) {
	api := newAPI(t)
	api.signup("student", "STUDENT")

	for i := 0; i < 3; i++ {
		status, _ := api.do(http.MethodPost, "/auth/login", "", map[string]any{"username": "student", "password": "wrong-password"})
		require.Equal(t, fiber.StatusUnauthorized, status)
	}
	status, env := api.do(http.MethodPost, "/auth/login", "", map[string]any{"username": "student", "password": "password123"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Contains(t, env.Message, "blocked")
}

func TestReviews(t *testing.T) {
	api := newAPI(t)
	teacher := api.signup("teacher", "TEACHER")
	student := api.signup("student", "STUDENT")
	other := api.signup("other", "STUDENT")
	tree := api.buildCourse(teacher)
	path := fmt.Sprintf("/courses/%d/reviews", tree.course)

	status, env := api.do(http.MethodPost, "/courses/999/reviews", student.access, map[string]any{"rating": 4})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Course not found.", env.Message)

	status, _ = api.do(http.MethodPost, path, student.access, map[string]any{"rating": 6})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, env = api.do(http.MethodPost, path, student.access, map[string]any{"rating": 5, "comment": "great"})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	reviewID := api.id(env)

	status, env = api.do(http.MethodPost, path, student.access, map[string]any{"rating": 3})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "You have already reviewed this course.", env.Message)

	status, _ = api.do(http.MethodPut, fmt.Sprintf("/reviews/%d", reviewID), other.access, map[string]any{"rating": 1})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = api.do(http.MethodDelete, fmt.Sprintf("/reviews/%d", reviewID), student.access, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, env = api.do(http.MethodPost, path, student.access, map[string]any{"rating": 4})
	assert.Equal(t, fiber.StatusCreated, status, env.Message)
}

func TestCourseWritesRequireOwnership(t *testing.T) {
	api := newAPI(t)
	owner := api.signup("owner", "TEACHER")
	intruder := api.signup("intruder", "TEACHER")
	student := api.signup("student", "STUDENT")
	tree := api.buildCourse(owner, "A")

	status, _ := api.do(http.MethodPost, "/courses", student.access, map[string]any{"title": "Nope"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = api.do(http.MethodPut, fmt.Sprintf("/courses/%d", tree.course), intruder.access, map[string]any{"title": "Hijacked"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = api.do(http.MethodPost, fmt.Sprintf("/courses/%d/modules", tree.course), intruder.access, map[string]any{"title": "Extra"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = api.do(http.MethodPost, "/questions", intruder.access, map[string]any{
		"quiz": tree.quiz, "text": "?", "option_a": "a", "option_b": "b", "correct_option": "A",
	})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, env := api.do(http.MethodPost, "/questions", owner.access, map[string]any{
		"quiz": tree.quiz, "text": "?", "option_a": "a", "option_b": "b", "correct_option": "C",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status, env.Message)

	status, env = api.do(http.MethodGet, fmt.Sprintf("/courses/%d/modules", tree.course), "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(env.Data), `"title":"Intro"`)

	status, _ = api.do(http.MethodDelete, fmt.Sprintf("/courses/%d", tree.course), owner.access, nil)
	assert.Equal(t, fiber.StatusOK, status)
	status, _ = api.do(http.MethodGet, fmt.Sprintf("/courses/%d", tree.course), "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

// promote turns a signed-up user into an admin and returns a fresh session.
func (a *apiClient) promote(s session, username string) session {
	a.t.Helper()
	require.NoError(a.t, database.Database.Db.Model(&models.User{}).Where("id = ?", s.id).Update("role", models.RoleAdmin).Error)
	access, refresh, err := middleware.GenerateTokenPair(s.id, username, models.RoleAdmin)
	require.NoError(a.t, err)
	return session{id: s.id, access: access, refresh: refresh}
}

func TestAdminDashboardStats(t *testing.T) {
	api := newAPI(t)
	teacher := api.signup("teacher", "TEACHER")
	student := api.signup("student", "STUDENT")
	admin := api.promote(api.signup("boss", "STUDENT"), "boss")
	tree := api.buildCourse(teacher, "A", "B")

	status, env := api.do(http.MethodPost, fmt.Sprintf("/courses/%d/enroll", tree.course), student.access, nil)
	require.Equal(t, fiber.StatusOK, status, env.Message)
	status, env = api.do(http.MethodPost, fmt.Sprintf("/quizzes/%d/submit", tree.quiz), student.access, map[string]any{"answers": []any{
		map[string]any{"question": tree.questions[0], "selected_option": "A"},
		map[string]any{"question": tree.questions[1], "selected_option": "B"},
	}})
	require.Equal(t, fiber.StatusOK, status, env.Message)

	status, _ = api.do(http.MethodGet, "/admin/dashboard/stats", student.access, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, env = api.do(http.MethodGet, "/admin/dashboard/stats", admin.access, nil)
	require.Equal(t, fiber.StatusOK, status, env.Message)

	var data struct {
		Stats struct {
			UsersByRole      map[string]int64 `json:"users_by_role"`
			TotalCourses     int64            `json:"total_courses"`
			TotalEnrollments int64            `json:"total_enrollments"`
			Attempts         map[string]int64 `json:"attempts"`
			AverageScore     float64          `json:"average_score"`
		} `json:"stats"`
		RecentEnrollments []struct {
			Username    string `json:"username"`
			CourseTitle string `json:"course_title"`
		} `json:"recent_enrollments"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, map[string]int64{"ADMIN": 1, "TEACHER": 1, "STUDENT": 1}, data.Stats.UsersByRole)
	assert.Equal(t, int64(1), data.Stats.TotalCourses)
	assert.Equal(t, int64(1), data.Stats.TotalEnrollments)
	assert.Equal(t, int64(1), data.Stats.Attempts["this_month"])
	assert.Equal(t, 2.0, data.Stats.AverageScore)
	require.Len(t, data.RecentEnrollments, 1)
	assert.Equal(t, "student", data.RecentEnrollments[0].Username)
	assert.Equal(t, "Go basics", data.RecentEnrollments[0].CourseTitle)
}

func TestQuizSubmissionLeavesUnmatchedItemsToScoring(t *testing.T) {
	api := newAPI(t)
	teacher := api.signup("teacher", "TEACHER")
	student := api.signup("student", "STUDENT")
	tree := api.buildCourse(teacher, "A")
	submitPath := fmt.Sprintf("/quizzes/%d/submit", tree.quiz)

	var submitted struct {
		Score int `json:"score"`
	}

	status, env := api.do(http.MethodPost, submitPath, student.access, map[string]any{"answers": []any{
		map[string]any{"question": tree.questions[0], "selected_option": "A"},
		map[string]any{"selected_option": "A"},
		map[string]any{"question": 0, "selected_option": "A"},
	}})
	require.Equal(t, fiber.StatusOK, status, env.Message)
	require.NoError(t, json.Unmarshal(env.Data, &submitted))
	assert.Equal(t, 1, submitted.Score)

	status, env = api.do(http.MethodPost, submitPath, student.access, map[string]any{"answers": []any{
		map[string]any{"question": tree.questions[0], "selected_option": "E"},
	}})
	require.Equal(t, fiber.StatusOK, status, env.Message)
	require.NoError(t, json.Unmarshal(env.Data, &submitted))
	assert.Equal(t, 0, submitted.Score)
}

func TestQuizEndpointsRejectDeletedUsers(t *testing.T) {
	api := newAPI(t)
	teacher := api.signup("teacher", "TEACHER")
	student := api.signup("student", "STUDENT")
	tree := api.buildCourse(teacher, "A")

	require.NoError(t, database.Database.Db.Model(&models.User{}).Where("id = ?", student.id).Update("is_deleted", true).Error)

	status, _ := api.do(http.MethodPost, fmt.Sprintf("/quizzes/%d/submit", tree.quiz), student.access, map[string]any{"answers": []any{
		map[string]any{"question": tree.questions[0], "selected_option": "A"},
	}})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	var attempts int64
	require.NoError(t, database.Database.Db.Model(&courseModels.Attempt{}).Count(&attempts).Error)
	assert.Zero(t, attempts)

	status, _ = api.do(http.MethodGet, fmt.Sprintf("/quizzes/%d/results", tree.quiz), student.access, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	status, _ = api.do(http.MethodGet, fmt.Sprintf("/quizzes/%d/attempts", tree.quiz), student.access, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestAdminDashboardStatsReportsQueryFailures(t *testing.T) {
	api := newAPI(t)
	admin := api.promote(api.signup("boss", "STUDENT"), "boss")

	require.NoError(t, database.Database.Db.Migrator().DropTable(&courseModels.Attempt{}))

	status, env := api.do(http.MethodGet, "/admin/dashboard/stats", admin.access, nil)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.False(t, env.Status)
	assert.Equal(t, "Failed to fetch dashboard stats!", env.Message)
}
