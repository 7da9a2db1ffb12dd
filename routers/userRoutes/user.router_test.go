package userProfileRoutes

import (
	"fmt"
	"io"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/progress"
	"lms/testutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*fiber.App, *gorm.DB) {
	db := testutil.NewDB(t)
	testutil.UseGlobals(t, db)

	app := fiber.New()
	SetupUserRoutes(app)
	return app, db
}

func TestProgressRequiresAuth(t *testing.T) {
	app, _ := setup(t)

	resp, env := testutil.Do(t, app, http.MethodPost, "/api/v1/user/progress", fiber.Map{"courseId": 1, "lectureId": 1}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, env.Status)
}

func TestLearnerJourney(t *testing.T) {
	app, db := setup(t)
	user := testutil.CreateUser(t, db, "learner@example.com")
	course := testutil.CreateCourse(t, db, "Go Fundamentals", 2, 20)
	testutil.ActivateSubscription(t, db, user.ID, course.ID)
	token := testutil.Token(t, user)

	// my-courses repairs the missing enrollment
	resp, env := testutil.Do(t, app, http.MethodGet, "/api/v1/user/my-courses", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var courses []progress.EnrolledCourse
	testutil.DecodeData(t, env, &courses)
	require.Len(t, courses, 1)
	assert.Equal(t, course.ID, courses[0].Course.ID)
	assert.Empty(t, courses[0].Progress.LecturesCompleted)

	lectureID := course.Lectures[0].ID
	resp, env = testutil.Do(t, app, http.MethodPost, "/api/v1/user/progress", fiber.Map{"courseId": course.ID, "lectureId": lectureID}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p progress.Progress
	testutil.DecodeData(t, env, &p)
	assert.Equal(t, []uint{lectureID}, p.LecturesCompleted)

	resp, env = testutil.Do(t, app, http.MethodPost, "/api/v1/user/progress/quiz", fiber.Map{
		"courseId":          course.ID,
		"score":             12,
		"isFinalAssignment": true,
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.DecodeData(t, env, &p)
	assert.False(t, p.IsCompleted)

	// certificate is refused until the course is completed
	resp, _ = testutil.Do(t, app, http.MethodGet, fmt.Sprintf("/api/v1/user/certificate/%d", course.ID), nil, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, env = testutil.Do(t, app, http.MethodPost, "/api/v1/user/progress/quiz", fiber.Map{
		"courseId":          course.ID,
		"score":             13,
		"isFinalAssignment": true,
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.DecodeData(t, env, &p)
	assert.True(t, p.IsCompleted)
	score, ok := p.Score(courseModels.FinalAssignmentKey)
	assert.True(t, ok)
	assert.Equal(t, 13, score)

	resp, env = testutil.Do(t, app, http.MethodGet, fmt.Sprintf("/api/v1/user/progress?courseId=%d", course.ID), nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.DecodeData(t, env, &p)
	assert.True(t, p.IsCompleted)
	assert.Equal(t, []uint{lectureID}, p.LecturesCompleted)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/user/certificate/%d", course.ID), nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	pdfResp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, pdfResp.StatusCode)
	assert.Equal(t, "application/pdf", pdfResp.Header.Get(fiber.HeaderContentType))
	body, err := io.ReadAll(pdfResp.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(body[:4]))

	var cert courseModels.Certificate
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&cert).Error)

	resp, env = testutil.Do(t, app, http.MethodGet, "/api/v1/certificates/"+cert.CertificateNumber, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var verification struct {
		FullName    string `json:"fullName"`
		CourseTitle string `json:"courseTitle"`
	}
	testutil.DecodeData(t, env, &verification)
	assert.Equal(t, user.FullName, verification.FullName)
	assert.Equal(t, "Go Fundamentals", verification.CourseTitle)
}

func TestQuizScoreWithoutEnrollmentIsIgnored(t *testing.T) {
	app, db := setup(t)
	user := testutil.CreateUser(t, db, "visitor@example.com")
	course := testutil.CreateCourse(t, db, "Go Fundamentals", 1, 2)

	resp, env := testutil.Do(t, app, http.MethodPost, "/api/v1/user/progress/quiz", fiber.Map{
		"courseId":  course.ID,
		"lectureId": course.Lectures[0].ID,
		"score":     2,
	}, testutil.Token(t, user))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p progress.Progress
	testutil.DecodeData(t, env, &p)
	assert.Equal(t, course.ID, p.CourseID)
	assert.Empty(t, p.QuizScores)

	var count int64
	require.NoError(t, db.Model(&courseModels.CourseProgress{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestQuizScoreValidation(t *testing.T) {
	app, db := setup(t)
	token := testutil.Token(t, testutil.CreateUser(t, db, "learner@example.com"))

	tests := []struct {
		name  string
		body  fiber.Map
		field string
	}{
		{"missing lecture for lecture quiz", fiber.Map{"courseId": 1, "score": 3}, "lectureId"},
		{"missing score", fiber.Map{"courseId": 1, "isFinalAssignment": true}, "score"},
		{"negative score", fiber.Map{"courseId": 1, "score": -1, "isFinalAssignment": true}, "score"},
		{"missing course", fiber.Map{"lectureId": 1, "score": 1}, "courseId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, env := testutil.Do(t, app, http.MethodPost, "/api/v1/user/progress/quiz", tt.body, token)
			require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			var fields map[string]string
			testutil.DecodeData(t, env, &fields)
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestLectureProgressUnknownCourse(t *testing.T) {
	app, db := setup(t)
	token := testutil.Token(t, testutil.CreateUser(t, db, "learner@example.com"))

	resp, env := testutil.Do(t, app, http.MethodPost, "/api/v1/user/progress", fiber.Map{"courseId": 999, "lectureId": 1}, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Course not found!", env.Message)
}

func TestDeletedUserTokenIsRejected(t *testing.T) {
	app, db := setup(t)
	user := testutil.CreateUser(t, db, "gone@example.com")
	token := testutil.Token(t, user)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_deleted", true).Error)

	resp, _ := testutil.Do(t, app, http.MethodGet, "/api/v1/user/my-courses", nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLectureProgressForeignLecture(t *testing.T) {
	app, db := setup(t)
	token := testutil.Token(t, testutil.CreateUser(t, db, "learner@example.com"))
	course := testutil.CreateCourse(t, db, "Go Fundamentals", 1, 0)
	other := testutil.CreateCourse(t, db, "Rust Fundamentals", 1, 0)

	resp, env := testutil.Do(t, app, http.MethodPost, "/api/v1/user/progress", fiber.Map{"courseId": course.ID, "lectureId": other.Lectures[0].ID}, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Lecture not found!", env.Message)
}
