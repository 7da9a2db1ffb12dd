package certificate_test

import (
	"bytes"
	"context"
	courseModels "lms/models/course"
	"lms/services/certificate"
	"lms/services/progress"
	"lms/testutil"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueRequiresCompletion(t *testing.T) {
	db := testutil.NewDB(t)
	issuer := certificate.NewIssuer(db, "https://lms.example.com/")
	engine := progress.NewEngine(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "learner@example.com")
	course := testutil.CreateCourse(t, db, "Go Fundamentals", 1, 4)

	_, err := issuer.Issue(ctx, user.ID, course.ID)
	assert.ErrorIs(t, err, certificate.ErrNotCompleted)

	_, _, err = engine.Enroll(ctx, user.ID, course.ID)
	require.NoError(t, err)
	_, err = issuer.Issue(ctx, user.ID, course.ID)
	assert.ErrorIs(t, err, certificate.ErrNotCompleted)
}

func TestIssueOnceAndVerify(t *testing.T) {
	db := testutil.NewDB(t)
	issuer := certificate.NewIssuer(db, "https://lms.example.com/")
	engine := progress.NewEngine(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "learner@example.com")
	course := testutil.CreateCourse(t, db, "Go Fundamentals", 1, 4)
	_, _, err := engine.Enroll(ctx, user.ID, course.ID)
	require.NoError(t, err)
	score := 3
	_, err = engine.RecordQuizScore(ctx, user.ID, progress.QuizSubmission{CourseID: course.ID, Score: &score, IsFinalAssignment: true})
	require.NoError(t, err)

	first, err := issuer.Issue(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.True(t, strings.HasPrefix(first.Certificate.CertificateNumber, "LMS-"))
	assert.Equal(t, course.Title, first.Course.Title)

	second, err := issuer.Issue(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Certificate.CertificateNumber, second.Certificate.CertificateNumber)

	p, err := engine.GetCourseProgress(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://lms.example.com/api/v1/certificates/"+first.Certificate.CertificateNumber, p.CertificateURL)

	v, err := issuer.Verify(ctx, strings.ToLower(first.Certificate.CertificateNumber))
	require.NoError(t, err)
	assert.Equal(t, user.FullName, v.FullName)
	assert.Equal(t, course.Title, v.CourseTitle)

	_, err = issuer.Verify(ctx, "LMS-NOPE")
	assert.ErrorIs(t, err, certificate.ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&courseModels.Certificate{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRenderPDF(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "learner@example.com")
	course := testutil.CreateCourse(t, db, "Go Fundamentals", 0, 0)

	var buf bytes.Buffer
	err := certificate.RenderPDF(&buf, &certificate.Issued{
		User:        user,
		Course:      course,
		Certificate: courseModels.Certificate{CertificateNumber: "LMS-TEST"},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
