// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"fmt"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// NewDB returns a migrated in-memory sqlite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:lms_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// Password is the plain text password of users made by CreateUser and CreateAdmin.
const Password = "fixture-password"

var passwordHash = func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}()

func CreateUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	u := models.User{FullName: "Test " + email, Email: email, Password: passwordHash, Role: models.RoleUser}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func CreateAdmin(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	u := models.User{FullName: "Admin " + email, Email: email, Password: passwordHash, Role: models.RoleAdmin}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// CreateCourse creates a course with the given number of lectures and final
// assignment questions.
func CreateCourse(t *testing.T, db *gorm.DB, title string, lectures, questions int) courseModels.Course {
	t.Helper()

	c := courseModels.Course{
		Title:       title,
		Description: "Description of " + title,
		Category:    "Testing",
		Price:       499,
		CreatedBy:   "tester",
	}
	require.NoError(t, db.Create(&c).Error)

	for i := 0; i < lectures; i++ {
		l := courseModels.Lecture{
			CourseID:   c.ID,
			Title:      fmt.Sprintf("Lecture %d", i+1),
			VideoURL:   fmt.Sprintf("https://youtu.be/video%05d", i),
			Duration:   "10m",
			OrderIndex: i,
		}
		require.NoError(t, db.Create(&l).Error)
		c.Lectures = append(c.Lectures, l)
	}
	if lectures > 0 {
		require.NoError(t, db.Model(&c).Update("number_of_lectures", lectures).Error)
		c.NumberOfLectures = lectures
	}

	for i := 0; i < questions; i++ {
		q := courseModels.Quiz{
			CourseID:      c.ID,
			Question:      fmt.Sprintf("Question %d?", i+1),
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: "a",
		}
		require.NoError(t, db.Create(&q).Error)
		c.Quizzes = append(c.Quizzes, q)
	}
	return c
}

// ActivateSubscription stores an active subscription without a progress record.
func ActivateSubscription(t *testing.T, db *gorm.DB, userID, courseID uint) models.Subscription {
	t.Helper()

	s := models.Subscription{
		UserID:   userID,
		CourseID: courseID,
		OrderID:  fmt.Sprintf("order_test_%d_%d", userID, courseID),
		Amount:   49900,
		Status:   models.SubscriptionActive,
	}
	require.NoError(t, db.Create(&s).Error)
	return s
}
