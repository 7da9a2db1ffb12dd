package database

import (
	"bytes"
	"lms/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLoggerSkipsRecordNotFound(t *testing.T) {
	db, err := Open("sqlite", "file:database_logger_test?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	var buf bytes.Buffer
	quiet := db.Session(&gorm.Session{Logger: NewLogger(&buf)})

	var user models.User
	err = quiet.Where("email = ?", "nobody@example.com").First(&user).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	err = quiet.Table("missing_table").First(&user).Error
	require.Error(t, err)
	assert.Contains(t, buf.String(), "missing_table")
}

func TestDuplicateKeyIsTranslated(t *testing.T) {
	db, err := Open("sqlite", "file:database_duplicate_test?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	first := models.Payment{UserID: 1, CourseID: 1, RazorpayPaymentID: "pay_1", RazorpayOrderID: "order_1", RazorpaySignature: "sig", Amount: 100}
	require.NoError(t, db.Create(&first).Error)

	second := models.Payment{UserID: 1, CourseID: 1, RazorpayPaymentID: "pay_1", RazorpayOrderID: "order_2", RazorpaySignature: "sig", Amount: 100}
	assert.ErrorIs(t, db.Create(&second).Error, gorm.ErrDuplicatedKey)
}
