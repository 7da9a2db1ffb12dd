package miscRoutes

import (
	"lms/testutil"
	"net/http"
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
	SetupMiscRoutes(app)
	return app, db
}

func TestContactUs(t *testing.T) {
	app, _ := setup(t)

	resp, env := testutil.Do(t, app, http.MethodPost, "/api/v1/contact", fiber.Map{
		"name":    "Jane Doe",
		"email":   " Jane@Example.com ",
		"message": "When does the next cohort start?",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	assert.True(t, env.Status)

	resp, env = testutil.Do(t, app, http.MethodPost, "/api/v1/contact", fiber.Map{
		"name":    "  ",
		"email":   "jane@example.com",
		"message": "Hello",
	}, "")
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var fields map[string]string
	testutil.DecodeData(t, env, &fields)
	assert.Equal(t, "name is required!", fields["name"])
}

func TestUserStats(t *testing.T) {
	app, db := setup(t)
	admin := testutil.CreateAdmin(t, db, "admin@example.com")
	buyer := testutil.CreateUser(t, db, "buyer@example.com")
	testutil.CreateUser(t, db, "browser@example.com")

	first := testutil.CreateCourse(t, db, "Go Fundamentals", 1, 0)
	second := testutil.CreateCourse(t, db, "Advanced Go", 1, 0)
	testutil.ActivateSubscription(t, db, buyer.ID, first.ID)
	testutil.ActivateSubscription(t, db, buyer.ID, second.ID)

	resp, _ := testutil.Do(t, app, http.MethodGet, "/api/v1/stats/users", nil, testutil.Token(t, buyer))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, env := testutil.Do(t, app, http.MethodGet, "/api/v1/stats/users", nil, testutil.Token(t, admin))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats struct {
		AllUsersCount        int64 `json:"allUsersCount"`
		SubscribedUsersCount int64 `json:"subscribedUsersCount"`
	}
	testutil.DecodeData(t, env, &stats)
	assert.EqualValues(t, 3, stats.AllUsersCount)
	assert.EqualValues(t, 1, stats.SubscribedUsersCount)
}
