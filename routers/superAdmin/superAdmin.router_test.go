package superAdminRoutes

import (
	"fmt"
	"lms/models"
	"lms/testutil"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userPage struct {
	Users      []models.User `json:"users"`
	Pagination struct {
		Total int64 `json:"total"`
		Page  int   `json:"page"`
		Limit int   `json:"limit"`
	} `json:"pagination"`
}

func TestUserList(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.UseGlobals(t, db)
	app := fiber.New()
	SetupSuperAdminRoutes(app)

	admin := testutil.CreateAdmin(t, db, "admin@example.com")
	for i := 1; i <= 4; i++ {
		testutil.CreateUser(t, db, fmt.Sprintf("learner%d@example.com", i))
	}
	gone := testutil.CreateUser(t, db, "gone@example.com")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", gone.ID).Update("is_deleted", true).Error)
	token := testutil.Token(t, admin)

	resp, env := testutil.Do(t, app, http.MethodGet, "/api/v1/admin/users?page=2&limit=2", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	var page userPage
	testutil.DecodeData(t, env, &page)
	assert.EqualValues(t, 5, page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.Page)
	assert.Len(t, page.Users, 2)

	resp, env = testutil.Do(t, app, http.MethodGet, "/api/v1/admin/users?search=LEARNER3", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page = userPage{}
	testutil.DecodeData(t, env, &page)
	require.Len(t, page.Users, 1)
	assert.Equal(t, "learner3@example.com", page.Users[0].Email)

	resp, _ = testutil.Do(t, app, http.MethodGet, "/api/v1/admin/users?limit=0", nil, token)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = testutil.Do(t, app, http.MethodGet, "/api/v1/admin/users", nil, testutil.Token(t, testutil.CreateUser(t, db, "nosy@example.com")))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
