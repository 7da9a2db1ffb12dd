package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Envelope mirrors the JSON body written by middleware.JsonResponse.
type Envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// UseGlobals points the global config and database at test values for the
// duration of the test.
func UseGlobals(t *testing.T, db *gorm.DB) *config.Config {
	t.Helper()

	prevCfg, prevDB := config.AppConfig, database.Database
	cfg := &config.Config{
		AppName:         "LMS",
		Environment:     "test",
		ClientURL:       "http://client.test",
		PublicURL:       "http://api.test",
		JWTKey:          "test-secret",
		JWTTTLHours:     1,
		SaltRound:       4,
		EmailSender:     "no-reply@lms.test",
		ContactEmail:    "admin@lms.test",
		UploadDir:       t.TempDir(),
		PassPercentage:  65,
		MaxUploadSizeMB: 5,
		YoutubeAPIURL:   "http://127.0.0.1:0",
		DriveAPIURL:     "http://127.0.0.1:0",
		RazorpayAPIURL:  "http://127.0.0.1:0",
	}
	config.AppConfig = cfg
	database.Database = database.DbInstance{Db: db}

	t.Cleanup(func() {
		config.AppConfig = prevCfg
		database.Database = prevDB
	})
	return cfg
}

// Token returns a bearer token for user. UseGlobals must have been called.
func Token(t *testing.T, user models.User) string {
	t.Helper()

	token, err := middleware.GenerateJWT(user)
	require.NoError(t, err)
	return token
}

// Do sends a JSON request through app. body may be nil; token may be empty.
func Do(t *testing.T, app *fiber.App, method, target string, body any, token string) (*http.Response, Envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env Envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	if len(raw) > 0 && json.Valid(raw) {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp, env
}

// DecodeData unmarshals the envelope payload into dst.
func DecodeData(t *testing.T, env Envelope, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dst))
}
