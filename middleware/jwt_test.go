package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lms/apperr"
	"lms/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupConfig(t *testing.T) {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig = config.Default()
	t.Cleanup(func() { config.AppConfig = prev })
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return env
}

func TestParseTokenReturnsClaims(t *testing.T) {
	setupConfig(t)

	token, jti, err := GenerateJWT(7, "alice", "STUDENT", TokenTypeRefresh, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "STUDENT", claims.Role)
	assert.Equal(t, TokenTypeRefresh, claims.Type)
	assert.Equal(t, jti, claims.JTI)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestParseTokenRejectsExpiredAndForeignTokens(t *testing.T) {
	setupConfig(t)

	expired, _, err := GenerateJWT(1, "bob", "STUDENT", TokenTypeAccess, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(expired)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	valid, _, err := GenerateJWT(1, "bob", "STUDENT", TokenTypeAccess, time.Minute)
	require.NoError(t, err)
	config.AppConfig.JWTKey = "another-secret"
	_, err = ParseToken(valid)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	_, err = ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestJWTMiddleware(t *testing.T) {
	setupConfig(t)

	app := fiber.New()
	app.Get("/me", JWTMiddleware, func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", fiber.Map{"id": CurrentUserID(c), "role": CurrentRole(c)})
	})

	access, refresh, err := GenerateTokenPair(3, "carol", "TEACHER")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Token " + access, fiber.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, fiber.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", fiber.StatusUnauthorized},
		{"access token", "Bearer " + access, fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			env := decode(t, resp)
			assert.Equal(t, tt.status == fiber.StatusOK, env.Status)
			if tt.status == fiber.StatusOK {
				assert.JSONEq(t, `{"id":3,"role":"TEACHER"}`, string(env.Data))
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", func(c *fiber.Ctx) error {
		c.Locals("role", c.Get("X-Role"))
		return c.Next()
	}, AdminOnly, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	for role, want := range map[string]int{
		"ADMIN":   fiber.StatusNoContent,
		"TEACHER": fiber.StatusForbidden,
		"":        fiber.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("X-Role", role)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, role)
	}
}

func TestErrorResponse(t *testing.T) {
	app := fiber.New()
	app.Get("/:kind", func(c *fiber.Ctx) error {
		switch c.Params("kind") {
		case "validation":
			return ErrorResponse(c, apperr.Validation("No answers submitted."))
		case "notfound":
			return ErrorResponse(c, apperr.NotFound("Quiz not found."))
		case "permission":
			return ErrorResponse(c, apperr.Permission("nope"))
		case "internal":
			return ErrorResponse(c, apperr.Internal("db exploded", errors.New("boom")))
		default:
			return ErrorResponse(c, errors.New("plain"))
		}
	})

	tests := []struct {
		path    string
		status  int
		message string
	}{
		{"/validation", fiber.StatusBadRequest, "No answers submitted."},
		{"/notfound", fiber.StatusNotFound, "Quiz not found."},
		{"/permission", fiber.StatusForbidden, "nope"},
		{"/internal", fiber.StatusInternalServerError, "Internal server error"},
		{"/plain", fiber.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
		require.NoError(t, err)
		assert.Equal(t, tt.status, resp.StatusCode, tt.path)
		env := decode(t, resp)
		assert.False(t, env.Status)
		assert.Equal(t, tt.message, env.Message)
	}
}
