package validators

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string `json:"name" validate:"required,max=5"`
	Email  string `json:"email" validate:"omitempty,email"`
	Option string `json:"option" validate:"omitempty,oneof=A B C D"`
	Items  []item `json:"items" validate:"dive"`
}

type item struct {
	ID uint `json:"id" validate:"required"`
}

func TestCheckReportsJSONFieldNames(t *testing.T) {
	assert.Nil(t, Check(&sample{Name: "ok"}))

	errs := Check(&sample{Name: "toolong", Email: "nope", Option: "E", Items: []item{{ID: 1}, {}}})
	require.NotNil(t, errs)
	assert.Equal(t, "Must be at most 5 characters long!", errs["name"])
	assert.Equal(t, "Invalid email!", errs["email"])
	assert.Equal(t, "Must be one of: A, B, C, D", errs["option"])
	assert.Equal(t, "This field is required!", errs["items[1].id"])
	assert.Len(t, errs, 4)
}

func TestParamAndQueryHelpers(t *testing.T) {
	app := fiber.New()
	app.Get("/things/:id", func(c *fiber.Ctx) error {
		id, ok := ParamID(c, "id")
		if !ok {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		filter, ok := OptionalQueryID(c, "course_id")
		if !ok {
			return c.SendStatus(fiber.StatusUnprocessableEntity)
		}
		page, limit := Pagination(c)
		return c.JSON(fiber.Map{"id": id, "filter": filter, "page": page, "limit": limit})
	})

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/things/4", fiber.StatusOK, `{"id":4,"filter":null,"page":1,"limit":20}`},
		{"/things/4?course_id=9&page=3&limit=50", fiber.StatusOK, `{"id":4,"filter":9,"page":3,"limit":50}`},
		{"/things/4?page=-1&limit=1000", fiber.StatusOK, `{"id":4,"filter":null,"page":1,"limit":20}`},
		{"/things/0", fiber.StatusBadRequest, ""},
		{"/things/abc", fiber.StatusBadRequest, ""},
		{"/things/4?course_id=x", fiber.StatusUnprocessableEntity, ""},
	}
	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
		require.NoError(t, err)
		assert.Equal(t, tt.status, resp.StatusCode, tt.path)
		if tt.body != "" {
			buf, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.JSONEq(t, tt.body, string(buf), tt.path)
		}
	}
}
