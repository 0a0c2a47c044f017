package authValidator

import (
	"strings"

	"lms/middleware"
	"lms/models"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=150"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Role      string `json:"role" validate:"omitempty,oneof=STUDENT TEACHER"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
}

type TokenRequest struct {
	Refresh string `json:"refresh"`
	Token   string `json:"token"`
}

type UpdateProfileRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetConfirm struct {
	UID         uint   `json:"uid" validate:"required"`
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// AdminUserRequest is used by the admin user endpoints for both create and update.
type AdminUserRequest struct {
	Username  *string `json:"username" validate:"omitempty,min=3,max=150"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password" validate:"omitempty,min=8"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Role      *string `json:"role" validate:"omitempty,oneof=STUDENT TEACHER ADMIN"`
}

// Register validator middleware
func Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RegisterRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Username = strings.TrimSpace(reqData.Username)
		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))
		reqData.Role = strings.ToUpper(strings.TrimSpace(reqData.Role))

		if errs := validators.Check(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}
		if reqData.Role == "" {
			reqData.Role = models.RoleStudent
		}

		c.Locals("validatedUser", reqData)
		return c.Next()
	}
}

// Login validator middleware
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := validators.Check(reqData)
		if errors == nil {
			errors = make(map[string]string)
		}
		if strings.TrimSpace(reqData.Username) == "" && strings.TrimSpace(reqData.Email) == "" {
			errors["credentials"] = "Either username or email is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUser", reqData)
		return c.Next()
	}
}

// Token parses {refresh} or {token} for refresh, verify and logout.
func Token(field string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(TokenRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		value := reqData.Refresh
		if field == "token" {
			value = reqData.Token
		}
		if strings.TrimSpace(value) == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, field+" token is required.", nil)
		}

		c.Locals("validatedToken", strings.TrimSpace(value))
		return c.Next()
	}
}

func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateProfileRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if errs := validators.Check(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}

func PasswordReset() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(PasswordResetRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))
		if errs := validators.Check(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedReset", reqData)
		return c.Next()
	}
}

func PasswordResetConfirmation() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(PasswordResetConfirm)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if errs := validators.Check(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedReset", reqData)
		return c.Next()
	}
}

// AdminUser validates admin create (create=true requires username, email and password) and update bodies.
func AdminUser(create bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AdminUserRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if reqData.Role != nil {
			role := strings.ToUpper(strings.TrimSpace(*reqData.Role))
			reqData.Role = &role
		}

		errors := validators.Check(reqData)
		if errors == nil {
			errors = make(map[string]string)
		}
		if create {
			if reqData.Username == nil || strings.TrimSpace(*reqData.Username) == "" {
				errors["username"] = "This field is required!"
			}
			if reqData.Email == nil || strings.TrimSpace(*reqData.Email) == "" {
				errors["email"] = "This field is required!"
			}
			if reqData.Password == nil {
				errors["password"] = "This field is required!"
			}
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUser", reqData)
		return c.Next()
	}
}
