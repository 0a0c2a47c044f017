package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"lms/apperr"
	"lms/config"
	"lms/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims is the decoded payload of an access or refresh token.
type TokenClaims struct {
	UserID    uint
	Username  string
	Role      string
	Type      string
	JTI       string
	ExpiresAt time.Time
}

// GenerateJWT signs a token of the given type for the user and returns it
// together with its jti.
func GenerateJWT(userID uint, username, role, tokenType string, ttl time.Duration) (string, string, error) {
	now := time.Now()
	jti := uuid.NewString()
	claims := jwt.MapClaims{
		"userId":   userID,
		"username": username,
		"role":     role,
		"type":     tokenType,
		"jti":      jti,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	jwtSecret := []byte(config.AppConfig.JWTKey)

	signed, err := token.SignedString(jwtSecret)
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

// GenerateTokenPair issues an access and a refresh token.
func GenerateTokenPair(userID uint, username, role string) (access, refresh string, err error) {
	access, _, err = GenerateJWT(userID, username, role, TokenTypeAccess, config.AppConfig.AccessTokenTTL)
	if err != nil {
		return "", "", err
	}
	refresh, _, err = GenerateJWT(userID, username, role, TokenTypeRefresh, config.AppConfig.RefreshTokenTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// ParseToken validates signature and expiry and decodes the claims.
func ParseToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.Unauthorized("Invalid token payload")
	}
	userID, ok := claims["userId"].(float64) // JSON numbers decode as float64
	if !ok || userID <= 0 {
		return nil, apperr.Unauthorized("Invalid token payload")
	}

	out := &TokenClaims{UserID: uint(userID)}
	out.Username, _ = claims["username"].(string)
	out.Role, _ = claims["role"].(string)
	out.Type, _ = claims["type"].(string)
	out.JTI, _ = claims["jti"].(string)
	if exp, ok := claims["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return out, nil
}

// JWTMiddleware is a middleware to check for valid JWT token in the request
func JWTMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Missing or invalid Authorization header", nil)
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid Authorization header format", nil)
	}

	claims, err := ParseToken(strings.TrimSpace(authHeader[len("Bearer "):]))
	if err != nil {
		return ErrorResponse(c, err)
	}
	if claims.Type != TokenTypeAccess {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Access token required", nil)
	}

	c.Locals("userId", claims.UserID)
	c.Locals("role", claims.Role)
	return c.Next()
}

// CurrentUserID returns the authenticated user id set by JWTMiddleware.
func CurrentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userId").(uint)
	return id
}

func CurrentRole(c *fiber.Ctx) string {
	role, _ := c.Locals("role").(string)
	return role
}

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}

// ErrorResponse writes err in the response envelope. Errors that are not
// *apperr.Error are logged and reported as a generic 500.
func ErrorResponse(c *fiber.Ctx, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Kind != apperr.KindInternal {
		return JsonResponse(c, appErr.Status(), false, appErr.Message, nil)
	}

	logger.Log.Error("request failed",
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)
	return JsonResponse(c, fiber.StatusInternalServerError, false, "Internal server error", nil)
}
