package utils

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/multierr"
	"golang.org/x/crypto/bcrypt"
)

// ErrorResponse writes the {"error": message} body every handler uses.
func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// ValidationErrorResponse writes a 400 listing each aggregated problem.
func ValidationErrorResponse(c *gin.Context, message string, err error) {
	errs := multierr.Errors(err)
	details := make([]string, 0, len(errs))
	for _, e := range errs {
		details = append(details, e.Error())
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": message, "details": details})
}

// AdminClaims are the claims carried by an admin access token. ID is set
// for stored accounts and empty for the configured admin.
type AdminClaims struct {
	ID       string
	Username string
	Role     string
}

// GenerateAdminJWT issues an HS256 access token for the configured admin.
func GenerateAdminJWT(secret, username, role string, ttl time.Duration) (string, error) {
	return IssueAdminJWT(secret, AdminClaims{Username: username, Role: role}, ttl)
}

// IssueAdminJWT issues an HS256 access token carrying c.
func IssueAdminJWT(secret string, c AdminClaims, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is not configured")
	}
	claims := jwt.MapClaims{
		"username": c.Username,
		"role":     c.Role,
		"type":     "access",
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(ttl).Unix(),
	}
	if c.ID != "" {
		claims["id"] = c.ID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateJWT parses and validates a JWT string.
func ValidateJWT(secret, tokenStr string) (*AdminClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("token parsing error: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	if typ, _ := claims["type"].(string); typ != "access" {
		return nil, errors.New("not an access token")
	}
	id, _ := claims["id"].(string)
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if username == "" {
		return nil, errors.New("token has no subject")
	}
	return &AdminClaims{ID: id, Username: username, Role: role}, nil
}

func ValidatePassword(hashedPassword, plainPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	return err == nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	return string(bytes), err
}
