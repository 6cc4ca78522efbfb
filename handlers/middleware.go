package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"estimator-backend/models"
	"estimator-backend/storage"
	"estimator-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// RequestIDHeader carries the per-request correlation id.
	RequestIDHeader = "X-Request-ID"

	ctxRequestID = "request_id"
	ctxAdmin     = "admin"
)

// RequestID reuses an incoming X-Request-ID or assigns a new UUID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger logs one structured line per request.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(ctxRequestID)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

// AdminAuth requires a valid admin bearer token. Tokens of stored accounts
// are checked against admins on every request, so deleting or deactivating
// an account revokes its tokens and role changes apply at once.
func AdminAuth(secret string, admins storage.AdminStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Access denied. No token provided.")
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(secret, token)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid token.")
			c.Abort()
			return
		}

		if claims.ID != "" && admins != nil {
			account, err := admins.GetAdmin(c.Request.Context(), claims.ID)
			switch {
			case errors.Is(err, storage.ErrAdminNotFound):
				utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid token or inactive admin.")
				c.Abort()
				return
			case err != nil:
				logger.Error("load admin for token", zap.String("id", claims.ID), zap.Error(err))
				utils.ErrorResponse(c, http.StatusInternalServerError, "Authentication failed")
				c.Abort()
				return
			case !account.IsActive:
				utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid token or inactive admin.")
				c.Abort()
				return
			}
			claims.Username = account.Username
			claims.Role = account.Role
		}

		if claims.Role != models.RoleAdmin && claims.Role != models.RoleSuperAdmin {
			utils.ErrorResponse(c, http.StatusForbidden, "Admin role required.")
			c.Abort()
			return
		}

		c.Set(ctxAdmin, claims)
		c.Next()
	}
}

// currentAdmin returns the claims AdminAuth stored on c.
func currentAdmin(c *gin.Context) *utils.AdminClaims {
	claims, _ := c.Get(ctxAdmin)
	admin, _ := claims.(*utils.AdminClaims)
	if admin == nil {
		return &utils.AdminClaims{}
	}
	return admin
}

// RequireSuperAdmin rejects admins without the super_admin role.
func RequireSuperAdmin(message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentAdmin(c).Role != models.RoleSuperAdmin {
			utils.ErrorResponse(c, http.StatusForbidden, message)
			c.Abort()
			return
		}
		c.Next()
	}
}
