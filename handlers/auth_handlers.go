package handlers

import (
	"errors"
	"net/http"
	"time"

	"estimator-backend/config"
	"estimator-backend/models"
	"estimator-backend/storage"
	"estimator-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// issueToken signs claims and returns the token with its expiry.
func issueToken(jwtCfg config.JWTConfig, claims utils.AdminClaims) (string, time.Time, error) {
	token, err := utils.IssueAdminJWT(jwtCfg.Secret, claims, jwtCfg.TTL)
	return token, time.Now().Add(jwtCfg.TTL).UTC(), err
}

// configuredAdmin reports whether req matches the account from admin.username.
func configuredAdmin(admin config.AdminConfig, req models.LoginRequest) bool {
	return admin.PasswordHash != "" && req.Username == admin.Username && utils.ValidatePassword(admin.PasswordHash, req.Password)
}

// AdminLogin godoc
// @Summary      Admin login
// @Description  Checks a stored admin account (by username or e-mail) and then the configured admin, and returns a bearer token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.LoginRequest  true  "Credentials"
// @Success      200   {object}  models.LoginResponse
// @Failure      400   {object}  models.ErrorResponse
// @Failure      401   {object}  models.ErrorResponse
// @Router       /api/admin/login [post]
func AdminLogin(admins storage.AdminStore, admin config.AdminConfig, jwtCfg config.JWTConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Username and password are required")
			return
		}

		var (
			claims utils.AdminClaims
			info   models.AdminInfo
		)
		account, err := admins.FindAdminByLogin(c.Request.Context(), req.Username)
		switch {
		case err != nil && !errors.Is(err, storage.ErrAdminNotFound):
			logger.Error("find admin", zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Login failed")
			return
		case err == nil && account.IsActive && utils.ValidatePassword(account.PasswordHash, req.Password):
			claims = utils.AdminClaims{ID: account.ID, Username: account.Username, Role: account.Role}
			info = account.Info()
		case configuredAdmin(admin, req):
			claims = utils.AdminClaims{Username: admin.Username, Role: admin.Role}
			info = models.AdminInfo{Username: admin.Username, Role: admin.Role}
		default:
			logger.Warn("admin login rejected", zap.String("username", req.Username), zap.String("client_ip", c.ClientIP()))
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		token, expiresAt, err := issueToken(jwtCfg, claims)
		if err != nil {
			logger.Error("issue admin token", zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Login failed")
			return
		}

		c.JSON(http.StatusOK, models.LoginResponse{
			Token:     token,
			ExpiresAt: expiresAt,
			Admin:     info,
		})
	}
}

// Health godoc
// @Summary      Liveness check
// @Tags         health
// @Produce      json
// @Success      200  {object}  models.HealthResponse
// @Router       /health [get]
func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{Status: "OK", Timestamp: time.Now().UTC()})
	}
}
