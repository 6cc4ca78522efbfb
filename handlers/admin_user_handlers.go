package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"estimator-backend/config"
	"estimator-backend/models"
	"estimator-backend/storage"
	"estimator-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgShortPassword = "Password must be at least 8 characters long"

func loadAdmin(c *gin.Context, admins storage.AdminStore, logger *zap.Logger) (*models.AdminUser, bool) {
	account, err := admins.GetAdmin(c.Request.Context(), c.Param("id"))
	if errors.Is(err, storage.ErrAdminNotFound) {
		utils.ErrorResponse(c, http.StatusNotFound, "Admin user not found")
		return nil, false
	}
	if err != nil {
		logger.Error("load admin", zap.String("id", c.Param("id")), zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch admin user")
		return nil, false
	}
	return account, true
}

// isSelf reports whether the signed-in admin is the stored account id.
func isSelf(c *gin.Context, id string) bool {
	admin := currentAdmin(c)
	return admin.ID != "" && admin.ID == id
}

func isSuperAdmin(c *gin.Context) bool {
	return currentAdmin(c).Role == models.RoleSuperAdmin
}

// setupDone is true once a stored admin exists or an admin is configured.
func setupDone(count int64, admin config.AdminConfig) bool {
	return count > 0 || admin.PasswordHash != ""
}

// SetupCheck godoc
// @Summary      Whether first-run admin setup is needed
// @Tags         auth
// @Produce      json
// @Success      200  {object}  models.SetupStatusResponse
// @Router       /api/admin/setup/check [get]
func SetupCheck(admins storage.AdminStore, admin config.AdminConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := admins.CountAdmins(c.Request.Context())
		if err != nil {
			logger.Error("count admins", zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to check admin status")
			return
		}
		done := setupDone(count, admin)
		c.JSON(http.StatusOK, models.SetupStatusResponse{
			HasAdmin:   done,
			AdminCount: count,
			NeedsSetup: !done,
		})
	}
}

// SetupFirstAdmin godoc
// @Summary      Create the first super admin
// @Description  Only allowed while no admin account exists and none is configured.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.CreateAdminRequest  true  "Account"
// @Success      201   {object}  models.SetupResponse
// @Failure      400   {object}  models.ErrorResponse
// @Router       /api/admin/setup/first [post]
func SetupFirstAdmin(admins storage.AdminStore, admin config.AdminConfig, jwtCfg config.JWTConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if admin.PasswordHash != "" {
			utils.ErrorResponse(c, http.StatusBadRequest, "Admin already exists. Use login instead.")
			return
		}

		var req models.CreateAdminRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Username, email, and password are required")
			return
		}
		if len(req.Password) < models.MinPasswordLength {
			utils.ErrorResponse(c, http.StatusBadRequest, msgShortPassword)
			return
		}
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			logger.Error("hash password", zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to setup first admin")
			return
		}

		account := &models.AdminUser{
			Username:     strings.TrimSpace(req.Username),
			Email:        strings.TrimSpace(req.Email),
			PasswordHash: hash,
			Role:         models.RoleSuperAdmin,
			IsActive:     true,
		}
		err = admins.CreateFirstAdmin(c.Request.Context(), account)
		if errors.Is(err, storage.ErrSetupDone) {
			utils.ErrorResponse(c, http.StatusBadRequest, "Admin already exists. Use login instead.")
			return
		}
		if err != nil {
			logger.Error("create first admin", zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to setup first admin")
			return
		}
		logger.Info("first admin created", zap.String("id", account.ID), zap.String("username", account.Username))

		token, _, err := issueToken(jwtCfg, utils.AdminClaims{ID: account.ID, Username: account.Username, Role: account.Role})
		if err != nil {
			logger.Error("issue admin token", zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to setup first admin")
			return
		}
		c.JSON(http.StatusCreated, models.SetupResponse{
			Message: "First admin created successfully",
			Token:   token,
			Admin:   account.Info(),
		})
	}
}

// GetMe godoc
// @Summary      Profile of the signed-in admin
// @Tags         admin-users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.AdminUser
// @Router       /api/admin/me [get]
func GetMe(admins storage.AdminStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := currentAdmin(c)
		if claims.ID == "" {
			c.JSON(http.StatusOK, models.AdminUser{Username: claims.Username, Role: claims.Role, IsActive: true})
			return
		}
		account, err := admins.GetAdmin(c.Request.Context(), claims.ID)
		if err != nil {
			logger.Error("load profile", zap.String("id", claims.ID), zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch profile")
			return
		}
		c.JSON(http.StatusOK, account)
	}
}

// ListAdmins godoc
// @Summary      List admin accounts, newest first
// @Tags         admin-users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.AdminListResponse
// @Failure      403  {object}  models.ErrorResponse
// @Router       /api/admin/users [get]
func ListAdmins(admins storage.AdminStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := admins.ListAdmins(c.Request.Context())
		if err != nil {
			logger.Error("list admins", zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch admin users")
			return
		}
		if list == nil {
			list = []models.AdminUser{}
		}
		c.JSON(http.StatusOK, models.AdminListResponse{Admins: list, Total: len(list)})
	}
}

// GetAdminUser godoc
// @Summary      Get one admin account
// @Description  Admins may read their own account; super admins may read any.
// @Tags         admin-users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Admin ID"
// @Success      200  {object}  models.AdminUser
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/admin/users/{id} [get]
func GetAdminUser(admins storage.AdminStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isSuperAdmin(c) && !isSelf(c, c.Param("id")) {
			utils.ErrorResponse(c, http.StatusForbidden, "You can only view your own profile")
			return
		}
		account, ok := loadAdmin(c, admins, logger)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, account)
	}
}

// CreateAdminUser godoc
// @Summary      Create an admin account
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      models.CreateAdminRequest  true  "Account"
// @Success      201   {object}  models.AdminUserResponse
// @Failure      400   {object}  models.ErrorResponse
// @Failure      403   {object}  models.ErrorResponse
// @Router       /api/admin/users [post]
func CreateAdminUser(admins storage.AdminStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateAdminRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Username, email, and password are required")
			return
		}
		if len(req.Password) < models.MinPasswordLength {
			utils.ErrorResponse(c, http.StatusBadRequest, msgShortPassword)
			return
		}
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			logger.Error("hash password", zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to create admin user")
			return
		}

		account := &models.AdminUser{
			Username:     strings.TrimSpace(req.Username),
			Email:        strings.TrimSpace(req.Email),
			PasswordHash: hash,
			Role:         models.NormalizeRole(req.Role),
			IsActive:     true,
		}
		err = admins.CreateAdmin(c.Request.Context(), account)
		if errors.Is(err, storage.ErrAdminExists) {
			utils.ErrorResponse(c, http.StatusBadRequest, "Username or email already exists")
			return
		}
		if err != nil {
			logger.Error("create admin", zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to create admin user")
			return
		}
		logger.Info("admin user created",
			zap.String("id", account.ID),
			zap.String("username", account.Username),
			zap.String("role", account.Role),
			zap.String("by", adminName(c)),
		)
		c.JSON(http.StatusCreated, models.AdminUserResponse{Message: "Admin user created successfully", Admin: account})
	}
}

// UpdateAdminUser godoc
// @Summary      Update an admin account
// @Description  Admins may edit their own username and e-mail; role and active status are reserved to super admins.
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                     true  "Admin ID"
// @Param        body  body      models.UpdateAdminRequest  true  "Fields to change"
// @Success      200   {object}  models.AdminUserResponse
// @Failure      400   {object}  models.ErrorResponse
// @Failure      403   {object}  models.ErrorResponse
// @Failure      404   {object}  models.ErrorResponse
// @Router       /api/admin/users/{id} [put]
func UpdateAdminUser(admins storage.AdminStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !isSuperAdmin(c) && !isSelf(c, id) {
			utils.ErrorResponse(c, http.StatusForbidden, "You can only update your own profile")
			return
		}

		var req models.UpdateAdminRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		if (req.Role != nil || req.IsActive != nil) && !isSuperAdmin(c) {
			utils.ErrorResponse(c, http.StatusForbidden, "Only super admins can change role or active status")
			return
		}
		if req.IsActive != nil && !*req.IsActive && isSelf(c, id) {
			utils.ErrorResponse(c, http.StatusBadRequest, "You cannot deactivate your own account")
			return
		}

		account, ok := loadAdmin(c, admins, logger)
		if !ok {
			return
		}
		if req.Username != nil && strings.TrimSpace(*req.Username) != "" {
			account.Username = strings.TrimSpace(*req.Username)
		}
		if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
			account.Email = strings.TrimSpace(*req.Email)
		}
		if req.Role != nil {
			account.Role = models.NormalizeRole(*req.Role)
		}
		if req.IsActive != nil {
			account.IsActive = *req.IsActive
		}

		err := admins.UpdateAdmin(c.Request.Context(), account)
		switch {
		case errors.Is(err, storage.ErrAdminExists):
			utils.ErrorResponse(c, http.StatusBadRequest, "Username or email already exists")
			return
		case errors.Is(err, storage.ErrAdminNotFound):
			utils.ErrorResponse(c, http.StatusNotFound, "Admin user not found")
			return
		case err != nil:
			logger.Error("update admin", zap.String("id", id), zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to update admin user")
			return
		}
		c.JSON(http.StatusOK, models.AdminUserResponse{Message: "Admin user updated successfully", Admin: account})
	}
}

// ChangeAdminPassword godoc
// @Summary      Change an admin password
// @Description  Admins changing their own password must send the current one.
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                        true  "Admin ID"
// @Param        body  body      models.ChangePasswordRequest  true  "Passwords"
// @Success      200   {object}  models.MessageResponse
// @Failure      400   {object}  models.ErrorResponse
// @Failure      401   {object}  models.ErrorResponse
// @Failure      403   {object}  models.ErrorResponse
// @Failure      404   {object}  models.ErrorResponse
// @Router       /api/admin/users/{id}/password [put]
func ChangeAdminPassword(admins storage.AdminStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		self := isSelf(c, id)
		if !isSuperAdmin(c) && !self {
			utils.ErrorResponse(c, http.StatusForbidden, "You can only change your own password")
			return
		}

		var req models.ChangePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.NewPassword == "" {
			utils.ErrorResponse(c, http.StatusBadRequest, "New password is required")
			return
		}
		if len(req.NewPassword) < models.MinPasswordLength {
			utils.ErrorResponse(c, http.StatusBadRequest, msgShortPassword)
			return
		}

		account, ok := loadAdmin(c, admins, logger)
		if !ok {
			return
		}
		if self {
			if req.CurrentPassword == "" {
				utils.ErrorResponse(c, http.StatusBadRequest, "Current password is required")
				return
			}
			if !utils.ValidatePassword(account.PasswordHash, req.CurrentPassword) {
				utils.ErrorResponse(c, http.StatusUnauthorized, "Current password is incorrect")
				return
			}
		}

		hash, err := utils.HashPassword(req.NewPassword)
		if err != nil {
			logger.Error("hash password", zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to change password")
			return
		}
		account.PasswordHash = hash
		if err := admins.UpdateAdmin(c.Request.Context(), account); err != nil {
			logger.Error("change password", zap.String("id", id), zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to change password")
			return
		}
		logger.Info("admin password changed", zap.String("id", id), zap.String("by", adminName(c)))
		c.JSON(http.StatusOK, models.MessageResponse{Message: "Password changed successfully"})
	}
}

// DeleteAdminUser godoc
// @Summary      Delete an admin account
// @Tags         admin-users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Admin ID"
// @Success      200  {object}  models.AdminDeleteResponse
// @Failure      400  {object}  models.ErrorResponse
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/admin/users/{id} [delete]
func DeleteAdminUser(admins storage.AdminStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if isSelf(c, id) {
			utils.ErrorResponse(c, http.StatusBadRequest, "You cannot delete your own account")
			return
		}
		account, ok := loadAdmin(c, admins, logger)
		if !ok {
			return
		}
		err := admins.DeleteAdmin(c.Request.Context(), id)
		if errors.Is(err, storage.ErrAdminNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Admin user not found")
			return
		}
		if err != nil {
			logger.Error("delete admin", zap.String("id", id), zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete admin user")
			return
		}
		logger.Info("admin user deleted", zap.String("id", id), zap.String("by", adminName(c)))
		c.JSON(http.StatusOK, models.AdminDeleteResponse{
			Message:      "Admin user deleted successfully",
			DeletedAdmin: account.Info(),
		})
	}
}

// ToggleAdminActive godoc
// @Summary      Activate or deactivate an admin account
// @Tags         admin-users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Admin ID"
// @Success      200  {object}  models.AdminUserResponse
// @Failure      400  {object}  models.ErrorResponse
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/admin/users/{id}/toggle-active [patch]
func ToggleAdminActive(admins storage.AdminStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if isSelf(c, id) {
			utils.ErrorResponse(c, http.StatusBadRequest, "You cannot deactivate your own account")
			return
		}
		account, ok := loadAdmin(c, admins, logger)
		if !ok {
			return
		}
		account.IsActive = !account.IsActive
		if err := admins.UpdateAdmin(c.Request.Context(), account); err != nil {
			logger.Error("toggle admin", zap.String("id", id), zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to toggle admin status")
			return
		}
		state := "deactivated"
		if account.IsActive {
			state = "activated"
		}
		c.JSON(http.StatusOK, models.AdminUserResponse{
			Message: fmt.Sprintf("Admin user %s successfully", state),
			Admin:   account,
		})
	}
}
