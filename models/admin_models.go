package models

import "time"

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// MinPasswordLength applies to every admin password set through the API.
const MinPasswordLength = 8

// NormalizeRole maps anything other than super_admin to admin.
func NormalizeRole(role string) string {
	if role == RoleSuperAdmin {
		return RoleSuperAdmin
	}
	return RoleAdmin
}

// AdminUser is a stored admin account. The password hash never leaves the
// server.
type AdminUser struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Info is the public part of the account returned at login.
func (a *AdminUser) Info() AdminInfo {
	return AdminInfo{ID: a.ID, Username: a.Username, Email: a.Email, Role: a.Role}
}

// AdminUserGorm represents the admin_users table with GORM tags
type AdminUserGorm struct {
	ID           string    `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	Username     string    `gorm:"column:username;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Role         string    `gorm:"column:role;type:varchar(20);not null;default:admin" json:"role"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for AdminUserGorm
func (AdminUserGorm) TableName() string {
	return "admin_users"
}

func NewAdminUserGorm(a *AdminUser) AdminUserGorm {
	return AdminUserGorm{
		ID:           a.ID,
		Username:     a.Username,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         a.Role,
		IsActive:     a.IsActive,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (g AdminUserGorm) ToAdminUser() *AdminUser {
	return &AdminUser{
		ID:           g.ID,
		Username:     g.Username,
		Email:        g.Email,
		PasswordHash: g.PasswordHash,
		Role:         g.Role,
		IsActive:     g.IsActive,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}

// SetupStatusResponse tells the admin UI whether first-run setup is needed.
type SetupStatusResponse struct {
	HasAdmin   bool  `json:"hasAdmin"`
	AdminCount int64 `json:"adminCount"`
	NeedsSetup bool  `json:"needsSetup"`
}

// CreateAdminRequest is the body of first-run setup and of admin creation.
// Role is ignored during setup, where the account is always a super admin.
type CreateAdminRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// UpdateAdminRequest changes the fields that are present. Role and IsActive
// are reserved to super admins.
type UpdateAdminRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}

// ChangePasswordRequest sets a new admin password. CurrentPassword is
// required when admins change their own password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// SetupResponse is returned once the first admin exists.
type SetupResponse struct {
	Message string    `json:"message"`
	Token   string    `json:"token"`
	Admin   AdminInfo `json:"admin"`
}

// AdminUserResponse wraps one account with a confirmation message.
type AdminUserResponse struct {
	Message string     `json:"message"`
	Admin   *AdminUser `json:"admin"`
}

// AdminListResponse lists every admin account, newest first.
type AdminListResponse struct {
	Admins []AdminUser `json:"admins"`
	Total  int         `json:"total"`
}

// AdminDeleteResponse names the removed account.
type AdminDeleteResponse struct {
	Message      string    `json:"message"`
	DeletedAdmin AdminInfo `json:"deletedAdmin"`
}
