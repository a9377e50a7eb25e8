package user

import (
	"time"

	domainUser "github.com/cinezone/cinezone/internal/domain/user"
	"github.com/cinezone/cinezone/internal/shared/authorization"
)

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// ProfileInput changes only the fields that are present.
type ProfileInput struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
}

type PasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type ListQuery struct {
	Page   int    `form:"page" json:"page"`
	Limit  int    `form:"limit" json:"limit"`
	Search string `form:"search" json:"search"`
}

type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AuthResponse struct {
	User  *UserResponse `json:"user"`
	Token string        `json:"token"`
}

type ProfileResponse struct {
	User *UserResponse `json:"user"`
}

// UserPagination uses "pages" where the other listings say "totalPages".
type UserPagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

type ListResponse struct {
	Users      []*UserResponse `json:"users"`
	Pagination UserPagination  `json:"pagination"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func ToUserResponse(u *domainUser.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID(),
		Email:     u.Email(),
		FirstName: u.FirstName(),
		LastName:  u.LastName(),
		Role:      u.Role().String(),
		IsActive:  u.IsActive(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}

// Principal is the authenticated caller attached to a request.
type Principal struct {
	UserID uint
	Role   authorization.UserRole
}
