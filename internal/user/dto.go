// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

// ProfileExtras carries the optional display fields a client may send
// alongside a login. Identity fields (subject, email) always come from the
// verified token claims, never from the body.
type ProfileExtras struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=255"`
	Picture *string `json:"picture" validate:"omitempty,url"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=ADMIN PARTNER_USER BANK_USER"`
}

type UserResponse struct {
	ID          int64      `json:"id"`
	Auth0ID     string     `json:"auth0_id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Picture     *string    `json:"picture,omitempty"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type LoginResponse struct {
	User UserResponse `json:"user"`
}

type ListUsersParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
	Role     string `json:"role"`
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Auth0ID:     u.Auth0ID,
		Email:       u.Email,
		Name:        u.Name,
		Picture:     u.Picture,
		Role:        u.Role,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(&u))
	}
	return responses
}
