package models

import "time"

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User mirrors the remote store's user record. Password holds a bcrypt
// hash, never the plaintext credential.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Password   string    `json:"password"`
	Role       string    `json:"role"`
	Avatar     string    `json:"avatar"` // data-URI or URL
	CreateDate time.Time `json:"createDate"`
	UpdateDate time.Time `json:"updateDate"`
}

// ValidRole reports whether role is one the platform knows about.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleCustomer
}

// PublicUser is the user record with the credential hash stripped,
// safe to return to the view layer.
type PublicUser struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Avatar     string    `json:"avatar"`
	CreateDate time.Time `json:"createDate"`
	UpdateDate time.Time `json:"updateDate"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Avatar:     u.Avatar,
		CreateDate: u.CreateDate,
		UpdateDate: u.UpdateDate,
	}
}
