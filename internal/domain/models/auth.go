package models

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// AdminRole is the WordPress role that is sent to the admin dashboard instead of the portal.
const AdminRole = "administrator"

// WordPressClaims represents the JWT claims issued by the jwt-auth plugin.
// See: https://wordpress.org/plugins/jwt-authentication-for-wp-rest-api/
type WordPressClaims struct {
	jwt.RegisteredClaims
	Data struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	} `json:"data"`
}

// GetUserID returns the WordPress user ID carried in the token.
func (c *WordPressClaims) GetUserID() string {
	if c.Data.User.ID != "" {
		return c.Data.User.ID
	}
	return c.Subject
}

// Identity is what a successful login yields and what the session remembers.
type Identity struct {
	Token       string   `json:"token"`
	DisplayName string   `json:"user_display_name"`
	Email       string   `json:"user_email,omitempty"`
	Roles       []string `json:"user_role,omitempty"`
}

// IsAdmin reports whether the identity carries the administrator role.
func (i *Identity) IsAdmin() bool {
	return slices.Contains(i.Roles, AdminRole)
}
