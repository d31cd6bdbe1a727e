package model

import "time"

type User struct {
	ID           string     `json:"id"`
	Account      string     `json:"account"`
	Nickname     string     `json:"nickname"`
	PasswordHash string     `json:"-"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Avatar       string     `json:"avatar,omitempty"`
	Platform     string     `json:"platform"`
	Roles        []Role     `json:"roles,omitempty"`
	DeletedAt    *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// RoleKeys returns the stable role keys used by the authorization gate.
func (u User) RoleKeys() []string {
	keys := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		keys = append(keys, role.RoleKey)
	}
	return keys
}

// AuthClaims is the identity snapshot embedded in a session token at
// issuance. Role changes made afterwards are not reflected until the token
// is refreshed or re-issued.
type AuthClaims struct {
	UserID   string   `json:"sub"`
	Account  string   `json:"account"`
	Nickname string   `json:"nickname"`
	Roles    []string `json:"roles"`
	Platform string   `json:"platform"`
	Type     string   `json:"typ"`
	TokenID  string   `json:"jti"`
}

type AuthUser struct {
	ID       string   `json:"id"`
	Account  string   `json:"account"`
	Nickname string   `json:"nickname"`
	Platform string   `json:"platform"`
	Roles    []string `json:"roles"`
}

type TokenPair struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int64    `json:"expires_in"`
	User         AuthUser `json:"user"`
}
