package model

import "github.com/golang-jwt/jwt/v5"

// AppClaims embeds the subject identity in the access token. The role is a
// snapshot taken at issuance; a promotion or demotion only takes effect on
// tokens minted afterwards.
type AppClaims struct {
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
