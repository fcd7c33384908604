package models

// JWTClaims represents the claims this service reads from the bearer
// token. The gateway validates signatures upstream; the CPF arrives in
// preferred_username.
type JWTClaims struct {
	JTI               string   `json:"jti"`
	Exp               int64    `json:"exp"`
	IAT               int64    `json:"iat"`
	ISS               string   `json:"iss"`
	AUD               []string `json:"aud"`
	SUB               string   `json:"sub"`
	Name              string   `json:"name"`
	PreferredUsername string   `json:"preferred_username"`
	Email             string   `json:"email"`
}
