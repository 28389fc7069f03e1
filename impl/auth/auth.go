package auth

import (
	"crypto/subtle"
	"fmt"
	"tfabot/entity"
)

// Auth validates HTTP API bearer tokens against the single configured token.
type Auth struct {
	token string
}

func New(token string) *Auth {
	return &Auth{token: token}
}

func (a Auth) ClientByToken(token string) (*entity.ApiClient, error) {
	if a.token == "" {
		return nil, fmt.Errorf("api token not configured")
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
		return nil, fmt.Errorf("token mismatch")
	}
	return &entity.ApiClient{Name: "admin"}, nil
}
