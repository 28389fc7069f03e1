package core

import (
	"fmt"
	"log/slog"
	"tfabot/entity"
	"tfabot/lib/clock"
	"tfabot/lib/sl"
)

type AuthService interface {
	ClientByToken(token string) (*entity.ApiClient, error)
}

type QuotaService interface {
	Status(userID, today string) entity.UserStatus
	SetActivation(userID string, activated bool) error
	ListAll() []entity.UserSummary
}

// Core glues the HTTP API surface to the quota store and token auth.
type Core struct {
	quota QuotaService
	auth  AuthService
	log   *slog.Logger
}

func New(quota QuotaService, auth AuthService, log *slog.Logger) Core {
	if quota == nil {
		panic("quota service is nil")
	}
	return Core{
		quota: quota,
		auth:  auth,
		log:   log.With(sl.Module("core")),
	}
}

func (c Core) AuthenticateByToken(token string) (*entity.ApiClient, error) {
	if c.auth == nil {
		return nil, fmt.Errorf("auth service not connected")
	}
	return c.auth.ClientByToken(token)
}

func (c Core) UserStatus(userID string) entity.UserStatus {
	return c.quota.Status(userID, clock.Today())
}

func (c Core) SetUserActivation(userID string, activated bool) error {
	return c.quota.SetActivation(userID, activated)
}

func (c Core) ListUsers() []entity.UserSummary {
	return c.quota.ListAll()
}
