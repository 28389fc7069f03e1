package users

import (
	"errors"
	"log/slog"
	"net/http"
	"tfabot/entity"
	"tfabot/internal/quota"
	"tfabot/lib/api/response"
	"tfabot/lib/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// Core is the subset of the service facade the user handlers need.
type Core interface {
	UserStatus(userID string) entity.UserStatus
	SetUserActivation(userID string, activated bool) error
	ListUsers() []entity.UserSummary
}

// List renders every known user with activation flag and stored counter.
func List(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.users")
		log := logger.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			log.Error("user service not available")
			render.JSON(w, r, response.Error("User listing not available"))
			return
		}

		users := handler.ListUsers()
		log.With(slog.Int("count", len(users))).Debug("users listed")
		render.JSON(w, r, response.Ok(users))
	}
}

// Status reports one user's registration, activation and effective usage.
func Status(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.users")
		userId := chi.URLParam(r, "id")

		log := logger.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("user_id", userId),
		)

		if handler == nil {
			log.Error("user service not available")
			render.JSON(w, r, response.Error("User status not available"))
			return
		}

		status := handler.UserStatus(userId)
		if !status.Registered {
			render.Status(r, 404)
			render.JSON(w, r, response.Error("User not registered"))
			return
		}
		render.JSON(w, r, response.Ok(status))
	}
}

// SetActivation handles PUT /users/{id}/activation with {"activated": bool}.
func SetActivation(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.users")
		userId := chi.URLParam(r, "id")

		log := logger.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("user_id", userId),
		)

		if handler == nil {
			log.Error("user service not available")
			render.JSON(w, r, response.Error("User activation not available"))
			return
		}

		req := &entity.ActivationRequest{}
		if err := render.Bind(r, req); err != nil {
			log.Warn("invalid activation request", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		err := handler.SetUserActivation(userId, *req.Activated)
		if errors.Is(err, quota.ErrNotFound) {
			log.Warn("user not registered")
			render.Status(r, 404)
			render.JSON(w, r, response.Error("User not registered"))
			return
		}
		if err != nil {
			log.Error("setting activation", sl.Err(err))
			render.Status(r, 500)
			render.JSON(w, r, response.Error("Request failed"))
			return
		}

		log.With(slog.Bool("activated", *req.Activated)).Info("activation changed")
		render.JSON(w, r, response.Ok(handler.UserStatus(userId)))
	}
}
