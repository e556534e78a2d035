package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-cms-backend/auth"
	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	users     *database.AdminUserRepo
	tokens    *auth.TokenService
	now       func() time.Time
}

func newAuthHandler(users *database.AdminUserRepo, tokens *auth.TokenService) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()
	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		users:     users,
		tokens:    tokens,
		now:       time.Now,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userView struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

func newUserView(u *models.AdminUser) userView {
	return userView{ID: u.ID, Email: u.Email, Role: u.Role}
}

type loginResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

type meResponse struct {
	User userView `json:"user"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// login exchanges email and password for a signed token. Unknown emails
// and wrong passwords get the same answer.
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		req.Email = strings.TrimSpace(req.Email)
		if req.Email == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("email"))
			return
		}
		if req.Password == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("password"))
			return
		}

		user, err := h.users.FindByEmail(r.Context(), req.Email)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			auth.BurnPasswordCheck(req.Password)
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		if !auth.VerifyPassword(user.PasswordHash, req.Password) {
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}

		if err := h.users.TouchLastSignIn(r.Context(), user.ID, h.now().UTC()); err != nil {
			h.logger.Warn().Err(err).Str("userId", user.ID.String()).Msg("Failed to record sign in")
		}

		token, err := h.tokens.Issue(user.ID, user.Role)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("Internal server error", err))
			return
		}
		h.responder.WriteJSON(w, loginResponse{Token: token, User: newUserView(user)})
	}
}

// me re-reads the token's user so a deleted account stops resolving.
func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := ctxGetIdentity(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}

		user, err := h.users.FindByID(r.Context(), identity.UserID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		h.responder.WriteJSON(w, meResponse{User: newUserView(user)})
	}
}

// logout is a no-op for stateless tokens; clients drop the token.
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, successResponse{Success: true})
	}
}
