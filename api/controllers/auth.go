package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/api/middleware"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/api/responses"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/api/validators"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/internal/identity"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/internal/syslog"
	pkgauth "github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/auth"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/config"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/db/models"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/enums"
	pkgerrors "github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/errors"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/logger"
)

type sessionStore interface {
	StoreSession(ctx context.Context, jti, userID string, ttl time.Duration) error
	RevokeSession(ctx context.Context, jti string) error
}

type loginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username  string  `json:"username" validate:"required,min=3"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8"`
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Phone     *string `json:"phone,omitempty"`
}

type userResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Username           string     `json:"username"`
	Email              string     `json:"email"`
	FirstName          string     `json:"first_name"`
	LastName           string     `json:"last_name"`
	Role               enums.Role `json:"role"`
	MustChangePassword bool       `json:"must_change_password"`
}

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	User        userResponse `json:"user"`
}

func newUserResponse(user *models.User, role enums.Role) userResponse {
	return userResponse{
		ID:                 user.ID,
		Username:           user.Username,
		Email:              user.Email,
		FirstName:          user.FirstName,
		LastName:           user.LastName,
		Role:               role,
		MustChangePassword: user.MustChangePassword,
	}
}

// AuthLogin authenticates credentials, opens a server-side session and
// returns a bearer token.
func AuthLogin(svc identity.Service, sessions sessionStore, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, role, err := svc.Authenticate(r.Context(), identity.Credentials{
			Login:    body.Login,
			Password: body.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		jti := uuid.NewString()
		token, err := pkgauth.MintAccessToken(cfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
			UserID: user.ID,
			Role:   role,
			JTI:    jti,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token"))
			return
		}

		if sessions != nil {
			if err := sessions.StoreSession(r.Context(), jti, user.ID.String(), cfg.SessionTTL()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session"))
				return
			}
		}

		responses.WriteSuccess(w, loginResponse{
			AccessToken: token,
			User:        newUserResponse(user, role),
		})
	}
}

// AuthRegister self-registers a staff account. The account starts without
// a role until an admin assigns one.
func AuthRegister(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body registerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Register(r.Context(), identity.RegisterInput{
			Username:  body.Username,
			Email:     body.Email,
			Password:  body.Password,
			FirstName: body.FirstName,
			LastName:  body.LastName,
			Phone:     body.Phone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newUserResponse(user, enums.RoleUnassigned))
	}
}

// AuthLogout revokes the session behind the presented token.
func AuthLogout(sessions sessionStore, recorder syslog.Recorder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jti := middleware.SessionJTIFromContext(r.Context())
		if jti == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
			return
		}

		if sessions != nil {
			if err := sessions.RevokeSession(r.Context(), jti); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session"))
				return
			}
		}

		if recorder != nil {
			userID := middleware.UserIDFromContext(r.Context())
			recorder.Record(r.Context(), syslog.AppendInput{
				Action:      enums.LogActionUserLogout,
				ActorID:     &userID,
				Description: "User logged out",
			})
		}

		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// AuthMe returns the authenticated user's profile.
func AuthMe(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		user, err := svc.FindUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newUserResponse(user, middleware.RoleFromContext(r.Context())))
	}
}
