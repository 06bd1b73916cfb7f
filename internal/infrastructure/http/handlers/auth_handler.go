package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/kaveeshanethruwan/taskhive/internal/application/auth"
	domerrors "github.com/kaveeshanethruwan/taskhive/internal/domain/errors"
	"github.com/kaveeshanethruwan/taskhive/internal/infrastructure/http/middleware"
)

type AuthHandler struct {
	login    *auth.Login
	refresh  *auth.Refresh
	session  *auth.Session
	validate *validator.Validate
	log      zerolog.Logger
}

func NewAuthHandler(login *auth.Login, refresh *auth.Refresh, session *auth.Session, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		login:    login,
		refresh:  refresh,
		session:  session,
		validate: validator.New(),
		log:      log,
	}
}

type tokenPairResponse struct {
	UserID       int64  `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email" validate:"required,email,max=254"`
		Password string `json:"password" validate:"required,max=128"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	email := SanitizeEmail(body.Email)
	password := SanitizePassword(body.Password)
	if email == "" || password == "" {
		writeErr(w, http.StatusBadRequest, "", "invalid email or password length")
		return
	}
	result, err := h.login.Execute(r.Context(), auth.LoginInput{Email: email, Password: password})
	if err != nil {
		AuditLog(h.log, r, "auth.login", 0, false, err.Error())
		middleware.RecordAuthAttempt("login", false)
		if errors.Is(err, domerrors.ErrInvalidCredentials) {
			writeErr(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("login failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	AuditLog(h.log, r, "auth.login", result.UserID, true, "")
	middleware.RecordAuthAttempt("login", true)
	writeJSON(w, http.StatusOK, tokenPairResponse{
		UserID:       result.UserID,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "missing or invalid authorization")
		return
	}
	presented, ok := middleware.RefreshTokenFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "missing or invalid authorization")
		return
	}
	result, err := h.refresh.Execute(r.Context(), identity.ID, presented)
	if err != nil {
		AuditLog(h.log, r, "auth.refresh", identity.ID, false, err.Error())
		middleware.RecordAuthAttempt("refresh", false)
		if errors.Is(err, domerrors.ErrInvalidRefreshToken) {
			writeErr(w, http.StatusUnauthorized, ErrCodeInvalidToken, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("refresh failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	AuditLog(h.log, r, "auth.refresh", identity.ID, true, "")
	middleware.RecordAuthAttempt("refresh", true)
	writeJSON(w, http.StatusOK, tokenPairResponse{
		UserID:       result.UserID,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "missing or invalid authorization")
		return
	}
	if err := h.session.SignOut(r.Context(), identity.ID); err != nil {
		h.log.Error().Err(err).Msg("signout failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	AuditLog(h.log, r, "auth.signout", identity.ID, true, "")
	middleware.RecordAuthAttempt("signout", true)
	w.WriteHeader(http.StatusNoContent)
}
