package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	userapp "github.com/kaveeshanethruwan/taskhive/internal/application/user"
	"github.com/kaveeshanethruwan/taskhive/internal/domain"
	domerrors "github.com/kaveeshanethruwan/taskhive/internal/domain/errors"
	"github.com/kaveeshanethruwan/taskhive/internal/infrastructure/http/middleware"
)

type UsersHandler struct {
	users    *userapp.Service
	validate *validator.Validate
	log      zerolog.Logger
}

func NewUsersHandler(users *userapp.Service, log zerolog.Logger) *UsersHandler {
	return &UsersHandler{users: users, validate: validator.New(), log: log}
}

// userResponse never exposes password or refresh hashes.
type userResponse struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name,omitempty"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
	}
}

func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FirstName string `json:"first_name" validate:"required,max=100"`
		LastName  string `json:"last_name" validate:"max=100"`
		Email     string `json:"email" validate:"required,email,max=254"`
		Password  string `json:"password" validate:"required,min=8,max=128"`
		AvatarURL string `json:"avatar_url" validate:"omitempty,url,max=2048"`
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
	u, err := h.users.Create(r.Context(), userapp.CreateInput{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     email,
		Password:  password,
		AvatarURL: body.AvatarURL,
	})
	if err != nil {
		if errors.Is(err, domerrors.ErrEmailExists) {
			writeErr(w, http.StatusConflict, "", err.Error())
			return
		}
		h.log.Error().Err(err).Msg("create user failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list users failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *UsersHandler) Profile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "missing or invalid authorization")
		return
	}
	h.getByID(w, r, identity.ID)
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid user id")
		return
	}
	h.getByID(w, r, id)
}

func (h *UsersHandler) getByID(w http.ResponseWriter, r *http.Request, id int64) {
	u, err := h.users.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domerrors.ErrUserNotFound) {
			writeErr(w, http.StatusNotFound, "", err.Error())
			return
		}
		h.log.Error().Err(err).Msg("get user failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid user id")
		return
	}
	var body struct {
		FirstName *string `json:"first_name" validate:"omitempty,max=100"`
		LastName  *string `json:"last_name" validate:"omitempty,max=100"`
		Email     *string `json:"email" validate:"omitempty,email,max=254"`
		AvatarURL *string `json:"avatar_url" validate:"omitempty,url,max=2048"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	if body.Email != nil {
		email := SanitizeEmail(*body.Email)
		if email == "" {
			writeErr(w, http.StatusBadRequest, "", "invalid email")
			return
		}
		body.Email = &email
	}
	u, err := h.users.Update(r.Context(), id, userapp.UpdateInput{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     body.Email,
		AvatarURL: body.AvatarURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, domerrors.ErrUserNotFound):
			writeErr(w, http.StatusNotFound, "", err.Error())
		case errors.Is(err, domerrors.ErrEmailExists):
			writeErr(w, http.StatusConflict, "", err.Error())
		default:
			h.log.Error().Err(err).Msg("update user failed")
			writeErr(w, http.StatusInternalServerError, "", "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid user id")
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domerrors.ErrUserNotFound) {
			writeErr(w, http.StatusNotFound, "", err.Error())
			return
		}
		h.log.Error().Err(err).Msg("delete user failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "user " + strconv.FormatInt(id, 10) + " deleted",
	})
}
