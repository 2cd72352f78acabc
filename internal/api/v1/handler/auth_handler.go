package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// AuthHandler proxies sign-up, sign-in and sign-out to the auth
// backend.
type AuthHandler struct {
	authSvc  service.AuthService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc service.AuthService, v *validator.Validate, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, validate: v, logger: logger}
}

// RegisterRoutes mounts the auth endpoints. They are unauthenticated by
// nature; sign-out takes the token from the Authorization header
// directly.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/signup", h.signUp)
	mux.HandleFunc("POST /auth/signin", h.signIn)
	mux.HandleFunc("POST /auth/signout", h.signOut)
}

// signUp godoc
// @Summary Create a new account
// @Description Registers the account with the auth backend, which sends the verification email.
// @Tags auth
// @Accept json
// @Produce json
// @Param account body dto.SignUpDTO true "Sign-up request"
// @Success 201 {object} dto.SignUpResponseDTO
// @Failure 400 {string} string "invalid request"
// @Router /auth/signup [post]
func (h *AuthHandler) signUp(w http.ResponseWriter, r *http.Request) {
	var req dto.SignUpDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.authSvc.SignUp(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		h.writeAuthError(w, err, "failed to sign up")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(dto.SignUpResponseDTO{UserID: user.ID, Email: user.Email})
}

// signIn godoc
// @Summary Sign in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.SignInDTO true "Sign-in request"
// @Success 200 {object} dto.SessionResponseDTO
// @Failure 401 {string} string "invalid credentials"
// @Router /auth/signin [post]
func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request) {
	var req dto.SignInDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.authSvc.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeAuthError(w, err, "failed to sign in")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dto.SessionResponseDTO{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresIn:    session.ExpiresIn,
		UserID:       session.User.ID,
		Email:        session.User.Email,
	})
}

// signOut godoc
// @Summary Terminate the current session
// @Tags auth
// @Success 204 {string} string "signed out"
// @Failure 401 {string} string "unauthorized"
// @Router /auth/signout [post]
func (h *AuthHandler) signOut(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
		return
	}

	if err := h.authSvc.SignOut(r.Context(), parts[1]); err != nil {
		h.writeAuthError(w, err, "failed to sign out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeAuthError passes the auth backend's message and status through
// verbatim; anything else is a plain 500.
func (h *AuthHandler) writeAuthError(w http.ResponseWriter, err error, fallback string) {
	var authErr *service.AuthError
	if errors.As(err, &authErr) {
		http.Error(w, authErr.Message, authErr.Status)
		return
	}
	h.logger.Error().Err(err).Msg(fallback)
	http.Error(w, fallback, http.StatusInternalServerError)
}
