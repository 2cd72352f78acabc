package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

// AuthError carries a GoTrue error verbatim, with the upstream status.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// AuthSession is a signed-in Supabase session.
type AuthSession struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int      `json:"expires_in"`
	User         AuthUser `json:"user"`
}

// AuthUser is the Supabase auth identity, distinct from the profile
// row keyed by the same id.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthService proxies the Supabase GoTrue API. Sign-up triggers the
// verification email; sign-in returns the session tokens the client
// presents as bearer auth from then on.
type AuthService interface {
	SignUp(ctx context.Context, email, password, fullName string) (*AuthUser, error)
	SignIn(ctx context.Context, email, password string) (*AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
}

type authService struct {
	baseURL string
	anonKey string
	client  *http.Client
	logger  zerolog.Logger
}

// NewAuthService creates an AuthService for the given Supabase project.
func NewAuthService(supabaseURL, anonKey string, logger zerolog.Logger) AuthService {
	return &authService{
		baseURL: supabaseURL,
		anonKey: anonKey,
		client:  &http.Client{},
		logger:  logger.With().Str("service", "AuthService").Logger(),
	}
}

type signUpRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *authService) SignUp(ctx context.Context, email, password, fullName string) (*AuthUser, error) {
	body := signUpRequest{
		Email:    email,
		Password: password,
		Data:     map[string]any{"full_name": fullName},
	}
	var user AuthUser
	if err := s.post(ctx, "/auth/v1/signup", "", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*AuthSession, error) {
	body := signInRequest{Email: email, Password: password}
	var session AuthSession
	if err := s.post(ctx, "/auth/v1/token?grant_type=password", "", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *authService) SignOut(ctx context.Context, accessToken string) error {
	return s.post(ctx, "/auth/v1/logout", accessToken, nil, nil)
}

// post issues one GoTrue call. A non-2xx answer is surfaced as an
// AuthError with whatever message the body carried.
func (s *authService) post(ctx context.Context, path, bearer string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling auth request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating auth request: %w", err)
	}
	req.Header.Set("apikey", s.anonKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("making request to auth backend: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			s.logger.Warn().Err(closeErr).Msg("Failed to close response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return s.decodeError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding auth response: %w", err)
		}
	}
	return nil
}

func (s *authService) decodeError(resp *http.Response) error {
	message := "authentication request failed"
	bodyBytes, readErr := io.ReadAll(resp.Body)
	if readErr == nil {
		// GoTrue error shapes vary across endpoints and versions.
		var body struct {
			Msg              string `json:"msg"`
			Message          string `json:"message"`
			ErrorDescription string `json:"error_description"`
		}
		if err := json.Unmarshal(bodyBytes, &body); err == nil {
			switch {
			case body.Msg != "":
				message = body.Msg
			case body.Message != "":
				message = body.Message
			case body.ErrorDescription != "":
				message = body.ErrorDescription
			}
		}
	}
	s.logger.Error().Int("status_code", resp.StatusCode).Str("message", message).Msg("Auth backend returned error")
	return &AuthError{Status: resp.StatusCode, Message: message}
}
