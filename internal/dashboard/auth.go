package dashboard

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	apperrors "tickerdash/internal/errors"
	"tickerdash/internal/models"
	"tickerdash/internal/security"
	"tickerdash/internal/store"
)

// Auth messages.
const (
	LoginFailedMessage       = "Login failed. Please check your credentials."
	LoginSucceededMessage    = "Login successful! Redirecting..."
	RegisterFailedMessage    = "Registration failed. Please try again."
	RegisterSucceededMessage = "Registration successful! Please login."
	GenericErrorMessage      = "An error occurred. Please try again."
)

// AuthBackend is the subset of the API client used for authentication.
type AuthBackend interface {
	Login(ctx context.Context, username, password string) (models.Token, error)
	Register(ctx context.Context, email, username, password string) error
	CurrentUser(ctx context.Context) (models.User, error)
}

// Authenticator handles login, registration and session resume.
type Authenticator struct {
	backend AuthBackend
	session store.SessionStore
	logger  *security.SafeLogger
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(backend AuthBackend, session store.SessionStore, logger zerolog.Logger) *Authenticator {
	return &Authenticator{
		backend: backend,
		session: session,
		logger:  security.NewSafeLogger(logger.With().Str("component", "auth").Logger()),
	}
}

// failureReason picks the message to show for a failed auth call.
func failureReason(err error, fallback string) string {
	var ue *apperrors.UnreachableError
	if apperrors.As(err, &ue) {
		return GenericErrorMessage
	}
	return apperrors.Reason(err, fallback)
}

// Login exchanges credentials for a token, stores it, and returns the page
// to go to next.
func (a *Authenticator) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", apperrors.NewValidationError("credentials", username, LoginFailedMessage)
	}

	tok, err := a.backend.Login(ctx, username, password)
	if err != nil {
		a.logger.Warn().Str("username", username).Err(err).Msg("Login failed")
		return "", &AuthFailure{Message: failureReason(err, LoginFailedMessage), Err: err}
	}
	if tok.AccessToken == "" {
		return "", &AuthFailure{Message: LoginFailedMessage, Err: apperrors.ErrNotAuthenticated}
	}
	if err := a.session.Set(tok.AccessToken); err != nil {
		return "", apperrors.Wrap(err, "saving session")
	}

	a.logger.Info().Str("username", username).Str("access_token", tok.AccessToken).Msg("Logged in")
	return PageDashboard, nil
}

// Register validates the fields locally, creates the account, and returns
// the success message. It does not log in.
func (a *Authenticator) Register(ctx context.Context, email, username, password string) (string, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	for _, err := range []error{
		security.ValidateEmail(email),
		security.ValidateUsername(username),
		security.ValidatePassword(password),
	} {
		if err != nil {
			return "", err
		}
	}

	if err := a.backend.Register(ctx, email, username, password); err != nil {
		a.logger.Warn().Str("username", username).Err(err).Msg("Registration failed")
		return "", &AuthFailure{Message: failureReason(err, RegisterFailedMessage), Err: err}
	}
	a.logger.Info().Str("username", username).Msg("Registered")
	return RegisterSucceededMessage, nil
}

// Resume checks a stored token. It returns the dashboard page when the
// token is still accepted and the login page otherwise; a rejected token
// is cleared.
func (a *Authenticator) Resume(ctx context.Context) (string, models.User, error) {
	token, ok, err := a.session.Get()
	if err != nil {
		return PageLogin, models.User{}, err
	}
	if !ok || token == "" {
		return PageLogin, models.User{}, apperrors.ErrNotAuthenticated
	}

	user, err := a.backend.CurrentUser(ctx)
	if err != nil {
		if apperrors.IsUnauthorized(err) {
			if cerr := a.session.Clear(); cerr != nil {
				a.logger.Error().Err(cerr).Msg("Failed to clear session")
			}
			return PageLogin, models.User{}, apperrors.ErrSessionExpired
		}
		return PageLogin, models.User{}, err
	}
	return PageDashboard, user, nil
}

// Logout clears the stored token and returns the login page.
func (a *Authenticator) Logout() (string, error) {
	return PageLogin, a.session.Clear()
}

// AuthFailure carries the message to show for a failed login or
// registration.
type AuthFailure struct {
	Message string
	Err     error
}

func (e *AuthFailure) Error() string { return e.Message }

func (e *AuthFailure) Unwrap() error { return e.Err }
