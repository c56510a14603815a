// internal/app/features/authgoogle/handler.go
package authgoogle

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable string users type to log in

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/cropconnect/coophub/internal/app/features/errors"
	loginstore "github.com/cropconnect/coophub/internal/app/store/logins"
	"github.com/cropconnect/coophub/internal/app/store/oauthstate"
	userstore "github.com/cropconnect/coophub/internal/app/store/users"
	"github.com/cropconnect/coophub/internal/app/system/auditlog"
	"github.com/cropconnect/coophub/internal/app/system/auth"
	"github.com/cropconnect/coophub/internal/app/system/normalize"
	"github.com/cropconnect/coophub/internal/app/system/timeouts"
	"github.com/cropconnect/coophub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Handler handles Google OAuth authentication.
type Handler struct {
	DB         *mongo.Database
	Users      *userstore.Store
	Logins     *loginstore.Store
	States     *oauthstate.Store
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger

	// OAuth configuration
	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g., "https://coophub.example.com/auth/google/callback"
}

// NewHandler creates a new Google OAuth handler.
func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	clientID, clientSecret, baseURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		DB:           db,
		Users:        userstore.New(db),
		Logins:       loginstore.New(db),
		States:       oauthstate.New(db),
		Log:          logger,
		SessionMgr:   sessionMgr,
		ErrLog:       errLog,
		AuditLog:     audit,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
	}
}

// oauth2Config returns the Google OAuth2 configuration.
func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// IsConfigured returns true if Google OAuth is configured.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google                                                             |
| Initiates the Google OAuth flow by redirecting to Google's consent screen.   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.ErrLog.LogNotFound(w, r, "google oauth not configured", nil,
			"Google sign-in is not enabled on this server.")
		return
	}

	// Generate cryptographically secure state
	state, err := generateState()
	if err != nil {
		h.ErrLog.LogServerError(w, r, "generate OAuth state", err, "A server error occurred.")
		return
	}

	// Where the client wants to land after the exchange; validated against
	// open redirects when the callback consumes it.
	returnURL := query.Get(r, "return")

	// Store state with 10-minute expiry
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	expiresAt := time.Now().UTC().Add(10 * time.Minute)
	if err := h.States.Save(ctx, state, returnURL, expiresAt); err != nil {
		h.ErrLog.LogServerError(w, r, "save OAuth state", err, "A server error occurred.")
		return
	}

	// Redirect to Google
	url := h.oauth2Config().AuthCodeURL(state, oauth2.AccessTypeOffline)

	h.Log.Debug("initiating Google OAuth flow",
		zap.String("redirect_url", url),
		zap.String("return_url", returnURL))

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google/callback                                                    |
| Handles the OAuth callback from Google, exchanges code for tokens,           |
| fetches user info, resolves (or provisions) the account, creates a session,  |
| and redirects to the validated return URL.                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Check for errors from Google
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		errDesc := r.URL.Query().Get("error_description")
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", errDesc))
		h.ErrLog.LogUnauthorized(w, r, "google oauth denied", nil,
			"Google sign-in was cancelled or denied.")
		return
	}

	// Validate state parameter
	state := r.URL.Query().Get("state")
	if state == "" {
		h.ErrLog.LogBadRequest(w, r, "missing OAuth state parameter", nil,
			"Missing OAuth state parameter.")
		return
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	returnURL, valid, err := h.States.Validate(ctxTimeout, state)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "validate OAuth state", err, "A server error occurred.")
		return
	}
	if !valid {
		h.ErrLog.LogUnauthorized(w, r, "invalid or expired OAuth state", nil,
			"This sign-in attempt is invalid or has expired. Please try again.")
		return
	}

	// Exchange code for token
	code := r.URL.Query().Get("code")
	if code == "" {
		h.ErrLog.LogBadRequest(w, r, "missing OAuth code parameter", nil,
			"Missing OAuth code parameter.")
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.ErrLog.LogBadGateway(w, r, "exchange OAuth code", err,
			"Could not complete Google sign-in. Please try again.")
		return
	}

	// Fetch user info from Google
	googleUser, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		h.ErrLog.LogBadGateway(w, r, "fetch Google user info", err,
			"Could not complete Google sign-in. Please try again.")
		return
	}

	if googleUser.Email == "" || !googleUser.EmailVerified {
		h.ErrLog.LogUnauthorized(w, r, "google account email unverified", nil,
			"Your Google account has no verified email address.")
		return
	}

	h.Log.Debug("Google user info fetched",
		zap.String("google_id", googleUser.ID),
		zap.String("email", googleUser.Email),
		zap.String("name", googleUser.Name))

	// Resolve the account: linked, known by email, or provisioned fresh.
	user, err := h.resolveUser(ctx, r, googleUser)
	switch {
	case errors.Is(err, errUserDisabled):
		h.ErrLog.LogForbidden(w, r, "google sign-in disabled account", nil,
			"Your account is currently disabled. Please contact an administrator.")
		return
	case errors.Is(err, errAuthMismatch):
		h.ErrLog.LogConflict(w, r, "google sign-in auth method mismatch", nil,
			"This email is registered for password sign-in. Use your password instead.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "resolve Google user", err, "A server error occurred.")
		return
	}

	// Create session and redirect
	if err := h.SessionMgr.SignIn(w, r, user.ID.Hex()); err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err,
			"Unable to create session. Please try again.")
		return
	}

	if err := h.Logins.CreateFrom(ctx, r, user.ID, user.LoginID, "google"); err != nil {
		// Sign-in already succeeded; the history record is best effort.
		h.Log.Warn("record login failed", zap.Error(err), zap.String("user_id", user.ID.Hex()))
	}

	h.AuditLog.LoginSuccess(ctx, r, user.ID, "google", user.LoginID)

	h.Log.Info("user signed in via Google OAuth",
		zap.String("user_id", user.ID.Hex()),
		zap.String("login_id", user.LoginID))

	http.Redirect(w, r, urlutil.SafeReturn(returnURL, "", "/userinfo"), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| User resolution                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

var (
	errUserDisabled = fmt.Errorf("user disabled")
	errAuthMismatch = fmt.Errorf("auth method mismatch")
)

// googleUserInfo represents user info returned from Google.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// fetchGoogleUserInfo retrieves user information from Google's userinfo endpoint.
func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	return &info, nil
}

// resolveUser maps a Google identity onto a local account.
//
// Resolution order:
//  1. google_id = Google's subject ID (already linked)
//  2. login_id (email) — linked on first match, refused if the account
//     signs in with a password
//  3. no account — provision one as an active farmer
func (h *Handler) resolveUser(ctx context.Context, r *http.Request, googleUser *googleUserInfo) (*models.User, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	// First, try the linked subject ID.
	u, err := h.Users.GetByGoogleID(lookupCtx, googleUser.ID)
	if err == nil {
		if normalize.Status(u.Status) == "disabled" {
			h.AuditLog.LoginFailedUserDisabled(ctx, r, u.ID, u.LoginID)
			return nil, errUserDisabled
		}
		return u, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// Not linked yet - try by email.
	u, err = h.Users.GetByLoginID(lookupCtx, googleUser.Email)
	if err == nil {
		if u.AuthMethod != "" && u.AuthMethod != "google" {
			h.Log.Info("Google sign-in refused: account uses another auth method",
				zap.String("login_id", u.LoginID),
				zap.String("auth_method", u.AuthMethod))
			return nil, errAuthMismatch
		}
		if linkErr := h.Users.LinkGoogleID(lookupCtx, u.ID, googleUser.ID); linkErr != nil {
			h.Log.Warn("failed to link google_id",
				zap.Error(linkErr),
				zap.String("user_id", u.ID.Hex()))
		}
		if normalize.Status(u.Status) == "disabled" {
			h.AuditLog.LoginFailedUserDisabled(ctx, r, u.ID, u.LoginID)
			return nil, errUserDisabled
		}
		return u, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// No account - provision one on first sign-in.
	fullName := strings.TrimSpace(googleUser.Name)
	if fullName == "" {
		fullName = googleUser.Email
	}
	created, err := h.Users.Create(lookupCtx, models.User{
		FullName:   fullName,
		LoginID:    googleUser.Email,
		AuthMethod: "google",
		GoogleID:   googleUser.ID,
		Role:       "farmer",
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateLoginID) {
			// Lost a race with a concurrent first sign-in; the winner's record
			// is the account.
			return h.resolveUser(ctx, r, googleUser)
		}
		return nil, err
	}

	h.AuditLog.UserRegistered(ctx, r, created.ID, created.LoginID, "google")
	h.Log.Info("provisioned account from Google sign-in",
		zap.String("user_id", created.ID.Hex()),
		zap.String("login_id", created.LoginID))

	return &created, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Helpers                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// generateState creates a cryptographically secure random state string.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
