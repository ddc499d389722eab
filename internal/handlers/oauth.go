package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/freelance-marketplace-api/internal/constants"
	apierrors "github.com/yukikurage/freelance-marketplace-api/internal/errors"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/services"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// OAuthHandler signs people in with their Google account.
type OAuthHandler struct {
	auth        *AuthHandler
	config      *oauth2.Config
	userInfoURL string
}

// NewGoogleOAuthConfig builds the OAuth2 client configuration for Google login.
func NewGoogleOAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

// NewOAuthHandler creates a new OAuthHandler. A nil config disables Google login.
func NewOAuthHandler(auth *AuthHandler, config *oauth2.Config) *OAuthHandler {
	return &OAuthHandler{
		auth:        auth,
		config:      config,
		userInfoURL: googleUserInfoURL,
	}
}

// GoogleLogin redirects to Google's consent page. The role query parameter
// decides the role of a newly created account.
func (h *OAuthHandler) GoogleLogin(c *gin.Context) {
	if h.config == nil {
		apierrors.ServiceUnavailable(c, "Google login is not configured")
		return
	}

	role := models.Role(c.DefaultQuery("role", string(models.RoleClient)))
	if role != models.RoleClient && role != models.RoleFreelancer {
		apierrors.BadRequest(c, "role must be client or freelancer")
		return
	}

	state := uuid.NewString()
	session := sessions.Default(c)
	session.Set(constants.SessionKeyOAuthState, state)
	session.Set(constants.SessionKeyOAuthRole, string(role))
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.config.AuthCodeURL(state, oauth2.AccessTypeOnline))
}

// GoogleCallback completes the OAuth exchange and logs the person in.
func (h *OAuthHandler) GoogleCallback(c *gin.Context) {
	if h.config == nil {
		apierrors.ServiceUnavailable(c, "Google login is not configured")
		return
	}

	session := sessions.Default(c)
	expected, _ := session.Get(constants.SessionKeyOAuthState).(string)
	role, _ := session.Get(constants.SessionKeyOAuthRole).(string)
	session.Delete(constants.SessionKeyOAuthState)
	session.Delete(constants.SessionKeyOAuthRole)

	if expected == "" || c.Query("state") != expected {
		apierrors.BadRequest(c, "Invalid OAuth state")
		return
	}
	code := c.Query("code")
	if code == "" {
		apierrors.BadRequest(c, "Missing authorization code")
		return
	}

	ctx := c.Request.Context()
	token, err := h.config.Exchange(ctx, code)
	if err != nil {
		apierrors.Unauthorized(c, "Google authorization failed")
		return
	}

	profile, err := h.fetchProfile(ctx, token)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	person, err := h.auth.authService.LoginWithGoogle(ctx, *profile, models.Role(role))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.auth.startSession(c, person, "Logged in with Google")
}

func (h *OAuthHandler) fetchProfile(ctx context.Context, token *oauth2.Token) (*services.GoogleProfile, error) {
	resp, err := h.config.Client(ctx, token).Get(h.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch google profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo returned %s", resp.Status)
	}

	var profile services.GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode google profile: %w", err)
	}
	return &profile, nil
}
