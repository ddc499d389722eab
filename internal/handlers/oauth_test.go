package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/freelance-marketplace-api/internal/constants"
	"github.com/yukikurage/freelance-marketplace-api/internal/dto"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"golang.org/x/oauth2"
)

// fakeGoogle serves the token and userinfo endpoints of the OAuth flow.
func (suite *HandlerTestSuite) fakeGoogle(profile map[string]any) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "google-access-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer google-access-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(profile)
	})

	srv := httptest.NewServer(mux)
	suite.T().Cleanup(srv.Close)
	return srv
}

func (suite *HandlerTestSuite) setupOAuthRouter(provider *httptest.Server) *gin.Engine {
	var handler *OAuthHandler
	if provider == nil {
		handler = NewOAuthHandler(NewAuthHandler(suite.authService), nil)
	} else {
		config := NewGoogleOAuthConfig("client-id", "client-secret", "http://localhost/api/auth/google/callback")
		config.Endpoint = oauth2.Endpoint{
			AuthURL:  provider.URL + "/auth",
			TokenURL: provider.URL + "/token",
		}
		handler = NewOAuthHandler(NewAuthHandler(suite.authService), config)
		handler.userInfoURL = provider.URL + "/userinfo"
	}

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	r.GET("/api/auth/google/login", handler.GoogleLogin)
	r.GET("/api/auth/google/callback", handler.GoogleCallback)
	return r
}

func serveWithCookies(r *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) TestOAuthHandler_GoogleLoginFlow() {
	provider := suite.fakeGoogle(map[string]any{
		"sub":            "google-123",
		"email":          "Jane@Example.com",
		"email_verified": true,
		"name":           "Jane Doe",
	})
	r := suite.setupOAuthRouter(provider)

	w := serveWithCookies(r, "/api/auth/google/login?role=freelancer", nil)
	suite.Require().Equal(http.StatusTemporaryRedirect, w.Code, w.Body.String())

	location, err := url.Parse(w.Header().Get("Location"))
	suite.Require().NoError(err)
	suite.Equal("/auth", location.Path)
	state := location.Query().Get("state")
	suite.Require().NotEmpty(state)
	cookies := w.Result().Cookies()

	w = serveWithCookies(r, "/api/auth/google/callback?state="+state+"&code=auth-code", cookies)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var auth dto.AuthDTO
	suite.decodeData(w, &auth)
	suite.NotEmpty(auth.Token)
	suite.Equal("jane@example.com", auth.User.Email)
	suite.Equal(models.RoleFreelancer, auth.User.Role)
	suite.False(auth.User.HasPassword)

	person, err := suite.people.FindByGoogleID(suite.T().Context(), "google-123")
	suite.Require().NoError(err)
	suite.Equal(auth.User.ID, person.ID)
}

func (suite *HandlerTestSuite) TestOAuthHandler_RejectsBadState() {
	r := suite.setupOAuthRouter(suite.fakeGoogle(map[string]any{"sub": "x"}))

	w := serveWithCookies(r, "/api/auth/google/login", nil)
	suite.Require().Equal(http.StatusTemporaryRedirect, w.Code)

	w = serveWithCookies(r, "/api/auth/google/callback?state=forged&code=auth-code", w.Result().Cookies())
	suite.Equal(http.StatusBadRequest, w.Code)

	w = serveWithCookies(r, "/api/auth/google/login?role=admin", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestOAuthHandler_NotConfigured() {
	r := suite.setupOAuthRouter(nil)

	w := serveWithCookies(r, "/api/auth/google/login", nil)
	suite.Equal(http.StatusServiceUnavailable, w.Code)
}
