package handlers

import (
	"net/http"
	"net/http/httptest"

	"github.com/yukikurage/freelance-marketplace-api/internal/dto"
	apierrors "github.com/yukikurage/freelance-marketplace-api/internal/errors"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
)

func (suite *HandlerTestSuite) signup(email, role string) *httptest.ResponseRecorder {
	return suite.do(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":    email,
		"password": "supersecret",
		"name":     "New User",
		"role":     role,
	})
}

func (suite *HandlerTestSuite) TestAuthHandler_Signup() {

	w := suite.signup("New.User@Example.com", "freelancer")
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var user dto.UserDTO
	suite.decodeData(w, &user)
	suite.Equal("new.user@example.com", user.Email)
	suite.Equal(models.RoleFreelancer, user.Role)
	suite.True(user.HasPassword)
	suite.NotContains(w.Body.String(), "password_hash")
}

func (suite *HandlerTestSuite) TestAuthHandler_SignupRejectsDuplicateEmail() {

	suite.Require().Equal(http.StatusCreated, suite.signup("dup@example.com", "client").Code)

	w := suite.signup("DUP@example.com", "client")
	suite.Require().Equal(http.StatusConflict, w.Code)
	suite.Equal(apierrors.ErrCodeConflict, suite.decodeError(w).Code)
}

func (suite *HandlerTestSuite) TestAuthHandler_SignupValidation() {

	w := suite.signup("admin@example.com", "admin")
	suite.Require().Equal(http.StatusBadRequest, w.Code)
	resp := suite.decodeError(w)
	suite.Equal(apierrors.ErrCodeValidation, resp.Code)
	suite.NotNil(resp.Details)

	w = suite.do(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":    "short@example.com",
		"password": "short",
		"role":     "client",
	})
	suite.Require().Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestAuthHandler_LoginSessionAndLogout() {
	suite.Require().Equal(http.StatusCreated, suite.signup("login@example.com", "client").Code)

	w := suite.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "login@example.com",
		"password": "supersecret",
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var auth dto.AuthDTO
	suite.decodeData(w, &auth)
	suite.NotEmpty(auth.Token)
	suite.NotNil(auth.User.LastLoginAt)

	cookies := w.Result().Cookies()
	suite.Require().NotEmpty(cookies)

	// the session cookie alone authenticates
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	me := httptest.NewRecorder()
	suite.router.ServeHTTP(me, req)
	suite.Require().Equal(http.StatusOK, me.Code, me.Body.String())

	var user dto.UserDTO
	suite.decodeData(me, &user)
	suite.Equal(auth.User.ID, user.ID)

	// and so does the bearer token
	me = suite.do(http.MethodGet, "/api/auth/me", "Bearer "+auth.Token, nil)
	suite.Require().Equal(http.StatusOK, me.Code)

	logoutReq := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	for _, c := range cookies {
		logoutReq.AddCookie(c)
	}
	logout := httptest.NewRecorder()
	suite.router.ServeHTTP(logout, logoutReq)
	suite.Require().Equal(http.StatusOK, logout.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range logout.Result().Cookies() {
		req.AddCookie(c)
	}
	me = httptest.NewRecorder()
	suite.router.ServeHTTP(me, req)
	suite.Equal(http.StatusUnauthorized, me.Code)
}

func (suite *HandlerTestSuite) TestAuthHandler_LoginWrongPassword() {
	suite.Require().Equal(http.StatusCreated, suite.signup("wrong@example.com", "client").Code)

	w := suite.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "wrong@example.com",
		"password": "not-the-password",
	})
	suite.Require().Equal(http.StatusUnauthorized, w.Code)
	suite.Equal(apierrors.ErrCodeInvalidCredentials, suite.decodeError(w).Code)

	w = suite.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "supersecret",
	})
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestAuthHandler_MeRequiresAuth() {

	w := suite.do(http.MethodGet, "/api/auth/me", "", nil)
	suite.Require().Equal(http.StatusUnauthorized, w.Code)
	suite.Equal(apierrors.ErrCodeUnauthorized, suite.decodeError(w).Code)
}
