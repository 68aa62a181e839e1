package http_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authhttp "devconnector/internal/auth/adapter/http"
	"devconnector/internal/auth/domain/model"
	"devconnector/internal/auth/domain/repository"
	"devconnector/internal/auth/usecase"
	apperrors "devconnector/internal/shared/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AuthHTTPTestSuite struct {
	suite.Suite
	app         *fiber.App
	mockUsecase *mockAuthUsecase
}

func (suite *AuthHTTPTestSuite) SetupTest() {
	suite.mockUsecase = &mockAuthUsecase{}
	suite.app = fiber.New(fiber.Config{ErrorHandler: apperrors.FiberErrorHandler(nil)})

	handler := authhttp.NewAuthHTTPHandler(suite.mockUsecase)
	handler.SetupAuthRoutesWithMiddleware(suite.app, authhttp.NewAuthMiddleware(suite.mockUsecase, "x-auth-token"))
}

func (suite *AuthHTTPTestSuite) TearDownTest() {
	suite.mockUsecase.AssertExpectations(suite.T())
}

func (suite *AuthHTTPTestSuite) do(method, path string, body interface{}, headers map[string]string) (*http.Response, []byte) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(suite.T(), err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := suite.app.Test(req)
	require.NoError(suite.T(), err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(suite.T(), err)
	return resp, data
}

func (suite *AuthHTTPTestSuite) TestRegister_Success() {
	req := usecase.RegisterRequest{Name: "A", Email: "a@x.com", Password: "secret1"}
	suite.mockUsecase.On("Register", mock.Anything, req).Return(&usecase.AuthResponse{Token: "jwt"}, nil)

	resp, body := suite.do("POST", "/api/users", req, nil)

	assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)
	assert.JSONEq(suite.T(), `{"token":"jwt"}`, string(body))
}

func (suite *AuthHTTPTestSuite) TestRegister_Conflict() {
	suite.mockUsecase.On("Register", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewConflictError(usecase.MsgUserExists))

	resp, body := suite.do("POST", "/api/users", map[string]string{"name": "A", "email": "a@x.com", "password": "secret1"}, nil)

	assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(suite.T(), `{"errors":[{"msg":"User already exists"}]}`, string(body))
}

func (suite *AuthHTTPTestSuite) TestRegister_PasswordTooLong() {
	long := strings.Repeat("p", 80)
	req := usecase.RegisterRequest{Name: "A", Email: "a@x.com", Password: long}
	suite.mockUsecase.On("Register", mock.Anything, req).
		Return(nil, apperrors.NewValidationErrors().Add("password", usecase.MsgPasswordTooLong, nil))

	resp, body := suite.do("POST", "/api/users", req, nil)

	assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(suite.T(),
		`{"errors":[{"msg":"Please enter a password with 72 or fewer bytes","param":"password","location":"body"}]}`,
		string(body))
}

func (suite *AuthHTTPTestSuite) TestRegister_InvalidBody() {
	req := httptest.NewRequest("POST", "/api/users", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := suite.app.Test(req)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
}

func (suite *AuthHTTPTestSuite) TestLogin_InvalidCredentials() {
	suite.mockUsecase.On("Login", mock.Anything, usecase.LoginRequest{Email: "a@x.com", Password: "nope"}).
		Return(nil, apperrors.NewCredentialsError())

	resp, body := suite.do("POST", "/api/auth", map[string]string{"email": "a@x.com", "password": "nope"}, nil)

	assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(suite.T(), `{"errors":[{"msg":"Invalid Credentials"}]}`, string(body))
}

func (suite *AuthHTTPTestSuite) TestLogin_StoreFailureIsPlain500() {
	suite.mockUsecase.On("Login", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	resp, body := suite.do("POST", "/api/auth", map[string]string{"email": "a@x.com", "password": "pw"}, nil)

	assert.Equal(suite.T(), http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(suite.T(), "Server error", string(body))
}

func (suite *AuthHTTPTestSuite) TestGetCurrentUser() {
	user := model.NewUser("A", "a@x.com", "hash", "//avatar")
	suite.mockUsecase.On("ValidateToken", mock.Anything, "tok").
		Return(&repository.Claims{User: repository.TokenUser{ID: user.ID.Hex()}}, nil)
	suite.mockUsecase.On("GetCurrentUser", mock.Anything, user.ID.Hex()).Return(user, nil)

	resp, body := suite.do("GET", "/api/auth", nil, map[string]string{"x-auth-token": "tok"})

	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	var got map[string]interface{}
	require.NoError(suite.T(), json.Unmarshal(body, &got))
	assert.Equal(suite.T(), user.ID.Hex(), got["_id"])
	assert.Equal(suite.T(), "A", got["name"])
	assert.NotContains(suite.T(), got, "password")
}

func (suite *AuthHTTPTestSuite) TestGetCurrentUser_NoToken() {
	resp, body := suite.do("GET", "/api/auth", nil, nil)

	assert.Equal(suite.T(), http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(suite.T(), `{"msg":"No token, authorization denied"}`, string(body))
}

func TestAuthHTTPTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHTTPTestSuite))
}
