//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"fleetrent/internal/domain/user"
	"fleetrent/internal/handler/dto/request"
	"fleetrent/internal/handler/dto/response"
	"fleetrent/tests/common/dbtest"
	"fleetrent/tests/common/helper"
	"fleetrent/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	loginURL = "/api/auth/login"
	meURL    = "/api/auth/me"
)

type authSuite struct {
	e2e.SharedSuite
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(authSuite))
}

func (s *authSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	dbtest.CreateTestUser(s.T(), s.DB, "provider@example.com", string(user.RoleProvider))
	dbtest.CreateTestUser(s.T(), s.DB, "renter@example.com", string(user.RoleRenter))
	dbtest.CreateTestUser(s.T(), s.DB, "inactive@example.com", string(user.RoleProvider))

	_, err := s.DB.Exec(s.T().Context(), "UPDATE users SET is_active = false WHERE email = 'inactive@example.com'")
	require.NoError(s.T(), err)
}

func (s *authSuite) TestLogin() {
	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
	}{
		{
			name:           "valid credentials",
			email:          "provider@example.com",
			password:       "password123",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown user",
			email:          "nobody@example.com",
			password:       "password123",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong password",
			email:          "provider@example.com",
			password:       "wrongpassword",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "inactive user",
			email:          "inactive@example.com",
			password:       "password123",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "empty email",
			email:          "",
			password:       "password123",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			reqBody := request.LoginRequest{Email: tt.email, Password: tt.password}
			w := helper.PerformRequest(t, s.Router, http.MethodPost, loginURL, reqBody, "")
			require.Equal(t, tt.expectedStatus, w.Code, "response: %s", w.Body.String())

			if tt.expectedStatus == http.StatusOK {
				var resp response.LoginResponse
				helper.AssertSuccessResponse(t, w, http.StatusOK, &resp)
				require.NotEmpty(t, resp.AccessToken)
				require.Equal(t, tt.email, resp.User.Email)
			}
		})
	}
}

func (s *authSuite) TestMe() {
	s.Run("token round trip", func() {
		t := s.T()

		reqBody := request.LoginRequest{Email: "renter@example.com", Password: "password123"}
		w := helper.PerformRequest(t, s.Router, http.MethodPost, loginURL, reqBody, "")
		var login response.LoginResponse
		helper.AssertSuccessResponse(t, w, http.StatusOK, &login)

		w = helper.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, login.AccessToken)
		var me response.UserResponse
		helper.AssertSuccessResponse(t, w, http.StatusOK, &me)
		require.Equal(t, "renter@example.com", me.Email)
		require.Equal(t, string(user.RoleRenter), me.Role)
	})

	s.Run("missing token", func() {
		w := helper.PerformRequest(s.T(), s.Router, http.MethodGet, meURL, nil, "")
		require.Equal(s.T(), http.StatusUnauthorized, w.Code)
	})
}
