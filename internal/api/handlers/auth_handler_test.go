package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"docsearch/internal/core/mocks"
	"docsearch/internal/models"
)

func TestSignupIssuesAToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := &mocks.MockDbClient{}
	db.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
	h := NewAuthHandler(db)

	req := httptest.NewRequest("POST", "/api/signup",
		strings.NewReader(`{"email": "a@b.com", "password": "hunter22"}`))
	rec := httptest.NewRecorder()
	h.Signup(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "token")
	db.AssertExpectations(t)
}

func TestSignupFailsWithoutASigningSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	db := &mocks.MockDbClient{}
	db.On("CreateUser", mock.Anything, mock.Anything).Return(nil)
	h := NewAuthHandler(db)

	req := httptest.NewRequest("POST", "/api/signup",
		strings.NewReader(`{"email": "a@b.com", "password": "hunter22"}`))
	rec := httptest.NewRecorder()
	h.Signup(rec, req)

	// An empty secret must never produce a signed token.
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "token")
}

func TestSignupRejectsMissingCredentials(t *testing.T) {
	db := &mocks.MockDbClient{}
	h := NewAuthHandler(db)

	req := httptest.NewRequest("POST", "/api/signup",
		strings.NewReader(`{"email": "", "password": ""}`))
	rec := httptest.NewRecorder()
	h.Signup(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	db.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestLoginVerifiesThePassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	hash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &models.User{ID: "user-1", Email: "a@b.com", PasswordHash: string(hash)}

	db := &mocks.MockDbClient{}
	db.On("GetUserByEmail", mock.Anything, "a@b.com").Return(user, nil)
	h := NewAuthHandler(db)

	t.Run("correct password gets a verifiable token", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/login",
			strings.NewReader(`{"email": "a@b.com", "password": "right-password"}`))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		claims := jwt.MapClaims{}
		tok, err := jwt.ParseWithClaims(body.Token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		require.NoError(t, err)
		assert.True(t, tok.Valid)
		assert.Equal(t, "user-1", claims["user_id"])
	})

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/login",
			strings.NewReader(`{"email": "a@b.com", "password": "wrong"}`))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestLoginUnknownUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := &mocks.MockDbClient{}
	db.On("GetUserByEmail", mock.Anything, "nobody@b.com").Return(nil, nil)
	h := NewAuthHandler(db)

	req := httptest.NewRequest("POST", "/api/login",
		strings.NewReader(`{"email": "nobody@b.com", "password": "x"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
