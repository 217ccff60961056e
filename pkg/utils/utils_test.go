package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hospital-admissions/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	InitJWT("test-secret", "refresh-secret", time.Minute, time.Hour)

	token, err := GenerateAccessToken(7, "reception", "receptionist")
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "reception", claims.Username)
	assert.Equal(t, "receptionist", claims.Role)
	assert.Equal(t, time.Hour, GetRefreshTokenExpiry())
}

func TestValidateAccessToken_Rejects(t *testing.T) {
	InitJWT("test-secret", "refresh-secret", time.Minute, time.Hour)

	_, err := ValidateAccessToken("garbage")
	assert.Error(t, err)

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 1, Role: "admin"})
	forged, err := other.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = ValidateAccessToken(forged)
	assert.Error(t, err)

	InitJWT("test-secret", "refresh-secret", -time.Minute, time.Hour)
	expired, err := GenerateAccessToken(1, "a", "admin")
	require.NoError(t, err)
	_, err = ValidateAccessToken(expired)
	assert.Error(t, err)
}

func TestRefreshTokenHashIsStable(t *testing.T) {
	token := GenerateRefreshToken()
	assert.NotEqual(t, token, GenerateRefreshToken())
	assert.Equal(t, HashRefreshToken(token), HashRefreshToken(token))
	assert.Len(t, HashRefreshToken(token), 64)
}

func TestPasswordHashing(t *testing.T) {
	SetBcryptCost(bcrypt.MinCost)

	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.True(t, ComparePassword(hash, "s3cret!"))
	assert.False(t, ComparePassword(hash, "wrong"))
}

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		status   int
		errorMsg string
	}{
		{"not found", apperrors.NotFound("room"), http.StatusNotFound, "room not found"},
		{"conflict", apperrors.Conflict("admission is already discharged"), http.StatusConflict, "admission is already discharged"},
		{"plain error hidden", errors.New("sql: connection refused"), http.StatusInternalServerError, "an unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			HandleError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.errorMsg, body["error"])
		})
	}
}
