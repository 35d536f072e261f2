package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_PrefersForwardedToken(t *testing.T) {
	r := &Resolver{serviceToken: "service"}

	token, err := r.Credential(WithToken(context.Background(), "student-token"))
	require.NoError(t, err)
	assert.Equal(t, "student-token", token)

	token, err = r.Credential(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "service", token)
}

func TestResolver_NoCredential(t *testing.T) {
	_, err := (&Resolver{}).Credential(context.Background())
	assert.ErrorIs(t, err, ErrNoCredential)
}

func newBearerRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", Bearer(secret), func(c *gin.Context) {
		token, _ := TokenFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"actor": c.GetString(ActorKey), "token": token})
	})
	return r
}

func TestBearer_ForwardsTokenWithoutSecret(t *testing.T) {
	r := newBearerRouter("")

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer opaque")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"actor":"","token":"opaque"}`, w.Body.String())
}

func TestBearer_VerifiesJWT(t *testing.T) {
	secret := "0123456789abcdef0123456789abcdef"
	r := newBearerRouter(secret)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "S1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"actor":"S1"`)

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
