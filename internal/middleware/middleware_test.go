package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/service"
	"github.com/lshigami/ieltsprep/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serveWithError(t *testing.T, attach func(c *gin.Context)) (int, dto.ErrorResponse) {
	t.Helper()
	r := gin.New()
	r.Use(ErrorBoundary("/login"))
	r.GET("/x", attach)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestErrorBoundary_MapsErrorKinds(t *testing.T) {
	unauthorized := &store.Error{Kind: store.KindUnauthorized, Op: "find", Collection: "answers", Err: errors.New("token expired")}
	unavailable := &store.Error{Kind: store.KindUnavailable, Op: "find", Collection: "answers", Err: errors.New("connection refused")}

	cases := []struct {
		name     string
		err      error
		status   int
		redirect string
	}{
		{"unauthorized store error", fmt.Errorf("failed to load: %w", unauthorized), http.StatusUnauthorized, "/login?session_expired=true"},
		{"validation", &service.ValidationError{Field: "studentId", Message: "is required"}, http.StatusBadRequest, ""},
		{"not found", fmt.Errorf("test 9: %w", service.ErrNotFound), http.StatusNotFound, ""},
		{"feedback disabled", service.ErrWritingFeedbackDisabled, http.StatusServiceUnavailable, ""},
		{"store unavailable", unavailable, http.StatusInternalServerError, ""},
		{"credential", &store.Error{Kind: store.KindCredential, Err: errors.New("no credential")}, http.StatusInternalServerError, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := serveWithError(t, func(c *gin.Context) { _ = c.Error(tc.err) })
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.redirect, body.Redirect)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestErrorBoundary_UsesPublicMessageForServerErrors(t *testing.T) {
	status, body := serveWithError(t, func(c *gin.Context) {
		c.Error(errors.New("dial tcp: refused")).SetMeta("failed to save progress")
	})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "failed to save progress", body.Error)
}

func TestErrorBoundary_BindErrorsNameJSONFields(t *testing.T) {
	type payload struct {
		StudentID string `json:"studentId" binding:"required"`
	}
	r := gin.New()
	r.Use(ErrorBoundary("/login"))
	r.POST("/x", func(c *gin.Context) {
		var p payload
		if err := c.ShouldBindJSON(&p); err != nil {
			_ = c.Error(err).SetType(gin.ErrorTypeBind)
			return
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"studentId is required"}`, w.Body.String())
}

func TestErrorBoundary_LeavesWrittenResponsesAlone(t *testing.T) {
	r := gin.New()
	r.Use(ErrorBoundary("/login"))
	r.GET("/x", func(c *gin.Context) {
		c.JSON(http.StatusTeapot, gin.H{"ok": true})
		_ = c.Error(errors.New("late"))
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestRateLimiter_RejectsBurstOverflow(t *testing.T) {
	r := gin.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Use(RateLimiter(ctx, 2, time.Minute, nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Logger())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestRateLimiter_CountsEachKeySeparately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := gin.New()
	r.Use(RateLimiter(ctx, 1, time.Minute, func(c *gin.Context) string { return c.Query("who") }))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(who string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x?who="+who, nil))
		return w.Code
	}
	assert.Equal(t, http.StatusOK, get("a"))
	assert.Equal(t, http.StatusOK, get("b"))
	assert.Equal(t, http.StatusTooManyRequests, get("a"))
}
