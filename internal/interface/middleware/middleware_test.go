package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/taskquest/internal/application"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuth map[string]string

func (s stubAuth) Authenticate(_ context.Context, token string) (string, error) {
	if token == "boom" {
		return "", errors.New("storage down")
	}
	if u, ok := s[token]; ok {
		return u, nil
	}
	return "", application.ErrInvalidToken
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	r := gin.New()
	r.GET("/me", Auth(stubAuth{"good": "alice"}), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUsernameKey)+":"+c.GetString(CtxTokenKey))
	})

	cases := []struct {
		header string
		status int
	}{
		{"", http.StatusUnauthorized},
		{"Bearer", http.StatusUnauthorized},
		{"Basic good", http.StatusUnauthorized},
		{"Bearer bad", http.StatusUnauthorized},
		{"Bearer boom", http.StatusInternalServerError},
		{"Bearer good", http.StatusOK},
		{"bearer  good ", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := serve(r, req)
		require.Equal(t, tc.status, w.Code, tc.header)
		if tc.status == http.StatusOK {
			require.Equal(t, "alice:good", w.Body.String())
		}
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, w.Body.String())
	require.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "0b7e9f6e-2a59-4c4b-9d0c-6f3f2b1e8a10")
	w = serve(r, req)
	require.Equal(t, "0b7e9f6e-2a59-4c4b-9d0c-6f3f2b1e8a10", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = serve(r, req)
	require.NotEqual(t, "<script>", w.Body.String())
}

func TestRealIPAndKeys(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/k", func(c *gin.Context) {
		c.Set(CtxUsernameKey, c.Query("u"))
		c.JSON(http.StatusOK, gin.H{
			"ip":      KeyByIP()(c),
			"path":    KeyByIPAndPath()(c),
			"user":    KeyByUsername()(c),
			"private": AllowPrivateIP()(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/k?u=alice", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	w := serve(r, req)
	require.JSONEq(t, `{"ip":"rl:ip:203.0.113.7","path":"rl:path:/k:ip:203.0.113.7","user":"rl:user:alice","private":false}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/k", nil)
	req.Header.Set("CF-Connecting-IP", "127.0.0.1")
	w = serve(r, req)
	require.JSONEq(t, `{"ip":"rl:ip:127.0.0.1","path":"rl:path:/k:ip:127.0.0.1","user":"rl:user:anon:ip:127.0.0.1","private":true}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/k", nil)
	req.Header.Set("CF-Connecting-IP", "not-an-ip")
	req.Header.Set("X-Forwarded-For", "10.1.2.3")
	w = serve(r, req)
	require.JSONEq(t, `{"ip":"rl:ip:10.1.2.3","path":"rl:path:/k:ip:10.1.2.3","user":"rl:user:anon:ip:10.1.2.3","private":true}`, w.Body.String())
}

func TestRateLimitDisabledWithoutRedis(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(nil, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusNoContent, w.Code)
	}
}

func TestRemaining(t *testing.T) {
	require.Equal(t, 9, remaining(10, 1))
	require.Equal(t, 0, remaining(10, 10))
	require.Equal(t, 0, remaining(10, 12))
}
