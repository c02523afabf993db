package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/quillpost/internal/common"
	"github.com/sushihentaime/quillpost/internal/userservice"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRecoverPanic(t *testing.T) {
	app := &application{config: testConfig(), logger: newTestLogger()}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something went wrong")
	})

	res := httptest.NewRecorder()
	app.recoverPanic(handler).ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Equal(t, "close", res.Header().Get("Connection"))
	assert.Contains(t, res.Body.String(), "error")
}

func TestLogRequest(t *testing.T) {
	app := &application{config: testConfig(), logger: newTestLogger()}

	var seen string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = app.getRequestID(r)
	})

	res := httptest.NewRecorder()
	app.logRequest(handler).ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))

	id := res.Header().Get("X-Request-ID")
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, seen)
}

func TestAuthenticate(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	valid := ts.register(t, "alice", "a@x.com", "secret1")

	expired, err := userservice.NewTokenService(testJWTSecret, -time.Minute).Issue(common.NewID())
	require.NoError(t, err)

	forged, err := userservice.NewTokenService("another-secret", time.Hour).Issue(common.NewID())
	require.NoError(t, err)

	tests := []struct {
		name          string
		cookie        *http.Cookie
		wantAnonymous bool
		wantAuthErr   error
	}{
		{name: "no cookie", wantAnonymous: true},
		{name: "empty cookie", cookie: &http.Cookie{Name: tokenCookieName, Value: ""}, wantAnonymous: true},
		{name: "malformed token", cookie: &http.Cookie{Name: tokenCookieName, Value: "a.b.c"}, wantAnonymous: true, wantAuthErr: userservice.ErrInvalidToken},
		{name: "wrong secret", cookie: &http.Cookie{Name: tokenCookieName, Value: forged}, wantAnonymous: true, wantAuthErr: userservice.ErrInvalidToken},
		{name: "expired token", cookie: &http.Cookie{Name: tokenCookieName, Value: expired}, wantAnonymous: true, wantAuthErr: userservice.ErrTokenExpired},
		{name: "valid token", cookie: valid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				user    *userservice.User
				claims  *userservice.Claims
				authErr error
			)
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				user = app.getUserContext(r)
				claims = app.getClaimsContext(r)
				authErr = app.getAuthErrorContext(r)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}

			res := httptest.NewRecorder()
			app.authenticate(handler).ServeHTTP(res, req)

			assert.Equal(t, http.StatusOK, res.Code)
			assert.Equal(t, "Cookie", res.Header().Get("Vary"))
			require.NotNil(t, user)
			assert.Equal(t, tt.wantAnonymous, user.IsAnonymous())

			if tt.wantAuthErr != nil {
				assert.ErrorIs(t, authErr, tt.wantAuthErr)
			} else {
				assert.NoError(t, authErr)
			}

			if tt.wantAnonymous {
				assert.Nil(t, claims)
			} else {
				require.NotNil(t, claims)
				assert.Equal(t, user.ID, claims.UserID)
				assert.Equal(t, "alice", user.Username)
			}
		})
	}
}

func TestRequireAuthUser(t *testing.T) {
	app := &application{config: testConfig(), logger: newTestLogger()}

	tests := []struct {
		name       string
		user       *userservice.User
		authErr    error
		wantStatus int
		wantMsg    string
	}{
		{name: "anonymous", user: &userservice.AnonymousUser, wantStatus: http.StatusUnauthorized, wantMsg: "authentication token missing"},
		{name: "expired", user: &userservice.AnonymousUser, authErr: userservice.ErrTokenExpired, wantStatus: http.StatusUnauthorized, wantMsg: "authentication token expired"},
		{name: "invalid", user: &userservice.AnonymousUser, authErr: userservice.ErrInvalidToken, wantStatus: http.StatusUnauthorized, wantMsg: "invalid authentication token"},
		{name: "unknown user", user: &userservice.AnonymousUser, authErr: userservice.ErrUnknownUser, wantStatus: http.StatusUnauthorized, wantMsg: "user not found"},
		{name: "authenticated", user: &userservice.User{ID: common.NewID(), Username: "alice"}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = app.createUserContext(req, tt.user, nil)
			if tt.authErr != nil {
				req = app.createAuthErrorContext(req, tt.authErr)
			}

			res := httptest.NewRecorder()
			app.requireAuthUser(okHandler).ServeHTTP(res, req)

			assert.Equal(t, tt.wantStatus, res.Code)
			if tt.wantMsg != "" {
				assert.Contains(t, res.Body.String(), tt.wantMsg)
			}
		})
	}
}

func TestEnableCORS(t *testing.T) {
	app := &application{
		config: &Config{
			TrustedOrigins: []string{"http://example.com"},
		},
	}

	middleware := app.enableCORS(http.HandlerFunc(okHandler))

	tests := []struct {
		name                       string
		origin                     string
		method                     string
		accessControlRequestMethod string
		wantAllowOrigin            string
		wantAllowMethods           string
	}{
		{
			name:            "trusted origin",
			origin:          "http://example.com",
			method:          http.MethodGet,
			wantAllowOrigin: "http://example.com",
		},
		{
			name:                       "trusted origin preflight",
			origin:                     "http://example.com",
			method:                     http.MethodOptions,
			accessControlRequestMethod: http.MethodPut,
			wantAllowOrigin:            "http://example.com",
			wantAllowMethods:           http.MethodPut,
		},
		{
			name:   "untrusted origin",
			origin: "http://invalid.com",
			method: http.MethodGet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.accessControlRequestMethod != "" {
				req.Header.Set("Access-Control-Request-Method", tt.accessControlRequestMethod)
			}

			res := httptest.NewRecorder()
			middleware.ServeHTTP(res, req)

			assert.Equal(t, http.StatusOK, res.Code)
			assert.Equal(t, tt.wantAllowOrigin, res.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantAllowMethods, res.Header().Get("Access-Control-Allow-Methods"))

			if tt.wantAllowOrigin != "" {
				assert.Equal(t, "true", res.Header().Get("Access-Control-Allow-Credentials"))
			}
		})
	}
}

func TestEnableCORSWithoutTrustedOrigins(t *testing.T) {
	app := &application{config: &Config{}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://example.com")

	res := httptest.NewRecorder()
	app.enableCORS(http.HandlerFunc(okHandler)).ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Empty(t, res.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	app := &application{
		config: &Config{
			RateLimitRPS:     2,
			RateLimitBurst:   4,
			RateLimitEnabled: true,
		},
		logger:   newTestLogger(),
		limiters: common.NewCache(time.Minute, time.Minute),
	}

	middleware := app.rateLimit(http.HandlerFunc(okHandler))

	send := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remoteAddr

		res := httptest.NewRecorder()
		middleware.ServeHTTP(res, req)
		return res.Code
	}

	for i := 0; i < 4; i++ {
		assert.Equal(t, http.StatusOK, send("10.0.0.1:5000"), "request %d", i+1)
	}

	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:5001"))

	// limiters are kept per client address
	assert.Equal(t, http.StatusOK, send("10.0.0.2:5000"))
}

func TestRateLimitDisabled(t *testing.T) {
	app := &application{config: &Config{RateLimitBurst: 1, RateLimitRPS: 1}}

	middleware := app.rateLimit(http.HandlerFunc(okHandler))

	for i := 0; i < 5; i++ {
		res := httptest.NewRecorder()
		middleware.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, res.Code)
	}
}

func TestTokenCookie(t *testing.T) {
	tokens := userservice.NewTokenService(testJWTSecret, userservice.TokenTTL)
	app := &application{
		config:      testConfig(),
		logger:      newTestLogger(),
		userService: userservice.NewUserService(nil, tokens, nil, newTestLogger()),
	}

	res := httptest.NewRecorder()
	app.setTokenCookie(res, "abc")

	cookies := res.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, tokenCookieName, c.Name)
	assert.Equal(t, "abc", c.Value)
	assert.Equal(t, 3600, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure)

	app.config.Environment = "production"
	res = httptest.NewRecorder()
	app.setTokenCookie(res, "abc")
	assert.True(t, res.Result().Cookies()[0].Secure)
}
