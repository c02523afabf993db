package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/sushihentaime/quillpost/internal/common"
	"github.com/sushihentaime/quillpost/internal/userservice"
	"golang.org/x/time/rate"
)

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		r = app.createRequestIDContext(r, id)

		var (
			ip     = r.RemoteAddr
			method = r.Method
			proto  = r.Proto
			uri    = r.URL.RequestURI()
		)

		app.logger.Info("request from", slog.String("method", method), slog.String("uri", uri), slog.String("remote_addr", ip), slog.String("proto", proto), slog.String("request_id", id))

		next.ServeHTTP(w, r)
	})
}

// enableCORS lets the trusted browser origins send the session cookie.
// Without trusted origins no CORS headers are written.
func (app *application) enableCORS(next http.Handler) http.Handler {
	if len(app.config.TrustedOrigins) == 0 {
		return next
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   app.config.TrustedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})(next)
}

func (app *application) rateLimit(next http.Handler) http.Handler {
	if !app.config.RateLimitEnabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		limiter := app.limiters.GetOrAdd(common.CacheKeyRateLimiter(ip), func() interface{} {
			return rate.NewLimiter(rate.Limit(app.config.RateLimitRPS), app.config.RateLimitBurst)
		}).(*rate.Limiter)

		if !limiter.Allow() {
			app.rateLimitExceededResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// authenticate resolves the token cookie to a user. Requests without a usable
// token continue as the anonymous user; requireAuthUser decides whether that is enough.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Cookie")

		cookie, err := r.Cookie(tokenCookieName)
		if err != nil || cookie.Value == "" {
			r = app.createUserContext(r, &userservice.AnonymousUser, nil)
			next.ServeHTTP(w, r)
			return
		}

		user, claims, err := app.userService.Authenticate(r.Context(), cookie.Value)
		if err != nil {
			switch {
			case errors.Is(err, userservice.ErrInvalidToken),
				errors.Is(err, userservice.ErrTokenExpired),
				errors.Is(err, userservice.ErrUnknownUser):
				r = app.createAuthErrorContext(r, err)
				r = app.createUserContext(r, &userservice.AnonymousUser, nil)
				next.ServeHTTP(w, r)
			default:
				app.serverErrorResponse(w, r, err)
			}
			return
		}

		r = app.createUserContext(r, user, claims)
		next.ServeHTTP(w, r)
	})
}

func (app *application) requireAuthUser(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := app.getUserContext(r)
		if user.IsAnonymous() {
			app.unauthenticatedResponse(w, r, authFailureMessage(app.getAuthErrorContext(r)))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func authFailureMessage(err error) string {
	switch {
	case err == nil:
		return "authentication token missing"
	case errors.Is(err, userservice.ErrTokenExpired):
		return "authentication token expired"
	case errors.Is(err, userservice.ErrUnknownUser):
		return "user not found"
	default:
		return "invalid authentication token"
	}
}
