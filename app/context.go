package main

import (
	"context"
	"net/http"

	"github.com/sushihentaime/quillpost/internal/userservice"
)

type contextKey string

const (
	userContextKey      = contextKey("user")
	claimsContextKey    = contextKey("claims")
	authErrorContextKey = contextKey("authError")
	requestIDContextKey = contextKey("requestID")
)

func (app *application) createUserContext(r *http.Request, user *userservice.User, claims *userservice.Claims) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	if claims != nil {
		ctx = context.WithValue(ctx, claimsContextKey, claims)
	}
	return r.WithContext(ctx)
}

func (app *application) getUserContext(r *http.Request) *userservice.User {
	user, ok := r.Context().Value(userContextKey).(*userservice.User)
	if !ok {
		return &userservice.AnonymousUser
	}
	return user
}

func (app *application) getClaimsContext(r *http.Request) *userservice.Claims {
	claims, _ := r.Context().Value(claimsContextKey).(*userservice.Claims)
	return claims
}

// createAuthErrorContext remembers why a presented token was rejected.
func (app *application) createAuthErrorContext(r *http.Request, err error) *http.Request {
	ctx := context.WithValue(r.Context(), authErrorContextKey, err)
	return r.WithContext(ctx)
}

func (app *application) getAuthErrorContext(r *http.Request) error {
	err, _ := r.Context().Value(authErrorContextKey).(error)
	return err
}

func (app *application) createRequestIDContext(r *http.Request, id string) *http.Request {
	ctx := context.WithValue(r.Context(), requestIDContextKey, id)
	return r.WithContext(ctx)
}

func (app *application) getRequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDContextKey).(string)
	return id
}
