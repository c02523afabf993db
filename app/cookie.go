package main

import (
	"net/http"
	"time"
)

const tokenCookieName = "token"

// setTokenCookie stores a session token in an HttpOnly cookie that lives as long as the token.
func (app *application) setTokenCookie(w http.ResponseWriter, token string) {
	ttl := app.userService.Tokens().TTL()

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   app.config.isProduction(),
		SameSite: http.SameSiteStrictMode,
	})
}

func (app *application) clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   app.config.isProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}
