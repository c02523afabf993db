package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/api/healthcheck", app.healthCheckHandler)

	// user service
	router.HandlerFunc(http.MethodPost, "/api/user/register", app.registerUserHandler)
	router.HandlerFunc(http.MethodPost, "/api/user/login", app.loginUserHandler)
	router.HandlerFunc(http.MethodPost, "/api/user/logout", app.logoutUserHandler)
	router.HandlerFunc(http.MethodGet, "/api/user/me", app.requireAuthUser(app.currentUserHandler))
	router.HandlerFunc(http.MethodGet, "/api/user/verify", app.requireAuthUser(app.verifyTokenHandler))

	// blog service
	router.HandlerFunc(http.MethodGet, "/api/blogs", app.listBlogsHandler)
	router.HandlerFunc(http.MethodPost, "/api/blogs", app.requireAuthUser(app.createBlogHandler))
	router.HandlerFunc(http.MethodPut, "/api/blogs/edit", app.requireAuthUser(app.editBlogHandler))
	router.HandlerFunc(http.MethodDelete, "/api/blogs/delete", app.requireAuthUser(app.deleteBlogHandler))

	// comment service
	router.HandlerFunc(http.MethodGet, "/api/comments", app.listCommentsHandler)
	router.HandlerFunc(http.MethodPost, "/api/comments/add", app.requireAuthUser(app.addCommentHandler))
	router.HandlerFunc(http.MethodPut, "/api/comments/edit", app.requireAuthUser(app.editCommentHandler))
	router.HandlerFunc(http.MethodDelete, "/api/comments/delete", app.requireAuthUser(app.deleteCommentHandler))

	return app.recoverPanic(app.logRequest(app.enableCORS(app.rateLimit(app.authenticate(router)))))
}
