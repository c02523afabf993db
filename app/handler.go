package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sushihentaime/quillpost/internal/blogservice"
	"github.com/sushihentaime/quillpost/internal/common"
	"github.com/sushihentaime/quillpost/internal/commentservice"
	"github.com/sushihentaime/quillpost/internal/userservice"
)

// serviceErrorResponse maps the errors shared by the blog and comment services to responses.
func (app *application) serviceErrorResponse(w http.ResponseWriter, r *http.Request, err error, resource string) {
	var ve common.ValidationError

	switch {
	case errors.As(err, &ve):
		app.failedValidationErrorResponse(w, r, ve)
	case errors.Is(err, common.ErrMissingID), errors.Is(err, common.ErrInvalidID):
		app.badRequestErrorResponse(w, r, err)
	case errors.Is(err, common.ErrRecordNotFound):
		app.recordNotFoundResponse(w, r, resource)
	case errors.Is(err, common.ErrForbidden):
		app.forbiddenResponse(w, r, "you are not allowed to modify this "+resource)
	case errors.Is(err, blogservice.ErrUserForeignKey), errors.Is(err, commentservice.ErrUserForeignKey):
		app.unauthenticatedResponse(w, r, authFailureMessage(userservice.ErrUnknownUser))
	default:
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	_, token, err := app.userService.RegisterUser(r.Context(), input.Username, input.Email, input.Password)
	if err != nil {
		var ve common.ValidationError
		switch {
		case errors.As(err, &ve):
			app.failedValidationErrorResponse(w, r, ve)
		case errors.Is(err, userservice.ErrDuplicateEmail):
			app.duplicateEmailErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.setTokenCookie(w, token)

	err = app.writeJSON(w, http.StatusCreated, envelope{"message": "user created successfully"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) loginUserHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	_, token, err := app.userService.LoginUser(r.Context(), input.Email, input.Password)
	if err != nil {
		var ve common.ValidationError
		switch {
		case errors.As(err, &ve):
			app.failedValidationErrorResponse(w, r, ve)
		case errors.Is(err, userservice.ErrInvalidCredentials):
			app.invalidCredentialsErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.setTokenCookie(w, token)

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "login successful"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) logoutUserHandler(w http.ResponseWriter, r *http.Request) {
	app.clearTokenCookie(w)

	err := app.writeJSON(w, http.StatusOK, envelope{"message": "logged out successfully"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) currentUserHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	err := app.writeJSON(w, http.StatusOK, envelope{"user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) verifyTokenHandler(w http.ResponseWriter, r *http.Request) {
	claims := app.getClaimsContext(r)

	err := app.writeJSON(w, http.StatusOK, envelope{"message": "token is valid", "payload": claims}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listBlogsHandler(w http.ResponseWriter, r *http.Request) {
	filter := blogservice.BlogFilter{
		ID:     app.readQuery(r, "id"),
		Author: app.readQuery(r, "author"),
		Slug:   app.readQuery(r, "slug"),
	}

	blogs, err := app.blogService.ListBlogs(r.Context(), filter)
	if err != nil {
		app.serviceErrorResponse(w, r, err, "blog")
		return
	}

	err = app.writeJSON(w, http.StatusOK, blogs, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createBlogHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		blogservice.CreateBlogRequest
		// accepted for compatibility, the author is always the caller
		Author json.RawMessage `json:"author"`
	}

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	blog, err := app.blogService.CreateBlog(r.Context(), &input.CreateBlogRequest, app.getUserContext(r))
	if err != nil {
		app.serviceErrorResponse(w, r, err, "blog")
		return
	}

	err = app.writeJSON(w, http.StatusCreated, blog, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) editBlogHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		blogservice.EditBlogRequest
		Author json.RawMessage `json:"author"`
	}

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	blog, err := app.blogService.EditBlog(r.Context(), &input.EditBlogRequest, app.getUserContext(r))
	if err != nil {
		app.serviceErrorResponse(w, r, err, "blog")
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "blog updated successfully", "blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteBlogHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID string `json:"id"`
	}

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.blogService.DeleteBlog(r.Context(), input.ID, app.getUserContext(r))
	if err != nil {
		app.serviceErrorResponse(w, r, err, "blog")
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "blog deleted successfully"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listCommentsHandler(w http.ResponseWriter, r *http.Request) {
	comments, err := app.commentService.ListComments(r.Context(), app.readQuery(r, "blogId"))
	if err != nil {
		app.serviceErrorResponse(w, r, err, "comment")
		return
	}

	err = app.writeJSON(w, http.StatusOK, comments, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) addCommentHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		BlogID  string `json:"blogId"`
		Content string `json:"content"`
	}

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	comment, err := app.commentService.AddComment(r.Context(), input.BlogID, input.Content, app.getUserContext(r))
	if err != nil {
		// the only record AddComment looks up is the blog
		app.serviceErrorResponse(w, r, err, "blog")
		return
	}

	err = app.writeJSON(w, http.StatusCreated, comment, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) editCommentHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		CommentID string `json:"commentId"`
		Content   string `json:"content"`
	}

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	comment, err := app.commentService.EditComment(r.Context(), input.CommentID, input.Content, app.getUserContext(r))
	if err != nil {
		app.serviceErrorResponse(w, r, err, "comment")
		return
	}

	err = app.writeJSON(w, http.StatusOK, comment, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		CommentID string `json:"commentId"`
	}

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.commentService.DeleteComment(r.Context(), input.CommentID, app.getUserContext(r))
	if err != nil {
		app.serviceErrorResponse(w, r, err, "comment")
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "comment deleted successfully"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
