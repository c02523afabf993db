package blogservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/sushihentaime/quillpost/internal/commentservice"
)

type Blog struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Excerpt string `json:"excerpt"`
	// Content is stored in Markdown format.
	Content   string                   `json:"content"`
	Author    string                   `json:"author"`
	UserID    string                   `json:"userId"`
	Tags      []string                 `json:"tags"`
	Image     *string                  `json:"image,omitempty"`
	Comments  []commentservice.Comment `json:"comments"`
	CreatedAt time.Time                `json:"createdAt"`
	UpdatedAt time.Time                `json:"updatedAt"`
}

// BlogFilter narrows ListBlogs. ID takes precedence over Author and Slug.
type BlogFilter struct {
	ID     string
	Author string
	Slug   string
}

// BlogFields holds the client supplied blog values as raw JSON, so that a value of
// the wrong type is reported together with the other validation errors.
type BlogFields struct {
	Title   json.RawMessage `json:"title"`
	Slug    json.RawMessage `json:"slug"`
	Excerpt json.RawMessage `json:"excerpt"`
	Content json.RawMessage `json:"content"`
	Tags    json.RawMessage `json:"tags"`
	Image   json.RawMessage `json:"image"`
}

type CreateBlogRequest struct {
	BlogFields
}

// EditBlogRequest holds a partial update. Absent and null fields are left unchanged.
type EditBlogRequest struct {
	ID string `json:"id"`
	BlogFields
}

type CommentLister interface {
	CommentsForBlogs(ctx context.Context, blogIDs []string) (map[string][]commentservice.Comment, error)
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m        *BlogModel
	comments CommentLister
}
