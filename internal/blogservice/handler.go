package blogservice

import (
	"context"
	"database/sql"
	"strings"

	"github.com/sushihentaime/quillpost/internal/common"
	"github.com/sushihentaime/quillpost/internal/commentservice"
	"github.com/sushihentaime/quillpost/internal/userservice"
)

func NewBlogService(db *sql.DB, comments CommentLister) *BlogService {
	return &BlogService{m: newBlogModel(db), comments: comments}
}

// ListBlogs returns the blogs matching f with their comments populated.
// A lookup by ID yields exactly one blog or common.ErrRecordNotFound.
func (s *BlogService) ListBlogs(ctx context.Context, f BlogFilter) ([]Blog, error) {
	var blogs []Blog

	if f.ID != "" {
		id, err := common.ParseID(f.ID)
		if err != nil {
			return nil, err
		}

		b, err := s.m.getByID(ctx, s.m.db, id, false)
		if err != nil {
			return nil, err
		}
		blogs = []Blog{*b}
	} else {
		var err error
		blogs, err = s.m.list(ctx, strings.TrimSpace(f.Author), strings.TrimSpace(f.Slug))
		if err != nil {
			return nil, err
		}
	}

	if err := s.populateComments(ctx, blogs); err != nil {
		return nil, err
	}

	return blogs, nil
}

// CreateBlog stores a new blog owned by user. The author is always user's username.
func (s *BlogService) CreateBlog(ctx context.Context, req *CreateBlogRequest, user *userservice.User) (*Blog, error) {
	v := common.NewValidator()
	in := req.decode(v)

	b := Blog{
		Title:   trimString(in.title),
		Slug:    trimString(in.slug),
		Excerpt: trimString(in.excerpt),
		Content: sanitizeContent(in.content),
		Tags:    []string{},
		Image:   trimImage(in.image),
	}
	if in.tags != nil {
		b.Tags = *in.tags
	}

	validateRequired(v, b.Title, "title")
	validateRequired(v, b.Slug, "slug")
	validateRequired(v, b.Excerpt, "excerpt")
	validateRequired(v, b.Content, "content")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	b.ID = common.NewID()
	b.Author = user.Username
	b.UserID = user.ID
	b.Comments = []commentservice.Comment{}

	if err := s.m.insert(ctx, &b); err != nil {
		return nil, err
	}

	return &b, nil
}

// EditBlog applies the fields present in req. Only the owner may edit a blog.
func (s *BlogService) EditBlog(ctx context.Context, req *EditBlogRequest, user *userservice.User) (*Blog, error) {
	id, err := common.ParseID(req.ID)
	if err != nil {
		return nil, err
	}

	v := common.NewValidator()
	in := req.decode(v)

	if in.title != nil {
		validateRequired(v, trimString(in.title), "title")
	}
	if in.slug != nil {
		validateRequired(v, trimString(in.slug), "slug")
	}
	if in.excerpt != nil {
		validateRequired(v, trimString(in.excerpt), "excerpt")
	}
	if in.content != nil {
		validateRequired(v, sanitizeContent(in.content), "content")
	}
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	b, err := s.m.getByID(ctx, tx, id, true)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if !user.Owns(b.UserID) {
		_ = tx.Rollback()
		return nil, common.ErrForbidden
	}

	if in.title != nil {
		b.Title = trimString(in.title)
	}
	if in.slug != nil {
		b.Slug = trimString(in.slug)
	}
	if in.excerpt != nil {
		b.Excerpt = trimString(in.excerpt)
	}
	if in.content != nil {
		b.Content = sanitizeContent(in.content)
	}
	if in.tags != nil {
		b.Tags = *in.tags
	}
	if in.image != nil {
		b.Image = trimImage(in.image)
	}

	err = s.m.update(ctx, tx, b)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	blogs := []Blog{*b}
	if err := s.populateComments(ctx, blogs); err != nil {
		return nil, err
	}

	return &blogs[0], nil
}

// DeleteBlog removes a blog and its comments. Only the owner may delete a blog.
func (s *BlogService) DeleteBlog(ctx context.Context, blogID string, user *userservice.User) error {
	id, err := common.ParseID(blogID)
	if err != nil {
		return err
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	b, err := s.m.getByID(ctx, tx, id, true)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	if !user.Owns(b.UserID) {
		_ = tx.Rollback()
		return common.ErrForbidden
	}

	err = s.m.delete(ctx, tx, b.ID)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (s *BlogService) populateComments(ctx context.Context, blogs []Blog) error {
	ids := make([]string, 0, len(blogs))
	for _, b := range blogs {
		ids = append(ids, b.ID)
	}

	grouped, err := s.comments.CommentsForBlogs(ctx, ids)
	if err != nil {
		return err
	}

	for i := range blogs {
		blogs[i].Comments = grouped[blogs[i].ID]
		if blogs[i].Comments == nil {
			blogs[i].Comments = []commentservice.Comment{}
		}
	}

	return nil
}

func trimString(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func sanitizeContent(content *string) string {
	if content == nil {
		return ""
	}
	return strings.TrimSpace(sanitizeMarkdown(*content))
}

func trimImage(image *string) *string {
	if image == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*image)
	if trimmed == "" {
		return nil
	}

	return &trimmed
}
