package commentservice

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/sushihentaime/quillpost/internal/common"
	"github.com/sushihentaime/quillpost/internal/userservice"
)

func NewCommentService(db *sql.DB, mb common.MessageProducer, logger Logger) *CommentService {
	if mb == nil {
		mb = common.DiscardProducer
	}

	return &CommentService{
		m:      newCommentModel(db),
		mb:     mb,
		logger: logger,
	}
}

// ListComments returns the comments of a blog, newest first.
func (s *CommentService) ListComments(ctx context.Context, blogID string) ([]Comment, error) {
	v := common.NewValidator()
	v.CheckID(blogID, "blogId")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getByBlog(ctx, normalizeID(blogID))
}

// CommentsForBlogs groups the comments of the given blogs by blog id, oldest first.
func (s *CommentService) CommentsForBlogs(ctx context.Context, blogIDs []string) (map[string][]Comment, error) {
	grouped := make(map[string][]Comment, len(blogIDs))
	if len(blogIDs) == 0 {
		return grouped, nil
	}

	comments, err := s.m.getByBlogs(ctx, blogIDs)
	if err != nil {
		return nil, err
	}

	for _, c := range comments {
		grouped[c.BlogID] = append(grouped[c.BlogID], c)
	}

	return grouped, nil
}

// AddComment attaches a comment by user to an existing blog and notifies the
// blog owner through a comment.added event.
func (s *CommentService) AddComment(ctx context.Context, blogID, content string, user *userservice.User) (*Comment, error) {
	content = strings.TrimSpace(content)

	v := common.NewValidator()
	v.CheckID(blogID, "blogId")
	validateContent(v, content)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	c := Comment{
		ID:      common.NewID(),
		Content: content,
		Author:  Author{ID: user.ID, Username: user.Username},
		BlogID:  normalizeID(blogID),
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	blog, err := s.m.lockBlog(ctx, tx, c.BlogID)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	err = s.m.insert(ctx, tx, &c)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if blog.OwnerID != user.ID {
		event := common.CommentAddedEvent{
			CommentID:     c.ID,
			BlogID:        blog.ID,
			BlogTitle:     blog.Title,
			OwnerUsername: blog.OwnerUsername,
			OwnerEmail:    blog.OwnerEmail,
			Commenter:     user.Username,
			Content:       c.Content,
		}
		if err := common.PublishEvent(ctx, s.mb, common.CommentAddedKey, event); err != nil && s.logger != nil {
			s.logger.Error("could not publish comment added event", slog.String("error", err.Error()), slog.String("comment_id", c.ID))
		}
	}

	return &c, nil
}

// EditComment replaces the content of a comment. Only its author may edit it.
func (s *CommentService) EditComment(ctx context.Context, commentID, content string, user *userservice.User) (*Comment, error) {
	content = strings.TrimSpace(content)

	v := common.NewValidator()
	v.CheckID(commentID, "commentId")
	validateContent(v, content)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	c, err := s.m.getByID(ctx, tx, normalizeID(commentID), true)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if !user.Owns(c.Author.ID) {
		_ = tx.Rollback()
		return nil, common.ErrForbidden
	}

	c.Content = content
	err = s.m.updateContent(ctx, tx, c)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return c, nil
}

// DeleteComment removes a comment. Only its author may delete it.
func (s *CommentService) DeleteComment(ctx context.Context, commentID string, user *userservice.User) error {
	v := common.NewValidator()
	v.CheckID(commentID, "commentId")
	if !v.Valid() {
		return v.ValidationError()
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	c, err := s.m.getByID(ctx, tx, normalizeID(commentID), true)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	if !user.Owns(c.Author.ID) {
		_ = tx.Rollback()
		return common.ErrForbidden
	}

	err = s.m.delete(ctx, tx, c.ID)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
