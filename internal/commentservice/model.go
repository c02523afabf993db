package commentservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sushihentaime/quillpost/internal/common"
)

var (
	ErrUserForeignKey = errors.New("comment author does not exist")
)

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const commentColumns = `c.id, c.content, c.blog_id, c.created_at, c.updated_at, u.id, u.username`

func newCommentModel(db *sql.DB) *CommentModel {
	return &CommentModel{db: db}
}

func scanComment(row interface{ Scan(dest ...any) error }) (*Comment, error) {
	var c Comment

	err := row.Scan(&c.ID, &c.Content, &c.BlogID, &c.CreatedAt, &c.UpdatedAt, &c.Author.ID, &c.Author.Username)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func collectComments(rows *sql.Rows) ([]Comment, error) {
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

// getByBlog returns the comments of a blog, newest first.
func (m *CommentModel) getByBlog(ctx context.Context, blogID string) ([]Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.blog_id = $1
		ORDER BY c.created_at DESC, c.id DESC`

	rows, err := m.db.QueryContext(ctx, query, blogID)
	if err != nil {
		return nil, err
	}

	return collectComments(rows)
}

// getByBlogs returns the comments of several blogs, oldest first.
func (m *CommentModel) getByBlogs(ctx context.Context, blogIDs []string) ([]Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.blog_id = ANY($1)
		ORDER BY c.created_at, c.id`

	rows, err := m.db.QueryContext(ctx, query, pq.Array(blogIDs))
	if err != nil {
		return nil, err
	}

	return collectComments(rows)
}

func (m *CommentModel) getByID(ctx context.Context, q querier, id string, forUpdate bool) (*Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1`
	if forUpdate {
		query += ` FOR UPDATE OF c`
	}

	c, err := scanComment(q.QueryRowContext(ctx, query, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return c, nil
}

// lockBlog holds a share lock on the blog so it cannot be deleted until the transaction ends.
func (m *CommentModel) lockBlog(ctx context.Context, tx *sql.Tx, blogID string) (*blogRef, error) {
	query := `
		SELECT b.id, b.title, u.id, u.username, u.email
		FROM blogs b
		JOIN users u ON u.id = b.user_id
		WHERE b.id = $1
		FOR SHARE OF b`

	var b blogRef
	err := tx.QueryRowContext(ctx, query, blogID).Scan(&b.ID, &b.Title, &b.OwnerID, &b.OwnerUsername, &b.OwnerEmail)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &b, nil
}

func (m *CommentModel) insert(ctx context.Context, tx *sql.Tx, c *Comment) error {
	query := `
		INSERT INTO comments (id, content, user_id, blog_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := tx.QueryRowContext(ctx, query, c.ID, c.Content, c.Author.ID, c.BlogID).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		switch {
		case common.ForeignKeyError(err, "comments_user_id_fkey"):
			return ErrUserForeignKey
		case common.ForeignKeyError(err, "comments_blog_id_fkey"):
			return common.ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

func (m *CommentModel) updateContent(ctx context.Context, tx *sql.Tx, c *Comment) error {
	query := `
		UPDATE comments
		SET content = $1, updated_at = clock_timestamp()
		WHERE id = $2
		RETURNING updated_at`

	err := tx.QueryRowContext(ctx, query, c.Content, c.ID).Scan(&c.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return common.ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

func (m *CommentModel) delete(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return common.ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}
