package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sushihentaime/quillpost/internal/common"
)

var (
	ErrUserForeignKey = errors.New("blog owner does not exist")
)

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const blogColumns = `id, title, slug, excerpt, content, author, user_id, tags, image, created_at, updated_at`

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

func scanBlog(row interface{ Scan(dest ...any) error }) (*Blog, error) {
	var b Blog
	var image sql.NullString

	err := row.Scan(&b.ID, &b.Title, &b.Slug, &b.Excerpt, &b.Content, &b.Author, &b.UserID, pq.Array(&b.Tags), &image, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if image.Valid {
		b.Image = &image.String
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}

	return &b, nil
}

func (m *BlogModel) insert(ctx context.Context, b *Blog) error {
	query := `
		INSERT INTO blogs (id, title, slug, excerpt, content, author, user_id, tags, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	args := []any{b.ID, b.Title, b.Slug, b.Excerpt, b.Content, b.Author, b.UserID, pq.Array(b.Tags), b.Image}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		switch {
		case common.ForeignKeyError(err, "blogs_user_id_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	return nil
}

func (m *BlogModel) getByID(ctx context.Context, q querier, id string, forUpdate bool) (*Blog, error) {
	query := `
		SELECT ` + blogColumns + `
		FROM blogs
		WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	b, err := scanBlog(q.QueryRowContext(ctx, query, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return b, nil
}

// list returns the blogs matching every non-empty filter, newest first.
func (m *BlogModel) list(ctx context.Context, author, slug string) ([]Blog, error) {
	query := `
		SELECT ` + blogColumns + `
		FROM blogs
		WHERE ($1 = '' OR author = $1)
		AND ($2 = '' OR slug = $2)
		ORDER BY created_at DESC, id DESC`

	rows, err := m.db.QueryContext(ctx, query, author, slug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := []Blog{}
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

func (m *BlogModel) update(ctx context.Context, tx *sql.Tx, b *Blog) error {
	query := `
		UPDATE blogs
		SET title = $1, slug = $2, excerpt = $3, content = $4, tags = $5, image = $6, updated_at = clock_timestamp()
		WHERE id = $7
		RETURNING updated_at`

	args := []any{b.Title, b.Slug, b.Excerpt, b.Content, pq.Array(b.Tags), b.Image, b.ID}

	err := tx.QueryRowContext(ctx, query, args...).Scan(&b.UpdatedAt)
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

// delete removes the blog. Its comments go with it through the foreign key cascade.
func (m *BlogModel) delete(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
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
