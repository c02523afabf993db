package userservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/sushihentaime/quillpost/internal/common"
)

var (
	ErrDuplicateEmail = errors.New("duplicate email")
)

const userColumns = `
	u.id, u.username, u.email, u.password, u.created_at, u.updated_at,
	ARRAY(SELECT b.id FROM blogs b WHERE b.user_id = u.id ORDER BY b.created_at, b.id),
	ARRAY(SELECT c.id FROM comments c WHERE c.user_id = u.id ORDER BY c.created_at, c.id)`

func newUserModel(db *sql.DB) *DBModel {
	return &DBModel{db: db}
}

func (m *DBModel) insert(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (id, username, email, password)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	args := []any{
		u.ID,
		u.Username,
		u.Email,
		u.Password.hash,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		switch {
		case common.UniqueViolation(err, "users_email_key"):
			return ErrDuplicateEmail
		default:
			return err
		}
	}

	u.Blogs = []string{}
	u.Comments = []string{}

	return nil
}

func (m *DBModel) getByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT` + userColumns + `
		FROM users u
		WHERE u.email = $1`

	return scanUser(m.db.QueryRowContext(ctx, query, email))
}

func (m *DBModel) getByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT` + userColumns + `
		FROM users u
		WHERE u.id = $1`

	return scanUser(m.db.QueryRowContext(ctx, query, id))
}

func scanUser(row *sql.Row) (*User, error) {
	var u User

	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Password.hash,
		&u.CreatedAt,
		&u.UpdatedAt,
		pq.Array(&u.Blogs),
		pq.Array(&u.Comments),
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	if u.Blogs == nil {
		u.Blogs = []string{}
	}
	if u.Comments == nil {
		u.Comments = []string{}
	}

	return &u, nil
}
