package commentservice

import (
	"database/sql"
	"time"

	"github.com/sushihentaime/quillpost/internal/common"
)

type Logger interface {
	Error(msg string, args ...any)
}

// Author is the public view of the user who wrote a comment.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Author    Author    `json:"author"`
	BlogID    string    `json:"blog"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CommentModel struct {
	db *sql.DB
}

type CommentService struct {
	m      *CommentModel
	mb     common.MessageProducer
	logger Logger
}

// blogRef is the part of a blog a new comment needs.
type blogRef struct {
	ID            string
	Title         string
	OwnerID       string
	OwnerUsername string
	OwnerEmail    string
}
