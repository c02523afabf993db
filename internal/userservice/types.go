package userservice

import (
	"database/sql"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sushihentaime/quillpost/internal/common"
)

const (
	// TokenTTL is how long an issued session token stays valid.
	TokenTTL time.Duration = time.Hour
)

var (
	AnonymousUser = User{}
)

type Logger interface {
	Error(msg string, args ...any)
}

type UserService struct {
	m      *DBModel
	tokens *TokenService
	mb     common.MessageProducer
	logger Logger
}

type DBModel struct {
	db *sql.DB
}

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  Password  `json:"-"`
	Blogs     []string  `json:"blogs"`
	Comments  []string  `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Password holds only the bcrypt hash; the plaintext is never kept.
type Password struct {
	hash []byte
}

// Claims is the payload of a session token.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}
