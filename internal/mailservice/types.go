package mailservice

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/go-mail/mail/v2"

	"github.com/sushihentaime/quillpost/internal/common"
)

const (
	WelcomeTemplate             = "welcome_email.html"
	CommentNotificationTemplate = "comment_notification.html"
)

type MailService struct {
	mb         common.MessageConsumer
	m          Mailer
	logger     MailLogger
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	maxRetries int
	baseDelay  time.Duration
}

type MailLogger interface {
	Error(msg string, args ...any)
	Info(msg string, args ...any)
}

type Mail struct {
	mu     sync.Mutex
	dialer Dialer
	parser TemplateParser
	sender string
}

type Mailer interface {
	send(e email) error
}

type Template struct{}

type Dialer interface {
	DialAndSend(m ...*mail.Message) error
}

type TemplateParser interface {
	ParseTemplate(name string, data any) (*bytes.Buffer, *bytes.Buffer, *bytes.Buffer, error)
}

// email is a rendered-to-be message derived from a broker event.
type email struct {
	recipient string
	template  string
	data      any
}
