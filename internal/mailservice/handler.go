package mailservice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sushihentaime/quillpost/internal/common"
	"golang.org/x/exp/rand"
)

const (
	defaultMaxRetries = 5
	defaultBaseDelay  = 500 * time.Millisecond
)

func NewMailService(mb common.MessageConsumer, host, username, password, sender string, port int, logger MailLogger) *MailService {
	return newMailService(mb, NewMailer(host, port, username, password, sender, NewTemplate()), logger)
}

func newMailService(mb common.MessageConsumer, m Mailer, logger MailLogger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:         mb,
		m:          m,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
	}
}

// SendWelcomeEmails greets every newly registered user.
func (s *MailService) SendWelcomeEmails() error {
	return s.consume(common.UserRegisteredKey, common.UserRegisteredQueue, func(body []byte) (*email, error) {
		var event common.UserRegisteredEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return nil, err
		}
		if event.Email == "" {
			return nil, fmt.Errorf("user registered event without email")
		}

		return &email{recipient: event.Email, template: WelcomeTemplate, data: event}, nil
	})
}

// SendCommentNotifications tells blog owners about new comments on their posts.
func (s *MailService) SendCommentNotifications() error {
	return s.consume(common.CommentAddedKey, common.CommentAddedQueue, func(body []byte) (*email, error) {
		var event common.CommentAddedEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return nil, err
		}
		if event.OwnerEmail == "" {
			return nil, fmt.Errorf("comment added event without owner email")
		}

		return &email{recipient: event.OwnerEmail, template: CommentNotificationTemplate, data: event}, nil
	})
}

func (s *MailService) consume(key common.BindingKey, queue common.Queue, decode func([]byte) (*email, error)) error {
	msgs, err := s.mb.Consume(key, common.EventExchange, queue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("queue", string(queue)), slog.String("error", err.Error()))
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				s.handle(msg, decode)

			case <-s.ctx.Done():
				s.logger.Info("stopping mail consumer", slog.String("queue", string(queue)))
				return
			}
		}
	}()

	return nil
}

func (s *MailService) handle(msg amqp.Delivery, decode func([]byte) (*email, error)) {
	e, err := decode(msg.Body)
	if err != nil {
		s.logger.Error("could not decode message", slog.String("error", err.Error()))
		_ = msg.Ack(false)
		return
	}

	// exponential backoff with jitter
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		err = s.m.send(*e)
		if err == nil {
			s.logger.Info("email sent", slog.String("email", e.recipient), slog.String("template", e.template))
			_ = msg.Ack(false)
			return
		}

		delay := time.Duration(rand.Int63n(int64(s.baseDelay) << uint(attempt)))
		s.logger.Info("delaying email", slog.String("email", e.recipient), slog.Int("attempt", attempt), slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			_ = msg.Nack(false, true)
			return
		}
	}

	s.logger.Error("could not send email", slog.String("email", e.recipient), slog.String("template", e.template), slog.String("error", err.Error()))
	_ = msg.Ack(false)
}

// Close stops the consumers and waits for in-flight messages.
func (s *MailService) Close() {
	s.cancel()
	s.wg.Wait()
}
