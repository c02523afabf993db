package common

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Exchange string

type Queue string

type BindingKey string

type MessageProducer interface {
	Publish(ctx context.Context, msg []byte, key BindingKey, exchange Exchange) error
}

type MessageConsumer interface {
	Consume(key BindingKey, exchange Exchange, queue Queue) (<-chan amqp.Delivery, error)
}

const (
	EventExchange Exchange = "quillpost_events"

	UserRegisteredQueue Queue      = "user_registered_queue"
	UserRegisteredKey   BindingKey = "user.registered"

	CommentAddedQueue Queue      = "comment_added_queue"
	CommentAddedKey   BindingKey = "comment.added"
)

// UserRegisteredEvent is published once a new account has been stored.
type UserRegisteredEvent struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// CommentAddedEvent is published once a comment has been committed.
type CommentAddedEvent struct {
	CommentID     string `json:"commentId"`
	BlogID        string `json:"blogId"`
	BlogTitle     string `json:"blogTitle"`
	OwnerUsername string `json:"ownerUsername"`
	OwnerEmail    string `json:"ownerEmail"`
	Commenter     string `json:"commenter"`
	Content       string `json:"content"`
}

type MessageBroker struct {
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewMessageBroker(URI string) (*MessageBroker, error) {
	conn, ch, err := connectAMQP(URI)
	if err != nil {
		return nil, err
	}

	return &MessageBroker{
		conn: conn,
		ch:   ch,
	}, nil
}

func connectAMQP(URI string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(URI)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("could not open channel: %w", err)
	}

	return conn, ch, nil
}

// Close closes the connection and channel of the message broker.
func (mb *MessageBroker) Close() error {
	err := mb.ch.Close()
	if err != nil {
		return err
	}

	err = mb.conn.Close()
	if err != nil {
		return err
	}

	return nil
}

// SetupEventExchange declares the event exchange and binds one durable queue per
// event kind.
func SetupEventExchange(mb *MessageBroker) error {
	err := mb.ch.ExchangeDeclare(string(EventExchange), "direct", true, false, false, false, nil)
	if err != nil {
		return err
	}

	bindings := []struct {
		queue Queue
		key   BindingKey
	}{
		{UserRegisteredQueue, UserRegisteredKey},
		{CommentAddedQueue, CommentAddedKey},
	}

	for _, b := range bindings {
		_, err = mb.ch.QueueDeclare(string(b.queue), true, false, false, false, nil)
		if err != nil {
			return err
		}

		err = mb.ch.QueueBind(string(b.queue), string(b.key), string(EventExchange), false, nil)
		if err != nil {
			return err
		}
	}

	return nil
}

func (mb *MessageBroker) Publish(ctx context.Context, msg []byte, key BindingKey, exchange Exchange) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	err := mb.ch.PublishWithContext(ctx, string(exchange), string(key), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         msg,
	})
	if err != nil {
		return fmt.Errorf("could not publish message: %w", err)
	}

	return nil
}

func (mb *MessageBroker) Consume(key BindingKey, exchange Exchange, queue Queue) (<-chan amqp.Delivery, error) {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	msgs, err := mb.ch.Consume(string(queue), string(key), false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("could not consume message: %w", err)
	}

	return msgs, nil
}

// PublishEvent marshals event to JSON and publishes it on the event exchange.
func PublishEvent(ctx context.Context, mp MessageProducer, key BindingKey, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return mp.Publish(ctx, body, key, EventExchange)
}

type discardProducer struct{}

func (discardProducer) Publish(context.Context, []byte, BindingKey, Exchange) error {
	return nil
}

// DiscardProducer drops every message. It is used when no broker is configured.
var DiscardProducer MessageProducer = discardProducer{}
