package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/attrigo/asapp/internal/domain"
	pkgkafka "github.com/attrigo/asapp/pkg/kafka"
	"github.com/attrigo/asapp/pkg/logger"
)

// Kafka topic constants for auth domain events.
const (
	TopicUserRegistered    = "asapp.user.registered"
	TopicPasswordChanged   = "asapp.user.password_changed"
	TopicSessionRevoked    = "asapp.auth.session_revoked"
)

const (
	aggregateTypeUser    = "user"
	aggregateTypeSession = "session"
	sourceAuthService    = "auth-service"
)

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// PasswordChangedData is the payload for a user.password_changed event.
type PasswordChangedData struct {
	UserID string `json:"user_id"`
}

// SessionRevokedData is the payload for an auth.session_revoked event.
type SessionRevokedData struct {
	AuthenticationID string `json:"authentication_id"`
	UserID           string `json:"user_id"`
}

// Producer publishes auth domain events to Kafka.
type Producer struct {
	producer *pkgkafka.Producer
	logger   *slog.Logger
}

// NewProducer creates a new auth event producer.
func NewProducer(producer *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{producer: producer, logger: logger}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		ID:       user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	}
	return p.publish(ctx, TopicUserRegistered, user.ID, aggregateTypeUser, "user.registered", data)
}

// PublishPasswordChanged publishes a user.password_changed event.
func (p *Producer) PublishPasswordChanged(ctx context.Context, userID string) error {
	return p.publish(ctx, TopicPasswordChanged, userID, aggregateTypeUser, "user.password_changed", PasswordChangedData{UserID: userID})
}

// PublishSessionRevoked publishes an auth.session_revoked event.
func (p *Producer) PublishSessionRevoked(ctx context.Context, auth *domain.Authentication) error {
	data := SessionRevokedData{
		AuthenticationID: auth.ID,
		UserID:           auth.UserID,
	}
	return p.publish(ctx, TopicSessionRevoked, auth.ID, aggregateTypeSession, "auth.session_revoked", data)
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType, eventType string, data any) error {
	evt, err := pkgkafka.NewEvent(eventType, aggregateID, aggregateType, sourceAuthService, data)
	if err != nil {
		return fmt.Errorf("build %s event: %w", eventType, err)
	}

	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}

	return p.producer.Publish(ctx, topic, evt)
}
