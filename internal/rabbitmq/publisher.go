package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"

	librabbitmq "github.com/magabrotheeeer/worklog-ledger/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/worklog-ledger/internal/models"
)

// NotificationPublisher публикует события учёта в exchange уведомлений.
type NotificationPublisher struct {
	ch *amqp.Channel
}

// NewNotificationPublisher создает новый экземпляр NotificationPublisher.
func NewNotificationPublisher(ch *amqp.Channel) *NotificationPublisher {
	return &NotificationPublisher{ch: ch}
}

// PublishPaymentAdded публикует событие о зачисленном платеже.
func (p *NotificationPublisher) PublishPaymentAdded(event models.PaymentEvent) error {
	const op = "rabbitmq.PublishPaymentAdded"
	if err := librabbitmq.PublishMessage(p.ch, "notifications", PaymentsRoutingKey, event); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
