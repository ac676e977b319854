package rabbitmq

// QueueConfig описывает очередь и ключ маршрутизации для её привязки.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// PaymentsRoutingKey — ключ маршрутизации событий о добавленных платежах.
const PaymentsRoutingKey = "payments"

// GetNotificationQueues возвращает очереди уведомлений сервиса.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notifications.payments", RoutingKey: PaymentsRoutingKey},
	}
}
