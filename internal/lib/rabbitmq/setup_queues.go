package rabbitmq

// Топология уведомлений о бронированиях.
const (
	NotificationsExchange = "notifications"
	BookingConfirmedKey   = "booking.confirmed"
	BookingConfirmedQueue = "booking.confirmed_queue"
)

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: BookingConfirmedQueue, RoutingKey: BookingConfirmedKey},
		// при необходимости дополнительные очереди для других воркеров
	}
}
