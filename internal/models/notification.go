package models

// BookingInfo содержит данные для письма-подтверждения бронирования.
// Публикуется в RabbitMQ сервисом бронирований и потребляется sender-ом.
type BookingInfo struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	EventTitle string `json:"event_title"`
	EventDate  string `json:"event_date"`
}
