package models

import "time"

// Booking представляет бронирование события пользователем.
//
// Пара (UserUID, EventID) уникальна: повторное бронирование того же
// события тем же пользователем отклоняется с конфликтом.
type Booking struct {
	ID        string // Уникальный идентификатор бронирования
	EventID   string // Идентификатор забронированного события
	UserUID   string // Идентификатор пользователя
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PopulatedBooking — бронирование с раскрытыми событием и пользователем.
type PopulatedBooking struct {
	Booking *Booking
	Event   *Event
	User    *User
}
