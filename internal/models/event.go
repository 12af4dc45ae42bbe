package models

import "time"

// Event представляет бронируемое событие.
//
// Создание события добавляет его идентификатор в список CreatedEvents
// владельца (best-effort), удаление — убирает (тоже best-effort).
type Event struct {
	ID          string    // Уникальный идентификатор события
	Title       string    // Заголовок (обязателен, без концевых пробелов)
	Description string    // Описание
	Date        time.Time // Дата проведения
	Price       float64   // Цена (неотрицательная)
	CreatedBy   string    // Идентификатор создателя
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PopulatedEvent — событие с раскрытым создателем.
type PopulatedEvent struct {
	Event   *Event
	Creator *User
}

// DummyEvent используется для приёма данных события из запроса.
// Дата приходит строкой в формате RFC3339 и парсится в сервисе.
type DummyEvent struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	Date        string  `json:"date" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
}

// DummyEventFilter — параметры выборки событий. Пустое поле не
// накладывает ограничения; границы дат включительные.
type DummyEventFilter struct {
	CreatedBy string `json:"createdBy" validate:"omitempty,uuid"`
	From      string `json:"from" validate:"omitempty"`
	To        string `json:"to" validate:"omitempty"`
}

// EventFilter — уже провалидированный фильтр для слоя хранения.
type EventFilter struct {
	CreatedBy *string
	From      *time.Time
	To        *time.Time
}
