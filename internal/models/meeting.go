package models

import "time"

// Meeting представляет запланированный временной блок в календаре.
//
// Инвариант: StartTime строго раньше EndTime, длительность находится
// в пределах [5 минут, 8 часов]. Проверяется сервисом встреч до записи.
type Meeting struct {
	ID          string    // Уникальный идентификатор встречи
	Title       string    // Заголовок (обязателен, без концевых пробелов)
	Description string    // Описание (опционально)
	StartTime   time.Time // Начало встречи
	EndTime     time.Time // Окончание встречи
	Attendees   []string  // Идентификаторы участников
	CreatedBy   string    // Идентификатор создателя
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PopulatedMeeting — встреча с раскрытыми создателем и участниками.
type PopulatedMeeting struct {
	Meeting       *Meeting
	Creator       *User
	AttendeeUsers []*User
}

// DummyMeeting используется для приёма данных встречи из запроса.
// Даты приходят строками в формате RFC3339 и парсятся в сервисе.
type DummyMeeting struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"omitempty,max=2000"`
	StartTime   string   `json:"startTime" validate:"required"`
	EndTime     string   `json:"endTime" validate:"required"`
	AttendeeIDs []string `json:"attendeeIds" validate:"omitempty,dive,uuid"`
}
