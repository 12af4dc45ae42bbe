// Package models содержит доменные структуры приложения: пользователей,
// встречи, события и бронирования, а также вспомогательные Dummy-типы
// для приёма данных из GraphQL-запросов до их валидации.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
//
// Поле PasswordHash никогда не отдаётся наружу — слой представления
// формирует публичную проекцию без него. CreatedEvents — денормализованный
// список идентификаторов событий, созданных пользователем; поддерживается
// по принципу best-effort (см. сервис событий).
type User struct {
	UID           string     // Уникальный идентификатор пользователя
	Email         string     // Электронная почта (уникальная, без учёта регистра)
	Name          string     // Отображаемое имя
	PasswordHash  string     // bcrypt-хэш пароля
	Role          string     // Роль пользователя: user или admin
	ImageURL      *string    // Ссылка на аватар (опционально)
	ImageThumb    *string    // Миниатюра аватара
	ImageSmall    *string    // Малый размер аватара
	ImageMedium   *string    // Средний размер аватара
	Address       *string    // Адрес (опционально)
	DateOfBirth   *time.Time // Дата рождения (опционально)
	CreatedEvents []string   // Обратные ссылки на созданные события
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PopulatedUser — пользователь с раскрытым списком созданных событий.
type PopulatedUser struct {
	User          *User
	CreatedEvents []*Event
}

// DummyRegister используется для приёма данных регистрации.
type DummyRegister struct {
	Name     string `json:"name" validate:"required,min=2,max=50,personname"`         // Имя: буквы, пробелы, дефис, апостроф
	Email    string `json:"email" validate:"required,email"`                          // Электронная почта
	Password string `json:"password" validate:"required,min=8,max=72,strongpassword"` // Пароль: >=8 символов, верхний/нижний регистр, цифра, спецсимвол
}

// DummyLogin используется для приёма данных входа.
type DummyLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// DummyProfileUpdate используется для частичного обновления профиля.
// Nil-поле означает "не менять". Дата рождения приходит строкой
// в формате 2006-01-02 и парсится в сервисе.
type DummyProfileUpdate struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=50,personname"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url"`
	ImageThumb  *string `json:"imageThumb" validate:"omitempty,url"`
	ImageSmall  *string `json:"imageSmall" validate:"omitempty,url"`
	ImageMedium *string `json:"imageMedium" validate:"omitempty,url"`
	Address     *string `json:"address" validate:"omitempty,max=200"`
	DateOfBirth *string `json:"dateOfBirth" validate:"omitempty"`
}

// UserUpdate — уже провалидированный набор изменений профиля
// для слоя хранения. Nil-поле не попадает в UPDATE.
type UserUpdate struct {
	Name        *string
	ImageURL    *string
	ImageThumb  *string
	ImageSmall  *string
	ImageMedium *string
	Address     *string
	DateOfBirth *time.Time
}
