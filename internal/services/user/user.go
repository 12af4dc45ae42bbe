// Package user содержит логику бизнес-уровня для работы с профилями пользователей.
package user

import (
	"context"
	"strings"
	"time"

	"github.com/planora/planora-api/internal/apperr"
	"github.com/planora/planora-api/internal/models"
)

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, userUID string, upd models.UserUpdate) (int, error)
}

// EventReader читает события для раскрытия обратных ссылок пользователя.
type EventReader interface {
	GetEventsByIDs(ctx context.Context, ids []string) ([]*models.Event, error)
}

// Service реализует операции с профилями пользователей.
type Service struct {
	users  UserRepository
	events EventReader
}

// New создает новый экземпляр Service.
func New(users UserRepository, events EventReader) *Service {
	return &Service{
		users:  users,
		events: events,
	}
}

// Profile возвращает пользователя с раскрытым списком созданных событий.
func (s *Service) Profile(ctx context.Context, userUID string) (*models.PopulatedUser, error) {
	u, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}
	events, err := s.events.GetEventsByIDs(ctx, u.CreatedEvents)
	if err != nil {
		return nil, err
	}
	return &models.PopulatedUser{User: u, CreatedEvents: events}, nil
}

// UpdateProfile применяет частичное обновление профиля. Nil-поля не
// меняются; дата рождения приходит строкой в формате 2006-01-02.
func (s *Service) UpdateProfile(ctx context.Context, userUID string, req models.DummyProfileUpdate) (*models.PopulatedUser, error) {
	upd := models.UserUpdate{
		ImageURL:    req.ImageURL,
		ImageThumb:  req.ImageThumb,
		ImageSmall:  req.ImageSmall,
		ImageMedium: req.ImageMedium,
		Address:     req.Address,
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		upd.Name = &name
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, apperr.Invalid("dateOfBirth", "must be a date in format 2006-01-02")
		}
		upd.DateOfBirth = &dob
	}

	rows, err := s.users.UpdateUser(ctx, userUID, upd)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, apperr.NotFound("user not found")
	}
	return s.Profile(ctx, userUID)
}

// List возвращает всех пользователей с раскрытыми созданными событиями.
// События читаются одним запросом на весь список.
func (s *Service) List(ctx context.Context) ([]*models.PopulatedUser, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	var allIDs []string
	for _, u := range users {
		allIDs = append(allIDs, u.CreatedEvents...)
	}
	events, err := s.events.GetEventsByIDs(ctx, allIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Event, len(events))
	for _, e := range events {
		byID[e.ID] = e
	}

	result := make([]*models.PopulatedUser, 0, len(users))
	for _, u := range users {
		populated := &models.PopulatedUser{User: u}
		for _, id := range u.CreatedEvents {
			if e, ok := byID[id]; ok {
				populated.CreatedEvents = append(populated.CreatedEvents, e)
			}
		}
		result = append(result, populated)
	}
	return result, nil
}
