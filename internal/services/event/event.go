// Package event содержит логику бизнес-уровня для работы с событиями,
// включая кеширование и поддержку обратных ссылок создателя.
package event

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/planora/planora-api/internal/apperr"
	"github.com/planora/planora-api/internal/lib/sl"
	"github.com/planora/planora-api/internal/models"
)

// EventRepository определяет методы для работы с событиями в хранилище.
type EventRepository interface {
	CreateEvent(ctx context.Context, event models.Event) (string, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	UpdateEvent(ctx context.Context, event models.Event, id, callerUID string) (int, error)
	RemoveEvent(ctx context.Context, id, callerUID string) (int, error)
	ListEvents(ctx context.Context, filter models.EventFilter) ([]*models.Event, error)
}

// UserEventIndex поддерживает обратный список созданных событий
// пользователя. Оба метода best-effort: ошибка не откатывает запись.
type UserEventIndex interface {
	AppendCreatedEvent(ctx context.Context, userUID, eventID string) error
	RemoveCreatedEvent(ctx context.Context, userUID, eventID string) error
}

// UserReader читает пользователей для раскрытия создателя.
type UserReader interface {
	GetUsersByUIDs(ctx context.Context, uids []string) ([]*models.User, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует операции с событиями.
type Service struct {
	repo  EventRepository
	index UserEventIndex
	users UserReader
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo EventRepository, index UserEventIndex, users UserReader, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		index: index,
		users: users,
		cache: cache,
		log:   log,
	}
}

func cacheKey(id string) string {
	return fmt.Sprintf("event:%s", id)
}

func buildEvent(req models.DummyEvent) (*models.Event, *apperr.Error) {
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return nil, apperr.Invalid("date", "must be a valid RFC3339 timestamp")
	}
	return &models.Event{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Date:        date,
		Price:       req.Price,
	}, nil
}

// Create создает новое событие и добавляет его идентификатор в обратный
// список создателя. Сбой обратной ссылки или кеша пишется в лог и не
// отменяет создание.
func (s *Service) Create(ctx context.Context, callerUID string, req models.DummyEvent) (*models.PopulatedEvent, error) {
	event, appErr := buildEvent(req)
	if appErr != nil {
		return nil, appErr
	}
	event.CreatedBy = callerUID

	id, err := s.repo.CreateEvent(ctx, *event)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new event", slog.String("id", id))

	if err := s.index.AppendCreatedEvent(ctx, callerUID, id); err != nil {
		s.log.Warn("failed to append created event back reference",
			slog.String("event_id", id), sl.Err(err))
	}

	created, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey(id), created, time.Hour); err != nil {
		s.log.Warn("failed to cache event", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	return s.populateOne(ctx, created)
}

// Get возвращает событие по ID, используя кеш или хранилище.
func (s *Service) Get(ctx context.Context, id string) (*models.Event, error) {
	var cached *models.Event
	found, err := s.cache.Get(cacheKey(id), &cached)
	if err != nil {
		s.log.Warn("failed to read event from cache", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	if found && cached != nil {
		return cached, nil
	}

	event, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if event != nil {
		if err := s.cache.Set(cacheKey(id), event, time.Hour); err != nil {
			s.log.Warn("failed to cache event", slog.String("key", cacheKey(id)), sl.Err(err))
		}
	}
	return event, nil
}

// Update обновляет событие. Менять событие может только его создатель.
func (s *Service) Update(ctx context.Context, callerUID, id string, req models.DummyEvent) (*models.PopulatedEvent, error) {
	existing, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound("event not found")
	}
	if existing.CreatedBy != callerUID {
		return nil, apperr.Forbidden("you do not own this event")
	}

	event, appErr := buildEvent(req)
	if appErr != nil {
		return nil, appErr
	}

	rows, err := s.repo.UpdateEvent(ctx, *event, id, callerUID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, apperr.NotFound("event not found")
	}

	updated, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey(id), updated, time.Hour); err != nil {
		s.log.Warn("failed to cache event", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	return s.populateOne(ctx, updated)
}

// Delete удаляет событие. Отсутствующее событие — идемпотентный успех
// с результатом false; чужое событие даёт FORBIDDEN. Обратная ссылка
// создателя убирается best-effort.
func (s *Service) Delete(ctx context.Context, callerUID, id string) (bool, error) {
	existing, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}
	if existing.CreatedBy != callerUID {
		return false, apperr.Forbidden("you do not own this event")
	}

	rows, err := s.repo.RemoveEvent(ctx, id, callerUID)
	if err != nil {
		return false, err
	}
	if rows == 0 {
		return false, nil
	}

	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate event cache", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	if err := s.index.RemoveCreatedEvent(ctx, callerUID, id); err != nil {
		s.log.Warn("failed to remove created event back reference",
			slog.String("event_id", id), sl.Err(err))
	}
	return true, nil
}

// List возвращает события по фильтру. Пустые поля фильтра не
// накладывают ограничений; границы дат включительные.
func (s *Service) List(ctx context.Context, req models.DummyEventFilter) ([]*models.PopulatedEvent, error) {
	var filter models.EventFilter
	if req.CreatedBy != "" {
		createdBy := req.CreatedBy
		filter.CreatedBy = &createdBy
	}
	if req.From != "" {
		from, err := time.Parse(time.RFC3339, req.From)
		if err != nil {
			return nil, apperr.Invalid("from", "must be a valid RFC3339 timestamp")
		}
		filter.From = &from
	}
	if req.To != "" {
		to, err := time.Parse(time.RFC3339, req.To)
		if err != nil {
			return nil, apperr.Invalid("to", "must be a valid RFC3339 timestamp")
		}
		filter.To = &to
	}

	events, err := s.repo.ListEvents(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, events)
}

func (s *Service) populateOne(ctx context.Context, event *models.Event) (*models.PopulatedEvent, error) {
	populated, err := s.populate(ctx, []*models.Event{event})
	if err != nil {
		return nil, err
	}
	return populated[0], nil
}

// populate раскрывает создателей одним запросом на весь список.
func (s *Service) populate(ctx context.Context, events []*models.Event) ([]*models.PopulatedEvent, error) {
	uidSet := make(map[string]struct{})
	for _, e := range events {
		uidSet[e.CreatedBy] = struct{}{}
	}
	uids := make([]string, 0, len(uidSet))
	for uid := range uidSet {
		uids = append(uids, uid)
	}

	users, err := s.users.GetUsersByUIDs(ctx, uids)
	if err != nil {
		return nil, err
	}
	byUID := make(map[string]*models.User, len(users))
	for _, u := range users {
		byUID[u.UID] = u
	}

	result := make([]*models.PopulatedEvent, 0, len(events))
	for _, e := range events {
		result = append(result, &models.PopulatedEvent{
			Event:   e,
			Creator: byUID[e.CreatedBy],
		})
	}
	return result, nil
}
