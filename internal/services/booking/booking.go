// Package booking содержит логику бизнес-уровня для бронирования событий.
package booking

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/planora/planora-api/internal/apperr"
	"github.com/planora/planora-api/internal/lib/rabbitmq"
	"github.com/planora/planora-api/internal/lib/sl"
	"github.com/planora/planora-api/internal/models"
)

// BookingRepository определяет методы для работы с бронированиями в хранилище.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking models.Booking) (string, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	RemoveBooking(ctx context.Context, id, callerUID string) (int, error)
	ListBookingsForUser(ctx context.Context, userUID string) ([]*models.Booking, error)
	ListAllBookings(ctx context.Context) ([]*models.Booking, error)
}

// EventReader читает события для проверки существования и раскрытия.
type EventReader interface {
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	GetEventsByIDs(ctx context.Context, ids []string) ([]*models.Event, error)
}

// UserReader читает пользователей для раскрытия и писем-подтверждений.
type UserReader interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetUsersByUIDs(ctx context.Context, uids []string) ([]*models.User, error)
}

// Service реализует операции бронирования. Уведомление о бронировании
// публикуется в RabbitMQ best-effort: сбой публикации не отменяет бронь.
type Service struct {
	repo    BookingRepository
	events  EventReader
	users   UserReader
	publish rabbitmq.Publisher
	log     *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo BookingRepository, events EventReader, users UserReader, publish rabbitmq.Publisher, log *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		events:  events,
		users:   users,
		publish: publish,
		log:     log,
	}
}

// Book бронирует событие для вызывающего пользователя. Несуществующее
// событие — ошибка входных данных; повторное бронирование — конфликт.
func (s *Service) Book(ctx context.Context, callerUID, eventID string) (*models.PopulatedBooking, error) {
	if _, err := uuid.Parse(eventID); err != nil {
		return nil, apperr.Invalid("eventId", "must be a valid uuid")
	}

	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, apperr.Invalid("eventId", "event does not exist")
	}

	id, err := s.repo.CreateBooking(ctx, models.Booking{EventID: eventID, UserUID: callerUID})
	if err != nil {
		if apperr.IsUniqueViolation(err) {
			return nil, apperr.Conflict("event is already booked")
		}
		return nil, err
	}
	s.log.Info("created new booking", slog.String("id", id))

	user, err := s.users.GetUser(ctx, callerUID)
	if err != nil {
		return nil, err
	}

	if s.publish != nil && user != nil {
		info := models.BookingInfo{
			Email:      user.Email,
			Name:       user.Name,
			EventTitle: event.Title,
			EventDate:  event.Date.Format(time.RFC3339),
		}
		if err := s.publish(rabbitmq.NotificationsExchange, rabbitmq.BookingConfirmedKey, info); err != nil {
			s.log.Warn("failed to publish booking confirmation", slog.String("booking_id", id), sl.Err(err))
		}
	}

	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.PopulatedBooking{Booking: booking, Event: event, User: user}, nil
}

// Cancel отменяет бронирование. Отменить можно только своё; возвращает
// освобождённое событие.
func (s *Service) Cancel(ctx context.Context, callerUID, bookingID string) (*models.Event, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperr.NotFound("booking not found")
	}
	if booking.UserUID != callerUID {
		return nil, apperr.Forbidden("you do not own this booking")
	}

	event, err := s.events.GetEvent(ctx, booking.EventID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.RemoveBooking(ctx, bookingID, callerUID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, apperr.NotFound("booking not found")
	}
	s.log.Info("cancelled booking", slog.String("id", bookingID))

	return event, nil
}

// List возвращает бронирования в зависимости от роли: администратор
// видит все, остальные — только свои.
func (s *Service) List(ctx context.Context, callerUID, role string) ([]*models.PopulatedBooking, error) {
	var bookings []*models.Booking
	var err error
	if role == "admin" {
		bookings, err = s.repo.ListAllBookings(ctx)
	} else {
		bookings, err = s.repo.ListBookingsForUser(ctx, callerUID)
	}
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, bookings)
}

// populate раскрывает события и пользователей одним запросом на весь список.
func (s *Service) populate(ctx context.Context, bookings []*models.Booking) ([]*models.PopulatedBooking, error) {
	eventSet := make(map[string]struct{})
	userSet := make(map[string]struct{})
	for _, b := range bookings {
		eventSet[b.EventID] = struct{}{}
		userSet[b.UserUID] = struct{}{}
	}
	eventIDs := make([]string, 0, len(eventSet))
	for id := range eventSet {
		eventIDs = append(eventIDs, id)
	}
	userUIDs := make([]string, 0, len(userSet))
	for uid := range userSet {
		userUIDs = append(userUIDs, uid)
	}

	events, err := s.events.GetEventsByIDs(ctx, eventIDs)
	if err != nil {
		return nil, err
	}
	users, err := s.users.GetUsersByUIDs(ctx, userUIDs)
	if err != nil {
		return nil, err
	}
	eventsByID := make(map[string]*models.Event, len(events))
	for _, e := range events {
		eventsByID[e.ID] = e
	}
	usersByUID := make(map[string]*models.User, len(users))
	for _, u := range users {
		usersByUID[u.UID] = u
	}

	result := make([]*models.PopulatedBooking, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, &models.PopulatedBooking{
			Booking: b,
			Event:   eventsByID[b.EventID],
			User:    usersByUID[b.UserUID],
		})
	}
	return result, nil
}
