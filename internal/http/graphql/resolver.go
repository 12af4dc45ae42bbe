// Package graphql реализует GraphQL-поверхность API: схему, резолверы
// и HTTP-обработчик. Каждый резолвер проходит одну и ту же цепочку:
// аутентификация, валидация входа, вызов сервиса, приведение результата
// к виду ответа.
package graphql

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/planora/planora-api/internal/apperr"
	"github.com/planora/planora-api/internal/http/middlewarectx"
	"github.com/planora/planora-api/internal/lib/sl"
	"github.com/planora/planora-api/internal/models"
)

// AuthService описывает операции регистрации и входа.
type AuthService interface {
	Register(ctx context.Context, req models.DummyRegister) (*models.User, error)
	Login(ctx context.Context, req models.DummyLogin) (string, *models.User, error)
}

// UserService описывает операции с профилями пользователей.
type UserService interface {
	Profile(ctx context.Context, userUID string) (*models.PopulatedUser, error)
	UpdateProfile(ctx context.Context, userUID string, req models.DummyProfileUpdate) (*models.PopulatedUser, error)
	List(ctx context.Context) ([]*models.PopulatedUser, error)
}

// MeetingService описывает операции со встречами.
type MeetingService interface {
	Create(ctx context.Context, callerUID string, req models.DummyMeeting) (*models.PopulatedMeeting, error)
	Update(ctx context.Context, callerUID, id string, req models.DummyMeeting) (*models.PopulatedMeeting, error)
	Delete(ctx context.Context, callerUID, id string) (bool, error)
	List(ctx context.Context, callerUID, role string) ([]*models.PopulatedMeeting, error)
}

// EventService описывает операции с событиями.
type EventService interface {
	Create(ctx context.Context, callerUID string, req models.DummyEvent) (*models.PopulatedEvent, error)
	Update(ctx context.Context, callerUID, id string, req models.DummyEvent) (*models.PopulatedEvent, error)
	Delete(ctx context.Context, callerUID, id string) (bool, error)
	List(ctx context.Context, req models.DummyEventFilter) ([]*models.PopulatedEvent, error)
}

// BookingService описывает операции бронирования.
type BookingService interface {
	Book(ctx context.Context, callerUID, eventID string) (*models.PopulatedBooking, error)
	Cancel(ctx context.Context, callerUID, bookingID string) (*models.Event, error)
	List(ctx context.Context, callerUID, role string) ([]*models.PopulatedBooking, error)
}

// Resolver связывает GraphQL-операции с сервисами приложения.
type Resolver struct {
	auth     AuthService
	users    UserService
	meetings MeetingService
	events   EventService
	bookings BookingService
	valid    *validator.Validate
	log      *slog.Logger
}

// NewResolver создает новый экземпляр Resolver.
func NewResolver(auth AuthService, users UserService, meetings MeetingService,
	events EventService, bookings BookingService, log *slog.Logger) *Resolver {
	return &Resolver{
		auth:     auth,
		users:    users,
		meetings: meetings,
		events:   events,
		bookings: bookings,
		valid:    newValidator(),
		log:      log,
	}
}

// identity извлекает личность из контекста запроса. Любой запрос без
// валидного токена получает единообразную ошибку аутентификации.
func identity(ctx context.Context) (string, string, error) {
	uid, ok := ctx.Value(middlewarectx.UserUID).(string)
	if !ok || uid == "" {
		return "", "", apperr.Unauthenticated()
	}
	role, _ := ctx.Value(middlewarectx.Role).(string)
	return uid, role, nil
}

// normalize приводит ошибку к нормализованному виду и пишет внутренние
// ошибки в лог вместе с исходной причиной.
func (r *Resolver) normalize(ctx context.Context, op string, err error) error {
	appErr := apperr.Normalize(err)
	if appErr.Code == apperr.CodeInternal {
		r.log.Error("resolver failed",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(ctx)),
			sl.Err(err))
	}
	return appErr
}
