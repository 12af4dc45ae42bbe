package event_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/planora/planora-api/internal/apperr"
	"github.com/planora/planora-api/internal/models"
	"github.com/planora/planora-api/internal/services/event"
)

// Мок для EventRepository
type EventRepoMock struct {
	mock.Mock
}

func (m *EventRepoMock) CreateEvent(ctx context.Context, e models.Event) (string, error) {
	args := m.Called(ctx, e)
	return args.String(0), args.Error(1)
}

func (m *EventRepoMock) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *EventRepoMock) UpdateEvent(ctx context.Context, e models.Event, id, callerUID string) (int, error) {
	args := m.Called(ctx, e, id, callerUID)
	return args.Int(0), args.Error(1)
}

func (m *EventRepoMock) RemoveEvent(ctx context.Context, id, callerUID string) (int, error) {
	args := m.Called(ctx, id, callerUID)
	return args.Int(0), args.Error(1)
}

func (m *EventRepoMock) ListEvents(ctx context.Context, filter models.EventFilter) ([]*models.Event, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Event), args.Error(1)
}

// Мок для UserEventIndex
type UserEventIndexMock struct {
	mock.Mock
}

func (m *UserEventIndexMock) AppendCreatedEvent(ctx context.Context, userUID, eventID string) error {
	args := m.Called(ctx, userUID, eventID)
	return args.Error(0)
}

func (m *UserEventIndexMock) RemoveCreatedEvent(ctx context.Context, userUID, eventID string) error {
	args := m.Called(ctx, userUID, eventID)
	return args.Error(0)
}

// Мок для UserReader
type UserReaderMock struct {
	mock.Mock
}

func (m *UserReaderMock) GetUsersByUIDs(ctx context.Context, uids []string) ([]*models.User, error) {
	args := m.Called(ctx, uids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

// Мок для Cache
type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

const (
	ownerUID    = "11111111-1111-4111-8111-111111111111"
	strangerUID = "22222222-2222-4222-8222-222222222222"
	eventID     = "33333333-3333-4333-8333-333333333333"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validEventRequest() models.DummyEvent {
	return models.DummyEvent{
		Title: "Go meetup",
		Date:  "2026-10-15T18:00:00Z",
		Price: 25.50,
	}
}

func storedEvent() *models.Event {
	date, _ := time.Parse(time.RFC3339, "2026-10-15T18:00:00Z")
	return &models.Event{
		ID:        eventID,
		Title:     "Go meetup",
		Date:      date,
		Price:     25.50,
		CreatedBy: ownerUID,
	}
}

func TestEventService_Create_BackReferenceFailureTolerated(t *testing.T) {
	repo := new(EventRepoMock)
	index := new(UserEventIndexMock)
	users := new(UserReaderMock)
	cache := new(CacheMock)
	svc := event.New(repo, index, users, cache, newNoopLogger())

	stored := storedEvent()
	repo.On("CreateEvent", mock.Anything, mock.MatchedBy(func(e models.Event) bool {
		return e.Title == "Go meetup" && e.CreatedBy == ownerUID
	})).Return(eventID, nil).Once()
	// Сбой обратной ссылки не должен отменить создание
	index.On("AppendCreatedEvent", mock.Anything, ownerUID, eventID).
		Return(errors.New("update conflict")).Once()
	repo.On("GetEvent", mock.Anything, eventID).Return(stored, nil).Once()
	cache.On("Set", "event:"+eventID, stored, time.Hour).Return(nil).Once()
	users.On("GetUsersByUIDs", mock.Anything, mock.Anything).
		Return([]*models.User{{UID: ownerUID, Name: "Owner"}}, nil).Once()

	got, err := svc.Create(context.Background(), ownerUID, validEventRequest())
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, eventID, got.Event.ID)
	assert.Equal(t, "Owner", got.Creator.Name)

	repo.AssertExpectations(t)
	index.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestEventService_Create_BadDate(t *testing.T) {
	repo := new(EventRepoMock)
	svc := event.New(repo, new(UserEventIndexMock), new(UserReaderMock), new(CacheMock), newNoopLogger())

	req := validEventRequest()
	req.Date = "next friday"

	got, err := svc.Create(context.Background(), ownerUID, req)
	assert.Nil(t, got)

	var appErr *apperr.Error
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.CodeBadUserInput, appErr.Code)

	repo.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything)
}

func TestEventService_Get_CacheAside(t *testing.T) {
	stored := storedEvent()

	t.Run("cache miss falls through to storage and caches", func(t *testing.T) {
		repo := new(EventRepoMock)
		cache := new(CacheMock)
		svc := event.New(repo, new(UserEventIndexMock), new(UserReaderMock), cache, newNoopLogger())

		cache.On("Get", "event:"+eventID, mock.Anything).Return(false, nil).Once()
		repo.On("GetEvent", mock.Anything, eventID).Return(stored, nil).Once()
		cache.On("Set", "event:"+eventID, stored, time.Hour).Return(nil).Once()

		got, err := svc.Get(context.Background(), eventID)
		assert.NoError(t, err)
		assert.Equal(t, stored, got)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache error is tolerated", func(t *testing.T) {
		repo := new(EventRepoMock)
		cache := new(CacheMock)
		svc := event.New(repo, new(UserEventIndexMock), new(UserReaderMock), cache, newNoopLogger())

		cache.On("Get", "event:"+eventID, mock.Anything).Return(false, errors.New("connection refused")).Once()
		repo.On("GetEvent", mock.Anything, eventID).Return(stored, nil).Once()
		cache.On("Set", "event:"+eventID, stored, time.Hour).Return(errors.New("connection refused")).Once()

		got, err := svc.Get(context.Background(), eventID)
		assert.NoError(t, err)
		assert.Equal(t, stored, got)
	})
}

func TestEventService_Update_Ownership(t *testing.T) {
	repo := new(EventRepoMock)
	svc := event.New(repo, new(UserEventIndexMock), new(UserReaderMock), new(CacheMock), newNoopLogger())

	repo.On("GetEvent", mock.Anything, eventID).Return(storedEvent(), nil).Once()

	got, err := svc.Update(context.Background(), strangerUID, eventID, validEventRequest())
	assert.Nil(t, got)

	var appErr *apperr.Error
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.CodeForbidden, appErr.Code)
	assert.Equal(t, "you do not own this event", appErr.Message)

	repo.AssertNotCalled(t, "UpdateEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEventService_Delete(t *testing.T) {
	tests := []struct {
		name       string
		callerUID  string
		setupMocks func(r *EventRepoMock, i *UserEventIndexMock, c *CacheMock)
		want       bool
		wantErr    bool
		wantCode   string
	}{
		{
			name:      "missing event is idempotent success",
			callerUID: ownerUID,
			setupMocks: func(r *EventRepoMock, _ *UserEventIndexMock, _ *CacheMock) {
				r.On("GetEvent", mock.Anything, eventID).Return(nil, nil).Once()
			},
			want: false,
		},
		{
			name:      "foreign event is forbidden",
			callerUID: strangerUID,
			setupMocks: func(r *EventRepoMock, _ *UserEventIndexMock, _ *CacheMock) {
				r.On("GetEvent", mock.Anything, eventID).Return(storedEvent(), nil).Once()
			},
			wantErr:  true,
			wantCode: apperr.CodeForbidden,
		},
		{
			name:      "owner delete invalidates cache and removes back reference",
			callerUID: ownerUID,
			setupMocks: func(r *EventRepoMock, i *UserEventIndexMock, c *CacheMock) {
				r.On("GetEvent", mock.Anything, eventID).Return(storedEvent(), nil).Once()
				r.On("RemoveEvent", mock.Anything, eventID, ownerUID).Return(1, nil).Once()
				c.On("Invalidate", "event:"+eventID).Return(nil).Once()
				i.On("RemoveCreatedEvent", mock.Anything, ownerUID, eventID).Return(nil).Once()
			},
			want: true,
		},
		{
			name:      "back reference failure does not fail the delete",
			callerUID: ownerUID,
			setupMocks: func(r *EventRepoMock, i *UserEventIndexMock, c *CacheMock) {
				r.On("GetEvent", mock.Anything, eventID).Return(storedEvent(), nil).Once()
				r.On("RemoveEvent", mock.Anything, eventID, ownerUID).Return(1, nil).Once()
				c.On("Invalidate", "event:"+eventID).Return(errors.New("connection refused")).Once()
				i.On("RemoveCreatedEvent", mock.Anything, ownerUID, eventID).
					Return(errors.New("update conflict")).Once()
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(EventRepoMock)
			index := new(UserEventIndexMock)
			cache := new(CacheMock)
			svc := event.New(repo, index, new(UserReaderMock), cache, newNoopLogger())

			tt.setupMocks(repo, index, cache)

			got, err := svc.Delete(context.Background(), tt.callerUID, eventID)
			if tt.wantErr {
				var appErr *apperr.Error
				assert.ErrorAs(t, err, &appErr)
				assert.Equal(t, tt.wantCode, appErr.Code)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)

			repo.AssertExpectations(t)
			index.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestEventService_List_Filter(t *testing.T) {
	tests := []struct {
		name      string
		req       models.DummyEventFilter
		wantErr   bool
		checkCall func(filter models.EventFilter) bool
	}{
		{
			name: "empty filter imposes no constraints",
			req:  models.DummyEventFilter{},
			checkCall: func(f models.EventFilter) bool {
				return f.CreatedBy == nil && f.From == nil && f.To == nil
			},
		},
		{
			name: "full filter is passed through",
			req: models.DummyEventFilter{
				CreatedBy: ownerUID,
				From:      "2026-10-01T00:00:00Z",
				To:        "2026-10-31T23:59:59Z",
			},
			checkCall: func(f models.EventFilter) bool {
				return f.CreatedBy != nil && *f.CreatedBy == ownerUID &&
					f.From != nil && f.To != nil
			},
		},
		{
			name:    "unparseable from is rejected",
			req:     models.DummyEventFilter{From: "yesterday"},
			wantErr: true,
		},
		{
			name:    "unparseable to is rejected",
			req:     models.DummyEventFilter{To: "2026-13-45"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(EventRepoMock)
			users := new(UserReaderMock)
			svc := event.New(repo, new(UserEventIndexMock), users, new(CacheMock), newNoopLogger())

			if !tt.wantErr {
				repo.On("ListEvents", mock.Anything, mock.MatchedBy(tt.checkCall)).
					Return([]*models.Event{storedEvent()}, nil).Once()
				users.On("GetUsersByUIDs", mock.Anything, mock.Anything).
					Return([]*models.User{{UID: ownerUID, Name: "Owner"}}, nil).Once()
			}

			got, err := svc.List(context.Background(), tt.req)
			if tt.wantErr {
				var appErr *apperr.Error
				assert.ErrorAs(t, err, &appErr)
				assert.Equal(t, apperr.CodeBadUserInput, appErr.Code)
				repo.AssertNotCalled(t, "ListEvents", mock.Anything, mock.Anything)
				return
			}

			assert.NoError(t, err)
			if assert.Len(t, got, 1) {
				assert.Equal(t, "Owner", got[0].Creator.Name)
			}
			repo.AssertExpectations(t)
		})
	}
}
