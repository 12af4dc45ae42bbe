package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/planora/planora-api/internal/apperr"
	"github.com/planora/planora-api/internal/models"
	"github.com/planora/planora-api/internal/services/user"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) ListUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *UserRepoMock) UpdateUser(ctx context.Context, userUID string, upd models.UserUpdate) (int, error) {
	args := m.Called(ctx, userUID, upd)
	return args.Int(0), args.Error(1)
}

// Мок для EventReader
type EventReaderMock struct {
	mock.Mock
}

func (m *EventReaderMock) GetEventsByIDs(ctx context.Context, ids []string) ([]*models.Event, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Event), args.Error(1)
}

const (
	userUID = "11111111-1111-4111-8111-111111111111"
	eventID = "33333333-3333-4333-8333-333333333333"
)

func TestUserService_Profile(t *testing.T) {
	t.Run("populates created events", func(t *testing.T) {
		repo := new(UserRepoMock)
		events := new(EventReaderMock)
		svc := user.New(repo, events)

		repo.On("GetUser", mock.Anything, userUID).
			Return(&models.User{UID: userUID, Name: "Test User", CreatedEvents: []string{eventID}}, nil).Once()
		events.On("GetEventsByIDs", mock.Anything, []string{eventID}).
			Return([]*models.Event{{ID: eventID, Title: "Go meetup"}}, nil).Once()

		got, err := svc.Profile(context.Background(), userUID)
		assert.NoError(t, err)
		assert.Equal(t, "Test User", got.User.Name)
		if assert.Len(t, got.CreatedEvents, 1) {
			assert.Equal(t, "Go meetup", got.CreatedEvents[0].Title)
		}

		repo.AssertExpectations(t)
		events.AssertExpectations(t)
	})

	t.Run("missing user is not found", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc := user.New(repo, new(EventReaderMock))

		repo.On("GetUser", mock.Anything, userUID).Return(nil, nil).Once()

		got, err := svc.Profile(context.Background(), userUID)
		assert.Nil(t, got)

		var appErr *apperr.Error
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.CodeNotFound, appErr.Code)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	name := "  New Name "
	goodDOB := "1990-05-20"
	badDOB := "20.05.1990"

	tests := []struct {
		name       string
		req        models.DummyProfileUpdate
		setupMocks func(r *UserRepoMock, e *EventReaderMock)
		wantErr    bool
		wantCode   string
	}{
		{
			name: "name is trimmed and date of birth parsed",
			req:  models.DummyProfileUpdate{Name: &name, DateOfBirth: &goodDOB},
			setupMocks: func(r *UserRepoMock, e *EventReaderMock) {
				wantDOB, _ := time.Parse("2006-01-02", goodDOB)
				r.On("UpdateUser", mock.Anything, userUID, mock.MatchedBy(func(upd models.UserUpdate) bool {
					return upd.Name != nil && *upd.Name == "New Name" &&
						upd.DateOfBirth != nil && upd.DateOfBirth.Equal(wantDOB)
				})).Return(1, nil).Once()
				r.On("GetUser", mock.Anything, userUID).
					Return(&models.User{UID: userUID, Name: "New Name"}, nil).Once()
				e.On("GetEventsByIDs", mock.Anything, mock.Anything).
					Return([]*models.Event{}, nil).Once()
			},
		},
		{
			name:       "bad date of birth is rejected before storage",
			req:        models.DummyProfileUpdate{DateOfBirth: &badDOB},
			setupMocks: func(_ *UserRepoMock, _ *EventReaderMock) {},
			wantErr:    true,
			wantCode:   apperr.CodeBadUserInput,
		},
		{
			name: "zero rows affected means user not found",
			req:  models.DummyProfileUpdate{Name: &name},
			setupMocks: func(r *UserRepoMock, _ *EventReaderMock) {
				r.On("UpdateUser", mock.Anything, userUID, mock.Anything).Return(0, nil).Once()
			},
			wantErr:  true,
			wantCode: apperr.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			events := new(EventReaderMock)
			svc := user.New(repo, events)

			tt.setupMocks(repo, events)

			got, err := svc.UpdateProfile(context.Background(), userUID, tt.req)
			if tt.wantErr {
				assert.Nil(t, got)
				var appErr *apperr.Error
				assert.ErrorAs(t, err, &appErr)
				assert.Equal(t, tt.wantCode, appErr.Code)
				if tt.wantCode == apperr.CodeBadUserInput {
					repo.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "New Name", got.User.Name)
			}

			repo.AssertExpectations(t)
			events.AssertExpectations(t)
		})
	}
}

func TestUserService_List(t *testing.T) {
	repo := new(UserRepoMock)
	events := new(EventReaderMock)
	svc := user.New(repo, events)

	repo.On("ListUsers", mock.Anything).Return([]*models.User{
		{UID: userUID, Name: "First", CreatedEvents: []string{eventID}},
		{UID: "22222222-2222-4222-8222-222222222222", Name: "Second", CreatedEvents: []string{}},
	}, nil).Once()
	events.On("GetEventsByIDs", mock.Anything, []string{eventID}).
		Return([]*models.Event{{ID: eventID, Title: "Go meetup"}}, nil).Once()

	got, err := svc.List(context.Background())
	assert.NoError(t, err)
	if assert.Len(t, got, 2) {
		assert.Len(t, got[0].CreatedEvents, 1)
		assert.Empty(t, got[1].CreatedEvents)
	}

	repo.AssertExpectations(t)
	events.AssertExpectations(t)
}
