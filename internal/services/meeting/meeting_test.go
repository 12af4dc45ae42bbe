package meeting_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/planora/planora-api/internal/apperr"
	"github.com/planora/planora-api/internal/models"
	"github.com/planora/planora-api/internal/services/meeting"
)

// Мок для MeetingRepository
type MeetingRepoMock struct {
	mock.Mock
}

func (m *MeetingRepoMock) CreateMeeting(ctx context.Context, mt models.Meeting) (string, error) {
	args := m.Called(ctx, mt)
	return args.String(0), args.Error(1)
}

func (m *MeetingRepoMock) GetMeeting(ctx context.Context, id string) (*models.Meeting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meeting), args.Error(1)
}

func (m *MeetingRepoMock) UpdateMeeting(ctx context.Context, mt models.Meeting, id, callerUID string) (int, error) {
	args := m.Called(ctx, mt, id, callerUID)
	return args.Int(0), args.Error(1)
}

func (m *MeetingRepoMock) RemoveMeeting(ctx context.Context, id, callerUID string) (int, error) {
	args := m.Called(ctx, id, callerUID)
	return args.Int(0), args.Error(1)
}

func (m *MeetingRepoMock) ListMeetingsForUser(ctx context.Context, userUID string) ([]*models.Meeting, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Meeting), args.Error(1)
}

func (m *MeetingRepoMock) ListAllMeetings(ctx context.Context) ([]*models.Meeting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Meeting), args.Error(1)
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

const (
	ownerUID    = "11111111-1111-4111-8111-111111111111"
	strangerUID = "22222222-2222-4222-8222-222222222222"
	meetingID   = "33333333-3333-4333-8333-333333333333"
)

func validMeetingRequest() models.DummyMeeting {
	return models.DummyMeeting{
		Title:     "Weekly sync",
		StartTime: "2026-09-01T10:00:00Z",
		EndTime:   "2026-09-01T11:00:00Z",
	}
}

func TestMeetingService_Create_TimeValidation(t *testing.T) {
	tests := []struct {
		name      string
		startTime string
		endTime   string
		wantField string
		wantMsg   string
	}{
		{
			name:      "start not parseable",
			startTime: "tomorrow at ten",
			endTime:   "2026-09-01T11:00:00Z",
			wantField: "startTime",
			wantMsg:   "must be a valid RFC3339 timestamp",
		},
		{
			name:      "end not parseable",
			startTime: "2026-09-01T10:00:00Z",
			endTime:   "2026-09-01",
			wantField: "endTime",
			wantMsg:   "must be a valid RFC3339 timestamp",
		},
		{
			name:      "start equals end",
			startTime: "2026-09-01T10:00:00Z",
			endTime:   "2026-09-01T10:00:00Z",
			wantField: "endTime",
			wantMsg:   "must be after startTime",
		},
		{
			name:      "start after end",
			startTime: "2026-09-01T12:00:00Z",
			endTime:   "2026-09-01T10:00:00Z",
			wantField: "endTime",
			wantMsg:   "must be after startTime",
		},
		{
			name:      "too short",
			startTime: "2026-09-01T10:00:00Z",
			endTime:   "2026-09-01T10:04:00Z",
			wantField: "endTime",
			wantMsg:   "between 5 minutes and 8 hours",
		},
		{
			name:      "too long",
			startTime: "2026-09-01T10:00:00Z",
			endTime:   "2026-09-01T18:00:01Z",
			wantField: "endTime",
			wantMsg:   "between 5 minutes and 8 hours",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MeetingRepoMock)
			users := new(UserReaderMock)
			svc := meeting.New(repo, users)

			req := validMeetingRequest()
			req.StartTime = tt.startTime
			req.EndTime = tt.endTime

			got, err := svc.Create(context.Background(), ownerUID, req)
			assert.Nil(t, got)
			assert.Error(t, err)

			var appErr *apperr.Error
			assert.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperr.CodeBadUserInput, appErr.Code)
			if assert.Len(t, appErr.Details, 1) {
				assert.Equal(t, tt.wantField, appErr.Details[0].Field)
				assert.Contains(t, appErr.Details[0].Message, tt.wantMsg)
			}

			// Запись не должна дойти до репозитория
			repo.AssertNotCalled(t, "CreateMeeting", mock.Anything, mock.Anything)
		})
	}
}

func TestMeetingService_Create_Success(t *testing.T) {
	repo := new(MeetingRepoMock)
	users := new(UserReaderMock)
	svc := meeting.New(repo, users)

	start, _ := time.Parse(time.RFC3339, "2026-09-01T10:00:00Z")
	end, _ := time.Parse(time.RFC3339, "2026-09-01T11:00:00Z")
	stored := &models.Meeting{
		ID:        meetingID,
		Title:     "Weekly sync",
		StartTime: start,
		EndTime:   end,
		CreatedBy: ownerUID,
		Attendees: []string{strangerUID},
	}

	repo.On("CreateMeeting", mock.Anything, mock.MatchedBy(func(mt models.Meeting) bool {
		return mt.Title == "Weekly sync" &&
			mt.CreatedBy == ownerUID &&
			mt.StartTime.Equal(start) &&
			mt.EndTime.Equal(end) &&
			mt.Attendees != nil
	})).Return(meetingID, nil).Once()
	repo.On("GetMeeting", mock.Anything, meetingID).Return(stored, nil).Once()
	users.On("GetUsersByUIDs", mock.Anything, mock.Anything).Return([]*models.User{
		{UID: ownerUID, Name: "Owner"},
		{UID: strangerUID, Name: "Guest"},
	}, nil).Once()

	req := validMeetingRequest()
	req.AttendeeIDs = []string{strangerUID}

	got, err := svc.Create(context.Background(), ownerUID, req)
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, meetingID, got.Meeting.ID)
	assert.Equal(t, "Owner", got.Creator.Name)
	if assert.Len(t, got.AttendeeUsers, 1) {
		assert.Equal(t, "Guest", got.AttendeeUsers[0].Name)
	}

	repo.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestMeetingService_Update_Ownership(t *testing.T) {
	start, _ := time.Parse(time.RFC3339, "2026-09-01T10:00:00Z")
	end, _ := time.Parse(time.RFC3339, "2026-09-01T11:00:00Z")
	existing := &models.Meeting{
		ID:        meetingID,
		Title:     "Weekly sync",
		StartTime: start,
		EndTime:   end,
		CreatedBy: ownerUID,
	}

	tests := []struct {
		name       string
		callerUID  string
		setupMocks func(r *MeetingRepoMock)
		wantCode   string
	}{
		{
			name:      "not found",
			callerUID: ownerUID,
			setupMocks: func(r *MeetingRepoMock) {
				r.On("GetMeeting", mock.Anything, meetingID).Return(nil, nil).Once()
			},
			wantCode: apperr.CodeNotFound,
		},
		{
			name:      "foreign meeting is forbidden and untouched",
			callerUID: strangerUID,
			setupMocks: func(r *MeetingRepoMock) {
				r.On("GetMeeting", mock.Anything, meetingID).Return(existing, nil).Once()
			},
			wantCode: apperr.CodeForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MeetingRepoMock)
			users := new(UserReaderMock)
			svc := meeting.New(repo, users)

			tt.setupMocks(repo)

			got, err := svc.Update(context.Background(), tt.callerUID, meetingID, validMeetingRequest())
			assert.Nil(t, got)

			var appErr *apperr.Error
			assert.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)

			repo.AssertNotCalled(t, "UpdateMeeting", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			repo.AssertExpectations(t)
		})
	}
}

func TestMeetingService_Delete(t *testing.T) {
	start, _ := time.Parse(time.RFC3339, "2026-09-01T10:00:00Z")
	end, _ := time.Parse(time.RFC3339, "2026-09-01T11:00:00Z")
	existing := &models.Meeting{
		ID:        meetingID,
		StartTime: start,
		EndTime:   end,
		CreatedBy: ownerUID,
	}

	tests := []struct {
		name       string
		callerUID  string
		setupMocks func(r *MeetingRepoMock)
		want       bool
		wantErr    bool
		wantCode   string
	}{
		{
			name:      "missing meeting is idempotent success",
			callerUID: ownerUID,
			setupMocks: func(r *MeetingRepoMock) {
				r.On("GetMeeting", mock.Anything, meetingID).Return(nil, nil).Once()
			},
			want: false,
		},
		{
			name:      "foreign meeting is forbidden",
			callerUID: strangerUID,
			setupMocks: func(r *MeetingRepoMock) {
				r.On("GetMeeting", mock.Anything, meetingID).Return(existing, nil).Once()
			},
			wantErr:  true,
			wantCode: apperr.CodeForbidden,
		},
		{
			name:      "owner deletes own meeting",
			callerUID: ownerUID,
			setupMocks: func(r *MeetingRepoMock) {
				r.On("GetMeeting", mock.Anything, meetingID).Return(existing, nil).Once()
				r.On("RemoveMeeting", mock.Anything, meetingID, ownerUID).Return(1, nil).Once()
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MeetingRepoMock)
			users := new(UserReaderMock)
			svc := meeting.New(repo, users)

			tt.setupMocks(repo)

			got, err := svc.Delete(context.Background(), tt.callerUID, meetingID)
			if tt.wantErr {
				var appErr *apperr.Error
				assert.ErrorAs(t, err, &appErr)
				assert.Equal(t, tt.wantCode, appErr.Code)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)

			repo.AssertExpectations(t)
		})
	}
}

func TestMeetingService_List_RoleBased(t *testing.T) {
	start, _ := time.Parse(time.RFC3339, "2026-09-01T10:00:00Z")
	end, _ := time.Parse(time.RFC3339, "2026-09-01T11:00:00Z")
	meetings := []*models.Meeting{
		{ID: meetingID, StartTime: start, EndTime: end, CreatedBy: ownerUID},
	}

	tests := []struct {
		name       string
		role       string
		setupMocks func(r *MeetingRepoMock)
	}{
		{
			name: "admin sees all meetings",
			role: "admin",
			setupMocks: func(r *MeetingRepoMock) {
				r.On("ListAllMeetings", mock.Anything).Return(meetings, nil).Once()
			},
		},
		{
			name: "regular user sees own and attended meetings",
			role: "user",
			setupMocks: func(r *MeetingRepoMock) {
				r.On("ListMeetingsForUser", mock.Anything, ownerUID).Return(meetings, nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MeetingRepoMock)
			users := new(UserReaderMock)
			svc := meeting.New(repo, users)

			tt.setupMocks(repo)
			users.On("GetUsersByUIDs", mock.Anything, mock.Anything).
				Return([]*models.User{{UID: ownerUID, Name: "Owner"}}, nil).Once()

			got, err := svc.List(context.Background(), ownerUID, tt.role)
			assert.NoError(t, err)
			if assert.Len(t, got, 1) {
				assert.Equal(t, "Owner", got[0].Creator.Name)
			}

			repo.AssertExpectations(t)
			users.AssertExpectations(t)
		})
	}
}
