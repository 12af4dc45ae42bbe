// Package meeting содержит логику бизнес-уровня для работы со встречами.
package meeting

import (
	"context"
	"strings"
	"time"

	"github.com/planora/planora-api/internal/apperr"
	"github.com/planora/planora-api/internal/models"
)

// Границы длительности встречи.
const (
	MinDuration = 5 * time.Minute
	MaxDuration = 8 * time.Hour
)

// MeetingRepository определяет методы для работы со встречами в хранилище.
type MeetingRepository interface {
	CreateMeeting(ctx context.Context, meeting models.Meeting) (string, error)
	GetMeeting(ctx context.Context, id string) (*models.Meeting, error)
	UpdateMeeting(ctx context.Context, meeting models.Meeting, id, callerUID string) (int, error)
	RemoveMeeting(ctx context.Context, id, callerUID string) (int, error)
	ListMeetingsForUser(ctx context.Context, userUID string) ([]*models.Meeting, error)
	ListAllMeetings(ctx context.Context) ([]*models.Meeting, error)
}

// UserReader читает пользователей для раскрытия создателя и участников.
type UserReader interface {
	GetUsersByUIDs(ctx context.Context, uids []string) ([]*models.User, error)
}

// Service реализует операции со встречами: проверку инвариантов
// времени, владение и раскрытие участников.
type Service struct {
	repo  MeetingRepository
	users UserReader
}

// New создает новый экземпляр Service.
func New(repo MeetingRepository, users UserReader) *Service {
	return &Service{
		repo:  repo,
		users: users,
	}
}

// buildMeeting разбирает и проверяет временные поля запроса.
// Начало строго раньше конца, длительность в пределах [5m, 8h].
func buildMeeting(req models.DummyMeeting) (*models.Meeting, *apperr.Error) {
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, apperr.Invalid("startTime", "must be a valid RFC3339 timestamp")
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, apperr.Invalid("endTime", "must be a valid RFC3339 timestamp")
	}
	if !start.Before(end) {
		return nil, apperr.Invalid("endTime", "must be after startTime")
	}
	duration := end.Sub(start)
	if duration < MinDuration || duration > MaxDuration {
		return nil, apperr.Invalid("endTime", "meeting must last between 5 minutes and 8 hours")
	}

	attendees := req.AttendeeIDs
	if attendees == nil {
		attendees = []string{}
	}
	return &models.Meeting{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		StartTime:   start,
		EndTime:     end,
		Attendees:   attendees,
	}, nil
}

// Create создает новую встречу от имени вызывающего пользователя.
func (s *Service) Create(ctx context.Context, callerUID string, req models.DummyMeeting) (*models.PopulatedMeeting, error) {
	meeting, appErr := buildMeeting(req)
	if appErr != nil {
		return nil, appErr
	}
	meeting.CreatedBy = callerUID

	id, err := s.repo.CreateMeeting(ctx, *meeting)
	if err != nil {
		return nil, err
	}
	return s.get(ctx, id)
}

// Update обновляет встречу. Менять встречу может только её создатель;
// чужая встреча даёт FORBIDDEN и остаётся нетронутой.
func (s *Service) Update(ctx context.Context, callerUID, id string, req models.DummyMeeting) (*models.PopulatedMeeting, error) {
	existing, err := s.repo.GetMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound("meeting not found")
	}
	if existing.CreatedBy != callerUID {
		return nil, apperr.Forbidden("you do not own this meeting")
	}

	meeting, appErr := buildMeeting(req)
	if appErr != nil {
		return nil, appErr
	}

	rows, err := s.repo.UpdateMeeting(ctx, *meeting, id, callerUID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, apperr.NotFound("meeting not found")
	}
	return s.get(ctx, id)
}

// Delete удаляет встречу. Отсутствующая встреча — идемпотентный успех
// с результатом false; чужая встреча даёт FORBIDDEN.
func (s *Service) Delete(ctx context.Context, callerUID, id string) (bool, error) {
	existing, err := s.repo.GetMeeting(ctx, id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}
	if existing.CreatedBy != callerUID {
		return false, apperr.Forbidden("you do not own this meeting")
	}

	rows, err := s.repo.RemoveMeeting(ctx, id, callerUID)
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// List возвращает встречи в зависимости от роли: администратор видит
// все, остальные — созданные ими или с их участием.
func (s *Service) List(ctx context.Context, callerUID, role string) ([]*models.PopulatedMeeting, error) {
	var meetings []*models.Meeting
	var err error
	if role == "admin" {
		meetings, err = s.repo.ListAllMeetings(ctx)
	} else {
		meetings, err = s.repo.ListMeetingsForUser(ctx, callerUID)
	}
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, meetings)
}

func (s *Service) get(ctx context.Context, id string) (*models.PopulatedMeeting, error) {
	meeting, err := s.repo.GetMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	if meeting == nil {
		return nil, apperr.NotFound("meeting not found")
	}
	populated, err := s.populate(ctx, []*models.Meeting{meeting})
	if err != nil {
		return nil, err
	}
	return populated[0], nil
}

// populate раскрывает создателей и участников одним запросом на весь список.
func (s *Service) populate(ctx context.Context, meetings []*models.Meeting) ([]*models.PopulatedMeeting, error) {
	uidSet := make(map[string]struct{})
	for _, m := range meetings {
		uidSet[m.CreatedBy] = struct{}{}
		for _, a := range m.Attendees {
			uidSet[a] = struct{}{}
		}
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

	result := make([]*models.PopulatedMeeting, 0, len(meetings))
	for _, m := range meetings {
		populated := &models.PopulatedMeeting{
			Meeting: m,
			Creator: byUID[m.CreatedBy],
		}
		for _, a := range m.Attendees {
			if u, ok := byUID[a]; ok {
				populated.AttendeeUsers = append(populated.AttendeeUsers, u)
			}
		}
		result = append(result, populated)
	}
	return result, nil
}
