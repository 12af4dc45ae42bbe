package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/planora/planora-api/internal/models"
)

const meetingColumns = `id, title, description, start_time, end_time,
			  array_to_string(attendees, ','), created_by, created_at, updated_at`

func scanMeeting(row interface{ Scan(...any) error }) (*models.Meeting, error) {
	m := &models.Meeting{}
	var attendees string
	if err := row.Scan(&m.ID, &m.Title, &m.Description, &m.StartTime, &m.EndTime,
		&attendees, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.Attendees = splitUUIDArray(attendees)
	return m, nil
}

// CreateMeeting вставляет новую встречу и возвращает её ID.
func (s *Storage) CreateMeeting(ctx context.Context, meeting models.Meeting) (string, error) {
	const op = "storage.CreateMeeting"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO meetings (title, description, start_time, end_time, attendees, created_by)
			  VALUES ($1, $2, $3, $4, $5::uuid[], $6)
			  RETURNING id`
	err := s.DB.QueryRowContext(ctx, query,
		meeting.Title, meeting.Description, meeting.StartTime, meeting.EndTime,
		encodeUUIDArray(meeting.Attendees), meeting.CreatedBy).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetMeeting возвращает встречу по ID, (nil, nil) если её нет.
func (s *Storage) GetMeeting(ctx context.Context, id string) (*models.Meeting, error) {
	const op = "storage.GetMeeting"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + meetingColumns + `
			  FROM meetings
			  WHERE id = $1`
	m, err := scanMeeting(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// UpdateMeeting обновляет встречу и возвращает количество изменённых строк.
// Условие по created_by повторно проверяет владение на уровне запроса.
func (s *Storage) UpdateMeeting(ctx context.Context, meeting models.Meeting, id, callerUID string) (int, error) {
	const op = "storage.UpdateMeeting"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE meetings
			  SET title = $1, description = $2, start_time = $3, end_time = $4,
			      attendees = $5::uuid[], updated_at = NOW()
			  WHERE id = $6 AND created_by = $7`
	result, err := s.DB.ExecContext(ctx, query,
		meeting.Title, meeting.Description, meeting.StartTime, meeting.EndTime,
		encodeUUIDArray(meeting.Attendees), id, callerUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveMeeting удаляет встречу и возвращает количество удалённых строк.
// Условие по created_by повторно проверяет владение на уровне запроса.
func (s *Storage) RemoveMeeting(ctx context.Context, id, callerUID string) (int, error) {
	const op = "storage.RemoveMeeting"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM meetings WHERE id = $1 AND created_by = $2`
	result, err := s.DB.ExecContext(ctx, query, id, callerUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListMeetingsForUser возвращает встречи, где пользователь создатель
// или участник, отсортированные по началу.
func (s *Storage) ListMeetingsForUser(ctx context.Context, userUID string) ([]*models.Meeting, error) {
	const op = "storage.ListMeetingsForUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + meetingColumns + `
			  FROM meetings
			  WHERE created_by = $1 OR $1::uuid = ANY(attendees)
			  ORDER BY start_time`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllMeetings возвращает все встречи, отсортированные по началу.
func (s *Storage) ListAllMeetings(ctx context.Context) ([]*models.Meeting, error) {
	const op = "storage.ListAllMeetings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + meetingColumns + `
			  FROM meetings
			  ORDER BY start_time`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
