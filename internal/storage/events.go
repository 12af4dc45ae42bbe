package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/planora/planora-api/internal/models"
)

const eventColumns = `id, title, description, date, price, created_by, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*models.Event, error) {
	e := &models.Event{}
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Price,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return e, nil
}

// CreateEvent вставляет новое событие и возвращает его ID.
func (s *Storage) CreateEvent(ctx context.Context, event models.Event) (string, error) {
	const op = "storage.CreateEvent"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO events (title, description, date, price, created_by)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	err := s.DB.QueryRowContext(ctx, query,
		event.Title, event.Description, event.Date, event.Price, event.CreatedBy).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetEvent возвращает событие по ID, (nil, nil) если его нет.
func (s *Storage) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	const op = "storage.GetEvent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + eventColumns + `
			  FROM events
			  WHERE id = $1`
	e, err := scanEvent(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// UpdateEvent обновляет событие и возвращает количество изменённых строк.
// Условие по created_by повторно проверяет владение на уровне запроса.
func (s *Storage) UpdateEvent(ctx context.Context, event models.Event, id, callerUID string) (int, error) {
	const op = "storage.UpdateEvent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE events
			  SET title = $1, description = $2, date = $3, price = $4, updated_at = NOW()
			  WHERE id = $5 AND created_by = $6`
	result, err := s.DB.ExecContext(ctx, query,
		event.Title, event.Description, event.Date, event.Price, id, callerUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveEvent удаляет событие и возвращает количество удалённых строк.
// Условие по created_by повторно проверяет владение на уровне запроса.
func (s *Storage) RemoveEvent(ctx context.Context, id, callerUID string) (int, error) {
	const op = "storage.RemoveEvent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM events WHERE id = $1 AND created_by = $2`
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

// ListEvents возвращает события по фильтру. Запрос собирается только
// из заданных полей фильтра; границы дат включительные.
func (s *Storage) ListEvents(ctx context.Context, filter models.EventFilter) ([]*models.Event, error) {
	const op = "storage.ListEvents"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + eventColumns + `
			  FROM events
			  WHERE 1=1`
	args := []any{}
	argN := 1

	if filter.CreatedBy != nil {
		query += fmt.Sprintf(" AND created_by = $%d", argN)
		args = append(args, *filter.CreatedBy)
		argN++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND date >= $%d", argN)
		args = append(args, *filter.From)
		argN++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND date <= $%d", argN)
		args = append(args, *filter.To)
		argN++
	}
	query += " ORDER BY date"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetEventsByIDs возвращает события по списку идентификаторов.
// Отсутствующие идентификаторы молча пропускаются.
func (s *Storage) GetEventsByIDs(ctx context.Context, ids []string) ([]*models.Event, error) {
	const op = "storage.GetEventsByIDs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if len(ids) == 0 {
		return []*models.Event{}, nil
	}

	query := `SELECT ` + eventColumns + `
			  FROM events
			  WHERE id = ANY($1::uuid[])
			  ORDER BY date`
	rows, err := s.DB.QueryContext(ctx, query, encodeUUIDArray(ids))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
