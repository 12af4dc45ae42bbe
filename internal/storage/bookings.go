package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/planora/planora-api/internal/models"
)

const bookingColumns = `id, event_id, user_uid, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	b := &models.Booking{}
	if err := row.Scan(&b.ID, &b.EventID, &b.UserUID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return b, nil
}

// CreateBooking вставляет новое бронирование и возвращает его ID.
// Нарушение уникальности пары (user_uid, event_id) возвращается как
// есть, с сохранением ошибки драйвера для разбора SQLSTATE.
func (s *Storage) CreateBooking(ctx context.Context, booking models.Booking) (string, error) {
	const op = "storage.CreateBooking"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO bookings (event_id, user_uid)
			  VALUES ($1, $2)
			  RETURNING id`
	err := s.DB.QueryRowContext(ctx, query, booking.EventID, booking.UserUID).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetBooking возвращает бронирование по ID, (nil, nil) если его нет.
func (s *Storage) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	const op = "storage.GetBooking"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + bookingColumns + `
			  FROM bookings
			  WHERE id = $1`
	b, err := scanBooking(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

// RemoveBooking удаляет бронирование и возвращает количество удалённых
// строк. Условие по user_uid повторно проверяет владение на уровне запроса.
func (s *Storage) RemoveBooking(ctx context.Context, id, callerUID string) (int, error) {
	const op = "storage.RemoveBooking"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM bookings WHERE id = $1 AND user_uid = $2`
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

// ListBookingsForUser возвращает бронирования пользователя.
func (s *Storage) ListBookingsForUser(ctx context.Context, userUID string) ([]*models.Booking, error) {
	const op = "storage.ListBookingsForUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + bookingColumns + `
			  FROM bookings
			  WHERE user_uid = $1
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllBookings возвращает все бронирования.
func (s *Storage) ListAllBookings(ctx context.Context) ([]*models.Booking, error) {
	const op = "storage.ListAllBookings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + bookingColumns + `
			  FROM bookings
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
