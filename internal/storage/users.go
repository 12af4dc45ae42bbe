package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/planora/planora-api/internal/models"
)

// CreateUser сохраняет нового пользователя и возвращает его UID.
// Нарушение уникальности почты возвращается как есть, с сохранением
// ошибки драйвера для разбора SQLSTATE выше по стеку.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (email, name, password_hash, role)
			  VALUES ($1, $2, $3, $4)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Name, user.PasswordHash, user.Role).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

const userColumns = `uid, email, name, password_hash, role,
			  image_url, image_thumb, image_small, image_medium,
			  address, date_of_birth,
			  array_to_string(created_events, ','),
			  created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var imageURL, imageThumb, imageSmall, imageMedium, address sql.NullString
	var dateOfBirth sql.NullTime
	var createdEvents string

	if err := row.Scan(&u.UID, &u.Email, &u.Name, &u.PasswordHash, &u.Role,
		&imageURL, &imageThumb, &imageSmall, &imageMedium,
		&address, &dateOfBirth, &createdEvents,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}

	if imageURL.Valid {
		u.ImageURL = &imageURL.String
	}
	if imageThumb.Valid {
		u.ImageThumb = &imageThumb.String
	}
	if imageSmall.Valid {
		u.ImageSmall = &imageSmall.String
	}
	if imageMedium.Valid {
		u.ImageMedium = &imageMedium.String
	}
	if address.Valid {
		u.Address = &address.String
	}
	if dateOfBirth.Valid {
		u.DateOfBirth = &dateOfBirth.Time
	}
	u.CreatedEvents = splitUUIDArray(createdEvents)
	return u, nil
}

// GetUserByEmail возвращает пользователя по почте без учёта регистра.
// Возвращает (nil, nil), если пользователь не найден.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE LOWER(email) = LOWER($1)`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
// Возвращает (nil, nil), если пользователь не найден.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListUsers возвращает всех пользователей, отсортированных по дате создания.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetUsersByUIDs возвращает пользователей по списку идентификаторов.
// Отсутствующие идентификаторы молча пропускаются.
func (s *Storage) GetUsersByUIDs(ctx context.Context, uids []string) ([]*models.User, error) {
	const op = "storage.GetUsersByUIDs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if len(uids) == 0 {
		return []*models.User{}, nil
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = ANY($1::uuid[])`
	rows, err := s.DB.QueryContext(ctx, query, encodeUUIDArray(uids))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateUser применяет частичное обновление профиля и возвращает
// количество изменённых строк. Nil-поля в запрос не попадают.
func (s *Storage) UpdateUser(ctx context.Context, userUID string, upd models.UserUpdate) (int, error) {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	argN := 1

	addSet := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argN))
		args = append(args, value)
		argN++
	}

	if upd.Name != nil {
		addSet("name", *upd.Name)
	}
	if upd.ImageURL != nil {
		addSet("image_url", *upd.ImageURL)
	}
	if upd.ImageThumb != nil {
		addSet("image_thumb", *upd.ImageThumb)
	}
	if upd.ImageSmall != nil {
		addSet("image_small", *upd.ImageSmall)
	}
	if upd.ImageMedium != nil {
		addSet("image_medium", *upd.ImageMedium)
	}
	if upd.Address != nil {
		addSet("address", *upd.Address)
	}
	if upd.DateOfBirth != nil {
		addSet("date_of_birth", *upd.DateOfBirth)
	}

	query := fmt.Sprintf(`UPDATE users SET %s WHERE uid = $%d`,
		strings.Join(setClauses, ", "), argN)
	args = append(args, userUID)

	result, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// AppendCreatedEvent добавляет идентификатор события в обратный
// список создателя, если его там ещё нет.
func (s *Storage) AppendCreatedEvent(ctx context.Context, userUID, eventID string) error {
	const op = "storage.AppendCreatedEvent"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET created_events = array_append(created_events, $1::uuid),
			      updated_at = NOW()
			  WHERE uid = $2
			    AND NOT ($1::uuid = ANY(created_events))`
	_, err := s.DB.ExecContext(ctx, query, eventID, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveCreatedEvent убирает идентификатор события из обратного
// списка создателя.
func (s *Storage) RemoveCreatedEvent(ctx context.Context, userUID, eventID string) error {
	const op = "storage.RemoveCreatedEvent"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET created_events = array_remove(created_events, $1::uuid),
			      updated_at = NOW()
			  WHERE uid = $2`
	_, err := s.DB.ExecContext(ctx, query, eventID, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
