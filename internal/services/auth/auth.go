// Package auth содержит логику бизнес-уровня для регистрации и входа пользователей.
package auth

import (
	"context"
	"strings"

	"github.com/planora/planora-api/internal/apperr"
	"github.com/planora/planora-api/internal/lib/jwt"
	"github.com/planora/planora-api/internal/lib/password"
	"github.com/planora/planora-api/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUser возвращает пользователя по UID, (nil, nil) если не найден.
	GetUser(ctx context.Context, userUID string) (*models.User, error)

	// GetUserByEmail возвращает пользователя по почте без учёта регистра,
	// (nil, nil) если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service отвечает за регистрацию и авторизацию.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
	hashCost int
}

// New создает новый экземпляр Service.
func New(users UserRepository, jwtMaker jwt.Maker, hashCost int) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
		hashCost: hashCost,
	}
}

// Register создает нового пользователя с хэшированием пароля и дефолтной
// ролью "user". Почта нормализуется к нижнему регистру; занятая почта
// даёт конфликт.
func (s *Service) Register(ctx context.Context, req models.DummyRegister) (*models.User, error) {
	hashed, err := password.GetHash(req.Password, s.hashCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hashed,
		Role:         "user", // дефолтная роль при регистрации
	}
	uid, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if apperr.IsUniqueViolation(err) {
			return nil, apperr.Conflict("email is already registered")
		}
		return nil, err
	}
	return s.users.GetUser(ctx, uid)
}

// Login проверяет пароль пользователя и генерирует JWT. Неизвестная
// почта и неверный пароль дают один и тот же ответ.
func (s *Service) Login(ctx context.Context, req models.DummyLogin) (string, *models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, apperr.InvalidCredentials()
	}
	if err := password.CompareHash(user.PasswordHash, req.Password); err != nil {
		return "", nil, apperr.InvalidCredentials()
	}
	token, err := s.jwtMaker.GenerateToken(user.UID, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
