// Package storage реализует хранилище данных на основе PostgreSQL
// для пользователей, встреч, событий и бронирований. Предоставляет
// методы создания, чтения, обновления и удаления записей; только
// этот пакет формирует SQL-запросы.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с доменными сущностями.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его пингом.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'users'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table users missing or query error: %w", err)
	}
	return nil
}

// encodeUUIDArray превращает срез идентификаторов в литерал uuid[]
// для передачи параметром с приведением ::uuid[].
func encodeUUIDArray(ids []string) string {
	return "{" + strings.Join(ids, ",") + "}"
}

// splitUUIDArray разбирает результат array_to_string(col, ',') обратно
// в срез идентификаторов. Пустая строка даёт пустой срез, не nil.
func splitUUIDArray(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return strings.Split(joined, ",")
}
