// Package repository реализует хранилище данных на основе PostgreSQL
// для ведения месячных записей учёта работы, платежей по ним,
// профилей и ролей пользователей. Все изменяющие операции над записью
// выполняются в транзакции с блокировкой строки записи, что исключает
// чередование платежа и удаления по одному ключу (identity, month, year).
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки хранилища, различимые вызывающим кодом через errors.Is.
var (
	// ErrUserNotFound возвращается, когда пользователь отсутствует.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists возвращается при конфликте уникальности имени или почты.
	ErrUserExists = errors.New("user already exists")
	// ErrProfileNotFound возвращается, когда профиль ещё не создан.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrRecordNotFound возвращается, когда месячная запись отсутствует.
	ErrRecordNotFound = errors.New("monthly record not found")
	// ErrPaymentNotFound возвращается, когда платёж с указанной датой отсутствует.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrUnsettledBalance возвращается при попытке удалить запись,
	// по которой сумма платежей не равна сумме к выплате.
	ErrUnsettledBalance = errors.New("record has unsettled balance")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с записями, платежами, профилями и пользователями.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
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
        WHERE table_name = 'records'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table records missing or query error: %w", err)
	}
	return nil
}
