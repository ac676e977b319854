// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и роль.
// Структура используется в бизнес-логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей. Неизвестный системе вызывающий считается гостем.
const (
	RoleAdmin = "admin" // Полный доступ, включая чужие профили и назначение ролей
	RoleUser  = "user"  // Доступ к собственным записям и профилю
	RoleGuest = "guest" // Только чтение собственной роли
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта
	Username     string    // Имя пользователя (уникальное), ключ владения данными
	PasswordHash string    // Хэш пароля пользователя
	Role         string    // Роль пользователя: admin, user или guest
	CreatedAt    time.Time // Дата регистрации
}

// ValidRole сообщает, является ли строка известной ролью.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleUser, RoleGuest:
		return true
	}
	return false
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Email    string `json:"email" validate:"required,email"`        // Электронная почта
	Username string `json:"username" validate:"required,alphanum"`  // Имя пользователя
	Password string `json:"password" validate:"required,min=8"`     // Пароль
}

// DummyLogin используется для приёма данных входа из JSON-запроса.
type DummyLogin struct {
	Username string `json:"username" validate:"required,alphanum"` // Имя пользователя
	Password string `json:"password" validate:"required"`          // Пароль
}

// DummyAssignRole используется для приёма запроса назначения роли.
type DummyAssignRole struct {
	Username string `json:"username" validate:"required,alphanum"`           // Кому назначается роль
	Role     string `json:"role" validate:"required,oneof=admin user guest"` // Новая роль
}
