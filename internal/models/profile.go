// Package models содержит модель профиля пользователя с настройками
// по умолчанию для создания новых месячных записей.
package models

// UserProfile хранит имя и значения по умолчанию для ставки и надбавки.
// Отсутствие профиля — допустимое состояние: оно означает, что пользователь
// ещё не прошёл настройку, и никогда не подменяется нулевыми значениями.
type UserProfile struct {
	Username                       string // Владелец профиля
	Name                           string // Отображаемое имя
	DefaultHourlyRateCents         int64  // Ставка по умолчанию в центах
	DefaultTransportAllowanceCents int64  // Надбавка по умолчанию в центах
}

// DummyProfile используется для приёма данных профиля из JSON-запроса.
// Все три поля сохраняются атомарно, отрицательные суммы отклоняются.
type DummyProfile struct {
	Name                           string `json:"name" validate:"required"`                        // Отображаемое имя
	DefaultHourlyRateCents         int64  `json:"default_hourly_rate_cents" validate:"min=0"`      // Ставка по умолчанию
	DefaultTransportAllowanceCents int64  `json:"default_transport_allowance_cents" validate:"min=0"` // Надбавка по умолчанию
}
