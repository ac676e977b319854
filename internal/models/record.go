// Package models содержит доменные структуры месячного учёта работы:
// запись за месяц, платежи по ней и производные суммы,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

// Типы платежей, допустимые в системе.
const (
	PaymentTypeBank = "bank" // Банковский перевод
	PaymentTypeCash = "cash" // Наличные
)

// Payment представляет один платёж по месячной записи.
// Платежи только добавляются в конец списка или удаляются
// по точному совпадению PaidAt, никогда не изменяются на месте.
type Payment struct {
	UID         string // Уникальный идентификатор платежа (uuid)
	PaidAt      int64  // Момент платежа в наносекундах epoch, уникален в пределах записи
	AmountCents int64  // Сумма платежа в центах, строго больше нуля
	PaymentType string // Тип платежа: bank или cash
}

// MonthlyRecord представляет собой запись учёта работы за один месяц.
// Ключ записи — (Username, Month, Year). Сумма к выплате не хранится,
// а каждый раз вычисляется из часов, ставки и надбавки.
type MonthlyRecord struct {
	Username                string    // Владелец записи
	Month                   int       // Месяц, от 1 до 12
	Year                    int       // Год, не меньше 2000
	WorkedHours             int64     // Отработанные часы
	HourlyRateCents         int64     // Почасовая ставка в центах
	TransportAllowanceCents int64     // Транспортная надбавка в центах
	Payments                []Payment // Платежи в порядке добавления
}

// TotalDueCents возвращает сумму к выплате: часы × ставка + надбавка.
func (r *MonthlyRecord) TotalDueCents() int64 {
	return r.WorkedHours*r.HourlyRateCents + r.TransportAllowanceCents
}

// TotalPaidCents возвращает сумму всех платежей по записи.
func (r *MonthlyRecord) TotalPaidCents() int64 {
	var total int64
	for _, p := range r.Payments {
		total += p.AmountCents
	}
	return total
}

// RemainingCents возвращает остаток к выплате. Может быть отрицательным
// при переплате — удаление записи допустимо только при нулевом остатке.
func (r *MonthlyRecord) RemainingCents() int64 {
	return r.TotalDueCents() - r.TotalPaidCents()
}

// MonthSummary — проекция записи для обзорных экранов:
// ключ месяца и три производные суммы, вычисленные в момент чтения.
type MonthSummary struct {
	Month          int   `json:"month"`
	Year           int   `json:"year"`
	TotalDueCents  int64 `json:"total_due_cents"`
	TotalPaidCents int64 `json:"total_paid_cents"`
	RemainingCents int64 `json:"remaining_cents"`
}

// DummyRecord используется для приёма данных upsert-запроса из JSON.
// Ставка и надбавка — опциональные указатели: nil означает "не передано",
// что при создании подставляет значения из профиля, а при обновлении
// сохраняет прежние значения записи.
type DummyRecord struct {
	Month                   int    `json:"month" validate:"required,min=1,max=12"`          // Месяц записи
	Year                    int    `json:"year" validate:"required,min=2000"`               // Год записи
	WorkedHours             *int64 `json:"worked_hours" validate:"required,min=0"`          // Отработанные часы
	HourlyRateCents         *int64 `json:"hourly_rate_cents" validate:"omitempty,min=0"`    // Ставка (опционально)
	TransportAllowanceCents *int64 `json:"transport_allowance_cents" validate:"omitempty,min=0"` // Надбавка (опционально)
}

// DummyPayment используется для приёма данных платежа из JSON-запроса.
// Тип платежа выбирает клиент: по соглашению первый платёж
// предлагается банковским, последующие — наличными, но решение клиентское.
type DummyPayment struct {
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0"`           // Сумма в центах
	PaymentType string `json:"payment_type" validate:"required,oneof=bank cash"` // bank или cash
}

// PaymentEvent — сообщение о добавленном платеже для очереди уведомлений.
type PaymentEvent struct {
	Email          string `json:"email"`
	Username       string `json:"username"`
	Month          int    `json:"month"`
	Year           int    `json:"year"`
	AmountCents    int64  `json:"amount_cents"`
	RemainingCents int64  `json:"remaining_cents"`
}
