// Package workmonth содержит проверки ключа месячной записи (месяц, год).
// Один и тот же диапазон используется бизнес-логикой и HTTP-обработчиками,
// поэтому проверки вынесены в отдельный пакет.
package workmonth

import (
	"errors"
	"fmt"
)

// MinYear — нижняя граница года для месячных записей.
const MinYear = 2000

var (
	// ErrMonthOutOfRange возвращается для месяца вне диапазона 1..12.
	ErrMonthOutOfRange = errors.New("month must be between 1 and 12")
	// ErrYearOutOfRange возвращается для года меньше MinYear.
	ErrYearOutOfRange = errors.New("year must be 2000 or later")
)

// Validate проверяет, что пара (месяц, год) образует допустимый ключ записи.
func Validate(month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: %d", ErrMonthOutOfRange, month)
	}
	if year < MinYear {
		return fmt.Errorf("%w: %d", ErrYearOutOfRange, year)
	}
	return nil
}

// Label возвращает человекочитаемую метку месяца вида "03.2025".
// Используется в текстах уведомлений.
func Label(month, year int) string {
	return fmt.Sprintf("%02d.%d", month, year)
}
