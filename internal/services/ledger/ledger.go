// Package ledger содержит основную бизнес-логику учёта рабочих месяцев:
// создание и частичное обновление записей, платежи и контроль остатка.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/worklog-ledger/internal/lib/sl"
	"github.com/magabrotheeeer/worklog-ledger/internal/lib/workmonth"
	"github.com/magabrotheeeer/worklog-ledger/internal/models"
)

// Ошибки валидации входных данных.
var (
	ErrInvalidHours       = errors.New("worked hours must not be negative")
	ErrInvalidRate        = errors.New("hourly rate must not be negative")
	ErrInvalidAllowance   = errors.New("transport allowance must not be negative")
	ErrInvalidAmount      = errors.New("payment amount must be positive")
	ErrInvalidPaymentType = errors.New("unknown payment type")
)

// LedgerRepository описывает операции хранилища над записями и платежами.
type LedgerRepository interface {
	UpsertRecord(ctx context.Context, username string, month, year int, workedHours int64, rateCents, allowanceCents *int64) (*models.MonthlyRecord, error)
	ReadRecord(ctx context.Context, username string, month, year int) (*models.MonthlyRecord, error)
	ListRecords(ctx context.Context, username string) ([]*models.MonthlyRecord, error)
	DeleteRecordIfSettled(ctx context.Context, username string, month, year int) error
	AddPayment(ctx context.Context, username string, month, year int, amountCents int64, paymentType string) (*models.Payment, int64, error)
	DeletePayment(ctx context.Context, username string, month, year int, paidAt int64) error
	ListPayments(ctx context.Context, username string, month, year int) ([]models.Payment, error)
	HasPayments(ctx context.Context, username string, month, year int) (bool, error)
}

// UserReader отдаёт данные пользователя для уведомлений.
type UserReader interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// EventPublisher публикует события о платежах во внешнюю шину.
type EventPublisher interface {
	PublishPaymentAdded(event models.PaymentEvent) error
}

// Service реализует бизнес-логику учёта рабочих месяцев.
type Service struct {
	repo      LedgerRepository
	users     UserReader
	cache     Cache
	publisher EventPublisher
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo LedgerRepository, users UserReader, cache Cache, publisher EventPublisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		cache:     cache,
		publisher: publisher,
		log:       log,
	}
}

func recordKey(username string, month, year int) string {
	return fmt.Sprintf("record:%s:%d-%d", username, year, month)
}

// UpsertRecord создаёт запись месяца или частично обновляет существующую.
// Поля rate и allowance со значением nil считаются "не переданы": при
// создании они берутся из профиля (или ноль), при обновлении сохраняют
// прежнее значение.
func (s *Service) UpsertRecord(ctx context.Context, username string, req models.DummyRecord) (*models.MonthlyRecord, error) {
	if err := workmonth.Validate(req.Month, req.Year); err != nil {
		return nil, err
	}
	if req.WorkedHours == nil || *req.WorkedHours < 0 {
		return nil, ErrInvalidHours
	}
	if req.HourlyRateCents != nil && *req.HourlyRateCents < 0 {
		return nil, ErrInvalidRate
	}
	if req.TransportAllowanceCents != nil && *req.TransportAllowanceCents < 0 {
		return nil, ErrInvalidAllowance
	}

	record, err := s.repo.UpsertRecord(ctx, username, req.Month, req.Year,
		*req.WorkedHours, req.HourlyRateCents, req.TransportAllowanceCents)
	if err != nil {
		return nil, err
	}
	s.log.Info("record upserted",
		slog.String("username", username),
		slog.String("month", workmonth.Label(req.Month, req.Year)))

	s.invalidate(username, req.Month, req.Year)
	return record, nil
}

// ReadRecord возвращает запись месяца вместе с платежами.
func (s *Service) ReadRecord(ctx context.Context, username string, month, year int) (*models.MonthlyRecord, error) {
	if err := workmonth.Validate(month, year); err != nil {
		return nil, err
	}

	var cached models.MonthlyRecord
	key := recordKey(username, month, year)
	found, err := s.cache.Get(key, &cached)
	if err != nil {
		return nil, err
	}
	if found {
		return &cached, nil
	}

	record, err := s.repo.ReadRecord(ctx, username, month, year)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(key, record, time.Hour); err != nil {
		s.log.Warn("failed to cache record", slog.String("key", key), sl.Err(err))
	}
	return record, nil
}

// ListRecords возвращает все записи пользователя.
func (s *Service) ListRecords(ctx context.Context, username string) ([]*models.MonthlyRecord, error) {
	return s.repo.ListRecords(ctx, username)
}

// DeleteRecord удаляет запись месяца вместе с её платежами.
// Удаление разрешено только при точном нулевом остатке,
// иначе возвращается repository.ErrUnsettledBalance.
func (s *Service) DeleteRecord(ctx context.Context, username string, month, year int) error {
	if err := workmonth.Validate(month, year); err != nil {
		return err
	}
	if err := s.repo.DeleteRecordIfSettled(ctx, username, month, year); err != nil {
		return err
	}
	s.log.Info("record deleted",
		slog.String("username", username),
		slog.String("month", workmonth.Label(month, year)))
	s.invalidate(username, month, year)
	return nil
}

// AddPayment регистрирует платёж по записи месяца и публикует событие
// для отправки уведомления. Ошибка публикации не откатывает платёж.
func (s *Service) AddPayment(ctx context.Context, username string, month, year int, req models.DummyPayment) (*models.Payment, error) {
	if err := workmonth.Validate(month, year); err != nil {
		return nil, err
	}
	if req.AmountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.PaymentType != models.PaymentTypeBank && req.PaymentType != models.PaymentTypeCash {
		return nil, ErrInvalidPaymentType
	}

	payment, remaining, err := s.repo.AddPayment(ctx, username, month, year, req.AmountCents, req.PaymentType)
	if err != nil {
		return nil, err
	}
	s.log.Info("payment added",
		slog.String("username", username),
		slog.String("month", workmonth.Label(month, year)),
		slog.Int64("amount_cents", req.AmountCents))

	s.invalidate(username, month, year)
	s.publishPaymentAdded(ctx, username, month, year, req.AmountCents, remaining)
	return payment, nil
}

// DeletePayment удаляет платёж по его метке времени.
func (s *Service) DeletePayment(ctx context.Context, username string, month, year int, paidAt int64) error {
	if err := workmonth.Validate(month, year); err != nil {
		return err
	}
	if err := s.repo.DeletePayment(ctx, username, month, year, paidAt); err != nil {
		return err
	}
	s.log.Info("payment deleted",
		slog.String("username", username),
		slog.String("month", workmonth.Label(month, year)),
		slog.Int64("paid_at", paidAt))
	s.invalidate(username, month, year)
	return nil
}

// ListPayments возвращает платежи записи месяца в порядке их совершения.
func (s *Service) ListPayments(ctx context.Context, username string, month, year int) ([]models.Payment, error) {
	if err := workmonth.Validate(month, year); err != nil {
		return nil, err
	}
	return s.repo.ListPayments(ctx, username, month, year)
}

// HasPayments сообщает, есть ли у записи месяца хотя бы один платёж.
// Для отсутствующей записи возвращает false без ошибки.
func (s *Service) HasPayments(ctx context.Context, username string, month, year int) (bool, error) {
	if err := workmonth.Validate(month, year); err != nil {
		return false, err
	}
	return s.repo.HasPayments(ctx, username, month, year)
}

func (s *Service) invalidate(username string, month, year int) {
	key := recordKey(username, month, year)
	if err := s.cache.Invalidate(key); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", key), sl.Err(err))
	}
}

func (s *Service) publishPaymentAdded(ctx context.Context, username string, month, year int, amountCents, remainingCents int64) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		s.log.Warn("failed to load user for payment event", sl.Err(err))
		return
	}
	event := models.PaymentEvent{
		Email:          user.Email,
		Username:       username,
		Month:          month,
		Year:           year,
		AmountCents:    amountCents,
		RemainingCents: remainingCents,
	}
	if err := s.publisher.PublishPaymentAdded(event); err != nil {
		s.log.Warn("failed to publish payment event", sl.Err(err))
	}
}
