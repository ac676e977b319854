package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/worklog-ledger/internal/models"
)

// AddPayment добавляет платёж к существующей месячной записи и возвращает
// сохранённый платёж вместе с остатком к выплате после него.
// Момент платежа проставляет хранилище; уникальность paid_at в пределах
// записи гарантируется сдвигом отметки за максимум уже сохранённых платежей,
// поскольку paid_at служит ключом последующего удаления.
func (s *Storage) AddPayment(ctx context.Context, username string, month, year int,
	amountCents int64, paymentType string) (*models.Payment, int64, error) {
	const op = "storage.AddPayment"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	recordID, err := lockRecord(ctx, tx, username, month, year)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	paidAt := time.Now().UnixNano()
	var maxPaidAt int64
	if err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(paid_at), 0) FROM payments WHERE record_id = $1`,
		recordID).Scan(&maxPaidAt); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	if paidAt <= maxPaidAt {
		paidAt = maxPaidAt + 1
	}

	payment := &models.Payment{
		UID:         uuid.New().String(),
		PaidAt:      paidAt,
		AmountCents: amountCents,
		PaymentType: paymentType,
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO payments (uid, record_id, paid_at, amount_cents, payment_type)
		 VALUES ($1, $2, $3, $4, $5)`,
		payment.UID, recordID, payment.PaidAt, payment.AmountCents,
		payment.PaymentType); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	var remainingCents int64
	if err = tx.QueryRowContext(ctx,
		`SELECT r.worked_hours * r.hourly_rate_cents + r.transport_allowance_cents
		     - COALESCE((SELECT SUM(amount_cents) FROM payments WHERE record_id = r.id), 0)
		 FROM records r
		 WHERE r.id = $1`,
		recordID).Scan(&remainingCents); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return payment, remainingCents, nil
}

// DeletePayment удаляет единственный платёж с точным совпадением paid_at.
// Сумма к выплате не меняется, меняется только остаток.
func (s *Storage) DeletePayment(ctx context.Context, username string, month, year int, paidAt int64) error {
	const op = "storage.DeletePayment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	recordID, err := lockRecord(ctx, tx, username, month, year)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM payments WHERE record_id = $1 AND paid_at = $2`,
		recordID, paidAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrPaymentNotFound)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListPayments возвращает платежи месячной записи в порядке добавления.
func (s *Storage) ListPayments(ctx context.Context, username string, month, year int) ([]models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	record, err := s.ReadRecord(ctx, username, month, year)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return record.Payments, nil
}

// HasPayments сообщает, есть ли по записи хотя бы один платёж.
// Возвращает false без ошибки, если записи нет или список платежей пуст.
func (s *Storage) HasPayments(ctx context.Context, username string, month, year int) (bool, error) {
	const op = "storage.HasPayments"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
		 SELECT 1 FROM payments p
		 JOIN records r ON r.id = p.record_id
		 WHERE r.username = $1 AND r.month = $2 AND r.year = $3)`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, username, month, year).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}
