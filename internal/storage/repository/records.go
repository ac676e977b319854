package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/worklog-ledger/internal/models"
)

// lockRecord находит запись по ключу (username, month, year) и блокирует
// её строку до конца транзакции. Возвращает id записи или ErrRecordNotFound.
func lockRecord(ctx context.Context, tx *sql.Tx, username string, month, year int) (int64, error) {
	var recordID int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM records
		 WHERE username = $1 AND month = $2 AND year = $3
		 FOR UPDATE`,
		username, month, year).Scan(&recordID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrRecordNotFound
	}
	if err != nil {
		return 0, err
	}
	return recordID, nil
}

// UpsertRecord создаёт или обновляет месячную запись пользователя
// с merge-patch семантикой для ставки и надбавки: nil означает «не передано».
// При создании nil-поля берутся из профиля пользователя, а при его
// отсутствии — нули. При обновлении nil-поля сохраняют прежние значения
// записи и не сбрасываются к значениям профиля. Возвращает итоговое
// состояние записи, прочитанное в той же транзакции.
func (s *Storage) UpsertRecord(ctx context.Context, username string, month, year int,
	workedHours int64, rateCents, allowanceCents *int64) (*models.MonthlyRecord, error) {
	const op = "storage.UpsertRecord"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	recordID, err := lockRecord(ctx, tx, username, month, year)
	switch {
	case errors.Is(err, ErrRecordNotFound):
		var newRate, newAllowance int64
		if rateCents == nil || allowanceCents == nil {
			var profileRate, profileAllowance sql.NullInt64
			err = tx.QueryRowContext(ctx,
				`SELECT default_hourly_rate_cents, default_transport_allowance_cents
				 FROM profiles WHERE username = $1`,
				username).Scan(&profileRate, &profileAllowance)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			newRate = profileRate.Int64
			newAllowance = profileAllowance.Int64
		}
		if rateCents != nil {
			newRate = *rateCents
		}
		if allowanceCents != nil {
			newAllowance = *allowanceCents
		}
		if err = tx.QueryRowContext(ctx,
			`INSERT INTO records (username, month, year, worked_hours,
			     hourly_rate_cents, transport_allowance_cents)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			username, month, year, workedHours, newRate, newAllowance).Scan(&recordID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	default:
		if _, err = tx.ExecContext(ctx,
			`UPDATE records
			 SET worked_hours = $1,
			     hourly_rate_cents = COALESCE($2, hourly_rate_cents),
			     transport_allowance_cents = COALESCE($3, transport_allowance_cents)
			 WHERE id = $4`,
			workedHours, rateCents, allowanceCents, recordID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	record := &models.MonthlyRecord{}
	if err = tx.QueryRowContext(ctx,
		`SELECT username, month, year, worked_hours, hourly_rate_cents,
		     transport_allowance_cents
		 FROM records
		 WHERE id = $1`,
		recordID).Scan(&record.Username, &record.Month, &record.Year,
		&record.WorkedHours, &record.HourlyRateCents,
		&record.TransportAllowanceCents); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT uid, paid_at, amount_cents, payment_type
		 FROM payments
		 WHERE record_id = $1
		 ORDER BY paid_at`,
		recordID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var p models.Payment
		if err = rows.Scan(&p.UID, &p.PaidAt, &p.AmountCents, &p.PaymentType); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		record.Payments = append(record.Payments, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	_ = rows.Close()

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return record, nil
}

// ReadRecord возвращает месячную запись пользователя вместе с платежами
// в порядке их добавления или ErrRecordNotFound.
func (s *Storage) ReadRecord(ctx context.Context, username string, month, year int) (*models.MonthlyRecord, error) {
	const op = "storage.ReadRecord"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var recordID int64
	record := &models.MonthlyRecord{}
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, username, month, year, worked_hours, hourly_rate_cents,
		     transport_allowance_cents
		 FROM records
		 WHERE username = $1 AND month = $2 AND year = $3`,
		username, month, year).Scan(&recordID, &record.Username, &record.Month,
		&record.Year, &record.WorkedHours, &record.HourlyRateCents,
		&record.TransportAllowanceCents)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT uid, paid_at, amount_cents, payment_type
		 FROM payments
		 WHERE record_id = $1
		 ORDER BY paid_at`,
		recordID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var p models.Payment
		if err = rows.Scan(&p.UID, &p.PaidAt, &p.AmountCents, &p.PaymentType); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		record.Payments = append(record.Payments, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return record, nil
}

// ListRecords возвращает все месячные записи пользователя с платежами.
// Порядок записей хранилищем не гарантируется.
func (s *Storage) ListRecords(ctx context.Context, username string) ([]*models.MonthlyRecord, error) {
	const op = "storage.ListRecords"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT r.id, r.username, r.month, r.year, r.worked_hours,
		     r.hourly_rate_cents, r.transport_allowance_cents,
		     p.uid, p.paid_at, p.amount_cents, p.payment_type
		 FROM records r
		 LEFT JOIN payments p ON p.record_id = r.id
		 WHERE r.username = $1
		 ORDER BY r.id, p.paid_at`,
		username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.MonthlyRecord
	byID := make(map[int64]*models.MonthlyRecord)
	for rows.Next() {
		var recordID int64
		var item models.MonthlyRecord
		var paymentUID, paymentType sql.NullString
		var paidAt, amountCents sql.NullInt64
		if err = rows.Scan(&recordID, &item.Username, &item.Month, &item.Year,
			&item.WorkedHours, &item.HourlyRateCents, &item.TransportAllowanceCents,
			&paymentUID, &paidAt, &amountCents, &paymentType); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		record, ok := byID[recordID]
		if !ok {
			record = &item
			byID[recordID] = record
			result = append(result, record)
		}
		if paymentUID.Valid {
			record.Payments = append(record.Payments, models.Payment{
				UID:         paymentUID.String,
				PaidAt:      paidAt.Int64,
				AmountCents: amountCents.Int64,
				PaymentType: paymentType.String,
			})
		}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteRecordIfSettled удаляет месячную запись вместе с платежами,
// но только если сумма платежей в точности равна сумме к выплате.
// Переплата тоже считается неурегулированным состоянием: остаток
// должен быть ровно нулевым. Проверка и удаление идут в одной
// транзакции под блокировкой строки записи.
func (s *Storage) DeleteRecordIfSettled(ctx context.Context, username string, month, year int) error {
	const op = "storage.DeleteRecordIfSettled"
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

	var dueCents, paidCents int64
	if err = tx.QueryRowContext(ctx,
		`SELECT r.worked_hours * r.hourly_rate_cents + r.transport_allowance_cents,
		     COALESCE((SELECT SUM(amount_cents) FROM payments WHERE record_id = r.id), 0)
		 FROM records r
		 WHERE r.id = $1`,
		recordID).Scan(&dueCents, &paidCents); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if dueCents != paidCents {
		return fmt.Errorf("%s: %w", op, ErrUnsettledBalance)
	}

	// Платежи удаляются каскадом по внешнему ключу.
	if _, err = tx.ExecContext(ctx, `DELETE FROM records WHERE id = $1`, recordID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
