package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/worklog-ledger/internal/models"
)

// SaveProfile создаёт или полностью перезаписывает профиль пользователя.
// Все три поля сохраняются одним запросом, частичных обновлений нет.
func (s *Storage) SaveProfile(ctx context.Context, profile models.UserProfile) error {
	const op = "storage.SaveProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO profiles (username, name, default_hourly_rate_cents,
			      default_transport_allowance_cents)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (username) DO UPDATE
			  SET name = EXCLUDED.name,
			      default_hourly_rate_cents = EXCLUDED.default_hourly_rate_cents,
			      default_transport_allowance_cents = EXCLUDED.default_transport_allowance_cents`
	if _, err := s.DB.ExecContext(ctx, query,
		profile.Username, profile.Name, profile.DefaultHourlyRateCents,
		profile.DefaultTransportAllowanceCents); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetProfile возвращает профиль пользователя или ErrProfileNotFound,
// если профиль ещё не создан. Отсутствие профиля — обычное состояние
// до первичной настройки, значения по умолчанию не подставляются.
func (s *Storage) GetProfile(ctx context.Context, username string) (*models.UserProfile, error) {
	const op = "storage.GetProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT username, name, default_hourly_rate_cents,
			      default_transport_allowance_cents
			  FROM profiles
			  WHERE username = $1`
	p := &models.UserProfile{}
	row := s.DB.QueryRowContext(ctx, query, username)
	if err := row.Scan(&p.Username, &p.Name, &p.DefaultHourlyRateCents,
		&p.DefaultTransportAllowanceCents); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrProfileNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}
