// Package query содержит read-only операции над учётом: сводки
// по месяцам с вычисленными суммами. Сводки всегда считаются из
// актуального состояния записей и не кешируются.
package query

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/worklog-ledger/internal/lib/workmonth"
	"github.com/magabrotheeeer/worklog-ledger/internal/models"
)

// RecordReader описывает чтение записей из хранилища.
type RecordReader interface {
	ReadRecord(ctx context.Context, username string, month, year int) (*models.MonthlyRecord, error)
	ListRecords(ctx context.Context, username string) ([]*models.MonthlyRecord, error)
}

// Service реализует вычисление сводок по записям месяцев.
type Service struct {
	records RecordReader
	log     *slog.Logger
}

// New создает новый экземпляр Service.
func New(records RecordReader, log *slog.Logger) *Service {
	return &Service{records: records, log: log}
}

// Summary возвращает сводку одного месяца: начислено, выплачено, остаток.
func (s *Service) Summary(ctx context.Context, username string, month, year int) (*models.MonthSummary, error) {
	if err := workmonth.Validate(month, year); err != nil {
		return nil, err
	}
	record, err := s.records.ReadRecord(ctx, username, month, year)
	if err != nil {
		return nil, err
	}
	summary := summarize(record)
	return &summary, nil
}

// Summaries возвращает сводки по всем записям пользователя.
func (s *Service) Summaries(ctx context.Context, username string) ([]models.MonthSummary, error) {
	records, err := s.records.ListRecords(ctx, username)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.MonthSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, summarize(record))
	}
	return summaries, nil
}

func summarize(record *models.MonthlyRecord) models.MonthSummary {
	return models.MonthSummary{
		Month:          record.Month,
		Year:           record.Year,
		TotalDueCents:  record.TotalDueCents(),
		TotalPaidCents: record.TotalPaidCents(),
		RemainingCents: record.RemainingCents(),
	}
}
