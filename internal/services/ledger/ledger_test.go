package ledger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/worklog-ledger/internal/lib/workmonth"
	"github.com/magabrotheeeer/worklog-ledger/internal/models"
	"github.com/magabrotheeeer/worklog-ledger/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) UpsertRecord(ctx context.Context, username string, month, year int, workedHours int64, rateCents, allowanceCents *int64) (*models.MonthlyRecord, error) {
	args := m.Called(ctx, username, month, year, workedHours, rateCents, allowanceCents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MonthlyRecord), args.Error(1)
}
func (m *RepoMock) ReadRecord(ctx context.Context, username string, month, year int) (*models.MonthlyRecord, error) {
	args := m.Called(ctx, username, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MonthlyRecord), args.Error(1)
}
func (m *RepoMock) ListRecords(ctx context.Context, username string) ([]*models.MonthlyRecord, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MonthlyRecord), args.Error(1)
}
func (m *RepoMock) DeleteRecordIfSettled(ctx context.Context, username string, month, year int) error {
	return m.Called(ctx, username, month, year).Error(0)
}
func (m *RepoMock) AddPayment(ctx context.Context, username string, month, year int, amountCents int64, paymentType string) (*models.Payment, int64, error) {
	args := m.Called(ctx, username, month, year, amountCents, paymentType)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*models.Payment), args.Get(1).(int64), args.Error(2)
}
func (m *RepoMock) DeletePayment(ctx context.Context, username string, month, year int, paidAt int64) error {
	return m.Called(ctx, username, month, year, paidAt).Error(0)
}
func (m *RepoMock) ListPayments(ctx context.Context, username string, month, year int) ([]models.Payment, error) {
	args := m.Called(ctx, username, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Payment), args.Error(1)
}
func (m *RepoMock) HasPayments(ctx context.Context, username string, month, year int) (bool, error) {
	args := m.Called(ctx, username, month, year)
	return args.Bool(0), args.Error(1)
}

type UsersMock struct{ mock.Mock }

func (m *UsersMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) PublishPaymentAdded(event models.PaymentEvent) error {
	return m.Called(event).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newService(r *RepoMock, u *UsersMock, c *CacheMock, p *PublisherMock) *Service {
	return New(r, u, c, p, newNoopLogger())
}

func int64Ptr(v int64) *int64 { return &v }

func TestLedgerService_UpsertRecord(t *testing.T) {
	record := &models.MonthlyRecord{
		Username:                "user1",
		Month:                   3,
		Year:                    2025,
		WorkedHours:             160,
		HourlyRateCents:         1500,
		TransportAllowanceCents: 5000,
	}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		req        models.DummyRecord
		wantErr    error
	}{
		{
			name: "success create with explicit fields",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("UpsertRecord", mock.Anything, "user1", 3, 2025,
					int64(160), int64Ptr(1500), int64Ptr(5000)).Return(record, nil).Once()
				c.On("Invalidate", "record:user1:2025-3").Return(nil).Once()
			},
			req: models.DummyRecord{
				Month:                   3,
				Year:                    2025,
				WorkedHours:             int64Ptr(160),
				HourlyRateCents:         int64Ptr(1500),
				TransportAllowanceCents: int64Ptr(5000),
			},
		},
		{
			name: "omitted rate and allowance pass through as nil",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("UpsertRecord", mock.Anything, "user1", 3, 2025,
					int64(170), (*int64)(nil), (*int64)(nil)).Return(record, nil).Once()
				c.On("Invalidate", "record:user1:2025-3").Return(nil).Once()
			},
			req: models.DummyRecord{
				Month:       3,
				Year:        2025,
				WorkedHours: int64Ptr(170),
			},
		},
		{
			name:       "month out of range",
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			req: models.DummyRecord{
				Month:       13,
				Year:        2025,
				WorkedHours: int64Ptr(160),
			},
			wantErr: workmonth.ErrMonthOutOfRange,
		},
		{
			name:       "year below minimum",
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			req: models.DummyRecord{
				Month:       3,
				Year:        1999,
				WorkedHours: int64Ptr(160),
			},
			wantErr: workmonth.ErrYearOutOfRange,
		},
		{
			name:       "negative worked hours",
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			req: models.DummyRecord{
				Month:       3,
				Year:        2025,
				WorkedHours: int64Ptr(-1),
			},
			wantErr: ErrInvalidHours,
		},
		{
			name:       "negative rate",
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			req: models.DummyRecord{
				Month:           3,
				Year:            2025,
				WorkedHours:     int64Ptr(160),
				HourlyRateCents: int64Ptr(-100),
			},
			wantErr: ErrInvalidRate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			users := new(UsersMock)
			cache := new(CacheMock)
			publisher := new(PublisherMock)
			svc := newService(repo, users, cache, publisher)

			tt.setupMocks(repo, cache)

			got, err := svc.UpsertRecord(context.Background(), "user1", tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, int64(160*1500+5000), got.TotalDueCents())
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestLedgerService_ReadRecord(t *testing.T) {
	record := &models.MonthlyRecord{
		Username:                "user1",
		Month:                   3,
		Year:                    2025,
		WorkedHours:             160,
		HourlyRateCents:         1500,
		TransportAllowanceCents: 5000,
	}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		wantErr    bool
	}{
		{
			name: "cache miss reads repo and caches",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "record:user1:2025-3", mock.Anything).Return(false, nil).Once()
				r.On("ReadRecord", mock.Anything, "user1", 3, 2025).Return(record, nil).Once()
				c.On("Set", "record:user1:2025-3", record, time.Hour).Return(nil).Once()
			},
		},
		{
			name: "cache hit skips repo",
			setupMocks: func(_ *RepoMock, c *CacheMock) {
				c.On("Get", "record:user1:2025-3", mock.Anything).Return(true, nil).Once()
			},
		},
		{
			name: "record not found",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "record:user1:2025-3", mock.Anything).Return(false, nil).Once()
				r.On("ReadRecord", mock.Anything, "user1", 3, 2025).
					Return(nil, repository.ErrRecordNotFound).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			users := new(UsersMock)
			cache := new(CacheMock)
			publisher := new(PublisherMock)
			svc := newService(repo, users, cache, publisher)

			tt.setupMocks(repo, cache)

			_, err := svc.ReadRecord(context.Background(), "user1", 3, 2025)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestLedgerService_DeleteRecord(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		wantErr    error
	}{
		{
			name: "settled record is deleted",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("DeleteRecordIfSettled", mock.Anything, "user1", 3, 2025).Return(nil).Once()
				c.On("Invalidate", "record:user1:2025-3").Return(nil).Once()
			},
		},
		{
			name: "unsettled record is rejected",
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("DeleteRecordIfSettled", mock.Anything, "user1", 3, 2025).
					Return(repository.ErrUnsettledBalance).Once()
			},
			wantErr: repository.ErrUnsettledBalance,
		},
		{
			name: "absent record not found",
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("DeleteRecordIfSettled", mock.Anything, "user1", 3, 2025).
					Return(repository.ErrRecordNotFound).Once()
			},
			wantErr: repository.ErrRecordNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			users := new(UsersMock)
			cache := new(CacheMock)
			publisher := new(PublisherMock)
			svc := newService(repo, users, cache, publisher)

			tt.setupMocks(repo, cache)

			err := svc.DeleteRecord(context.Background(), "user1", 3, 2025)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestLedgerService_AddPayment(t *testing.T) {
	payment := &models.Payment{
		UID:         "11111111-1111-1111-1111-111111111111",
		PaidAt:      1740000000000000000,
		AmountCents: 100000,
		PaymentType: models.PaymentTypeBank,
	}
	user := &models.User{Username: "user1", Email: "user1@example.com"}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, u *UsersMock, c *CacheMock, p *PublisherMock)
		req        models.DummyPayment
		wantErr    error
	}{
		{
			name: "success publishes event with remaining",
			setupMocks: func(r *RepoMock, u *UsersMock, c *CacheMock, p *PublisherMock) {
				r.On("AddPayment", mock.Anything, "user1", 3, 2025,
					int64(100000), models.PaymentTypeBank).Return(payment, int64(145000), nil).Once()
				c.On("Invalidate", "record:user1:2025-3").Return(nil).Once()
				u.On("GetUserByUsername", mock.Anything, "user1").Return(user, nil).Once()
				p.On("PublishPaymentAdded", mock.MatchedBy(func(e models.PaymentEvent) bool {
					return e.Email == "user1@example.com" &&
						e.AmountCents == 100000 &&
						e.RemainingCents == 145000
				})).Return(nil).Once()
			},
			req: models.DummyPayment{AmountCents: 100000, PaymentType: models.PaymentTypeBank},
		},
		{
			name: "publish failure does not fail payment",
			setupMocks: func(r *RepoMock, u *UsersMock, c *CacheMock, p *PublisherMock) {
				r.On("AddPayment", mock.Anything, "user1", 3, 2025,
					int64(100000), models.PaymentTypeCash).Return(payment, int64(145000), nil).Once()
				c.On("Invalidate", "record:user1:2025-3").Return(nil).Once()
				u.On("GetUserByUsername", mock.Anything, "user1").Return(user, nil).Once()
				p.On("PublishPaymentAdded", mock.Anything).Return(errors.New("broker down")).Once()
			},
			req: models.DummyPayment{AmountCents: 100000, PaymentType: models.PaymentTypeCash},
		},
		{
			name:       "zero amount rejected",
			setupMocks: func(_ *RepoMock, _ *UsersMock, _ *CacheMock, _ *PublisherMock) {},
			req:        models.DummyPayment{AmountCents: 0, PaymentType: models.PaymentTypeBank},
			wantErr:    ErrInvalidAmount,
		},
		{
			name:       "negative amount rejected",
			setupMocks: func(_ *RepoMock, _ *UsersMock, _ *CacheMock, _ *PublisherMock) {},
			req:        models.DummyPayment{AmountCents: -500, PaymentType: models.PaymentTypeBank},
			wantErr:    ErrInvalidAmount,
		},
		{
			name:       "unknown payment type rejected",
			setupMocks: func(_ *RepoMock, _ *UsersMock, _ *CacheMock, _ *PublisherMock) {},
			req:        models.DummyPayment{AmountCents: 100, PaymentType: "crypto"},
			wantErr:    ErrInvalidPaymentType,
		},
		{
			name: "missing record",
			setupMocks: func(r *RepoMock, _ *UsersMock, _ *CacheMock, _ *PublisherMock) {
				r.On("AddPayment", mock.Anything, "user1", 3, 2025,
					int64(100000), models.PaymentTypeBank).
					Return(nil, int64(0), repository.ErrRecordNotFound).Once()
			},
			req:     models.DummyPayment{AmountCents: 100000, PaymentType: models.PaymentTypeBank},
			wantErr: repository.ErrRecordNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			users := new(UsersMock)
			cache := new(CacheMock)
			publisher := new(PublisherMock)
			svc := newService(repo, users, cache, publisher)

			tt.setupMocks(repo, users, cache, publisher)

			got, err := svc.AddPayment(context.Background(), "user1", 3, 2025, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, payment.UID, got.UID)
			}

			repo.AssertExpectations(t)
			users.AssertExpectations(t)
			cache.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestLedgerService_DeletePayment(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		paidAt     int64
		wantErr    error
	}{
		{
			name: "success",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("DeletePayment", mock.Anything, "user1", 3, 2025, int64(123)).Return(nil).Once()
				c.On("Invalidate", "record:user1:2025-3").Return(nil).Once()
			},
			paidAt: 123,
		},
		{
			name: "unknown timestamp",
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("DeletePayment", mock.Anything, "user1", 3, 2025, int64(999)).
					Return(repository.ErrPaymentNotFound).Once()
			},
			paidAt:  999,
			wantErr: repository.ErrPaymentNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			users := new(UsersMock)
			cache := new(CacheMock)
			publisher := new(PublisherMock)
			svc := newService(repo, users, cache, publisher)

			tt.setupMocks(repo, cache)

			err := svc.DeletePayment(context.Background(), "user1", 3, 2025, tt.paidAt)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestLedgerService_HasPayments(t *testing.T) {
	repo := new(RepoMock)
	users := new(UsersMock)
	cache := new(CacheMock)
	publisher := new(PublisherMock)
	svc := newService(repo, users, cache, publisher)

	repo.On("HasPayments", mock.Anything, "user1", 3, 2025).Return(false, nil).Once()

	got, err := svc.HasPayments(context.Background(), "user1", 3, 2025)
	assert.NoError(t, err)
	assert.False(t, got)

	repo.AssertExpectations(t)
}
