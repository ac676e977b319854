package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/worklog-ledger/internal/models"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func TestStorage_UpsertRecord(t *testing.T) {
	type args struct {
		username       string
		month          int
		year           int
		workedHours    int64
		rateCents      *int64
		allowanceCents *int64
	}

	tests := []struct {
		name          string
		args          args
		wantErr       bool
		wantHours     int64
		wantRate      int64
		wantAllowance int64
		setup         func(t *testing.T, factory *TestDataFactory)
	}{
		{
			name: "create record with explicit values",
			args: args{
				username:       "testuser",
				month:          3,
				year:           2025,
				workedHours:    160,
				rateCents:      int64Ptr(1500),
				allowanceCents: int64Ptr(5000),
			},
			wantHours:     160,
			wantRate:      1500,
			wantAllowance: 5000,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, uuid.New().String(), "testuser", "test@example.com", "hashedpassword", "user")
			},
		},
		{
			name: "create record takes defaults from profile",
			args: args{
				username:    "testuser",
				month:       3,
				year:        2025,
				workedHours: 160,
			},
			wantHours:     160,
			wantRate:      1500,
			wantAllowance: 5000,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, uuid.New().String(), "testuser", "test@example.com", "hashedpassword", "user")
				factory.CreateProfile(t, "testuser", "Test User", 1500, 5000)
			},
		},
		{
			name: "create record without profile falls back to zeros",
			args: args{
				username:    "testuser",
				month:       3,
				year:        2025,
				workedHours: 160,
			},
			wantHours:     160,
			wantRate:      0,
			wantAllowance: 0,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, uuid.New().String(), "testuser", "test@example.com", "hashedpassword", "user")
			},
		},
		{
			name: "update keeps stored values for omitted fields",
			args: args{
				username:    "testuser",
				month:       3,
				year:        2025,
				workedHours: 180,
			},
			wantHours:     180,
			wantRate:      1500,
			wantAllowance: 5000,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, uuid.New().String(), "testuser", "test@example.com", "hashedpassword", "user")
				// Профиль с другими значениями: при обновлении они не должны подставляться.
				factory.CreateProfile(t, "testuser", "Test User", 9999, 9999)
				factory.CreateRecord(t, "testuser", 3, 2025, 160, 1500, 5000)
			},
		},
		{
			name: "update overrides only the supplied field",
			args: args{
				username:    "testuser",
				month:       3,
				year:        2025,
				workedHours: 160,
				rateCents:   int64Ptr(2000),
			},
			wantHours:     160,
			wantRate:      2000,
			wantAllowance: 5000,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, uuid.New().String(), "testuser", "test@example.com", "hashedpassword", "user")
				factory.CreateRecord(t, "testuser", 3, 2025, 160, 1500, 5000)
			},
		},
		{
			name: "create record for unknown user",
			args: args{
				username:    "nonexistent",
				month:       3,
				year:        2025,
				workedHours: 160,
			},
			wantErr: true,
			setup:   func(_ *testing.T, _ *TestDataFactory) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(t, factory)

			got, err := storage.UpsertRecord(context.Background(), tt.args.username,
				tt.args.month, tt.args.year, tt.args.workedHours,
				tt.args.rateCents, tt.args.allowanceCents)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			// Возвращается итоговое состояние записи, а не входные данные.
			assert.Equal(t, tt.args.username, got.Username)
			assert.Equal(t, tt.args.month, got.Month)
			assert.Equal(t, tt.args.year, got.Year)
			assert.Equal(t, tt.wantHours, got.WorkedHours)
			assert.Equal(t, tt.wantRate, got.HourlyRateCents)
			assert.Equal(t, tt.wantAllowance, got.TransportAllowanceCents)

			verification := NewTestVerification(storage)
			verification.VerifyRecordData(t, tt.args.username, tt.args.month, tt.args.year,
				tt.wantHours, tt.wantRate, tt.wantAllowance)
		})
	}
}

func TestStorage_ReadRecord(t *testing.T) {
	tests := []struct {
		name         string
		username     string
		month, year  int
		wantErr      error
		wantPayments int
		setup        func(t *testing.T, factory *TestDataFactory)
	}{
		{
			name:         "record with payments ordered by paid_at",
			username:     "testuser",
			month:        3,
			year:         2025,
			wantPayments: 2,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, uuid.New().String(), "testuser", "test@example.com", "hashedpassword", "user")
				recordID := factory.CreateRecord(t, "testuser", 3, 2025, 160, 1500, 5000)
				factory.CreatePayment(t, recordID, 200, 45000, models.PaymentTypeCash)
				factory.CreatePayment(t, recordID, 100, 100000, models.PaymentTypeBank)
			},
		},
		{
			name:     "record without payments",
			username: "testuser",
			month:    3,
			year:     2025,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, uuid.New().String(), "testuser", "test@example.com", "hashedpassword", "user")
				factory.CreateRecord(t, "testuser", 3, 2025, 160, 1500, 5000)
			},
		},
		{
			name:     "missing record",
			username: "testuser",
			month:    4,
			year:     2025,
			wantErr:  ErrRecordNotFound,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, uuid.New().String(), "testuser", "test@example.com", "hashedpassword", "user")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(t, factory)

			got, err := storage.ReadRecord(context.Background(), tt.username, tt.month, tt.year)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.username, got.Username)
			assert.Len(t, got.Payments, tt.wantPayments)
			for i := 1; i < len(got.Payments); i++ {
				assert.Less(t, got.Payments[i-1].PaidAt, got.Payments[i].PaidAt)
			}
		})
	}
}

func TestStorage_DeleteRecordIfSettled(t *testing.T) {
	tests := []struct {
		name    string
		wantErr error
		setup   func(t *testing.T, factory *TestDataFactory)
	}{
		{
			name: "settled record is deleted with payments",
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, uuid.New().String(), "testuser", "test@example.com", "hashedpassword", "user")
				recordID := factory.CreateRecord(t, "testuser", 3, 2025, 160, 1500, 5000)
				factory.CreatePayment(t, recordID, 100, 200000, models.PaymentTypeBank)
				factory.CreatePayment(t, recordID, 200, 45000, models.PaymentTypeCash)
			},
		},
		{
			name:    "underpaid record is kept",
			wantErr: ErrUnsettledBalance,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, uuid.New().String(), "testuser", "test@example.com", "hashedpassword", "user")
				recordID := factory.CreateRecord(t, "testuser", 3, 2025, 160, 1500, 5000)
				factory.CreatePayment(t, recordID, 100, 100000, models.PaymentTypeBank)
			},
		},
		{
			name:    "overpaid record is kept",
			wantErr: ErrUnsettledBalance,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, uuid.New().String(), "testuser", "test@example.com", "hashedpassword", "user")
				recordID := factory.CreateRecord(t, "testuser", 3, 2025, 160, 1500, 5000)
				factory.CreatePayment(t, recordID, 100, 300000, models.PaymentTypeBank)
			},
		},
		{
			name:    "missing record",
			wantErr: ErrRecordNotFound,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, uuid.New().String(), "testuser", "test@example.com", "hashedpassword", "user")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(t, factory)

			err := storage.DeleteRecordIfSettled(context.Background(), "testuser", 3, 2025)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			verification := NewTestVerification(storage)
			verification.VerifyRecordDeleted(t, "testuser", 3, 2025)
		})
	}
}

func TestStorage_RegisterUser(t *testing.T) {
	tests := []struct {
		name    string
		user    models.User
		wantErr error
		setup   func(t *testing.T, factory *TestDataFactory)
	}{
		{
			name: "successful registration",
			user: models.User{
				Email:        "new@example.com",
				Username:     "newuser",
				PasswordHash: "hashedpassword",
				Role:         models.RoleUser,
			},
			setup: func(_ *testing.T, _ *TestDataFactory) {},
		},
		{
			name: "duplicate username",
			user: models.User{
				Email:        "other@example.com",
				Username:     "testuser",
				PasswordHash: "hashedpassword",
				Role:         models.RoleUser,
			},
			wantErr: ErrUserExists,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, uuid.New().String(), "testuser", "test@example.com", "hashedpassword", "user")
			},
		},
		{
			name: "duplicate email",
			user: models.User{
				Email:        "test@example.com",
				Username:     "otheruser",
				PasswordHash: "hashedpassword",
				Role:         models.RoleUser,
			},
			wantErr: ErrUserExists,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, uuid.New().String(), "testuser", "test@example.com", "hashedpassword", "user")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(t, factory)

			uid, err := storage.RegisterUser(context.Background(), tt.user)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, uid)
		})
	}
}

func TestStorage_GetUserByUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  error
		setup    func(t *testing.T, factory *TestDataFactory)
	}{
		{
			name:     "existing user",
			username: "testuser",
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, uuid.New().String(), "testuser", "test@example.com", "hashedpassword", "admin")
			},
		},
		{
			name:     "missing user",
			username: "nonexistent",
			wantErr:  ErrUserNotFound,
			setup:    func(_ *testing.T, _ *TestDataFactory) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(t, factory)

			got, err := storage.GetUserByUsername(context.Background(), tt.username)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "testuser", got.Username)
			assert.Equal(t, "test@example.com", got.Email)
			assert.Equal(t, models.RoleAdmin, got.Role)
			assert.NotEmpty(t, got.UID)
		})
	}
}

func TestStorage_SaveProfile(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, uuid.New().String(), "testuser", "test@example.com", "hashedpassword", "user")

	ctx := context.Background()
	err := storage.SaveProfile(ctx, models.UserProfile{
		Username:                       "testuser",
		Name:                           "Test User",
		DefaultHourlyRateCents:         1500,
		DefaultTransportAllowanceCents: 5000,
	})
	require.NoError(t, err)

	// Повторное сохранение полностью перезаписывает профиль.
	err = storage.SaveProfile(ctx, models.UserProfile{
		Username:               "testuser",
		Name:                   "Renamed User",
		DefaultHourlyRateCents: 2000,
	})
	require.NoError(t, err)

	got, err := storage.GetProfile(ctx, "testuser")
	require.NoError(t, err)
	assert.Equal(t, "Renamed User", got.Name)
	assert.Equal(t, int64(2000), got.DefaultHourlyRateCents)
	assert.Equal(t, int64(0), got.DefaultTransportAllowanceCents)
}

func TestStorage_GetProfile_Missing(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	_, err := storage.GetProfile(context.Background(), "nonexistent")
	require.ErrorIs(t, err, ErrProfileNotFound)
}
