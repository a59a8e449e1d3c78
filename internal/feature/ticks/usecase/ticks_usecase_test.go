package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tick_backend/internal/feature/ticks/domain/entity"
	"tick_backend/internal/feature/ticks/usecase"
)

// mockTickReader はTickReaderインターフェースのモック実装です。
type mockTickReader struct {
	FindFunc       func(ctx context.Context, isin, date string, limit int) ([]entity.Tick, error)
	LatestDateFunc func(ctx context.Context, isin string) (string, error)
	FindCalls      int
}

func (m *mockTickReader) Find(ctx context.Context, isin, date string, limit int) ([]entity.Tick, error) {
	m.FindCalls++
	if m.FindFunc != nil {
		return m.FindFunc(ctx, isin, date, limit)
	}
	return nil, errors.New("FindFunc is not implemented")
}

func (m *mockTickReader) LatestDate(ctx context.Context, isin string) (string, error) {
	if m.LatestDateFunc != nil {
		return m.LatestDateFunc(ctx, isin)
	}
	return "", errors.New("LatestDateFunc is not implemented")
}

// TestTicksUsecase_GetTicks はGetTicksのパラメータ処理とリポジトリ呼び出しをテストします。
func TestTicksUsecase_GetTicks(t *testing.T) {
	t.Parallel()

	stored := []entity.Tick{
		{ISIN: "DE0007100000", ID: 1, TradeDate: "2024-03-01", TradeTime: "09:00:00.000", Price: decimal.RequireFromString("60.1")},
	}
	errDB := errors.New("database error")

	testCases := []struct {
		name          string
		date          string
		limit         int
		latest        string
		latestErr     error
		findErr       error
		wantTicks     []entity.Tick
		wantErr       error
		wantDate      string
		wantLimit     int
		wantFindCalls int
	}{
		{
			name:          "success: explicit date and limit",
			date:          "2024-03-01",
			limit:         50,
			wantTicks:     stored,
			wantDate:      "2024-03-01",
			wantLimit:     50,
			wantFindCalls: 1,
		},
		{
			name:          "success: latest date used when date is empty",
			latest:        "2024-03-01",
			limit:         10,
			wantTicks:     stored,
			wantDate:      "2024-03-01",
			wantLimit:     10,
			wantFindCalls: 1,
		},
		{
			name:          "success: default limit when zero",
			date:          "2024-03-01",
			wantTicks:     stored,
			wantDate:      "2024-03-01",
			wantLimit:     usecase.DefaultLimit,
			wantFindCalls: 1,
		},
		{
			name:          "success: default limit when above maximum",
			date:          "2024-03-01",
			limit:         usecase.MaxLimit + 1,
			wantTicks:     stored,
			wantDate:      "2024-03-01",
			wantLimit:     usecase.DefaultLimit,
			wantFindCalls: 1,
		},
		{
			name:      "success: no data yet returns an empty slice",
			wantTicks: []entity.Tick{},
		},
		{
			name:    "failure: malformed date",
			date:    "01.03.2024",
			wantErr: usecase.ErrInvalidDate,
		},
		{
			name:      "failure: latest date lookup fails",
			latestErr: errDB,
			wantErr:   errDB,
		},
		{
			name:          "failure: find fails",
			date:          "2024-03-01",
			findErr:       errDB,
			wantErr:       errDB,
			wantDate:      "2024-03-01",
			wantLimit:     usecase.DefaultLimit,
			wantFindCalls: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var gotDate string
			var gotLimit int
			repo := &mockTickReader{
				FindFunc: func(ctx context.Context, isin, date string, limit int) ([]entity.Tick, error) {
					gotDate, gotLimit = date, limit
					if tc.findErr != nil {
						return nil, tc.findErr
					}
					return stored, nil
				},
				LatestDateFunc: func(ctx context.Context, isin string) (string, error) {
					return tc.latest, tc.latestErr
				},
			}

			uc := usecase.NewTicksUsecase(repo)
			got, err := uc.GetTicks(context.Background(), "DE0007100000", tc.date, tc.limit)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.wantTicks, got)
			}
			assert.Equal(t, tc.wantFindCalls, repo.FindCalls)
			if tc.wantFindCalls > 0 {
				assert.Equal(t, tc.wantDate, gotDate)
				assert.Equal(t, tc.wantLimit, gotLimit)
			}
		})
	}
}
