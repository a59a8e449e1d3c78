package tradegate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "1.234,56", want: "1234.56"},
		{raw: "12,5", want: "12.5"},
		{raw: "60.12", want: "60.12"},
		{raw: "1 234,5", want: "1234.5"},
		{raw: "1 234,5", want: "1234.5"},
		{raw: "1 000 000,25", want: "1000000.25"},
		{raw: "-0,75", want: "-0.75"},
		{raw: "42", want: "42"},
		{raw: " 7 ", want: "7"},
		{raw: "", wantErr: true},
		{raw: "   ", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "1,2,3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			got, err := NormalizeNumber(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "2024-03-01", want: "2024-03-01"},
		{raw: "01.03.2024", want: "2024-03-01"},
		{raw: " 2024-03-01 ", want: "2024-03-01"},
		{raw: "2024/03/01", wantErr: true},
		{raw: "2024-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			got, err := normalizeDate(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "09:00:01", want: "09:00:01.000"},
		{raw: "09:00:01.5", want: "09:00:01.500"},
		{raw: "17:29:59.123", want: "17:29:59.123"},
		{raw: "17:29:59.123456", want: "17:29:59.123"},
		{raw: "9:00", wantErr: true},
		{raw: "25:00:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			got, err := normalizeTime(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
