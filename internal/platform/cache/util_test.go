package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeUntilNextRollover(t *testing.T) {
	t.Parallel()

	berlin := frankfurt

	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{
			name: "before rollover",
			now:  time.Date(2024, 3, 1, 7, 30, 0, 0, berlin),
			want: 30 * time.Minute,
		},
		{
			name: "exactly at rollover waits a full day",
			now:  time.Date(2024, 3, 1, 8, 0, 0, 0, berlin),
			want: 24 * time.Hour,
		},
		{
			name: "after rollover",
			now:  time.Date(2024, 3, 1, 17, 30, 0, 0, berlin),
			want: 14*time.Hour + 30*time.Minute,
		},
		{
			name: "input in another zone",
			now:  time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC), // 07:00 in Frankfurt
			want: time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, TimeUntilNextRollover(tt.now))
		})
	}
}

func TestTimeUntilNextRollover_Bounds(t *testing.T) {
	t.Parallel()

	d := TimeUntilNextRollover(time.Now())

	assert.Positive(t, d)
	// DST切り替え日は25時間になり得る
	assert.LessOrEqual(t, d, 25*time.Hour)
}
