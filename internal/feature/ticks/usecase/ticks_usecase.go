package usecase

import (
	"context"
	"time"

	"tick_backend/internal/feature/ticks/domain/entity"
)

const (
	// DefaultLimit はティックの返却件数のデフォルト値です。
	DefaultLimit = 1000
	// MaxLimit はティックの最大返却件数です。
	MaxLimit = 20000
)

// ticksUsecase は永続化済みティックの参照ユースケースを定義します。
type ticksUsecase struct {
	ticks TickReader
}

// NewTicksUsecase はticksUsecaseの新しいインスタンスを生成します。
func NewTicksUsecase(ticks TickReader) *ticksUsecase {
	return &ticksUsecase{ticks: ticks}
}

// GetTicks は指定された銘柄と取引日のティックを約定時刻順に返します。
// date が空の場合はデータが存在する最新の取引日を使用します。
func (tu *ticksUsecase) GetTicks(ctx context.Context, isin, date string, limit int) ([]entity.Tick, error) {
	if limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}

	if date == "" {
		latest, err := tu.ticks.LatestDate(ctx, isin)
		if err != nil {
			return nil, err
		}
		if latest == "" {
			return []entity.Tick{}, nil
		}
		date = latest
	} else if _, err := time.Parse(entity.DateLayout, date); err != nil {
		return nil, ErrInvalidDate
	}

	return tu.ticks.Find(ctx, isin, date, limit)
}
