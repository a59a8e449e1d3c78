package usecase

import (
	"context"
	"time"

	"tick_backend/internal/feature/ticks/domain/entity"
)

// QuoteSource は約定ティックを取得する上流APIのインターフェイスです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type QuoteSource interface {
	// FetchPage は afterID より大きいIDのティックを1ページ返します。afterID が0なら当日の先頭から返します。
	FetchPage(ctx context.Context, isin string, afterID int64) (entity.Page, error)
}

// TickWriter はティックの永続化レイヤーを抽象化します。
// 実装は自然キー (isin, trade_date, tick_id) での冪等なupsertを保証しなければなりません。
type TickWriter interface {
	UpsertBatch(ctx context.Context, ticks []entity.Tick) error
}

// TickReader は永続化されたティックの読み取りレイヤーを抽象化します。
type TickReader interface {
	// Find は指定日のティックを約定時刻順に返します。limit が0以下なら全件です。
	Find(ctx context.Context, isin, date string, limit int) ([]entity.Tick, error)
	// LatestDate はティックが存在する最新の取引日を返します。データがなければ空文字です。
	LatestDate(ctx context.Context, isin string) (string, error)
}

// Recorder receives ingestion events for metrics.
type Recorder interface {
	PageFetched(isin string, ticks int)
	FetchFailed(isin string)
	TicksPersisted(n int)
	SecurityStarted()
	SecurityFinished(outcome string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) PageFetched(string, int) {}
func (nopRecorder) FetchFailed(string) {}
func (nopRecorder) TicksPersisted(int) {}
func (nopRecorder) SecurityStarted() {}
func (nopRecorder) SecurityFinished(string, time.Duration) {}
