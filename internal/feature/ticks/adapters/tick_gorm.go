// Package adapters はticksフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tick_backend/internal/feature/ticks/domain"
	"tick_backend/internal/feature/ticks/domain/entity"
	"tick_backend/internal/feature/ticks/usecase"
)

// defaultBatchSize keeps one INSERT well below the Postgres bind-parameter limit.
const defaultBatchSize = 500

type tickGorm struct {
	db        *gorm.DB
	batchSize int
}

var (
	_ usecase.TickWriter = (*tickGorm)(nil)
	_ usecase.TickReader = (*tickGorm)(nil)
)

// NewTickRepository は指定されたDB接続でtickGormリポジトリの新しいインスタンスを生成します。
// 返されるリポジトリは全銘柄のgoroutineから共有して利用できます。
func NewTickRepository(db *gorm.DB) *tickGorm {
	return &tickGorm{db: db, batchSize: defaultBatchSize}
}

// TickModel は ticks テーブルの行です。
// (isin, trade_date, tick_id) の一意制約がストア側で重複を防ぎます。
type TickModel struct {
	ID        uint            `gorm:"primaryKey"`
	ISIN      string          `gorm:"column:isin;size:12;not null;uniqueIndex:idx_ticks_natural_key,priority:1"`
	TradeDate string          `gorm:"column:trade_date;size:10;not null;uniqueIndex:idx_ticks_natural_key,priority:2"`
	TickID    int64           `gorm:"column:tick_id;not null;check:tick_id > 0;uniqueIndex:idx_ticks_natural_key,priority:3"`
	TradeTime string          `gorm:"column:trade_time;size:12;not null"`
	Price     decimal.Decimal `gorm:"type:numeric(18,6);not null;check:price >= 0"`
	Turnover  decimal.Decimal `gorm:"type:numeric(20,6);not null;check:turnover >= 0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TickModel) TableName() string {
	return "ticks"
}

// Migrate は ticks テーブルと時刻順検索用のインデックスを作成します。
// 同一ミリ秒に複数の約定があり得るため、時刻インデックスの一意性は設定で選択します。
func Migrate(db *gorm.DB, uniqueTimeIndex bool) error {
	if err := db.AutoMigrate(&TickModel{}); err != nil {
		return fmt.Errorf("migrate ticks: %w", err)
	}
	unique := ""
	if uniqueTimeIndex {
		unique = "UNIQUE "
	}
	stmt := fmt.Sprintf("CREATE %sINDEX IF NOT EXISTS idx_ticks_isin_date_time ON ticks (isin, trade_date, trade_time)", unique)
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("create time index: %w", err)
	}
	return nil
}

func toModel(e entity.Tick) TickModel {
	return TickModel{
		ISIN:      e.ISIN,
		TradeDate: e.TradeDate,
		TickID:    e.ID,
		TradeTime: e.TradeTime,
		Price:     e.Price,
		Turnover:  e.Turnover,
	}
}

func toEntity(m TickModel) entity.Tick {
	return entity.Tick{
		ISIN:      m.ISIN,
		ID:        m.TickID,
		TradeDate: m.TradeDate,
		TradeTime: m.TradeTime,
		Price:     m.Price,
		Turnover:  m.Turnover,
	}
}

// Upsert は1件のティックを冪等に保存します。
func (r *tickGorm) Upsert(ctx context.Context, tick entity.Tick) error {
	return r.UpsertBatch(ctx, []entity.Tick{tick})
}

// UpsertBatch はティックを自然キーで挿入または更新します。
// 同じキーを再送しても行は1件のままで、最後に送られた値と updated_at に更新され、created_at は保持されます。
func (r *tickGorm) UpsertBatch(ctx context.Context, ticks []entity.Tick) error {
	if len(ticks) == 0 {
		return nil
	}

	// 1つの文の中で同じキーが2回現れるとPostgresはエラーにするため、後勝ちでまとめる
	index := make(map[entity.Key]int, len(ticks))
	ms := make([]TickModel, 0, len(ticks))
	for _, t := range ticks {
		if i, ok := index[t.Key()]; ok {
			ms[i] = toModel(t)
			continue
		}
		index[t.Key()] = len(ms)
		ms = append(ms, toModel(t))
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "isin"}, {Name: "trade_date"}, {Name: "tick_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"trade_time", "price", "turnover", "updated_at"}),
	}).CreateInBatches(&ms, r.batchSize).Error
	if err != nil {
		return &domain.PersistenceError{Op: "upsert", Count: len(ms), Transient: isTransient(err), Err: err}
	}
	return nil
}

// Find は指定日のティックを約定時刻順に返します。
func (r *tickGorm) Find(ctx context.Context, isin, date string, limit int) ([]entity.Tick, error) {
	var rows []TickModel
	q := r.db.WithContext(ctx).
		Where("isin = ? AND trade_date = ?", isin, date).
		Order("trade_time ASC, tick_id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, &domain.PersistenceError{Op: "find", Err: err, Transient: isTransient(err)}
	}
	out := make([]entity.Tick, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}

// LatestDate はティックが存在する最新の取引日を返します。
func (r *tickGorm) LatestDate(ctx context.Context, isin string) (string, error) {
	var dates []string
	if err := r.db.WithContext(ctx).
		Model(&TickModel{}).
		Where("isin = ?", isin).
		Order("trade_date DESC").
		Limit(1).
		Pluck("trade_date", &dates).Error; err != nil {
		return "", &domain.PersistenceError{Op: "latest date", Err: err, Transient: isTransient(err)}
	}
	if len(dates) == 0 {
		return "", nil
	}
	return dates[0], nil
}

// Count は銘柄の保存済みティック数を返します。
func (r *tickGorm) Count(ctx context.Context, isin string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&TickModel{}).Where("isin = ?", isin).Count(&n).Error; err != nil {
		return 0, &domain.PersistenceError{Op: "count", Err: err, Transient: isTransient(err)}
	}
	return n, nil
}

// isTransient classifies connection loss, serialization failures and
// server shutdown as retryable.
func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "08"), // connection exception
			pgErr.Code == "40001", // serialization_failure
			pgErr.Code == "40P01", // deadlock_detected
			pgErr.Code == "53300", // too_many_connections
			pgErr.Code == "57P01": // admin_shutdown
			return true
		}
		return false
	}
	return errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded)
}
