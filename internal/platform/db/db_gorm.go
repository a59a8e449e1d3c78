// Package db はGORMのデータベース接続とマイグレーションを提供します。
package db

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	catalogadapters "tick_backend/internal/feature/catalog/adapters"
	tickadapters "tick_backend/internal/feature/ticks/adapters"
)

// retryInterval は接続リトライの間隔です。
const retryInterval = 3 * time.Second

// Config はデータベース接続の設定です。
type Config struct {
	Driver       string // "postgres" or "sqlite"
	Host         string
	Port         int
	Name         string
	User         string
	Password     string
	SSLMode      string
	Path         string // sqlite file
	MaxOpenConns int
	MaxIdleConns int
}

// Opener は DSN から接続を開きます。テストで差し替えられるように関数型にしています。
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN はドライバに応じた接続文字列を生成します。
func BuildDSN(cfg Config) string {
	if cfg.Driver == "sqlite" {
		// 複数の銘柄のupsertが同時に書き込むため、ロック待ちをエラーにしない
		return cfg.Path + "?_busy_timeout=5000&_journal_mode=WAL"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": {cfg.SSLMode}}.Encode(),
	}
	return u.String()
}

// OpenerFor はドライバに対応する Opener を返します。
func OpenerFor(driver string) (Opener, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	switch driver {
	case "postgres":
		return func(dsn string) (*gorm.DB, error) { return gorm.Open(postgres.Open(dsn), gcfg) }, nil
	case "sqlite":
		return func(dsn string) (*gorm.DB, error) { return gorm.Open(sqlite.Open(dsn), gcfg) }, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Open は設定に従って接続し、コネクションプールを設定します。
// 起動直後はデータベースがまだ受け付けていないことがあるため、timeout の間は接続をリトライします。
func Open(ctx context.Context, cfg Config, timeout time.Duration, log *slog.Logger) (*gorm.DB, error) {
	opener, err := OpenerFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	db, err := connectWithRetry(ctx, BuildDSN(cfg), timeout, retryInterval, opener, log)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == "sqlite" {
		// SQLiteの書き込みは1本の接続に直列化する
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	log.Info("database connected", "driver", cfg.Driver)
	return db, nil
}

// ConnectWithRetry は接続に成功するか timeout を過ぎるまで3秒間隔で opener を呼び出します。
func ConnectWithRetry(ctx context.Context, dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	return connectWithRetry(ctx, dsn, timeout, retryInterval, opener, slog.Default())
}

func connectWithRetry(ctx context.Context, dsn string, timeout, interval time.Duration, opener Opener, log *slog.Logger) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for attempt := 1; ; attempt++ {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(interval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %d attempts: %w", attempt, err)
		}
		log.Warn("DB connect failed, retrying", "attempt", attempt, "error", err)

		t := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

// Migrate は ticks と securities のテーブルを作成します。
func Migrate(db *gorm.DB, uniqueTimeIndex bool) error {
	if err := tickadapters.Migrate(db, uniqueTimeIndex); err != nil {
		return err
	}
	return catalogadapters.Migrate(db)
}

// Ping はヘルスチェック用に接続を確認する関数を返します。
func Ping(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
