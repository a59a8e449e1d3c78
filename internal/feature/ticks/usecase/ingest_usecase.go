package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// IngestConfig holds the scheduler settings.
type IngestConfig struct {
	Concurrency   int // securities ingesting at the same time
	PendingWrites int // upserts per security that may be in flight while the next page is fetched
	Retry         RetryConfig
}

// DefaultIngestConfig returns the canonical defaults.
func DefaultIngestConfig() IngestConfig {
	return IngestConfig{
		Concurrency:   4,
		PendingWrites: 4,
		Retry:         DefaultRetryConfig(),
	}
}

// IngestUsecase は上流APIから全銘柄の約定ティックを取得し、データベースに永続化するユースケースを定義します。
// ロガー、ストア、HTTPクライアントは生成時に明示的に渡され、グローバルな状態は持ちません。
type IngestUsecase struct {
	market   QuoteSource
	ticks    TickWriter
	cfg      IngestConfig
	logger   *slog.Logger
	recorder Recorder
	observer StateObserver
}

// IngestOption configures an IngestUsecase.
type IngestOption func(*IngestUsecase)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) IngestOption {
	return func(iu *IngestUsecase) {
		iu.logger = logger
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) IngestOption {
	return func(iu *IngestUsecase) {
		iu.recorder = r
	}
}

// WithStateObserver registers a hook for pagination state transitions.
func WithStateObserver(o StateObserver) IngestOption {
	return func(iu *IngestUsecase) {
		iu.observer = o
	}
}

// NewIngestUsecase は新しい IngestUsecase を作成します。
func NewIngestUsecase(market QuoteSource, ticks TickWriter, cfg IngestConfig, opts ...IngestOption) *IngestUsecase {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.PendingWrites < 1 {
		cfg.PendingWrites = 1
	}
	iu := &IngestUsecase{
		market:   market,
		ticks:    ticks,
		cfg:      cfg,
		logger:   slog.Default(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(iu)
	}
	return iu
}

// RunSummary is the aggregate result of one ingestion run.
type RunSummary struct {
	Started  time.Time
	Finished time.Time
	Results  []SecurityResult // catalog order
}

// Failed returns the securities that did not complete.
func (s RunSummary) Failed() []SecurityResult {
	var out []SecurityResult
	for _, r := range s.Results {
		if r.Outcome != OutcomeDone {
			out = append(out, r)
		}
	}
	return out
}

// Ticks returns the number of ticks submitted across all securities.
func (s RunSummary) Ticks() int {
	n := 0
	for _, r := range s.Results {
		n += r.Ticks
	}
	return n
}

// IngestAll は重複を除いた全銘柄について ingestOne を実行します。
// 同時に処理する銘柄数は Concurrency で制限され、残りはカタログ順に待機します。
// ある銘柄が失敗しても他の銘柄の処理は継続し、すべての銘柄が終了してから結果を返します。
// 返すエラーは実行自体が成立しなかった場合（空のカタログ、キャンセル）のみで、
// 銘柄ごとの失敗は RunSummary に含まれます。
func (iu *IngestUsecase) IngestAll(ctx context.Context, isins []string) (RunSummary, error) {
	list := iu.dedupe(isins)
	if len(list) == 0 {
		return RunSummary{}, ErrEmptyCatalog
	}

	summary := RunSummary{Started: time.Now(), Results: make([]SecurityResult, len(list))}
	iu.logger.Info("ingest run started", "securities", len(list), "concurrency", iu.cfg.Concurrency)

	var g errgroup.Group
	g.SetLimit(iu.cfg.Concurrency)
	for i, isin := range list {
		if err := ctx.Err(); err != nil {
			summary.Results[i] = SecurityResult{ISIN: isin, Outcome: OutcomeCancelled, Err: err}
			continue
		}
		g.Go(func() error {
			iu.recorder.SecurityStarted()
			res := iu.ingestOne(ctx, isin)
			iu.recorder.SecurityFinished(string(res.Outcome), res.Duration)
			if res.Err != nil {
				iu.logger.Error("security ingestion failed", "isin", isin, "outcome", res.Outcome, "error", res.Err)
			}
			summary.Results[i] = res
			return nil
		})
	}
	_ = g.Wait()
	summary.Finished = time.Now()

	failed := summary.Failed()
	failedISINs := make([]string, 0, len(failed))
	for _, r := range failed {
		failedISINs = append(failedISINs, r.ISIN)
	}
	iu.logger.Info("ingest run finished",
		"securities", len(list),
		"ticks", summary.Ticks(),
		"failed", len(failed),
		"failed_isins", failedISINs,
		"duration", summary.Finished.Sub(summary.Started),
	)

	return summary, ctx.Err()
}

// dedupe はカタログ順を保ったまま重複と不正な識別子を取り除きます。
// 複数のカタログに含まれる銘柄は1回の実行につき1回だけ処理されます。
func (iu *IngestUsecase) dedupe(isins []string) []string {
	seen := make(map[string]struct{}, len(isins))
	out := make([]string, 0, len(isins))
	for _, raw := range isins {
		isin := strings.ToUpper(strings.TrimSpace(raw))
		// ストアの制約と同じく8文字未満は受け付けない
		if len(isin) < 8 {
			iu.logger.Warn("skipping invalid security identifier", "isin", raw)
			continue
		}
		if _, ok := seen[isin]; ok {
			continue
		}
		seen[isin] = struct{}{}
		out = append(out, isin)
	}
	return out
}
