package usecase

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"tick_backend/internal/feature/ticks/domain/entity"
)

// State is a step of the per-security pagination loop.
type State int

const (
	StateFetching State = iota
	StatePersisting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StatePersisting:
		return "persisting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// StateObserver is notified on every transition of a security's loop.
// It is called from the security's own goroutine.
type StateObserver func(isin string, from, to State)

// Outcome is how a security's ingestion ended.
type Outcome string

const (
	OutcomeDone      Outcome = "done"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
)

// SecurityResult is the settled result of one security's ingestion.
type SecurityResult struct {
	ISIN     string
	Outcome  Outcome
	Pages    int // successful fetches, including the terminating empty page
	Ticks    int // ticks submitted for upsert
	Retries  int // failed fetch attempts
	Duration time.Duration
	Err      error
}

// ingestOne はひとつの銘柄について、空のページが返るまでカーソルを進めながらページを取得し、
// 各ページのティックを非同期でupsertします。終了前に未完了のupsertをすべて待ち合わせるため、
// 永続化の失敗はこの銘柄の結果として観測できます。
func (iu *IngestUsecase) ingestOne(ctx context.Context, isin string) SecurityResult {
	start := time.Now()
	res := SecurityResult{ISIN: isin}

	retry := newRetrier(isin, iu.cfg.Retry, iu.logger, iu.recorder)
	var cur cursor

	// 永続化が失敗した場合は wctx がキャンセルされ、以降の取得を打ち切る
	writes, wctx := errgroup.WithContext(ctx)
	writes.SetLimit(iu.cfg.PendingWrites)

	state := StateFetching
	transition := func(to State) {
		if iu.observer != nil {
			iu.observer(isin, state, to)
		}
		state = to
	}

	var fetchErr error
	for {
		var page entity.Page
		err := retry.Do(wctx, func(ctx context.Context) error {
			var err error
			page, err = iu.market.FetchPage(ctx, isin, cur.After())
			return err
		})
		if err != nil {
			fetchErr = err
			break
		}
		res.Pages++

		if page.Empty() {
			break
		}
		if !cur.Advance(page.MaxID) {
			iu.logger.Warn("page did not advance cursor, treating as end of data",
				"isin", isin, "cursor", cur.After(), "max_id", page.MaxID)
			break
		}
		iu.recorder.PageFetched(isin, len(page.Ticks))

		// 日付のないプレースホルダだけのページはカーソルのみ進める
		if len(page.Ticks) == 0 {
			continue
		}

		transition(StatePersisting)
		ticks := page.Ticks
		res.Ticks += len(ticks)
		writes.Go(func() error {
			if err := iu.ticks.UpsertBatch(wctx, ticks); err != nil {
				return err
			}
			iu.recorder.TicksPersisted(len(ticks))
			return nil
		})
		transition(StateFetching)
	}

	iu.logger.Debug("awaiting queued upserts", "isin", isin, "count", res.Ticks, "pages", res.Pages)
	persistErr := writes.Wait()

	res.Retries = retry.total
	res.Duration = time.Since(start)

	switch {
	case persistErr != nil:
		res.Err = persistErr
	case fetchErr != nil:
		res.Err = fetchErr
	}

	switch {
	case res.Err == nil:
		res.Outcome = OutcomeDone
		transition(StateDone)
	case ctx.Err() != nil && errors.Is(res.Err, ctx.Err()):
		res.Outcome = OutcomeCancelled
		transition(StateFailed)
	default:
		res.Outcome = OutcomeFailed
		transition(StateFailed)
	}
	return res
}
