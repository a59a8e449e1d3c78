package tradegate

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"

	"tick_backend/internal/feature/ticks/domain"
	"tick_backend/internal/feature/ticks/domain/entity"
	"tick_backend/internal/feature/ticks/usecase"
	"tick_backend/internal/platform/externalapi/tradegate/dto"
	"tick_backend/internal/shared/ratelimiter"
)

// maxBodySize caps a single response; a full trading day of one security stays far below it.
const maxBodySize = 32 << 20

// TradegateMarket はTradegateのエンドポイントから約定ティックと気配値を取得するクライアントです。
// 状態を持たないため、複数の銘柄のgoroutineから同時に利用できます。
type TradegateMarket struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
	logger  *slog.Logger
}

// TradegateMarketがQuoteSourceを実装していることをコンパイル時に検証します。
var _ usecase.QuoteSource = (*TradegateMarket)(nil)

// Option configures a TradegateMarket.
type Option func(*TradegateMarket)

// WithLogger sets the logger used for skipped-record warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(m *TradegateMarket) {
		m.logger = logger
	}
}

// WithRateLimiter paces outgoing requests across all callers.
func WithRateLimiter(rl ratelimiter.RateLimiterInterface) Option {
	return func(m *TradegateMarket) {
		m.limiter = rl
	}
}

// NewTradegateMarket は指定された設定とHTTPクライアントでTradegateMarketの新しいインスタンスを生成します。
func NewTradegateMarket(cfg Config, client *http.Client, opts ...Option) *TradegateMarket {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MalformedPolicy == "" {
		cfg.MalformedPolicy = MalformedRetry
	}
	m := &TradegateMarket{cfg: cfg, client: client, logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FetchPage は指定銘柄の約定ティックを1ページ取得し、正規化して返します。
// afterID が0より大きい場合は、それより大きいIDのティックのみを要求します。
// 空のレスポンスはページング終了のシグナルであり、エラーではありません。
func (m *TradegateMarket) FetchPage(ctx context.Context, isin string, afterID int64) (entity.Page, error) {
	q := url.Values{}
	q.Set("isin", isin)
	if afterID > 0 {
		q.Set("id", strconv.FormatInt(afterID, 10))
	}

	body, err := m.get(ctx, isin, "umsaetze.php", q)
	if err != nil {
		return entity.Page{}, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return entity.Page{}, nil
	}

	var raw []dto.Trade
	if err := json.Unmarshal(body, &raw); err != nil {
		return entity.Page{}, &domain.MalformedRecordError{ISIN: isin, Err: fmt.Errorf("decode trades: %w", err)}
	}
	return m.toPage(isin, raw)
}

// Quote は指定銘柄の現在の気配値スナップショットを取得します。
func (m *TradegateMarket) Quote(ctx context.Context, isin string) (entity.Quote, error) {
	q := url.Values{}
	q.Set("isin", isin)

	body, err := m.get(ctx, isin, "refresh.php", q)
	if err != nil {
		return entity.Quote{}, err
	}

	var raw dto.Quote
	if err := json.Unmarshal(body, &raw); err != nil {
		return entity.Quote{}, &domain.MalformedRecordError{ISIN: isin, Err: fmt.Errorf("decode quote: %w", err)}
	}

	out := entity.Quote{ISIN: isin}
	fields := []struct {
		name string
		src  dto.Number
		dst  *decimal.Decimal
	}{
		{"bid", raw.Bid, &out.Bid},
		{"ask", raw.Ask, &out.Ask},
		{"bidsize", raw.BidSize, &out.BidSize},
		{"asksize", raw.AskSize, &out.AskSize},
		{"delta", raw.Delta, &out.Delta},
		{"last", raw.Last, &out.Last},
		{"high", raw.High, &out.High},
		{"low", raw.Low, &out.Low},
		{"close", raw.Close, &out.Close},
		{"avg", raw.Avg, &out.Avg},
		{"stueck", raw.Pieces, &out.Pieces},
		{"umsatz", raw.Turnover, &out.Turnover},
	}
	for _, f := range fields {
		// 取引のない銘柄では一部のフィールドが空で返される
		if f.src.Raw == "" {
			continue
		}
		d, err := NormalizeNumber(f.src.Raw)
		if err != nil {
			return entity.Quote{}, &domain.MalformedRecordError{ISIN: isin, Field: f.name, Value: f.src.Raw, Err: err}
		}
		*f.dst = d
	}
	if raw.Executions.Raw != "" {
		n, err := NormalizeNumber(raw.Executions.Raw)
		if err != nil {
			return entity.Quote{}, &domain.MalformedRecordError{ISIN: isin, Field: "executions", Value: raw.Executions.Raw, Err: err}
		}
		out.Executions = n.IntPart()
	}
	return out, nil
}

// get はGETリクエストを1回実行し、レスポンスボディを返します。
// Content-Length: 0 のレスポンスは空のボディとして扱います。
func (m *TradegateMarket) get(ctx context.Context, isin, path string, q url.Values) ([]byte, error) {
	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return nil, &domain.FetchError{ISIN: isin, Err: err}
		}
	}

	u := fmt.Sprintf("%s/%s?%s", m.cfg.BaseURL, path, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", m.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	res, err := m.client.Do(req)
	if err != nil {
		return nil, &domain.FetchError{ISIN: isin, Err: err}
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			m.logger.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		// 接続を再利用できるようにボディを読み捨てる
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4<<10))
		return nil, &domain.FetchError{ISIN: isin, StatusCode: res.StatusCode}
	}
	if res.ContentLength == 0 {
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, &domain.FetchError{ISIN: isin, Err: fmt.Errorf("read response: %w", err)}
	}
	return body, nil
}

// toPage はレスポンスのエントリをティックに変換します。
// 日付のないエントリは未確定のプレースホルダとして破棄し、同一IDはマップで1件にまとめます。
func (m *TradegateMarket) toPage(isin string, raw []dto.Trade) (entity.Page, error) {
	page := entity.Page{Raw: len(raw)}
	byID := make(map[int64]entity.Tick, len(raw))

	for _, r := range raw {
		id, err := r.ID.Int64()
		if err != nil || id < 1 {
			merr := &domain.MalformedRecordError{ISIN: isin, Field: "id", Value: r.ID.Raw, Err: errInvalidID}
			if m.cfg.MalformedPolicy == MalformedSkip {
				m.logger.Warn("skipping malformed record", "isin", isin, "error", merr)
				continue
			}
			return entity.Page{}, merr
		}
		page.MaxID = max(page.MaxID, id)

		if r.Date == "" {
			continue
		}

		tick, err := toTick(isin, id, r)
		if err != nil {
			if m.cfg.MalformedPolicy == MalformedSkip {
				m.logger.Warn("skipping malformed record", "isin", isin, "id", id, "error", err)
				continue
			}
			return entity.Page{}, err
		}
		byID[id] = tick
	}

	page.Ticks = slices.SortedFunc(maps.Values(byID), func(a, b entity.Tick) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return page, nil
}

// toTick は1件のエントリを正規化してドメインエンティティに変換します。
func toTick(isin string, id int64, r dto.Trade) (entity.Tick, error) {
	malformed := func(field, value string, err error) error {
		return &domain.MalformedRecordError{ISIN: isin, TickID: id, Field: field, Value: value, Err: err}
	}

	date, err := normalizeDate(r.Date)
	if err != nil {
		return entity.Tick{}, malformed("date", r.Date, err)
	}
	tm, err := normalizeTime(r.Time)
	if err != nil {
		return entity.Tick{}, malformed("time", r.Time, err)
	}
	price, err := NormalizeNumber(r.Price.Raw)
	if err != nil {
		return entity.Tick{}, malformed("price", r.Price.Raw, err)
	}
	turnover, err := NormalizeNumber(r.Turnover.Raw)
	if err != nil {
		return entity.Tick{}, malformed("umsatz", r.Turnover.Raw, err)
	}

	tick := entity.Tick{
		ISIN:      isin,
		ID:        id,
		TradeDate: date,
		TradeTime: tm,
		Price:     price,
		Turnover:  turnover,
	}
	if err := tick.Validate(); err != nil {
		return entity.Tick{}, malformed("record", r.ID.Raw, err)
	}
	return tick, nil
}
