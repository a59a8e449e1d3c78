// Package handler はticksフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tick_backend/internal/feature/catalog/domain/entity"
	tickentity "tick_backend/internal/feature/ticks/domain/entity"
	"tick_backend/internal/feature/ticks/transport/http/dto"
	"tick_backend/internal/feature/ticks/usecase"
)

// TicksUsecase は永続化済みティック参照のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type TicksUsecase interface {
	GetTicks(ctx context.Context, isin, date string, limit int) ([]tickentity.Tick, error)
}

// QuoteProvider は現在の気配値を返す上流クライアントです。
type QuoteProvider interface {
	Quote(ctx context.Context, isin string) (tickentity.Quote, error)
}

// TicksHandler はティックと気配値のHTTPリクエストを処理します。
type TicksHandler struct {
	uc     TicksUsecase
	quotes QuoteProvider
}

// NewTicksHandler は指定されたusecaseとクライアントでTicksHandlerの新しいインスタンスを生成します。
// quotes が nil の場合、気配値エンドポイントは 501 を返します。
func NewTicksHandler(uc TicksUsecase, quotes QuoteProvider) *TicksHandler {
	return &TicksHandler{uc: uc, quotes: quotes}
}

// GetTicksHandler は銘柄の約定ティックを約定時刻順にJSONで返します。
//
// エンドポイント例:
// GET /ticks/:isin?date=2024-03-01&limit=500
func (h *TicksHandler) GetTicksHandler(c *gin.Context) {
	isin, ok := normalizeParam(c)
	if !ok {
		return
	}
	date := c.Query("date")
	// 不正な値は0となり、usecaseでデフォルト値に変換される
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	ticks, err := h.uc.GetTicks(c.Request.Context(), isin, date, limit)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidDate) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}

	out := make([]dto.TickResponse, 0, len(ticks))
	for _, t := range ticks {
		out = append(out, dto.TickResponse{
			ID:       t.ID,
			Date:     t.TradeDate,
			Time:     t.TradeTime,
			Price:    t.Price,
			Turnover: t.Turnover,
		})
	}
	c.JSON(http.StatusOK, out)
}

// GetQuoteHandler は銘柄の現在の気配値を上流から取得して返します。
//
// エンドポイント例:
// GET /quotes/:isin
func (h *TicksHandler) GetQuoteHandler(c *gin.Context) {
	if h.quotes == nil {
		c.JSON(http.StatusNotImplemented, dto.ErrorResponse{Error: "quotes are not available"})
		return
	}
	isin, ok := normalizeParam(c)
	if !ok {
		return
	}

	q, err := h.quotes.Quote(c.Request.Context(), isin)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		c.JSON(status, dto.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.QuoteResponse{
		ISIN:       q.ISIN,
		Bid:        q.Bid,
		Ask:        q.Ask,
		BidSize:    q.BidSize,
		AskSize:    q.AskSize,
		Last:       q.Last,
		Delta:      q.Delta,
		High:       q.High,
		Low:        q.Low,
		Close:      q.Close,
		Avg:        q.Avg,
		Pieces:     q.Pieces,
		Turnover:   q.Turnover,
		Executions: q.Executions,
	})
}

// normalizeParam はパスの ISIN を検証し、不正な場合は 400 を書き込みます。
func normalizeParam(c *gin.Context) (string, bool) {
	isin, err := entity.NormalizeISIN(c.Param("isin"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return "", false
	}
	return isin, true
}
