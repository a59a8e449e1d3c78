package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cataloghandler "tick_backend/internal/feature/catalog/transport/handler"
	tickshandler "tick_backend/internal/feature/ticks/transport/handler"
	platformhandler "tick_backend/internal/platform/http/handler"
)

// NewRouter は読み取り専用APIのルーティングを設定します。
// metrics が nil の場合 /metrics は登録しません。
func NewRouter(health *platformhandler.HealthHandler, ticks *tickshandler.TicksHandler,
	securities *cataloghandler.SecurityHandler, metrics http.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// 導通確認用
	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)
	r.OPTIONS("/healthz", health.Health)

	r.GET("/securities", securities.List)
	r.GET("/ticks/:isin", ticks.GetTicksHandler)
	r.GET("/quotes/:isin", ticks.GetQuoteHandler)

	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}

	return r
}
