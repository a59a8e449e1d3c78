// Package handler はcatalogフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tick_backend/internal/feature/catalog/domain/entity"
	"tick_backend/internal/feature/catalog/transport/http/dto"
)

// CatalogUsecase はカタログに関するユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type CatalogUsecase interface {
	ListSecurities(ctx context.Context) ([]entity.Security, error)
}

// SecurityHandler はカタログに関するHTTPリクエストを処理します。
type SecurityHandler struct {
	uc CatalogUsecase
}

// NewSecurityHandler は新しい SecurityHandler を作成します。
func NewSecurityHandler(uc CatalogUsecase) *SecurityHandler {
	return &SecurityHandler{uc: uc}
}

// List は取り込み対象の銘柄一覧を返すAPIです。
// カタログが読み込めない場合は500 Internal Server Errorを返します。
func (h *SecurityHandler) List(c *gin.Context) {
	secs, err := h.uc.ListSecurities(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]dto.SecurityItem, 0, len(secs))
	for _, s := range secs {
		out = append(out, dto.SecurityItem{ISIN: s.ISIN, Name: s.Name})
	}
	c.JSON(http.StatusOK, out)
}
