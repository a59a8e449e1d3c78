package adapters

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"tick_backend/internal/feature/catalog/domain/entity"
	"tick_backend/internal/feature/catalog/usecase"
)

// SecurityModel は securities テーブルの行です。
type SecurityModel struct {
	ID        uint      `gorm:"primaryKey"`
	ISIN      string    `gorm:"column:isin;size:12;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null;default:''"`
	IsActive  bool      `gorm:"not null;default:true"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (SecurityModel) TableName() string {
	return "securities"
}

// Migrate は securities テーブルを作成します。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&SecurityModel{}); err != nil {
		return fmt.Errorf("migrate securities: %w", err)
	}
	return nil
}

// securityGorm はデータベースの securities テーブルを読むカタログです。
type securityGorm struct {
	db *gorm.DB
}

var _ usecase.SecuritySource = (*securityGorm)(nil)

// NewSecurityRepository は指定されたDB接続でsecurityGormリポジトリの新しいインスタンスを生成します。
func NewSecurityRepository(db *gorm.DB) *securityGorm {
	return &securityGorm{db: db}
}

func (r *securityGorm) Name() string {
	return "securities table"
}

// List はsort_key順にすべてのアクティブな銘柄を返します。
func (r *securityGorm) List(ctx context.Context) ([]entity.Security, error) {
	var rows []SecurityModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_key ASC, isin ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Security, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.Security{ISIN: m.ISIN, Name: m.Name})
	}
	return out, nil
}
