package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB はテスト用のインメモリSQLiteデータベースを準備します。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err, "failed to initialize test database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db), "failed to migrate table")
	return db
}

// seedSecurity はテスト用の銘柄データをデータベースに作成します。
func seedSecurity(t *testing.T, db *gorm.DB, isin, name string, isActive bool, sortKey int) {
	t.Helper()

	m := &SecurityModel{ISIN: isin, Name: name, IsActive: true, SortKey: sortKey}
	require.NoError(t, db.Create(m).Error, "failed to seed security")
	// gormはゼロ値のfalseをINSERTで省略しデフォルトのtrueが入るため、明示的に更新する
	if !isActive {
		require.NoError(t, db.Model(m).Update("is_active", false).Error)
	}
}

func TestNewSecurityRepository(t *testing.T) {
	t.Parallel()

	repo := NewSecurityRepository(setupTestDB(t))

	assert.NotNil(t, repo, "repository should not be nil")
	assert.NotNil(t, repo.db, "database connection should not be nil")
	assert.Equal(t, "securities table", repo.Name())
}

func TestSecurityGorm_List(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		seed      func(t *testing.T, db *gorm.DB)
		wantISINs []string
	}{
		{
			name:      "empty table",
			seed:      func(t *testing.T, db *gorm.DB) {},
			wantISINs: []string{},
		},
		{
			name: "active securities in sort_key order",
			seed: func(t *testing.T, db *gorm.DB) {
				seedSecurity(t, db, "NL0012969182", "Adyen", true, 2)
				seedSecurity(t, db, "DE0007100000", "Mercedes-Benz Group", true, 1)
				seedSecurity(t, db, "US0378331005", "Apple", false, 0)
			},
			wantISINs: []string{"DE0007100000", "NL0012969182"},
		},
		{
			name: "ties broken by isin",
			seed: func(t *testing.T, db *gorm.DB) {
				seedSecurity(t, db, "NL0012969182", "", true, 0)
				seedSecurity(t, db, "DE000BASF111", "", true, 0)
			},
			wantISINs: []string{"DE000BASF111", "NL0012969182"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db := setupTestDB(t)
			tt.seed(t, db)

			got, err := NewSecurityRepository(db).List(context.Background())
			require.NoError(t, err)

			isins := make([]string, 0, len(got))
			for _, s := range got {
				isins = append(isins, s.ISIN)
			}
			assert.Equal(t, tt.wantISINs, isins)
		})
	}
}

func TestSecurityModel_UniqueISIN(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	seedSecurity(t, db, "DE0007100000", "", true, 0)

	err := db.Create(&SecurityModel{ISIN: "DE0007100000", IsActive: true}).Error
	assert.Error(t, err)
}
