package adapters

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tick_backend/internal/feature/catalog/domain/entity"
)

func TestFileCatalog_List(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		want    []entity.Security
		wantErr bool
	}{
		{
			name: "array of objects keeps order and raw identifiers",
			path: "testdata/dax.json",
			want: []entity.Security{
				{ISIN: "DE0007100000", Name: "Mercedes-Benz Group"},
				{ISIN: "DE000BASF111", Name: "BASF"},
				{ISIN: "de0007100000"},
				{ISIN: "DE0007100001", Name: "bad check digit"},
			},
		},
		{
			name: "object keyed by isin keeps key order",
			path: "testdata/watchlist.json",
			want: []entity.Security{
				{ISIN: "NL0012969182", Name: "Adyen"},
				{ISIN: "US0378331005", Name: "Apple"},
				{ISIN: "DE0007100000"},
			},
		},
		{
			name: "array of strings",
			path: "testdata/plain.json",
			want: []entity.Security{{ISIN: "US0378331005"}, {ISIN: "NL0012969182"}},
		},
		{
			name:    "truncated file",
			path:    "testdata/broken.json",
			wantErr: true,
		},
		{
			name:    "missing file",
			path:    "testdata/does-not-exist.json",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewFileCatalog(tt.path).List(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileCatalog_Name(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "dax.json", NewFileCatalog("testdata/dax.json").Name())
}

func TestDecodeCatalog_RejectsScalar(t *testing.T) {
	t.Parallel()

	_, err := decodeCatalog([]byte(`"DE0007100000"`))
	assert.Error(t, err)
}

func TestFileCatalog_ReadsOnEveryList(t *testing.T) {
	t.Parallel()

	path := t.TempDir() + "/catalog.json"
	require.NoError(t, os.WriteFile(path, []byte(`["DE0007100000"]`), 0o600))
	c := NewFileCatalog(path)

	got, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NoError(t, os.WriteFile(path, []byte(`["DE0007100000", "NL0012969182"]`), 0o600))
	got, err = c.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
