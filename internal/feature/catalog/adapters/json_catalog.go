// Package adapters はcatalogフィーチャーのカタログ読み込み実装を提供します。
package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"tick_backend/internal/feature/catalog/domain/entity"
	"tick_backend/internal/feature/catalog/usecase"
)

// fileCatalog は静的なJSONファイルのカタログです。
// ファイルは {isin, name} の配列、ISIN の文字列配列、または ISIN をキーとするオブジェクトのいずれかです。
type fileCatalog struct {
	path string
}

var _ usecase.SecuritySource = (*fileCatalog)(nil)

// NewFileCatalog は指定されたパスのJSONカタログを生成します。ファイルは List のたびに読み込まれます。
func NewFileCatalog(path string) *fileCatalog {
	return &fileCatalog{path: path}
}

func (c *fileCatalog) Name() string {
	return filepath.Base(c.path)
}

// List はファイルに記載された順序でエントリを返します。ISINの検証は usecase が行います。
func (c *fileCatalog) List(ctx context.Context) ([]entity.Security, error) {
	b, err := os.ReadFile(c.path)
	if err != nil {
		return nil, err
	}
	return decodeCatalog(b)
}

// decodeCatalog はトークン単位で読み進め、オブジェクト形式でもキーの順序を保ちます。
func decodeCatalog(b []byte) ([]entity.Security, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	var out []entity.Security
	switch tok {
	case json.Delim('['):
		for dec.More() {
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, fmt.Errorf("decode catalog entry %d: %w", len(out), err)
			}
			s, err := decodeEntry("", raw)
			if err != nil {
				return nil, fmt.Errorf("decode catalog entry %d: %w", len(out), err)
			}
			out = append(out, s)
		}
	case json.Delim('{'):
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("decode catalog: %w", err)
			}
			key, _ := keyTok.(string)
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, fmt.Errorf("decode catalog entry %q: %w", key, err)
			}
			s, err := decodeEntry(key, raw)
			if err != nil {
				return nil, fmt.Errorf("decode catalog entry %q: %w", key, err)
			}
			out = append(out, s)
		}
	default:
		return nil, fmt.Errorf("decode catalog: expected array or object, got %v", tok)
	}
	return out, nil
}

// decodeEntry は1件のエントリを変換します。key はオブジェクト形式のときのキーです。
func decodeEntry(key string, raw json.RawMessage) (entity.Security, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case bytes.Equal(raw, []byte("null")):
		return entity.Security{ISIN: key}, nil
	case len(raw) > 0 && raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return entity.Security{}, err
		}
		if key == "" {
			return entity.Security{ISIN: s}, nil
		}
		return entity.Security{ISIN: key, Name: s}, nil
	default:
		var sec entity.Security
		if err := json.Unmarshal(raw, &sec); err != nil {
			return entity.Security{}, err
		}
		if sec.ISIN == "" {
			sec.ISIN = key
		}
		return sec, nil
	}
}
