package persistence

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"sync"
	"time"
)

// CacheKey derives the stable lookup key for a source text and target
// language pair.
func CacheKey(sourceText string, targetLang string) string {
	h := sha256.New()
	h.Write([]byte(sourceText))
	h.Write([]byte{0})
	h.Write([]byte(targetLang))
	return hex.EncodeToString(h.Sum(nil))
}

func (s *SQLiteStore) PutTranslation(ctx context.Context, sourceText string, targetLang string, translated string) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO translation_cache (cache_key, source_text, target_lang, translated_text, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET
			translated_text=excluded.translated_text,
			updated_at=excluded.updated_at`,
		CacheKey(sourceText, targetLang),
		sourceText,
		targetLang,
		translated,
		time.Now().UTC(),
	)
	return err
}

func (s *SQLiteStore) GetTranslation(ctx context.Context, sourceText string, targetLang string) (string, bool, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT translated_text FROM translation_cache WHERE cache_key = ?`,
		CacheKey(sourceText, targetLang),
	)
	var translated string
	if err := row.Scan(&translated); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return translated, true, nil
}

// PurgeTranslations drops cached translations older than the cutoff and
// reports how many rows went away.
func (s *SQLiteStore) PurgeTranslations(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM translation_cache WHERE updated_at <= ?`, olderThan.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// TranslationCache layers an in-process map over the SQLite table so hot
// strings skip the database round trip. Safe for concurrent use. A nil
// store degrades to memory-only caching.
type TranslationCache struct {
	store *SQLiteStore

	mu  sync.RWMutex
	hot map[string]string
}

func NewTranslationCache(store *SQLiteStore) *TranslationCache {
	return &TranslationCache{
		store: store,
		hot:   make(map[string]string),
	}
}

func (c *TranslationCache) Get(ctx context.Context, sourceText string, targetLang string) (string, bool, error) {
	key := CacheKey(sourceText, targetLang)

	c.mu.RLock()
	translated, ok := c.hot[key]
	c.mu.RUnlock()
	if ok {
		return translated, true, nil
	}

	if c.store == nil {
		return "", false, nil
	}
	translated, ok, err := c.store.GetTranslation(ctx, sourceText, targetLang)
	if err != nil || !ok {
		return "", ok, err
	}

	c.mu.Lock()
	c.hot[key] = translated
	c.mu.Unlock()
	return translated, true, nil
}

func (c *TranslationCache) Put(ctx context.Context, sourceText string, targetLang string, translated string) error {
	key := CacheKey(sourceText, targetLang)

	c.mu.Lock()
	c.hot[key] = translated
	c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	return c.store.PutTranslation(ctx, sourceText, targetLang, translated)
}
