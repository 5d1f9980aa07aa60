package feed

import "sync"

// CacheKey identifies one translation of one story.
type CacheKey struct {
	StoryID string
	Lang    string
}

// Translated is a cached title/content pair.
type Translated struct {
	Title   string
	Content string
}

// TranslationCache holds translations for the lifetime of a feed session.
// Concurrent writers for the same key race; the last Put wins.
type TranslationCache struct {
	mu sync.RWMutex
	m  map[CacheKey]Translated
}

// NewTranslationCache returns an empty cache.
func NewTranslationCache() *TranslationCache {
	return &TranslationCache{m: make(map[CacheKey]Translated)}
}

// Get returns the cached translation for k.
func (c *TranslationCache) Get(k CacheKey) (Translated, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.m[k]
	return t, ok
}

// Put stores t under k, replacing any previous value.
func (c *TranslationCache) Put(k CacheKey, t Translated) {
	c.mu.Lock()
	c.m[k] = t
	c.mu.Unlock()
}

// Forget drops every translation of storyID.
func (c *TranslationCache) Forget(storyID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.m {
		if k.StoryID == storyID {
			delete(c.m, k)
		}
	}
}

// Len returns the number of cached translations.
func (c *TranslationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
