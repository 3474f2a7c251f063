package dedup

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

const (
	DefaultSeenTTL     = 30 * 24 * time.Hour
	DefaultSeenMaxSize = 50000
	seenFileName       = "seen_jobs.json"
)

type seenEntry struct {
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`
}

// SeenCache remembers source URLs processed by earlier runs so the crawl
// driver can skip them before fetching detail pages. It is bounded: entries
// expire after ttl and the oldest are evicted past maxSize. The store's own
// duplicate check remains authoritative.
type SeenCache struct {
	mu       sync.Mutex
	filePath string
	ttl      time.Duration
	maxSize  int
	seen     map[string]int64
	now      func() time.Time
}

// NewSeenCache creates or loads a cache under cacheDir. An empty cacheDir
// keeps the cache in memory only.
func NewSeenCache(cacheDir string, ttl time.Duration, maxSize int) *SeenCache {
	if ttl <= 0 {
		ttl = DefaultSeenTTL
	}
	if maxSize <= 0 {
		maxSize = DefaultSeenMaxSize
	}
	cache := &SeenCache{
		ttl:     ttl,
		maxSize: maxSize,
		seen:    make(map[string]int64),
		now:     time.Now,
	}
	if cacheDir != "" {
		if err := os.MkdirAll(cacheDir, 0755); err != nil {
			log.Printf("⚠️ Failed to create cache directory: %v", err)
		}
		cache.filePath = filepath.Join(cacheDir, seenFileName)
		cache.load()
	}
	return cache
}

// IsSeen checks if a URL was processed within the TTL.
func (c *SeenCache) IsSeen(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	ts, exists := c.seen[url]
	if !exists {
		return false
	}
	if ts <= c.cutoff() {
		delete(c.seen, url)
		return false
	}
	return true
}

// Add marks urls as seen and persists the cache when anything changed.
func (c *SeenCache) Add(urls ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UnixMilli()
	changed := false
	for _, url := range urls {
		if url == "" {
			continue
		}
		if _, exists := c.seen[url]; !exists {
			c.seen[url] = now
			changed = true
		}
	}
	if !changed {
		return
	}
	c.evict()
	c.save()
}

func (c *SeenCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}

func (c *SeenCache) cutoff() int64 {
	return c.now().Add(-c.ttl).UnixMilli()
}

// evict drops expired entries, then the oldest ones beyond maxSize.
func (c *SeenCache) evict() {
	cutoff := c.cutoff()
	for url, ts := range c.seen {
		if ts <= cutoff {
			delete(c.seen, url)
		}
	}
	if len(c.seen) <= c.maxSize {
		return
	}
	entries := c.entries()
	sort.Slice(entries, func(i, j int) bool { return entries[i].Timestamp < entries[j].Timestamp })
	for _, e := range entries[:len(entries)-c.maxSize] {
		delete(c.seen, e.URL)
	}
}

func (c *SeenCache) entries() []seenEntry {
	entries := make([]seenEntry, 0, len(c.seen))
	for url, ts := range c.seen {
		entries = append(entries, seenEntry{URL: url, Timestamp: ts})
	}
	return entries
}

// load reads the cache from disk, skipping expired entries.
func (c *SeenCache) load() {
	data, err := os.ReadFile(c.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read %s: %v", seenFileName, err)
		}
		return
	}

	var entries []seenEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("⚠️ Failed to parse %s: %v", seenFileName, err)
		return
	}

	cutoff := c.cutoff()
	loaded := 0
	for _, e := range entries {
		if e.Timestamp > cutoff {
			c.seen[e.URL] = e.Timestamp
			loaded++
		}
	}
	c.evict()
	log.Printf("📋 Loaded %d previously seen jobs (%d expired and removed)", loaded, len(entries)-loaded)
}

func (c *SeenCache) save() {
	if c.filePath == "" {
		return
	}
	data, err := json.MarshalIndent(c.entries(), "", "  ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal seen jobs: %v", err)
		return
	}
	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write %s: %v", seenFileName, err)
	}
}
