package middleware

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// In-memory response cache for cheap GET endpoints the dashboard polls
// (statistics, today's detection list). Entries are small JSON bodies;
// correctness relies on short expirations, not invalidation.

type cacheEntry struct {
	content    []byte
	expiration time.Time
}

type memoryCache struct {
	sync.RWMutex
	items map[string]cacheEntry
}

var responseCache = &memoryCache{items: make(map[string]cacheEntry)}

func init() {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			cleanExpiredCache()
		}
	}()
}

func cleanExpiredCache() {
	now := time.Now()
	responseCache.Lock()
	defer responseCache.Unlock()
	for key, entry := range responseCache.items {
		if entry.expiration.Before(now) {
			delete(responseCache.items, key)
		}
	}
}

// cacheKey hashes the path and sorted query string
func cacheKey(c *gin.Context) string {
	path := c.Request.URL.Path
	queryParams := c.Request.URL.Query()

	keys := make([]string, 0, len(queryParams))
	for key := range queryParams {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var query string
	for _, key := range keys {
		values := queryParams[key]
		sort.Strings(values)
		for _, value := range values {
			query += key + "=" + value + "&"
		}
	}

	hasher := md5.New()
	hasher.Write([]byte(path + "?" + query))
	return hex.EncodeToString(hasher.Sum(nil))
}

// Cache serves identical GET requests from memory for the given expiration
func Cache(expiration time.Duration) gin.HandlerFunc {
	if expiration <= 0 {
		expiration = time.Minute
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cacheKey(c)

		responseCache.RLock()
		entry, found := responseCache.items[key]
		responseCache.RUnlock()
		if found && entry.expiration.After(time.Now()) {
			c.Data(http.StatusOK, "application/json; charset=utf-8", entry.content)
			c.Abort()
			return
		}

		writer := &cachingWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer
		c.Next()

		if c.Writer.Status() == http.StatusOK {
			responseCache.Lock()
			responseCache.items[key] = cacheEntry{
				content:    writer.body.Bytes(),
				expiration: time.Now().Add(expiration),
			}
			responseCache.Unlock()
		}
	}
}

// PurgeCache drops every cached response
func PurgeCache() {
	responseCache.Lock()
	responseCache.items = make(map[string]cacheEntry)
	responseCache.Unlock()
}

// cachingWriter tees the response body into a buffer
type cachingWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *cachingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *cachingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
