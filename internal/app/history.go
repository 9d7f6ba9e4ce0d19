package app

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

const (
	historyKey = "learning_history"

	// HistoryCap bounds the persisted log; the oldest entries are evicted
	// once the cap is exceeded.
	HistoryCap = 200
)

// HistoryStore is the durable, capacity-capped log of learning items. The
// chat flow appends to the tail; the suggestion flow inserts at the head —
// both are first-class operations. The whole log is persisted on every
// mutation; persistence failures are logged and swallowed, the in-memory
// copy stays authoritative for the rest of the process.
//
// Mutations arrive from the TUI's command goroutines while the render loop
// reads Len/Items, so the item slice is guarded by a mutex.
type HistoryStore struct {
	kv     KVStore
	logger *Logger

	now   func() time.Time
	mu    sync.Mutex
	items []LearningItem
}

func NewHistoryStore(kv KVStore, logger *Logger) *HistoryStore {
	h := &HistoryStore{kv: kv, logger: logger, now: time.Now}
	h.items = h.load()
	return h
}

func (h *HistoryStore) load() []LearningItem {
	if h.kv == nil {
		return nil
	}
	raw, ok := h.kv.Get(historyKey)
	if !ok {
		return nil
	}
	var items []LearningItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		h.logger.Warn("history decode failed, starting empty", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return items
}

// Items returns a copy of the current log, newest-first position depending on
// how entries were inserted.
func (h *HistoryStore) Items() []LearningItem {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]LearningItem, len(h.items))
	copy(out, h.items)
	return out
}

func (h *HistoryStore) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.items)
}

// Prepend inserts items at the head (suggestion flow); the tail is evicted
// past the cap.
func (h *HistoryStore) Prepend(items ...LearningItem) {
	h.stamp(items)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items = append(items, h.items...)
	if len(h.items) > HistoryCap {
		h.items = h.items[:HistoryCap]
	}
	h.persist()
}

// AppendMany inserts items at the tail (chat flow); the head is evicted past
// the cap.
func (h *HistoryStore) AppendMany(items ...LearningItem) {
	h.stamp(items)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items = append(h.items, items...)
	if n := len(h.items); n > HistoryCap {
		h.items = h.items[n-HistoryCap:]
	}
	h.persist()
}

// Clear resets the log to empty and persists the empty state.
func (h *HistoryStore) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items = nil
	h.persist()
}

func (h *HistoryStore) stamp(items []LearningItem) {
	for i := range items {
		if items[i].Timestamp == 0 {
			items[i].Timestamp = h.now().UnixMilli()
		}
	}
}

// persist writes the whole log; the caller holds mu.
func (h *HistoryStore) persist() {
	if h.kv == nil {
		return
	}
	data, err := json.Marshal(h.items)
	if err == nil {
		err = h.kv.Set(historyKey, string(data))
	}
	if err != nil {
		h.logger.Warn("history persist failed", map[string]interface{}{
			"error": fmt.Sprintf("%v", err),
			"items": len(h.items),
		})
	}
}
