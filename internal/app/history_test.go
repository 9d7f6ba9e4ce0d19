package app

import (
	"fmt"
	"io"
	"sync"
	"testing"
	"time"
)

func testHistory(t *testing.T) (*HistoryStore, KVStore) {
	t.Helper()
	kv := NewFileKV(t.TempDir())
	return NewHistoryStore(kv, NewLogger(io.Discard)), kv
}

func item(i int) LearningItem {
	return LearningItem{Word: fmt.Sprintf("w%d", i), Topic: "general", Level: "Beginner", Hint: "h"}
}

func TestHistoryAppendCapsAtNewestTail(t *testing.T) {
	h, _ := testHistory(t)
	for i := 0; i < 210; i++ {
		h.AppendMany(item(i))
	}
	items := h.Items()
	if len(items) != HistoryCap {
		t.Fatalf("len = %d, want %d", len(items), HistoryCap)
	}
	// Tail insertion evicts the head: the survivors are 10..209.
	if items[0].Word != "w10" {
		t.Fatalf("oldest survivor = %q, want w10", items[0].Word)
	}
	if items[len(items)-1].Word != "w209" {
		t.Fatalf("newest = %q, want w209", items[len(items)-1].Word)
	}
}

func TestHistoryPrependCapsAtNewestHead(t *testing.T) {
	h, _ := testHistory(t)
	for i := 0; i < 210; i++ {
		h.Prepend(item(i))
	}
	items := h.Items()
	if len(items) != HistoryCap {
		t.Fatalf("len = %d, want %d", len(items), HistoryCap)
	}
	// Head insertion evicts the tail: the survivors are 209 down to 10.
	if items[0].Word != "w209" {
		t.Fatalf("newest = %q, want w209", items[0].Word)
	}
	if items[len(items)-1].Word != "w10" {
		t.Fatalf("oldest survivor = %q, want w10", items[len(items)-1].Word)
	}
}

func TestHistoryStampsUnstampedItems(t *testing.T) {
	h, _ := testHistory(t)
	h.now = func() time.Time { return time.UnixMilli(1700000000000) }

	stamped := item(0)
	stamped.Timestamp = 42
	h.AppendMany(stamped, item(1))

	items := h.Items()
	if items[0].Timestamp != 42 {
		t.Fatalf("pre-stamped item rewritten: %d", items[0].Timestamp)
	}
	if items[1].Timestamp != 1700000000000 {
		t.Fatalf("unstamped item not stamped: %d", items[1].Timestamp)
	}
}

func TestHistoryPersistsAcrossReload(t *testing.T) {
	kv := NewFileKV(t.TempDir())
	logger := NewLogger(io.Discard)

	h := NewHistoryStore(kv, logger)
	h.AppendMany(item(1), item(2))
	h.Prepend(item(3))

	reloaded := NewHistoryStore(kv, logger)
	items := reloaded.Items()
	if len(items) != 3 {
		t.Fatalf("reloaded len = %d, want 3", len(items))
	}
	if items[0].Word != "w3" || items[2].Word != "w2" {
		t.Fatalf("reloaded order wrong: %q ... %q", items[0].Word, items[2].Word)
	}
}

func TestHistoryClear(t *testing.T) {
	kv := NewFileKV(t.TempDir())
	logger := NewLogger(io.Discard)

	h := NewHistoryStore(kv, logger)
	h.AppendMany(item(1))
	h.Clear()
	if h.Len() != 0 {
		t.Fatalf("len after clear = %d", h.Len())
	}
	if got := NewHistoryStore(kv, logger).Len(); got != 0 {
		t.Fatalf("clear not persisted, reloaded len = %d", got)
	}
}

func TestHistorySwallowsPersistFailures(t *testing.T) {
	h := NewHistoryStore(errKV{}, NewLogger(io.Discard))
	h.AppendMany(item(1))
	h.Prepend(item(2))
	// The in-memory copy stays correct for the rest of the process.
	items := h.Items()
	if len(items) != 2 || items[0].Word != "w2" {
		t.Fatalf("in-memory log wrong after failed persists: %+v", items)
	}
}

func TestHistoryConcurrentMutationAndReads(t *testing.T) {
	h, _ := testHistory(t)

	// Writers mutate from both ends while a reader keeps polling, the way
	// the UI reads Len/Items on every frame during an in-flight request.
	// Run under -race.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			h.AppendMany(item(i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 100; i < 200; i++ {
			h.Prepend(item(i))
		}
	}()
	for i := 0; i < 200; i++ {
		_ = h.Len()
		_ = h.Items()
	}
	wg.Wait()

	if h.Len() != 200 {
		t.Fatalf("len after concurrent inserts = %d, want 200", h.Len())
	}
}

func TestHistoryStartsEmptyOnCorruptStore(t *testing.T) {
	kv := NewFileKV(t.TempDir())
	if err := kv.Set(historyKey, "{not json"); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	h := NewHistoryStore(kv, NewLogger(io.Discard))
	if h.Len() != 0 {
		t.Fatalf("expected empty log on corrupt store, got %d", h.Len())
	}
}
