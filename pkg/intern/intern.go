// Package intern maps strings to small, stable integer keys.
//
// A StringKey is created once per distinct string and lives for the whole process.
// Comparing two keys is an integer comparison, which makes them cheap map keys for
// definition names, field names, directive names and argument names.
package intern

import (
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/atomic"
)

const shardCount = 64

// StringKey is the interned handle of a string. The zero value is the empty string.
type StringKey uint32

// Empty is the key of the empty string.
const Empty StringKey = 0

type shard struct {
	mu   sync.RWMutex
	keys map[string]StringKey
}

type table struct {
	shards [shardCount]shard

	arenaMu sync.RWMutex
	arena   []string

	count atomic.Uint32
}

var global = newTable()

func newTable() *table {
	t := &table{
		arena: make([]string, 1, 1024),
	}
	for i := range t.shards {
		t.shards[i].keys = make(map[string]StringKey)
	}
	t.shards[t.shardFor("")].keys[""] = Empty
	t.count.Store(1)
	return t
}

func (t *table) shardFor(s string) uint64 {
	return xxhash.Sum64String(s) % shardCount
}

func (t *table) intern(s string) StringKey {
	sh := &t.shards[t.shardFor(s)]

	sh.mu.RLock()
	key, ok := sh.keys[s]
	sh.mu.RUnlock()
	if ok {
		return key
	}

	sh.mu.Lock()
	defer sh.mu.Unlock()
	if key, ok = sh.keys[s]; ok {
		return key
	}

	t.arenaMu.Lock()
	key = StringKey(len(t.arena))
	t.arena = append(t.arena, s)
	t.arenaMu.Unlock()

	sh.keys[s] = key
	t.count.Inc()
	return key
}

func (t *table) lookup(s string) (StringKey, bool) {
	sh := &t.shards[t.shardFor(s)]
	sh.mu.RLock()
	key, ok := sh.keys[s]
	sh.mu.RUnlock()
	return key, ok
}

func (t *table) resolve(key StringKey) string {
	t.arenaMu.RLock()
	defer t.arenaMu.RUnlock()
	if int(key) >= len(t.arena) {
		panic("intern: unknown string key")
	}
	return t.arena[key]
}

// Intern returns the key for s, creating it on first use.
func Intern(s string) StringKey {
	return global.intern(s)
}

// InternBytes is Intern for a byte slice.
func InternBytes(b []byte) StringKey {
	return global.intern(string(b))
}

// Lookup returns the key for s without creating it.
func Lookup(s string) (StringKey, bool) {
	return global.lookup(s)
}

// Len returns the number of distinct strings interned so far.
func Len() int {
	return int(global.count.Load())
}

func (k StringKey) String() string {
	return global.resolve(k)
}

// Bytes returns the underlying string as a byte slice.
func (k StringKey) Bytes() []byte {
	return []byte(global.resolve(k))
}

// IsEmpty reports whether k is the key of the empty string.
func (k StringKey) IsEmpty() bool {
	return k == Empty
}

// Less orders keys by their string value, not by interning order.
func (k StringKey) Less(other StringKey) bool {
	return k.String() < other.String()
}

// Sort orders keys by their string value.
func Sort(keys []StringKey) {
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Less(keys[j])
	})
}

// Strings converts keys to their string values, preserving order.
func Strings(keys []StringKey) []string {
	out := make([]string, len(keys))
	for i := range keys {
		out[i] = keys[i].String()
	}
	return out
}
