package tracker

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"sync"
	"time"
)

// memStore is an in-memory Store fake for tests. It mirrors the keyed
// store's semantics closely enough for the tracker: atomic counters,
// lists, hashes, globs, streams and pub/sub. TTLs are recorded, not
// enforced.
type memStore struct {
	mu       sync.Mutex
	strs     map[string]string
	lists    map[string][]string
	hashes   map[string]map[string]string
	streams  map[string][]map[string]any
	ttls     map[string]time.Duration
	subs     map[string][]chan []byte
	pubCount map[string]int

	// failOps makes named operations fail, for error-path tests.
	failOps map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		strs:     make(map[string]string),
		lists:    make(map[string][]string),
		hashes:   make(map[string]map[string]string),
		streams:  make(map[string][]map[string]any),
		ttls:     make(map[string]time.Duration),
		subs:     make(map[string][]chan []byte),
		pubCount: make(map[string]int),
		failOps:  make(map[string]error),
	}
}

func (m *memStore) failOn(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOps[op] = fmt.Errorf("%s: injected failure", op)
}

func (m *memStore) failure(op string) error {
	return m.failOps[op]
}

func (m *memStore) IncrBy(ctx context.Context, key string, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("incrby"); err != nil {
		return 0, err
	}
	cur, _ := strconv.ParseInt(m.strs[key], 10, 64)
	cur += delta
	m.strs[key] = strconv.FormatInt(cur, 10)
	return cur, nil
}

func (m *memStore) GetInt(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("getint"); err != nil {
		return 0, err
	}
	v, ok := m.strs[key]
	if !ok {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (m *memStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.strs[key]
	return v, ok, nil
}

func (m *memStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("set"); err != nil {
		return err
	}
	m.strs[key] = value
	if ttl > 0 {
		m.ttls[key] = ttl
	}
	return nil
}

func (m *memStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("setnx"); err != nil {
		return false, err
	}
	if _, ok := m.strs[key]; ok {
		return false, nil
	}
	m.strs[key] = value
	if ttl > 0 {
		m.ttls[key] = ttl
	}
	return true, nil
}

func (m *memStore) LPush(ctx context.Context, key string, values ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("lpush"); err != nil {
		return err
	}
	for _, v := range values {
		m.lists[key] = append([]string{v}, m.lists[key]...)
	}
	return nil
}

func (m *memStore) LTrim(ctx context.Context, key string, start, stop int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("ltrim"); err != nil {
		return err
	}
	list := m.lists[key]
	if start < 0 || start >= int64(len(list)) {
		return nil
	}
	end := stop + 1
	if end > int64(len(list)) {
		end = int64(len(list))
	}
	m.lists[key] = list[start:end]
	return nil
}

func (m *memStore) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("lrange"); err != nil {
		return nil, err
	}
	list := m.lists[key]
	if start >= int64(len(list)) {
		return nil, nil
	}
	end := stop + 1
	if stop < 0 || end > int64(len(list)) {
		end = int64(len(list))
	}
	out := make([]string, end-start)
	copy(out, list[start:end])
	return out, nil
}

func (m *memStore) HIncrBy(ctx context.Context, key, field string, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("hincrby"); err != nil {
		return err
	}
	h, ok := m.hashes[key]
	if !ok {
		h = make(map[string]string)
		m.hashes[key] = h
	}
	cur, _ := strconv.ParseInt(h[field], 10, 64)
	h[field] = strconv.FormatInt(cur+delta, 10)
	return nil
}

func (m *memStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.hashes[key]))
	for k, v := range m.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("expire"); err != nil {
		return err
	}
	m.ttls[key] = ttl
	return nil
}

func (m *memStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("del"); err != nil {
		return err
	}
	for _, key := range keys {
		delete(m.strs, key)
		delete(m.lists, key)
		delete(m.hashes, key)
		delete(m.ttls, key)
	}
	return nil
}

func (m *memStore) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("scan"); err != nil {
		return nil, err
	}
	var out []string
	match := func(key string) {
		if ok, _ := path.Match(pattern, key); ok {
			out = append(out, key)
		}
	}
	for key := range m.strs {
		match(key)
	}
	for key := range m.lists {
		match(key)
	}
	for key := range m.hashes {
		match(key)
	}
	return out, nil
}

func (m *memStore) XAdd(ctx context.Context, stream string, values map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("xadd"); err != nil {
		return err
	}
	m.streams[stream] = append(m.streams[stream], values)
	return nil
}

func (m *memStore) Publish(ctx context.Context, channel string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("publish"); err != nil {
		return err
	}
	m.pubCount[channel]++
	for _, sub := range m.subs[channel] {
		select {
		case sub <- payload:
		default:
		}
	}
	return nil
}

func (m *memStore) Subscribe(ctx context.Context, channel string) (<-chan []byte, func() error, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan []byte, 16)
	m.subs[channel] = append(m.subs[channel], ch)
	closer := func() error {
		m.mu.Lock()
		defer m.mu.Unlock()
		subs := m.subs[channel]
		for i, sub := range subs {
			if sub == ch {
				m.subs[channel] = append(subs[:i], subs[i+1:]...)
				close(ch)
				break
			}
		}
		return nil
	}
	return ch, closer, nil
}

func (m *memStore) Ping(ctx context.Context) error { return nil }
func (m *memStore) Close() error                   { return nil }

// list returns a copy of a list key for assertions.
func (m *memStore) list(key string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.lists[key]))
	copy(out, m.lists[key])
	return out
}

func (m *memStore) published(channel string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pubCount[channel]
}
