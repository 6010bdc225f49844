package mock

import (
	"context"
	"slices"

	"github.com/sessionstore-project/sdk/store"
)

// Operation names used for call recording and per-call configuration.
const (
	OpSet      = "SET"
	OpGet      = "GET"
	OpRemove   = "REMOVE"
	OpClear    = "CLEAR"
	OpLength   = "LENGTH"
	OpKey      = "KEY"
	OpContains = "CONTAINSKEY"
)

// Config configures the mock store.
type Config struct {
	// Seed pre-populates the in-memory store. Seeded keys enumerate in
	// sorted order; keys written afterwards append in insertion order.
	Seed map[string]string
}

// Response describes a configured mock outcome for one operation/key pair.
type Response struct {
	// Value applies to GET.
	Value string
	// Err is the error to return for the operation.
	Err error
}

// ResponseBuilder allows fluent configuration of responses.
type ResponseBuilder struct {
	m   *Client
	key string // composite key: OP + " " + target
}

// ReturnValue sets the value returned by GET.
func (b *ResponseBuilder) ReturnValue(v string) *ResponseBuilder {
	r := b.m.responses[b.key]
	r.Value = v
	b.m.responses[b.key] = r
	return b
}

// ReturnError sets an error for the configured operation.
func (b *ResponseBuilder) ReturnError(err error) *Client {
	r := b.m.responses[b.key]
	r.Err = err
	b.m.responses[b.key] = r
	return b.m
}

// Call records an operation performed against the mock.
type Call struct {
	Op    string
	Key   string
	Value string
}

// Client implements store.Store in memory for tests. It deliberately does
// NOT implement store.SyncStore, making it the async-only side of the
// capability gate; use NewSync for a store with a synchronous path.
type Client struct {
	data      map[string]string
	order     []string
	responses map[string]Response

	// Calls stores a history of operations for assertions.
	Calls []Call
}

// SyncClient wraps a Client and adds the blocking calling convention.
type SyncClient struct {
	*Client
}

var (
	_ store.Store     = (*Client)(nil)
	_ store.Store     = (*SyncClient)(nil)
	_ store.SyncStore = (*SyncClient)(nil)
)

// New creates an async-only mock store.
func New(cfg Config) *Client {
	c := &Client{
		data:      make(map[string]string, len(cfg.Seed)),
		responses: make(map[string]Response),
		Calls:     []Call{},
	}
	seedKeys := make([]string, 0, len(cfg.Seed))
	for k := range cfg.Seed {
		seedKeys = append(seedKeys, k)
	}
	slices.Sort(seedKeys)
	for _, k := range seedKeys {
		c.data[k] = cfg.Seed[k]
		c.order = append(c.order, k)
	}
	return c
}

// NewSync creates a mock store that also implements store.SyncStore.
func NewSync(cfg Config) *SyncClient {
	return &SyncClient{Client: New(cfg)}
}

// OnGet configures a GET response for a key.
func (m *Client) OnGet(key string) *ResponseBuilder {
	return &ResponseBuilder{m: m, key: OpGet + " " + key}
}

// OnSet configures a SET response for a key.
func (m *Client) OnSet(key string) *ResponseBuilder {
	return &ResponseBuilder{m: m, key: OpSet + " " + key}
}

// OnRemove configures a REMOVE response for a key.
func (m *Client) OnRemove(key string) *ResponseBuilder {
	return &ResponseBuilder{m: m, key: OpRemove + " " + key}
}

// CallCount returns how many operations were recorded.
func (m *Client) CallCount() int { return len(m.Calls) }

// Value returns the raw stored string and whether it exists, without
// recording a call. Tests use it to assert store state out of band.
func (m *Client) Value(key string) (string, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *Client) Set(_ context.Context, key, value string) error { return m.set(key, value) }

func (m *Client) Get(_ context.Context, key string) (string, bool, error) { return m.get(key) }

func (m *Client) Remove(_ context.Context, key string) error { return m.remove(key) }

func (m *Client) Clear(_ context.Context) error { return m.clear() }

func (m *Client) Length(_ context.Context) (int, error) { return m.length() }

func (m *Client) Key(_ context.Context, index int) (string, bool, error) { return m.key(index) }

func (m *Client) ContainsKey(_ context.Context, key string) (bool, error) {
	return m.containsKey(key)
}

func (m *SyncClient) SetSync(key, value string) error { return m.set(key, value) }

func (m *SyncClient) GetSync(key string) (string, bool, error) { return m.get(key) }

func (m *SyncClient) RemoveSync(key string) error { return m.remove(key) }

func (m *SyncClient) ClearSync() error { return m.clear() }

func (m *SyncClient) LengthSync() (int, error) { return m.length() }

func (m *SyncClient) KeySync(index int) (string, bool, error) { return m.key(index) }

func (m *SyncClient) ContainsKeySync(key string) (bool, error) { return m.containsKey(key) }

func (m *Client) set(key, value string) error {
	m.Calls = append(m.Calls, Call{Op: OpSet, Key: key, Value: value})
	if key == "" {
		return store.ErrInvalidKey
	}
	if r, ok := m.responses[OpSet+" "+key]; ok {
		return r.Err
	}
	if _, exists := m.data[key]; !exists {
		m.order = append(m.order, key)
	}
	m.data[key] = value
	return nil
}

func (m *Client) get(key string) (string, bool, error) {
	m.Calls = append(m.Calls, Call{Op: OpGet, Key: key})
	if key == "" {
		return "", false, store.ErrInvalidKey
	}
	if r, ok := m.responses[OpGet+" "+key]; ok {
		if r.Err != nil {
			return "", false, r.Err
		}
		return r.Value, true, nil
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Client) remove(key string) error {
	m.Calls = append(m.Calls, Call{Op: OpRemove, Key: key})
	if key == "" {
		return store.ErrInvalidKey
	}
	if r, ok := m.responses[OpRemove+" "+key]; ok {
		return r.Err
	}
	if _, exists := m.data[key]; exists {
		delete(m.data, key)
		m.order = slices.DeleteFunc(m.order, func(k string) bool { return k == key })
	}
	return nil
}

func (m *Client) clear() error {
	m.Calls = append(m.Calls, Call{Op: OpClear})
	m.data = make(map[string]string)
	m.order = nil
	return nil
}

func (m *Client) length() (int, error) {
	m.Calls = append(m.Calls, Call{Op: OpLength})
	return len(m.data), nil
}

func (m *Client) key(index int) (string, bool, error) {
	m.Calls = append(m.Calls, Call{Op: OpKey})
	if index < 0 || index >= len(m.order) {
		return "", false, nil
	}
	return m.order[index], true, nil
}

func (m *Client) containsKey(key string) (bool, error) {
	m.Calls = append(m.Calls, Call{Op: OpContains, Key: key})
	if key == "" {
		return false, store.ErrInvalidKey
	}
	_, ok := m.data[key]
	return ok, nil
}
