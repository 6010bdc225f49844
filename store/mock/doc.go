/*
Package mock provides in-memory implementations of the store interfaces for
testing code that depends on the session store without host calls.

New returns an async-only store (store.Store); NewSync returns a store that
also implements store.SyncStore. The split gives tests both sides of the
capability gate: code expecting a synchronous path can be exercised against a
store that genuinely lacks one.

Every operation, including invalid ones, is appended to Calls, so tests can
assert not only results but also that pre-flight failures performed zero
store calls. Key enumeration is deterministic: seeded keys sort first, later
writes append in insertion order.

Per-operation behavior can be overridden with a fluent builder:

	m := mock.New(mock.Config{Seed: map[string]string{"a": "1"}})
	m.OnGet("missing").ReturnError(errors.New("boom"))
	m.OnSet("readonly").ReturnError(errors.New("rejected"))
*/
package mock
