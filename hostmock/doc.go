/*
Package hostmock provides a pretend host for waPC calls.

It is designed for SDK development and wire-level tests where you want to
validate exactly what a component sends across the host boundary without
needing a real host runtime.

Why use hostmock?

  - Validate routing: ensure calls use the expected namespace, capability, and function.
  - Inspect payloads: plug in a PayloadValidator to assert CBOR contents.
  - Script responses: return custom bytes or simulate failures.
  - Count calls: the Calls field records every invocation, so tests can
    assert that pre-flight validation failures never reach the host.

Quick start

	m, _ := hostmock.New(hostmock.Config{
	  ExpectedNamespace:  "sessionstore",
	  ExpectedCapability: "storage",
	  ExpectedFunction:   "get",
	  PayloadValidator: func(p []byte) error {
	    // Unmarshal and assert fields here
	    return nil
	  },
	  Response: func() []byte { return []byte("ok") },
	})

	// Inject into a component under test
	resp, err := m.HostCall("sessionstore", "storage", "get", []byte("payload"))

Behavior

  - If Fail is true and Error is set, HostCall returns that error.
  - If Fail is true and Error is nil, HostCall returns ErrOperationFailed.
  - Otherwise, HostCall enforces ExpectedNamespace/Capability/Function and runs
    PayloadValidator when provided. If everything is in order, Response (when set)
    provides the return bytes; otherwise it returns nil.

Prefer component-level mocks (e.g., store/mock) unless you truly need
wire-level checks.
*/
package hostmock
