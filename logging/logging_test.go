package logging

import (
	"errors"
	"reflect"
	"testing"

	sdk "github.com/sessionstore-project/sdk"
	"github.com/sessionstore-project/sdk/hostmock"
)

func TestNew(t *testing.T) {
	t.Parallel()

	customHostCall := func(string, string, string, []byte) ([]byte, error) {
		return nil, nil
	}

	tt := []struct {
		name        string
		namespace   string
		hostCall    func(string, string, string, []byte) ([]byte, error)
		wantNS      string
		wantHostPtr uintptr
	}{
		{
			name:      "custom namespace",
			namespace: "custom",
			wantNS:    "custom",
		},
		{
			name:        "default namespace with override",
			hostCall:    customHostCall,
			wantNS:      sdk.DefaultNamespace,
			wantHostPtr: reflect.ValueOf(customHostCall).Pointer(),
		},
	}

	for _, tc := range tt {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			logger, err := New(Config{SDKConfig: sdk.RuntimeConfig{Namespace: tc.namespace}, HostCall: tc.hostCall})
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}

			impl, ok := logger.(*client)
			if !ok {
				t.Fatalf("expected *client implementation, got %T", logger)
			}

			if impl.runtime.Namespace != tc.wantNS {
				t.Fatalf("namespace mismatch: want %q, got %q", tc.wantNS, impl.runtime.Namespace)
			}

			if tc.wantHostPtr != 0 {
				if got := reflect.ValueOf(impl.hostCall).Pointer(); got != tc.wantHostPtr {
					t.Fatalf("hostcall pointer mismatch: want %v, got %v", tc.wantHostPtr, got)
				}
			}
		})
	}
}

func TestLevels(t *testing.T) {
	t.Parallel()

	tt := []struct {
		name string
		fn   string
		emit func(Client)
	}{
		{"Info", fnInfo, func(c Client) { c.Info("msg") }},
		{"Warn", fnWarn, func(c Client) { c.Warn("msg") }},
		{"Error", fnError, func(c Client) { c.Error("msg") }},
		{"Debug", fnDebug, func(c Client) { c.Debug("msg") }},
		{"Trace", fnTrace, func(c Client) { c.Trace("msg") }},
	}

	for _, tc := range tt {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mock, err := hostmock.New(hostmock.Config{
				ExpectedNamespace:  sdk.DefaultNamespace,
				ExpectedCapability: capabilityName,
				ExpectedFunction:   tc.fn,
				PayloadValidator: func(payload []byte) error {
					if string(payload) != "msg" {
						return errors.New("payload mismatch")
					}
					return nil
				},
			})
			if err != nil {
				t.Fatalf("hostmock: %v", err)
			}

			logger, err := New(Config{HostCall: mock.HostCall})
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}

			tc.emit(logger)
			if mock.Calls != 1 {
				t.Fatalf("expected 1 host call, got %d", mock.Calls)
			}
		})
	}
}

func TestBestEffortOnHostFailure(t *testing.T) {
	t.Parallel()

	mock, err := hostmock.New(hostmock.Config{Fail: true})
	if err != nil {
		t.Fatalf("hostmock: %v", err)
	}

	logger, err := New(Config{HostCall: mock.HostCall})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	// Must not panic or surface the error.
	logger.Error("ignored")
	if mock.Calls != 1 {
		t.Fatalf("expected 1 host call, got %d", mock.Calls)
	}
}
