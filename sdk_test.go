package sdk

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	tt := []struct {
		name      string
		namespace string
		handler   func(b []byte) ([]byte, error)
		wantErr   error
		wantNs    string
	}{
		{
			name:      "valid config",
			namespace: "valid",
			handler:   func(b []byte) ([]byte, error) { return b, nil },
			wantNs:    "valid",
		},
		{
			name:      "empty namespace falls back to default",
			namespace: "",
			handler:   func(b []byte) ([]byte, error) { return b, nil },
			wantNs:    DefaultNamespace,
		},
		{
			name:      "nil handler",
			namespace: "invalid",
			handler:   nil,
			wantErr:   ErrHandlerNil,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			s, err := New(Config{Namespace: tc.namespace, Handler: tc.handler})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if err != nil {
				return
			}

			if s.Config().Namespace != tc.wantNs {
				t.Errorf("expected namespace %q, got %q", tc.wantNs, s.Config().Namespace)
			}
		})
	}
}

func TestSDKInstances(t *testing.T) {
	h1 := func(b []byte) ([]byte, error) { return b, nil }
	h2 := func(b []byte) ([]byte, error) { return nil, errors.New("boom") }

	s1, err := New(Config{Namespace: "one", Handler: h1})
	if err != nil {
		t.Fatalf("first New returned error: %v", err)
	}
	s2, err := New(Config{Namespace: "two", Handler: h2})
	if err != nil {
		t.Fatalf("second New returned error: %v", err)
	}

	t.Run("ConfigImmutability", func(t *testing.T) {
		got := s1.Config()
		got.Namespace = "mutated"
		if s1.Config().Namespace != "one" {
			t.Fatalf("expected SDK namespace to remain 'one', got %q", s1.Config().Namespace)
		}
	})

	t.Run("InstanceIsolation", func(t *testing.T) {
		if s1.Config().Namespace != "one" || s2.Config().Namespace != "two" {
			t.Fatalf("expected namespaces 'one' and 'two', got %q and %q", s1.Config().Namespace, s2.Config().Namespace)
		}
	})
}
