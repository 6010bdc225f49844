package hostmock

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedNamespace is returned when a call names the wrong namespace.
	ErrUnexpectedNamespace = errors.New("unexpected namespace")

	// ErrUnexpectedCapability is returned when a call names the wrong capability.
	ErrUnexpectedCapability = errors.New("unexpected capability")

	// ErrUnexpectedFunction is returned when a call names the wrong function.
	ErrUnexpectedFunction = errors.New("unexpected function")

	// ErrOperationFailed is the default failure when Fail is set without a
	// custom error.
	ErrOperationFailed = errors.New("operation failed")
)

// Mock stands in for the waPC host call boundary in tests. It checks the
// routing triple of every call against the expected values and answers with
// a canned response or a configured failure.
type Mock struct {
	// ExpectedNamespace is the namespace every call must carry.
	ExpectedNamespace string

	// ExpectedCapability is the capability every call must carry.
	ExpectedCapability string

	// ExpectedFunction is the function name every call must carry.
	ExpectedFunction string

	// Error overrides ErrOperationFailed when Fail is set.
	Error error

	// PayloadValidator, when set, inspects each call's payload.
	PayloadValidator func([]byte) error

	// Response produces the bytes handed back for a successful call.
	Response func() []byte

	// Fail makes every call return an error.
	Fail bool

	// Calls counts how many times HostCall was invoked, including failed
	// calls. Tests use it to assert that pre-flight errors never reach the
	// host boundary.
	Calls int
}

// Config holds the initial state for a Mock. Fields mirror Mock.
type Config struct {
	ExpectedNamespace  string
	ExpectedCapability string
	ExpectedFunction   string
	Error              error
	PayloadValidator   func([]byte) error
	Response           func() []byte
	Fail               bool
}

// New builds a Mock from config.
func New(config Config) (*Mock, error) {
	return &Mock{
		ExpectedNamespace:  config.ExpectedNamespace,
		ExpectedCapability: config.ExpectedCapability,
		ExpectedFunction:   config.ExpectedFunction,
		Error:              config.Error,
		Fail:               config.Fail,
		PayloadValidator:   config.PayloadValidator,
		Response:           config.Response,
	}, nil
}

// HostCall records the call, checks it against the expectations, and returns
// either the configured response or the configured failure.
func (m *Mock) HostCall(namespace, capability, function string, payload []byte) ([]byte, error) {
	m.Calls++

	if m.Fail {
		if m.Error != nil {
			return nil, m.Error
		}
		return nil, ErrOperationFailed
	}

	if m.ExpectedNamespace != namespace {
		return nil, fmt.Errorf("%w: expected namespace %s, got %s", ErrUnexpectedNamespace, m.ExpectedNamespace, namespace)
	}
	if m.ExpectedCapability != capability {
		return nil, fmt.Errorf("%w: expected capability %s, got %s", ErrUnexpectedCapability, m.ExpectedCapability, capability)
	}
	if m.ExpectedFunction != function {
		return nil, fmt.Errorf("%w: expected function %s, got %s", ErrUnexpectedFunction, m.ExpectedFunction, function)
	}

	if m.PayloadValidator != nil {
		if err := m.PayloadValidator(payload); err != nil {
			return nil, err
		}
	}

	if m.Response != nil {
		return m.Response(), nil
	}
	return nil, nil
}
