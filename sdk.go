package sdk

import (
	"fmt"

	wapc "github.com/wapc/wapc-guest-tinygo"
)

// DefaultNamespace scopes host capability calls when the caller does not
// name a namespace of its own.
const DefaultNamespace = "sessionstore"

var (
	// ErrHandlerNil is returned by New when Config.Handler is missing.
	ErrHandlerNil = fmt.Errorf("function handler cannot be nil")
)

// Config carries the options accepted by New.
type Config struct {
	// Namespace scopes every host capability call made through this guest.
	// Empty means DefaultNamespace.
	Namespace string

	// Handler is invoked by the host as the guest's waPC entry point.
	Handler func([]byte) ([]byte, error)
}

// RuntimeConfig is the per-guest configuration handed to capability clients
// at construction time.
type RuntimeConfig struct {
	// Namespace scopes host interactions.
	Namespace string
}

// SDK is an initialized guest runtime whose handler has been registered
// with waPC.
type SDK struct {
	runtime RuntimeConfig
	handler func([]byte) ([]byte, error)
}

// New validates config, fills in namespace defaults, and registers the
// handler as the guest entry point.
func New(config Config) (*SDK, error) {
	if config.Handler == nil {
		return nil, ErrHandlerNil
	}

	cfg := RuntimeConfig{Namespace: DefaultNamespace}
	if config.Namespace != "" {
		cfg.Namespace = config.Namespace
	}

	sdk := &SDK{
		runtime: cfg,
		handler: config.Handler,
	}
	wapc.RegisterFunction("handler", sdk.handler)

	return sdk, nil
}

// Config returns a snapshot of the runtime configuration.
func (s *SDK) Config() RuntimeConfig { return s.runtime }
