package store

import (
	"context"
	"errors"

	"github.com/fxamacker/cbor/v2"
	sdk "github.com/sessionstore-project/sdk"
	wapc "github.com/wapc/wapc-guest-tinygo"
)

const (
	capabilityName = "storage"
	fnSet          = "set"
	fnGet          = "get"
	fnRemove       = "remove"
	fnClear        = "clear"
	fnLength       = "length"
	fnKey          = "key"
	fnContains     = "containskey"
)

var (
	// ErrMarshalRequest wraps failures while encoding the request payload.
	ErrMarshalRequest = errors.New("failed to marshal request")

	// ErrUnmarshalResponse wraps failures while decoding the host response.
	ErrUnmarshalResponse = errors.New("failed to unmarshal response")
)

// HostCall defines the waPC host function signature used by storage operations.
type HostCall func(string, string, string, []byte) ([]byte, error)

// Config controls how the store client interacts with the host runtime.
type Config struct {
	// SDKConfig provides the runtime namespace used for host calls.
	SDKConfig sdk.RuntimeConfig

	// HostCall overrides the waPC host function used for the asynchronous
	// calling convention. Defaults to wapc.HostCall.
	HostCall HostCall

	// SyncHostCall is the host entry point for the blocking calling
	// convention. Hosts that only provide the asynchronous convention leave
	// this nil, and the returned Store does not implement SyncStore.
	SyncHostCall HostCall
}

// client implements Store over the host's asynchronous calling convention.
type client struct {
	runtime  sdk.RuntimeConfig
	hostCall HostCall
}

// syncClient additionally implements SyncStore over the blocking convention.
type syncClient struct {
	client
	syncCall HostCall
}

var (
	_ Store     = (*client)(nil)
	_ Store     = (*syncClient)(nil)
	_ SyncStore = (*syncClient)(nil)
)

// New creates a Store backed by host calls. The concrete type implements
// SyncStore only when Config.SyncHostCall is provided, which is how callers
// discover whether a synchronous call path exists.
func New(config Config) (Store, error) {
	runtime := config.SDKConfig
	if runtime.Namespace == "" {
		runtime.Namespace = sdk.DefaultNamespace
	}

	hostCall := config.HostCall
	if hostCall == nil {
		hostCall = wapc.HostCall
	}

	base := client{runtime: runtime, hostCall: hostCall}
	if config.SyncHostCall != nil {
		return &syncClient{client: base, syncCall: config.SyncHostCall}, nil
	}
	return &base, nil
}

func (c *client) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.doSet(c.hostCall, key, value)
}

func (c *client) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	return c.doGet(c.hostCall, key)
}

func (c *client) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.doRemove(c.hostCall, key)
}

func (c *client) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.doClear(c.hostCall)
}

func (c *client) Length(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return c.doLength(c.hostCall)
}

func (c *client) Key(ctx context.Context, index int) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	return c.doKey(c.hostCall, index)
}

func (c *client) ContainsKey(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return c.doContainsKey(c.hostCall, key)
}

func (c *syncClient) SetSync(key, value string) error { return c.doSet(c.syncCall, key, value) }

func (c *syncClient) GetSync(key string) (string, bool, error) { return c.doGet(c.syncCall, key) }

func (c *syncClient) RemoveSync(key string) error { return c.doRemove(c.syncCall, key) }

func (c *syncClient) ClearSync() error { return c.doClear(c.syncCall) }

func (c *syncClient) LengthSync() (int, error) { return c.doLength(c.syncCall) }

func (c *syncClient) KeySync(index int) (string, bool, error) { return c.doKey(c.syncCall, index) }

func (c *syncClient) ContainsKeySync(key string) (bool, error) {
	return c.doContainsKey(c.syncCall, key)
}

func (c *client) doSet(call HostCall, key, value string) error {
	if key == "" {
		return ErrInvalidKey
	}

	var resp statusResponse
	if err := c.roundTrip(call, fnSet, setRequest{Key: key, Value: value}, &resp); err != nil {
		return err
	}
	return statusError(resp.Status)
}

func (c *client) doGet(call HostCall, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrInvalidKey
	}

	var resp getResponse
	if err := c.roundTrip(call, fnGet, keyedRequest{Key: key}, &resp); err != nil {
		return "", false, err
	}
	if err := statusError(resp.Status); err != nil {
		if errors.Is(err, errMissing) {
			return "", false, nil
		}
		return "", false, err
	}
	return resp.Value, true, nil
}

func (c *client) doRemove(call HostCall, key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	var resp statusResponse
	if err := c.roundTrip(call, fnRemove, keyedRequest{Key: key}, &resp); err != nil {
		return err
	}
	if err := statusError(resp.Status); err != nil && !errors.Is(err, errMissing) {
		return err
	}
	// Removing an absent key is a no-op.
	return nil
}

func (c *client) doClear(call HostCall) error {
	var resp statusResponse
	if err := c.roundTrip(call, fnClear, struct{}{}, &resp); err != nil {
		return err
	}
	return statusError(resp.Status)
}

func (c *client) doLength(call HostCall) (int, error) {
	var resp lengthResponse
	if err := c.roundTrip(call, fnLength, struct{}{}, &resp); err != nil {
		return 0, err
	}
	if err := statusError(resp.Status); err != nil {
		return 0, err
	}
	return int(resp.Length), nil
}

func (c *client) doKey(call HostCall, index int) (string, bool, error) {
	// A negative index is out of range like any other; no host call needed.
	if index < 0 {
		return "", false, nil
	}

	var resp keyResponse
	if err := c.roundTrip(call, fnKey, indexRequest{Index: int32(index)}, &resp); err != nil {
		return "", false, err
	}
	if err := statusError(resp.Status); err != nil {
		if errors.Is(err, errMissing) {
			return "", false, nil
		}
		return "", false, err
	}
	return resp.Key, true, nil
}

func (c *client) doContainsKey(call HostCall, key string) (bool, error) {
	if key == "" {
		return false, ErrInvalidKey
	}

	var resp containsResponse
	if err := c.roundTrip(call, fnContains, keyedRequest{Key: key}, &resp); err != nil {
		return false, err
	}
	if err := statusError(resp.Status); err != nil {
		return false, err
	}
	return resp.Exists, nil
}

// roundTrip encodes req, performs the host call, and decodes the response
// into resp.
func (c *client) roundTrip(call HostCall, fn string, req any, resp any) error {
	payload, err := cbor.Marshal(req)
	if err != nil {
		return errors.Join(ErrMarshalRequest, err)
	}

	body, err := call(c.runtime.Namespace, capabilityName, fn, payload)
	if err != nil {
		return errors.Join(sdk.ErrHostCall, err)
	}

	if err := cbor.Unmarshal(body, resp); err != nil {
		return errors.Join(sdk.ErrHostResponseInvalid, ErrUnmarshalResponse, err)
	}
	return nil
}
