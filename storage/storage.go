package storage

import (
	"context"
	"errors"
	"reflect"

	sdk "github.com/sessionstore-project/sdk"
	"github.com/sessionstore-project/sdk/codec"
	"github.com/sessionstore-project/sdk/logging"
	"github.com/sessionstore-project/sdk/metrics"
	"github.com/sessionstore-project/sdk/notifier"
	"github.com/sessionstore-project/sdk/store"
)

// Metric names emitted when a metrics client is configured.
const (
	metricWrites    = "storage_writes_total"
	metricCancelled = "storage_writes_cancelled_total"
	metricReads     = "storage_reads_total"
)

var (
	// ErrInvalidKey is returned when an operation receives an empty key. It is
	// raised before any store call.
	ErrInvalidKey = errors.New("key is invalid")

	// ErrSyncUnavailable is returned by synchronous operations when the store
	// handle exposes no blocking call path. It is raised before any store call;
	// the accessor never falls back to blocking on the asynchronous path.
	ErrSyncUnavailable = errors.New("synchronous store access is not available on this host")
)

// Client is the typed accessor over the host session store. Every operation
// exists in an asynchronous form, which accepts a context honored up to the
// host-call boundary, and a synchronous form, which requires the host to
// expose a blocking call path.
type Client interface {
	// Set writes value under key, running the pre-write/post-write
	// notification protocol around the store mutation.
	Set(ctx context.Context, key string, value any) error

	// Get reads the value under key into target, a non-nil pointer. An
	// absent key resets target to its zero value and returns nil.
	Get(ctx context.Context, key string, target any) error

	// Remove deletes key. Removing an absent key is a no-op.
	Remove(ctx context.Context, key string) error

	// Clear removes every entry.
	Clear(ctx context.Context) error

	// Length returns the store's current entry count.
	Length(ctx context.Context) (int, error)

	// Key returns the key at the store's ordinal index, or found=false when
	// index is out of range.
	Key(ctx context.Context, index int) (key string, found bool, err error)

	// ContainsKey reports whether key currently exists.
	ContainsKey(ctx context.Context, key string) (bool, error)

	SetSync(key string, value any) error
	GetSync(key string, target any) error
	RemoveSync(key string) error
	ClearSync() error
	LengthSync() (int, error)
	KeySync(index int) (key string, found bool, err error)
	ContainsKeySync(key string) (bool, error)

	// OnChanging registers a pre-write handler which may veto the write.
	OnChanging(fn notifier.ChangingHandler) notifier.Subscription

	// OnChanged registers a post-write handler.
	OnChanged(fn notifier.ChangedHandler) notifier.Subscription

	// Unsubscribe removes a previously registered handler.
	Unsubscribe(s notifier.Subscription)
}

// Config controls how an Accessor interacts with the host runtime.
type Config struct {
	// SDKConfig provides the runtime namespace used for host calls.
	SDKConfig sdk.RuntimeConfig

	// Store is the underlying store handle. When nil, a host-call client
	// over the default waPC entry point is used, which provides only the
	// asynchronous calling convention.
	Store store.Store

	// Codec overrides the serialization codec. When nil, a codec with
	// zero-value settings is used (json defaults, nulls kept, type
	// resolution disabled).
	Codec *codec.Codec

	// Logger, when set, receives debug entries for cancelled and failed
	// writes. Optional.
	Logger logging.Client

	// Metrics, when set, is used to maintain operation counters. Optional.
	Metrics metrics.Client
}

// Accessor implements Client. Instances are not safe for concurrent use:
// the accessor model is a single logical caller per store handle, and
// values are never cached between calls.
type Accessor struct {
	runtime sdk.RuntimeConfig
	store   store.Store
	// sync is non-nil only when the store handle implements the blocking
	// convention. The assertion happens once, here, at construction.
	sync   store.SyncStore
	codec  *codec.Codec
	events *notifier.Notifier
	logger logging.Client

	writes    *metrics.Counter
	cancelled *metrics.Counter
	reads     *metrics.Counter
}

var _ Client = (*Accessor)(nil)

// New creates an Accessor over the provided store handle.
func New(config Config) (*Accessor, error) {
	runtime := config.SDKConfig
	if runtime.Namespace == "" {
		runtime.Namespace = sdk.DefaultNamespace
	}

	st := config.Store
	if st == nil {
		var err error
		st, err = store.New(store.Config{SDKConfig: runtime})
		if err != nil {
			return nil, err
		}
	}

	cd := config.Codec
	if cd == nil {
		cd = codec.New(codec.Settings{})
	}

	a := &Accessor{
		runtime: runtime,
		store:   st,
		codec:   cd,
		events:  notifier.New(),
		logger:  config.Logger,
	}
	a.sync, _ = st.(store.SyncStore)

	if config.Metrics != nil {
		a.writes, _ = config.Metrics.NewCounter(metricWrites)
		a.cancelled, _ = config.Metrics.NewCounter(metricCancelled)
		a.reads, _ = config.Metrics.NewCounter(metricReads)
	}

	return a, nil
}

// Codec returns the serialization codec in use.
func (a *Accessor) Codec() *codec.Codec { return a.codec }

// SyncSupported reports whether the store handle exposes a blocking call path.
func (a *Accessor) SyncSupported() bool { return a.sync != nil }

// OnChanging registers a pre-write handler which may veto the write.
func (a *Accessor) OnChanging(fn notifier.ChangingHandler) notifier.Subscription {
	return a.events.OnChanging(fn)
}

// OnChanged registers a post-write handler.
func (a *Accessor) OnChanged(fn notifier.ChangedHandler) notifier.Subscription {
	return a.events.OnChanged(fn)
}

// Unsubscribe removes a previously registered handler.
func (a *Accessor) Unsubscribe(s notifier.Subscription) {
	a.events.Unsubscribe(s)
}

func (a *Accessor) Set(ctx context.Context, key string, value any) error {
	if key == "" {
		return ErrInvalidKey
	}
	return a.write(key, value,
		func(k string) (string, bool, error) { return a.store.Get(ctx, k) },
		func(k, encoded string) error { return a.store.Set(ctx, k, encoded) },
	)
}

func (a *Accessor) SetSync(key string, value any) error {
	if key == "" {
		return ErrInvalidKey
	}
	if a.sync == nil {
		return ErrSyncUnavailable
	}
	return a.write(key, value, a.sync.GetSync, a.sync.SetSync)
}

func (a *Accessor) Get(ctx context.Context, key string, target any) error {
	if key == "" {
		return ErrInvalidKey
	}
	return a.read(key, target, func(k string) (string, bool, error) { return a.store.Get(ctx, k) })
}

func (a *Accessor) GetSync(key string, target any) error {
	if key == "" {
		return ErrInvalidKey
	}
	if a.sync == nil {
		return ErrSyncUnavailable
	}
	return a.read(key, target, a.sync.GetSync)
}

func (a *Accessor) Remove(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	return a.store.Remove(ctx, key)
}

func (a *Accessor) RemoveSync(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	if a.sync == nil {
		return ErrSyncUnavailable
	}
	return a.sync.RemoveSync(key)
}

func (a *Accessor) Clear(ctx context.Context) error {
	return a.store.Clear(ctx)
}

func (a *Accessor) ClearSync() error {
	if a.sync == nil {
		return ErrSyncUnavailable
	}
	return a.sync.ClearSync()
}

func (a *Accessor) Length(ctx context.Context) (int, error) {
	return a.store.Length(ctx)
}

func (a *Accessor) LengthSync() (int, error) {
	if a.sync == nil {
		return 0, ErrSyncUnavailable
	}
	return a.sync.LengthSync()
}

func (a *Accessor) Key(ctx context.Context, index int) (string, bool, error) {
	return a.store.Key(ctx, index)
}

func (a *Accessor) KeySync(index int) (string, bool, error) {
	if a.sync == nil {
		return "", false, ErrSyncUnavailable
	}
	return a.sync.KeySync(index)
}

func (a *Accessor) ContainsKey(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrInvalidKey
	}
	return a.store.ContainsKey(ctx, key)
}

func (a *Accessor) ContainsKeySync(key string) (bool, error) {
	if key == "" {
		return false, ErrInvalidKey
	}
	if a.sync == nil {
		return false, ErrSyncUnavailable
	}
	return a.sync.ContainsKeySync(key)
}

// write runs the notification protocol around a store mutation. Both calling
// conventions share it; only the two store accessors differ.
func (a *Accessor) write(
	key string,
	value any,
	get func(key string) (string, bool, error),
	set func(key, encoded string) error,
) error {
	raw, found, err := get(key)
	if err != nil {
		return err
	}

	var oldValue any
	if found {
		oldValue = a.decodeLoose(raw)
	}

	event := &notifier.ChangingEvent{Key: key, OldValue: oldValue, NewValue: value}
	vetoed, err := a.events.NotifyChanging(event)
	if err != nil {
		return err
	}
	if vetoed {
		a.inc(a.cancelled)
		if a.logger != nil {
			a.logger.Debug("storage: write vetoed for key " + key)
		}
		return nil
	}

	encoded, err := a.codec.Encode(value)
	if err != nil {
		return err
	}

	if err := set(key, encoded); err != nil {
		if a.logger != nil {
			a.logger.Error("storage: write failed for key " + key + ": " + err.Error())
		}
		return err
	}
	a.inc(a.writes)

	return a.events.NotifyChanged(notifier.ChangedEvent{Key: key, OldValue: oldValue, NewValue: value})
}

// read decodes the stored value into target. An absent key resets target to
// its zero value so a reused variable never keeps a stale read.
func (a *Accessor) read(key string, target any, get func(key string) (string, bool, error)) error {
	raw, found, err := get(key)
	if err != nil {
		return err
	}
	a.inc(a.reads)
	if !found {
		if rv := reflect.ValueOf(target); rv.Kind() == reflect.Pointer && !rv.IsNil() {
			rv.Elem().SetZero()
		}
		return nil
	}
	return a.codec.Decode(raw, target)
}

// decodeLoose produces the old-value view for change events. Stored text
// that the codec cannot decode surfaces as the raw string rather than
// failing the write.
func (a *Accessor) decodeLoose(raw string) any {
	v, err := a.codec.DecodeAny(raw)
	if err != nil {
		return raw
	}
	return v
}

func (a *Accessor) inc(c *metrics.Counter) {
	if c != nil {
		c.Inc()
	}
}
