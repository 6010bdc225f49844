/*
Package storage provides the typed accessor over the host-provided,
session-scoped string store.

The accessor composes three pieces: a serialization codec (package codec)
that converts typed values to and from the store's string representation, a
change notifier (package notifier) that implements the cancellable pre-write
and post-write event protocol, and a store handle (package store) that
reaches the host. Values are never cached; every operation re-reads the
store.

# Calling conventions

Every operation has an asynchronous form, which takes a context honored up to
the single host-call boundary, and a synchronous form. Whether a synchronous
form can work is a property of the host: the store handle implements
store.SyncStore only when the host exposes a blocking call path. The accessor
checks this once at construction; synchronous operations on a host without a
blocking path fail fast with ErrSyncUnavailable before any side effect, and
never fall back to blocking on the asynchronous path.

# Write protocol

Set dispatches a ChangingEvent to all pre-write handlers in subscription
order before touching the store. Any handler may set Cancel, which is
inspected after the full handler list has run; a vetoed write returns nil
with the store untouched, and no ChangedEvent fires. After a committed write,
a ChangedEvent is dispatched. Handler errors are not suppressed: a changing
handler error aborts the write before the mutation, while a changed handler
error reaches the caller after the mutation has already happened. Callers
relying on notification as transactional need to account for that ordering.

# Errors

Empty keys fail with ErrInvalidKey and synchronous calls without a blocking
path fail with ErrSyncUnavailable, both before any store call. Malformed
stored text fails with codec.ErrDecode. Host failures carry the sdk sentinel
errors. The accessor performs no retries; store operations are single-shot
and retrying is a caller decision.
*/
package storage
