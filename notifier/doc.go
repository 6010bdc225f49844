/*
Package notifier implements the pre-write/post-write notification protocol
used by the storage accessor.

Pre-write ("changing") handlers run strictly before any store mutation, in
subscription order, and any one of them may veto the write by setting Cancel
on the event. Cancellation is advisory state inspected after the full handler
list has run; it does not short-circuit dispatch. Post-write ("changed")
handlers run only once the write has committed.

Handler errors are never suppressed: an error from any handler aborts the
enclosing storage operation. For post-write handlers this happens after the
store mutation, so callers relying on notification as transactional must
treat a changed-handler error as "written but not fully observed".
*/
package notifier
