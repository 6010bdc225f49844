/*
Package logging offers a client for emitting log entries from WebAssembly
guest functions to the host runtime.

The package exposes a small interface with convenience methods for common log
levels (Info, Warn, Error, Debug, Trace). Emission is best-effort: host-call
failures are swallowed so logging never disturbs caller control flow.
*/
package logging
