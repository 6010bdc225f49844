/*
Package store defines the contract for the host-provided, session-scoped
string store and a client that reaches it through waPC host calls.

The Store interface is the asynchronous calling convention: methods accept a
context honored up to the single host-call boundary. SyncStore is the
optional blocking convention; the client returned by New implements it only
when Config.SyncHostCall is provided, so a one-time interface assertion tells
callers whether a synchronous path exists.

Requests and responses are CBOR envelopes carrying a status block. Host
status codes follow the usual mapping: 200 OK, 404 missing (surfaced as an
absent result, never an error), 400 bad input, and 500 host failure.
*/
package store
