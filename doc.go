/*
Package sdk provides the core entry point and runtime configuration for
building WebAssembly guest functions that use host-provided session storage.

The package exposes New to register a waPC handler and a RuntimeConfig that is
shared by capability clients (e.g., storage, logging, metrics).
DefaultNamespace is used when a namespace is not explicitly provided.
*/
package sdk
