/*
Package codec converts typed values to and from the string representation
used by the host session store.

A Codec is parameterized by Settings supplied at construction: the casing of
struct member names, whether null struct members are kept or omitted, and
whether polymorphic type resolution is enabled during decode. Naming and null
policies apply to struct-derived members only; map keys carry data and pass
through unchanged in both directions. Type resolution is disabled by default;
enabling it means the codec will act on type names found inside stored text,
which is only safe when stored data is trusted.

Encoding is deterministic for a fixed Settings value. Decoding an empty or
corrupt string fails with ErrDecode rather than silently returning a default.
*/
package codec
