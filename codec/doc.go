// Package codec encodes and decodes message payloads under a dual-format
// policy.
//
// Two formats exist: a structured document format (CBOR by default,
// pluggable via DocumentCodec) that any conformant peer can read, and a
// native term format (gob) that only a Go peer can read. Producers and
// consumers in a fleet may use either; the decoder bridges the gap with
// a transparent fallback:
//
//	data, _ := codec.Encode(order)                 // CBOR document
//	data, _ = codec.EncodeAs(order, codec.FormatNative)
//
//	v, err := codec.Decode(data) // parses as document, falls back to native
//
// Only a structural parse failure of the document format (the
// ErrMalformedDocument class) triggers the fallback. When both formats
// fail, the error is ErrMalformedPayload and carries both causes. The
// masked first attempt is the price of format-agnostic consumption:
// a genuinely corrupt document payload is indistinguishable from a
// native payload until both paths are exhausted, so callers must treat
// every decode as fallible.
//
// Round-trips are lossless within one format only; cross-format
// round-trips are not guaranteed.
package codec
