package codec

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	"github.com/glimte/warren-go/contracts"
)

// Format selects the payload encoding.
type Format string

const (
	// FormatDocument is the structured document encoding (CBOR unless
	// the codec is configured otherwise). Any conformant peer can read
	// it regardless of runtime.
	FormatDocument Format = "document"

	// FormatNative is the gob encoding of the in-memory value. Only a
	// Go peer with the same types registered can decode it.
	FormatNative Format = "native"
)

// ErrMalformedPayload is returned when a payload could not be decoded in
// any acceptable format.
var ErrMalformedPayload = errors.New("codec: malformed payload")

func init() {
	gob.Register(map[string]any{})
	gob.Register([]any{})
	gob.Register(time.Time{})
}

// Codec encodes application values to byte payloads and back under a
// dual-format policy. Decoding under the document format transparently
// retries the same bytes as a native term when the document parse fails
// structurally, so a consumer can handle producers of either kind
// without a priori knowledge. Codecs are stateless and safe for
// concurrent use.
type Codec struct {
	doc           DocumentCodec
	defaultFormat Format
}

// Option configures a Codec.
type Option func(*Codec)

// WithDocumentCodec substitutes the structured document implementation.
func WithDocumentCodec(doc DocumentCodec) Option {
	return func(c *Codec) {
		c.doc = doc
	}
}

// WithDefaultFormat sets the format used by Encode and Decode.
func WithDefaultFormat(format Format) Option {
	return func(c *Codec) {
		c.defaultFormat = format
	}
}

// New creates a codec. Without options it encodes CBOR documents.
func New(opts ...Option) *Codec {
	c := &Codec{
		doc:           CBORCodec{},
		defaultFormat: FormatDocument,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultFormat returns the format Encode and Decode use.
func (c *Codec) DefaultFormat() Format {
	return c.defaultFormat
}

// ContentType reports the MIME type EncodeAs produces for format.
func (c *Codec) ContentType(format Format) string {
	if format == FormatNative {
		return "application/x-gob"
	}
	return c.doc.ContentType()
}

// Encode serializes payload in the codec's default format.
func (c *Codec) Encode(payload any) ([]byte, error) {
	return c.EncodeAs(payload, c.defaultFormat)
}

// EncodeAs serializes payload in the given format.
func (c *Codec) EncodeAs(payload any, format Format) ([]byte, error) {
	switch format {
	case FormatNative:
		return encodeNative(payload)
	case FormatDocument:
		return c.doc.Marshal(payload)
	default:
		return nil, fmt.Errorf("codec: unknown format %q", format)
	}
}

// Decode deserializes data in the codec's default format.
func (c *Codec) Decode(data []byte) (any, error) {
	return c.DecodeAs(data, c.defaultFormat)
}

// DecodeAs deserializes data in the given format. Under the document
// format a structural parse failure (ErrMalformedDocument) triggers one
// retry of the same bytes as a native term; if that also fails, the
// combined failure surfaces as ErrMalformedPayload. Document errors of
// any other class surface without a fallback attempt.
func (c *Codec) DecodeAs(data []byte, format Format) (any, error) {
	switch format {
	case FormatNative:
		return decodeNative(data)
	case FormatDocument:
		var payload any
		docErr := c.doc.Unmarshal(data, &payload)
		if docErr == nil {
			return payload, nil
		}
		if !errors.Is(docErr, ErrMalformedDocument) {
			return nil, docErr
		}
		payload, nativeErr := decodeNative(data)
		if nativeErr != nil {
			return nil, fmt.Errorf("%w: document: %v; native: %v", ErrMalformedPayload, docErr, nativeErr)
		}
		return payload, nil
	default:
		return nil, fmt.Errorf("codec: unknown format %q", format)
	}
}

// DecodeMessage decodes the payload of a delivered message with the
// default format and its fallback.
func (c *Codec) DecodeMessage(msg *contracts.Message) (any, error) {
	if msg == nil {
		return nil, fmt.Errorf("codec: message cannot be nil")
	}
	return c.Decode(msg.Body)
}

func encodeNative(payload any) ([]byte, error) {
	var buf bytes.Buffer
	// Encoding the address of the interface keeps the concrete type in
	// the stream, so the peer can decode into an empty interface.
	if err := gob.NewEncoder(&buf).Encode(&payload); err != nil {
		return nil, fmt.Errorf("codec: native encode: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeNative(data []byte) (any, error) {
	var payload any
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: native decode: %v", ErrMalformedPayload, err)
	}
	return payload, nil
}

// Shared default instance for the common case of one codec per process.
var defaultCodec = New()

// Default returns the shared default codec.
func Default() *Codec {
	return defaultCodec
}

// Encode serializes payload with the default codec.
func Encode(payload any) ([]byte, error) {
	return defaultCodec.Encode(payload)
}

// EncodeAs serializes payload with the default codec in the given format.
func EncodeAs(payload any, format Format) ([]byte, error) {
	return defaultCodec.EncodeAs(payload, format)
}

// Decode deserializes data with the default codec.
func Decode(data []byte) (any, error) {
	return defaultCodec.Decode(data)
}

// DecodeAs deserializes data with the default codec in the given format.
func DecodeAs(data []byte, format Format) (any, error) {
	return defaultCodec.DecodeAs(data, format)
}

// DecodeMessage decodes a message payload with the default codec.
func DecodeMessage(msg *contracts.Message) (any, error) {
	return defaultCodec.DecodeMessage(msg)
}
