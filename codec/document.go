package codec

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrMalformedDocument classifies structural parse failures of the
// document format: malformed or truncated documents, or trailing bytes
// after a complete document. Only this class triggers the native-term
// fallback in Decode; any other error surfaces unchanged.
var ErrMalformedDocument = errors.New("codec: malformed document")

// DocumentCodec is the plug point for the structured document format.
// Any codec that serializes nested key/value documents to a canonical
// binary form may be substituted. Unmarshal must wrap structural parse
// failures in ErrMalformedDocument.
type DocumentCodec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	ContentType() string
}

var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	var err error
	cborEnc, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	cborDec, err = cbor.DecOptions{
		IntDec:         cbor.IntDecConvertSigned,
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// CBORCodec is the default document codec. It emits canonical CBOR and
// decodes maps to map[string]any with integers converted to int64 where
// they fit. Trailing bytes after the document are a parse failure.
type CBORCodec struct{}

// Marshal serializes v to canonical CBOR.
func (CBORCodec) Marshal(v any) ([]byte, error) {
	data, err := cborEnc.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: cbor marshal: %w", err)
	}
	return data, nil
}

// Unmarshal parses CBOR bytes into v.
func (CBORCodec) Unmarshal(data []byte, v any) error {
	if err := cborDec.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return nil
}

// ContentType returns the CBOR MIME type.
func (CBORCodec) ContentType() string {
	return "application/cbor"
}

// MessagePackCodec is an alternative document codec for peers that speak
// MessagePack instead of CBOR.
type MessagePackCodec struct{}

// Marshal serializes v to MessagePack.
func (MessagePackCodec) Marshal(v any) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: msgpack marshal: %w", err)
	}
	return data, nil
}

// Unmarshal parses MessagePack bytes into v. The whole input must be a
// single document; leftover bytes fail as malformed.
func (MessagePackCodec) Unmarshal(data []byte, v any) error {
	r := bytes.NewReader(data)
	if err := msgpack.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if r.Len() > 0 {
		return fmt.Errorf("%w: %d trailing bytes after document", ErrMalformedDocument, r.Len())
	}
	return nil
}

// ContentType returns the MessagePack MIME type.
func (MessagePackCodec) ContentType() string {
	return "application/msgpack"
}
