// Package ident builds textual and binary identifiers from mixed-kind
// scalar fragments. It is used to assemble exchange names and routing
// keys; it is not a payload encoder.
package ident

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnsupportedType is returned when a value is not one of the
	// renderable scalar kinds.
	ErrUnsupportedType = errors.New("ident: unsupported value kind")

	// ErrEmptyInput is returned when a join is given no elements.
	ErrEmptyInput = errors.New("ident: no elements to join")
)

// Name is a symbolic identifier, distinct from plain text. Joins that
// produce protocol-level names return a Name.
type Name string

// Text renders a single scalar to its textual form. Integers and floats
// render decimal, names render as their text, strings pass through
// unchanged. Any other kind fails with ErrUnsupportedType.
func Text(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case Name:
		return string(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

// JoinText concatenates the textual form of each element, inserting sep
// between consecutive elements. An empty parts slice fails with
// ErrEmptyInput.
func JoinText(parts []any, sep string) (string, error) {
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: join over empty sequence", ErrEmptyInput)
	}
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteString(sep)
		}
		s, err := Text(p)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

// JoinName is JoinText returning a symbolic Name.
func JoinName(parts []any, sep string) (Name, error) {
	s, err := JoinText(parts, sep)
	if err != nil {
		return "", err
	}
	return Name(s), nil
}

// BinaryID converts a value to a byte identifier. Byte slices pass
// through unchanged, slices of fragments are concatenated without a
// separator, and scalars render via Text. The result is meant for
// exchange and routing-key identifiers, not for message payloads.
func BinaryID(v any) ([]byte, error) {
	switch x := v.(type) {
	case []byte:
		return x, nil
	case []any:
		s, err := JoinText(x, "")
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	default:
		s, err := Text(v)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	}
}
