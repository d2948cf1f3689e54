package contracts

import (
	"errors"
)

// ErrMissingReplyTo is returned when reply resolution is attempted on a
// message whose reply-to property is unset.
var ErrMissingReplyTo = errors.New("contracts: message has no reply-to property")
