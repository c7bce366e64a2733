package eventstream

import "errors"

// ErrNilEnvelope indicates a nil envelope was provided to a publisher.
var ErrNilEnvelope = errors.New("nil envelope")
