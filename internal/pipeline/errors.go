package pipeline

import "errors"

// ErrUnknownStrategy indicates a filter strategy name that is not
// registered.
var ErrUnknownStrategy = errors.New("pipeline: unknown filter strategy")
