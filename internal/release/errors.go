package release

import "errors"

var (
	ErrTag          = errors.New("tag failed")
	ErrSave         = errors.New("save failed")
	ErrPublish      = errors.New("publish failed")
	ErrMissingImage = errors.New("missing image reference")
	ErrCompression  = errors.New("unrecognized compression")
	ErrTarget       = errors.New("invalid publish target")
)
