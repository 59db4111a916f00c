package theme

import (
	"errors"
	"fmt"
)

// ErrMutationRejected is wrapped by every error a mutation returns. A
// rejected mutation never changes the Theme.
var ErrMutationRejected = errors.New("mutation rejected")

var (
	ErrGroupNotFound  = fmt.Errorf("%w: group not found", ErrMutationRejected)
	ErrGroupExists    = fmt.Errorf("%w: group already exists", ErrMutationRejected)
	ErrFixedGroup     = fmt.Errorf("%w: main color groups cannot be added or removed", ErrMutationRejected)
	ErrContentExists  = fmt.Errorf("%w: group already has a content color", ErrMutationRejected)
	ErrContentMissing = fmt.Errorf("%w: group has no content color", ErrMutationRejected)
	ErrNoSteps        = fmt.Errorf("%w: group has no numeric variants", ErrMutationRejected)
	ErrNoSizes        = fmt.Errorf("%w: no sizes to remove", ErrMutationRejected)
)
