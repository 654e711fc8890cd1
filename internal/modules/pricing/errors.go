package pricing

import "errors"

var ErrInvalidDurationType = errors.New("invalid duration type")
