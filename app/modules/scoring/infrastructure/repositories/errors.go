package scoringdb

import "errors"

var ErrNotFound = errors.New("standing: not found")
