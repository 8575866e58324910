package storage

import "errors"

var ErrRunNotFound = errors.New("run not found")
