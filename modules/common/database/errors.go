package database

import "errors"

var ErrNotFound = errors.New("gallery entry not found")
