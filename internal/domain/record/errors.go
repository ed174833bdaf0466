package record

import "errors"

var (
	ErrRecordNotFound = errors.New("medical record not found")
)
