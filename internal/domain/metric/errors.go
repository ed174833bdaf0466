package metric

import "errors"

var (
	ErrMetricNotFound = errors.New("health metric not found")
	ErrInvalidValue   = errors.New("metric value must be a finite number")
)
