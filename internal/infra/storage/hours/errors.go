package hours

import "errors"

var (
	// ErrHoursNotFound рабочие часы для дня не настроены
	ErrHoursNotFound = errors.New("hours.repository: working hours not found")

	ErrBuildQuery = errors.New("hours.repository: failed to build query")
	ErrExecQuery  = errors.New("hours.repository: failed to execute query")
	ErrScanRow    = errors.New("hours.repository: failed to scan row")
)
