package bonus

import "errors"

var (
	ErrYearRequired        = errors.New("reference year is required")
	ErrBonusRecordNotFound = errors.New("annual bonus record not found")
)
