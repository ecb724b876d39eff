package services

import "errors"

var (
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrInvalidStatus    = errors.New("invalid status value")
	ErrInvalidPeriod    = errors.New("invalid period")
	ErrMissingReference = errors.New("reference is required")
	ErrMissingUser      = errors.New("transaction metadata has no userId")
)
