package models

import (
	"errors"
	"fmt"
)

var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrCorruptState       = errors.New("corrupt state")
	ErrAccountNotFound    = errors.New("account not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrScheduleNotFound   = errors.New("schedule not found")
	ErrInvalidRecurrence  = errors.New("invalid recurrence")
	ErrUnknownPlatform    = errors.New("unknown platform")
	ErrInvalidInput       = errors.New("invalid input")
	ErrTimeout            = errors.New("timeout")
)

// PublishFailedError is returned when the external publisher rejects or does not answer in time.
type PublishFailedError struct {
	Reason string
	Err    error
}

func (e *PublishFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("publish failed: %s: %s", e.Reason, e.Err)
	}
	return "publish failed: " + e.Reason
}

func (e *PublishFailedError) Unwrap() error {
	return e.Err
}

func NewPublishFailed(reason string, err error) error {
	return &PublishFailedError{Reason: reason, Err: err}
}

func IsPublishFailed(err error) bool {
	var pf *PublishFailedError
	return errors.As(err, &pf)
}
