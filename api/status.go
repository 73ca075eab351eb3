// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package api

import (
	"errors"
	"fmt"
)

// Status is the kind of a creation failure
type Status uint8

// Statuses reported by device creation
const (
	StatusOk Status = iota
	StatusMissingRequiredFeature
	StatusUnsupportedFormat
	StatusUnsupportedSampleCount
	StatusUnsupportedQueueType
	StatusUnsupportedLimit
	StatusOutOfMemory
	StatusInvalidArgument
	StatusInternalError
)

var statusNames = [...]string{
	StatusOk:                     "Ok",
	StatusMissingRequiredFeature: "MissingRequiredFeature",
	StatusUnsupportedFormat:      "UnsupportedFormat",
	StatusUnsupportedSampleCount: "UnsupportedSampleCount",
	StatusUnsupportedQueueType:   "UnsupportedQueueType",
	StatusUnsupportedLimit:       "UnsupportedLimit",
	StatusOutOfMemory:            "OutOfMemory",
	StatusInvalidArgument:        "InvalidArgument",
	StatusInternalError:          "InternalError",
}

// Any value outside the known range reads as InternalError.
func (s Status) String() string {
	if int(s) >= len(statusNames) {
		return statusNames[StatusInternalError]
	}
	return statusNames[s]
}

// ParseStatus returns the status with exactly the given name.
func ParseStatus(name string) (Status, bool) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), true
		}
	}
	return StatusInternalError, false
}

// CreateError is the failure value of device creation.
type CreateError struct {
	Status  Status
	Message string

	// Detail carries the native error text when the failure
	// came from the underlying API.
	Detail string
}

func (e *CreateError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Status, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Status, e.Message)
}

// Errorf builds a CreateError with a formatted message.
func Errorf(status Status, format string, args ...interface{}) *CreateError {
	return &CreateError{
		Status:  status,
		Message: fmt.Sprintf(format, args...),
	}
}

// Internal wraps a native failure as an InternalError, keeping its text
// as detail.
func Internal(message string, cause error) *CreateError {
	e := &CreateError{
		Status:  StatusInternalError,
		Message: message,
	}
	if cause != nil {
		e.Detail = cause.Error()
	}
	return e
}

// StatusOf returns the status carried by err. Nil is Ok, any error that
// is not a CreateError is InternalError.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOk
	}
	var ce *CreateError
	if errors.As(err, &ce) {
		return ce.Status
	}
	return StatusInternalError
}
