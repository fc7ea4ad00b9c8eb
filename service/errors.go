package service

import (
	"context"
	"errors"
	neturl "net/url"
	"syscall"

	"google.golang.org/api/googleapi"
)

// ErrorClass qualifies an error in the logs and in the API responses
type ErrorClass string

const (
	// ClassFatal errors come from a wrong input and will fail again
	ClassFatal ErrorClass = "fatal"
	// ClassTemporary errors may succeed later (quota, unavailability, network)
	ClassTemporary ErrorClass = "temporary"
	// ClassPermanent errors are all the others
	ClassPermanent ErrorClass = "permanent"
)

type temporaryError struct{ error }
type fatalError struct{ error }

func (e *temporaryError) Unwrap() error { return e.error }
func (e *fatalError) Unwrap() error     { return e.error }

// MakeTemporary marks err as transient
func MakeTemporary(err error) error { return &temporaryError{err} }

// MakeFatal marks err as caused by a wrong input
func MakeFatal(err error) error { return &fatalError{err} }

// Fatal returns whether an error of the trace has been marked with MakeFatal
func Fatal(err error) bool {
	var ferr *fatalError
	return errors.As(err, &ferr)
}

// Temporary inspects the error trace and returns whether the error is transient.
// Exports are never retried: the result only qualifies the error.
func Temporary(err error) bool {
	var terr *temporaryError
	if errors.As(err, &terr) {
		return true
	}
	if code := HTTPStatus(err); code != 0 {
		return code == 429 || code >= 500
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var uerr *neturl.Error
	if errors.As(err, &uerr) {
		err = uerr.Err
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNABORTED, syscall.ECONNRESET, syscall.ECONNREFUSED, syscall.EPIPE, syscall.ETIMEDOUT:
			return true
		}
	}
	return false
}

// Classify returns the class of the error, fatal first
func Classify(err error) ErrorClass {
	switch {
	case Fatal(err):
		return ClassFatal
	case Temporary(err):
		return ClassTemporary
	}
	return ClassPermanent
}

// HTTPStatus returns the status code of a googleapi error in the trace, or 0
func HTTPStatus(err error) int {
	var gapiError *googleapi.Error
	if errors.As(err, &gapiError) {
		return gapiError.Code
	}
	return 0
}
