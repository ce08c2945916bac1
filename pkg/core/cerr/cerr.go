package cerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind partitions the failure conditions of the core into the four
// categories which callers are expected to branch on.
type Kind int

const (
	KindNotFound   Kind = iota + 1 // lookup miss, a normal negative result
	KindSubmission                 // network submission failed, recoverable by queueing
	KindStorage                    // durable store write failed, fatal to the operation
	KindDiagnosis                  // image analysis failed, non-fatal
)

type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Kind, e.Err.Error())
}

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not-found"
	case KindSubmission:
		return "submission"
	case KindStorage:
		return "storage"
	case KindDiagnosis:
		return "diagnosis"
	default:
		return "unknown"
	}
}

// HTTPStatusCode maps the error kind to a status code for the REST
// serialization layer.
func (e *Error) HTTPStatusCode() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindSubmission, KindDiagnosis:
		return http.StatusBadGateway
	case KindStorage:
		return http.StatusInsufficientStorage
	default:
		return http.StatusInternalServerError
	}
}

func NotFound(err error) *Error {
	return &Error{Kind: KindNotFound, Err: err}
}

func Submission(err error) *Error {
	return &Error{Kind: KindSubmission, Err: err}
}

func Storage(err error) *Error {
	return &Error{Kind: KindStorage, Err: err}
}

func Diagnosis(err error) *Error {
	return &Error{Kind: KindDiagnosis, Err: err}
}

// IsKind reports whether err or any error in its chain is a cerr.Error
// of the k kind.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}

func IsSubmission(err error) bool {
	return IsKind(err, KindSubmission)
}

func IsStorage(err error) bool {
	return IsKind(err, KindStorage)
}

func IsDiagnosis(err error) bool {
	return IsKind(err, KindDiagnosis)
}
