package types

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrMissingDB indicates a repository was constructed without a bun DB.
	ErrMissingDB = errors.New("go-sitebook: bun db required")
	// ErrMissingActivityRepository indicates the activity log repository was not wired.
	ErrMissingActivityRepository = errors.New("go-sitebook: missing activity repository")
	// ErrMissingUserActivityRepository indicates the read-tracking repository was not wired.
	ErrMissingUserActivityRepository = errors.New("go-sitebook: missing user activity repository")
	// ErrUserIDRequired indicates a user identifier was omitted.
	ErrUserIDRequired = errors.New("go-sitebook: user id required")
	// ErrProjectIDRequired indicates a project identifier was omitted.
	ErrProjectIDRequired = errors.New("go-sitebook: project id required")
	// ErrActionRequired indicates an activity action tag was omitted.
	ErrActionRequired = errors.New("go-sitebook: activity action required")
)

// InvalidArgument reports a contract violation by the caller, for example an
// unknown section name or an unknown filter column.
func InvalidArgument(format string, args ...any) error {
	return goerrors.New(fmt.Sprintf(format, args...), goerrors.CategoryValidation).
		WithCode(goerrors.CodeBadRequest)
}

// OperationFailed reports a mutation that targeted a record which existed when
// loaded but was gone by the time the write reached storage.
func OperationFailed(cause error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if cause == nil {
		return goerrors.New(msg, goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	return goerrors.Wrap(cause, goerrors.CategoryInternal, msg).WithCode(goerrors.CodeInternal)
}

// NotFound is used by command and query handlers that must produce a result;
// repositories report misses as nil values instead.
func NotFound(format string, args ...any) error {
	return goerrors.New(fmt.Sprintf(format, args...), goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound)
}

// IsInvalidArgument reports whether err was produced by InvalidArgument.
func IsInvalidArgument(err error) bool {
	var richErr *goerrors.Error
	return goerrors.As(err, &richErr) && richErr.Category == goerrors.CategoryValidation
}

// IsOperationFailed reports whether err was produced by OperationFailed.
func IsOperationFailed(err error) bool {
	var richErr *goerrors.Error
	return goerrors.As(err, &richErr) && richErr.Category == goerrors.CategoryInternal
}

// IsNotFound reports whether err was produced by NotFound.
func IsNotFound(err error) bool {
	var richErr *goerrors.Error
	return goerrors.As(err, &richErr) && richErr.Category == goerrors.CategoryNotFound
}
