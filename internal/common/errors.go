package common

import (
	"errors"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound       = errors.New("requested resource not found")
	ErrUnauthorized   = errors.New("unauthorized access")
	ErrForbidden      = errors.New("forbidden access")
	ErrBadRequest     = errors.New("bad request")
	ErrConflict       = errors.New("resource conflict")
	ErrInternalServer = errors.New("internal server error")
	ErrValidation     = errors.New("validation failed")
)

// The not-found family below is raised only when a write cannot resolve a
// reference it needs (or, for announcements and authentication details,
// the target of an update/delete). Plain get-by-id and delete-by-id signal
// absence through their return values instead; callers rely on that split.

type UserNotFoundError struct {
	Username string
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user %q not found", e.Username)
}

func (e *UserNotFoundError) Is(target error) bool { return target == ErrNotFound }

type AuthenticationDetailNotFoundError struct {
	Username string
	Method   string
}

func (e *AuthenticationDetailNotFoundError) Error() string {
	return fmt.Sprintf("no %s authentication detail for user %q", e.Method, e.Username)
}

func (e *AuthenticationDetailNotFoundError) Is(target error) bool { return target == ErrNotFound }

type ProblemNotFoundError struct {
	ProblemID string
}

func (e *ProblemNotFoundError) Error() string {
	return fmt.Sprintf("problem %q not found", e.ProblemID)
}

func (e *ProblemNotFoundError) Is(target error) bool { return target == ErrNotFound }

type TestCaseNotFoundError struct {
	TestCaseID string
}

func (e *TestCaseNotFoundError) Error() string {
	return fmt.Sprintf("test case %q not found", e.TestCaseID)
}

func (e *TestCaseNotFoundError) Is(target error) bool { return target == ErrNotFound }

type ContestNotFoundError struct {
	ContestID string
}

func (e *ContestNotFoundError) Error() string {
	return fmt.Sprintf("contest %q not found", e.ContestID)
}

func (e *ContestNotFoundError) Is(target error) bool { return target == ErrNotFound }

type AnnouncementNotFoundError struct {
	AnnouncementID string
}

func (e *AnnouncementNotFoundError) Error() string {
	return fmt.Sprintf("announcement %q not found", e.AnnouncementID)
}

func (e *AnnouncementNotFoundError) Is(target error) bool { return target == ErrNotFound }

type SubmissionNotFoundError struct {
	SubmissionID string
}

func (e *SubmissionNotFoundError) Error() string {
	return fmt.Sprintf("submission %q not found", e.SubmissionID)
}

func (e *SubmissionNotFoundError) Is(target error) bool { return target == ErrNotFound }

type CollectionNotFoundError struct {
	CollectionID string
}

func (e *CollectionNotFoundError) Error() string {
	return fmt.Sprintf("collection %q not found", e.CollectionID)
}

func (e *CollectionNotFoundError) Is(target error) bool { return target == ErrNotFound }

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrValidation) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrConflict) || mongo.IsDuplicateKeyError(err) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
