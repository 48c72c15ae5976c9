package domain

import "errors"

type ErrorCode string

const (
	ErrorCodeNotCreated     ErrorCode = "NOT_CREATED"
	ErrorCodeAlreadyCreated ErrorCode = "ALREADY_CREATED"
	ErrorCodeNotActive      ErrorCode = "NOT_ACTIVE"
	ErrorCodeNotAbandoned   ErrorCode = "NOT_ABANDONED"

	ErrorCodeInvalidSourceBranch            ErrorCode = "INVALID_SOURCE_BRANCH"
	ErrorCodeInvalidTargetBranch            ErrorCode = "INVALID_TARGET_BRANCH"
	ErrorCodeInvalidBranchName              ErrorCode = "INVALID_BRANCH_NAME"
	ErrorCodeTargetBranchEqualsSourceBranch ErrorCode = "TARGET_BRANCH_EQUALS_SOURCE_BRANCH"
	ErrorCodeInvalidReviewer                ErrorCode = "INVALID_REVIEWER"
	ErrorCodeTitleEmptyOrWhitespace         ErrorCode = "TITLE_EMPTY_OR_WHITESPACE"

	ErrorCodeReviewerNotFound                      ErrorCode = "REVIEWER_NOT_FOUND"
	ErrorCodeFeedbackContainsWaitForAuthorOrReject ErrorCode = "FEEDBACK_CONTAINS_WAIT_FOR_AUTHOR_OR_REJECT"
	ErrorCodeNotAllRequiredReviewersApproved       ErrorCode = "NOT_ALL_REQUIRED_REVIEWERS_APPROVED"
	ErrorCodeNoWorkItemLinked                      ErrorCode = "NO_WORK_ITEM_LINKED"

	ErrorCodeBranchExists ErrorCode = "BRANCH_EXISTS"
	ErrorCodeUserNotFound ErrorCode = "USER_NOT_FOUND"
)

// DomainError is a rejected command. Two errors are the same kind when their
// codes match, so errors.Is works against the package sentinels even when the
// returned value carries extra detail.
type DomainError struct {
	Code    ErrorCode
	Message string
	// Subject identifies the entity the error is about, e.g. a reviewer id.
	Subject string
}

func NewError(code ErrorCode, msg string) *DomainError {
	return &DomainError{Code: code, Message: msg}
}

func (e *DomainError) Error() string {
	if e.Subject != "" {
		return e.Message + ": " + e.Subject
	}
	return e.Message
}

func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithSubject returns a copy of e bound to the given subject.
func (e *DomainError) WithSubject(subject string) *DomainError {
	cp := *e
	cp.Subject = subject
	return &cp
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}
