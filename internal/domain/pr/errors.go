package pr

import "prlifecycle/internal/domain"

var (
	ErrNotCreated     = domain.NewError(domain.ErrorCodeNotCreated, "pull request does not exist")
	ErrAlreadyCreated = domain.NewError(domain.ErrorCodeAlreadyCreated, "pull request already exists")
	ErrNotActive      = domain.NewError(domain.ErrorCodeNotActive, "pull request is not active")
	ErrNotAbandoned   = domain.NewError(domain.ErrorCodeNotAbandoned, "pull request is not abandoned")

	ErrInvalidSourceBranch            = domain.NewError(domain.ErrorCodeInvalidSourceBranch, "source branch does not exist")
	ErrInvalidTargetBranch            = domain.NewError(domain.ErrorCodeInvalidTargetBranch, "target branch does not exist")
	ErrInvalidBranchName              = domain.NewError(domain.ErrorCodeInvalidBranchName, "invalid branch name")
	ErrTargetBranchEqualsSourceBranch = domain.NewError(domain.ErrorCodeTargetBranchEqualsSourceBranch, "target branch equals source branch")
	ErrInvalidReviewer                = domain.NewError(domain.ErrorCodeInvalidReviewer, "invalid reviewer")
	ErrTitleEmptyOrWhitespace         = domain.NewError(domain.ErrorCodeTitleEmptyOrWhitespace, "title is empty or whitespace")

	ErrReviewerNotFound                      = domain.NewError(domain.ErrorCodeReviewerNotFound, "reviewer not found")
	ErrFeedbackContainsWaitForAuthorOrReject = domain.NewError(domain.ErrorCodeFeedbackContainsWaitForAuthorOrReject, "feedback contains wait for author or reject")
	ErrNotAllRequiredReviewersApproved       = domain.NewError(domain.ErrorCodeNotAllRequiredReviewersApproved, "not all required reviewers approved")
	ErrNoWorkItemLinked                      = domain.NewError(domain.ErrorCodeNoWorkItemLinked, "no work item linked")
)

// ReviewerNotFound returns ErrReviewerNotFound bound to the missing user.
func ReviewerNotFound(id UserID) error {
	return ErrReviewerNotFound.WithSubject(string(id))
}
