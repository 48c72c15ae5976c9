package pr

import (
	"strings"
	"unicode"
)

type UserID string

type WorkItemID string

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusAbandoned Status = "ABANDONED"
)

// Mode is the on/off switch used for auto-complete and for the linked work
// item check.
type Mode string

const (
	ModeDisabled Mode = "DISABLED"
	ModeEnabled  Mode = "ENABLED"
)

type ReviewerType string

const (
	ReviewerRequired ReviewerType = "REQUIRED"
	ReviewerOptional ReviewerType = "OPTIONAL"
)

type Feedback string

const (
	FeedbackNone                    Feedback = "NONE"
	FeedbackApproved                Feedback = "APPROVED"
	FeedbackApprovedWithSuggestions Feedback = "APPROVED_WITH_SUGGESTIONS"
	FeedbackWaitingForAuthor        Feedback = "WAITING_FOR_AUTHOR"
	FeedbackRejected                Feedback = "REJECTED"
)

// IsApproval reports whether the feedback lets a required reviewer pass.
func (f Feedback) IsApproval() bool {
	return f == FeedbackApproved || f == FeedbackApprovedWithSuggestions
}

// IsBlocking reports whether the feedback prevents completion.
func (f Feedback) IsBlocking() bool {
	return f == FeedbackWaitingForAuthor || f == FeedbackRejected
}

type Reviewer struct {
	UserID   UserID
	Type     ReviewerType
	Feedback Feedback
}

// Title is a pull request title with at least one non-whitespace character.
type Title struct {
	value string
}

func NewTitle(s string) (Title, error) {
	if strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0 {
		return Title{}, ErrTitleEmptyOrWhitespace
	}
	return Title{value: s}, nil
}

func MustTitle(s string) Title {
	t, err := NewTitle(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Title) String() string { return t.value }

func (t Title) MarshalText() ([]byte, error) {
	return []byte(t.value), nil
}

func (t *Title) UnmarshalText(b []byte) error {
	v, err := NewTitle(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
