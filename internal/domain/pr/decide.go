package pr

import "fmt"

// Decide evaluates cmd against state. A nil error with no events means the
// command was valid but changed nothing. Decide never performs I/O other than
// through checks.
func Decide(state State, cmd Command, checks Checks) ([]Event, error) {
	switch s := state.(type) {
	case Uninitialized:
		c, ok := cmd.(Create)
		if !ok {
			return nil, ErrNotCreated
		}
		return decideCreate(c, checks)
	case Existing:
		return decideExisting(s, cmd, checks)
	default:
		panic(fmt.Sprintf("pr: unknown state %T", state))
	}
}

func decideCreate(c Create, checks Checks) ([]Event, error) {
	if !checks.BranchExists(c.SourceBranch) {
		return nil, ErrInvalidSourceBranch
	}
	if !checks.BranchExists(c.TargetBranch) {
		return nil, ErrInvalidTargetBranch
	}
	if c.SourceBranch == c.TargetBranch {
		return nil, ErrTargetBranchEqualsSourceBranch
	}
	mode := c.CheckForLinkedWorkItemsMode
	if mode == "" {
		mode = ModeDisabled
	}
	return events(CreatedEvent{
		Owner:                       c.Owner,
		SourceBranch:                c.SourceBranch,
		TargetBranch:                c.TargetBranch,
		Title:                       c.Title,
		Description:                 c.Description,
		CheckForLinkedWorkItemsMode: mode,
	}), nil
}

func decideExisting(s Existing, cmd Command, checks Checks) ([]Event, error) {
	switch cmd.(type) {
	case Create:
		return nil, ErrAlreadyCreated
	case Abandon:
		return decideAbandon(s)
	case Reactivate:
		return decideReactivate(s)
	}

	if s.Status != StatusActive {
		return nil, ErrNotActive
	}

	switch c := cmd.(type) {
	case ChangeTargetBranch:
		return decideChangeTargetBranch(s, c, checks)

	case ChangeTitle:
		if s.Title == c.Title {
			return nil, nil
		}
		return events(TitleChangedEvent{Title: c.Title}), nil

	case ChangeDescription:
		if s.Description == c.Description {
			return nil, nil
		}
		return events(DescriptionChangedEvent{Description: c.Description}), nil

	case AddRequiredReviewer:
		return decideAddReviewer(s, c.UserID, checks, RequiredReviewerAddedEvent{UserID: c.UserID})

	case AddOptionalReviewer:
		return decideAddReviewer(s, c.UserID, checks, OptionalReviewerAddedEvent{UserID: c.UserID})

	case MakeReviewerRequired:
		return decideChangeReviewerType(s, c.UserID, ReviewerRequired, ReviewerMadeRequiredEvent{UserID: c.UserID})

	case MakeReviewerOptional:
		return decideChangeReviewerType(s, c.UserID, ReviewerOptional, ReviewerMadeOptionalEvent{UserID: c.UserID})

	case RemoveReviewer:
		if !s.HasReviewer(c.UserID) {
			return nil, nil
		}
		return withAutoComplete(s, ReviewerRemovedEvent{UserID: c.UserID}), nil

	case Approve:
		return withAutoComplete(s, enrolled(s, c.UserID, ApprovedEvent{UserID: c.UserID})...), nil

	case ApproveWithSuggestions:
		return withAutoComplete(s, enrolled(s, c.UserID, ApprovedWithSuggestionsEvent{UserID: c.UserID})...), nil

	case WaitForAuthor:
		return enrolled(s, c.UserID, WaitingForAuthorEvent{UserID: c.UserID}), nil

	case Reject:
		return enrolled(s, c.UserID, RejectedEvent{UserID: c.UserID}), nil

	case ResetFeedback:
		if !s.HasReviewer(c.UserID) {
			return nil, ReviewerNotFound(c.UserID)
		}
		return withAutoComplete(s, FeedbackResetEvent{UserID: c.UserID}), nil

	case LinkWorkItem:
		if s.HasWorkItem(c.WorkItemID) {
			return nil, nil
		}
		return withAutoComplete(s, WorkItemLinkedEvent{WorkItemID: c.WorkItemID}), nil

	case RemoveWorkItem:
		if !s.HasWorkItem(c.WorkItemID) {
			return nil, nil
		}
		return events(WorkItemRemovedEvent{WorkItemID: c.WorkItemID}), nil

	case Complete:
		if err := CompletionBlocker(s); err != nil {
			return nil, err
		}
		return events(CompletedEvent{}), nil

	case SetAutoComplete:
		if s.AutoCompleteMode == ModeEnabled {
			return nil, nil
		}
		return withAutoComplete(s, AutoCompleteSetEvent{}), nil

	case CancelAutoComplete:
		if s.AutoCompleteMode == ModeDisabled {
			return nil, nil
		}
		return events(AutoCompleteCancelledEvent{}), nil

	default:
		panic(fmt.Sprintf("pr: unhandled command %T", cmd))
	}
}

func decideChangeTargetBranch(s Existing, c ChangeTargetBranch, checks Checks) ([]Event, error) {
	if s.TargetBranch == c.TargetBranch {
		return nil, nil
	}
	if !checks.BranchExists(c.TargetBranch) {
		return nil, ErrInvalidTargetBranch
	}
	if c.TargetBranch == s.SourceBranch {
		return nil, ErrTargetBranchEqualsSourceBranch
	}
	return events(TargetBranchChangedEvent{TargetBranch: c.TargetBranch}), nil
}

func decideAddReviewer(s Existing, id UserID, checks Checks, added Event) ([]Event, error) {
	if s.HasReviewer(id) {
		return nil, nil
	}
	if !checks.ReviewerValid(id) {
		return nil, ErrInvalidReviewer.WithSubject(string(id))
	}
	return events(added), nil
}

func decideChangeReviewerType(s Existing, id UserID, want ReviewerType, changed Event) ([]Event, error) {
	r, ok := s.Reviewer(id)
	if !ok {
		return nil, ReviewerNotFound(id)
	}
	if r.Type == want {
		return nil, nil
	}
	return withAutoComplete(s, changed), nil
}

func decideAbandon(s Existing) ([]Event, error) {
	switch s.Status {
	case StatusAbandoned:
		return nil, nil
	case StatusActive:
		return events(AbandonedEvent{}), nil
	default:
		return nil, ErrNotActive
	}
}

func decideReactivate(s Existing) ([]Event, error) {
	switch s.Status {
	case StatusActive:
		return nil, nil
	case StatusAbandoned:
		return events(ReactivatedEvent{}), nil
	default:
		return nil, ErrNotAbandoned
	}
}

// enrolled prefixes feedback with OptionalReviewerAdded when the user is not
// a reviewer yet.
func enrolled(s Existing, id UserID, feedback Event) []Event {
	if s.HasReviewer(id) {
		return events(feedback)
	}
	return events(OptionalReviewerAddedEvent{UserID: id}, feedback)
}

// withAutoComplete projects primary onto s and appends Completed when the
// projected state satisfies auto-complete.
func withAutoComplete(s Existing, primary ...Event) []Event {
	next, ok := FoldFrom(s, primary).(Existing)
	if ok && next.Status == StatusActive && ShouldAutoComplete(next) {
		return append(primary, CompletedEvent{})
	}
	return primary
}

func events(e ...Event) []Event {
	return e
}
