package pr

import "fmt"

// Evolve applies one event to a state. Receiving Created on an existing pull
// request, or anything but Created before it exists, means the stream is
// corrupt and Evolve panics.
func Evolve(state State, event Event) State {
	switch s := state.(type) {
	case Uninitialized:
		e, ok := event.(CreatedEvent)
		if !ok {
			panic(fmt.Sprintf("pr: cannot apply %s to an uninitialized pull request", event.EventType()))
		}
		return Existing{
			Owner:                       e.Owner,
			SourceBranch:                e.SourceBranch,
			TargetBranch:                e.TargetBranch,
			Title:                       e.Title,
			Description:                 e.Description,
			CheckForLinkedWorkItemsMode: e.CheckForLinkedWorkItemsMode,
			AutoCompleteMode:            ModeDisabled,
			Status:                      StatusActive,
			Reviewers:                   []Reviewer{},
			WorkItems:                   []WorkItemID{},
		}
	case Existing:
		return evolveExisting(s, event)
	default:
		panic(fmt.Sprintf("pr: unknown state %T", state))
	}
}

func evolveExisting(s Existing, event Event) Existing {
	switch e := event.(type) {
	case CreatedEvent:
		panic("pr: cannot apply pr.created to an existing pull request")
	case TargetBranchChangedEvent:
		s.TargetBranch = e.TargetBranch
	case TitleChangedEvent:
		s.Title = e.Title
	case DescriptionChangedEvent:
		s.Description = e.Description
	case RequiredReviewerAddedEvent:
		s = s.withReviewer(Reviewer{UserID: e.UserID, Type: ReviewerRequired, Feedback: FeedbackNone})
	case OptionalReviewerAddedEvent:
		s = s.withReviewer(Reviewer{UserID: e.UserID, Type: ReviewerOptional, Feedback: FeedbackNone})
	case ReviewerMadeRequiredEvent:
		s = s.updateReviewer(e.UserID, withType(ReviewerRequired))
	case ReviewerMadeOptionalEvent:
		s = s.updateReviewer(e.UserID, withType(ReviewerOptional))
	case ReviewerRemovedEvent:
		s = s.withoutReviewer(e.UserID)
	case ApprovedEvent:
		s = s.updateReviewer(e.UserID, withFeedback(FeedbackApproved))
	case ApprovedWithSuggestionsEvent:
		s = s.updateReviewer(e.UserID, withFeedback(FeedbackApprovedWithSuggestions))
	case WaitingForAuthorEvent:
		s = s.updateReviewer(e.UserID, withFeedback(FeedbackWaitingForAuthor))
	case RejectedEvent:
		s = s.updateReviewer(e.UserID, withFeedback(FeedbackRejected))
	case FeedbackResetEvent:
		s = s.updateReviewer(e.UserID, withFeedback(FeedbackNone))
	case WorkItemLinkedEvent:
		s = s.withWorkItem(e.WorkItemID)
	case WorkItemRemovedEvent:
		s = s.withoutWorkItem(e.WorkItemID)
	case CompletedEvent:
		s.Status = StatusCompleted
	case AutoCompleteSetEvent:
		s.AutoCompleteMode = ModeEnabled
	case AutoCompleteCancelledEvent:
		s.AutoCompleteMode = ModeDisabled
	case AbandonedEvent:
		s.Status = StatusAbandoned
	case ReactivatedEvent:
		s.Status = StatusActive
	default:
		panic(fmt.Sprintf("pr: unknown event %T", event))
	}
	return s
}

// Fold replays events from Uninitialized.
func Fold(events []Event) State {
	return FoldFrom(Uninitialized{}, events)
}

func FoldFrom(state State, events []Event) State {
	for _, e := range events {
		state = Evolve(state, e)
	}
	return state
}

func withType(t ReviewerType) func(Reviewer) Reviewer {
	return func(r Reviewer) Reviewer {
		r.Type = t
		return r
	}
}

func withFeedback(f Feedback) func(Reviewer) Reviewer {
	return func(r Reviewer) Reviewer {
		r.Feedback = f
		return r
	}
}
