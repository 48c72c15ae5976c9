package pr

import (
	"errors"
	"fmt"
)

type EventType string

const (
	EventCreated                 EventType = "pr.created"
	EventTargetBranchChanged     EventType = "pr.target_branch_changed"
	EventTitleChanged            EventType = "pr.title_changed"
	EventDescriptionChanged      EventType = "pr.description_changed"
	EventRequiredReviewerAdded   EventType = "pr.required_reviewer_added"
	EventOptionalReviewerAdded   EventType = "pr.optional_reviewer_added"
	EventReviewerMadeRequired    EventType = "pr.reviewer_made_required"
	EventReviewerMadeOptional    EventType = "pr.reviewer_made_optional"
	EventReviewerRemoved         EventType = "pr.reviewer_removed"
	EventApproved                EventType = "pr.approved"
	EventApprovedWithSuggestions EventType = "pr.approved_with_suggestions"
	EventWaitingForAuthor        EventType = "pr.waiting_for_author"
	EventRejected                EventType = "pr.rejected"
	EventFeedbackReset           EventType = "pr.feedback_reset"
	EventWorkItemLinked          EventType = "pr.work_item_linked"
	EventWorkItemRemoved         EventType = "pr.work_item_removed"
	EventCompleted               EventType = "pr.completed"
	EventAutoCompleteSet         EventType = "pr.auto_complete_set"
	EventAutoCompleteCancelled   EventType = "pr.auto_complete_cancelled"
	EventAbandoned               EventType = "pr.abandoned"
	EventReactivated             EventType = "pr.reactivated"
)

// Event is the closed set of facts recorded in a pull request stream.
type Event interface {
	EventType() EventType
	isEvent()
}

type CreatedEvent struct {
	Owner                       UserID     `json:"owner"`
	SourceBranch                BranchName `json:"source_branch"`
	TargetBranch                BranchName `json:"target_branch"`
	Title                       Title      `json:"title"`
	Description                 string     `json:"description"`
	CheckForLinkedWorkItemsMode Mode       `json:"check_for_linked_work_items_mode"`
}

type TargetBranchChangedEvent struct {
	TargetBranch BranchName `json:"target_branch"`
}

type TitleChangedEvent struct {
	Title Title `json:"title"`
}

type DescriptionChangedEvent struct {
	Description string `json:"description"`
}

type RequiredReviewerAddedEvent struct {
	UserID UserID `json:"user_id"`
}

type OptionalReviewerAddedEvent struct {
	UserID UserID `json:"user_id"`
}

type ReviewerMadeRequiredEvent struct {
	UserID UserID `json:"user_id"`
}

type ReviewerMadeOptionalEvent struct {
	UserID UserID `json:"user_id"`
}

type ReviewerRemovedEvent struct {
	UserID UserID `json:"user_id"`
}

type ApprovedEvent struct {
	UserID UserID `json:"user_id"`
}

type ApprovedWithSuggestionsEvent struct {
	UserID UserID `json:"user_id"`
}

type WaitingForAuthorEvent struct {
	UserID UserID `json:"user_id"`
}

type RejectedEvent struct {
	UserID UserID `json:"user_id"`
}

type FeedbackResetEvent struct {
	UserID UserID `json:"user_id"`
}

type WorkItemLinkedEvent struct {
	WorkItemID WorkItemID `json:"work_item_id"`
}

type WorkItemRemovedEvent struct {
	WorkItemID WorkItemID `json:"work_item_id"`
}

type CompletedEvent struct{}
type AutoCompleteSetEvent struct{}
type AutoCompleteCancelledEvent struct{}
type AbandonedEvent struct{}
type ReactivatedEvent struct{}

func (CreatedEvent) isEvent()                 {}
func (TargetBranchChangedEvent) isEvent()     {}
func (TitleChangedEvent) isEvent()            {}
func (DescriptionChangedEvent) isEvent()      {}
func (RequiredReviewerAddedEvent) isEvent()   {}
func (OptionalReviewerAddedEvent) isEvent()   {}
func (ReviewerMadeRequiredEvent) isEvent()    {}
func (ReviewerMadeOptionalEvent) isEvent()    {}
func (ReviewerRemovedEvent) isEvent()         {}
func (ApprovedEvent) isEvent()                {}
func (ApprovedWithSuggestionsEvent) isEvent() {}
func (WaitingForAuthorEvent) isEvent()        {}
func (RejectedEvent) isEvent()                {}
func (FeedbackResetEvent) isEvent()           {}
func (WorkItemLinkedEvent) isEvent()          {}
func (WorkItemRemovedEvent) isEvent()         {}
func (CompletedEvent) isEvent()               {}
func (AutoCompleteSetEvent) isEvent()         {}
func (AutoCompleteCancelledEvent) isEvent()   {}
func (AbandonedEvent) isEvent()               {}
func (ReactivatedEvent) isEvent()             {}

func (CreatedEvent) EventType() EventType                 { return EventCreated }
func (TargetBranchChangedEvent) EventType() EventType     { return EventTargetBranchChanged }
func (TitleChangedEvent) EventType() EventType            { return EventTitleChanged }
func (DescriptionChangedEvent) EventType() EventType      { return EventDescriptionChanged }
func (RequiredReviewerAddedEvent) EventType() EventType   { return EventRequiredReviewerAdded }
func (OptionalReviewerAddedEvent) EventType() EventType   { return EventOptionalReviewerAdded }
func (ReviewerMadeRequiredEvent) EventType() EventType    { return EventReviewerMadeRequired }
func (ReviewerMadeOptionalEvent) EventType() EventType    { return EventReviewerMadeOptional }
func (ReviewerRemovedEvent) EventType() EventType         { return EventReviewerRemoved }
func (ApprovedEvent) EventType() EventType                { return EventApproved }
func (ApprovedWithSuggestionsEvent) EventType() EventType { return EventApprovedWithSuggestions }
func (WaitingForAuthorEvent) EventType() EventType        { return EventWaitingForAuthor }
func (RejectedEvent) EventType() EventType                { return EventRejected }
func (FeedbackResetEvent) EventType() EventType           { return EventFeedbackReset }
func (WorkItemLinkedEvent) EventType() EventType          { return EventWorkItemLinked }
func (WorkItemRemovedEvent) EventType() EventType         { return EventWorkItemRemoved }
func (CompletedEvent) EventType() EventType               { return EventCompleted }
func (AutoCompleteSetEvent) EventType() EventType         { return EventAutoCompleteSet }
func (AutoCompleteCancelledEvent) EventType() EventType   { return EventAutoCompleteCancelled }
func (AbandonedEvent) EventType() EventType               { return EventAbandoned }
func (ReactivatedEvent) EventType() EventType             { return EventReactivated }

// DecodeEvent builds the variant registered under t, letting decode fill it
// from its serialized payload. decode receives a pointer to the zero value.
func DecodeEvent(t EventType, decode func(v any) error) (Event, error) {
	switch t {
	case EventCreated:
		return decodeAs[CreatedEvent](decode)
	case EventTargetBranchChanged:
		return decodeAs[TargetBranchChangedEvent](decode)
	case EventTitleChanged:
		return decodeAs[TitleChangedEvent](decode)
	case EventDescriptionChanged:
		return decodeAs[DescriptionChangedEvent](decode)
	case EventRequiredReviewerAdded:
		return decodeAs[RequiredReviewerAddedEvent](decode)
	case EventOptionalReviewerAdded:
		return decodeAs[OptionalReviewerAddedEvent](decode)
	case EventReviewerMadeRequired:
		return decodeAs[ReviewerMadeRequiredEvent](decode)
	case EventReviewerMadeOptional:
		return decodeAs[ReviewerMadeOptionalEvent](decode)
	case EventReviewerRemoved:
		return decodeAs[ReviewerRemovedEvent](decode)
	case EventApproved:
		return decodeAs[ApprovedEvent](decode)
	case EventApprovedWithSuggestions:
		return decodeAs[ApprovedWithSuggestionsEvent](decode)
	case EventWaitingForAuthor:
		return decodeAs[WaitingForAuthorEvent](decode)
	case EventRejected:
		return decodeAs[RejectedEvent](decode)
	case EventFeedbackReset:
		return decodeAs[FeedbackResetEvent](decode)
	case EventWorkItemLinked:
		return decodeAs[WorkItemLinkedEvent](decode)
	case EventWorkItemRemoved:
		return decodeAs[WorkItemRemovedEvent](decode)
	case EventCompleted:
		return decodeAs[CompletedEvent](decode)
	case EventAutoCompleteSet:
		return decodeAs[AutoCompleteSetEvent](decode)
	case EventAutoCompleteCancelled:
		return decodeAs[AutoCompleteCancelledEvent](decode)
	case EventAbandoned:
		return decodeAs[AbandonedEvent](decode)
	case EventReactivated:
		return decodeAs[ReactivatedEvent](decode)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, t)
}

var ErrUnknownEventType = errors.New("unknown event type")

func decodeAs[E Event](decode func(v any) error) (Event, error) {
	var e E
	if err := decode(&e); err != nil {
		return nil, err
	}
	return e, nil
}

// EventTypes lists every discriminator, in declaration order.
func EventTypes() []EventType {
	return []EventType{
		EventCreated, EventTargetBranchChanged, EventTitleChanged, EventDescriptionChanged,
		EventRequiredReviewerAdded, EventOptionalReviewerAdded, EventReviewerMadeRequired,
		EventReviewerMadeOptional, EventReviewerRemoved, EventApproved, EventApprovedWithSuggestions,
		EventWaitingForAuthor, EventRejected, EventFeedbackReset, EventWorkItemLinked,
		EventWorkItemRemoved, EventCompleted, EventAutoCompleteSet, EventAutoCompleteCancelled,
		EventAbandoned, EventReactivated,
	}
}
