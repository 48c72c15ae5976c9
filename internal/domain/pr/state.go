package pr

// State is either Uninitialized or Existing. It is never stored; it is the
// fold of a stream's events.
type State interface {
	isState()
}

func (Uninitialized) isState() {}
func (Existing) isState()      {}

type Uninitialized struct{}

// Existing is the snapshot of a created pull request. Reviewers hold at most
// one entry per user id; both slices are replaced, never mutated in place.
type Existing struct {
	Owner                       UserID
	SourceBranch                BranchName
	TargetBranch                BranchName
	Title                       Title
	Description                 string
	CheckForLinkedWorkItemsMode Mode
	AutoCompleteMode            Mode
	Status                      Status
	Reviewers                   []Reviewer
	WorkItems                   []WorkItemID
}

func (s Existing) Reviewer(id UserID) (Reviewer, bool) {
	for _, r := range s.Reviewers {
		if r.UserID == id {
			return r, true
		}
	}
	return Reviewer{}, false
}

func (s Existing) HasReviewer(id UserID) bool {
	_, ok := s.Reviewer(id)
	return ok
}

func (s Existing) HasWorkItem(id WorkItemID) bool {
	for _, w := range s.WorkItems {
		if w == id {
			return true
		}
	}
	return false
}

// withReviewer inserts r, or replaces the entry with the same user id.
func (s Existing) withReviewer(r Reviewer) Existing {
	out := make([]Reviewer, 0, len(s.Reviewers)+1)
	replaced := false
	for _, cur := range s.Reviewers {
		if cur.UserID == r.UserID {
			out = append(out, r)
			replaced = true
			continue
		}
		out = append(out, cur)
	}
	if !replaced {
		out = append(out, r)
	}
	s.Reviewers = out
	return s
}

// updateReviewer applies fn to the reviewer with the given id, if present.
func (s Existing) updateReviewer(id UserID, fn func(Reviewer) Reviewer) Existing {
	r, ok := s.Reviewer(id)
	if !ok {
		return s
	}
	return s.withReviewer(fn(r))
}

func (s Existing) withoutReviewer(id UserID) Existing {
	out := make([]Reviewer, 0, len(s.Reviewers))
	for _, cur := range s.Reviewers {
		if cur.UserID != id {
			out = append(out, cur)
		}
	}
	s.Reviewers = out
	return s
}

func (s Existing) withWorkItem(id WorkItemID) Existing {
	if s.HasWorkItem(id) {
		return s
	}
	out := make([]WorkItemID, 0, len(s.WorkItems)+1)
	out = append(out, s.WorkItems...)
	s.WorkItems = append(out, id)
	return s
}

func (s Existing) withoutWorkItem(id WorkItemID) Existing {
	out := make([]WorkItemID, 0, len(s.WorkItems))
	for _, cur := range s.WorkItems {
		if cur != id {
			out = append(out, cur)
		}
	}
	s.WorkItems = out
	return s
}

// ShouldAutoComplete reports whether s, taken as the state right after a
// mutation, satisfies every auto-complete condition.
func ShouldAutoComplete(s Existing) bool {
	return s.AutoCompleteMode == ModeEnabled && CompletionBlocker(s) == nil
}

// CompletionBlocker returns the first reason s cannot be completed, or nil.
// Status is not considered.
func CompletionBlocker(s Existing) error {
	for _, r := range s.Reviewers {
		if r.Feedback.IsBlocking() {
			return ErrFeedbackContainsWaitForAuthorOrReject
		}
	}
	for _, r := range s.Reviewers {
		if r.Type == ReviewerRequired && !r.Feedback.IsApproval() {
			return ErrNotAllRequiredReviewersApproved
		}
	}
	if s.CheckForLinkedWorkItemsMode == ModeEnabled && len(s.WorkItems) == 0 {
		return ErrNoWorkItemLinked
	}
	return nil
}
