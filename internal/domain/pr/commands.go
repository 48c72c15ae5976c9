package pr

// Command is the closed set of requests a pull request can be asked to handle.
type Command interface {
	CommandName() string
	isCommand()
}

// Checks answers the questions the decider cannot answer from state alone.
// Implementations must be side-effect free from the decider's point of view.
type Checks interface {
	BranchExists(BranchName) bool
	ReviewerValid(UserID) bool
}

type Create struct {
	Owner                       UserID
	SourceBranch                BranchName
	TargetBranch                BranchName
	Title                       Title
	Description                 string
	CheckForLinkedWorkItemsMode Mode
}

type ChangeTargetBranch struct{ TargetBranch BranchName }
type ChangeTitle struct{ Title Title }
type ChangeDescription struct{ Description string }

type AddRequiredReviewer struct{ UserID UserID }
type AddOptionalReviewer struct{ UserID UserID }
type MakeReviewerRequired struct{ UserID UserID }
type MakeReviewerOptional struct{ UserID UserID }
type RemoveReviewer struct{ UserID UserID }

type Approve struct{ UserID UserID }
type ApproveWithSuggestions struct{ UserID UserID }
type WaitForAuthor struct{ UserID UserID }
type Reject struct{ UserID UserID }
type ResetFeedback struct{ UserID UserID }

type LinkWorkItem struct{ WorkItemID WorkItemID }
type RemoveWorkItem struct{ WorkItemID WorkItemID }

type Complete struct{}
type SetAutoComplete struct{}
type CancelAutoComplete struct{}
type Abandon struct{}
type Reactivate struct{}

func (Create) isCommand()                 {}
func (ChangeTargetBranch) isCommand()     {}
func (ChangeTitle) isCommand()            {}
func (ChangeDescription) isCommand()      {}
func (AddRequiredReviewer) isCommand()    {}
func (AddOptionalReviewer) isCommand()    {}
func (MakeReviewerRequired) isCommand()   {}
func (MakeReviewerOptional) isCommand()   {}
func (RemoveReviewer) isCommand()         {}
func (Approve) isCommand()                {}
func (ApproveWithSuggestions) isCommand() {}
func (WaitForAuthor) isCommand()          {}
func (Reject) isCommand()                 {}
func (ResetFeedback) isCommand()          {}
func (LinkWorkItem) isCommand()           {}
func (RemoveWorkItem) isCommand()         {}
func (Complete) isCommand()               {}
func (SetAutoComplete) isCommand()        {}
func (CancelAutoComplete) isCommand()     {}
func (Abandon) isCommand()                {}
func (Reactivate) isCommand()             {}

func (Create) CommandName() string                 { return "create" }
func (ChangeTargetBranch) CommandName() string     { return "change_target_branch" }
func (ChangeTitle) CommandName() string            { return "change_title" }
func (ChangeDescription) CommandName() string      { return "change_description" }
func (AddRequiredReviewer) CommandName() string    { return "add_required_reviewer" }
func (AddOptionalReviewer) CommandName() string    { return "add_optional_reviewer" }
func (MakeReviewerRequired) CommandName() string   { return "make_reviewer_required" }
func (MakeReviewerOptional) CommandName() string   { return "make_reviewer_optional" }
func (RemoveReviewer) CommandName() string         { return "remove_reviewer" }
func (Approve) CommandName() string                { return "approve" }
func (ApproveWithSuggestions) CommandName() string { return "approve_with_suggestions" }
func (WaitForAuthor) CommandName() string          { return "wait_for_author" }
func (Reject) CommandName() string                 { return "reject" }
func (ResetFeedback) CommandName() string          { return "reset_feedback" }
func (LinkWorkItem) CommandName() string           { return "link_work_item" }
func (RemoveWorkItem) CommandName() string         { return "remove_work_item" }
func (Complete) CommandName() string               { return "complete" }
func (SetAutoComplete) CommandName() string        { return "set_auto_complete" }
func (CancelAutoComplete) CommandName() string     { return "cancel_auto_complete" }
func (Abandon) CommandName() string                { return "abandon" }
func (Reactivate) CommandName() string             { return "reactivate" }

// Commands returns one zero value of every command variant.
func Commands() []Command {
	return []Command{
		Create{}, ChangeTargetBranch{}, ChangeTitle{}, ChangeDescription{},
		AddRequiredReviewer{}, AddOptionalReviewer{}, MakeReviewerRequired{},
		MakeReviewerOptional{}, RemoveReviewer{}, Approve{}, ApproveWithSuggestions{},
		WaitForAuthor{}, Reject{}, ResetFeedback{}, LinkWorkItem{}, RemoveWorkItem{},
		Complete{}, SetAutoComplete{}, CancelAutoComplete{}, Abandon{}, Reactivate{},
	}
}

// CommandNames returns the discriminator of every command variant.
func CommandNames() []string {
	cmds := Commands()
	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		names = append(names, c.CommandName())
	}
	return names
}
