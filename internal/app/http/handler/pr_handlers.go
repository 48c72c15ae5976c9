package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prlifecycle/internal/app/dto"
	"prlifecycle/internal/domain/eventstore"
	"prlifecycle/internal/domain/pr"
)

type prRef struct {
	PullRequestID string `json:"pull_request_id"`
}

type userRef struct {
	PullRequestID string `json:"pull_request_id"`
	UserID        string `json:"user_id"`
}

type workItemRef struct {
	PullRequestID string `json:"pull_request_id"`
	WorkItemID    string `json:"work_item_id"`
}

func (h *Handler) PRCreate(c *gin.Context) {
	var body struct {
		PullRequestID           string `json:"pull_request_id"`
		Owner                   string `json:"owner"`
		SourceBranch            string `json:"source_branch"`
		TargetBranch            string `json:"target_branch"`
		Title                   string `json:"title"`
		Description             string `json:"description"`
		CheckForLinkedWorkItems bool   `json:"check_for_linked_work_items"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "invalid JSON")
		return
	}
	if body.Owner == "" || body.SourceBranch == "" || body.TargetBranch == "" {
		h.badRequest(c, "owner, source_branch, target_branch are required")
		return
	}

	src, err := pr.NewBranchName(body.SourceBranch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	tgt, err := pr.NewBranchName(body.TargetBranch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	title, err := pr.NewTitle(body.Title)
	if err != nil {
		h.writeError(c, err)
		return
	}

	mode := pr.ModeDisabled
	if body.CheckForLinkedWorkItems {
		mode = pr.ModeEnabled
	}

	id := body.PullRequestID
	if id == "" {
		id = h.NewID()
	}

	h.execute(c, http.StatusCreated, id, pr.Create{
		Owner:                       pr.UserID(body.Owner),
		SourceBranch:                src,
		TargetBranch:                tgt,
		Title:                       title,
		Description:                 body.Description,
		CheckForLinkedWorkItemsMode: mode,
	})
}

func (h *Handler) PRGet(c *gin.Context) {
	id := c.Query("pull_request_id")
	if id == "" {
		h.badRequest(c, "pull_request_id is required")
		return
	}

	state, rev, err := h.PRSvc.Load(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, struct {
		PR dto.PullRequest `json:"pr"`
	}{PR: toPullRequest(id, state, rev)})
}

func (h *Handler) PRHistory(c *gin.Context) {
	id := c.Query("pull_request_id")
	if id == "" {
		h.badRequest(c, "pull_request_id is required")
		return
	}

	history, err := h.PRSvc.History(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := dto.History{
		PullRequestID: id,
		Events:        make([]dto.RecordedEvent, 0, len(history)),
	}
	for _, r := range history {
		resp.Events = append(resp.Events, dto.RecordedEvent{
			Revision:   uint64(r.Revision),
			Type:       string(r.Event.EventType()),
			RecordedAt: r.RecordedAt,
			Data:       r.Event,
		})
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) PRChangeTargetBranch(c *gin.Context) {
	var body struct {
		PullRequestID string `json:"pull_request_id"`
		TargetBranch  string `json:"target_branch"`
	}
	if !h.bind(c, &body) {
		return
	}
	if body.PullRequestID == "" || body.TargetBranch == "" {
		h.badRequest(c, "pull_request_id and target_branch are required")
		return
	}

	tgt, err := pr.NewBranchName(body.TargetBranch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.execute(c, http.StatusOK, body.PullRequestID, pr.ChangeTargetBranch{TargetBranch: tgt})
}

func (h *Handler) PRChangeTitle(c *gin.Context) {
	var body struct {
		PullRequestID string `json:"pull_request_id"`
		Title         string `json:"title"`
	}
	if !h.bind(c, &body) {
		return
	}
	if body.PullRequestID == "" {
		h.badRequest(c, "pull_request_id is required")
		return
	}

	title, err := pr.NewTitle(body.Title)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.execute(c, http.StatusOK, body.PullRequestID, pr.ChangeTitle{Title: title})
}

func (h *Handler) PRChangeDescription(c *gin.Context) {
	var body struct {
		PullRequestID string `json:"pull_request_id"`
		Description   string `json:"description"`
	}
	if !h.bind(c, &body) {
		return
	}
	if body.PullRequestID == "" {
		h.badRequest(c, "pull_request_id is required")
		return
	}
	h.execute(c, http.StatusOK, body.PullRequestID, pr.ChangeDescription{Description: body.Description})
}

func (h *Handler) PRAddReviewer(c *gin.Context) {
	var body struct {
		PullRequestID string `json:"pull_request_id"`
		UserID        string `json:"user_id"`
		Required      bool   `json:"required"`
	}
	if !h.bind(c, &body) {
		return
	}
	if body.PullRequestID == "" || body.UserID == "" {
		h.badRequest(c, "pull_request_id and user_id are required")
		return
	}

	id := pr.UserID(body.UserID)
	var cmd pr.Command = pr.AddOptionalReviewer{UserID: id}
	if body.Required {
		cmd = pr.AddRequiredReviewer{UserID: id}
	}
	h.execute(c, http.StatusOK, body.PullRequestID, cmd)
}

func (h *Handler) PRMakeReviewerRequired(c *gin.Context) {
	h.reviewerCommand(c, func(id pr.UserID) pr.Command { return pr.MakeReviewerRequired{UserID: id} })
}

func (h *Handler) PRMakeReviewerOptional(c *gin.Context) {
	h.reviewerCommand(c, func(id pr.UserID) pr.Command { return pr.MakeReviewerOptional{UserID: id} })
}

func (h *Handler) PRRemoveReviewer(c *gin.Context) {
	h.reviewerCommand(c, func(id pr.UserID) pr.Command { return pr.RemoveReviewer{UserID: id} })
}

func (h *Handler) PRResetFeedback(c *gin.Context) {
	h.reviewerCommand(c, func(id pr.UserID) pr.Command { return pr.ResetFeedback{UserID: id} })
}

func (h *Handler) PRFeedback(c *gin.Context) {
	var body struct {
		PullRequestID string `json:"pull_request_id"`
		UserID        string `json:"user_id"`
		Feedback      string `json:"feedback"`
	}
	if !h.bind(c, &body) {
		return
	}
	if body.PullRequestID == "" || body.UserID == "" {
		h.badRequest(c, "pull_request_id and user_id are required")
		return
	}

	id := pr.UserID(body.UserID)
	var cmd pr.Command
	switch pr.Feedback(body.Feedback) {
	case pr.FeedbackApproved:
		cmd = pr.Approve{UserID: id}
	case pr.FeedbackApprovedWithSuggestions:
		cmd = pr.ApproveWithSuggestions{UserID: id}
	case pr.FeedbackWaitingForAuthor:
		cmd = pr.WaitForAuthor{UserID: id}
	case pr.FeedbackRejected:
		cmd = pr.Reject{UserID: id}
	default:
		h.badRequest(c, "feedback must be one of: APPROVED, APPROVED_WITH_SUGGESTIONS, WAITING_FOR_AUTHOR, REJECTED")
		return
	}
	h.execute(c, http.StatusOK, body.PullRequestID, cmd)
}

func (h *Handler) PRLinkWorkItem(c *gin.Context) {
	h.workItemCommand(c, func(id pr.WorkItemID) pr.Command { return pr.LinkWorkItem{WorkItemID: id} })
}

func (h *Handler) PRRemoveWorkItem(c *gin.Context) {
	h.workItemCommand(c, func(id pr.WorkItemID) pr.Command { return pr.RemoveWorkItem{WorkItemID: id} })
}

func (h *Handler) PRComplete(c *gin.Context)           { h.plainCommand(c, pr.Complete{}) }
func (h *Handler) PRSetAutoComplete(c *gin.Context)    { h.plainCommand(c, pr.SetAutoComplete{}) }
func (h *Handler) PRCancelAutoComplete(c *gin.Context) { h.plainCommand(c, pr.CancelAutoComplete{}) }
func (h *Handler) PRAbandon(c *gin.Context)            { h.plainCommand(c, pr.Abandon{}) }
func (h *Handler) PRReactivate(c *gin.Context)         { h.plainCommand(c, pr.Reactivate{}) }

func (h *Handler) plainCommand(c *gin.Context, cmd pr.Command) {
	var body prRef
	if !h.bind(c, &body) {
		return
	}
	if body.PullRequestID == "" {
		h.badRequest(c, "pull_request_id is required")
		return
	}
	h.execute(c, http.StatusOK, body.PullRequestID, cmd)
}

func (h *Handler) reviewerCommand(c *gin.Context, build func(pr.UserID) pr.Command) {
	var body userRef
	if !h.bind(c, &body) {
		return
	}
	if body.PullRequestID == "" || body.UserID == "" {
		h.badRequest(c, "pull_request_id and user_id are required")
		return
	}
	h.execute(c, http.StatusOK, body.PullRequestID, build(pr.UserID(body.UserID)))
}

func (h *Handler) workItemCommand(c *gin.Context, build func(pr.WorkItemID) pr.Command) {
	var body workItemRef
	if !h.bind(c, &body) {
		return
	}
	if body.PullRequestID == "" || body.WorkItemID == "" {
		h.badRequest(c, "pull_request_id and work_item_id are required")
		return
	}
	h.execute(c, http.StatusOK, body.PullRequestID, build(pr.WorkItemID(body.WorkItemID)))
}

func (h *Handler) execute(c *gin.Context, status int, id string, cmd pr.Command) {
	res, err := h.PRSvc.ExecuteWithRetry(c.Request.Context(), id, cmd)
	if err != nil {
		h.Log.Debug("command rejected",
			zap.String("pull_request_id", id),
			zap.String("command", cmd.CommandName()),
			zap.Error(err),
		)
		h.writeError(c, err)
		return
	}

	events := make([]string, 0, len(res.Events))
	for _, e := range res.Events {
		events = append(events, string(e.EventType()))
	}

	c.JSON(status, dto.CommandResult{
		PR:     toPullRequest(id, res.State, res.Revision),
		Events: events,
	})
}

func toPullRequest(id string, s pr.Existing, rev eventstore.Revision) dto.PullRequest {
	reviewers := make([]dto.Reviewer, 0, len(s.Reviewers))
	for _, r := range s.Reviewers {
		reviewers = append(reviewers, dto.Reviewer{
			UserID:   string(r.UserID),
			Type:     string(r.Type),
			Feedback: string(r.Feedback),
		})
	}

	workItems := make([]string, 0, len(s.WorkItems))
	for _, w := range s.WorkItems {
		workItems = append(workItems, string(w))
	}

	return dto.PullRequest{
		PullRequestID:           id,
		Owner:                   string(s.Owner),
		SourceBranch:            s.SourceBranch.String(),
		TargetBranch:            s.TargetBranch.String(),
		Title:                   s.Title.String(),
		Description:             s.Description,
		Status:                  string(s.Status),
		AutoComplete:            string(s.AutoCompleteMode),
		CheckForLinkedWorkItems: string(s.CheckForLinkedWorkItemsMode),
		Reviewers:               reviewers,
		WorkItems:               workItems,
		Revision:                uint64(rev),
	}
}
