package dto

import "time"

type ErrorResponse struct {
	Error Error `json:"error"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Reviewer struct {
	UserID   string `json:"user_id"`
	Type     string `json:"type"`
	Feedback string `json:"feedback"`
}

type PullRequest struct {
	PullRequestID           string     `json:"pull_request_id"`
	Owner                   string     `json:"owner"`
	SourceBranch            string     `json:"source_branch"`
	TargetBranch            string     `json:"target_branch"`
	Title                   string     `json:"title"`
	Description             string     `json:"description"`
	Status                  string     `json:"status"`
	AutoComplete            string     `json:"auto_complete"`
	CheckForLinkedWorkItems string     `json:"check_for_linked_work_items"`
	Reviewers               []Reviewer `json:"reviewers"`
	WorkItems               []string   `json:"work_items"`
	Revision                uint64     `json:"revision"`
}

type CommandResult struct {
	PR     PullRequest `json:"pr"`
	Events []string    `json:"events"`
}

type RecordedEvent struct {
	Revision   uint64    `json:"revision"`
	Type       string    `json:"type"`
	RecordedAt time.Time `json:"recorded_at"`
	Data       any       `json:"data"`
}

type History struct {
	PullRequestID string          `json:"pull_request_id"`
	Events        []RecordedEvent `json:"events"`
}

type User struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	IsActive bool   `json:"is_active"`
}

type Branch struct {
	BranchName string `json:"branch_name"`
}
