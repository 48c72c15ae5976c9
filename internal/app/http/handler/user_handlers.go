package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prlifecycle/internal/app/dto"
	"prlifecycle/internal/domain/directory"
	"prlifecycle/internal/domain/pr"
)

func (h *Handler) UserAdd(c *gin.Context) {
	var body struct {
		UserID   string `json:"user_id"`
		Username string `json:"username"`
		IsActive *bool  `json:"is_active"`
	}
	if !h.bind(c, &body) {
		return
	}
	if body.UserID == "" {
		h.badRequest(c, "user_id is required")
		return
	}

	active := true
	if body.IsActive != nil {
		active = *body.IsActive
	}

	u, err := h.DirSvc.AddUser(c.Request.Context(), directory.User{
		ID:       pr.UserID(body.UserID),
		Username: body.Username,
		IsActive: active,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, struct {
		User dto.User `json:"user"`
	}{User: toUser(u)})
}

func (h *Handler) UserSetIsActive(c *gin.Context) {
	var body struct {
		UserID   string `json:"user_id"`
		IsActive bool   `json:"is_active"`
	}
	if !h.bind(c, &body) {
		return
	}
	if body.UserID == "" {
		h.badRequest(c, "user_id is required")
		return
	}

	u, err := h.DirSvc.SetUserActive(c.Request.Context(), pr.UserID(body.UserID), body.IsActive)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, struct {
		User dto.User `json:"user"`
	}{User: toUser(u)})
}

func (h *Handler) BranchAdd(c *gin.Context) {
	var body dto.Branch
	if !h.bind(c, &body) {
		return
	}
	if body.BranchName == "" {
		h.badRequest(c, "branch_name is required")
		return
	}

	name, err := h.DirSvc.AddBranch(c.Request.Context(), body.BranchName)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, struct {
		Branch dto.Branch `json:"branch"`
	}{Branch: dto.Branch{BranchName: name.String()}})
}

func toUser(u directory.User) dto.User {
	return dto.User{
		UserID:   string(u.ID),
		Username: u.Username,
		IsActive: u.IsActive,
	}
}
