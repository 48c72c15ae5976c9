package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prlifecycle/internal/app/dto"
	"prlifecycle/internal/domain"
	"prlifecycle/internal/domain/eventstore"
)

const (
	codeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	codeBadRequest          = "BAD_REQUEST"
	codeInternal            = "INTERNAL_ERROR"
)

var statusByCode = map[domain.ErrorCode]int{
	domain.ErrorCodeNotCreated:     http.StatusNotFound,
	domain.ErrorCodeAlreadyCreated: http.StatusConflict,
	domain.ErrorCodeNotActive:      http.StatusConflict,
	domain.ErrorCodeNotAbandoned:   http.StatusConflict,

	domain.ErrorCodeInvalidBranchName:              http.StatusBadRequest,
	domain.ErrorCodeTitleEmptyOrWhitespace:         http.StatusBadRequest,
	domain.ErrorCodeInvalidSourceBranch:            http.StatusUnprocessableEntity,
	domain.ErrorCodeInvalidTargetBranch:            http.StatusUnprocessableEntity,
	domain.ErrorCodeTargetBranchEqualsSourceBranch: http.StatusUnprocessableEntity,
	domain.ErrorCodeInvalidReviewer:                http.StatusUnprocessableEntity,

	domain.ErrorCodeReviewerNotFound:                      http.StatusNotFound,
	domain.ErrorCodeFeedbackContainsWaitForAuthorOrReject: http.StatusUnprocessableEntity,
	domain.ErrorCodeNotAllRequiredReviewersApproved:       http.StatusUnprocessableEntity,
	domain.ErrorCodeNoWorkItemLinked:                      http.StatusUnprocessableEntity,

	domain.ErrorCodeBranchExists: http.StatusConflict,
	domain.ErrorCodeUserNotFound: http.StatusNotFound,
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var de *domain.DomainError
	if errors.As(err, &de) {
		status, ok := statusByCode[de.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		c.JSON(status, dto.ErrorResponse{
			Error: dto.Error{
				Code:    string(de.Code),
				Message: de.Error(),
			},
		})
		return
	}

	var ce *eventstore.ConflictError
	if errors.As(err, &ce) {
		h.Log.Warn("concurrency conflict", zap.Error(err))
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error: dto.Error{
				Code:    codeConcurrencyConflict,
				Message: "pull request was modified concurrently, retry",
			},
		})
		return
	}

	h.Log.Error("internal error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: dto.Error{
			Code:    codeInternal,
			Message: "internal server error",
		},
	})
}

func (h *Handler) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: dto.Error{
			Code:    codeBadRequest,
			Message: msg,
		},
	})
}

func (h *Handler) bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		h.badRequest(c, "invalid JSON")
		return false
	}
	return true
}
