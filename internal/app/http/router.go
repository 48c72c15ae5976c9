package httpapi

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prlifecycle/internal/app/http/handler"
	"prlifecycle/internal/app/http/middleware"
)

func NewRouter(h *handler.Handler, log *zap.Logger) *gin.Engine {
	r := gin.New()

	r.Use(
		middleware.ZapLogger(log),
		middleware.ZapRecovery(log),
	)

	r.GET("/health", h.Health)

	r.POST("/branches/add", h.BranchAdd)
	r.POST("/users/add", h.UserAdd)
	r.POST("/users/setIsActive", h.UserSetIsActive)

	prs := r.Group("/pullRequest")
	prs.POST("/create", h.PRCreate)
	prs.GET("/get", h.PRGet)
	prs.GET("/history", h.PRHistory)
	prs.POST("/changeTargetBranch", h.PRChangeTargetBranch)
	prs.POST("/changeTitle", h.PRChangeTitle)
	prs.POST("/changeDescription", h.PRChangeDescription)
	prs.POST("/addReviewer", h.PRAddReviewer)
	prs.POST("/makeReviewerRequired", h.PRMakeReviewerRequired)
	prs.POST("/makeReviewerOptional", h.PRMakeReviewerOptional)
	prs.POST("/removeReviewer", h.PRRemoveReviewer)
	prs.POST("/feedback", h.PRFeedback)
	prs.POST("/resetFeedback", h.PRResetFeedback)
	prs.POST("/linkWorkItem", h.PRLinkWorkItem)
	prs.POST("/removeWorkItem", h.PRRemoveWorkItem)
	prs.POST("/complete", h.PRComplete)
	prs.POST("/setAutoComplete", h.PRSetAutoComplete)
	prs.POST("/cancelAutoComplete", h.PRCancelAutoComplete)
	prs.POST("/abandon", h.PRAbandon)
	prs.POST("/reactivate", h.PRReactivate)

	return r
}
