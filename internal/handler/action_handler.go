package handler

import (
	"net/http"
	"time"

	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/dto"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/model"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/policy"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/repository"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/service"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/pkg/response"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ActionHandler struct {
	rewardService service.RewardService
	postRepo      repository.PostRepository
}

func NewActionHandler(rewardService service.RewardService, postRepo repository.PostRepository) *ActionHandler {
	return &ActionHandler{
		rewardService: rewardService,
		postRepo:      postRepo,
	}
}

// ReportAction accepts one user action and returns the reward decision.
// A rejected reward is still HTTP 200: the action itself succeeded, only
// the payout was withheld.
func (h *ActionHandler) ReportAction(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.ActionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	actionType := model.ActionType(input.ActionType)
	content := policy.ActionContent{
		Body:            input.Body,
		MediaCount:      input.MediaCount,
		DurationSeconds: input.DurationSeconds,
	}

	var targetID uuid.UUID
	var post *model.Post

	if actionType == model.ActionPost {
		// The post itself is created regardless of the reward outcome.
		post = &model.Post{
			UserID:     userID,
			Body:       input.Body,
			MediaCount: input.MediaCount,
		}
		if err := h.postRepo.Create(c.Request.Context(), post); err != nil {
			response.ResponseError(c, err)
			return
		}
		targetID = post.ID
	} else if input.TargetID != "" {
		targetID, err = uuid.Parse(input.TargetID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target id"})
			return
		}
	} else if actionType != model.ActionWalletConnect {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_id is required for this action type"})
		return
	}

	decision, err := h.rewardService.EvaluateAction(c.Request.Context(), userID, actionType, targetID, content, time.Time{})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	resp := gin.H{"decision": decision}
	if post != nil {
		resp["post"] = post
	}
	c.JSON(http.StatusOK, resp)
}
