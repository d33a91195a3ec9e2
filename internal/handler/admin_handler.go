package handler

import (
	"net/http"
	"time"

	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/dto"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/model"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/service"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/pkg/response"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	violationService service.ViolationService
	bonusService     service.BonusService
	sweepService     service.SweepService
	rewardService    service.RewardService
}

func NewAdminHandler(violationService service.ViolationService, bonusService service.BonusService, sweepService service.SweepService, rewardService service.RewardService) *AdminHandler {
	return &AdminHandler{
		violationService: violationService,
		bonusService:     bonusService,
		sweepService:     sweepService,
		rewardService:    rewardService,
	}
}

func (h *AdminHandler) RecordViolation(c *gin.Context) {
	var input dto.ViolationRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := uuid.Parse(input.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	severity := model.SeverityMinor
	if input.Severity == string(model.SeveritySevere) {
		severity = model.SeveritySevere
	}

	account, err := h.violationService.RecordViolation(c.Request.Context(), userID, input.Reason, severity, time.Time{})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": account})
}

func (h *AdminHandler) ListPendingBonusRequests(c *gin.Context) {
	limit := parseIntQuery(c, "limit", 20)
	offset := parseIntQuery(c, "offset", 0)

	requests, err := h.bonusService.ListPending(c.Request.Context(), limit, offset)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": requests})
}

func (h *AdminHandler) ResolveBonusRequest(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	adminID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.ResolveBonusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	request, err := h.bonusService.Resolve(c.Request.Context(), requestID, adminID, input.Decision == "approve")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": request})
}

func (h *AdminHandler) TriggerSweep(c *gin.Context) {
	result, err := h.sweepService.SweepInactiveBans(c.Request.Context(), time.Time{})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *AdminHandler) ReconcileAccount(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	pending, err := h.rewardService.ReconcilePending(c.Request.Context(), accountID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pending_reward": pending})
}
