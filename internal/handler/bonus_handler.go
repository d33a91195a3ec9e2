package handler

import (
	"net/http"

	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/service"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BonusHandler struct {
	service service.BonusService
}

func NewBonusHandler(service service.BonusService) *BonusHandler {
	return &BonusHandler{service: service}
}

// Submit files a bonus request for the caller's post. A repeat submission
// answers with the existing request and 200 instead of 201.
func (h *BonusHandler) Submit(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("post_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	request, created, err := h.service.Submit(c.Request.Context(), postID, userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"data": request})
}

func (h *BonusHandler) ListMine(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	limit := parseIntQuery(c, "limit", 20)
	offset := parseIntQuery(c, "offset", 0)

	requests, err := h.service.ListForUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": requests})
}
