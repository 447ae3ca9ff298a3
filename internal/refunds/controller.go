package refunds

import (
	"net/http"
	"strconv"

	"ticketcore/internal/shared/apperrors"
	"ticketcore/internal/shared/middleware"
	"ticketcore/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	RequestRefund(c *gin.Context)
	ApproveRefund(c *gin.Context)
	RejectRefund(c *gin.Context)
	ClaimRefund(c *gin.Context)
	ListRefundRequests(c *gin.Context)
	Reconcile(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func parseID(c *gin.Context, param string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("invalid %s", param)
	}
	return id, nil
}

func (ctrl *controller) RequestRefund(c *gin.Context) {
	caller, ok := middleware.CallerID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	eventID, err := parseID(c, "eventId")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	tokenID, err := parseID(c, "tokenId")
	if err != nil {
		response.RespondError(c, err)
		return
	}

	resp, err := ctrl.service.RequestRefund(c.Request.Context(), eventID, tokenID, caller)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Refund requested successfully", resp, nil)
}

func (ctrl *controller) ApproveRefund(c *gin.Context) {
	caller, ok := middleware.CallerID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	requestID, err := parseID(c, "requestId")
	if err != nil {
		response.RespondError(c, err)
		return
	}

	resp, err := ctrl.service.ApproveRefund(c.Request.Context(), requestID, caller)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Refund approved successfully", resp, nil)
}

func (ctrl *controller) RejectRefund(c *gin.Context) {
	caller, ok := middleware.CallerID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	requestID, err := parseID(c, "requestId")
	if err != nil {
		response.RespondError(c, err)
		return
	}

	var req RejectRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	resp, err := ctrl.service.RejectRefund(c.Request.Context(), requestID, caller, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Refund rejected", resp, nil)
}

func (ctrl *controller) ClaimRefund(c *gin.Context) {
	caller, ok := middleware.CallerID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	eventID, err := parseID(c, "eventId")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	tokenID, err := parseID(c, "tokenId")
	if err != nil {
		response.RespondError(c, err)
		return
	}

	resp, err := ctrl.service.ClaimRefund(c.Request.Context(), eventID, tokenID, caller)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Refund claimed successfully", resp, nil)
}

func (ctrl *controller) ListRefundRequests(c *gin.Context) {
	caller, ok := middleware.CallerID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	eventID, err := parseID(c, "eventId")
	if err != nil {
		response.RespondError(c, err)
		return
	}

	resp, err := ctrl.service.ListEventRefundRequests(c.Request.Context(), eventID, caller)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Refund requests retrieved successfully", resp, nil)
}

func (ctrl *controller) Reconcile(c *gin.Context) {
	caller, ok := middleware.CallerID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	eventID, err := parseID(c, "eventId")
	if err != nil {
		response.RespondError(c, err)
		return
	}

	resp, err := ctrl.service.Reconcile(c.Request.Context(), eventID, caller)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Refund reconciliation completed", resp, nil)
}
