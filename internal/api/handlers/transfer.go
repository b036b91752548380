package handlers

import (
	"net/http"

	"core-banking-ledger/internal/api/apierror"
	"core-banking-ledger/internal/pkg/money"

	"github.com/gin-gonic/gin"
)

// Transfer implements spec §4.1 Transfer. InitiatorUserID is optional: a
// transfer initiated by the sending customer names them; a system-
// generated transfer (e.g. a scheduled payment) omits it.
func (d *Dependencies) Transfer(c *gin.Context) {
	var req struct {
		SenderAccountID   int64  `json:"sender_account_id"`
		ReceiverAccountID int64  `json:"receiver_account_id"`
		Amount            string `json:"amount"`
		Description       string `json:"description"`
		ReferenceID       string `json:"reference_id"`
		InitiatorUserID   *int64 `json:"initiator_user_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.Body{Code: "InvalidInput", Message: "invalid request body"})
		return
	}

	amount, err := money.New(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Body{Code: "InvalidInput", Message: "invalid amount"})
		return
	}

	result, err := d.Engine.Transfer(c.Request.Context(), req.SenderAccountID, req.ReceiverAccountID, amount, req.InitiatorUserID, req.Description, req.ReferenceID)
	if err != nil {
		status, body := apierror.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, result)
}
