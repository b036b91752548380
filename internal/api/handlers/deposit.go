package handlers

import (
	"net/http"
	"strconv"

	"core-banking-ledger/internal/api/apierror"
	"core-banking-ledger/internal/pkg/money"

	"github.com/gin-gonic/gin"
)

func (d *Dependencies) Deposit(c *gin.Context) {
	accountID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Body{Code: "InvalidInput", Message: "invalid account id"})
		return
	}

	var req struct {
		Amount      string `json:"amount"`
		Description string `json:"description"`
		ReferenceID string `json:"reference_id"`
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

	txnID, err := d.Engine.Deposit(c.Request.Context(), accountID, amount, req.Description, req.ReferenceID)
	if err != nil {
		status, body := apierror.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction_id": txnID})
}
