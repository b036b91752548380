package handlers

import (
	"net/http"
	"strconv"

	"core-banking-ledger/internal/api/apierror"
	"core-banking-ledger/internal/domain/models"
	"core-banking-ledger/internal/pkg/logging"

	"github.com/gin-gonic/gin"
)

// CreateAccount opens a new account for the user named in the request body
// (spec §4.1 CreateAccount). There's no session to derive the owner from,
// so the caller names themselves explicitly.
func (d *Dependencies) CreateAccount(c *gin.Context) {
	var req struct {
		UserID      int64  `json:"user_id"`
		AccountType string `json:"account_type"`
		Currency    string `json:"currency"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.Body{Code: "InvalidInput", Message: "invalid request body"})
		return
	}

	acc, err := d.Engine.CreateAccount(c.Request.Context(), req.UserID, models.AccountType(req.AccountType), req.Currency)
	if err != nil {
		status, body := apierror.FromError(err)
		c.JSON(status, body)
		return
	}

	logging.Info("account created", map[string]interface{}{
		"account_id": acc.ID,
		"user_id":    acc.UserID,
		"ip":         c.ClientIP(),
	})
	c.JSON(http.StatusCreated, acc)
}

// GetAccount returns an account's current state, used by clients to read
// the balance right after a mutation.
func (d *Dependencies) GetAccount(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Body{Code: "InvalidInput", Message: "invalid account id"})
		return
	}

	acc, err := d.Views.GetAccount(c.Request.Context(), id)
	if err != nil {
		status, body := apierror.FromError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, acc)
}
