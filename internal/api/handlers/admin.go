// admin.go exposes the Employee-only operations of spec §4.5. Every handler
// here reads the acting employee id from X-Employee-ID (no auth layer to
// derive it from, spec §1 non-goal); core-banking-ledger/internal/domain/
// admin.Operations.requireEmployee rejects an unknown or inactive one with
// Forbidden regardless of what the transport layer trusted.
package handlers

import (
	"net/http"
	"strconv"

	"core-banking-ledger/internal/api/apierror"
	"core-banking-ledger/internal/domain/models"
	"core-banking-ledger/internal/infrastructure/database"
	"core-banking-ledger/internal/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

func employeeID(c *gin.Context) (string, bool) {
	id := c.GetHeader(employeeIDHeader)
	if id == "" {
		status, body := apierror.FromError(apperrors.Forbidden("missing %s header", employeeIDHeader))
		c.JSON(status, body)
		return "", false
	}
	return id, true
}

func (d *Dependencies) CreateAccountForUser(c *gin.Context) {
	empID, ok := employeeID(c)
	if !ok {
		return
	}
	var req struct {
		UserID      int64  `json:"user_id"`
		AccountType string `json:"account_type"`
		Currency    string `json:"currency"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.Body{Code: "InvalidInput", Message: "invalid request body"})
		return
	}

	acc, err := d.Admin.CreateAccountForUser(c.Request.Context(), empID, req.UserID, models.AccountType(req.AccountType), req.Currency)
	if err != nil {
		status, body := apierror.FromError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusCreated, acc)
}

func (d *Dependencies) FreezeAccount(c *gin.Context) {
	empID, ok := employeeID(c)
	if !ok {
		return
	}
	accountID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Body{Code: "InvalidInput", Message: "invalid account id"})
		return
	}
	newStatus, err := d.Admin.FreezeAccount(c.Request.Context(), empID, accountID)
	if err != nil {
		status, body := apierror.FromError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account_id": accountID, "status": newStatus})
}

func (d *Dependencies) CloseAccount(c *gin.Context) {
	empID, ok := employeeID(c)
	if !ok {
		return
	}
	accountID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Body{Code: "InvalidInput", Message: "invalid account id"})
		return
	}
	if err := d.Admin.CloseAccount(c.Request.Context(), empID, accountID); err != nil {
		status, body := apierror.FromError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account_id": accountID, "status": "closed"})
}

func (d *Dependencies) SetKYCStatus(c *gin.Context) {
	empID, ok := employeeID(c)
	if !ok {
		return
	}
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Body{Code: "InvalidInput", Message: "invalid user id"})
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.Body{Code: "InvalidInput", Message: "invalid request body"})
		return
	}
	user, err := d.Admin.SetKYCStatus(c.Request.Context(), empID, userID, models.KYCStatus(req.Status))
	if err != nil {
		status, body := apierror.FromError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (d *Dependencies) SetUserActive(c *gin.Context) {
	empID, ok := employeeID(c)
	if !ok {
		return
	}
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Body{Code: "InvalidInput", Message: "invalid user id"})
		return
	}
	var req struct {
		Active bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.Body{Code: "InvalidInput", Message: "invalid request body"})
		return
	}
	user, err := d.Admin.SetUserActive(c.Request.Context(), empID, userID, req.Active)
	if err != nil {
		status, body := apierror.FromError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (d *Dependencies) ListUsers(c *gin.Context) {
	empID, ok := employeeID(c)
	if !ok {
		return
	}
	filter := database.UserFilter{Limit: queryInt(c, "limit", 0), Offset: queryInt(c, "offset", 0)}
	if v := c.Query("kyc_status"); v != "" {
		s := models.KYCStatus(v)
		filter.KYCStatus = &s
	}
	if v := c.Query("role"); v != "" {
		r := models.UserRole(v)
		filter.Role = &r
	}
	if v := c.Query("is_active"); v != "" {
		b := v == "true"
		filter.IsActive = &b
	}
	users, err := d.Admin.ListUsers(c.Request.Context(), empID, filter)
	if err != nil {
		status, body := apierror.FromError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (d *Dependencies) ListAccounts(c *gin.Context) {
	empID, ok := employeeID(c)
	if !ok {
		return
	}
	filter := database.AccountFilter{Limit: queryInt(c, "limit", 0), Offset: queryInt(c, "offset", 0)}
	if v := c.Query("status"); v != "" {
		s := models.AccountStatus(v)
		filter.Status = &s
	}
	if v := c.Query("type"); v != "" {
		t := models.AccountType(v)
		filter.Type = &t
	}
	if v := c.Query("user_id"); v != "" {
		if uid, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.UserID = &uid
		}
	}
	accounts, err := d.Admin.ListAccounts(c.Request.Context(), empID, filter)
	if err != nil {
		status, body := apierror.FromError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (d *Dependencies) ListTransactions(c *gin.Context) {
	empID, ok := employeeID(c)
	if !ok {
		return
	}
	filter := database.TransactionFilter{Limit: queryInt(c, "limit", 0), Offset: queryInt(c, "offset", 0)}
	if v := c.Query("status"); v != "" {
		s := models.TransactionStatus(v)
		filter.Status = &s
	}
	if v := c.Query("type_code"); v != "" {
		t := models.TransactionTypeCode(v)
		filter.TypeCode = &t
	}
	txns, err := d.Admin.ListTransactions(c.Request.Context(), empID, filter)
	if err != nil {
		status, body := apierror.FromError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, txns)
}

func (d *Dependencies) ListAuditLogs(c *gin.Context) {
	empID, ok := employeeID(c)
	if !ok {
		return
	}
	filter := database.AuditFilter{Limit: queryInt(c, "limit", 0), Offset: queryInt(c, "offset", 0)}
	if v := c.Query("entity_type"); v != "" {
		e := models.EntityType(v)
		filter.EntityType = &e
	}
	if v := c.Query("entity_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.EntityID = &id
		}
	}
	logs, err := d.Admin.ListAuditLogs(c.Request.Context(), empID, filter)
	if err != nil {
		status, body := apierror.FromError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func queryInt(c *gin.Context, name string, def int) int {
	v := c.Query(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
