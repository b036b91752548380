// query.go exposes the read-only Query/View Layer of spec §4.4. These
// endpoints take no employee header: they observe a consistent snapshot
// and never mutate, so spec §4.5's employee-only restriction (which
// applies to admin.Operations, not query.Views) doesn't extend to them.
package handlers

import (
	"net/http"
	"strconv"

	"core-banking-ledger/internal/api/apierror"
	"core-banking-ledger/internal/domain/models"
	"core-banking-ledger/internal/infrastructure/database"
	"core-banking-ledger/internal/pkg/money"

	"github.com/gin-gonic/gin"
)

func (d *Dependencies) BalanceSheet(c *gin.Context) {
	totals, err := d.Views.BalanceSheet(c.Request.Context())
	if err != nil {
		status, body := apierror.FromError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, totals)
}

func (d *Dependencies) LedgerIntegrityCheck(c *gin.Context) {
	violations, err := d.Views.LedgerIntegrityCheck(c.Request.Context())
	if err != nil {
		status, body := apierror.FromError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, violations)
}

func (d *Dependencies) FlaggedTransactions(c *gin.Context) {
	txns, err := d.Views.FlaggedTransactions(c.Request.Context(), queryInt(c, "limit", 0), queryInt(c, "offset", 0))
	if err != nil {
		status, body := apierror.FromError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, txns)
}

func (d *Dependencies) CustomerStatement(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Body{Code: "InvalidInput", Message: "invalid user id"})
		return
	}
	lines, err := d.Views.CustomerStatement(c.Request.Context(), userID, queryInt(c, "limit", 0), queryInt(c, "offset", 0))
	if err != nil {
		status, body := apierror.FromError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, lines)
}

func (d *Dependencies) MiniStatement(c *gin.Context) {
	accountID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Body{Code: "InvalidInput", Message: "invalid account id"})
		return
	}
	n := queryInt(c, "n", 10)
	lines, err := d.Views.MiniStatement(c.Request.Context(), accountID, n)
	if err != nil {
		status, body := apierror.FromError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, lines)
}

func (d *Dependencies) History(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Body{Code: "InvalidInput", Message: "invalid user id"})
		return
	}

	filter := database.HistoryFilter{Limit: queryInt(c, "limit", 0), Offset: queryInt(c, "offset", 0), TextMatch: c.Query("q")}
	if v := c.Query("type_code"); v != "" {
		t := models.TransactionTypeCode(v)
		filter.TypeCode = &t
	}
	if v := c.Query("min_amount"); v != "" {
		if amt, err := money.New(v); err == nil {
			filter.MinAmount = &amt
		}
	}
	if v := c.Query("max_amount"); v != "" {
		if amt, err := money.New(v); err == nil {
			filter.MaxAmount = &amt
		}
	}

	lines, err := d.Views.History(c.Request.Context(), userID, filter)
	if err != nil {
		status, body := apierror.FromError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, lines)
}

func (d *Dependencies) GetTransaction(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Body{Code: "InvalidInput", Message: "invalid transaction id"})
		return
	}
	txn, entries, err := d.Views.GetTransaction(c.Request.Context(), id)
	if err != nil {
		status, body := apierror.FromError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": txn, "entries": entries})
}
