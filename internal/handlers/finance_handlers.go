package handlers

import (
	"errors"
	"net/http"

	"clinic_crm_backend/internal/services"
	"clinic_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// FinanceHandler serves the ledger, its summary and the procedure packages.
type FinanceHandler struct {
	financeService services.FinanceService
}

func NewFinanceHandler(fs services.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeService: fs}
}

func (h *FinanceHandler) respondFinanceError(c *gin.Context, err error, action string) {
	utils.LogError(err, action+": Error from financeService")
	switch {
	case errors.Is(err, services.ErrTransactionNotFound), errors.Is(err, services.ErrPackageNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), err.Error()))
	case errors.Is(err, services.ErrTransactionValidation), errors.Is(err, services.ErrPackageValidation), errors.Is(err, services.ErrDateFormat):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	default:
		respondBackendError(c, err, "Failed to "+action+".")
	}
}

// GetTransactions lists the ledger for ?tab=flow|payable|receivable.
func (h *FinanceHandler) GetTransactions(c *gin.Context) {
	txs, err := h.financeService.ListTransactions(c.Query("tab"))
	if err != nil {
		h.respondFinanceError(c, err, "fetch transactions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": txs, "total": len(txs)})
}

func (h *FinanceHandler) CreateTransaction(c *gin.Context) {
	h.saveTransaction(c, "", http.StatusCreated)
}

func (h *FinanceHandler) UpdateTransaction(c *gin.Context) {
	h.saveTransaction(c, c.Param("id"), http.StatusOK)
}

func (h *FinanceHandler) saveTransaction(c *gin.Context, transactionID string, status int) {
	var req services.SaveTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "SaveTransaction: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload.", err.Error()))
		return
	}
	tx, err := h.financeService.SaveTransaction(c.Request.Context(), transactionID, req)
	if err != nil {
		h.respondFinanceError(c, err, "save transaction")
		return
	}
	c.JSON(status, tx)
}

func (h *FinanceHandler) DeleteTransaction(c *gin.Context) {
	if err := h.financeService.DeleteTransaction(c.Request.Context(), c.Param("id")); err != nil {
		h.respondFinanceError(c, err, "delete transaction")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FinanceHandler) GetSummary(c *gin.Context) {
	summary, err := h.financeService.Summary()
	if err != nil {
		utils.RespondInternalError(c, err, "Failed to compute finance summary.")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *FinanceHandler) GetPackages(c *gin.Context) {
	pkgs := h.financeService.ListPackages()
	c.JSON(http.StatusOK, gin.H{"data": pkgs, "total": len(pkgs)})
}

func (h *FinanceHandler) CreatePackage(c *gin.Context) {
	h.savePackage(c, "", http.StatusCreated)
}

func (h *FinanceHandler) UpdatePackage(c *gin.Context) {
	h.savePackage(c, c.Param("id"), http.StatusOK)
}

func (h *FinanceHandler) savePackage(c *gin.Context, packageID string, status int) {
	var req services.SavePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "SavePackage: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload.", err.Error()))
		return
	}
	pkg, err := h.financeService.SavePackage(c.Request.Context(), packageID, req)
	if err != nil {
		h.respondFinanceError(c, err, "save package")
		return
	}
	c.JSON(status, pkg)
}

func (h *FinanceHandler) DeletePackage(c *gin.Context) {
	if err := h.financeService.DeletePackage(c.Request.Context(), c.Param("id")); err != nil {
		h.respondFinanceError(c, err, "delete package")
		return
	}
	c.Status(http.StatusNoContent)
}
