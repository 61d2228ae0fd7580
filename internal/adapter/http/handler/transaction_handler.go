package handler

import (
	"ewallet/internal/adapter/http/dto"
	"ewallet/internal/adapter/http/middleware"
	"ewallet/internal/core/domain"
	"ewallet/internal/core/ports"
	"ewallet/pkg/apperror"
	"ewallet/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxIdempotencyKeyLength = 255

// TransactionHandler handles ledger endpoints.
type TransactionHandler struct {
	ledgerSvc ports.LedgerService
	walletSvc ports.WalletService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledgerSvc ports.LedgerService, walletSvc ports.WalletService) *TransactionHandler {
	return &TransactionHandler{ledgerSvc: ledgerSvc, walletSvc: walletSvc}
}

// Apply handles POST /api/v1/transactions.
func (h *TransactionHandler) Apply(c *gin.Context) {
	var req dto.ApplyTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	idempKey := c.GetHeader(middleware.HeaderIdempotencyKey)
	if len(idempKey) > maxIdempotencyKeyLength {
		response.Error(c, apperror.Validation("Idempotency-Key is too long"))
		return
	}

	wallet, err := h.walletSvc.GetWallet(c.Request.Context(), req.Wallet)
	if err != nil {
		response.Error(c, err)
		return
	}

	txn, err := h.ledgerSvc.ApplyTransaction(c.Request.Context(), ports.ApplyTransactionRequest{
		WalletID:       wallet.ID,
		Type:           domain.TransactionType(req.TransactionType),
		Amount:         req.Amount,
		Comment:        req.Comment,
		IdempotencyKey: idempKey,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxResourceID, txn.ID.String())
	response.Created(c, toTransactionResponse(txn))
}

// Get handles GET /api/v1/transactions/:id.
func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid transaction id"))
		return
	}

	txn, err := h.ledgerSvc.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toTransactionResponse(txn))
}

// Reverse handles DELETE /api/v1/transactions/:id.
func (h *TransactionHandler) Reverse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid transaction id"))
		return
	}

	if err := h.ledgerSvc.ReverseTransaction(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxResourceID, id.String())
	response.OK(c, gin.H{"id": id.String(), "reversed": true})
}

// List handles GET /api/v1/transactions.
// Filters: wallet (slug), type (income|outcome).
func (h *TransactionHandler) List(c *gin.Context) {
	page, pageSize, err := parsePagination(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	params := ports.TransactionListParams{
		Page:     page,
		PageSize: pageSize,
	}

	if t := c.Query("type"); t != "" {
		txType := domain.TransactionType(t)
		if !txType.IsValid() {
			response.Error(c, apperror.Validation("type must be income or outcome"))
			return
		}
		params.Type = &txType
	}
	if slug := c.Query("wallet"); slug != "" {
		wallet, err := h.walletSvc.GetWallet(c.Request.Context(), slug)
		if err != nil {
			response.Error(c, err)
			return
		}
		params.WalletID = &wallet.ID
	}

	txns, total, err := h.ledgerSvc.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toTransactionListResponse(txns, total, page, pageSize))
}
