package handler

import (
	"errors"
	"io"

	"ewallet/internal/adapter/http/dto"
	"ewallet/internal/adapter/http/middleware"
	"ewallet/internal/core/ports"
	"ewallet/pkg/apperror"
	"ewallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles wallet endpoints. Wallets are addressed by slug.
type WalletHandler struct {
	walletSvc ports.WalletService
	ledgerSvc ports.LedgerService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService, ledgerSvc ports.LedgerService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc, ledgerSvc: ledgerSvc}
}

// List handles GET /api/v1/wallets.
func (h *WalletHandler) List(c *gin.Context) {
	wallets, err := h.walletSvc.ListWallets(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.WalletResponse, 0, len(wallets))
	for i := range wallets {
		items = append(items, toWalletResponse(&wallets[i]))
	}
	response.OK(c, items)
}

// Create handles POST /api/v1/wallets. The body is optional.
func (h *WalletHandler) Create(c *gin.Context) {
	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	wallet, err := h.walletSvc.CreateWallet(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxResourceID, wallet.ID.String())
	response.Created(c, toWalletResponse(wallet))
}

// Get handles GET /api/v1/wallets/:slug.
func (h *WalletHandler) Get(c *gin.Context) {
	wallet, err := h.walletSvc.GetWallet(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toWalletResponse(wallet))
}

// Rename handles PUT /api/v1/wallets/:slug.
func (h *WalletHandler) Rename(c *gin.Context) {
	var req dto.RenameWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	wallet, err := h.walletSvc.RenameWallet(c.Request.Context(), c.Param("slug"), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxResourceID, wallet.ID.String())
	response.OK(c, toWalletResponse(wallet))
}

// Delete handles DELETE /api/v1/wallets/:slug. Transactions go with the wallet.
func (h *WalletHandler) Delete(c *gin.Context) {
	slug := c.Param("slug")
	if err := h.walletSvc.DeleteWallet(c.Request.Context(), slug); err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxResourceID, slug)
	response.OK(c, gin.H{"slug": slug, "deleted": true})
}

// ListTransactions handles GET /api/v1/wallets/:slug/transactions.
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	page, pageSize, err := parsePagination(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	wallet, err := h.walletSvc.GetWallet(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	txns, total, err := h.ledgerSvc.ListTransactions(c.Request.Context(), ports.TransactionListParams{
		WalletID: &wallet.ID,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toTransactionListResponse(txns, total, page, pageSize))
}
