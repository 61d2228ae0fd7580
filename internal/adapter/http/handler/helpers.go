package handler

import (
	"math"
	"strconv"
	"time"

	"ewallet/internal/adapter/http/dto"
	"ewallet/internal/core/domain"
	"ewallet/internal/core/ports"
	"ewallet/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// parsePagination reads page and page_size, falling back to defaults for
// out-of-range values. Non-numeric values are rejected.
func parsePagination(c *gin.Context) (page, pageSize int, err error) {
	page, err = strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return 0, 0, apperror.Validation("page must be an integer")
	}
	pageSize, err = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(ports.DefaultPageSize)))
	if err != nil {
		return 0, 0, apperror.Validation("page_size must be an integer")
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > ports.MaxPageSize {
		pageSize = ports.DefaultPageSize
	}
	return page, pageSize, nil
}

func toWalletResponse(w *domain.Wallet) dto.WalletResponse {
	return dto.WalletResponse{
		ID:        w.ID.String(),
		Name:      w.Name,
		Slug:      w.Slug,
		Balance:   w.Balance,
		CreatedAt: w.CreatedAt.Format(time.RFC3339),
		UpdatedAt: w.UpdatedAt.Format(time.RFC3339),
	}
}

func toTransactionResponse(t *domain.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:              t.ID.String(),
		WalletID:        t.WalletID.String(),
		TransactionType: string(t.Type),
		Amount:          t.Amount,
		Comment:         t.Comment,
		CreatedAt:       t.CreatedAt.Format(time.RFC3339),
	}
}

func toTransactionListResponse(txns []domain.Transaction, total int64, page, pageSize int) dto.TransactionListResponse {
	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, toTransactionResponse(&txns[i]))
	}

	return dto.TransactionListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}
}
