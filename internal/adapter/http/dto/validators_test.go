package dto

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := ApplyTransactionRequest{
		Wallet:          "  main  ",
		TransactionType: " income ",
		Comment:         "\tsalary\n",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "main", req.Wallet)
	assert.Equal(t, "income", req.TransactionType)
	assert.Equal(t, "salary", req.Comment)
}

func TestSanitizeStruct_KeepsMarkup(t *testing.T) {
	req := RenameWalletRequest{Name: " Rent & <Bills> "}
	SanitizeStruct(&req)

	assert.Equal(t, "Rent & <Bills>", req.Name)
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	name := "  savings  "
	req := struct {
		Name  *string
		Empty *string
	}{Name: &name}
	SanitizeStruct(&req)

	assert.Equal(t, "savings", *req.Name)
	assert.Nil(t, req.Empty)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

// --- Custom Validator tests ---

func TestWalletName_Valid(t *testing.T) {
	cases := []string{
		"",
		"Main",
		"Сбережения",
		"Rent & Bills",
		"wallet_2024",
	}
	for _, tc := range cases {
		assert.True(t, isValidWalletName(tc), "expected valid: %q", tc)
	}
}

func TestWalletName_Invalid(t *testing.T) {
	cases := []string{
		"   ",
		"line\nbreak",
		"tab\there",
		"bell\a",
	}
	for _, tc := range cases {
		assert.False(t, isValidWalletName(tc), "expected invalid: %q", tc)
	}
}

func TestWalletName_BindingTags(t *testing.T) {
	assert.NoError(t, binding.Validator.ValidateStruct(&CreateWalletRequest{}))
	assert.NoError(t, binding.Validator.ValidateStruct(&RenameWalletRequest{Name: "Main"}))
	assert.NoError(t, binding.Validator.ValidateStruct(&RenameWalletRequest{}))
	assert.Error(t, binding.Validator.ValidateStruct(&RenameWalletRequest{Name: "   "}))
	assert.Error(t, binding.Validator.ValidateStruct(&RenameWalletRequest{Name: "a\x00b"}))

	long := make([]rune, 101)
	for i := range long {
		long[i] = 'я'
	}
	assert.Error(t, binding.Validator.ValidateStruct(&CreateWalletRequest{Name: string(long)}))
	assert.NoError(t, binding.Validator.ValidateStruct(&CreateWalletRequest{Name: string(long[:100])}))
}
