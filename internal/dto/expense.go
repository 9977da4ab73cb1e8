package dto

import (
	"time"

	"github.com/gochicken/gochicken_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExpenseItemRequest is one raw-material line of a purchase expense.
type ExpenseItemRequest struct {
	RawMaterialID string          `json:"rawMaterialID" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice     decimal.Decimal `json:"unitPrice" binding:"required"`
}

// CreateExpenseRequest is the payload for recording an expense. Items are
// only meaningful for raw-material purchase expenses; other types ignore the
// stock side entirely.
type CreateExpenseRequest struct {
	BranchID               string               `json:"branchID" binding:"required"`
	ExpenseTypeID          string               `json:"expenseTypeID" binding:"required"`
	Date                   time.Time            `json:"date" binding:"required"`
	TotalAmount            decimal.Decimal      `json:"totalAmount" binding:"required"`
	Description            string               `json:"description" binding:"required"`
	DailyInstallmentAmount *decimal.Decimal     `json:"dailyInstallmentAmount,omitempty"`
	Items                  []ExpenseItemRequest `json:"items" binding:"omitempty,dive"`
}

// UpdateExpenseRequest edits an expense. The item set replaces the old one
// wholesale; stock effects of the old set are reversed before the new set is
// applied.
type UpdateExpenseRequest struct {
	ExpenseTypeID          string               `json:"expenseTypeID" binding:"required"`
	Date                   time.Time            `json:"date" binding:"required"`
	TotalAmount            decimal.Decimal      `json:"totalAmount" binding:"required"`
	Description            string               `json:"description" binding:"required"`
	DailyInstallmentAmount *decimal.Decimal     `json:"dailyInstallmentAmount,omitempty"`
	Items                  []ExpenseItemRequest `json:"items" binding:"omitempty,dive"`
}

// ExpenseLineItemResponse is one expense line as returned to clients.
type ExpenseLineItemResponse struct {
	LineItemID    string          `json:"lineItemID"`
	RawMaterialID string          `json:"rawMaterialID"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// ExpenseResponse is an expense as returned to clients.
type ExpenseResponse struct {
	ExpenseID              string                    `json:"expenseID"`
	BranchID               string                    `json:"branchID"`
	ExpenseTypeID          string                    `json:"expenseTypeID"`
	Date                   time.Time                 `json:"date"`
	TotalAmount            decimal.Decimal           `json:"totalAmount"`
	Description            string                    `json:"description"`
	DailyInstallmentAmount *decimal.Decimal          `json:"dailyInstallmentAmount,omitempty"`
	LineItems              []ExpenseLineItemResponse `json:"lineItems,omitempty"`
	CreatedAt              time.Time                 `json:"createdAt"`
	CreatedBy              string                    `json:"createdBy"`
}

// ListExpensesResponse is a page of expenses plus the next-page token.
type ListExpensesResponse struct {
	Expenses  []ExpenseResponse `json:"expenses"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToExpenseResponse converts a domain.Expense to its response DTO.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	resp := ExpenseResponse{
		ExpenseID:              e.ExpenseID,
		BranchID:               e.BranchID,
		ExpenseTypeID:          e.ExpenseTypeID,
		Date:                   e.Date,
		TotalAmount:            e.TotalAmount,
		Description:            e.Description,
		DailyInstallmentAmount: e.DailyInstallmentAmount,
		CreatedAt:              e.CreatedAt,
		CreatedBy:              e.CreatedBy,
	}
	if len(e.LineItems) > 0 {
		resp.LineItems = make([]ExpenseLineItemResponse, len(e.LineItems))
		for i, li := range e.LineItems {
			resp.LineItems[i] = ExpenseLineItemResponse{
				LineItemID:    li.LineItemID,
				RawMaterialID: li.RawMaterialID,
				Quantity:      li.Quantity,
				UnitPrice:     li.UnitPrice,
				Subtotal:      li.Subtotal,
			}
		}
	}
	return resp
}

// ToExpenseResponses converts a slice of domain expenses.
func ToExpenseResponses(expenses []domain.Expense) []ExpenseResponse {
	responses := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		responses[i] = ToExpenseResponse(&expenses[i])
	}
	return responses
}
