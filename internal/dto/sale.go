package dto

import (
	"time"

	"github.com/gochicken/gochicken_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SaleItemRequest is one requested product line. Unit prices are resolved
// from the catalog server-side; any price sent by the caller is ignored.
type SaleItemRequest struct {
	ProductID string          `json:"productID" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// CreateSaleRequest is the payload for creating a sale.
type CreateSaleRequest struct {
	BranchID      string            `json:"branchID" binding:"required"`
	CustomerName  string            `json:"customerName"`
	PaymentMethod string            `json:"paymentMethod" binding:"required"`
	Status        domain.SaleStatus `json:"status" binding:"required,salestatus"`
	Origin        domain.SaleOrigin `json:"origin" binding:"required,saleorigin"`
	Items         []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
	// TotalAmount is accepted for wire compatibility with the mobile client
	// but never trusted; the server recomputes the total from the catalog.
	TotalAmount *decimal.Decimal `json:"totalAmount,omitempty"`
}

// UpdateSaleStatusRequest switches a sale between OnLoan and Completed.
type UpdateSaleStatusRequest struct {
	Status domain.SaleStatus `json:"status" binding:"required,salestatus"`
}

// SaleLineItemResponse is one sale line as returned to clients.
type SaleLineItemResponse struct {
	LineItemID string          `json:"lineItemID"`
	ProductID  string          `json:"productID"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// SaleResponse is a sale as returned to clients.
type SaleResponse struct {
	SaleID          string                 `json:"saleID"`
	TransactionCode string                 `json:"transactionCode"`
	BranchID        string                 `json:"branchID"`
	CustomerName    string                 `json:"customerName,omitempty"`
	PaymentMethod   string                 `json:"paymentMethod"`
	Status          domain.SaleStatus      `json:"status"`
	Origin          domain.SaleOrigin      `json:"origin"`
	TotalAmount     decimal.Decimal        `json:"totalAmount"`
	OccurredAt      time.Time              `json:"occurredAt"`
	LineItems       []SaleLineItemResponse `json:"lineItems,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
	CreatedBy       string                 `json:"createdBy"`
}

// ListSalesParams carries the query parameters for listing sales.
type ListSalesParams struct {
	Status    *domain.SaleStatus
	Limit     int
	NextToken *string
}

// ListSalesResponse is a page of sales plus the token for the next page.
type ListSalesResponse struct {
	Sales     []SaleResponse `json:"sales"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// ToSaleResponse converts a domain.SaleTransaction to its response DTO.
func ToSaleResponse(s *domain.SaleTransaction) SaleResponse {
	resp := SaleResponse{
		SaleID:          s.SaleID,
		TransactionCode: s.TransactionCode,
		BranchID:        s.BranchID,
		CustomerName:    s.CustomerName,
		PaymentMethod:   s.PaymentMethod,
		Status:          s.Status,
		Origin:          s.Origin,
		TotalAmount:     s.TotalAmount,
		OccurredAt:      s.OccurredAt,
		CreatedAt:       s.CreatedAt,
		CreatedBy:       s.CreatedBy,
	}
	if len(s.LineItems) > 0 {
		resp.LineItems = make([]SaleLineItemResponse, len(s.LineItems))
		for i, li := range s.LineItems {
			resp.LineItems[i] = SaleLineItemResponse{
				LineItemID: li.LineItemID,
				ProductID:  li.ProductID,
				Quantity:   li.Quantity,
				UnitPrice:  li.UnitPrice,
				Subtotal:   li.Subtotal,
			}
		}
	}
	return resp
}

// ToSaleResponses converts a slice of domain sales.
func ToSaleResponses(sales []domain.SaleTransaction) []SaleResponse {
	responses := make([]SaleResponse, len(sales))
	for i := range sales {
		responses[i] = ToSaleResponse(&sales[i])
	}
	return responses
}
