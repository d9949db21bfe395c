package types

import "time"

// OrderInput carries the business fields for creating or updating an
// order. The delivery company is free text; the store resolves it to a
// directory entry and stores the canonical casing.
type OrderInput struct {
	ClientName      string `json:"clientName"`
	ArticleName     string `json:"articleName"`
	Phone           string `json:"phone"`
	City            string `json:"city"`
	Address         string `json:"address"`
	DeliveryCompany string `json:"deliveryCompany"`
	DeliveryDate    string `json:"deliveryDate"` // YYYY-MM-DD
	Description     string `json:"description"`
}

// Order is a full order row. DeliveryCompany holds the canonical
// directory name whenever DeliveryCompanyID is set; the store keeps the
// two in sync on every write path.
type Order struct {
	ID                int64     `json:"id"`
	ClientName        string    `json:"clientName"`
	ArticleName       string    `json:"articleName"`
	Phone             string    `json:"phone"`
	City              string    `json:"city"`
	Address           string    `json:"address"`
	DeliveryCompany   string    `json:"deliveryCompany"`
	DeliveryCompanyID *int64    `json:"deliveryCompanyId"`
	DeliveryDate      string    `json:"deliveryDate"`
	Description       string    `json:"description"`
	Done              bool      `json:"done"`
	CreatedAt         time.Time `json:"createdAt"`
}

// OrderSummary is the list view of an order.
type OrderSummary struct {
	ID          int64  `json:"id"`
	ArticleName string `json:"articleName"`
	Done        bool   `json:"done"`
}

// OpenedOrder is an entry in the opened-orders working set. Positions
// are a dense sequence 1..N with no gaps or duplicates.
type OpenedOrder struct {
	OrderID     int64  `json:"orderId"`
	ArticleName string `json:"articleName"`
	Position    int64  `json:"position"`
}
