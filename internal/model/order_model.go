package model

import "time"

type OrderStatus string

const (
	OrderPending         OrderStatus = "pending"
	OrderPaid            OrderStatus = "paid"
	OrderProcessing      OrderStatus = "processing"
	OrderShipped         OrderStatus = "shipped"
	OrderDelivered       OrderStatus = "delivered"
	OrderRefundRequested OrderStatus = "refund_requested"
	OrderReturnRequested OrderStatus = "return_requested"
	OrderReturnReceived  OrderStatus = "return_received"
	OrderRefunded        OrderStatus = "refunded"
	OrderCancelled       OrderStatus = "cancelled"
)

var orderStatuses = map[OrderStatus]bool{
	OrderPending:         true,
	OrderPaid:            true,
	OrderProcessing:      true,
	OrderShipped:         true,
	OrderDelivered:       true,
	OrderRefundRequested: true,
	OrderReturnRequested: true,
	OrderReturnReceived:  true,
	OrderRefunded:        true,
	OrderCancelled:       true,
}

func (s OrderStatus) Valid() bool { return orderStatuses[s] }

// ShippingAddress is stored denormalized on the order (jsonb), so the order
// keeps its snapshot even if the buyer later edits their address book.
type ShippingAddress struct {
	FullName   string  `json:"full_name"`
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	PostalCode string  `json:"postal_code"`
	Country    string  `json:"country"`
	Phone      *string `json:"phone,omitempty"`
}

// Order money fields are integer cents. Total = Subtotal + ShippingCost + Tax
// at creation time; the checkout orchestrator is the only writer of that
// invariant.
type Order struct {
	ID               string           `json:"id"`
	OrderNumber      string           `json:"order_number"`
	UserID           *string          `json:"user_id,omitempty"`
	Status           OrderStatus      `json:"status"`
	Subtotal         int64            `json:"subtotal"`
	ShippingCost     int64            `json:"shipping_cost"`
	Tax              int64            `json:"tax"`
	Total            int64            `json:"total"`
	PaymentProcessor string           `json:"payment_processor"`
	PaymentIntentID  *string          `json:"payment_intent_id,omitempty"`
	ShippingAddress  *ShippingAddress `json:"shipping_address,omitempty"`
	TrackingNumber   *string          `json:"tracking_number,omitempty"`
	TrackingURL      *string          `json:"tracking_url,omitempty"`
	Notes            *string          `json:"notes,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`

	Items []OrderItem `json:"items,omitempty"`
}

// OrderItem snapshots product/variant names and price at purchase time,
// deliberately decoupled from the live catalog rows.
type OrderItem struct {
	ID           string  `json:"id"`
	OrderID      string  `json:"order_id"`
	ProductID    string  `json:"product_id"`
	VariantID    string  `json:"variant_id"`
	Quantity     int     `json:"quantity"`
	UnitPrice    int64   `json:"unit_price"`
	TotalPrice   int64   `json:"total_price"`
	ProductName  string  `json:"product_name"`
	VariantName  string  `json:"variant_name"`
	ProductImage *string `json:"product_image,omitempty"`
}

// SalesStats backs the admin dashboard.
type SalesStats struct {
	TotalRevenue   int64 `json:"total_revenue"` // paid and beyond, cents
	PaidOrders     int   `json:"paid_orders"`
	PendingOrders  int   `json:"pending_orders"`
	ShippedOrders  int   `json:"shipped_orders"`
	ProductCount   int   `json:"product_count"`
	TotalStock     int   `json:"total_stock"`
	CustomerCount  int   `json:"customer_count"`
}
