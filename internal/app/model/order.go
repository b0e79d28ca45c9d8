package model

// OrderStatus is the fulfilment state reported by the API
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a row of the order history
type Order struct {
	ID                       uint        `json:"id"`
	OrderNumber              string      `json:"order_number"`
	OrderStatus              OrderStatus `json:"order_status"`
	PaymentType              string      `json:"payment_type"`
	PaymentStatus            string      `json:"payment_status"`
	Address                  string      `json:"address"`
	CityName                 string      `json:"city_name"`
	RegionName               string      `json:"region_name"`
	TotalPriceBeforeDiscount Amount      `json:"total_price_before_discount"`
	TotalPriceAfterDiscount  Amount      `json:"total_price_after_discount"`
	Products                 []OrderLine `json:"products,omitempty"`
}

// OrderLine is a product inside order details
type OrderLine struct {
	ID     uint    `json:"id"`
	Name   string  `json:"name"`
	Image  string  `json:"image"`
	Qty    FlexInt `json:"qty"`
	Status string  `json:"status"`
}

// OrderPage is the payload of GET /orders
type OrderPage struct {
	Orders     []Order    `json:"orders_data"`
	Pagination Pagination `json:"pagination"`
}

// CheckoutRequest carries the delivery address of a checkout
type CheckoutRequest struct {
	CityID   uint   `json:"city_id" binding:"required"`
	RegionID uint   `json:"region_id" binding:"required"`
	Address  string `json:"address" binding:"required"`
}

func (o Order) Cancellable() bool {
	return o.OrderStatus == OrderStatusPending
}

// Savings is before - after when a before-discount price is known.
func (o Order) Savings() Amount {
	if !o.TotalPriceBeforeDiscount.IsPositive() {
		return Amount{}
	}
	return Amount{Decimal: o.TotalPriceBeforeDiscount.Sub(o.TotalPriceAfterDiscount.Decimal)}
}
