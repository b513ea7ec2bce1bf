package order

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/tunhanduc2007-netizen/projects-sub000/internal/bank"
	"github.com/tunhanduc2007-netizen/projects-sub000/internal/shipping"
)

type Status string

const (
	StatusNew        Status = "new"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusCancelled  Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the known order statuses. Transitions
// between valid statuses are deliberately unrestricted: an admin may move
// an order from any status to any other.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusProcessing, StatusDone, StatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	MethodQR  PaymentMethod = "qr"
	MethodCOD PaymentMethod = "cod"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentUnpaid    PaymentStatus = "unpaid"
)

// Order is one checkout event. Amounts are VND, so integers throughout.
// FinalAmount is always TotalAmount + ShippingFee, recomputed server-side.
type Order struct {
	ID              uuid.UUID     `json:"id"`
	OrderCode       string        `json:"order_code"`
	CustomerName    string        `json:"customer_name"`
	CustomerPhone   string        `json:"customer_phone"`
	Note            string        `json:"note,omitempty"`
	AddressStreet   string        `json:"address_street"`
	AddressWard     string        `json:"address_ward,omitempty"`
	AddressDistrict string        `json:"address_district"`
	AddressCity     string        `json:"address_city"`
	TotalAmount     int64         `json:"total_amount"`
	ShippingFee     int64         `json:"shipping_fee"`
	FinalAmount     int64         `json:"final_amount"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	OrderStatus     Status        `json:"order_status"`
	IsCOD           bool          `json:"is_cod"`
	TransferContent string        `json:"transfer_content"`
	QRCodeURL       string        `json:"qr_code_url"`
	AdminNote       string        `json:"admin_note,omitempty"`
	ConfirmedBy     *uuid.UUID    `json:"confirmed_by,omitempty"`
	ConfirmedAt     *time.Time    `json:"confirmed_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`

	Items   []Item   `json:"items"`
	Payment *Payment `json:"payment,omitempty"`

	// Set on creation only, never persisted.
	Bank     *bank.Account   `json:"bank_account,omitempty"`
	Shipping *shipping.Quote `json:"shipping,omitempty"`
}

// Item is one order line. Product fields are a snapshot taken at order
// time; later catalog changes never alter them. ProductID is nullable
// because the product may be deleted from the catalog afterwards.
type Item struct {
	ID           uuid.UUID  `json:"id"`
	OrderID      uuid.UUID  `json:"order_id"`
	ProductID    *uuid.UUID `json:"product_id,omitempty"`
	ProductName  string     `json:"product_name"`
	ProductBrand string     `json:"product_brand,omitempty"`
	Price        int64      `json:"price"`
	ProductImage string     `json:"product_image,omitempty"`
	Quantity     int        `json:"quantity"`
	Subtotal     int64      `json:"subtotal"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Payment is the bank-transfer record for a non-COD order. At most one
// per order; COD orders have none at creation time.
type Payment struct {
	ID              uuid.UUID  `json:"id"`
	OrderID         uuid.UUID  `json:"order_id"`
	BankName        string     `json:"bank_name"`
	BankCode        string     `json:"bank_code"`
	AccountNumber   string     `json:"account_number"`
	AccountHolder   string     `json:"account_holder"`
	Amount          int64      `json:"amount"`
	TransferContent string     `json:"transfer_content"`
	Status          string     `json:"status"`
	VerifiedBy      *uuid.UUID `json:"verified_by,omitempty"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

const (
	paymentRowPending  = "pending"
	paymentRowVerified = "verified"
)
