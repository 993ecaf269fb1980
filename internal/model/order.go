package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderType enum constants: a customer either asks for a plain receipt
// (apodeixi) or a company invoice (timologio), which requires tax details.
const (
	OrderTypeApodeixi  = "apodeixi"
	OrderTypeTimologio = "timologio"
)

// OrderStatus enum constants
const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusCancelled = "CANCELLED"
)

// Order stores a placed checkout order together with the billing details the
// storefront collected. Invoice-only fields (VAT id, tax office, company,
// activity) stay empty for receipt orders.
type Order struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"order_number"`
	OrderType   string          `gorm:"type:varchar(20);not null;index;default:'apodeixi'" json:"order_type"`
	Status      string          `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Total       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total"`

	BillingName     string `gorm:"type:varchar(255)" json:"billing_name,omitempty"`
	BillingEmail    string `gorm:"type:varchar(255)" json:"billing_email,omitempty"`
	BillingCompany  string `gorm:"type:varchar(255)" json:"billing_company,omitempty"`
	BillingVAT      string `gorm:"type:varchar(20);index" json:"billing_vat,omitempty"`
	BillingIRS      string `gorm:"type:varchar(255)" json:"billing_irs,omitempty"` // tax office (DOY)
	BillingActivity string `gorm:"type:varchar(255)" json:"billing_activity,omitempty"`
	BillingAddress1 string `gorm:"type:varchar(255)" json:"billing_address_1,omitempty"`
	BillingCity     string `gorm:"type:varchar(255)" json:"billing_city,omitempty"`
	BillingPostcode string `gorm:"type:varchar(20)" json:"billing_postcode,omitempty"`
	BillingCountry  string `gorm:"type:varchar(2)" json:"billing_country,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
