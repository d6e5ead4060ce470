package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuotationStatus is the commercial state of a vendor's quotation.
// Only received/under_review quotations participate in comparison.
type QuotationStatus string

const (
	QuotationReceived    QuotationStatus = "received"
	QuotationUnderReview QuotationStatus = "under_review"
	QuotationRejected    QuotationStatus = "rejected"
	QuotationWithdrawn   QuotationStatus = "withdrawn"
)

// InComparison reports whether a quotation in this status is visible to the
// comparison engine.
func (s QuotationStatus) InComparison() bool {
	return s == QuotationReceived || s == QuotationUnderReview
}

// QuotationProcessingStatus tracks back-office review of an ingested response.
type QuotationProcessingStatus string

const (
	ProcessingPendingReview QuotationProcessingStatus = "pending_review"
	ProcessingReviewed      QuotationProcessingStatus = "reviewed"
)

// QuotationResponse represents the quotation_responses table: one vendor's
// reply to one RFQ. The (rfq_id, vendor_id, external_message_id) triple is
// the canonical identity; rows sharing it are duplicates to be reconciled.
type QuotationResponse struct {
	ID                uint                      `gorm:"primaryKey;column:id" json:"id"`
	RFQID             uint                      `gorm:"column:rfq_id;not null;index:idx_quotation_key" json:"rfq_id"`
	VendorID          uint                      `gorm:"column:vendor_id;not null;index:idx_quotation_key" json:"vendor_id"`
	CompanyID         uint                      `gorm:"column:company_id;not null;index" json:"company_id"`
	ExternalMessageID string                    `gorm:"column:external_message_id;type:varchar(255);not null;index:idx_quotation_key" json:"external_message_id"`
	Status            QuotationStatus           `gorm:"column:status;type:varchar(20);not null;default:'received'" json:"status"`
	ProcessingStatus  QuotationProcessingStatus `gorm:"column:processing_status;type:varchar(20);not null;default:'pending_review'" json:"processing_status"`
	QuotationNumber   string                    `gorm:"column:quotation_number;type:varchar(50)" json:"quotation_number"`
	TotalAmount       decimal.Decimal           `gorm:"column:total_amount;type:numeric(14,2);not null" json:"total_amount"`
	Currency          string                    `gorm:"column:currency;type:varchar(3);not null;default:'INR'" json:"currency"`
	PaymentTerms      string                    `gorm:"column:payment_terms;type:text" json:"payment_terms"`
	DeliveryTerms     string                    `gorm:"column:delivery_terms;type:text" json:"delivery_terms"`
	ValidUntil        *time.Time                `gorm:"column:valid_until;type:date" json:"valid_until,omitempty"`
	ReceivedAt        time.Time                 `gorm:"column:received_at;not null" json:"received_at"`
	CreatedAt         time.Time                 `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt         time.Time                 `gorm:"column:updated_at;not null" json:"updated_at"`

	Vendor    Vendor              `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	LineItems []QuotationLineItem `gorm:"foreignKey:ResponseID" json:"line_items"`
}

// TableName specifies the table name for QuotationResponse
func (QuotationResponse) TableName() string {
	return "quotation_responses"
}

// DedupKey returns the canonical identity used by the reconciliation engine.
func (q QuotationResponse) DedupKey() QuotationDedupKey {
	return QuotationDedupKey{
		RFQID:             q.RFQID,
		VendorID:          q.VendorID,
		ExternalMessageID: q.ExternalMessageID,
	}
}

// QuotationDedupKey groups duplicate quotation responses.
type QuotationDedupKey struct {
	RFQID             uint   `json:"rfq_id"`
	VendorID          uint   `json:"vendor_id"`
	ExternalMessageID string `json:"external_message_id"`
}

// QuotationLineItem represents the quotation_line_items table: one vendor's
// price for one RFQ line item.
type QuotationLineItem struct {
	ID             uint            `gorm:"primaryKey;column:id" json:"id"`
	ResponseID     uint            `gorm:"column:response_id;not null;index" json:"response_id"`
	ItemCode       string          `gorm:"column:item_code;type:varchar(50);not null" json:"item_code"`
	Quantity       float64         `gorm:"column:quantity;type:numeric(12,3);not null" json:"quantity"`
	UnitPrice      decimal.Decimal `gorm:"column:unit_price;type:numeric(14,2);not null" json:"unit_price"`
	TotalPrice     decimal.Decimal `gorm:"column:total_price;type:numeric(14,2);not null" json:"total_price"`
	DeliveryDays   int             `gorm:"column:delivery_days" json:"delivery_days"`
	WarrantyMonths int             `gorm:"column:warranty_months" json:"warranty_months"`
	Remarks        string          `gorm:"column:remarks;type:text" json:"remarks"`
	CreatedAt      time.Time       `gorm:"column:created_at;not null" json:"created_at"`
}

// TableName specifies the table name for QuotationLineItem
func (QuotationLineItem) TableName() string {
	return "quotation_line_items"
}
