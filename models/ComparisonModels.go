package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemComparisonEntry is one vendor's offer for one RFQ line item, as shown
// in the per-item matrix.
type ItemComparisonEntry struct {
	VendorID       uint            `json:"vendor_id"`
	VendorName     string          `json:"vendor_name"`
	VendorRating   float64         `json:"vendor_rating"`
	ResponseID     uint            `json:"response_id"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	DeliveryDays   int             `json:"delivery_days"`
	WarrantyMonths int             `json:"warranty_months"`
}

// ItemComparison is the matrix row for one RFQ line item: vendor entries
// sorted ascending by unit price, ties broken by vendor id.
type ItemComparison struct {
	ItemCode      string                `json:"item_code"`
	Specification string                `json:"specification"`
	Quantity      float64               `json:"quantity"`
	Unit          string                `json:"unit"`
	Vendors       []ItemComparisonEntry `json:"vendors"`
}

// VendorRanking is one row of the overall ranking view.
type VendorRanking struct {
	VendorID      uint            `json:"vendor_id"`
	VendorName    string          `json:"vendor_name"`
	VendorRating  float64         `json:"vendor_rating"`
	ResponseID    uint            `json:"response_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Currency      string          `json:"currency"`
	PaymentTerms  string          `json:"payment_terms"`
	DeliveryTerms string          `json:"delivery_terms"`
	ValidUntil    *time.Time      `json:"valid_until,omitempty"`
}

// ComparisonResult bundles both views for one RFQ. Computed on read, never
// persisted.
type ComparisonResult struct {
	RFQID     uint             `json:"rfq_id"`
	RFQNumber string           `json:"rfq_number"`
	Items     []ItemComparison `json:"items"`
	Ranking   []VendorRanking  `json:"ranking"`
}

// ComparisonDecision represents the comparison_decisions table: one immutable
// record per (item, vendor) selection, attributed to the acting user.
type ComparisonDecision struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	RFQID     uint      `gorm:"column:rfq_id;not null;index" json:"rfq_id"`
	ItemCode  string    `gorm:"column:item_code;type:varchar(50);not null" json:"item_code"`
	VendorID  uint      `gorm:"column:vendor_id;not null" json:"vendor_id"`
	Reason    string    `gorm:"column:reason;type:text" json:"reason"`
	DecidedBy uint      `gorm:"column:decided_by;not null" json:"decided_by"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

// TableName specifies the table name for ComparisonDecision
func (ComparisonDecision) TableName() string {
	return "comparison_decisions"
}

// VendorSelectionInput is one selection in a record-selections request.
type VendorSelectionInput struct {
	ItemCode string `json:"item_code" binding:"required"`
	VendorID uint   `json:"vendor_id" binding:"required"`
	Reason   string `json:"reason"`
}

// DedupGroupError records one dedup group that failed to clean up.
type DedupGroupError struct {
	Key   QuotationDedupKey `json:"key"`
	Error string            `json:"error"`
}

// DedupSweepSummary is the outcome of one reconciliation sweep.
type DedupSweepSummary struct {
	SweepID        string            `json:"sweep_id"`
	CompanyID      uint              `json:"company_id"`
	GroupsFound    int               `json:"groups_found"`
	RecordsDeleted int               `json:"records_deleted"`
	Errors         []DedupGroupError `json:"errors,omitempty"`
	RanAt          time.Time         `json:"ran_at"`
}
