package models

import (
	"time"
)

// RFQStatus is the closed set of RFQ states.
type RFQStatus string

const (
	RFQDraft     RFQStatus = "draft"
	RFQOpen      RFQStatus = "open"
	RFQSent      RFQStatus = "sent"
	RFQClosed    RFQStatus = "closed"
	RFQCancelled RFQStatus = "cancelled"
	RFQAwarded   RFQStatus = "awarded"
)

var rfqTransitions = map[RFQStatus][]RFQStatus{
	RFQDraft:  {RFQOpen, RFQCancelled},
	RFQOpen:   {RFQSent, RFQCancelled},
	RFQSent:   {RFQClosed, RFQCancelled},
	RFQClosed: {RFQAwarded},
}

// CanTransition reports whether the RFQ state machine permits from -> to.
func (s RFQStatus) CanTransition(to RFQStatus) bool {
	for _, next := range rfqTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// RFQ represents the rfqs table. Line items are copied from the source PR at
// conversion time, never live-linked.
type RFQ struct {
	ID                 uint       `gorm:"primaryKey;column:id" json:"id"`
	RFQNumber          string     `gorm:"column:rfq_number;type:varchar(30);not null;uniqueIndex:idx_company_rfq_number" json:"rfq_number"`
	CompanyID          uint       `gorm:"column:company_id;not null;uniqueIndex:idx_company_rfq_number" json:"company_id"`
	RequisitionID      *uint      `gorm:"column:requisition_id;index" json:"requisition_id,omitempty"`
	Status             RFQStatus  `gorm:"column:status;type:varchar(20);not null;default:'open'" json:"status"`
	IssueDate          time.Time  `gorm:"column:issue_date;type:date;not null" json:"issue_date"`
	SubmissionDeadline time.Time  `gorm:"column:submission_deadline;not null" json:"submission_deadline"`
	PaymentTerms       string     `gorm:"column:payment_terms;type:text" json:"payment_terms"`
	DeliveryTerms      string     `gorm:"column:delivery_terms;type:text" json:"delivery_terms"`
	CreatedBy          uint       `gorm:"column:created_by;not null" json:"created_by"`
	SentAt             *time.Time `gorm:"column:sent_at" json:"sent_at,omitempty"`
	ClosedAt           *time.Time `gorm:"column:closed_at" json:"closed_at,omitempty"`
	CreatedAt          time.Time  `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;not null" json:"updated_at"`

	LineItems   []RFQLineItem         `gorm:"foreignKey:RFQID" json:"line_items"`
	Invitations []RFQVendorInvitation `gorm:"foreignKey:RFQID" json:"invitations"`
}

// TableName specifies the table name for RFQ
func (RFQ) TableName() string {
	return "rfqs"
}

// RFQLineItem represents the rfq_line_items table.
type RFQLineItem struct {
	ID            uint      `gorm:"primaryKey;column:id" json:"id"`
	RFQID         uint      `gorm:"column:rfq_id;not null;index" json:"rfq_id"`
	MaterialID    uint      `gorm:"column:material_id;not null" json:"material_id"`
	ItemCode      string    `gorm:"column:item_code;type:varchar(50);not null" json:"item_code"`
	Quantity      float64   `gorm:"column:quantity;type:numeric(12,3);not null" json:"quantity"`
	Unit          string    `gorm:"column:unit;type:varchar(20)" json:"unit"`
	RequiredDate  time.Time `gorm:"column:required_date;type:date;not null" json:"required_date"`
	Specification string    `gorm:"column:specification;type:text" json:"specification"`
	CreatedAt     time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

// TableName specifies the table name for RFQLineItem
func (RFQLineItem) TableName() string {
	return "rfq_line_items"
}

// RFQVendorInvitation is the (RFQ, vendor) join entity; the lifecycle sets
// the email flags, reconciliation sets response_received.
type RFQVendorInvitation struct {
	ID               uint       `gorm:"primaryKey;column:id" json:"id"`
	RFQID            uint       `gorm:"column:rfq_id;not null;uniqueIndex:idx_rfq_vendor" json:"rfq_id"`
	VendorID         uint       `gorm:"column:vendor_id;not null;uniqueIndex:idx_rfq_vendor" json:"vendor_id"`
	EmailSent        bool       `gorm:"column:email_sent;not null;default:false" json:"email_sent"`
	EmailSentAt      *time.Time `gorm:"column:email_sent_at" json:"email_sent_at,omitempty"`
	ResponseReceived bool       `gorm:"column:response_received;not null;default:false" json:"response_received"`
	CreatedAt        time.Time  `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;not null" json:"updated_at"`

	Vendor Vendor `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
}

// TableName specifies the table name for RFQVendorInvitation
func (RFQVendorInvitation) TableName() string {
	return "rfq_vendor_invitations"
}

// RFQSendResult reports per-vendor dispatch outcomes of a send operation.
type RFQSendResult struct {
	RFQID       uint            `json:"rfq_id"`
	Dispatched  []uint          `json:"dispatched_vendor_ids"`
	Failed      map[uint]string `json:"failed_vendor_ids,omitempty"`
	AlreadySent []uint          `json:"already_sent_vendor_ids,omitempty"`
}
