package models

import (
	"time"
)

// RequisitionStatus is the closed set of purchase requisition states.
// Stored lowercase; parsing at the API edge goes through ParseRequisitionStatus.
type RequisitionStatus string

const (
	RequisitionDraft     RequisitionStatus = "draft"
	RequisitionSubmitted RequisitionStatus = "submitted"
	RequisitionApproved  RequisitionStatus = "approved"
	RequisitionRejected  RequisitionStatus = "rejected"
	RequisitionConverted RequisitionStatus = "converted"
)

// requisitionTransitions is the allowed-transition table for the PR machine.
var requisitionTransitions = map[RequisitionStatus][]RequisitionStatus{
	RequisitionDraft:     {RequisitionSubmitted},
	RequisitionSubmitted: {RequisitionApproved, RequisitionRejected},
	RequisitionApproved:  {RequisitionConverted},
}

// CanTransition reports whether the PR state machine permits from -> to.
func (s RequisitionStatus) CanTransition(to RequisitionStatus) bool {
	for _, next := range requisitionTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseRequisitionStatus normalizes an externally supplied status string.
func ParseRequisitionStatus(raw string) (RequisitionStatus, bool) {
	switch RequisitionStatus(raw) {
	case RequisitionDraft, RequisitionSubmitted, RequisitionApproved, RequisitionRejected, RequisitionConverted:
		return RequisitionStatus(raw), true
	}
	return "", false
}

// RequisitionPriority for PRs.
type RequisitionPriority string

const (
	PriorityLow    RequisitionPriority = "low"
	PriorityMedium RequisitionPriority = "medium"
	PriorityHigh   RequisitionPriority = "high"
	PriorityUrgent RequisitionPriority = "urgent"
)

// PurchaseRequisition represents the purchase_requisitions table.
// A PR is editable only while in draft; after submission only the status and
// approval fields change.
type PurchaseRequisition struct {
	ID           uint                `gorm:"primaryKey;column:id" json:"id"`
	PRNumber     string              `gorm:"column:pr_number;type:varchar(30);not null;uniqueIndex:idx_factory_pr_number" json:"pr_number"`
	CompanyID    uint                `gorm:"column:company_id;not null;index" json:"company_id"`
	DivisionID   uint                `gorm:"column:division_id;not null" json:"division_id"`
	DepartmentID uint                `gorm:"column:department_id;not null" json:"department_id"`
	FactoryID    uint                `gorm:"column:factory_id;not null;uniqueIndex:idx_factory_pr_number" json:"factory_id"`
	Status       RequisitionStatus   `gorm:"column:status;type:varchar(20);not null;default:'draft'" json:"status"`
	Priority     RequisitionPriority `gorm:"column:priority;type:varchar(10);not null;default:'medium'" json:"priority"`
	RequiredBy   time.Time           `gorm:"column:required_by;type:date;not null" json:"required_by"`
	Remarks      string              `gorm:"column:remarks;type:text" json:"remarks"`

	RequestedBy     uint       `gorm:"column:requested_by;not null" json:"requested_by"`
	SubmittedAt     *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	DecidedBy       *uint      `gorm:"column:decided_by" json:"decided_by,omitempty"`
	DecidedAt       *time.Time `gorm:"column:decided_at" json:"decided_at,omitempty"`
	RejectionReason string     `gorm:"column:rejection_reason;type:text" json:"rejection_reason,omitempty"`
	ConvertedRFQID  *uint      `gorm:"column:converted_rfq_id" json:"converted_rfq_id,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`

	LineItems []RequisitionLineItem `gorm:"foreignKey:RequisitionID" json:"line_items"`
}

// TableName specifies the table name for PurchaseRequisition
func (PurchaseRequisition) TableName() string {
	return "purchase_requisitions"
}

// RequisitionLineItem represents the requisition_line_items table. Items are
// owned by their PR and replaced as a whole set on every draft edit.
type RequisitionLineItem struct {
	ID            uint      `gorm:"primaryKey;column:id" json:"id"`
	RequisitionID uint      `gorm:"column:requisition_id;not null;index" json:"requisition_id"`
	MaterialID    uint      `gorm:"column:material_id;not null" json:"material_id"`
	ItemCode      string    `gorm:"column:item_code;type:varchar(50);not null" json:"item_code"`
	Quantity      float64   `gorm:"column:quantity;type:numeric(12,3);not null" json:"quantity"`
	Unit          string    `gorm:"column:unit;type:varchar(20)" json:"unit"`
	RequiredDate  time.Time `gorm:"column:required_date;type:date;not null" json:"required_date"`
	Specification string    `gorm:"column:specification;type:text" json:"specification"`
	CreatedAt     time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

// TableName specifies the table name for RequisitionLineItem
func (RequisitionLineItem) TableName() string {
	return "requisition_line_items"
}

// RequisitionItemInput is the request shape for creating/replacing PR items.
type RequisitionItemInput struct {
	MaterialID    uint    `json:"material_id" binding:"required"`
	ItemCode      string  `json:"item_code" binding:"required"`
	Quantity      float64 `json:"quantity" binding:"required"`
	Unit          string  `json:"unit"`
	RequiredDate  string  `json:"required_date" binding:"required"`
	Specification string  `json:"specification"`
}

// RequisitionRequest is the request body for creating or updating a PR.
type RequisitionRequest struct {
	CompanyID    uint                   `json:"company_id" binding:"required"`
	DivisionID   uint                   `json:"division_id" binding:"required"`
	DepartmentID uint                   `json:"department_id" binding:"required"`
	FactoryID    uint                   `json:"factory_id" binding:"required"`
	Priority     string                 `json:"priority"`
	RequiredBy   string                 `json:"required_by" binding:"required"`
	Remarks      string                 `json:"remarks"`
	Items        []RequisitionItemInput `json:"items"`
}

// RequisitionDecisionRequest is the approve/reject request body.
type RequisitionDecisionRequest struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason"`
}

// ConvertToRFQRequest is the request body for converting an approved PR.
type ConvertToRFQRequest struct {
	VendorIDs          []uint `json:"vendor_ids" binding:"required"`
	SubmissionDeadline string `json:"submission_deadline" binding:"required"`
	PaymentTerms       string `json:"payment_terms"`
	DeliveryTerms      string `json:"delivery_terms"`
}
