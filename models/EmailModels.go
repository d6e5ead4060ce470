package models

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// EmailDirection distinguishes dispatch-log rows.
type EmailDirection string

const (
	EmailOutbound EmailDirection = "outbound"
	EmailInbound  EmailDirection = "inbound"
)

// EmailDispatchLog represents the email_dispatch_logs table: an append-only
// audit trail of every message tied to an RFQ+vendor. Rows are never updated;
// the dedup sweep may prune redundant ones.
type EmailDispatchLog struct {
	ID                uint           `gorm:"primaryKey;column:id" json:"id"`
	RFQID             uint           `gorm:"column:rfq_id;not null;index" json:"rfq_id"`
	VendorID          uint           `gorm:"column:vendor_id;not null;index" json:"vendor_id"`
	Direction         EmailDirection `gorm:"column:direction;type:varchar(10);not null" json:"direction"`
	ExternalMessageID string         `gorm:"column:external_message_id;type:varchar(255)" json:"external_message_id,omitempty"`
	Subject           string         `gorm:"column:subject;type:varchar(500)" json:"subject"`
	FromAddress       string         `gorm:"column:from_address;type:varchar(255)" json:"from_address"`
	ToAddress         string         `gorm:"column:to_address;type:varchar(255)" json:"to_address"`
	Duplicate         bool           `gorm:"column:duplicate;not null;default:false" json:"duplicate"`
	Notes             string         `gorm:"column:notes;type:text" json:"notes,omitempty"`
	OccurredAt        time.Time      `gorm:"column:occurred_at;not null" json:"occurred_at"`
	CreatedAt         time.Time      `gorm:"column:created_at;not null" json:"created_at"`
}

// TableName specifies the table name for EmailDispatchLog
func (EmailDispatchLog) TableName() string {
	return "email_dispatch_logs"
}

// InboundEmail is the shape the mail-listing collaborator delivers for one
// message bound to an RFQ and a vendor.
type InboundEmail struct {
	ExternalMessageID string    `json:"external_message_id" binding:"required"`
	FromAddress       string    `json:"from_address" binding:"required"`
	Subject           string    `json:"subject"`
	ReceivedAt        time.Time `json:"received_at"`
	Body              string    `json:"body"`
	Attachments       []string  `json:"attachments"`
}

// EmailTemplate represents the email_templates table.
type EmailTemplate struct {
	ID           uint            `gorm:"primaryKey;column:id" json:"id"`
	Name         string          `gorm:"column:name;type:varchar(150);not null" json:"name"`
	Subject      string          `gorm:"column:subject;type:varchar(500);not null" json:"subject"`
	Body         string          `gorm:"column:body;type:text;not null" json:"body"`
	TemplateType string          `gorm:"column:template_type;type:varchar(50);not null;index" json:"template_type"`
	IsDefault    bool            `gorm:"column:is_default;not null;default:false" json:"is_default"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true" json:"is_active"`
	Variables    json.RawMessage `gorm:"column:variables;type:jsonb" json:"variables,omitempty"`
	CC           pq.StringArray  `gorm:"column:cc;type:text[]" json:"cc,omitempty"`
	BCC          pq.StringArray  `gorm:"column:bcc;type:text[]" json:"bcc,omitempty"`
	CreatedBy    *uint           `gorm:"column:created_by" json:"created_by,omitempty"`
	CreatedAt    time.Time       `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for EmailTemplate
func (EmailTemplate) TableName() string {
	return "email_templates"
}

// EmailTemplateVariable represents a single variable in the template
type EmailTemplateVariable struct {
	Key         string `json:"key" example:"vendor_name"`
	Description string `json:"description" example:"Vendor name"`
}

// EmailData carries the variables substituted into an RFQ invitation
// template.
type EmailData struct {
	VendorName         string
	ContactPerson      string
	Email              string
	CompanyName        string
	RFQNumber          string
	SubmissionDeadline string
	ItemCount          string
	PaymentTerms       string
	DeliveryTerms      string
	SupportEmail       string
}
