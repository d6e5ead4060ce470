package repository

import (
	"context"
	"errors"
	"time"

	"backend/models"
)

// ErrNotFound is returned by repositories when a row does not exist. Services
// translate it into their own NotFoundError with entity context.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateKey is returned when an insert violates a unique constraint,
// e.g. a document-number collision under concurrent allocation.
var ErrDuplicateKey = errors.New("duplicate key")

// Store aggregates the per-entity repositories. Handlers and services receive
// a Store (or a UnitOfWork producing transactional Stores) instead of
// reaching for a package-level database handle.
type Store interface {
	Requisitions() RequisitionRepository
	RFQs() RFQRepository
	Quotations() QuotationRepository
	Vendors() VendorRepository
	Materials() MaterialRepository
	DispatchLogs() DispatchLogRepository
	Decisions() DecisionRepository
	Notifications() NotificationRepository
	Templates() TemplateRepository
	Users() UserRepository
	Scopes() ScopeRepository
}

// UnitOfWork runs a function against a transactional Store. Every multi-row
// mutation in the lifecycle and reconciliation services goes through Do; an
// error from fn rolls the whole transaction back.
type UnitOfWork interface {
	// Do executes fn inside one transaction.
	Do(ctx context.Context, fn func(Store) error) error
	// Store returns a non-transactional Store for plain reads.
	Store() Store
}

// RequisitionRepository persists purchase requisitions and their line items.
type RequisitionRepository interface {
	Create(ctx context.Context, pr *models.PurchaseRequisition) error
	GetByID(ctx context.Context, id uint) (*models.PurchaseRequisition, error)
	// Update saves the PR's own columns; line items are managed through
	// ReplaceLineItems.
	Update(ctx context.Context, pr *models.PurchaseRequisition) error
	// ReplaceLineItems deletes the PR's current item set and inserts the new
	// one. There is no partial-item patching.
	ReplaceLineItems(ctx context.Context, prID uint, items []models.RequisitionLineItem) error
	ListByCompany(ctx context.Context, companyID uint, status models.RequisitionStatus) ([]models.PurchaseRequisition, error)
	// LastNumber returns the highest pr_number with the given textual prefix
	// for one factory, or "" when the bucket is empty. Callers must hold the
	// factory scope lock (ScopeRepository.LockFactory) first.
	LastNumber(ctx context.Context, factoryID uint, prefix string) (string, error)
}

// RFQRepository persists RFQs, their line items and vendor invitations.
type RFQRepository interface {
	Create(ctx context.Context, rfq *models.RFQ) error
	GetByID(ctx context.Context, id uint) (*models.RFQ, error)
	Update(ctx context.Context, rfq *models.RFQ) error
	ListByCompany(ctx context.Context, companyID uint) ([]models.RFQ, error)
	// ListSentPastDeadline returns sent RFQs whose submission deadline has
	// passed, for the scheduled auto-close job.
	ListSentPastDeadline(ctx context.Context, now time.Time) ([]models.RFQ, error)
	GetInvitation(ctx context.Context, rfqID, vendorID uint) (*models.RFQVendorInvitation, error)
	UpdateInvitation(ctx context.Context, inv *models.RFQVendorInvitation) error
	// LastNumber returns the highest rfq_number with the given textual prefix
	// for one company, or "" when the bucket is empty. Callers must hold the
	// company scope lock first.
	LastNumber(ctx context.Context, companyID uint, prefix string) (string, error)
}

// QuotationRepository persists quotation responses and their line items.
type QuotationRepository interface {
	Create(ctx context.Context, q *models.QuotationResponse) error
	GetByID(ctx context.Context, id uint) (*models.QuotationResponse, error)
	// FindByDedupKey returns the canonical response for a matching key, or
	// ErrNotFound. When duplicates exist it returns the earliest-created one.
	FindByDedupKey(ctx context.Context, key models.QuotationDedupKey) (*models.QuotationResponse, error)
	// ListByCompany returns all responses under a company without line items,
	// for the dedup sweep's grouping pass.
	ListByCompany(ctx context.Context, companyID uint) ([]models.QuotationResponse, error)
	// ListByRFQ returns all responses for an RFQ with vendor and line items
	// preloaded, regardless of status; the comparison engine filters.
	ListByRFQ(ctx context.Context, rfqID uint) ([]models.QuotationResponse, error)
	ListPending(ctx context.Context, companyID uint) ([]models.QuotationResponse, error)
	Update(ctx context.Context, q *models.QuotationResponse) error
	// DeleteByIDs removes responses and their line items.
	DeleteByIDs(ctx context.Context, ids []uint) error
}

// VendorRepository persists vendor master data.
type VendorRepository interface {
	Create(ctx context.Context, v *models.Vendor) error
	GetByID(ctx context.Context, id uint) (*models.Vendor, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Vendor, error)
	ListByCompany(ctx context.Context, companyID uint) ([]models.Vendor, error)
	Update(ctx context.Context, v *models.Vendor) error
}

// MaterialRepository persists material master data.
type MaterialRepository interface {
	Create(ctx context.Context, m *models.Material) error
	GetByID(ctx context.Context, id uint) (*models.Material, error)
	ListByCompany(ctx context.Context, companyID uint) ([]models.Material, error)
}

// DispatchLogRepository is the append-only email audit trail.
type DispatchLogRepository interface {
	Append(ctx context.Context, entry *models.EmailDispatchLog) error
	ListByRFQ(ctx context.Context, rfqID uint) ([]models.EmailDispatchLog, error)
	// ListInboundByKey returns inbound rows for one dedup key ordered by
	// occurred_at ascending, for the sweep's log pruning.
	ListInboundByKey(ctx context.Context, key models.QuotationDedupKey) ([]models.EmailDispatchLog, error)
	DeleteByIDs(ctx context.Context, ids []uint) error
}

// DecisionRepository persists immutable vendor-selection records.
type DecisionRepository interface {
	CreateAll(ctx context.Context, decisions []models.ComparisonDecision) error
	ListByRFQ(ctx context.Context, rfqID uint) ([]models.ComparisonDecision, error)
}

// NotificationRepository persists in-app notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID uint) ([]models.Notification, error)
	MarkRead(ctx context.Context, id uint) error
}

// TemplateRepository reads email templates.
type TemplateRepository interface {
	GetByID(ctx context.Context, id uint) (*models.EmailTemplate, error)
	GetDefault(ctx context.Context, templateType string) (*models.EmailTemplate, error)
}

// UserRepository reads user master data (session rows live in the raw SQL
// store, see storage package).
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	ListByRole(ctx context.Context, companyID uint, role models.UserRole) ([]models.User, error)
}

// ScopeRepository locks and reads the numbering-scope entities. Lock*
// acquires a row-level lock held until the surrounding transaction commits,
// serializing sequence allocation per scope.
type ScopeRepository interface {
	LockFactory(ctx context.Context, id uint) (*models.Factory, error)
	LockCompany(ctx context.Context, id uint) (*models.Company, error)
	GetFactory(ctx context.Context, id uint) (*models.Factory, error)
	GetCompany(ctx context.Context, id uint) (*models.Company, error)
	ListCompanies(ctx context.Context) ([]models.Company, error)
}
