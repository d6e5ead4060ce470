package repository

import (
	"context"
	"errors"
	"time"

	"backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store over a *gorm.DB handle. The same type serves
// both the plain handle and transaction handles, so repositories compose with
// the unit of work transparently.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a database handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Requisitions() RequisitionRepository   { return &gormRequisitionRepo{db: s.db} }
func (s *GormStore) RFQs() RFQRepository                   { return &gormRFQRepo{db: s.db} }
func (s *GormStore) Quotations() QuotationRepository       { return &gormQuotationRepo{db: s.db} }
func (s *GormStore) Vendors() VendorRepository             { return &gormVendorRepo{db: s.db} }
func (s *GormStore) Materials() MaterialRepository         { return &gormMaterialRepo{db: s.db} }
func (s *GormStore) DispatchLogs() DispatchLogRepository   { return &gormDispatchLogRepo{db: s.db} }
func (s *GormStore) Decisions() DecisionRepository         { return &gormDecisionRepo{db: s.db} }
func (s *GormStore) Notifications() NotificationRepository { return &gormNotificationRepo{db: s.db} }
func (s *GormStore) Templates() TemplateRepository         { return &gormTemplateRepo{db: s.db} }
func (s *GormStore) Users() UserRepository                 { return &gormUserRepo{db: s.db} }
func (s *GormStore) Scopes() ScopeRepository               { return &gormScopeRepo{db: s.db} }

// GormUnitOfWork implements UnitOfWork over gorm's Transaction helper.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork wraps a database handle.
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Do runs fn inside a single transaction; fn's error rolls everything back.
func (u *GormUnitOfWork) Do(ctx context.Context, fn func(Store) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStore(tx))
	})
}

// Store returns a non-transactional Store for plain reads.
func (u *GormUnitOfWork) Store() Store {
	return NewGormStore(u.db)
}

// translate maps gorm errors onto the repository sentinel errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	}
	return err
}

type gormRequisitionRepo struct {
	db *gorm.DB
}

func (r *gormRequisitionRepo) Create(ctx context.Context, pr *models.PurchaseRequisition) error {
	return translate(r.db.WithContext(ctx).Create(pr).Error)
}

func (r *gormRequisitionRepo) GetByID(ctx context.Context, id uint) (*models.PurchaseRequisition, error) {
	var pr models.PurchaseRequisition
	err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("requisition_line_items.id") }).
		First(&pr, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &pr, nil
}

func (r *gormRequisitionRepo) Update(ctx context.Context, pr *models.PurchaseRequisition) error {
	return translate(r.db.WithContext(ctx).Omit("LineItems").Save(pr).Error)
}

func (r *gormRequisitionRepo) ReplaceLineItems(ctx context.Context, prID uint, items []models.RequisitionLineItem) error {
	if err := r.db.WithContext(ctx).
		Where("requisition_id = ?", prID).
		Delete(&models.RequisitionLineItem{}).Error; err != nil {
		return translate(err)
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].ID = 0
		items[i].RequisitionID = prID
	}
	return translate(r.db.WithContext(ctx).Create(&items).Error)
}

func (r *gormRequisitionRepo) ListByCompany(ctx context.Context, companyID uint, status models.RequisitionStatus) ([]models.PurchaseRequisition, error) {
	var prs []models.PurchaseRequisition
	q := r.db.WithContext(ctx).Where("company_id = ?", companyID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Preload("LineItems").Order("id DESC").Find(&prs).Error
	return prs, translate(err)
}

func (r *gormRequisitionRepo) LastNumber(ctx context.Context, factoryID uint, prefix string) (string, error) {
	var number string
	// Length before value: once a suffix widens past the default width
	// (e.g. -10000 after -9999) a plain lexicographic max would stick at
	// the shorter number forever.
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseRequisition{}).
		Where("factory_id = ? AND pr_number LIKE ?", factoryID, prefix+"%").
		Order("length(pr_number) DESC, pr_number DESC").
		Limit(1).
		Pluck("pr_number", &number).Error
	if err != nil {
		return "", translate(err)
	}
	return number, nil
}

type gormRFQRepo struct {
	db *gorm.DB
}

func (r *gormRFQRepo) Create(ctx context.Context, rfq *models.RFQ) error {
	return translate(r.db.WithContext(ctx).Create(rfq).Error)
}

func (r *gormRFQRepo) GetByID(ctx context.Context, id uint) (*models.RFQ, error) {
	var rfq models.RFQ
	err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("rfq_line_items.id") }).
		Preload("Invitations").
		Preload("Invitations.Vendor").
		First(&rfq, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rfq, nil
}

func (r *gormRFQRepo) Update(ctx context.Context, rfq *models.RFQ) error {
	return translate(r.db.WithContext(ctx).Omit("LineItems", "Invitations").Save(rfq).Error)
}

func (r *gormRFQRepo) ListByCompany(ctx context.Context, companyID uint) ([]models.RFQ, error) {
	var rfqs []models.RFQ
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("id DESC").
		Find(&rfqs).Error
	return rfqs, translate(err)
}

func (r *gormRFQRepo) ListSentPastDeadline(ctx context.Context, now time.Time) ([]models.RFQ, error) {
	var rfqs []models.RFQ
	err := r.db.WithContext(ctx).
		Where("status = ? AND submission_deadline < ?", models.RFQSent, now).
		Find(&rfqs).Error
	return rfqs, translate(err)
}

func (r *gormRFQRepo) GetInvitation(ctx context.Context, rfqID, vendorID uint) (*models.RFQVendorInvitation, error) {
	var inv models.RFQVendorInvitation
	err := r.db.WithContext(ctx).
		Where("rfq_id = ? AND vendor_id = ?", rfqID, vendorID).
		First(&inv).Error
	if err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}

func (r *gormRFQRepo) UpdateInvitation(ctx context.Context, inv *models.RFQVendorInvitation) error {
	return translate(r.db.WithContext(ctx).Omit("Vendor").Save(inv).Error)
}

func (r *gormRFQRepo) LastNumber(ctx context.Context, companyID uint, prefix string) (string, error) {
	var number string
	err := r.db.WithContext(ctx).
		Model(&models.RFQ{}).
		Where("company_id = ? AND rfq_number LIKE ?", companyID, prefix+"%").
		Order("length(rfq_number) DESC, rfq_number DESC").
		Limit(1).
		Pluck("rfq_number", &number).Error
	if err != nil {
		return "", translate(err)
	}
	return number, nil
}

type gormQuotationRepo struct {
	db *gorm.DB
}

func (r *gormQuotationRepo) Create(ctx context.Context, q *models.QuotationResponse) error {
	return translate(r.db.WithContext(ctx).Create(q).Error)
}

func (r *gormQuotationRepo) GetByID(ctx context.Context, id uint) (*models.QuotationResponse, error) {
	var resp models.QuotationResponse
	err := r.db.WithContext(ctx).
		Preload("Vendor").
		Preload("LineItems").
		First(&resp, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &resp, nil
}

func (r *gormQuotationRepo) FindByDedupKey(ctx context.Context, key models.QuotationDedupKey) (*models.QuotationResponse, error) {
	var resp models.QuotationResponse
	err := r.db.WithContext(ctx).
		Where("rfq_id = ? AND vendor_id = ? AND external_message_id = ?",
			key.RFQID, key.VendorID, key.ExternalMessageID).
		Order("created_at ASC").
		First(&resp).Error
	if err != nil {
		return nil, translate(err)
	}
	return &resp, nil
}

func (r *gormQuotationRepo) ListByCompany(ctx context.Context, companyID uint) ([]models.QuotationResponse, error) {
	var responses []models.QuotationResponse
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at ASC").
		Find(&responses).Error
	return responses, translate(err)
}

func (r *gormQuotationRepo) ListByRFQ(ctx context.Context, rfqID uint) ([]models.QuotationResponse, error) {
	var responses []models.QuotationResponse
	err := r.db.WithContext(ctx).
		Where("rfq_id = ?", rfqID).
		Preload("Vendor").
		Preload("LineItems").
		Find(&responses).Error
	return responses, translate(err)
}

func (r *gormQuotationRepo) ListPending(ctx context.Context, companyID uint) ([]models.QuotationResponse, error) {
	var responses []models.QuotationResponse
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND processing_status = ?", companyID, models.ProcessingPendingReview).
		Preload("Vendor").
		Order("received_at ASC").
		Find(&responses).Error
	return responses, translate(err)
}

func (r *gormQuotationRepo) Update(ctx context.Context, q *models.QuotationResponse) error {
	return translate(r.db.WithContext(ctx).Omit("Vendor", "LineItems").Save(q).Error)
}

func (r *gormQuotationRepo) DeleteByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Where("response_id IN ?", ids).
		Delete(&models.QuotationLineItem{}).Error; err != nil {
		return translate(err)
	}
	return translate(r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&models.QuotationResponse{}).Error)
}

type gormVendorRepo struct {
	db *gorm.DB
}

func (r *gormVendorRepo) Create(ctx context.Context, v *models.Vendor) error {
	return translate(r.db.WithContext(ctx).Create(v).Error)
}

func (r *gormVendorRepo) GetByID(ctx context.Context, id uint) (*models.Vendor, error) {
	var v models.Vendor
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (r *gormVendorRepo) GetByIDs(ctx context.Context, ids []uint) ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&vendors).Error
	return vendors, translate(err)
}

func (r *gormVendorRepo) ListByCompany(ctx context.Context, companyID uint) ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND is_active", companyID).
		Order("name").
		Find(&vendors).Error
	return vendors, translate(err)
}

func (r *gormVendorRepo) Update(ctx context.Context, v *models.Vendor) error {
	return translate(r.db.WithContext(ctx).Save(v).Error)
}

type gormMaterialRepo struct {
	db *gorm.DB
}

func (r *gormMaterialRepo) Create(ctx context.Context, m *models.Material) error {
	return translate(r.db.WithContext(ctx).Create(m).Error)
}

func (r *gormMaterialRepo) GetByID(ctx context.Context, id uint) (*models.Material, error) {
	var m models.Material
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *gormMaterialRepo) ListByCompany(ctx context.Context, companyID uint) ([]models.Material, error) {
	var materials []models.Material
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("item_code").
		Find(&materials).Error
	return materials, translate(err)
}

type gormDispatchLogRepo struct {
	db *gorm.DB
}

func (r *gormDispatchLogRepo) Append(ctx context.Context, entry *models.EmailDispatchLog) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}

func (r *gormDispatchLogRepo) ListByRFQ(ctx context.Context, rfqID uint) ([]models.EmailDispatchLog, error) {
	var logs []models.EmailDispatchLog
	err := r.db.WithContext(ctx).
		Where("rfq_id = ?", rfqID).
		Order("occurred_at ASC").
		Find(&logs).Error
	return logs, translate(err)
}

func (r *gormDispatchLogRepo) ListInboundByKey(ctx context.Context, key models.QuotationDedupKey) ([]models.EmailDispatchLog, error) {
	var logs []models.EmailDispatchLog
	err := r.db.WithContext(ctx).
		Where("rfq_id = ? AND vendor_id = ? AND external_message_id = ? AND direction = ?",
			key.RFQID, key.VendorID, key.ExternalMessageID, models.EmailInbound).
		Order("occurred_at ASC").
		Find(&logs).Error
	return logs, translate(err)
}

func (r *gormDispatchLogRepo) DeleteByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&models.EmailDispatchLog{}).Error)
}

type gormDecisionRepo struct {
	db *gorm.DB
}

func (r *gormDecisionRepo) CreateAll(ctx context.Context, decisions []models.ComparisonDecision) error {
	if len(decisions) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Create(&decisions).Error)
}

func (r *gormDecisionRepo) ListByRFQ(ctx context.Context, rfqID uint) ([]models.ComparisonDecision, error) {
	var decisions []models.ComparisonDecision
	err := r.db.WithContext(ctx).
		Where("rfq_id = ?", rfqID).
		Order("id").
		Find(&decisions).Error
	return decisions, translate(err)
}

type gormNotificationRepo struct {
	db *gorm.DB
}

func (r *gormNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	return translate(r.db.WithContext(ctx).Create(n).Error)
}

func (r *gormNotificationRepo) ListByUser(ctx context.Context, userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(100).
		Find(&notifications).Error
	return notifications, translate(err)
}

func (r *gormNotificationRepo) MarkRead(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("status", "read")
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type gormTemplateRepo struct {
	db *gorm.DB
}

func (r *gormTemplateRepo) GetByID(ctx context.Context, id uint) (*models.EmailTemplate, error) {
	var t models.EmailTemplate
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *gormTemplateRepo) GetDefault(ctx context.Context, templateType string) (*models.EmailTemplate, error) {
	var t models.EmailTemplate
	err := r.db.WithContext(ctx).
		Where("template_type = ? AND is_default AND is_active", templateType).
		First(&t).Error
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

type gormUserRepo struct {
	db *gorm.DB
}

func (r *gormUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Table("users").First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *gormUserRepo) ListByRole(ctx context.Context, companyID uint, role models.UserRole) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Table("users").
		Where("company_id = ? AND role = ? AND NOT suspended", companyID, role).
		Find(&users).Error
	return users, translate(err)
}

type gormScopeRepo struct {
	db *gorm.DB
}

// LockFactory takes a FOR UPDATE lock on the factory row. Inside a unit of
// work this serializes PR number allocation for the factory.
func (r *gormScopeRepo) LockFactory(ctx context.Context, id uint) (*models.Factory, error) {
	var f models.Factory
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&f, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

// LockCompany takes a FOR UPDATE lock on the company row, serializing RFQ
// number allocation for the company.
func (r *gormScopeRepo) LockCompany(ctx context.Context, id uint) (*models.Company, error) {
	var c models.Company
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&c, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *gormScopeRepo) GetFactory(ctx context.Context, id uint) (*models.Factory, error) {
	var f models.Factory
	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (r *gormScopeRepo) GetCompany(ctx context.Context, id uint) (*models.Company, error) {
	var c models.Company
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *gormScopeRepo) ListCompanies(ctx context.Context) ([]models.Company, error) {
	var companies []models.Company
	err := r.db.WithContext(ctx).Order("id").Find(&companies).Error
	return companies, translate(err)
}
