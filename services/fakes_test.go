package services

import (
	"context"
	"maps"
	"sort"
	"strings"
	"time"

	"backend/models"
	"backend/repository"
)

// fakeStore is an in-memory repository.Store. Reads hand out copies and
// writes replace whole values, so mutations only land through the repository
// methods, mirroring how the GORM store behaves.
type fakeStore struct {
	requisitions  map[uint]models.PurchaseRequisition
	rfqs          map[uint]models.RFQ
	invitations   map[uint]models.RFQVendorInvitation
	quotations    map[uint]models.QuotationResponse
	vendors       map[uint]models.Vendor
	materials     map[uint]models.Material
	logs          map[uint]models.EmailDispatchLog
	templates     map[uint]models.EmailTemplate
	users         map[uint]models.User
	companies     map[uint]models.Company
	factories     map[uint]models.Factory
	decisions     []models.ComparisonDecision
	notifications []models.Notification
	lastID        uint

	// failQuotationDelete injects a delete failure for specific response
	// ids, to exercise partial-failure paths.
	failQuotationDelete map[uint]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		requisitions: map[uint]models.PurchaseRequisition{},
		rfqs:         map[uint]models.RFQ{},
		invitations:  map[uint]models.RFQVendorInvitation{},
		quotations:   map[uint]models.QuotationResponse{},
		vendors:      map[uint]models.Vendor{},
		materials:    map[uint]models.Material{},
		logs:         map[uint]models.EmailDispatchLog{},
		templates:    map[uint]models.EmailTemplate{},
		users:        map[uint]models.User{},
		companies:    map[uint]models.Company{},
		factories:    map[uint]models.Factory{},
	}
}

func (s *fakeStore) id() uint {
	s.lastID++
	return s.lastID
}

func (s *fakeStore) Requisitions() repository.RequisitionRepository { return &fakeRequisitionRepo{s} }
func (s *fakeStore) RFQs() repository.RFQRepository                 { return &fakeRFQRepo{s} }
func (s *fakeStore) Quotations() repository.QuotationRepository     { return &fakeQuotationRepo{s} }
func (s *fakeStore) Vendors() repository.VendorRepository           { return &fakeVendorRepo{s} }
func (s *fakeStore) Materials() repository.MaterialRepository       { return &fakeMaterialRepo{s} }
func (s *fakeStore) DispatchLogs() repository.DispatchLogRepository { return &fakeDispatchLogRepo{s} }
func (s *fakeStore) Decisions() repository.DecisionRepository       { return &fakeDecisionRepo{s} }
func (s *fakeStore) Notifications() repository.NotificationRepository {
	return &fakeNotificationRepo{s}
}
func (s *fakeStore) Templates() repository.TemplateRepository { return &fakeTemplateRepo{s} }
func (s *fakeStore) Users() repository.UserRepository         { return &fakeUserRepo{s} }
func (s *fakeStore) Scopes() repository.ScopeRepository       { return &fakeScopeRepo{s} }

// snapshot captures the store state so the unit of work can roll back.
type fakeSnapshot struct {
	requisitions  map[uint]models.PurchaseRequisition
	rfqs          map[uint]models.RFQ
	invitations   map[uint]models.RFQVendorInvitation
	quotations    map[uint]models.QuotationResponse
	vendors       map[uint]models.Vendor
	materials     map[uint]models.Material
	logs          map[uint]models.EmailDispatchLog
	decisions     []models.ComparisonDecision
	notifications []models.Notification
	lastID        uint
}

func (s *fakeStore) snapshot() fakeSnapshot {
	return fakeSnapshot{
		requisitions:  maps.Clone(s.requisitions),
		rfqs:          maps.Clone(s.rfqs),
		invitations:   maps.Clone(s.invitations),
		quotations:    maps.Clone(s.quotations),
		vendors:       maps.Clone(s.vendors),
		materials:     maps.Clone(s.materials),
		logs:          maps.Clone(s.logs),
		decisions:     append([]models.ComparisonDecision(nil), s.decisions...),
		notifications: append([]models.Notification(nil), s.notifications...),
		lastID:        s.lastID,
	}
}

func (s *fakeStore) restore(snap fakeSnapshot) {
	s.requisitions = snap.requisitions
	s.rfqs = snap.rfqs
	s.invitations = snap.invitations
	s.quotations = snap.quotations
	s.vendors = snap.vendors
	s.materials = snap.materials
	s.logs = snap.logs
	s.decisions = snap.decisions
	s.notifications = snap.notifications
	s.lastID = snap.lastID
}

// fakeUnitOfWork rolls the store back when fn fails, like a real transaction.
type fakeUnitOfWork struct {
	store *fakeStore
}

func (u *fakeUnitOfWork) Do(ctx context.Context, fn func(repository.Store) error) error {
	snap := u.store.snapshot()
	if err := fn(u.store); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}

func (u *fakeUnitOfWork) Store() repository.Store { return u.store }

// seeding helpers

func (s *fakeStore) seedCompany(name string) models.Company {
	c := models.Company{ID: s.id(), Name: name, Code: strings.ToUpper(name)}
	s.companies[c.ID] = c
	return c
}

func (s *fakeStore) seedFactory(companyID uint, name string) models.Factory {
	f := models.Factory{ID: s.id(), CompanyID: companyID, Name: name, Code: strings.ToUpper(name)}
	s.factories[f.ID] = f
	return f
}

func (s *fakeStore) seedVendor(companyID uint, name, email string) models.Vendor {
	v := models.Vendor{ID: s.id(), CompanyID: companyID, Name: name, Email: email, IsActive: true}
	s.vendors[v.ID] = v
	return v
}

func (s *fakeStore) seedMaterial(companyID uint, itemCode, unit string) models.Material {
	m := models.Material{ID: s.id(), CompanyID: companyID, ItemCode: itemCode, Name: itemCode, Unit: unit}
	s.materials[m.ID] = m
	return m
}

func (s *fakeStore) seedUser(companyID uint, role models.UserRole) *models.User {
	u := models.User{ID: s.id(), CompanyID: companyID, Role: role, Email: string(role) + "@example.com"}
	s.users[u.ID] = u
	return &u
}

// requisitions

type fakeRequisitionRepo struct{ s *fakeStore }

func clonePR(pr models.PurchaseRequisition) models.PurchaseRequisition {
	pr.LineItems = append([]models.RequisitionLineItem(nil), pr.LineItems...)
	return pr
}

func (r *fakeRequisitionRepo) Create(ctx context.Context, pr *models.PurchaseRequisition) error {
	for _, existing := range r.s.requisitions {
		if existing.FactoryID == pr.FactoryID && existing.PRNumber == pr.PRNumber {
			return repository.ErrDuplicateKey
		}
	}
	pr.ID = r.s.id()
	if pr.CreatedAt.IsZero() {
		pr.CreatedAt = time.Now()
	}
	for i := range pr.LineItems {
		pr.LineItems[i].ID = r.s.id()
		pr.LineItems[i].RequisitionID = pr.ID
	}
	r.s.requisitions[pr.ID] = clonePR(*pr)
	return nil
}

func (r *fakeRequisitionRepo) GetByID(ctx context.Context, id uint) (*models.PurchaseRequisition, error) {
	pr, ok := r.s.requisitions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := clonePR(pr)
	return &copied, nil
}

func (r *fakeRequisitionRepo) Update(ctx context.Context, pr *models.PurchaseRequisition) error {
	if _, ok := r.s.requisitions[pr.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.requisitions[pr.ID] = clonePR(*pr)
	return nil
}

func (r *fakeRequisitionRepo) ReplaceLineItems(ctx context.Context, prID uint, items []models.RequisitionLineItem) error {
	pr, ok := r.s.requisitions[prID]
	if !ok {
		return repository.ErrNotFound
	}
	pr.LineItems = nil
	for _, item := range items {
		item.ID = r.s.id()
		item.RequisitionID = prID
		pr.LineItems = append(pr.LineItems, item)
	}
	r.s.requisitions[prID] = pr
	return nil
}

func (r *fakeRequisitionRepo) ListByCompany(ctx context.Context, companyID uint, status models.RequisitionStatus) ([]models.PurchaseRequisition, error) {
	var out []models.PurchaseRequisition
	for _, pr := range r.s.requisitions {
		if pr.CompanyID != companyID {
			continue
		}
		if status != "" && pr.Status != status {
			continue
		}
		out = append(out, clonePR(pr))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRequisitionRepo) LastNumber(ctx context.Context, factoryID uint, prefix string) (string, error) {
	last := ""
	for _, pr := range r.s.requisitions {
		if pr.FactoryID == factoryID && strings.HasPrefix(pr.PRNumber, prefix) && numberAfter(pr.PRNumber, last) {
			last = pr.PRNumber
		}
	}
	return last, nil
}

// numberAfter mirrors the length-aware ORDER BY of the GORM stores: a
// widened suffix (-10000) outranks any shorter one (-9999).
func numberAfter(candidate, current string) bool {
	if len(candidate) != len(current) {
		return len(candidate) > len(current)
	}
	return candidate > current
}

// rfqs

type fakeRFQRepo struct{ s *fakeStore }

func (r *fakeRFQRepo) cloneWithRelations(rfq models.RFQ) models.RFQ {
	rfq.LineItems = append([]models.RFQLineItem(nil), rfq.LineItems...)
	rfq.Invitations = nil
	for _, inv := range r.s.invitations {
		if inv.RFQID == rfq.ID {
			inv.Vendor = r.s.vendors[inv.VendorID]
			rfq.Invitations = append(rfq.Invitations, inv)
		}
	}
	sort.Slice(rfq.Invitations, func(i, j int) bool { return rfq.Invitations[i].ID < rfq.Invitations[j].ID })
	return rfq
}

func (r *fakeRFQRepo) Create(ctx context.Context, rfq *models.RFQ) error {
	for _, existing := range r.s.rfqs {
		if existing.CompanyID == rfq.CompanyID && existing.RFQNumber == rfq.RFQNumber {
			return repository.ErrDuplicateKey
		}
	}
	rfq.ID = r.s.id()
	if rfq.CreatedAt.IsZero() {
		rfq.CreatedAt = time.Now()
	}
	for i := range rfq.LineItems {
		rfq.LineItems[i].ID = r.s.id()
		rfq.LineItems[i].RFQID = rfq.ID
	}
	for i := range rfq.Invitations {
		rfq.Invitations[i].ID = r.s.id()
		rfq.Invitations[i].RFQID = rfq.ID
		r.s.invitations[rfq.Invitations[i].ID] = rfq.Invitations[i]
	}
	stored := *rfq
	stored.LineItems = append([]models.RFQLineItem(nil), rfq.LineItems...)
	stored.Invitations = nil
	r.s.rfqs[rfq.ID] = stored
	return nil
}

func (r *fakeRFQRepo) GetByID(ctx context.Context, id uint) (*models.RFQ, error) {
	rfq, ok := r.s.rfqs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := r.cloneWithRelations(rfq)
	return &copied, nil
}

func (r *fakeRFQRepo) Update(ctx context.Context, rfq *models.RFQ) error {
	if _, ok := r.s.rfqs[rfq.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *rfq
	stored.LineItems = append([]models.RFQLineItem(nil), rfq.LineItems...)
	stored.Invitations = nil
	r.s.rfqs[rfq.ID] = stored
	return nil
}

func (r *fakeRFQRepo) ListByCompany(ctx context.Context, companyID uint) ([]models.RFQ, error) {
	var out []models.RFQ
	for _, rfq := range r.s.rfqs {
		if rfq.CompanyID == companyID {
			out = append(out, r.cloneWithRelations(rfq))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRFQRepo) ListSentPastDeadline(ctx context.Context, now time.Time) ([]models.RFQ, error) {
	var out []models.RFQ
	for _, rfq := range r.s.rfqs {
		if rfq.Status == models.RFQSent && rfq.SubmissionDeadline.Before(now) {
			out = append(out, r.cloneWithRelations(rfq))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRFQRepo) GetInvitation(ctx context.Context, rfqID, vendorID uint) (*models.RFQVendorInvitation, error) {
	for _, inv := range r.s.invitations {
		if inv.RFQID == rfqID && inv.VendorID == vendorID {
			copied := inv
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeRFQRepo) UpdateInvitation(ctx context.Context, inv *models.RFQVendorInvitation) error {
	if _, ok := r.s.invitations[inv.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *inv
	stored.Vendor = models.Vendor{}
	r.s.invitations[inv.ID] = stored
	return nil
}

func (r *fakeRFQRepo) LastNumber(ctx context.Context, companyID uint, prefix string) (string, error) {
	last := ""
	for _, rfq := range r.s.rfqs {
		if rfq.CompanyID == companyID && strings.HasPrefix(rfq.RFQNumber, prefix) && numberAfter(rfq.RFQNumber, last) {
			last = rfq.RFQNumber
		}
	}
	return last, nil
}

// quotations

type fakeQuotationRepo struct{ s *fakeStore }

func cloneQuotation(q models.QuotationResponse) models.QuotationResponse {
	q.LineItems = append([]models.QuotationLineItem(nil), q.LineItems...)
	return q
}

func (r *fakeQuotationRepo) Create(ctx context.Context, q *models.QuotationResponse) error {
	q.ID = r.s.id()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}
	for i := range q.LineItems {
		q.LineItems[i].ID = r.s.id()
		q.LineItems[i].ResponseID = q.ID
	}
	r.s.quotations[q.ID] = cloneQuotation(*q)
	return nil
}

func (r *fakeQuotationRepo) GetByID(ctx context.Context, id uint) (*models.QuotationResponse, error) {
	q, ok := r.s.quotations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := cloneQuotation(q)
	return &copied, nil
}

func (r *fakeQuotationRepo) FindByDedupKey(ctx context.Context, key models.QuotationDedupKey) (*models.QuotationResponse, error) {
	var found *models.QuotationResponse
	for _, q := range r.s.quotations {
		if q.DedupKey() != key {
			continue
		}
		candidate := cloneQuotation(q)
		if found == nil ||
			candidate.CreatedAt.Before(found.CreatedAt) ||
			(candidate.CreatedAt.Equal(found.CreatedAt) && candidate.ID < found.ID) {
			found = &candidate
		}
	}
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r *fakeQuotationRepo) ListByCompany(ctx context.Context, companyID uint) ([]models.QuotationResponse, error) {
	var out []models.QuotationResponse
	for _, q := range r.s.quotations {
		if q.CompanyID == companyID {
			q.LineItems = nil
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeQuotationRepo) ListByRFQ(ctx context.Context, rfqID uint) ([]models.QuotationResponse, error) {
	var out []models.QuotationResponse
	for _, q := range r.s.quotations {
		if q.RFQID == rfqID {
			copied := cloneQuotation(q)
			copied.Vendor = r.s.vendors[q.VendorID]
			out = append(out, copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeQuotationRepo) ListPending(ctx context.Context, companyID uint) ([]models.QuotationResponse, error) {
	var out []models.QuotationResponse
	for _, q := range r.s.quotations {
		if q.CompanyID == companyID && q.ProcessingStatus == models.ProcessingPendingReview {
			out = append(out, cloneQuotation(q))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeQuotationRepo) Update(ctx context.Context, q *models.QuotationResponse) error {
	if _, ok := r.s.quotations[q.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.quotations[q.ID] = cloneQuotation(*q)
	return nil
}

func (r *fakeQuotationRepo) DeleteByIDs(ctx context.Context, ids []uint) error {
	for _, id := range ids {
		if err := r.s.failQuotationDelete[id]; err != nil {
			return err
		}
		delete(r.s.quotations, id)
	}
	return nil
}

// master data

type fakeVendorRepo struct{ s *fakeStore }

func (r *fakeVendorRepo) Create(ctx context.Context, v *models.Vendor) error {
	v.ID = r.s.id()
	r.s.vendors[v.ID] = *v
	return nil
}

func (r *fakeVendorRepo) GetByID(ctx context.Context, id uint) (*models.Vendor, error) {
	v, ok := r.s.vendors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &v, nil
}

func (r *fakeVendorRepo) GetByIDs(ctx context.Context, ids []uint) ([]models.Vendor, error) {
	var out []models.Vendor
	for _, id := range ids {
		if v, ok := r.s.vendors[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVendorRepo) ListByCompany(ctx context.Context, companyID uint) ([]models.Vendor, error) {
	var out []models.Vendor
	for _, v := range r.s.vendors {
		if v.CompanyID == companyID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeVendorRepo) Update(ctx context.Context, v *models.Vendor) error {
	if _, ok := r.s.vendors[v.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.vendors[v.ID] = *v
	return nil
}

type fakeMaterialRepo struct{ s *fakeStore }

func (r *fakeMaterialRepo) Create(ctx context.Context, m *models.Material) error {
	m.ID = r.s.id()
	r.s.materials[m.ID] = *m
	return nil
}

func (r *fakeMaterialRepo) GetByID(ctx context.Context, id uint) (*models.Material, error) {
	m, ok := r.s.materials[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r *fakeMaterialRepo) ListByCompany(ctx context.Context, companyID uint) ([]models.Material, error) {
	var out []models.Material
	for _, m := range r.s.materials {
		if m.CompanyID == companyID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// dispatch logs

type fakeDispatchLogRepo struct{ s *fakeStore }

func (r *fakeDispatchLogRepo) Append(ctx context.Context, entry *models.EmailDispatchLog) error {
	entry.ID = r.s.id()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	r.s.logs[entry.ID] = *entry
	return nil
}

func (r *fakeDispatchLogRepo) ListByRFQ(ctx context.Context, rfqID uint) ([]models.EmailDispatchLog, error) {
	var out []models.EmailDispatchLog
	for _, entry := range r.s.logs {
		if entry.RFQID == rfqID {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeDispatchLogRepo) ListInboundByKey(ctx context.Context, key models.QuotationDedupKey) ([]models.EmailDispatchLog, error) {
	var out []models.EmailDispatchLog
	for _, entry := range r.s.logs {
		if entry.Direction == models.EmailInbound &&
			entry.RFQID == key.RFQID &&
			entry.VendorID == key.VendorID &&
			entry.ExternalMessageID == key.ExternalMessageID {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.Before(out[j].OccurredAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeDispatchLogRepo) DeleteByIDs(ctx context.Context, ids []uint) error {
	for _, id := range ids {
		delete(r.s.logs, id)
	}
	return nil
}

// decisions

type fakeDecisionRepo struct{ s *fakeStore }

func (r *fakeDecisionRepo) CreateAll(ctx context.Context, decisions []models.ComparisonDecision) error {
	for _, d := range decisions {
		d.ID = r.s.id()
		r.s.decisions = append(r.s.decisions, d)
	}
	return nil
}

func (r *fakeDecisionRepo) ListByRFQ(ctx context.Context, rfqID uint) ([]models.ComparisonDecision, error) {
	var out []models.ComparisonDecision
	for _, d := range r.s.decisions {
		if d.RFQID == rfqID {
			out = append(out, d)
		}
	}
	return out, nil
}

// notifications

type fakeNotificationRepo struct{ s *fakeStore }

func (r *fakeNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	n.ID = r.s.id()
	r.s.notifications = append(r.s.notifications, *n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID uint) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id uint) error {
	for i := range r.s.notifications {
		if r.s.notifications[i].ID == id {
			r.s.notifications[i].Status = "read"
			return nil
		}
	}
	return repository.ErrNotFound
}

// templates

type fakeTemplateRepo struct{ s *fakeStore }

func (r *fakeTemplateRepo) GetByID(ctx context.Context, id uint) (*models.EmailTemplate, error) {
	t, ok := r.s.templates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *fakeTemplateRepo) GetDefault(ctx context.Context, templateType string) (*models.EmailTemplate, error) {
	for _, t := range r.s.templates {
		if t.TemplateType == templateType && t.IsDefault && t.IsActive {
			copied := t
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

// users

type fakeUserRepo struct{ s *fakeStore }

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) ListByRole(ctx context.Context, companyID uint, role models.UserRole) ([]models.User, error) {
	var out []models.User
	for _, u := range r.s.users {
		if u.CompanyID == companyID && u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// scopes

type fakeScopeRepo struct{ s *fakeStore }

func (r *fakeScopeRepo) LockFactory(ctx context.Context, id uint) (*models.Factory, error) {
	return r.GetFactory(ctx, id)
}

func (r *fakeScopeRepo) LockCompany(ctx context.Context, id uint) (*models.Company, error) {
	return r.GetCompany(ctx, id)
}

func (r *fakeScopeRepo) GetFactory(ctx context.Context, id uint) (*models.Factory, error) {
	f, ok := r.s.factories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &f, nil
}

func (r *fakeScopeRepo) GetCompany(ctx context.Context, id uint) (*models.Company, error) {
	c, ok := r.s.companies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *fakeScopeRepo) ListCompanies(ctx context.Context) ([]models.Company, error) {
	var out []models.Company
	for _, c := range r.s.companies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
