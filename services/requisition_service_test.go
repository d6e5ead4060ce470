package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/models"
)

// requisitionEnv bundles the lifecycle service with seeded master data.
type requisitionEnv struct {
	store       *fakeStore
	svc         *RequisitionService
	company     models.Company
	factory     models.Factory
	material    models.Material
	requestor   *models.User
	approver    *models.User
	procurement *models.User
	clock       time.Time
}

func newRequisitionEnv(t *testing.T) *requisitionEnv {
	t.Helper()
	store := newFakeStore()
	company := store.seedCompany("acme")
	env := &requisitionEnv{
		store:       store,
		company:     company,
		factory:     store.seedFactory(company.ID, "plant-a"),
		material:    store.seedMaterial(company.ID, "CEM-53", "bag"),
		requestor:   store.seedUser(company.ID, models.RoleRequestor),
		approver:    store.seedUser(company.ID, models.RoleApprover),
		procurement: store.seedUser(company.ID, models.RoleProcurement),
		clock:       time.Date(2025, time.September, 12, 10, 0, 0, 0, time.UTC),
	}

	uow := &fakeUnitOfWork{store: store}
	sequences := NewSequenceServiceAt(func() time.Time { return env.clock })
	env.svc = NewRequisitionService(uow, sequences, NewPolicy(), NewNotificationService())
	env.svc.now = func() time.Time { return env.clock }
	return env
}

func (e *requisitionEnv) request(items ...models.RequisitionItemInput) models.RequisitionRequest {
	return models.RequisitionRequest{
		CompanyID:    e.company.ID,
		DivisionID:   1,
		DepartmentID: 1,
		FactoryID:    e.factory.ID,
		RequiredBy:   "2025-10-01",
		Items:        items,
	}
}

func (e *requisitionEnv) item(quantity float64) models.RequisitionItemInput {
	return models.RequisitionItemInput{
		MaterialID:   e.material.ID,
		ItemCode:     e.material.ItemCode,
		Quantity:     quantity,
		RequiredDate: "2025-10-01",
	}
}

func (e *requisitionEnv) approvedPR(t *testing.T) *models.PurchaseRequisition {
	t.Helper()
	ctx := context.Background()
	pr, err := e.svc.Create(ctx, e.requestor, e.request(e.item(100)))
	require.NoError(t, err)
	_, err = e.svc.Submit(ctx, e.requestor, pr.ID)
	require.NoError(t, err)
	pr, err = e.svc.Decide(ctx, e.approver, pr.ID, true, "")
	require.NoError(t, err)
	return pr
}

func TestCreateRequisitionAllocatesNumberInDraft(t *testing.T) {
	env := newRequisitionEnv(t)

	pr, err := env.svc.Create(context.Background(), env.requestor, env.request(env.item(50)))
	require.NoError(t, err)

	assert.Equal(t, "PR-202509-0001", pr.PRNumber)
	assert.Equal(t, models.RequisitionDraft, pr.Status)
	assert.Equal(t, models.PriorityMedium, pr.Priority)
	assert.Equal(t, env.requestor.ID, pr.RequestedBy)
	require.Len(t, pr.LineItems, 1)
	assert.Equal(t, "bag", pr.LineItems[0].Unit, "unit defaults from the material master")
}

func TestCreateRequisitionRejectsNonPositiveQuantity(t *testing.T) {
	env := newRequisitionEnv(t)

	_, err := env.svc.Create(context.Background(), env.requestor, env.request(env.item(0)))
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "items[0].quantity", validation.Field)
}

func TestCreateRequisitionRejectsUnknownMaterial(t *testing.T) {
	env := newRequisitionEnv(t)
	input := env.item(10)
	input.MaterialID = 999

	_, err := env.svc.Create(context.Background(), env.requestor, env.request(input))
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "material", notFound.Entity)
}

func TestUpdateRequisitionOnlyWhileDraft(t *testing.T) {
	env := newRequisitionEnv(t)
	ctx := context.Background()

	pr, err := env.svc.Create(ctx, env.requestor, env.request(env.item(50)))
	require.NoError(t, err)

	updated, err := env.svc.Update(ctx, env.requestor, pr.ID, env.request(env.item(75)))
	require.NoError(t, err)
	require.Len(t, updated.LineItems, 1)
	assert.Equal(t, 75.0, updated.LineItems[0].Quantity)

	_, err = env.svc.Submit(ctx, env.requestor, pr.ID)
	require.NoError(t, err)

	_, err = env.svc.Update(ctx, env.requestor, pr.ID, env.request(env.item(80)))
	var transition *StateTransitionError
	require.ErrorAs(t, err, &transition)
	assert.Equal(t, "submitted", transition.From)
}

func TestSubmitRequiresLineItems(t *testing.T) {
	env := newRequisitionEnv(t)
	ctx := context.Background()

	pr, err := env.svc.Create(ctx, env.requestor, env.request())
	require.NoError(t, err)

	_, err = env.svc.Submit(ctx, env.requestor, pr.ID)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "items", validation.Field)
}

func TestSubmitRejectsPastRequiredBy(t *testing.T) {
	env := newRequisitionEnv(t)
	ctx := context.Background()

	pr, err := env.svc.Create(ctx, env.requestor, env.request(env.item(10)))
	require.NoError(t, err)

	// the clock overtakes the required-by date before submission
	env.clock = time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)
	_, err = env.svc.Submit(ctx, env.requestor, pr.ID)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "required_by", validation.Field)
}

func TestSubmitNotifiesApprovers(t *testing.T) {
	env := newRequisitionEnv(t)
	ctx := context.Background()

	pr, err := env.svc.Create(ctx, env.requestor, env.request(env.item(10)))
	require.NoError(t, err)
	submitted, err := env.svc.Submit(ctx, env.requestor, pr.ID)
	require.NoError(t, err)

	assert.Equal(t, models.RequisitionSubmitted, submitted.Status)
	require.NotNil(t, submitted.SubmittedAt)

	notifications, err := env.store.Notifications().ListByUser(ctx, env.approver.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Contains(t, notifications[0].Message, pr.PRNumber)
}

func TestDecideApproveAndReject(t *testing.T) {
	env := newRequisitionEnv(t)
	ctx := context.Background()

	pr, err := env.svc.Create(ctx, env.requestor, env.request(env.item(10)))
	require.NoError(t, err)
	_, err = env.svc.Submit(ctx, env.requestor, pr.ID)
	require.NoError(t, err)

	decided, err := env.svc.Decide(ctx, env.approver, pr.ID, true, "")
	require.NoError(t, err)
	assert.Equal(t, models.RequisitionApproved, decided.Status)
	require.NotNil(t, decided.DecidedBy)
	assert.Equal(t, env.approver.ID, *decided.DecidedBy)

	// approved is terminal for decisions
	_, err = env.svc.Decide(ctx, env.approver, pr.ID, false, "too expensive")
	var transition *StateTransitionError
	require.ErrorAs(t, err, &transition)
}

func TestRejectRequiresReason(t *testing.T) {
	env := newRequisitionEnv(t)
	ctx := context.Background()

	pr, err := env.svc.Create(ctx, env.requestor, env.request(env.item(10)))
	require.NoError(t, err)
	_, err = env.svc.Submit(ctx, env.requestor, pr.ID)
	require.NoError(t, err)

	_, err = env.svc.Decide(ctx, env.approver, pr.ID, false, "")
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "reason", validation.Field)

	rejected, err := env.svc.Decide(ctx, env.approver, pr.ID, false, "budget exhausted")
	require.NoError(t, err)
	assert.Equal(t, models.RequisitionRejected, rejected.Status)
	assert.Equal(t, "budget exhausted", rejected.RejectionReason)
}

func TestApproverCannotDecideOwnRequisition(t *testing.T) {
	env := newRequisitionEnv(t)
	ctx := context.Background()

	pr, err := env.svc.Create(ctx, env.approver, env.request(env.item(10)))
	require.NoError(t, err)
	_, err = env.svc.Submit(ctx, env.approver, pr.ID)
	require.NoError(t, err)

	_, err = env.svc.Decide(ctx, env.approver, pr.ID, true, "")
	var forbidden *ForbiddenError
	require.ErrorAs(t, err, &forbidden)
}

func TestRequestorCannotDecide(t *testing.T) {
	env := newRequisitionEnv(t)
	ctx := context.Background()

	pr, err := env.svc.Create(ctx, env.requestor, env.request(env.item(10)))
	require.NoError(t, err)
	_, err = env.svc.Submit(ctx, env.requestor, pr.ID)
	require.NoError(t, err)

	_, err = env.svc.Decide(ctx, env.requestor, pr.ID, true, "")
	var forbidden *ForbiddenError
	require.ErrorAs(t, err, &forbidden)
}

func TestConvertToRFQCopiesItemsAndInvitesVendors(t *testing.T) {
	env := newRequisitionEnv(t)
	ctx := context.Background()
	pr := env.approvedPR(t)
	vendorA := env.store.seedVendor(env.company.ID, "steel co", "steel@example.com")
	vendorB := env.store.seedVendor(env.company.ID, "cement co", "cement@example.com")

	rfq, err := env.svc.ConvertToRFQ(ctx, env.procurement, pr.ID, models.ConvertToRFQRequest{
		VendorIDs:          []uint{vendorA.ID, vendorB.ID},
		SubmissionDeadline: "2025-09-30",
		PaymentTerms:       "Net 30",
	})
	require.NoError(t, err)

	assert.Equal(t, "RFQ-2025-0001", rfq.RFQNumber)
	assert.Equal(t, models.RFQOpen, rfq.Status)
	require.NotNil(t, rfq.RequisitionID)
	assert.Equal(t, pr.ID, *rfq.RequisitionID)
	require.Len(t, rfq.LineItems, 1)
	assert.Equal(t, pr.LineItems[0].ItemCode, rfq.LineItems[0].ItemCode)
	assert.Equal(t, pr.LineItems[0].Quantity, rfq.LineItems[0].Quantity)

	stored, err := env.store.RFQs().GetByID(ctx, rfq.ID)
	require.NoError(t, err)
	require.Len(t, stored.Invitations, 2)
	for _, inv := range stored.Invitations {
		assert.False(t, inv.EmailSent)
		assert.False(t, inv.ResponseReceived)
	}

	reloaded, err := env.svc.Get(ctx, env.procurement, pr.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequisitionConverted, reloaded.Status)
	require.NotNil(t, reloaded.ConvertedRFQID)
	assert.Equal(t, rfq.ID, *reloaded.ConvertedRFQID)
}

func TestConvertToRFQCopyIsIndependent(t *testing.T) {
	env := newRequisitionEnv(t)
	ctx := context.Background()
	pr := env.approvedPR(t)
	vendor := env.store.seedVendor(env.company.ID, "steel co", "steel@example.com")

	rfq, err := env.svc.ConvertToRFQ(ctx, env.procurement, pr.ID, models.ConvertToRFQRequest{
		VendorIDs:          []uint{vendor.ID},
		SubmissionDeadline: "2025-09-30",
	})
	require.NoError(t, err)

	// mutating the RFQ copy must not leak back into the PR
	stored, err := env.store.RFQs().GetByID(ctx, rfq.ID)
	require.NoError(t, err)
	stored.LineItems[0].Quantity = 1
	require.NoError(t, env.store.RFQs().Update(ctx, stored))

	reloaded, err := env.svc.Get(ctx, env.procurement, pr.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, reloaded.LineItems[0].Quantity)
}

func TestConvertToRFQRollsBackOnUnknownVendor(t *testing.T) {
	env := newRequisitionEnv(t)
	ctx := context.Background()
	pr := env.approvedPR(t)
	vendor := env.store.seedVendor(env.company.ID, "steel co", "steel@example.com")

	_, err := env.svc.ConvertToRFQ(ctx, env.procurement, pr.ID, models.ConvertToRFQRequest{
		VendorIDs:          []uint{vendor.ID, 999},
		SubmissionDeadline: "2025-09-30",
	})
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "vendor", notFound.Entity)

	// the whole conversion rolled back: PR untouched, no RFQ rows
	reloaded, err := env.svc.Get(ctx, env.procurement, pr.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequisitionApproved, reloaded.Status)
	assert.Nil(t, reloaded.ConvertedRFQID)
	assert.Empty(t, env.store.rfqs)
}

func TestConvertToRFQRequiresProcurementRole(t *testing.T) {
	env := newRequisitionEnv(t)
	pr := env.approvedPR(t)
	vendor := env.store.seedVendor(env.company.ID, "steel co", "steel@example.com")

	_, err := env.svc.ConvertToRFQ(context.Background(), env.requestor, pr.ID, models.ConvertToRFQRequest{
		VendorIDs:          []uint{vendor.ID},
		SubmissionDeadline: "2025-09-30",
	})
	var forbidden *ForbiddenError
	require.ErrorAs(t, err, &forbidden)
}

func TestGetHidesOtherCompanies(t *testing.T) {
	env := newRequisitionEnv(t)
	ctx := context.Background()

	pr, err := env.svc.Create(ctx, env.requestor, env.request(env.item(10)))
	require.NoError(t, err)

	other := env.store.seedCompany("rival")
	outsider := env.store.seedUser(other.ID, models.RoleAdmin)

	_, err = env.svc.Get(ctx, outsider, pr.ID)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestListFiltersByStatus(t *testing.T) {
	env := newRequisitionEnv(t)
	ctx := context.Background()

	draft, err := env.svc.Create(ctx, env.requestor, env.request(env.item(10)))
	require.NoError(t, err)
	submitted, err := env.svc.Create(ctx, env.requestor, env.request(env.item(20)))
	require.NoError(t, err)
	_, err = env.svc.Submit(ctx, env.requestor, submitted.ID)
	require.NoError(t, err)

	all, err := env.svc.List(ctx, env.requestor, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	drafts, err := env.svc.List(ctx, env.requestor, models.RequisitionDraft)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, draft.ID, drafts[0].ID)
}
