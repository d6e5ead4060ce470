package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/models"
)

// TestProcurementWorkflowEndToEnd walks one requisition through the whole
// pipeline: draft, approval, conversion, dispatch, inbound quotations with a
// duplicate resend, closing, comparison and selection.
func TestProcurementWorkflowEndToEnd(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	uow := &fakeUnitOfWork{store: store}
	policy := NewPolicy()
	clock := time.Date(2025, time.September, 12, 9, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }

	company := store.seedCompany("acme")
	factory := store.seedFactory(company.ID, "plant-a")
	cement := store.seedMaterial(company.ID, "CEM-53", "bag")
	steel := store.seedMaterial(company.ID, "STL-10", "ton")
	requestor := store.seedUser(company.ID, models.RoleRequestor)
	approver := store.seedUser(company.ID, models.RoleApprover)
	procurement := store.seedUser(company.ID, models.RoleProcurement)
	vendorA := store.seedVendor(company.ID, "alpha supplies", "alpha@example.com")
	vendorB := store.seedVendor(company.ID, "beta traders", "beta@example.com")

	sequences := NewSequenceServiceAt(now)
	sender := &fakeSender{failFor: map[uint]error{}}
	requisitions := NewRequisitionService(uow, sequences, policy, NewNotificationService())
	requisitions.now = now
	rfqs := NewRFQService(uow, policy, sender)
	rfqs.now = now
	reconciliation := NewReconciliationService(uow, policy)
	reconciliation.now = now
	comparisons := NewComparisonService(uow, policy)
	comparisons.now = now

	// Draft and submit the requisition.
	pr, err := requisitions.Create(ctx, requestor, models.RequisitionRequest{
		CompanyID:  company.ID,
		FactoryID:  factory.ID,
		RequiredBy: "2025-10-15",
		Items: []models.RequisitionItemInput{
			{MaterialID: cement.ID, ItemCode: "CEM-53", Quantity: 100, RequiredDate: "2025-10-10"},
			{MaterialID: steel.ID, ItemCode: "STL-10", Quantity: 2, RequiredDate: "2025-10-15"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "PR-202509-0001", pr.PRNumber)

	_, err = requisitions.Submit(ctx, requestor, pr.ID)
	require.NoError(t, err)
	_, err = requisitions.Decide(ctx, approver, pr.ID, true, "")
	require.NoError(t, err)

	// Convert and dispatch to both vendors.
	rfq, err := requisitions.ConvertToRFQ(ctx, procurement, pr.ID, models.ConvertToRFQRequest{
		VendorIDs:          []uint{vendorA.ID, vendorB.ID},
		SubmissionDeadline: "2025-09-30",
		PaymentTerms:       "Net 30",
	})
	require.NoError(t, err)
	assert.Equal(t, "RFQ-2025-0001", rfq.RFQNumber)

	sendResult, err := rfqs.Send(ctx, procurement, rfq.ID)
	require.NoError(t, err)
	assert.Len(t, sendResult.Dispatched, 2)

	// Both vendors quote; vendor A's mail server delivers the same message
	// twice.
	quoteA := models.InboundEmail{
		ExternalMessageID: "<offer-1@alpha>",
		FromAddress:       vendorA.Email,
		Subject:           "Re: RFQ-2025-0001",
		Body:              "CEM-53 | 100 | 360 | 5\nSTL-10 | 2 | 61000 | 10",
		ReceivedAt:        clock.Add(2 * time.Hour),
	}
	first, err := reconciliation.IngestInboundEmail(ctx, procurement, rfq.ID, vendorA.ID, quoteA)
	require.NoError(t, err)
	replay, err := reconciliation.IngestInboundEmail(ctx, procurement, rfq.ID, vendorA.ID, quoteA)
	require.NoError(t, err)
	assert.True(t, replay.Duplicate)
	assert.Equal(t, first.Response.ID, replay.Response.ID)

	_, err = reconciliation.IngestInboundEmail(ctx, procurement, rfq.ID, vendorB.ID, models.InboundEmail{
		ExternalMessageID: "<offer-1@beta>",
		FromAddress:       vendorB.Email,
		Subject:           "Re: RFQ-2025-0001",
		Body:              "CEM-53 | 100 | 355.50 | 7",
		ReceivedAt:        clock.Add(3 * time.Hour),
	})
	require.NoError(t, err)

	// The replay never materialized a second response, so the sweep is a
	// no-op.
	summary, err := reconciliation.RunDedupSweep(ctx, procurement, company.ID)
	require.NoError(t, err)
	assert.Zero(t, summary.GroupsFound)

	// Review both offers, close, compare.
	pending, err := reconciliation.ListPending(ctx, procurement)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	for _, response := range pending {
		require.NoError(t, reconciliation.MarkReviewed(ctx, procurement, response.ID))
	}

	_, err = rfqs.Close(ctx, procurement, rfq.ID)
	require.NoError(t, err)

	result, err := comparisons.Compare(ctx, procurement, rfq.ID)
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	cementRow := result.Items[0]
	require.Equal(t, "CEM-53", cementRow.ItemCode)
	require.Len(t, cementRow.Vendors, 2)
	assert.Equal(t, vendorB.ID, cementRow.Vendors[0].VendorID, "beta undercuts alpha on cement")
	require.Len(t, result.Items[1].Vendors, 1, "only alpha quoted steel")

	// Record the committee's picks and award.
	decisions, err := comparisons.RecordSelections(ctx, procurement, rfq.ID, []models.VendorSelectionInput{
		{ItemCode: "CEM-53", VendorID: vendorB.ID, Reason: "lowest unit price"},
		{ItemCode: "STL-10", VendorID: vendorA.ID, Reason: "sole offer"},
	})
	require.NoError(t, err)
	assert.Len(t, decisions, 2)

	awarded, err := rfqs.Award(ctx, procurement, rfq.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RFQAwarded, awarded.Status)

	// The audit trail holds the two outbound invitations plus three inbound
	// rows, one of them flagged duplicate.
	logs, err := rfqs.DispatchHistory(ctx, procurement, rfq.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 5)
	duplicates := 0
	for _, entry := range logs {
		if entry.Duplicate {
			duplicates++
		}
	}
	assert.Equal(t, 1, duplicates)
}
