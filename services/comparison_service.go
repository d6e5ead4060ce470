package services

import (
	"context"
	"sort"
	"time"

	"backend/models"
	"backend/repository"
)

// ComparisonService builds the side-by-side vendor views over an RFQ's
// received quotations and records vendor selections. The matrices are
// computed on read and never persisted.
type ComparisonService struct {
	uow    repository.UnitOfWork
	policy *Policy
	now    func() time.Time
}

// NewComparisonService wires the engine.
func NewComparisonService(uow repository.UnitOfWork, policy *Policy) *ComparisonService {
	return &ComparisonService{uow: uow, policy: policy, now: time.Now}
}

// Compare returns the per-item matrix and the overall ranking for one RFQ.
// Only quotations in received/under_review participate; rejected and
// withdrawn ones stay stored but invisible here.
func (s *ComparisonService) Compare(ctx context.Context, actor *models.User, rfqID uint) (*models.ComparisonResult, error) {
	store := s.uow.Store()
	rfq, err := store.RFQs().GetByID(ctx, rfqID)
	if err != nil {
		return nil, notFoundOr(err, "RFQ", rfqID)
	}
	if rfq.CompanyID != actor.CompanyID {
		return nil, &NotFoundError{Entity: "RFQ", ID: rfqID}
	}

	responses, err := store.Quotations().ListByRFQ(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	eligible := responses[:0]
	for _, response := range responses {
		if response.Status.InComparison() {
			eligible = append(eligible, response)
		}
	}

	result := &models.ComparisonResult{
		RFQID:     rfq.ID,
		RFQNumber: rfq.RFQNumber,
		Items:     buildItemMatrix(rfq.LineItems, eligible),
		Ranking:   buildRanking(eligible),
	}
	return result, nil
}

// RecordSelections persists one immutable comparison-decision row per
// selection, timestamped and attributed to the acting user. It deliberately
// leaves RFQ and quotation statuses untouched; purchase-order creation is a
// separate step.
func (s *ComparisonService) RecordSelections(ctx context.Context, actor *models.User, rfqID uint, selections []models.VendorSelectionInput) ([]models.ComparisonDecision, error) {
	if err := s.policy.CanManageRFQ(actor); err != nil {
		return nil, err
	}
	if len(selections) == 0 {
		return nil, &ValidationError{Field: "selections", Message: "at least one selection is required"}
	}

	var decisions []models.ComparisonDecision
	err := s.uow.Do(ctx, func(store repository.Store) error {
		rfq, err := store.RFQs().GetByID(ctx, rfqID)
		if err != nil {
			return notFoundOr(err, "RFQ", rfqID)
		}
		if rfq.CompanyID != actor.CompanyID {
			return &NotFoundError{Entity: "RFQ", ID: rfqID}
		}

		items := make(map[string]bool, len(rfq.LineItems))
		for _, item := range rfq.LineItems {
			items[item.ItemCode] = true
		}
		responses, err := store.Quotations().ListByRFQ(ctx, rfqID)
		if err != nil {
			return err
		}
		quoted := make(map[uint]bool, len(responses))
		for _, response := range responses {
			if response.Status.InComparison() {
				quoted[response.VendorID] = true
			}
		}

		now := s.now()
		decisions = make([]models.ComparisonDecision, 0, len(selections))
		for _, sel := range selections {
			if !items[sel.ItemCode] {
				return &NotFoundError{Entity: "RFQ line item", ID: sel.ItemCode}
			}
			if !quoted[sel.VendorID] {
				return &NotFoundError{Entity: "quoting vendor", ID: sel.VendorID}
			}
			decisions = append(decisions, models.ComparisonDecision{
				RFQID:     rfqID,
				ItemCode:  sel.ItemCode,
				VendorID:  sel.VendorID,
				Reason:    sel.Reason,
				DecidedBy: actor.ID,
				CreatedAt: now,
			})
		}
		return store.Decisions().CreateAll(ctx, decisions)
	})
	if err != nil {
		return nil, err
	}
	return decisions, nil
}

// Selections returns the recorded decisions for an RFQ.
func (s *ComparisonService) Selections(ctx context.Context, actor *models.User, rfqID uint) ([]models.ComparisonDecision, error) {
	store := s.uow.Store()
	rfq, err := store.RFQs().GetByID(ctx, rfqID)
	if err != nil {
		return nil, notFoundOr(err, "RFQ", rfqID)
	}
	if rfq.CompanyID != actor.CompanyID {
		return nil, &NotFoundError{Entity: "RFQ", ID: rfqID}
	}
	return store.Decisions().ListByRFQ(ctx, rfqID)
}

// buildItemMatrix assembles one row per RFQ line item, with every matching
// vendor offer sorted ascending by unit price, ties broken by vendor id
// ascending for determinism.
func buildItemMatrix(items []models.RFQLineItem, responses []models.QuotationResponse) []models.ItemComparison {
	matrix := make([]models.ItemComparison, 0, len(items))
	for _, item := range items {
		row := models.ItemComparison{
			ItemCode:      item.ItemCode,
			Specification: item.Specification,
			Quantity:      item.Quantity,
			Unit:          item.Unit,
			Vendors:       []models.ItemComparisonEntry{},
		}
		for _, response := range responses {
			for _, line := range response.LineItems {
				if line.ItemCode != item.ItemCode {
					continue
				}
				row.Vendors = append(row.Vendors, models.ItemComparisonEntry{
					VendorID:       response.VendorID,
					VendorName:     response.Vendor.Name,
					VendorRating:   response.Vendor.Rating,
					ResponseID:     response.ID,
					UnitPrice:      line.UnitPrice,
					TotalPrice:     line.TotalPrice,
					DeliveryDays:   line.DeliveryDays,
					WarrantyMonths: line.WarrantyMonths,
				})
			}
		}
		sort.Slice(row.Vendors, func(i, j int) bool {
			cmp := row.Vendors[i].UnitPrice.Cmp(row.Vendors[j].UnitPrice)
			if cmp != 0 {
				return cmp < 0
			}
			return row.Vendors[i].VendorID < row.Vendors[j].VendorID
		})
		matrix = append(matrix, row)
	}
	return matrix
}

// buildRanking assembles the overall view, sorted ascending by total quoted
// amount with the same vendor-id tiebreak as the item matrix.
func buildRanking(responses []models.QuotationResponse) []models.VendorRanking {
	ranking := make([]models.VendorRanking, 0, len(responses))
	for _, response := range responses {
		ranking = append(ranking, models.VendorRanking{
			VendorID:      response.VendorID,
			VendorName:    response.Vendor.Name,
			VendorRating:  response.Vendor.Rating,
			ResponseID:    response.ID,
			TotalAmount:   response.TotalAmount,
			Currency:      response.Currency,
			PaymentTerms:  response.PaymentTerms,
			DeliveryTerms: response.DeliveryTerms,
			ValidUntil:    response.ValidUntil,
		})
	}
	sort.Slice(ranking, func(i, j int) bool {
		cmp := ranking[i].TotalAmount.Cmp(ranking[j].TotalAmount)
		if cmp != 0 {
			return cmp < 0
		}
		return ranking[i].VendorID < ranking[j].VendorID
	})
	return ranking
}
