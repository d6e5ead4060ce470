package services

import (
	"context"
	"fmt"
	"time"

	"backend/models"
	"backend/repository"
)

// RequisitionService drives the purchase requisition state machine:
// draft -> submitted -> approved|rejected, approved -> converted. A PR is
// mutable only while draft; every multi-row mutation runs in one unit of
// work.
type RequisitionService struct {
	uow       repository.UnitOfWork
	sequences *SequenceService
	policy    *Policy
	notifier  *NotificationService
	now       func() time.Time
}

// NewRequisitionService wires the lifecycle with its collaborators.
func NewRequisitionService(uow repository.UnitOfWork, sequences *SequenceService, policy *Policy, notifier *NotificationService) *RequisitionService {
	return &RequisitionService{
		uow:       uow,
		sequences: sequences,
		policy:    policy,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Create opens a new PR in draft. Items are optional at creation; the
// item-presence invariant is enforced at submission.
func (s *RequisitionService) Create(ctx context.Context, actor *models.User, req models.RequisitionRequest) (*models.PurchaseRequisition, error) {
	if err := s.policy.CanCreateRequisition(actor); err != nil {
		return nil, err
	}
	if err := s.policy.CheckCompany(actor, req.CompanyID); err != nil {
		return nil, err
	}

	requiredBy, err := parseDate(req.RequiredBy, "required_by")
	if err != nil {
		return nil, err
	}
	priority := models.PriorityMedium
	if req.Priority != "" {
		priority = models.RequisitionPriority(req.Priority)
		switch priority {
		case models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityUrgent:
		default:
			return nil, &ValidationError{Field: "priority", Message: "unknown priority " + req.Priority}
		}
	}

	pr := &models.PurchaseRequisition{
		CompanyID:    req.CompanyID,
		DivisionID:   req.DivisionID,
		DepartmentID: req.DepartmentID,
		FactoryID:    req.FactoryID,
		Status:       models.RequisitionDraft,
		Priority:     priority,
		RequiredBy:   requiredBy,
		Remarks:      req.Remarks,
		RequestedBy:  actor.ID,
	}

	err = s.uow.Do(ctx, func(store repository.Store) error {
		items, err := s.buildLineItems(ctx, store, req.Items)
		if err != nil {
			return err
		}
		number, err := s.sequences.NextPRNumber(ctx, store, req.FactoryID)
		if err != nil {
			return err
		}
		pr.PRNumber = number
		pr.LineItems = items
		return conflictOr(store.Requisitions().Create(ctx, pr), "pr_number", number)
	})
	if err != nil {
		return nil, err
	}
	return pr, nil
}

// Update replaces a draft PR's fields and its whole item set. Any non-draft
// PR is immutable.
func (s *RequisitionService) Update(ctx context.Context, actor *models.User, id uint, req models.RequisitionRequest) (*models.PurchaseRequisition, error) {
	var updated *models.PurchaseRequisition
	err := s.uow.Do(ctx, func(store repository.Store) error {
		pr, err := s.load(ctx, store, actor, id)
		if err != nil {
			return err
		}
		if err := s.policy.CanSubmitRequisition(actor, pr); err != nil {
			return err
		}
		if pr.Status != models.RequisitionDraft {
			return &StateTransitionError{Entity: "purchase requisition", From: string(pr.Status), Event: "edit"}
		}

		requiredBy, err := parseDate(req.RequiredBy, "required_by")
		if err != nil {
			return err
		}
		items, err := s.buildLineItems(ctx, store, req.Items)
		if err != nil {
			return err
		}

		pr.DivisionID = req.DivisionID
		pr.DepartmentID = req.DepartmentID
		pr.RequiredBy = requiredBy
		pr.Remarks = req.Remarks
		if req.Priority != "" {
			pr.Priority = models.RequisitionPriority(req.Priority)
		}
		if err := store.Requisitions().Update(ctx, pr); err != nil {
			return err
		}
		if err := store.Requisitions().ReplaceLineItems(ctx, pr.ID, items); err != nil {
			return err
		}
		pr.LineItems = items
		updated = pr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Get returns one PR within the actor's company scope.
func (s *RequisitionService) Get(ctx context.Context, actor *models.User, id uint) (*models.PurchaseRequisition, error) {
	return s.load(ctx, s.uow.Store(), actor, id)
}

// List returns the company's PRs, optionally filtered by status.
func (s *RequisitionService) List(ctx context.Context, actor *models.User, status models.RequisitionStatus) ([]models.PurchaseRequisition, error) {
	return s.uow.Store().Requisitions().ListByCompany(ctx, actor.CompanyID, status)
}

// Submit moves draft -> submitted. Guards: at least one line item and a
// required-by date that is not in the past.
func (s *RequisitionService) Submit(ctx context.Context, actor *models.User, id uint) (*models.PurchaseRequisition, error) {
	var submitted *models.PurchaseRequisition
	err := s.uow.Do(ctx, func(store repository.Store) error {
		pr, err := s.load(ctx, store, actor, id)
		if err != nil {
			return err
		}
		if err := s.policy.CanSubmitRequisition(actor, pr); err != nil {
			return err
		}
		if !pr.Status.CanTransition(models.RequisitionSubmitted) {
			return &StateTransitionError{Entity: "purchase requisition", From: string(pr.Status), Event: "submit"}
		}
		if len(pr.LineItems) == 0 {
			return &ValidationError{Field: "items", Message: "requisition has no line items"}
		}
		if pr.RequiredBy.Before(today(s.now())) {
			return &ValidationError{Field: "required_by", Message: "required-by date is in the past"}
		}

		now := s.now()
		pr.Status = models.RequisitionSubmitted
		pr.SubmittedAt = &now
		if err := store.Requisitions().Update(ctx, pr); err != nil {
			return err
		}
		s.notifier.NotifyApprovers(ctx, store, pr)
		submitted = pr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return submitted, nil
}

// Decide moves submitted -> approved or rejected. Rejection requires a
// non-empty reason, stored verbatim.
func (s *RequisitionService) Decide(ctx context.Context, actor *models.User, id uint, approved bool, reason string) (*models.PurchaseRequisition, error) {
	var decided *models.PurchaseRequisition
	err := s.uow.Do(ctx, func(store repository.Store) error {
		pr, err := s.load(ctx, store, actor, id)
		if err != nil {
			return err
		}
		if err := s.policy.CanDecideRequisition(actor, pr); err != nil {
			return err
		}

		target := models.RequisitionApproved
		event := "approve"
		if !approved {
			target = models.RequisitionRejected
			event = "reject"
			if reason == "" {
				return &ValidationError{Field: "reason", Message: "rejection requires a reason"}
			}
		}
		if !pr.Status.CanTransition(target) {
			return &StateTransitionError{Entity: "purchase requisition", From: string(pr.Status), Event: event}
		}

		now := s.now()
		pr.Status = target
		pr.DecidedBy = &actor.ID
		pr.DecidedAt = &now
		if !approved {
			pr.RejectionReason = reason
		}
		if err := store.Requisitions().Update(ctx, pr); err != nil {
			return err
		}
		s.notifier.NotifyDecision(ctx, store, pr)
		decided = pr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decided, nil
}

// ConvertToRFQ moves approved -> converted and atomically creates the RFQ,
// a verbatim copy of the PR's line items, and one vendor invitation per
// selected vendor. The copy is deep: later changes on either side never leak
// across.
func (s *RequisitionService) ConvertToRFQ(ctx context.Context, actor *models.User, id uint, req models.ConvertToRFQRequest) (*models.RFQ, error) {
	if err := s.policy.CanConvertRequisition(actor); err != nil {
		return nil, err
	}
	if len(req.VendorIDs) == 0 {
		return nil, &ValidationError{Field: "vendor_ids", Message: "at least one vendor is required"}
	}
	deadline, err := parseDate(req.SubmissionDeadline, "submission_deadline")
	if err != nil {
		return nil, err
	}
	if deadline.Before(today(s.now())) {
		return nil, &ValidationError{Field: "submission_deadline", Message: "deadline is in the past"}
	}

	var rfq *models.RFQ
	err = s.uow.Do(ctx, func(store repository.Store) error {
		pr, err := s.load(ctx, store, actor, id)
		if err != nil {
			return err
		}
		if !pr.Status.CanTransition(models.RequisitionConverted) {
			return &StateTransitionError{Entity: "purchase requisition", From: string(pr.Status), Event: "convert"}
		}

		vendors, err := store.Vendors().GetByIDs(ctx, req.VendorIDs)
		if err != nil {
			return err
		}
		known := make(map[uint]bool, len(vendors))
		for _, v := range vendors {
			if v.CompanyID != actor.CompanyID {
				return &NotFoundError{Entity: "vendor", ID: v.ID}
			}
			known[v.ID] = true
		}
		for _, vid := range req.VendorIDs {
			if !known[vid] {
				return &NotFoundError{Entity: "vendor", ID: vid}
			}
		}

		number, err := s.sequences.NextRFQNumber(ctx, store, pr.CompanyID)
		if err != nil {
			return err
		}

		now := s.now()
		rfq = &models.RFQ{
			RFQNumber:          number,
			CompanyID:          pr.CompanyID,
			RequisitionID:      &pr.ID,
			Status:             models.RFQOpen,
			IssueDate:          today(now),
			SubmissionDeadline: deadline,
			PaymentTerms:       req.PaymentTerms,
			DeliveryTerms:      req.DeliveryTerms,
			CreatedBy:          actor.ID,
			LineItems:          copyLineItems(pr.LineItems),
		}
		for _, vid := range req.VendorIDs {
			rfq.Invitations = append(rfq.Invitations, models.RFQVendorInvitation{VendorID: vid})
		}
		if err := conflictOr(store.RFQs().Create(ctx, rfq), "rfq_number", number); err != nil {
			return err
		}

		pr.Status = models.RequisitionConverted
		pr.ConvertedRFQID = &rfq.ID
		return store.Requisitions().Update(ctx, pr)
	})
	if err != nil {
		return nil, err
	}
	return rfq, nil
}

// load fetches a PR and enforces company scoping; out-of-scope rows read as
// not found.
func (s *RequisitionService) load(ctx context.Context, store repository.Store, actor *models.User, id uint) (*models.PurchaseRequisition, error) {
	pr, err := store.Requisitions().GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "purchase requisition", id)
	}
	if pr.CompanyID != actor.CompanyID {
		return nil, &NotFoundError{Entity: "purchase requisition", ID: id}
	}
	return pr, nil
}

// buildLineItems validates and materializes the request item set.
func (s *RequisitionService) buildLineItems(ctx context.Context, store repository.Store, inputs []models.RequisitionItemInput) ([]models.RequisitionLineItem, error) {
	items := make([]models.RequisitionLineItem, 0, len(inputs))
	for i, in := range inputs {
		if in.Quantity <= 0 {
			return nil, &ValidationError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "quantity must be positive",
			}
		}
		requiredDate, err := parseDate(in.RequiredDate, fmt.Sprintf("items[%d].required_date", i))
		if err != nil {
			return nil, err
		}
		material, err := store.Materials().GetByID(ctx, in.MaterialID)
		if err != nil {
			return nil, notFoundOr(err, "material", in.MaterialID)
		}
		unit := in.Unit
		if unit == "" {
			unit = material.Unit
		}
		items = append(items, models.RequisitionLineItem{
			MaterialID:    in.MaterialID,
			ItemCode:      in.ItemCode,
			Quantity:      in.Quantity,
			Unit:          unit,
			RequiredDate:  requiredDate,
			Specification: in.Specification,
		})
	}
	return items, nil
}

// copyLineItems deep-copies PR items into fresh RFQ items.
func copyLineItems(items []models.RequisitionLineItem) []models.RFQLineItem {
	copied := make([]models.RFQLineItem, 0, len(items))
	for _, item := range items {
		copied = append(copied, models.RFQLineItem{
			MaterialID:    item.MaterialID,
			ItemCode:      item.ItemCode,
			Quantity:      item.Quantity,
			Unit:          item.Unit,
			RequiredDate:  item.RequiredDate,
			Specification: item.Specification,
		})
	}
	return copied
}

// parseDate reads a yyyy-mm-dd request field.
func parseDate(raw, field string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, &ValidationError{Field: field, Message: "expected yyyy-mm-dd"}
	}
	return t, nil
}

// today truncates a clock reading to midnight UTC for date comparisons.
func today(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
