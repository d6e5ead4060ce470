package services

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"backend/models"
	"backend/repository"
)

// ReconciliationService binds inbound vendor mail to quotation responses and
// cleans up historical duplicates. Two messages with the same
// (rfq, vendor, external message id) key are the same event observed twice
// and never produce two response rows.
type ReconciliationService struct {
	uow    repository.UnitOfWork
	policy *Policy
	now    func() time.Time
}

// NewReconciliationService wires the engine.
func NewReconciliationService(uow repository.UnitOfWork, policy *Policy) *ReconciliationService {
	return &ReconciliationService{uow: uow, policy: policy, now: time.Now}
}

// IngestResult reports one ingestion outcome.
type IngestResult struct {
	Response  *models.QuotationResponse `json:"response"`
	Duplicate bool                      `json:"duplicate"`
}

// quotationLine matches `code | qty | unit price [| delivery days [| warranty months]]`.
// This is the deterministic fallback extractor; an AI classifier, when
// present, replaces it upstream of this service.
var quotationLine = regexp.MustCompile(`(?m)^\s*([A-Za-z][A-Za-z0-9._/-]*)\s*\|\s*([0-9]+(?:\.[0-9]+)?)\s*\|\s*([0-9]+(?:\.[0-9]+)?)\s*(?:\|\s*([0-9]+))?\s*(?:\|\s*([0-9]+))?\s*$`)

// IngestInboundEmail records an inbound message for one RFQ and vendor.
// A new key inserts the response with its line items, flips the invitation's
// response_received flag and appends an inbound dispatch-log row, all in one
// transaction. A known key appends a duplicate-marked log row and returns
// the existing canonical response untouched.
func (s *ReconciliationService) IngestInboundEmail(ctx context.Context, actor *models.User, rfqID, vendorID uint, mail models.InboundEmail) (*IngestResult, error) {
	if mail.ExternalMessageID == "" {
		return nil, &ValidationError{Field: "external_message_id", Message: "missing message id"}
	}
	receivedAt := mail.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = s.now()
	}

	var result IngestResult
	err := s.uow.Do(ctx, func(store repository.Store) error {
		rfq, err := store.RFQs().GetByID(ctx, rfqID)
		if err != nil {
			return notFoundOr(err, "RFQ", rfqID)
		}
		if rfq.CompanyID != actor.CompanyID {
			return &NotFoundError{Entity: "RFQ", ID: rfqID}
		}
		invitation, err := store.RFQs().GetInvitation(ctx, rfqID, vendorID)
		if err != nil {
			return notFoundOr(err, "vendor invitation", vendorID)
		}

		key := models.QuotationDedupKey{RFQID: rfqID, VendorID: vendorID, ExternalMessageID: mail.ExternalMessageID}
		existing, err := store.Quotations().FindByDedupKey(ctx, key)
		switch {
		case err == nil:
			// Same event observed twice (e.g. re-ingested on retry).
			result = IngestResult{Response: existing, Duplicate: true}
			return store.DispatchLogs().Append(ctx, &models.EmailDispatchLog{
				RFQID:             rfqID,
				VendorID:          vendorID,
				Direction:         models.EmailInbound,
				ExternalMessageID: mail.ExternalMessageID,
				Subject:           mail.Subject,
				FromAddress:       mail.FromAddress,
				Duplicate:         true,
				Notes:             "duplicate of response " + strconv.FormatUint(uint64(existing.ID), 10),
				OccurredAt:        receivedAt,
			})
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		lines, total := extractQuotationLines(mail.Body)
		if len(lines) == 0 {
			return &ValidationError{Field: "body", Message: "no quotation lines found"}
		}

		response := &models.QuotationResponse{
			RFQID:             rfqID,
			VendorID:          vendorID,
			CompanyID:         rfq.CompanyID,
			ExternalMessageID: mail.ExternalMessageID,
			Status:            models.QuotationReceived,
			ProcessingStatus:  models.ProcessingPendingReview,
			TotalAmount:       total,
			PaymentTerms:      rfq.PaymentTerms,
			DeliveryTerms:     rfq.DeliveryTerms,
			ReceivedAt:        receivedAt,
			LineItems:         lines,
		}
		if err := store.Quotations().Create(ctx, response); err != nil {
			return err
		}

		invitation.ResponseReceived = true
		if err := store.RFQs().UpdateInvitation(ctx, invitation); err != nil {
			return err
		}

		if err := store.DispatchLogs().Append(ctx, &models.EmailDispatchLog{
			RFQID:             rfqID,
			VendorID:          vendorID,
			Direction:         models.EmailInbound,
			ExternalMessageID: mail.ExternalMessageID,
			Subject:           mail.Subject,
			FromAddress:       mail.FromAddress,
			OccurredAt:        receivedAt,
		}); err != nil {
			return err
		}
		result = IngestResult{Response: response}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListPending returns responses awaiting review for the actor's company.
func (s *ReconciliationService) ListPending(ctx context.Context, actor *models.User) ([]models.QuotationResponse, error) {
	return s.uow.Store().Quotations().ListPending(ctx, actor.CompanyID)
}

// MarkReviewed moves a response from pending_review to reviewed.
func (s *ReconciliationService) MarkReviewed(ctx context.Context, actor *models.User, responseID uint) error {
	return s.uow.Do(ctx, func(store repository.Store) error {
		response, err := store.Quotations().GetByID(ctx, responseID)
		if err != nil {
			return notFoundOr(err, "quotation response", responseID)
		}
		if response.CompanyID != actor.CompanyID {
			return &NotFoundError{Entity: "quotation response", ID: responseID}
		}
		response.ProcessingStatus = models.ProcessingReviewed
		return store.Quotations().Update(ctx, response)
	})
}

// SetQuotationStatus changes a response's commercial status (under_review,
// rejected, withdrawn). Rejected/withdrawn responses stay stored but drop
// out of comparison.
func (s *ReconciliationService) SetQuotationStatus(ctx context.Context, actor *models.User, responseID uint, status models.QuotationStatus) error {
	switch status {
	case models.QuotationReceived, models.QuotationUnderReview, models.QuotationRejected, models.QuotationWithdrawn:
	default:
		return &ValidationError{Field: "status", Message: "unknown quotation status " + string(status)}
	}
	return s.uow.Do(ctx, func(store repository.Store) error {
		response, err := store.Quotations().GetByID(ctx, responseID)
		if err != nil {
			return notFoundOr(err, "quotation response", responseID)
		}
		if response.CompanyID != actor.CompanyID {
			return &NotFoundError{Entity: "quotation response", ID: responseID}
		}
		response.Status = status
		return store.Quotations().Update(ctx, response)
	})
}

// RunDedupSweep reconciles historical duplicates for a company: responses
// are grouped by dedup key; each oversized group keeps its earliest-created
// row and deletes the rest, together with redundant inbound dispatch-log
// rows. Each group is cleaned in its own transaction; one group's failure
// never blocks the others. Running the sweep twice deletes nothing new.
// A nil actor is a scheduled run; interactive callers need the procurement
// or admin role and must belong to the company.
func (s *ReconciliationService) RunDedupSweep(ctx context.Context, actor *models.User, companyID uint) (*models.DedupSweepSummary, error) {
	if actor != nil {
		if err := s.policy.CanRunDedupSweep(actor); err != nil {
			return nil, err
		}
		if err := s.policy.CheckCompany(actor, companyID); err != nil {
			return nil, err
		}
	}
	responses, err := s.uow.Store().Quotations().ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	groups := make(map[models.QuotationDedupKey][]models.QuotationResponse)
	for _, response := range responses {
		key := response.DedupKey()
		groups[key] = append(groups[key], response)
	}

	summary := &models.DedupSweepSummary{
		SweepID:   uuid.NewString(),
		CompanyID: companyID,
		RanAt:     s.now(),
	}
	for key, group := range groups {
		if len(group) < 2 {
			continue
		}
		summary.GroupsFound++

		sort.Slice(group, func(i, j int) bool {
			if !group[i].CreatedAt.Equal(group[j].CreatedAt) {
				return group[i].CreatedAt.Before(group[j].CreatedAt)
			}
			return group[i].ID < group[j].ID
		})
		doomed := make([]uint, 0, len(group)-1)
		for _, response := range group[1:] {
			doomed = append(doomed, response.ID)
		}

		err := s.uow.Do(ctx, func(store repository.Store) error {
			if err := store.Quotations().DeleteByIDs(ctx, doomed); err != nil {
				return err
			}
			logs, err := store.DispatchLogs().ListInboundByKey(ctx, key)
			if err != nil {
				return err
			}
			if len(logs) > 1 {
				extra := make([]uint, 0, len(logs)-1)
				for _, entry := range logs[1:] {
					extra = append(extra, entry.ID)
				}
				return store.DispatchLogs().DeleteByIDs(ctx, extra)
			}
			return nil
		})
		if err != nil {
			summary.Errors = append(summary.Errors, models.DedupGroupError{Key: key, Error: err.Error()})
			continue
		}
		summary.RecordsDeleted += len(doomed)
	}
	return summary, nil
}

// extractQuotationLines parses pipe-delimited quotation lines out of a mail
// body and returns them with the summed total.
func extractQuotationLines(body string) ([]models.QuotationLineItem, decimal.Decimal) {
	matches := quotationLine.FindAllStringSubmatch(body, -1)
	lines := make([]models.QuotationLineItem, 0, len(matches))
	total := decimal.Zero
	for _, m := range matches {
		quantity, err := strconv.ParseFloat(m[2], 64)
		if err != nil || quantity <= 0 {
			continue
		}
		unitPrice, err := decimal.NewFromString(m[3])
		if err != nil {
			continue
		}
		lineTotal := unitPrice.Mul(decimal.NewFromFloat(quantity))
		line := models.QuotationLineItem{
			ItemCode:   m[1],
			Quantity:   quantity,
			UnitPrice:  unitPrice,
			TotalPrice: lineTotal,
		}
		if m[4] != "" {
			line.DeliveryDays, _ = strconv.Atoi(m[4])
		}
		if m[5] != "" {
			line.WarrantyMonths, _ = strconv.Atoi(m[5])
		}
		lines = append(lines, line)
		total = total.Add(lineTotal)
	}
	return lines, total
}
