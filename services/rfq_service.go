package services

import (
	"context"
	"log"
	"time"

	"backend/models"
	"backend/repository"
)

// EmailSender dispatches one RFQ invitation to one vendor. The concrete
// implementation lives in EmailService; the interface keeps the lifecycle
// testable without SMTP.
type EmailSender interface {
	SendRFQInvitation(ctx context.Context, rfq *models.RFQ, vendor models.Vendor) error
}

// RFQService drives the RFQ state machine: open -> sent -> closed -> awarded,
// with cancellation from open or sent. Sending records per-vendor dispatch
// state; one vendor's failure never blocks the rest of the batch.
type RFQService struct {
	uow    repository.UnitOfWork
	policy *Policy
	sender EmailSender
	now    func() time.Time
}

// NewRFQService wires the lifecycle with its collaborators.
func NewRFQService(uow repository.UnitOfWork, policy *Policy, sender EmailSender) *RFQService {
	return &RFQService{uow: uow, policy: policy, sender: sender, now: time.Now}
}

// Get returns one RFQ within the actor's company scope.
func (s *RFQService) Get(ctx context.Context, actor *models.User, id uint) (*models.RFQ, error) {
	return s.load(ctx, s.uow.Store(), actor, id)
}

// List returns the company's RFQs.
func (s *RFQService) List(ctx context.Context, actor *models.User) ([]models.RFQ, error) {
	return s.uow.Store().RFQs().ListByCompany(ctx, actor.CompanyID)
}

// Send moves open -> sent, emailing every not-yet-notified vendor. Each
// successful dispatch commits the invitation flags and an outbound
// dispatch-log row atomically; failures are collected per vendor.
func (s *RFQService) Send(ctx context.Context, actor *models.User, id uint) (*models.RFQSendResult, error) {
	if err := s.policy.CanManageRFQ(actor); err != nil {
		return nil, err
	}
	rfq, err := s.load(ctx, s.uow.Store(), actor, id)
	if err != nil {
		return nil, err
	}
	if !rfq.Status.CanTransition(models.RFQSent) {
		return nil, &StateTransitionError{Entity: "RFQ", From: string(rfq.Status), Event: "send"}
	}

	result := &models.RFQSendResult{RFQID: rfq.ID, Failed: map[uint]string{}}
	for _, inv := range rfq.Invitations {
		if inv.EmailSent {
			result.AlreadySent = append(result.AlreadySent, inv.VendorID)
			continue
		}
		vendor := inv.Vendor
		if err := s.sender.SendRFQInvitation(ctx, rfq, vendor); err != nil {
			result.Failed[inv.VendorID] = err.Error()
			continue
		}
		invitation := inv
		err := s.uow.Do(ctx, func(store repository.Store) error {
			now := s.now()
			invitation.EmailSent = true
			invitation.EmailSentAt = &now
			if err := store.RFQs().UpdateInvitation(ctx, &invitation); err != nil {
				return err
			}
			return store.DispatchLogs().Append(ctx, &models.EmailDispatchLog{
				RFQID:      rfq.ID,
				VendorID:   vendor.ID,
				Direction:  models.EmailOutbound,
				Subject:    "RFQ " + rfq.RFQNumber,
				ToAddress:  vendor.Email,
				OccurredAt: now,
			})
		})
		if err != nil {
			result.Failed[inv.VendorID] = err.Error()
			continue
		}
		result.Dispatched = append(result.Dispatched, inv.VendorID)
	}

	if len(result.Dispatched) > 0 || len(result.AlreadySent) > 0 {
		err = s.uow.Do(ctx, func(store repository.Store) error {
			now := s.now()
			rfq.Status = models.RFQSent
			rfq.SentAt = &now
			return store.RFQs().Update(ctx, rfq)
		})
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Close moves sent -> closed; no further quotations are expected.
func (s *RFQService) Close(ctx context.Context, actor *models.User, id uint) (*models.RFQ, error) {
	return s.transition(ctx, actor, id, models.RFQClosed, "close")
}

// Cancel moves open or sent -> cancelled.
func (s *RFQService) Cancel(ctx context.Context, actor *models.User, id uint) (*models.RFQ, error) {
	return s.transition(ctx, actor, id, models.RFQCancelled, "cancel")
}

// Award moves closed -> awarded. Awarding from sent is rejected so the
// comparison always runs against a frozen response set.
func (s *RFQService) Award(ctx context.Context, actor *models.User, id uint) (*models.RFQ, error) {
	return s.transition(ctx, actor, id, models.RFQAwarded, "award")
}

// DispatchHistory returns the append-only email trail for an RFQ.
func (s *RFQService) DispatchHistory(ctx context.Context, actor *models.User, id uint) ([]models.EmailDispatchLog, error) {
	if _, err := s.load(ctx, s.uow.Store(), actor, id); err != nil {
		return nil, err
	}
	return s.uow.Store().DispatchLogs().ListByRFQ(ctx, id)
}

// AutoCloseExpired closes every sent RFQ whose submission deadline has
// passed. Run from the scheduler; per-RFQ errors are logged, not fatal.
func (s *RFQService) AutoCloseExpired(ctx context.Context) int {
	expired, err := s.uow.Store().RFQs().ListSentPastDeadline(ctx, s.now())
	if err != nil {
		log.Printf("rfq auto-close: listing failed: %v", err)
		return 0
	}
	closed := 0
	for i := range expired {
		rfq := expired[i]
		err := s.uow.Do(ctx, func(store repository.Store) error {
			now := s.now()
			rfq.Status = models.RFQClosed
			rfq.ClosedAt = &now
			return store.RFQs().Update(ctx, &rfq)
		})
		if err != nil {
			log.Printf("rfq auto-close: RFQ %d: %v", rfq.ID, err)
			continue
		}
		closed++
	}
	return closed
}

func (s *RFQService) transition(ctx context.Context, actor *models.User, id uint, target models.RFQStatus, event string) (*models.RFQ, error) {
	if err := s.policy.CanManageRFQ(actor); err != nil {
		return nil, err
	}
	var rfq *models.RFQ
	err := s.uow.Do(ctx, func(store repository.Store) error {
		loaded, err := s.load(ctx, store, actor, id)
		if err != nil {
			return err
		}
		if !loaded.Status.CanTransition(target) {
			return &StateTransitionError{Entity: "RFQ", From: string(loaded.Status), Event: event}
		}
		loaded.Status = target
		if target == models.RFQClosed {
			now := s.now()
			loaded.ClosedAt = &now
		}
		rfq = loaded
		return store.RFQs().Update(ctx, loaded)
	})
	if err != nil {
		return nil, err
	}
	return rfq, nil
}

func (s *RFQService) load(ctx context.Context, store repository.Store, actor *models.User, id uint) (*models.RFQ, error) {
	rfq, err := store.RFQs().GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "RFQ", id)
	}
	if rfq.CompanyID != actor.CompanyID {
		return nil, &NotFoundError{Entity: "RFQ", ID: id}
	}
	return rfq, nil
}
