package services

import (
	"context"
	"fmt"
	"log"

	"backend/models"
	"backend/repository"
)

// NotificationService writes in-app notification rows for workflow events.
// Notifications are best-effort: a failure is logged and never fails the
// surrounding transaction's business mutation.
type NotificationService struct{}

// NewNotificationService returns the notifier.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyApprovers tells every approver in the PR's company that it awaits a
// decision.
func (n *NotificationService) NotifyApprovers(ctx context.Context, store repository.Store, pr *models.PurchaseRequisition) {
	approvers, err := store.Users().ListByRole(ctx, pr.CompanyID, models.RoleApprover)
	if err != nil {
		log.Printf("notify approvers for %s: %v", pr.PRNumber, err)
		return
	}
	message := fmt.Sprintf("Requisition %s awaits your approval", pr.PRNumber)
	for _, approver := range approvers {
		n.create(ctx, store, approver.ID, message, "view_requisition")
	}
}

// NotifyDecision tells the requestor their PR was approved or rejected.
func (n *NotificationService) NotifyDecision(ctx context.Context, store repository.Store, pr *models.PurchaseRequisition) {
	message := fmt.Sprintf("Requisition %s was %s", pr.PRNumber, pr.Status)
	if pr.Status == models.RequisitionRejected && pr.RejectionReason != "" {
		message += ": " + pr.RejectionReason
	}
	n.create(ctx, store, pr.RequestedBy, message, "view_requisition")
}

func (n *NotificationService) create(ctx context.Context, store repository.Store, userID uint, message, action string) {
	err := store.Notifications().Create(ctx, &models.Notification{
		UserID:  userID,
		Message: message,
		Status:  "unread",
		Action:  action,
	})
	if err != nil {
		log.Printf("notification for user %d: %v", userID, err)
	}
}
