package services

import (
	"backend/models"
)

// Policy is the single transition-authorization capability consumed by the
// lifecycle services. All role checks live here instead of being repeated
// per route.
type Policy struct{}

// NewPolicy returns the default role policy.
func NewPolicy() *Policy {
	return &Policy{}
}

// CheckCompany rejects cross-company access; admin users are company-bound
// too.
func (p *Policy) CheckCompany(actor *models.User, companyID uint) error {
	if actor.CompanyID != companyID {
		return &NotFoundError{Entity: "company resource", ID: companyID}
	}
	return nil
}

// CanCreateRequisition: any active role may raise a PR.
func (p *Policy) CanCreateRequisition(actor *models.User) error {
	return p.allow(actor, "create requisition",
		models.RoleRequestor, models.RoleApprover, models.RoleProcurement, models.RoleAdmin)
}

// CanSubmitRequisition: the requestor (or admin) submits.
func (p *Policy) CanSubmitRequisition(actor *models.User, pr *models.PurchaseRequisition) error {
	if actor.Role == models.RoleAdmin || actor.ID == pr.RequestedBy {
		return nil
	}
	return &ForbiddenError{Action: "submit requisition", Role: string(actor.Role)}
}

// CanDecideRequisition: approvers decide; the requestor may not approve
// their own PR.
func (p *Policy) CanDecideRequisition(actor *models.User, pr *models.PurchaseRequisition) error {
	if err := p.allow(actor, "decide requisition", models.RoleApprover, models.RoleAdmin); err != nil {
		return err
	}
	if actor.ID == pr.RequestedBy {
		return &ForbiddenError{Action: "decide own requisition", Role: string(actor.Role)}
	}
	return nil
}

// CanConvertRequisition: procurement converts approved PRs into RFQs.
func (p *Policy) CanConvertRequisition(actor *models.User) error {
	return p.allow(actor, "convert requisition", models.RoleProcurement, models.RoleAdmin)
}

// CanManageRFQ covers send/close/cancel/award and selection recording.
func (p *Policy) CanManageRFQ(actor *models.User) error {
	return p.allow(actor, "manage RFQ", models.RoleProcurement, models.RoleAdmin)
}

// CanRunDedupSweep: procurement triggers manual sweeps.
func (p *Policy) CanRunDedupSweep(actor *models.User) error {
	return p.allow(actor, "run dedup sweep", models.RoleProcurement, models.RoleAdmin)
}

func (p *Policy) allow(actor *models.User, action string, roles ...models.UserRole) error {
	if actor.Suspended {
		return &ForbiddenError{Action: action, Role: "suspended"}
	}
	for _, role := range roles {
		if actor.Role == role {
			return nil
		}
	}
	return &ForbiddenError{Action: action, Role: string(actor.Role)}
}
