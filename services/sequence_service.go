package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"backend/repository"
)

const (
	prNumberPrefix  = "PR"
	rfqNumberPrefix = "RFQ"
	sequenceWidth   = 4
)

// SequenceService allocates human-readable document numbers:
// PR-YYYYMM-NNNN per factory and RFQ-YYYY-NNNN per company. Numbers are
// derived from existing rows, not a counter table.
//
// Next* must run on a transactional Store (inside the same UnitOfWork.Do as
// the insert that consumes the number); the scope-row lock it takes is what
// serializes concurrent allocation for a bucket. A naive read-then-write
// without the lock can hand two submitters the same suffix.
type SequenceService struct {
	now func() time.Time
}

// NewSequenceService uses the wall clock for bucket keys.
func NewSequenceService() *SequenceService {
	return &SequenceService{now: time.Now}
}

// NewSequenceServiceAt pins the clock, for tests.
func NewSequenceServiceAt(now func() time.Time) *SequenceService {
	return &SequenceService{now: now}
}

// NextPRNumber allocates the next requisition number for a factory's current
// monthly bucket.
func (s *SequenceService) NextPRNumber(ctx context.Context, store repository.Store, factoryID uint) (string, error) {
	if _, err := store.Scopes().LockFactory(ctx, factoryID); err != nil {
		return "", notFoundOr(err, "factory", factoryID)
	}
	prefix := fmt.Sprintf("%s-%s-", prNumberPrefix, s.now().Format("200601"))
	last, err := store.Requisitions().LastNumber(ctx, factoryID, prefix)
	if err != nil {
		return "", err
	}
	return nextInSequence(prefix, last)
}

// NextRFQNumber allocates the next RFQ number for a company's current yearly
// bucket.
func (s *SequenceService) NextRFQNumber(ctx context.Context, store repository.Store, companyID uint) (string, error) {
	if _, err := store.Scopes().LockCompany(ctx, companyID); err != nil {
		return "", notFoundOr(err, "company", companyID)
	}
	prefix := fmt.Sprintf("%s-%s-", rfqNumberPrefix, s.now().Format("2006"))
	last, err := store.RFQs().LastNumber(ctx, companyID, prefix)
	if err != nil {
		return "", err
	}
	return nextInSequence(prefix, last)
}

// nextInSequence increments the numeric suffix of the highest existing number
// in a bucket. An empty bucket starts at 1.
func nextInSequence(prefix, last string) (string, error) {
	next := 1
	if last != "" {
		suffix := strings.TrimPrefix(last, prefix)
		n, err := strconv.Atoi(suffix)
		if err != nil {
			return "", fmt.Errorf("malformed document number %q: %w", last, err)
		}
		next = n + 1
	}
	return fmt.Sprintf("%s%0*d", prefix, sequenceWidth, next), nil
}
