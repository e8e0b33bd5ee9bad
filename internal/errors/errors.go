// internal/errors/errors.go
package appErrors

import (
    "errors"
    "fmt"
)

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
    CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
    return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id int) error {
    return &ErrCampaignNotFound{CampaignID: id}
}

// ErrRequestNotFound identifies a missing withdrawal request
type ErrRequestNotFound struct {
    CampaignID int
    RequestID  int64
}

func (e *ErrRequestNotFound) Error() string {
    return fmt.Sprintf("withdrawal request %d not found for campaign %d", e.RequestID, e.CampaignID)
}

func NewRequestNotFound(campaignID int, requestID int64) error {
    return &ErrRequestNotFound{CampaignID: campaignID, RequestID: requestID}
}

// Precondition violations: wrong caller, wrong status, campaign gates.
// Rejected synchronously with no state change; the caller resubmits with
// corrected inputs or waits for a state change.
var (
    ErrInactiveCampaign  = errors.New("campaign not active")
    ErrFrozen            = errors.New("campaign is frozen")
    ErrCampaignExpired   = errors.New("campaign ended")
    ErrGoalNotReached    = errors.New("goal not reached")
    ErrAllMilestonesDone = errors.New("all milestones completed")
    ErrNotAnApprover     = errors.New("not an approver")
    ErrAlreadyApproved   = errors.New("already approved")
    ErrNotCreator        = errors.New("only creator")
    ErrNotPendingAi      = errors.New("not pending AI verification")
    ErrNotInVotingPhase  = errors.New("not in voting phase")
    ErrVotingClosed      = errors.New("voting ended")
    ErrNotApproved       = errors.New("request not approved")
    ErrNotReleased       = errors.New("request not released yet")
    ErrApprovalsPending  = errors.New("milestone approvals pending")
)

// Resource violations: expected operational conditions, not bugs.
var (
    ErrBelowMinimum        = errors.New("contribution below minimum")
    ErrZeroAmount          = errors.New("zero amount")
    ErrExceedsAvailable    = errors.New("amount exceeds available funds")
    ErrInsufficientBalance = errors.New("insufficient escrow balance")
)

// Integrity violations: caller errors, never auto-corrected.
var (
    ErrDuplicateRequest = errors.New("request already exists")
    ErrNotADonor        = errors.New("not a donor")
    ErrAlreadyVoted     = errors.New("already voted")
    ErrInvalidScore     = errors.New("score must be between 0 and 100")
)
