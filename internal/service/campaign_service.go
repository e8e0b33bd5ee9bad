// internal/service/campaign_service.go
package service

import (
    "fmt"
    "sync"

    "github.com/lib/pq"

    appErrors "github.com/campuschain/escrow-backend/internal/errors"
    "github.com/campuschain/escrow-backend/internal/ledger"
    "github.com/campuschain/escrow-backend/internal/model"
    "github.com/campuschain/escrow-backend/internal/repository"
)

const (
    // MinContribution is the smallest accepted donation, in base units.
    MinContribution int64 = 100000

    // DefaultVotingWindow is how long voting stays open once the AI
    // verification lands: 48 hours, in seconds.
    DefaultVotingWindow int64 = 172800

    // ApproverCount is the fixed size of the milestone multisig board.
    ApproverCount = 3
)

type CampaignService struct {
    CampaignRepo repository.CampaignRepositoryInterface
    DonorRepo    repository.DonorRepositoryInterface
    Ledger       ledger.Ledger

    mu sync.Mutex
}

// Result struct for Contribute
type ContributeResult struct {
    CampaignID   int   `json:"campaign_id"`
    RaisedAmount int64 `json:"raised_amount"`
    DonorWeight  int64 `json:"donor_weight"`
    GoalReached  bool  `json:"goal_reached"`
}

// Result struct for ReleaseMilestone
type ReleaseMilestoneResult struct {
    CampaignID       int   `json:"campaign_id"`
    CurrentMilestone int64 `json:"current_milestone"`
    AmountReleased   int64 `json:"amount_released"`
    TotalReleased    int64 `json:"total_released"`
}

func (s *CampaignService) CreateCampaign(creator string, goal, milestones, deadline, votingWindow int64, approvers []string) (*model.Campaign, error) {
    if goal <= 0 {
        return nil, fmt.Errorf("goal must be positive")
    }
    if milestones <= 0 {
        return nil, fmt.Errorf("milestone count must be positive")
    }
    if len(approvers) != ApproverCount {
        return nil, fmt.Errorf("exactly %d approvers required, got %d", ApproverCount, len(approvers))
    }
    if votingWindow <= 0 {
        votingWindow = DefaultVotingWindow
    }

    c := &model.Campaign{
        CreatorAddress: creator,
        GoalAmount:     goal,
        MilestoneCount: milestones,
        Deadline:       deadline,
        IsActive:       true,
        VotingWindow:   votingWindow,
        Approvers:      pq.StringArray(approvers),
        Approvals:      pq.BoolArray(make([]bool, ApproverCount)),
    }

    if err := s.CampaignRepo.Create(c); err != nil {
        return nil, err
    }
    return c, nil
}

// Contribute records a donation: bumps the raised total and contributor
// count, updates the donor's cumulative weight and latches goal_reached
// once the goal is crossed.
func (s *CampaignService) Contribute(campaignID int, donorAddress string, amount int64) (*ContributeResult, error) {
    s.mu.Lock()
    defer s.mu.Unlock()

    c, err := s.CampaignRepo.GetByID(campaignID)
    if err != nil {
        return nil, err
    }

    if !c.IsActive {
        return nil, appErrors.ErrInactiveCampaign
    }
    if c.IsFrozen {
        return nil, appErrors.ErrFrozen
    }
    if s.Ledger.Now() > c.Deadline {
        return nil, appErrors.ErrCampaignExpired
    }
    if amount < MinContribution {
        return nil, appErrors.ErrBelowMinimum
    }

    donor, _, err := s.DonorRepo.AddContribution(campaignID, donorAddress, amount)
    if err != nil {
        return nil, err
    }

    c.RaisedAmount += amount
    c.ContributorCount++
    if c.RaisedAmount >= c.GoalAmount {
        c.GoalReached = true
    }

    if err := s.CampaignRepo.Update(c); err != nil {
        return nil, err
    }

    return &ContributeResult{
        CampaignID:   campaignID,
        RaisedAmount: c.RaisedAmount,
        DonorWeight:  donor.TotalDonated,
        GoalReached:  c.GoalReached,
    }, nil
}

// ApproveMilestone records one approver's sign-off on the current milestone
// and returns how many of the three have signed so far.
func (s *CampaignService) ApproveMilestone(campaignID int, approverAddress string) (int, error) {
    s.mu.Lock()
    defer s.mu.Unlock()

    c, err := s.CampaignRepo.GetByID(campaignID)
    if err != nil {
        return 0, err
    }

    if !c.GoalReached {
        return 0, appErrors.ErrGoalNotReached
    }
    if c.CurrentMilestone >= c.MilestoneCount {
        return 0, appErrors.ErrAllMilestonesDone
    }

    idx := c.ApproverIndex(approverAddress)
    if idx < 0 {
        return 0, appErrors.ErrNotAnApprover
    }
    if c.Approvals[idx] {
        return 0, appErrors.ErrAlreadyApproved
    }
    c.Approvals[idx] = true

    if err := s.CampaignRepo.Update(c); err != nil {
        return 0, err
    }
    return c.ApprovalCount(), nil
}

// ReleaseMilestone pays out goal/milestoneCount to the creator once all
// three approvals are in, then advances the milestone and resets the board.
// Integer division leaves any remainder on the final milestone unpaid; that
// matches the funding contract and is not corrected here.
func (s *CampaignService) ReleaseMilestone(campaignID int, caller string) (*ReleaseMilestoneResult, error) {
    s.mu.Lock()
    defer s.mu.Unlock()

    c, err := s.CampaignRepo.GetByID(campaignID)
    if err != nil {
        return nil, err
    }

    if caller != c.CreatorAddress {
        return nil, appErrors.ErrNotCreator
    }
    if c.CurrentMilestone >= c.MilestoneCount {
        return nil, appErrors.ErrAllMilestonesDone
    }
    if !c.GoalReached {
        return nil, appErrors.ErrGoalNotReached
    }
    if c.ApprovalCount() < ApproverCount {
        return nil, appErrors.ErrApprovalsPending
    }

    amountPerMilestone := c.GoalAmount / c.MilestoneCount

    balance, err := s.Ledger.Balance()
    if err != nil {
        return nil, err
    }
    if balance < amountPerMilestone+ledger.MinReserve {
        return nil, appErrors.ErrInsufficientBalance
    }

    if err := s.Ledger.Transfer(c.CreatorAddress, amountPerMilestone); err != nil {
        return nil, err
    }

    c.CurrentMilestone++
    c.TotalReleased += amountPerMilestone
    for i := range c.Approvals {
        c.Approvals[i] = false
    }

    if err := s.CampaignRepo.Update(c); err != nil {
        return nil, err
    }

    return &ReleaseMilestoneResult{
        CampaignID:       campaignID,
        CurrentMilestone: c.CurrentMilestone,
        AmountReleased:   amountPerMilestone,
        TotalReleased:    c.TotalReleased,
    }, nil
}

// GetStatus fetches the campaign aggregate by ID
func (s *CampaignService) GetStatus(campaignID int) (*model.Campaign, error) {
    return s.CampaignRepo.GetByID(campaignID)
}
