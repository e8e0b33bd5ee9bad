// internal/service/escrow_service.go
package service

import (
    "log"
    "sync"

    appErrors "github.com/campuschain/escrow-backend/internal/errors"
    "github.com/campuschain/escrow-backend/internal/ledger"
    "github.com/campuschain/escrow-backend/internal/model"
    "github.com/campuschain/escrow-backend/internal/queue"
    "github.com/campuschain/escrow-backend/internal/repository"
)

const (
    // AiApprovalScore is the confidence cutoff: at or above it a request
    // skips straight to ai_approved, below it donors must weigh in from
    // pending_vote. Voting runs in both cases.
    AiApprovalScore int64 = 80

    // FreezeThreshold is the number of terminal rejections that trips the
    // campaign-wide freeze. The freeze never clears.
    FreezeThreshold int64 = 3

    // AiVerificationTopic is the queue topic scoring jobs are published on.
    AiVerificationTopic = "ai_verifications"
)

type EscrowService struct {
    CampaignRepo repository.CampaignRepositoryInterface
    DonorRepo    repository.DonorRepositoryInterface
    RequestRepo  repository.RequestRepositoryInterface
    Ledger       ledger.Ledger
    Queue        queue.Queue

    mu sync.Mutex
}

// Result struct for VoteOnRequest
type VoteResult struct {
    CampaignID      int    `json:"campaign_id"`
    RequestID       int64  `json:"request_id"`
    Status          int64  `json:"status"`
    StatusName      string `json:"status_name"`
    VotesFor        int64  `json:"votes_for"`
    VotesAgainst    int64  `json:"votes_against"`
    ApprovalPercent int64  `json:"approval_percent"`
    CampaignFrozen  bool   `json:"campaign_frozen"`
}

// EscrowStatus mirrors the aggregate escrow counters plus per-status
// request counts.
type EscrowStatus struct {
    CampaignID     int            `json:"campaign_id"`
    TotalReleased  int64          `json:"total_released"`
    RequestCount   int64          `json:"request_count"`
    RejectionCount int64          `json:"rejection_count"`
    IsFrozen       bool           `json:"is_frozen"`
    RequestStats   map[string]int `json:"request_stats"`
}

// SubmitWithdrawalRequest creates a new request in pending_ai with zeroed
// score and tallies and no voting deadline yet, then queues a scoring job.
func (s *EscrowService) SubmitWithdrawalRequest(campaignID int, caller string, requestID, amount int64, purposeHash, quotationHash []byte) (*model.WithdrawalRequest, error) {
    s.mu.Lock()
    defer s.mu.Unlock()

    c, err := s.CampaignRepo.GetByID(campaignID)
    if err != nil {
        return nil, err
    }

    if caller != c.CreatorAddress {
        return nil, appErrors.ErrNotCreator
    }
    if c.IsFrozen {
        return nil, appErrors.ErrFrozen
    }
    if !c.GoalReached {
        return nil, appErrors.ErrGoalNotReached
    }
    if amount <= 0 {
        return nil, appErrors.ErrZeroAmount
    }
    remaining := c.RaisedAmount - c.TotalReleased
    if amount > remaining {
        return nil, appErrors.ErrExceedsAvailable
    }

    req := &model.WithdrawalRequest{
        CampaignID:    campaignID,
        RequestID:     requestID,
        Amount:        amount,
        Status:        model.StatusPendingAi,
        CreatedTs:     s.Ledger.Now(),
        PurposeHash:   purposeHash,
        QuotationHash: quotationHash,
    }
    if err := s.RequestRepo.Create(req); err != nil {
        return nil, err
    }

    c.RequestCount++
    if err := s.CampaignRepo.Update(c); err != nil {
        return nil, err
    }

    if s.Queue != nil {
        job := queue.VerificationJob{CampaignID: campaignID, RequestID: requestID}
        if err := s.Queue.Publish(AiVerificationTopic, job); err != nil {
            log.Println("⚠️ failed to enqueue AI verification for request", requestID, ":", err)
        }
    }

    return req, nil
}

// RecordAiVerification stores the scorer's confidence and opens the voting
// window. This is the only call that opens voting: no vote is accepted
// before it.
func (s *EscrowService) RecordAiVerification(campaignID int, requestID, score int64) (*model.WithdrawalRequest, error) {
    s.mu.Lock()
    defer s.mu.Unlock()

    if score < 0 || score > 100 {
        return nil, appErrors.ErrInvalidScore
    }

    c, err := s.CampaignRepo.GetByID(campaignID)
    if err != nil {
        return nil, err
    }
    req, err := s.RequestRepo.GetByRequestID(campaignID, requestID)
    if err != nil {
        return nil, err
    }

    if req.Status != model.StatusPendingAi {
        return nil, appErrors.ErrNotPendingAi
    }

    if score >= AiApprovalScore {
        req.Status = model.StatusAiApproved
    } else {
        req.Status = model.StatusPendingVote
    }
    req.AiScore = score
    req.VotingDeadline = s.Ledger.Now() + c.VotingWindow

    if err := s.RequestRepo.Update(req); err != nil {
        return nil, err
    }
    return req, nil
}

// VoteOnRequest casts a write-once, weight-proportional vote. Weight is the
// donor's cumulative contribution and the quorum threshold is a strict
// majority of total raised funds, not of votes cast: a low-turnout request
// simply stays unresolved.
func (s *EscrowService) VoteOnRequest(campaignID int, requestID int64, voter string, approve bool) (*VoteResult, error) {
    s.mu.Lock()
    defer s.mu.Unlock()

    c, err := s.CampaignRepo.GetByID(campaignID)
    if err != nil {
        return nil, err
    }
    req, err := s.RequestRepo.GetByRequestID(campaignID, requestID)
    if err != nil {
        return nil, err
    }

    if !req.InVotingPhase() {
        return nil, appErrors.ErrNotInVotingPhase
    }
    if s.Ledger.Now() > req.VotingDeadline {
        return nil, appErrors.ErrVotingClosed
    }

    donor, err := s.DonorRepo.GetByAddress(campaignID, voter)
    if err != nil {
        return nil, err
    }
    if donor == nil {
        return nil, appErrors.ErrNotADonor
    }

    voted, err := s.RequestRepo.HasVoted(campaignID, requestID, voter)
    if err != nil {
        return nil, err
    }
    if voted {
        return nil, appErrors.ErrAlreadyVoted
    }

    vote := &model.Vote{
        CampaignID:   campaignID,
        RequestID:    requestID,
        VoterAddress: voter,
        Approve:      approve,
    }
    if err := s.RequestRepo.CreateVote(vote); err != nil {
        return nil, err
    }

    if approve {
        req.VotesFor += donor.TotalDonated
    } else {
        req.VotesAgainst += donor.TotalDonated
    }

    threshold := c.RaisedAmount / 2
    if req.VotesFor > threshold {
        req.Status = model.StatusApproved
    } else if req.VotesAgainst > threshold {
        req.Status = model.StatusRejected
        c.RejectionCount++
        if c.RejectionCount >= FreezeThreshold {
            c.IsFrozen = true
        }
        if err := s.CampaignRepo.Update(c); err != nil {
            return nil, err
        }
    }

    if err := s.RequestRepo.Update(req); err != nil {
        return nil, err
    }

    percent := int64(0)
    if total := req.VotesFor + req.VotesAgainst; total > 0 {
        percent = req.VotesFor * 100 / total
    }

    return &VoteResult{
        CampaignID:      campaignID,
        RequestID:       requestID,
        Status:          req.Status,
        StatusName:      model.StatusName(req.Status),
        VotesFor:        req.VotesFor,
        VotesAgainst:    req.VotesAgainst,
        ApprovalPercent: percent,
        CampaignFrozen:  c.IsFrozen,
    }, nil
}

// ReleaseRequestFunds pays out an approved request to the creator.
func (s *EscrowService) ReleaseRequestFunds(campaignID int, caller string, requestID int64) (*model.WithdrawalRequest, error) {
    s.mu.Lock()
    defer s.mu.Unlock()

    c, err := s.CampaignRepo.GetByID(campaignID)
    if err != nil {
        return nil, err
    }
    if caller != c.CreatorAddress {
        return nil, appErrors.ErrNotCreator
    }

    req, err := s.RequestRepo.GetByRequestID(campaignID, requestID)
    if err != nil {
        return nil, err
    }
    if req.Status != model.StatusApproved {
        return nil, appErrors.ErrNotApproved
    }

    balance, err := s.Ledger.Balance()
    if err != nil {
        return nil, err
    }
    if balance < req.Amount+ledger.MinReserve {
        return nil, appErrors.ErrInsufficientBalance
    }

    if err := s.Ledger.Transfer(c.CreatorAddress, req.Amount); err != nil {
        return nil, err
    }

    c.TotalReleased += req.Amount
    if err := s.CampaignRepo.Update(c); err != nil {
        return nil, err
    }

    req.Status = model.StatusReleased
    if err := s.RequestRepo.Update(req); err != nil {
        return nil, err
    }
    return req, nil
}

// SubmitSpendProof attaches the post-spend receipt to a released request.
// The receipt score is recorded verbatim and never compared to a threshold.
func (s *EscrowService) SubmitSpendProof(campaignID int, caller string, requestID int64, receiptHash []byte, receiptScore int64) (*model.WithdrawalRequest, error) {
    s.mu.Lock()
    defer s.mu.Unlock()

    c, err := s.CampaignRepo.GetByID(campaignID)
    if err != nil {
        return nil, err
    }
    if caller != c.CreatorAddress {
        return nil, appErrors.ErrNotCreator
    }

    req, err := s.RequestRepo.GetByRequestID(campaignID, requestID)
    if err != nil {
        return nil, err
    }
    if req.Status != model.StatusReleased {
        return nil, appErrors.ErrNotReleased
    }

    req.ReceiptHash = receiptHash
    req.ReceiptScore = receiptScore
    req.Status = model.StatusCompleted

    if err := s.RequestRepo.Update(req); err != nil {
        return nil, err
    }
    return req, nil
}

// GetRequestInfo fetches a withdrawal request by its caller-supplied ID
func (s *EscrowService) GetRequestInfo(campaignID int, requestID int64) (*model.WithdrawalRequest, error) {
    return s.RequestRepo.GetByRequestID(campaignID, requestID)
}

// GetEscrowStatus returns the campaign's escrow counters and request stats.
func (s *EscrowService) GetEscrowStatus(campaignID int) (*EscrowStatus, error) {
    c, err := s.CampaignRepo.GetByID(campaignID)
    if err != nil {
        return nil, err
    }

    stats, err := s.CampaignRepo.GetRequestStats(campaignID)
    if err != nil {
        return nil, err
    }

    return &EscrowStatus{
        CampaignID:     campaignID,
        TotalReleased:  c.TotalReleased,
        RequestCount:   c.RequestCount,
        RejectionCount: c.RejectionCount,
        IsFrozen:       c.IsFrozen,
        RequestStats:   stats,
    }, nil
}

// GetDonorWeight returns the donor's voting weight, 0 if the address never
// donated.
func (s *EscrowService) GetDonorWeight(campaignID int, address string) (int64, error) {
    donor, err := s.DonorRepo.GetByAddress(campaignID, address)
    if err != nil {
        return 0, err
    }
    if donor == nil {
        return 0, nil
    }
    return donor.TotalDonated, nil
}
