package repository

import (
    "database/sql"

    "github.com/lib/pq"

    appErrors "github.com/campuschain/escrow-backend/internal/errors"
    "github.com/campuschain/escrow-backend/internal/model"
)

type RequestRepositoryInterface interface {
    Create(req *model.WithdrawalRequest) error
    GetByRequestID(campaignID int, requestID int64) (*model.WithdrawalRequest, error)
    Update(req *model.WithdrawalRequest) error
    CreateVote(v *model.Vote) error
    HasVoted(campaignID int, requestID int64, voter string) (bool, error)
}

type RequestRepository struct {
    DB *sql.DB
}

// Create inserts a new withdrawal request. A duplicate caller-supplied
// request id surfaces as ErrDuplicateRequest via the unique index on
// (campaign_id, request_id).
func (r *RequestRepository) Create(req *model.WithdrawalRequest) error {
    query := `
        INSERT INTO withdrawal_requests
            (campaign_id, request_id, amount, status, ai_score, votes_for,
             votes_against, created_ts, voting_deadline, purpose_hash,
             quotation_hash, receipt_hash, receipt_score)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING id
    `
    err := r.DB.QueryRow(query,
        req.CampaignID, req.RequestID, req.Amount, req.Status, req.AiScore,
        req.VotesFor, req.VotesAgainst, req.CreatedTs, req.VotingDeadline,
        req.PurposeHash, req.QuotationHash, req.ReceiptHash, req.ReceiptScore,
    ).Scan(&req.ID)
    if err != nil {
        if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
            return appErrors.ErrDuplicateRequest
        }
        return err
    }
    return nil
}

func (r *RequestRepository) GetByRequestID(campaignID int, requestID int64) (*model.WithdrawalRequest, error) {
    query := `
        SELECT id, campaign_id, request_id, amount, status, ai_score, votes_for,
               votes_against, created_ts, voting_deadline, purpose_hash,
               quotation_hash, receipt_hash, receipt_score
        FROM withdrawal_requests
        WHERE campaign_id=$1 AND request_id=$2
    `
    var req model.WithdrawalRequest
    err := r.DB.QueryRow(query, campaignID, requestID).Scan(
        &req.ID, &req.CampaignID, &req.RequestID, &req.Amount, &req.Status,
        &req.AiScore, &req.VotesFor, &req.VotesAgainst, &req.CreatedTs,
        &req.VotingDeadline, &req.PurposeHash, &req.QuotationHash,
        &req.ReceiptHash, &req.ReceiptScore,
    )
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, appErrors.NewRequestNotFound(campaignID, requestID)
        }
        return nil, err
    }
    return &req, nil
}

// Update writes back every mutable field of the request record.
func (r *RequestRepository) Update(req *model.WithdrawalRequest) error {
    query := `
        UPDATE withdrawal_requests
        SET status=$1, ai_score=$2, votes_for=$3, votes_against=$4,
            voting_deadline=$5, receipt_hash=$6, receipt_score=$7
        WHERE campaign_id=$8 AND request_id=$9
    `
    _, err := r.DB.Exec(query,
        req.Status, req.AiScore, req.VotesFor, req.VotesAgainst,
        req.VotingDeadline, req.ReceiptHash, req.ReceiptScore,
        req.CampaignID, req.RequestID,
    )
    return err
}

// CreateVote records a write-once vote. A second vote by the same donor on
// the same request hits the unique index and comes back as ErrAlreadyVoted.
func (r *RequestRepository) CreateVote(v *model.Vote) error {
    query := `
        INSERT INTO votes (campaign_id, request_id, voter_address, approve, created_at)
        VALUES ($1, $2, $3, $4, NOW())
        RETURNING id, created_at
    `
    err := r.DB.QueryRow(query, v.CampaignID, v.RequestID, v.VoterAddress, v.Approve).
        Scan(&v.ID, &v.CreatedAt)
    if err != nil {
        if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
            return appErrors.ErrAlreadyVoted
        }
        return err
    }
    return nil
}

func (r *RequestRepository) HasVoted(campaignID int, requestID int64, voter string) (bool, error) {
    query := `
        SELECT 1 FROM votes
        WHERE campaign_id=$1 AND request_id=$2 AND voter_address=$3
        LIMIT 1
    `
    var tmp int
    err := r.DB.QueryRow(query, campaignID, requestID, voter).Scan(&tmp)
    if err != nil {
        if err == sql.ErrNoRows {
            return false, nil
        }
        return false, err
    }
    return true, nil
}

var _ RequestRepositoryInterface = (*RequestRepository)(nil)
