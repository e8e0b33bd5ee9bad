// internal/model/withdrawal_request.go
package model

// Withdrawal request status codes. Transitions only move forward:
// pending_ai -> ai_approved|pending_vote -> approved|rejected,
// approved -> released -> completed.
const (
    StatusPendingAi   = 0 // waiting for AI verification
    StatusAiApproved  = 1 // AI score >= 80, voting open
    StatusPendingVote = 2 // AI score < 80, voting open
    StatusApproved    = 3 // quorum reached in favor
    StatusRejected    = 4 // quorum reached against (terminal)
    StatusReleased    = 5 // funds paid out
    StatusCompleted   = 6 // spend proof submitted (terminal)
)

// StatusName maps a status code to its wire name.
func StatusName(status int64) string {
    switch status {
    case StatusPendingAi:
        return "pending_ai"
    case StatusAiApproved:
        return "ai_approved"
    case StatusPendingVote:
        return "pending_vote"
    case StatusApproved:
        return "approved"
    case StatusRejected:
        return "rejected"
    case StatusReleased:
        return "released"
    case StatusCompleted:
        return "completed"
    }
    return "unknown"
}

type WithdrawalRequest struct {
    ID             int    `db:"id" json:"-"`
    CampaignID     int    `db:"campaign_id" json:"campaign_id"`
    RequestID      int64  `db:"request_id" json:"request_id"` // caller-supplied, unique per campaign
    Amount         int64  `db:"amount" json:"amount"`
    Status         int64  `db:"status" json:"status"`
    AiScore        int64  `db:"ai_score" json:"ai_score"` // 0-100
    VotesFor       int64  `db:"votes_for" json:"votes_for"`
    VotesAgainst   int64  `db:"votes_against" json:"votes_against"`
    CreatedTs      int64  `db:"created_ts" json:"created_ts"`
    VotingDeadline int64  `db:"voting_deadline" json:"voting_deadline"` // 0 until AI verification opens voting
    PurposeHash    []byte `db:"purpose_hash" json:"purpose_hash"`
    QuotationHash  []byte `db:"quotation_hash" json:"quotation_hash"`
    ReceiptHash    []byte `db:"receipt_hash" json:"receipt_hash,omitempty"`
    ReceiptScore   int64  `db:"receipt_score" json:"receipt_score"` // advisory, recorded not enforced
}

// InVotingPhase reports whether donor votes are currently accepted for this
// request's status. The voting deadline is checked separately.
func (r *WithdrawalRequest) InVotingPhase() bool {
    return r.Status == StatusAiApproved || r.Status == StatusPendingVote
}
