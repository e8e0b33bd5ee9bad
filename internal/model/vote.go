// internal/model/vote.go
package model

import "time"

// Vote is write-once: the row's existence for a (campaign, request, voter)
// triple is itself the already-voted flag.
type Vote struct {
    ID           int       `db:"id" json:"id"`
    CampaignID   int       `db:"campaign_id" json:"campaign_id"`
    RequestID    int64     `db:"request_id" json:"request_id"`
    VoterAddress string    `db:"voter_address" json:"voter_address"`
    Approve      bool      `db:"approve" json:"approve"`
    CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
