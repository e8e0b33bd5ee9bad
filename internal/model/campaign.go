// internal/model/campaign.go
package model

import (
    "time"

    "github.com/lib/pq"
)

type Campaign struct {
    ID               int            `db:"id" json:"id"`
    CreatorAddress   string         `db:"creator_address" json:"creator_address"`
    GoalAmount       int64          `db:"goal_amount" json:"goal_amount"`
    RaisedAmount     int64          `db:"raised_amount" json:"raised_amount"`
    TotalReleased    int64          `db:"total_released" json:"total_released"`
    MilestoneCount   int64          `db:"milestone_count" json:"milestone_count"`
    CurrentMilestone int64          `db:"current_milestone" json:"current_milestone"`
    Deadline         int64          `db:"deadline" json:"deadline"` // unix seconds
    IsActive         bool           `db:"is_active" json:"is_active"`
    GoalReached      bool           `db:"goal_reached" json:"goal_reached"`
    IsFrozen         bool           `db:"is_frozen" json:"is_frozen"`
    VotingWindow     int64          `db:"voting_window" json:"voting_window"` // seconds
    RejectionCount   int64          `db:"rejection_count" json:"rejection_count"`
    RequestCount     int64          `db:"request_count" json:"request_count"`
    ContributorCount int64          `db:"contributor_count" json:"contributor_count"`
    Approvers        pq.StringArray `db:"approvers" json:"approvers"`
    Approvals        pq.BoolArray   `db:"approvals" json:"approvals"`
    CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}

// ApprovalCount returns how many of the three approvers have signed off on
// the current milestone.
func (c *Campaign) ApprovalCount() int {
    count := 0
    for _, a := range c.Approvals {
        if a {
            count++
        }
    }
    return count
}

// ApproverIndex returns the position of the given address in the approver
// set, or -1 if the address is not an approver.
func (c *Campaign) ApproverIndex(address string) int {
    for i, a := range c.Approvers {
        if a == address {
            return i
        }
    }
    return -1
}
