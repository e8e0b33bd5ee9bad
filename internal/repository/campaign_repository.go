package repository

import (
    "database/sql"
    "time"

    appErrors "github.com/campuschain/escrow-backend/internal/errors"
    "github.com/campuschain/escrow-backend/internal/model"
)

type CampaignRepositoryInterface interface {
    Create(c *model.Campaign) error
    GetByID(id int) (*model.Campaign, error)
    Update(c *model.Campaign) error
    GetRequestStats(campaignID int) (map[string]int, error)
}

type CampaignRepository struct {
    DB *sql.DB
}

func (r *CampaignRepository) Create(c *model.Campaign) error {
    c.CreatedAt = time.Now()
    query := `
        INSERT INTO campaigns
            (creator_address, goal_amount, raised_amount, total_released,
             milestone_count, current_milestone, deadline, is_active, goal_reached,
             is_frozen, voting_window, rejection_count, request_count,
             contributor_count, approvers, approvals, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
        RETURNING id
    `
    return r.DB.QueryRow(query,
        c.CreatorAddress, c.GoalAmount, c.RaisedAmount, c.TotalReleased,
        c.MilestoneCount, c.CurrentMilestone, c.Deadline, c.IsActive, c.GoalReached,
        c.IsFrozen, c.VotingWindow, c.RejectionCount, c.RequestCount,
        c.ContributorCount, c.Approvers, c.Approvals, c.CreatedAt,
    ).Scan(&c.ID)
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
    query := `
        SELECT id, creator_address, goal_amount, raised_amount, total_released,
               milestone_count, current_milestone, deadline, is_active, goal_reached,
               is_frozen, voting_window, rejection_count, request_count,
               contributor_count, approvers, approvals, created_at
        FROM campaigns WHERE id=$1
    `
    var c model.Campaign
    err := r.DB.QueryRow(query, id).Scan(
        &c.ID, &c.CreatorAddress, &c.GoalAmount, &c.RaisedAmount, &c.TotalReleased,
        &c.MilestoneCount, &c.CurrentMilestone, &c.Deadline, &c.IsActive, &c.GoalReached,
        &c.IsFrozen, &c.VotingWindow, &c.RejectionCount, &c.RequestCount,
        &c.ContributorCount, &c.Approvers, &c.Approvals, &c.CreatedAt,
    )
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, appErrors.NewCampaignNotFound(id)
        }
        return nil, err
    }
    return &c, nil
}

// Update writes back every mutable aggregate field. Callers load the full
// row first, apply one transition, then call Update (read-modify-write).
func (r *CampaignRepository) Update(c *model.Campaign) error {
    query := `
        UPDATE campaigns
        SET raised_amount=$1, total_released=$2, current_milestone=$3,
            is_active=$4, goal_reached=$5, is_frozen=$6, rejection_count=$7,
            request_count=$8, contributor_count=$9, approvals=$10
        WHERE id=$11
    `
    _, err := r.DB.Exec(query,
        c.RaisedAmount, c.TotalReleased, c.CurrentMilestone,
        c.IsActive, c.GoalReached, c.IsFrozen, c.RejectionCount,
        c.RequestCount, c.ContributorCount, c.Approvals, c.ID,
    )
    return err
}

// GetRequestStats returns withdrawal request counts grouped by status name.
func (r *CampaignRepository) GetRequestStats(campaignID int) (map[string]int, error) {
    query := `SELECT status, COUNT(*) FROM withdrawal_requests WHERE campaign_id=$1 GROUP BY status`
    rows, err := r.DB.Query(query, campaignID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    stats := map[string]int{}
    for rows.Next() {
        var status int64
        var count int
        if err := rows.Scan(&status, &count); err != nil {
            return nil, err
        }
        stats[model.StatusName(status)] = count
    }
    return stats, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
