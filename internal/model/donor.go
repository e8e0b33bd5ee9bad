// internal/model/donor.go
package model

type Donor struct {
    ID           int    `db:"id" json:"id"`
    CampaignID   int    `db:"campaign_id" json:"campaign_id"`
    Address      string `db:"address" json:"address"`
    TotalDonated int64  `db:"total_donated" json:"total_donated"` // vote weight, never decreases
}
