package repository

import (
	"database/sql"

	"github.com/campuschain/escrow-backend/internal/model"
)

// DonorRepositoryInterface defines methods used by services
type DonorRepositoryInterface interface {
	AddContribution(campaignID int, address string, amount int64) (*model.Donor, bool, error)
	GetByAddress(campaignID int, address string) (*model.Donor, error)
}

// DonorRepository is the concrete implementation
type DonorRepository struct {
	DB *sql.DB
}

// AddContribution creates the donor row on first contribution and adds to
// the cumulative total on subsequent ones. Returns the updated donor and
// whether the row was newly created.
func (r *DonorRepository) AddContribution(campaignID int, address string, amount int64) (*model.Donor, bool, error) {
	existing, err := r.GetByAddress(campaignID, address)
	if err != nil {
		return nil, false, err
	}

	if existing == nil {
		query := `
            INSERT INTO donors (campaign_id, address, total_donated)
            VALUES ($1, $2, $3)
            RETURNING id
        `
		d := &model.Donor{CampaignID: campaignID, Address: address, TotalDonated: amount}
		if err := r.DB.QueryRow(query, campaignID, address, amount).Scan(&d.ID); err != nil {
			return nil, false, err
		}
		return d, true, nil
	}

	query := `
        UPDATE donors SET total_donated = total_donated + $1
        WHERE campaign_id=$2 AND address=$3
        RETURNING total_donated
    `
	if err := r.DB.QueryRow(query, amount, campaignID, address).Scan(&existing.TotalDonated); err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// GetByAddress fetches a donor record, or nil if the address never donated
func (r *DonorRepository) GetByAddress(campaignID int, address string) (*model.Donor, error) {
	query := `
        SELECT id, campaign_id, address, total_donated
        FROM donors
        WHERE campaign_id = $1 AND address = $2
    `
	row := r.DB.QueryRow(query, campaignID, address)

	var d model.Donor
	if err := row.Scan(&d.ID, &d.CampaignID, &d.Address, &d.TotalDonated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return &d, nil
}

var _ DonorRepositoryInterface = (*DonorRepository)(nil)
