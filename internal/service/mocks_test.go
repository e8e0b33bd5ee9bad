package service_test

import (
	"fmt"
	"sync"
	"time"

	appErrors "github.com/campuschain/escrow-backend/internal/errors"
	"github.com/campuschain/escrow-backend/internal/model"
)

// In-memory repositories backing the service tests. They share one store so
// request stats and vote uniqueness behave like the real schema, and they
// copy records on read/write so a service that forgets to call Update is
// caught.

type memStore struct {
	mu        sync.Mutex
	campaigns map[int]*model.Campaign
	donors    map[string]*model.Donor
	requests  map[string]*model.WithdrawalRequest
	votes     map[string]*model.Vote
	nextID    int
}

func newMemStore() *memStore {
	return &memStore{
		campaigns: map[int]*model.Campaign{},
		donors:    map[string]*model.Donor{},
		requests:  map[string]*model.WithdrawalRequest{},
		votes:     map[string]*model.Vote{},
	}
}

func donorKey(campaignID int, address string) string {
	return fmt.Sprintf("%d/%s", campaignID, address)
}

func requestKey(campaignID int, requestID int64) string {
	return fmt.Sprintf("%d/%d", campaignID, requestID)
}

func voteKey(campaignID int, requestID int64, voter string) string {
	return fmt.Sprintf("%d/%d/%s", campaignID, requestID, voter)
}

func copyCampaign(c *model.Campaign) *model.Campaign {
	cp := *c
	cp.Approvers = append([]string(nil), c.Approvers...)
	cp.Approvals = append([]bool(nil), c.Approvals...)
	return &cp
}

// --- CampaignRepositoryInterface ---

type memCampaignRepo struct {
	store *memStore
}

func (r *memCampaignRepo) Create(c *model.Campaign) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextID++
	c.ID = r.store.nextID
	c.CreatedAt = time.Now()
	r.store.campaigns[c.ID] = copyCampaign(c)
	return nil
}

func (r *memCampaignRepo) GetByID(id int) (*model.Campaign, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	return copyCampaign(c), nil
}

func (r *memCampaignRepo) Update(c *model.Campaign) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.campaigns[c.ID]; !ok {
		return appErrors.NewCampaignNotFound(c.ID)
	}
	r.store.campaigns[c.ID] = copyCampaign(c)
	return nil
}

func (r *memCampaignRepo) GetRequestStats(campaignID int) (map[string]int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stats := map[string]int{}
	for _, req := range r.store.requests {
		if req.CampaignID == campaignID {
			stats[model.StatusName(req.Status)]++
		}
	}
	return stats, nil
}

// --- DonorRepositoryInterface ---

type memDonorRepo struct {
	store *memStore
}

func (r *memDonorRepo) AddContribution(campaignID int, address string, amount int64) (*model.Donor, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := donorKey(campaignID, address)
	if d, ok := r.store.donors[key]; ok {
		d.TotalDonated += amount
		cp := *d
		return &cp, false, nil
	}
	r.store.nextID++
	d := &model.Donor{ID: r.store.nextID, CampaignID: campaignID, Address: address, TotalDonated: amount}
	r.store.donors[key] = d
	cp := *d
	return &cp, true, nil
}

func (r *memDonorRepo) GetByAddress(campaignID int, address string) (*model.Donor, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d, ok := r.store.donors[donorKey(campaignID, address)]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

// --- RequestRepositoryInterface ---

type memRequestRepo struct {
	store *memStore
}

func (r *memRequestRepo) Create(req *model.WithdrawalRequest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := requestKey(req.CampaignID, req.RequestID)
	if _, ok := r.store.requests[key]; ok {
		return appErrors.ErrDuplicateRequest
	}
	r.store.nextID++
	req.ID = r.store.nextID
	cp := *req
	r.store.requests[key] = &cp
	return nil
}

func (r *memRequestRepo) GetByRequestID(campaignID int, requestID int64) (*model.WithdrawalRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	req, ok := r.store.requests[requestKey(campaignID, requestID)]
	if !ok {
		return nil, appErrors.NewRequestNotFound(campaignID, requestID)
	}
	cp := *req
	return &cp, nil
}

func (r *memRequestRepo) Update(req *model.WithdrawalRequest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := requestKey(req.CampaignID, req.RequestID)
	if _, ok := r.store.requests[key]; !ok {
		return appErrors.NewRequestNotFound(req.CampaignID, req.RequestID)
	}
	cp := *req
	r.store.requests[key] = &cp
	return nil
}

func (r *memRequestRepo) CreateVote(v *model.Vote) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := voteKey(v.CampaignID, v.RequestID, v.VoterAddress)
	if _, ok := r.store.votes[key]; ok {
		return appErrors.ErrAlreadyVoted
	}
	r.store.nextID++
	v.ID = r.store.nextID
	v.CreatedAt = time.Now()
	cp := *v
	r.store.votes[key] = &cp
	return nil
}

func (r *memRequestRepo) HasVoted(campaignID int, requestID int64, voter string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	_, ok := r.store.votes[voteKey(campaignID, requestID, voter)]
	return ok, nil
}
