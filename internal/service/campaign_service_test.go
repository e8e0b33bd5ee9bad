package service_test

import (
	"testing"

	appErrors "github.com/campuschain/escrow-backend/internal/errors"
	"github.com/campuschain/escrow-backend/internal/ledger"
	"github.com/campuschain/escrow-backend/internal/service"
)

func newCampaignService(store *memStore, led *ledger.MockLedger) *service.CampaignService {
	return &service.CampaignService{
		CampaignRepo: &memCampaignRepo{store: store},
		DonorRepo:    &memDonorRepo{store: store},
		Ledger:       led,
	}
}

func TestCreateCampaignValidation(t *testing.T) {
	svc := newCampaignService(newMemStore(), ledger.NewMockLedger(0))

	if _, err := svc.CreateCampaign(creator, 0, 3, baseTime, 0, approvers); err == nil {
		t.Error("expected error for zero goal")
	}
	if _, err := svc.CreateCampaign(creator, 1000, 0, baseTime, 0, approvers); err == nil {
		t.Error("expected error for zero milestones")
	}
	if _, err := svc.CreateCampaign(creator, 1000, 3, baseTime, 0, approvers[:2]); err == nil {
		t.Error("expected error for two approvers")
	}

	c, err := svc.CreateCampaign(creator, 1000000, 4, baseTime+100000, 0, approvers)
	if err != nil {
		t.Fatal(err)
	}
	if c.VotingWindow != service.DefaultVotingWindow {
		t.Errorf("expected default voting window %d, got %d", service.DefaultVotingWindow, c.VotingWindow)
	}
	if c.GoalReached || c.IsFrozen || c.CurrentMilestone != 0 || c.RejectionCount != 0 {
		t.Errorf("fresh campaign must start zeroed: %+v", c)
	}
	if len(c.Approvals) != 3 || c.Approvals[0] || c.Approvals[1] || c.Approvals[2] {
		t.Errorf("approvals must start cleared: %v", c.Approvals)
	}
}

func TestContributeGates(t *testing.T) {
	led := ledger.NewMockLedger(0)
	led.SetNow(baseTime)
	svc := newCampaignService(newMemStore(), led)

	c, _ := svc.CreateCampaign(creator, 1000000, 4, baseTime+1000, 0, approvers)

	if _, err := svc.Contribute(c.ID, donor1, 99999); err != appErrors.ErrBelowMinimum {
		t.Errorf("expected ErrBelowMinimum, got %v", err)
	}
	if _, err := svc.Contribute(c.ID, donor1, 100000); err != nil {
		t.Errorf("minimum contribution must pass: %v", err)
	}

	led.SetNow(baseTime + 1001)
	if _, err := svc.Contribute(c.ID, donor1, 200000); err != appErrors.ErrCampaignExpired {
		t.Errorf("expected ErrCampaignExpired, got %v", err)
	}

	if _, err := svc.Contribute(999, donor1, 200000); err == nil {
		t.Error("expected not-found error for unknown campaign")
	}
}

func TestContributeReachesGoal(t *testing.T) {
	led := ledger.NewMockLedger(0)
	led.SetNow(baseTime)
	svc := newCampaignService(newMemStore(), led)

	c, _ := svc.CreateCampaign(creator, 1000000, 4, baseTime+100000, 0, approvers)

	res, err := svc.Contribute(c.ID, donor1, 600000)
	if err != nil {
		t.Fatal(err)
	}
	if res.GoalReached {
		t.Error("600k of 1m must not reach the goal")
	}

	res, err = svc.Contribute(c.ID, donor2, 400000)
	if err != nil {
		t.Fatal(err)
	}
	if !res.GoalReached {
		t.Error("1m of 1m must reach the goal")
	}
	if res.RaisedAmount != 1000000 {
		t.Errorf("expected raised 1000000, got %d", res.RaisedAmount)
	}

	// goal_reached latches: further donations keep it set
	res, _ = svc.Contribute(c.ID, donor3, 100000)
	if !res.GoalReached {
		t.Error("goal_reached must never reset")
	}

	got, _ := svc.GetStatus(c.ID)
	if got.ContributorCount != 3 {
		t.Errorf("expected contributor count 3, got %d", got.ContributorCount)
	}
}

func TestApproveMilestone(t *testing.T) {
	env := newTestEnv(t)

	// unknown address
	if _, err := env.campaigns.ApproveMilestone(env.campaignID, outsider); err != appErrors.ErrNotAnApprover {
		t.Errorf("expected ErrNotAnApprover, got %v", err)
	}

	count, err := env.campaigns.ApproveMilestone(env.campaignID, approvers[0])
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	// double sign-off
	if _, err := env.campaigns.ApproveMilestone(env.campaignID, approvers[0]); err != appErrors.ErrAlreadyApproved {
		t.Errorf("expected ErrAlreadyApproved, got %v", err)
	}

	count, _ = env.campaigns.ApproveMilestone(env.campaignID, approvers[1])
	if count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}
	count, _ = env.campaigns.ApproveMilestone(env.campaignID, approvers[2])
	if count != 3 {
		t.Errorf("expected count 3, got %d", count)
	}
}

func TestApproveMilestoneBeforeGoal(t *testing.T) {
	led := ledger.NewMockLedger(0)
	led.SetNow(baseTime)
	svc := newCampaignService(newMemStore(), led)
	c, _ := svc.CreateCampaign(creator, 1000000, 4, baseTime+100000, 0, approvers)

	if _, err := svc.ApproveMilestone(c.ID, approvers[0]); err != appErrors.ErrGoalNotReached {
		t.Errorf("expected ErrGoalNotReached, got %v", err)
	}
}

func TestReleaseMilestone(t *testing.T) {
	env := newTestEnv(t)

	// incomplete board
	env.campaigns.ApproveMilestone(env.campaignID, approvers[0])
	env.campaigns.ApproveMilestone(env.campaignID, approvers[1])
	if _, err := env.campaigns.ReleaseMilestone(env.campaignID, creator); err != appErrors.ErrApprovalsPending {
		t.Fatalf("expected ErrApprovalsPending, got %v", err)
	}

	env.campaigns.ApproveMilestone(env.campaignID, approvers[2])

	if _, err := env.campaigns.ReleaseMilestone(env.campaignID, donor1); err != appErrors.ErrNotCreator {
		t.Fatalf("expected ErrNotCreator, got %v", err)
	}

	res, err := env.campaigns.ReleaseMilestone(env.campaignID, creator)
	if err != nil {
		t.Fatal(err)
	}
	// goal 1,000,000 over 4 milestones
	if res.AmountReleased != 250000 {
		t.Errorf("expected 250000 per milestone, got %d", res.AmountReleased)
	}
	if res.CurrentMilestone != 1 {
		t.Errorf("expected milestone 1, got %d", res.CurrentMilestone)
	}

	// approvals reset after release
	c, _ := env.campaigns.GetStatus(env.campaignID)
	if c.ApprovalCount() != 0 {
		t.Errorf("approvals must reset after release, got %d set", c.ApprovalCount())
	}

	// a fresh release needs a fresh 3/3 board
	if _, err := env.campaigns.ReleaseMilestone(env.campaignID, creator); err != appErrors.ErrApprovalsPending {
		t.Errorf("expected ErrApprovalsPending after reset, got %v", err)
	}
}

func TestReleaseAllMilestones(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 4; i++ {
		for _, a := range approvers {
			if _, err := env.campaigns.ApproveMilestone(env.campaignID, a); err != nil {
				t.Fatalf("milestone %d approve %s: %v", i, a, err)
			}
		}
		if _, err := env.campaigns.ReleaseMilestone(env.campaignID, creator); err != nil {
			t.Fatalf("milestone %d release: %v", i, err)
		}
	}

	c, _ := env.campaigns.GetStatus(env.campaignID)
	if c.CurrentMilestone != 4 {
		t.Errorf("expected all 4 milestones done, got %d", c.CurrentMilestone)
	}
	if c.TotalReleased != 1000000 {
		t.Errorf("expected total released 1000000, got %d", c.TotalReleased)
	}
	if c.TotalReleased > c.RaisedAmount {
		t.Errorf("released %d exceeds raised %d", c.TotalReleased, c.RaisedAmount)
	}

	// board is exhausted
	if _, err := env.campaigns.ApproveMilestone(env.campaignID, approvers[0]); err != appErrors.ErrAllMilestonesDone {
		t.Errorf("expected ErrAllMilestonesDone, got %v", err)
	}
	for _, a := range approvers {
		_, _ = env.campaigns.ApproveMilestone(env.campaignID, a)
	}
	if _, err := env.campaigns.ReleaseMilestone(env.campaignID, creator); err != appErrors.ErrAllMilestonesDone {
		t.Errorf("expected ErrAllMilestonesDone on release, got %v", err)
	}
}

func TestReleaseMilestoneInsufficientBalance(t *testing.T) {
	env := newTestEnv(t)
	for _, a := range approvers {
		env.campaigns.ApproveMilestone(env.campaignID, a)
	}

	// leave less than 250000 + reserve in escrow
	env.led.Transfer("ELSEWHERE", 800000)

	if _, err := env.campaigns.ReleaseMilestone(env.campaignID, creator); err != appErrors.ErrInsufficientBalance {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	// approvals survive a failed release
	c, _ := env.campaigns.GetStatus(env.campaignID)
	if c.ApprovalCount() != 3 {
		t.Errorf("failed release must not reset approvals, got %d", c.ApprovalCount())
	}
}

// Integer division leaves the remainder on the final milestone: a 1,000,000
// goal over 3 milestones pays 333,333 each and keeps the spare unit.
func TestMilestonePayoutRemainder(t *testing.T) {
	store := newMemStore()
	led := ledger.NewMockLedger(0)
	led.SetNow(baseTime)
	svc := newCampaignService(store, led)

	c, _ := svc.CreateCampaign(creator, 1000000, 3, baseTime+100000, 0, approvers)
	svc.Contribute(c.ID, donor1, 1000000)
	led.Deposit(1100000)

	for i := 0; i < 3; i++ {
		for _, a := range approvers {
			svc.ApproveMilestone(c.ID, a)
		}
		res, err := svc.ReleaseMilestone(c.ID, creator)
		if err != nil {
			t.Fatalf("milestone %d: %v", i, err)
		}
		if res.AmountReleased != 333333 {
			t.Errorf("milestone %d: expected 333333, got %d", i, res.AmountReleased)
		}
	}

	got, _ := svc.GetStatus(c.ID)
	if got.TotalReleased != 999999 {
		t.Errorf("expected total released 999999, got %d", got.TotalReleased)
	}
}
