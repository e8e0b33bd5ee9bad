// internal/controller/campaign_controller.go
package controller

import (
    "encoding/json"
    "errors"
    "net/http"
    "strconv"

    "github.com/go-chi/chi/v5"

    appErrors "github.com/campuschain/escrow-backend/internal/errors"
    "github.com/campuschain/escrow-backend/internal/service"
)

type CampaignController struct {
    CampaignService *service.CampaignService
}

// writeServiceError maps engine errors onto HTTP statuses. Not-found is
// 404, integrity conflicts are 409, everything else the engine rejected is
// 422; unknown failures stay 500.
func writeServiceError(w http.ResponseWriter, err error) {
    var campaignNotFound *appErrors.ErrCampaignNotFound
    var requestNotFound *appErrors.ErrRequestNotFound

    switch {
    case errors.As(err, &campaignNotFound), errors.As(err, &requestNotFound):
        http.Error(w, err.Error(), http.StatusNotFound)
    case errors.Is(err, appErrors.ErrDuplicateRequest), errors.Is(err, appErrors.ErrAlreadyVoted),
        errors.Is(err, appErrors.ErrAlreadyApproved):
        http.Error(w, err.Error(), http.StatusConflict)
    case errors.Is(err, appErrors.ErrInactiveCampaign), errors.Is(err, appErrors.ErrFrozen),
        errors.Is(err, appErrors.ErrCampaignExpired), errors.Is(err, appErrors.ErrBelowMinimum),
        errors.Is(err, appErrors.ErrGoalNotReached), errors.Is(err, appErrors.ErrAllMilestonesDone),
        errors.Is(err, appErrors.ErrNotAnApprover), errors.Is(err, appErrors.ErrNotCreator),
        errors.Is(err, appErrors.ErrApprovalsPending), errors.Is(err, appErrors.ErrZeroAmount),
        errors.Is(err, appErrors.ErrExceedsAvailable), errors.Is(err, appErrors.ErrInsufficientBalance),
        errors.Is(err, appErrors.ErrNotPendingAi), errors.Is(err, appErrors.ErrNotInVotingPhase),
        errors.Is(err, appErrors.ErrVotingClosed), errors.Is(err, appErrors.ErrNotADonor),
        errors.Is(err, appErrors.ErrNotApproved), errors.Is(err, appErrors.ErrNotReleased),
        errors.Is(err, appErrors.ErrInvalidScore):
        http.Error(w, err.Error(), http.StatusUnprocessableEntity)
    default:
        http.Error(w, err.Error(), http.StatusInternalServerError)
    }
}

func campaignIDParam(r *http.Request) int {
    idStr := chi.URLParam(r, "id")
    id, _ := strconv.Atoi(idStr)
    return id
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
    var body struct {
        CreatorAddress string   `json:"creator_address"`
        GoalAmount     int64    `json:"goal_amount"`
        MilestoneCount int64    `json:"milestone_count"`
        Deadline       int64    `json:"deadline"`
        VotingWindow   int64    `json:"voting_window"`
        Approvers      []string `json:"approvers"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    campaign, err := c.CampaignService.CreateCampaign(
        body.CreatorAddress, body.GoalAmount, body.MilestoneCount,
        body.Deadline, body.VotingWindow, body.Approvers,
    )
    if err != nil {
        http.Error(w, err.Error(), http.StatusBadRequest)
        return
    }

    json.NewEncoder(w).Encode(campaign)
}

func (c *CampaignController) Contribute(w http.ResponseWriter, r *http.Request) {
    campaignID := campaignIDParam(r)

    var body struct {
        DonorAddress string `json:"donor_address"`
        Amount       int64  `json:"amount"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    result, err := c.CampaignService.Contribute(campaignID, body.DonorAddress, body.Amount)
    if err != nil {
        writeServiceError(w, err)
        return
    }

    json.NewEncoder(w).Encode(result)
}

func (c *CampaignController) ApproveMilestone(w http.ResponseWriter, r *http.Request) {
    campaignID := campaignIDParam(r)

    var body struct {
        ApproverAddress string `json:"approver_address"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    count, err := c.CampaignService.ApproveMilestone(campaignID, body.ApproverAddress)
    if err != nil {
        writeServiceError(w, err)
        return
    }

    json.NewEncoder(w).Encode(map[string]interface{}{
        "campaign_id":    campaignID,
        "approval_count": count,
    })
}

func (c *CampaignController) ReleaseMilestone(w http.ResponseWriter, r *http.Request) {
    campaignID := campaignIDParam(r)

    var body struct {
        CallerAddress string `json:"caller_address"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        http.Error(w, "invalid body", http.StatusBadRequest)
        return
    }

    result, err := c.CampaignService.ReleaseMilestone(campaignID, body.CallerAddress)
    if err != nil {
        writeServiceError(w, err)
        return
    }

    json.NewEncoder(w).Encode(result)
}

func (c *CampaignController) GetCampaign(w http.ResponseWriter, r *http.Request) {
    campaignID := campaignIDParam(r)

    campaign, err := c.CampaignService.GetStatus(campaignID)
    if err != nil {
        writeServiceError(w, err)
        return
    }

    json.NewEncoder(w).Encode(campaign)
}
