// internal/handler/escrow_handler.go
package handler

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/campuschain/escrow-backend/internal/errors"
	"github.com/campuschain/escrow-backend/internal/model"
	"github.com/campuschain/escrow-backend/internal/service"
)

// EscrowHandler serves the read-only escrow query surface
type EscrowHandler struct {
	Service *service.EscrowService
}

// requestInfoResponse is the wire shape of a withdrawal request: the seven
// fixed fields plus the attachment hashes, hex-encoded.
type requestInfoResponse struct {
	CampaignID     int    `json:"campaign_id"`
	RequestID      int64  `json:"request_id"`
	Amount         int64  `json:"amount"`
	Status         int64  `json:"status"`
	StatusName     string `json:"status_name"`
	AiScore        int64  `json:"ai_score"`
	VotesFor       int64  `json:"votes_for"`
	VotesAgainst   int64  `json:"votes_against"`
	CreatedTs      int64  `json:"created_ts"`
	VotingDeadline int64  `json:"voting_deadline"`
	PurposeHash    string `json:"purpose_hash"`
	QuotationHash  string `json:"quotation_hash"`
	ReceiptHash    string `json:"receipt_hash,omitempty"`
	ReceiptScore   int64  `json:"receipt_score"`
}

// GetRequestInfoHandler returns one withdrawal request with its attachments
func (h *EscrowHandler) GetRequestInfoHandler(w http.ResponseWriter, r *http.Request) {
	campaignID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	requestID, _ := strconv.ParseInt(chi.URLParam(r, "reqID"), 10, 64)

	req, err := h.Service.GetRequestInfo(campaignID, requestID)
	if err != nil {
		var notFound *appErrors.ErrRequestNotFound
		if errors.As(err, &notFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(requestInfoResponse{
		CampaignID:     req.CampaignID,
		RequestID:      req.RequestID,
		Amount:         req.Amount,
		Status:         req.Status,
		StatusName:     model.StatusName(req.Status),
		AiScore:        req.AiScore,
		VotesFor:       req.VotesFor,
		VotesAgainst:   req.VotesAgainst,
		CreatedTs:      req.CreatedTs,
		VotingDeadline: req.VotingDeadline,
		PurposeHash:    hex.EncodeToString(req.PurposeHash),
		QuotationHash:  hex.EncodeToString(req.QuotationHash),
		ReceiptHash:    hex.EncodeToString(req.ReceiptHash),
		ReceiptScore:   req.ReceiptScore,
	})
}

// GetEscrowStatusHandler returns the campaign's escrow counters together
// with withdrawal request counts by status
func (h *EscrowHandler) GetEscrowStatusHandler(w http.ResponseWriter, r *http.Request) {
	campaignID, _ := strconv.Atoi(chi.URLParam(r, "id"))

	status, err := h.Service.GetEscrowStatus(campaignID)
	if err != nil {
		var notFound *appErrors.ErrCampaignNotFound
		if errors.As(err, &notFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(status)
}
