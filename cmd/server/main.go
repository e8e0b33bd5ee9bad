// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/campuschain/escrow-backend/internal/controller"
	"github.com/campuschain/escrow-backend/internal/db"
	"github.com/campuschain/escrow-backend/internal/handler"
	"github.com/campuschain/escrow-backend/internal/ledger"
	"github.com/campuschain/escrow-backend/internal/queue"
	"github.com/campuschain/escrow-backend/internal/repository"
	"github.com/campuschain/escrow-backend/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	// Init DB
	db.Init()
	q := queue.NewInMemoryQueue()

	// The real transfer substrate sits behind the Ledger interface; the
	// mock ledger carries local runs.
	escrowBalance := int64(0)
	if v := os.Getenv("ESCROW_BALANCE"); v != "" {
		escrowBalance, _ = strconv.ParseInt(v, 10, 64)
	}
	led := ledger.NewMockLedger(escrowBalance)

	campaignRepo := &repository.CampaignRepository{DB: db.DB}
	donorRepo := &repository.DonorRepository{DB: db.DB}
	requestRepo := &repository.RequestRepository{DB: db.DB}

	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		DonorRepo:    donorRepo,
		Ledger:       led,
	}

	escrowService := &service.EscrowService{
		CampaignRepo: campaignRepo,
		DonorRepo:    donorRepo,
		RequestRepo:  requestRepo,
		Ledger:       led,
		Queue:        q,
	}

	queue.StartAiVerificationSubscriber(q, escrowService, queue.MockScore)

	campaignController := &controller.CampaignController{
		CampaignService: campaignService,
	}

	escrowController := &controller.EscrowController{
		EscrowService: escrowService,
	}

	escrowHandler := &handler.EscrowHandler{
		Service: escrowService,
	}

	r := chi.NewRouter()

	// Campaign routes
	r.Post("/campaigns", campaignController.CreateCampaign)
	r.Get("/campaigns/{id}", campaignController.GetCampaign)
	r.Post("/campaigns/{id}/contribute", campaignController.Contribute)
	r.Post("/campaigns/{id}/milestone/approve", campaignController.ApproveMilestone)
	r.Post("/campaigns/{id}/milestone/release", campaignController.ReleaseMilestone)

	// Withdrawal request routes
	r.Post("/campaigns/{id}/requests", escrowController.SubmitRequest)
	r.Post("/campaigns/{id}/requests/{reqID}/verify", escrowController.RecordVerification)
	r.Post("/campaigns/{id}/requests/{reqID}/vote", escrowController.Vote)
	r.Post("/campaigns/{id}/requests/{reqID}/release", escrowController.ReleaseFunds)
	r.Post("/campaigns/{id}/requests/{reqID}/proof", escrowController.SubmitProof)
	r.Get("/campaigns/{id}/requests/{reqID}", escrowHandler.GetRequestInfoHandler)
	r.Get("/campaigns/{id}/escrow", escrowHandler.GetEscrowStatusHandler)
	r.Get("/campaigns/{id}/donors/{address}", escrowController.GetDonorWeight)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("🚀 Server running on :" + port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}
