package queue

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/campuschain/escrow-backend/internal/model"
)

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue backs local runs when no RabbitMQ is configured; retries
// failed handlers with backoff
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	job := JobPayload{
		Payload:    payload,
		RetryCount: 0,
		MaxRetries: 3,
	}

	for _, handler := range handlers {
		go q.processJob(handler, job)
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			return // ACK
		}

		job.RetryCount++
		log.Printf("Job failed (attempt %d/%d): %+v, error: %v\n", job.RetryCount, job.MaxRetries, job.Payload, err)

		if job.RetryCount > job.MaxRetries {
			log.Printf("Job permanently failed after %d attempts: %+v\n", job.MaxRetries, job.Payload)
			return // No requeue
		}

		// Backoff before retry
		time.Sleep(time.Duration(job.RetryCount*500) * time.Millisecond)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// AiVerifier is the slice of the escrow service the scoring subscriber
// needs; keeps this package from importing the service package.
type AiVerifier interface {
	GetRequestInfo(campaignID int, requestID int64) (*model.WithdrawalRequest, error)
	RecordAiVerification(campaignID int, requestID, score int64) (*model.WithdrawalRequest, error)
}

// VerificationJob identifies a request awaiting an AI score.
type VerificationJob struct {
	CampaignID int
	RequestID  int64
}

// StartAiVerificationSubscriber wires the in-process scoring path: each
// queued request is scored and the result recorded through the same service
// call the HTTP endpoint uses.
func StartAiVerificationSubscriber(q Queue, verifier AiVerifier, score func(req *model.WithdrawalRequest) int64) {
	go func() {
		err := q.Subscribe("ai_verifications", func(payload any) error {
			job, ok := payload.(VerificationJob)
			if !ok {
				log.Println("⚠️ Invalid payload type for ai_verifications")
				return nil // no retry
			}

			log.Println("📩 Scoring withdrawal request:", job.RequestID)

			req, err := verifier.GetRequestInfo(job.CampaignID, job.RequestID)
			if err != nil {
				log.Println("⚠️ Failed to fetch request:", err)
				return err
			}
			if req.Status != model.StatusPendingAi {
				log.Println("⚠️ Request already scored:", job.RequestID)
				return nil // no retry
			}

			result, err := verifier.RecordAiVerification(job.CampaignID, job.RequestID, score(req))
			if err != nil {
				log.Println("⚠️ Failed to record AI verification:", err)
				return err // triggers retry in queue
			}

			log.Printf("✅ Request %d scored %d -> %s\n", job.RequestID, result.AiScore, model.StatusName(result.Status))
			return nil
		})

		if err != nil {
			log.Println("⚠️ Failed to start subscriber for ai_verifications:", err)
		}
	}()
}

//////////////////////////
// Example Mock Scorer  //
//////////////////////////

// MockScore stands in for the real document scorer: most quotations come
// back plausible, a tail comes back suspicious.
func MockScore(req *model.WithdrawalRequest) int64 {
	r := rand.Float64()
	if r < 0.7 {
		return 80 + rand.Int63n(21) // 80-100: skips to ai_approved
	}
	return rand.Int63n(80) // 0-79: goes to donor vote
}
