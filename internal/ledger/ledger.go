// internal/ledger/ledger.go
package ledger

import (
    "fmt"
    "sync"
    "time"
)

// MinReserve is the balance the escrow account must retain after any payout.
const MinReserve int64 = 100000

// Ledger is the external transfer substrate the escrow engine pays out
// through. The engine consumes it and never implements it: balance checks,
// payment execution and the clock all live behind this interface.
type Ledger interface {
    Transfer(to string, amount int64) error
    Balance() (int64, error)
    Now() int64 // unix seconds
}

// MockLedger is an in-memory ledger for local runs and tests. Time can be
// pinned so voting-deadline behavior is deterministic.
type MockLedger struct {
    mu      sync.Mutex
    balance int64
    nowFunc func() int64

    Transfers []MockTransfer
}

type MockTransfer struct {
    To     string
    Amount int64
}

func NewMockLedger(balance int64) *MockLedger {
    return &MockLedger{balance: balance}
}

// SetNow pins the ledger clock to a fixed timestamp.
func (l *MockLedger) SetNow(ts int64) {
    l.mu.Lock()
    defer l.mu.Unlock()
    l.nowFunc = func() int64 { return ts }
}

// Deposit credits the escrow account (donations flowing in).
func (l *MockLedger) Deposit(amount int64) {
    l.mu.Lock()
    defer l.mu.Unlock()
    l.balance += amount
}

func (l *MockLedger) Transfer(to string, amount int64) error {
    l.mu.Lock()
    defer l.mu.Unlock()
    if amount > l.balance {
        return fmt.Errorf("insufficient funds: have %d, need %d", l.balance, amount)
    }
    l.balance -= amount
    l.Transfers = append(l.Transfers, MockTransfer{To: to, Amount: amount})
    return nil
}

func (l *MockLedger) Balance() (int64, error) {
    l.mu.Lock()
    defer l.mu.Unlock()
    return l.balance, nil
}

func (l *MockLedger) Now() int64 {
    l.mu.Lock()
    defer l.mu.Unlock()
    if l.nowFunc != nil {
        return l.nowFunc()
    }
    return time.Now().Unix()
}
