package payment

import (
	"context"
	"fmt"
	"time"

	"flexirent/internal/domain"
)

// MockGateway approves every charge. A FailureHook can be installed to
// simulate declines; it returns the decline reason or "" to approve.
type MockGateway struct {
	FailureHook func(req ChargeRequest) string
}

func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (g *MockGateway) Name() domain.PaymentProvider { return domain.ProviderMock }

func (g *MockGateway) Charge(_ context.Context, req ChargeRequest) (*ChargeResult, error) {
	if g.FailureHook != nil {
		if reason := g.FailureHook(req); reason != "" {
			return &ChargeResult{Status: domain.PaymentFailed, ErrorReason: reason}, nil
		}
	}
	ref := fmt.Sprintf("mock_%d", time.Now().UnixNano())
	return &ChargeResult{
		Status:        domain.PaymentSucceeded,
		ProviderRef:   ref,
		TransactionID: ref,
	}, nil
}
