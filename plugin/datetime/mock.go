package datetime

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockResolver is a testify mock of Resolver.
type MockResolver struct {
	mock.Mock
}

// Resolve records the call and returns the configured result.
func (m *MockResolver) Resolve(ctx context.Context, req Request) (*Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Result), args.Error(1)
}

// Ensure MockResolver implements Resolver
var _ Resolver = (*MockResolver)(nil)
