// internal/spltoken/mocks_test.go
package spltoken

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/mock"

	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/transaction"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) GetMinimumBalanceForRentExemption(ctx context.Context, dataSize uint64) (uint64, error) {
	args := m.Called(ctx, dataSize)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockClient) GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	args := m.Called(ctx, pubkey)
	res, _ := args.Get(0).(*rpc.GetAccountInfoResult)
	return res, args.Error(1)
}

// MockSubmitter запоминает отправленные бандлы
type MockSubmitter struct {
	mock.Mock
	Bundles []*transaction.Bundle
}

func (m *MockSubmitter) Submit(ctx context.Context, bundle *transaction.Bundle) (*transaction.Receipt, error) {
	m.Bundles = append(m.Bundles, bundle)
	args := m.Called(ctx, bundle)
	receipt, _ := args.Get(0).(*transaction.Receipt)
	return receipt, args.Error(1)
}
