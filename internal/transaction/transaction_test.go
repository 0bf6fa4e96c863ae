// internal/transaction/transaction_test.go
package transaction

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/blockchain"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/blockchain/solana/programs/computebudget"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/utils/metrics"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/wallet"
)

func testBundle() *Bundle {
	payer := wallet.MustGenerate()
	account := wallet.MustGenerate()
	return &Bundle{
		Label:    "create_account",
		FeePayer: payer,
		Signers:  []*wallet.Wallet{account},
		Instructions: []solana.Instruction{
			system.NewCreateAccountInstruction(1, 165, solana.TokenProgramID, payer.PublicKey, account.PublicKey).Build(),
		},
	}
}

func TestSubmitConfirmsTransaction(t *testing.T) {
	client := new(MockClient)
	sig := solana.Signature{7}
	client.On("GetRecentBlockhash", mock.Anything).Return(solana.Hash{1}, nil)
	client.On("SendTransaction", mock.Anything, mock.MatchedBy(func(tx *solana.Transaction) bool {
		return len(tx.Signatures) == 2 && tx.VerifySignatures() == nil
	})).Return(sig, nil)
	client.On("WaitForTransactionConfirmation", mock.Anything, sig, rpc.CommitmentConfirmed).Return(nil)

	collector := metrics.NewCollector()
	s := NewSender(client, computebudget.Config{}, rpc.CommitmentConfirmed, zap.NewNop(), WithRecorder(collector))
	receipt, err := s.Submit(context.Background(), testBundle())
	require.NoError(t, err)
	assert.Equal(t, sig, receipt.Signature)
	assert.Equal(t, "create_account", receipt.Label)
	client.AssertExpectations(t)

	summary, err := collector.Summary()
	require.NoError(t, err)
	assert.Equal(t, map[string]uint64{metrics.StatusConfirmed: 1}, summary)
}

func TestSubmitPreflightRejectionDecodesProgramFailure(t *testing.T) {
	client := new(MockClient)
	rpcErr := &jsonrpc.RPCError{
		Code:    -32002,
		Message: "Transaction simulation failed: Error processing Instruction 1: custom program error: 0x10",
		Data: map[string]interface{}{
			"err": map[string]interface{}{
				"InstructionError": []interface{}{float64(1), map[string]interface{}{"Custom": float64(16)}},
			},
			"logs": []interface{}{
				"Program SwapsVeCiPHMUAtzQWZw7RjsKjgCjhwU55QGu4U1Szw invoke [1]",
				"Program SwapsVeCiPHMUAtzQWZw7RjsKjgCjhwU55QGu4U1Szw failed: custom program error: 0x10",
			},
		},
	}
	client.On("GetRecentBlockhash", mock.Anything).Return(solana.Hash{1}, nil)
	client.On("SendTransaction", mock.Anything, mock.Anything).Return(solana.Signature{}, fmt.Errorf("rpc: %w", rpcErr))

	// one compute-budget instruction is prepended, so index 1 maps back to bundle index 0
	collector := metrics.NewCollector()
	s := NewSender(client, computebudget.Config{Units: 200_000}, rpc.CommitmentConfirmed, zap.NewNop(), WithRecorder(collector))
	_, err := s.Submit(context.Background(), testBundle())

	rej, ok := AsRejection(err)
	require.True(t, ok)
	assert.True(t, rej.Signature.IsZero())
	assert.Len(t, rej.Logs, 2)
	failure, ok := rej.Failure()
	require.True(t, ok)
	assert.Equal(t, 0, failure.InstructionIndex)
	assert.Equal(t, uint32(16), failure.Code)
	assert.Equal(t, "SwapsVeCiPHMUAtzQWZw7RjsKjgCjhwU55QGu4U1Szw", failure.ProgramID.String())
	client.AssertNotCalled(t, "WaitForTransactionConfirmation", mock.Anything, mock.Anything, mock.Anything)

	summary, err := collector.Summary()
	require.NoError(t, err)
	assert.Equal(t, map[string]uint64{metrics.StatusRejected: 1}, summary)
}

func TestSubmitLandedWithErrorIsRejection(t *testing.T) {
	client := new(MockClient)
	sig := solana.Signature{9}
	client.On("GetRecentBlockhash", mock.Anything).Return(solana.Hash{1}, nil)
	client.On("SendTransaction", mock.Anything, mock.Anything).Return(sig, nil)
	client.On("WaitForTransactionConfirmation", mock.Anything, sig, rpc.CommitmentConfirmed).Return(
		&blockchain.TransactionFailedError{
			Signature: sig,
			Err: map[string]interface{}{
				"InstructionError": []interface{}{float64(0), map[string]interface{}{"Custom": float64(1)}},
			},
		})

	s := NewSender(client, computebudget.Config{}, rpc.CommitmentConfirmed, zap.NewNop())
	_, err := s.Submit(context.Background(), testBundle())

	rej, ok := AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, sig, rej.Signature)
	failure, ok := rej.Failure()
	require.True(t, ok)
	assert.Equal(t, uint32(1), failure.Code)
	assert.True(t, failure.ProgramID.IsZero())
}

func TestSubmitBuildFailureIsNotRejection(t *testing.T) {
	client := new(MockClient)
	client.On("GetRecentBlockhash", mock.Anything).Return(solana.Hash{}, errors.New("unavailable"))

	s := NewSender(client, computebudget.Config{}, rpc.CommitmentConfirmed, zap.NewNop())
	_, err := s.Submit(context.Background(), testBundle())
	require.Error(t, err)
	_, ok := AsRejection(err)
	assert.False(t, ok)
	client.AssertNotCalled(t, "SendTransaction", mock.Anything, mock.Anything)
}

func TestParseInstructionErrorFromMessage(t *testing.T) {
	index, code, ok := parseInstructionError("Error processing Instruction 2: custom program error: 0x1a")
	require.True(t, ok)
	assert.Equal(t, 2, index)
	assert.Equal(t, uint32(26), code)

	_, _, ok = parseInstructionError("blockhash not found")
	assert.False(t, ok)
}
