// =============================
// File: internal/transaction/transaction.go
// =============================
package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/blockchain"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/blockchain/solana/programs/computebudget"
	txbuilder "github.com/rovshanmuradov/spl-swap-bootstrap/internal/blockchain/solana/transaction"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/utils/metrics"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/wallet"
)

// Bundle is one atomic submission: instructions plus every identity that must sign them.
type Bundle struct {
	Label        string
	FeePayer     *wallet.Wallet
	Signers      []*wallet.Wallet
	Instructions []solana.Instruction
}

// Receipt describes a confirmed bundle.
type Receipt struct {
	Label     string
	Signature solana.Signature
}

// Submitter sends a bundle and waits for it to be confirmed.
type Submitter interface {
	Submit(ctx context.Context, bundle *Bundle) (*Receipt, error)
}

// Sender submits bundles through a blockchain.Client. It does not retry failed submissions.
type Sender struct {
	client     blockchain.Client
	budget     computebudget.Config
	commitment rpc.CommitmentType
	metrics    metrics.Recorder
	logger     *zap.Logger
}

// SenderOption configures a Sender.
type SenderOption func(*Sender)

// WithRecorder reports every submission outcome to r.
func WithRecorder(r metrics.Recorder) SenderOption {
	return func(s *Sender) { s.metrics = r }
}

// NewSender creates a Sender. budget may be zero.
func NewSender(client blockchain.Client, budget computebudget.Config, commitment rpc.CommitmentType, logger *zap.Logger, opts ...SenderOption) *Sender {
	s := &Sender{
		client:     client,
		budget:     budget,
		commitment: commitment,
		metrics:    metrics.Nop{},
		logger:     logger.Named("sender"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit builds, signs, sends and confirms the bundle.
func (s *Sender) Submit(ctx context.Context, bundle *Bundle) (*Receipt, error) {
	start := time.Now()
	tx, err := txbuilder.NewBuilder().
		SetFeePayer(bundle.FeePayer).
		AddSigner(bundle.Signers...).
		SetComputeBudget(s.budget).
		AddInstruction(bundle.Instructions...).
		Build(ctx, s.client)
	if err != nil {
		s.metrics.RecordTransaction(bundle.Label, metrics.StatusBuildFailed, time.Since(start))
		return nil, fmt.Errorf("failed to build %s transaction: %w", bundle.Label, err)
	}

	prefix := len(tx.Message.Instructions) - len(bundle.Instructions)

	sig, err := s.client.SendTransaction(ctx, tx)
	if err != nil {
		s.logger.Warn("Transaction rejected",
			zap.String("label", bundle.Label),
			zap.Error(err))
		s.metrics.RecordTransaction(bundle.Label, metrics.StatusRejected, time.Since(start))
		return nil, NewRejectionError(bundle.Label, solana.Signature{}, prefix, err)
	}
	s.logger.Debug("Transaction sent",
		zap.String("label", bundle.Label),
		zap.String("signature", sig.String()))

	if err := s.client.WaitForTransactionConfirmation(ctx, sig, s.commitment); err != nil {
		s.logger.Warn("Transaction not confirmed",
			zap.String("label", bundle.Label),
			zap.String("signature", sig.String()),
			zap.Error(err))
		s.metrics.RecordTransaction(bundle.Label, metrics.StatusUnconfirmed, time.Since(start))
		return nil, NewRejectionError(bundle.Label, sig, prefix, err)
	}

	s.metrics.RecordTransaction(bundle.Label, metrics.StatusConfirmed, time.Since(start))
	s.logger.Info("Transaction confirmed",
		zap.String("label", bundle.Label),
		zap.String("signature", sig.String()))

	return &Receipt{Label: bundle.Label, Signature: sig}, nil
}

var _ Submitter = (*Sender)(nil)
