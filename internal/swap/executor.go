// =============================
// File: internal/swap/executor.go
// =============================
package swap

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/dex/tokenswap"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/domain"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/pool"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/transaction"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/wallet"
)

// Ожидаемый выход обмена 100_000 A при резервах 1_000_000/1_000_000 и constant-price(1)
const (
	ExpectedAmountOutWithOwnerFee    uint64 = 90_661
	ExpectedAmountOutWithoutOwnerFee uint64 = 90_674
)

// DefaultAmountIn - объём обмена по умолчанию
const DefaultAmountIn uint64 = 100_000

// Имена шагов для ProvisioningError
const (
	StepCreateUserAccountA   = "create_user_account_a"
	StepMintUserA            = "mint_user_a"
	StepCreateDelegate       = "create_delegate"
	StepApproveDelegate      = "approve_delegate"
	StepCreateUserAccountB   = "create_user_account_b"
	StepCreateHostFeeAccount = "create_host_fee_account"
)

const (
	reasonOutputBelowMinimum = "OutputBelowMinimum"
	reasonBalanceUnavailable = "BalanceUnavailable"
)

// ExpectedAmountOut выбирает ожидаемый выход по наличию адреса получателя комиссий владельца
func ExpectedAmountOut(ownerFeeAddress *solana.PublicKey) uint64 {
	if ownerFeeAddress != nil {
		return ExpectedAmountOutWithOwnerFee
	}
	return ExpectedAmountOutWithoutOwnerFee
}

// TokenFactory - операции token program, нужные исполнителю
type TokenFactory interface {
	CreateAccount(ctx context.Context, payer *wallet.Wallet, mint, owner solana.PublicKey) (solana.PublicKey, error)
	GetOrCreateAssociatedAccount(ctx context.Context, payer *wallet.Wallet, mint, owner solana.PublicKey) (solana.PublicKey, error)
	MintTo(ctx context.Context, payer, authority *wallet.Wallet, mint, destination solana.PublicKey, amount uint64) error
	Approve(ctx context.Context, payer, owner *wallet.Wallet, source, delegate solana.PublicKey, amount uint64) error
}

// BalanceReader читает баланс токен-аккаунта
type BalanceReader interface {
	GetTokenAccountBalance(ctx context.Context, account solana.PublicKey) (uint64, error)
}

// Receipt - результат обмена
type Receipt struct {
	Signature       solana.Signature
	AmountIn        uint64
	MinAmountOut    uint64
	AmountOut       uint64 // прирост баланса получателя
	UserSource      solana.PublicKey
	UserDestination solana.PublicKey
	HostFeeAccount  solana.PublicKey
	Delegate        solana.PublicKey
}

// Executor выполняет обмен A -> B через делегированного авторитета
type Executor struct {
	factory  TokenFactory
	balances BalanceReader
	sender   transaction.Submitter
	logger   *zap.Logger
}

// NewExecutor создаёт Executor
func NewExecutor(factory TokenFactory, balances BalanceReader, sender transaction.Submitter, logger *zap.Logger) *Executor {
	return &Executor{
		factory:  factory,
		balances: balances,
		sender:   sender,
		logger:   logger.Named("swap"),
	}
}

// ExecuteSwap начисляет user amountIn токенов A, делегирует их временному авторитету
// и отправляет обмен. Проверку minAmountOut выполняет программа.
func (e *Executor) ExecuteSwap(ctx context.Context, handle *pool.Handle, user *wallet.Wallet, amountIn, minAmountOut uint64) (*Receipt, error) {
	logger := e.logger.With(
		zap.Stringer("pool", handle.SwapAccount),
		zap.Uint64("amount_in", amountIn),
		zap.Uint64("min_amount_out", minAmountOut))

	userA, err := e.factory.GetOrCreateAssociatedAccount(ctx, user, handle.MintA, user.PublicKey)
	if err != nil {
		return nil, domain.NewProvisioningError(StepCreateUserAccountA, err)
	}

	// исполнитель сам служит краном для A
	if err := e.factory.MintTo(ctx, user, handle.Owner, handle.MintA, userA, amountIn); err != nil {
		return nil, domain.NewProvisioningError(StepMintUserA, err)
	}

	delegate, err := wallet.Generate()
	if err != nil {
		return nil, domain.NewProvisioningError(StepCreateDelegate, err)
	}
	if err := e.factory.Approve(ctx, user, user, userA, delegate.PublicKey, amountIn); err != nil {
		return nil, domain.NewProvisioningError(StepApproveDelegate, err)
	}

	userB, err := e.factory.GetOrCreateAssociatedAccount(ctx, user, handle.MintB, user.PublicKey)
	if err != nil {
		return nil, domain.NewProvisioningError(StepCreateUserAccountB, err)
	}

	hostFee, err := e.factory.CreateAccount(ctx, user, handle.PoolMint, user.PublicKey)
	if err != nil {
		return nil, domain.NewProvisioningError(StepCreateHostFeeAccount, err)
	}

	logger.Debug("Swap accounts ready",
		zap.Stringer("user_a", userA),
		zap.Stringer("user_b", userB),
		zap.Stringer("delegate", delegate.PublicKey),
		zap.Stringer("host_fee", hostFee))

	swapErr := func(reason string, err error) error {
		return &domain.SwapError{
			Pool:         handle.SwapAccount,
			AmountIn:     amountIn,
			MinAmountOut: minAmountOut,
			Reason:       reason,
			Err:          err,
		}
	}

	before, err := e.balances.GetTokenAccountBalance(ctx, userB)
	if err != nil {
		return nil, swapErr(reasonBalanceUnavailable, err)
	}

	ix, err := tokenswap.NewSwapInstruction(&tokenswap.SwapParams{
		ProgramID:             handle.ProgramID,
		Swap:                  handle.SwapAccount,
		Authority:             handle.Authority,
		UserTransferAuthority: delegate.PublicKey,
		UserSource:            userA,
		PoolSource:            handle.ReserveA,
		PoolDestination:       handle.ReserveB,
		UserDestination:       userB,
		PoolMint:              handle.PoolMint,
		FeeAccount:            handle.FeeAccount,
		TokenProgramID:        solana.TokenProgramID,
		HostFeeAccount:        &hostFee,
		AmountIn:              amountIn,
		MinimumAmountOut:      minAmountOut,
	})
	if err != nil {
		return nil, swapErr("", err)
	}

	receipt, err := e.sender.Submit(ctx, &transaction.Bundle{
		Label:        "swap",
		FeePayer:     handle.Payer,
		Signers:      []*wallet.Wallet{delegate},
		Instructions: []solana.Instruction{ix},
	})
	if err != nil {
		reason := tokenswap.RejectionReason(err, handle.ProgramID)
		logger.Error("Swap rejected", zap.String("reason", reason), zap.Error(err))
		return nil, swapErr(reason, err)
	}

	after, err := e.balances.GetTokenAccountBalance(ctx, userB)
	if err != nil {
		return nil, swapErr(reasonBalanceUnavailable, err)
	}
	var amountOut uint64
	if after > before {
		amountOut = after - before
	}
	if amountOut < minAmountOut {
		return nil, swapErr(reasonOutputBelowMinimum,
			fmt.Errorf("received %d, minimum %d (%s)", amountOut, minAmountOut, receipt.Signature))
	}

	logger.Info("Swap confirmed",
		zap.String("signature", receipt.Signature.String()),
		zap.Uint64("amount_out", amountOut))

	return &Receipt{
		Signature:       receipt.Signature,
		AmountIn:        amountIn,
		MinAmountOut:    minAmountOut,
		AmountOut:       amountOut,
		UserSource:      userA,
		UserDestination: userB,
		HostFeeAccount:  hostFee,
		Delegate:        delegate.PublicKey,
	}, nil
}
