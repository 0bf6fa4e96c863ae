// =============================
// File: internal/pool/bootstrapper.go
// =============================
package pool

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/dex/tokenswap"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/domain"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/provision"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/transaction"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/wallet"
)

// Имена шагов для ProvisioningError
const (
	StepCreatePoolMint         = "create_pool_mint"
	StepCreatePoolShareAccount = "create_pool_share_account"
	StepCreateFeeAccount       = "create_fee_account"
)

var errStateMismatch = errors.New("pool state does not match submitted configuration")

// Ledger - чтение состояния, нужное бутстрапперу
type Ledger interface {
	GetMinimumBalanceForRentExemption(ctx context.Context, dataSize uint64) (uint64, error)
	GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*rpc.GetAccountInfoResult, error)
}

// TokenFactory - операции token program, нужные бутстрапперу
type TokenFactory interface {
	CreateMint(ctx context.Context, payer *wallet.Wallet, mintAuthority solana.PublicKey, decimals uint8) (solana.PublicKey, error)
	CreateAccount(ctx context.Context, payer *wallet.Wallet, mint, owner solana.PublicKey) (solana.PublicKey, error)
	GetOrCreateAssociatedAccount(ctx context.Context, payer *wallet.Wallet, mint, owner solana.PublicKey) (solana.PublicKey, error)
}

// Bootstrapper создаёт пул в программе обмена
type Bootstrapper struct {
	ledger  Ledger
	factory TokenFactory
	sender  transaction.Submitter
	logger  *zap.Logger
}

// NewBootstrapper создаёт Bootstrapper
func NewBootstrapper(ledger Ledger, factory TokenFactory, sender transaction.Submitter, logger *zap.Logger) *Bootstrapper {
	return &Bootstrapper{
		ledger:  ledger,
		factory: factory,
		sender:  sender,
		logger:  logger.Named("pool"),
	}
}

// BootstrapPool создаёт минт долей пула, аккаунты долей и комиссий, затем в одной транзакции
// аллоцирует swapAccount и инициализирует пул. swapAccount должен быть тем же адресом,
// от которого выведен accounts.Authority.
func (b *Bootstrapper) BootstrapPool(
	ctx context.Context,
	cfg Config,
	accounts *provision.Accounts,
	owner, payer, swapAccount *wallet.Wallet,
) (*Handle, error) {
	if !swapAccount.PublicKey.Equals(accounts.SwapAccount) {
		return nil, &domain.PoolCreationError{
			Pool:   swapAccount.PublicKey,
			Reason: "IncorrectSwapAccount",
			Err:    fmt.Errorf("authority was derived from %s", accounts.SwapAccount),
		}
	}
	if err := cfg.Fees.Validate(); err != nil {
		return nil, &domain.PoolCreationError{Pool: swapAccount.PublicKey, Reason: "InvalidFee", Err: err}
	}
	if cfg.ProgramID.IsZero() {
		cfg.ProgramID = tokenswap.DefaultProgramID
	}

	logger := b.logger.With(zap.Stringer("swap_account", swapAccount.PublicKey))

	// доли пула может выпускать только авторитет пула
	poolMint, err := b.factory.CreateMint(ctx, owner, accounts.Authority, tokenswap.PoolMintDecimals)
	if err != nil {
		return nil, domain.NewProvisioningError(StepCreatePoolMint, err)
	}

	poolShare, err := b.factory.GetOrCreateAssociatedAccount(ctx, owner, poolMint, owner.PublicKey)
	if err != nil {
		return nil, domain.NewProvisioningError(StepCreatePoolShareAccount, err)
	}

	feeAccount, err := b.factory.CreateAccount(ctx, owner, poolMint, owner.PublicKey)
	if err != nil {
		return nil, domain.NewProvisioningError(StepCreateFeeAccount, err)
	}

	logger.Info("Pool token accounts created",
		zap.Stringer("pool_mint", poolMint),
		zap.Stringer("pool_share", poolShare),
		zap.Stringer("fee_account", feeAccount))

	params := &tokenswap.InitializeParams{
		ProgramID:      cfg.ProgramID,
		Swap:           swapAccount.PublicKey,
		Authority:      accounts.Authority,
		TokenA:         accounts.ReserveA,
		TokenB:         accounts.ReserveB,
		PoolMint:       poolMint,
		FeeAccount:     feeAccount,
		PoolShareDest:  poolShare,
		TokenProgramID: solana.TokenProgramID,
		Fees:           cfg.Fees,
		Curve:          cfg.Curve,
	}
	if err := b.createPool(ctx, params, payer, swapAccount); err != nil {
		logger.Error("Pool creation rejected", zap.Error(err))
		return nil, &domain.PoolCreationError{
			Pool:   swapAccount.PublicKey,
			Reason: tokenswap.RejectionReason(err, cfg.ProgramID),
			Err:    err,
		}
	}

	state, err := b.readState(ctx, swapAccount.PublicKey)
	if err != nil {
		return nil, &domain.PoolCreationError{Pool: swapAccount.PublicKey, Err: err}
	}
	if err := verifyState(state, params, accounts); err != nil {
		return nil, &domain.PoolCreationError{Pool: swapAccount.PublicKey, Reason: "StateMismatch", Err: err}
	}

	handle := &Handle{
		SwapAccount:      swapAccount.PublicKey,
		ProgramID:        cfg.ProgramID,
		Authority:        accounts.Authority,
		BumpSeed:         state.BumpSeed,
		MintA:            state.MintA,
		MintB:            state.MintB,
		ReserveA:         state.TokenA,
		ReserveB:         state.TokenB,
		PoolMint:         state.PoolMint,
		FeeAccount:       state.FeeAccount,
		PoolShareAccount: poolShare,
		Fees:             state.Fees,
		Curve:            state.Curve(),
		OwnerFeeAddress:  cfg.OwnerFeeAddress,
		Owner:            owner,
		Payer:            payer,
	}

	logger.Info("Pool created",
		zap.Stringer("authority", handle.Authority),
		zap.Stringer("curve", handle.Curve),
		zap.String("trade_fee", handle.Fees.Trade.String()),
		zap.String("owner_withdraw_fee", handle.Fees.OwnerWithdraw.String()))

	return handle, nil
}

// createPool аллоцирует аккаунт пула и вызывает Initialize одной транзакцией
func (b *Bootstrapper) createPool(ctx context.Context, params *tokenswap.InitializeParams, payer, swapAccount *wallet.Wallet) error {
	lamports, err := b.ledger.GetMinimumBalanceForRentExemption(ctx, tokenswap.StateSize)
	if err != nil {
		return fmt.Errorf("failed to get rent exemption for swap state: %w", err)
	}

	create, err := system.NewCreateAccountInstruction(
		lamports,
		tokenswap.StateSize,
		params.ProgramID,
		payer.PublicKey,
		swapAccount.PublicKey,
	).ValidateAndBuild()
	if err != nil {
		return fmt.Errorf("failed to build create swap account instruction: %w", err)
	}

	initialize, err := tokenswap.NewInitializeInstruction(params)
	if err != nil {
		return err
	}

	_, err = b.sender.Submit(ctx, &transaction.Bundle{
		Label:        "create_pool",
		FeePayer:     payer,
		Signers:      []*wallet.Wallet{swapAccount},
		Instructions: []solana.Instruction{create, initialize},
	})
	return err
}

func (b *Bootstrapper) readState(ctx context.Context, swapAccount solana.PublicKey) (*tokenswap.SwapState, error) {
	info, err := b.ledger.GetAccountInfo(ctx, swapAccount)
	if err != nil {
		return nil, fmt.Errorf("failed to read pool state: %w", err)
	}
	if info == nil || info.Value == nil {
		return nil, fmt.Errorf("pool account %s not found after creation", swapAccount)
	}
	return tokenswap.DecodeSwapState(info.Value.Data.GetBinary())
}

func verifyState(state *tokenswap.SwapState, params *tokenswap.InitializeParams, accounts *provision.Accounts) error {
	switch {
	case !state.IsInitialized:
		return fmt.Errorf("%w: not initialized", errStateMismatch)
	case state.Fees != params.Fees:
		return fmt.Errorf("%w: fees %+v, submitted %+v", errStateMismatch, state.Fees, params.Fees)
	case state.Curve() != params.Curve:
		return fmt.Errorf("%w: curve %s, submitted %s", errStateMismatch, state.Curve(), params.Curve)
	case state.BumpSeed != accounts.BumpSeed:
		return fmt.Errorf("%w: bump %d, derived %d", errStateMismatch, state.BumpSeed, accounts.BumpSeed)
	case !state.TokenA.Equals(params.TokenA), !state.TokenB.Equals(params.TokenB):
		return fmt.Errorf("%w: reserve accounts", errStateMismatch)
	case !state.MintA.Equals(accounts.MintA), !state.MintB.Equals(accounts.MintB):
		return fmt.Errorf("%w: mints", errStateMismatch)
	case !state.PoolMint.Equals(params.PoolMint), !state.FeeAccount.Equals(params.FeeAccount):
		return fmt.Errorf("%w: pool mint or fee account", errStateMismatch)
	}
	return nil
}
