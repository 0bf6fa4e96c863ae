// =============================
// File: internal/provision/provisioner.go
// =============================
package provision

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/dex/tokenswap"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/domain"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/wallet"
)

// MintDecimals - decimals для минтов A и B
const MintDecimals uint8 = 2

// DefaultInitialSupply - ликвидность, зачисляемая в каждый резерв
const DefaultInitialSupply uint64 = 1_000_000

// Имена шагов для ProvisioningError
const (
	StepDeriveAuthority = "derive_authority"
	StepCreateMintA     = "create_mint_a"
	StepCreateReserveA  = "create_reserve_a"
	StepMintReserveA    = "mint_reserve_a"
	StepCreateMintB     = "create_mint_b"
	StepCreateReserveB  = "create_reserve_b"
	StepMintReserveB    = "mint_reserve_b"
)

// TokenFactory - операции token program, которые нужны провижинеру
type TokenFactory interface {
	CreateMint(ctx context.Context, payer *wallet.Wallet, mintAuthority solana.PublicKey, decimals uint8) (solana.PublicKey, error)
	CreateAccount(ctx context.Context, payer *wallet.Wallet, mint, owner solana.PublicKey) (solana.PublicKey, error)
	MintTo(ctx context.Context, payer, authority *wallet.Wallet, mint, destination solana.PublicKey, amount uint64) error
}

// Config - параметры провижининга
type Config struct {
	ProgramID      solana.PublicKey
	InitialSupplyA uint64
	InitialSupplyB uint64
}

// DefaultConfig возвращает конфигурацию с программой по умолчанию и резервами по 1_000_000
func DefaultConfig() Config {
	return Config{
		ProgramID:      tokenswap.DefaultProgramID,
		InitialSupplyA: DefaultInitialSupply,
		InitialSupplyB: DefaultInitialSupply,
	}
}

// Accounts - результат провижининга: всё, что нужно для создания пула
type Accounts struct {
	SwapAccount solana.PublicKey
	Authority   solana.PublicKey
	BumpSeed    uint8
	MintA       solana.PublicKey
	MintB       solana.PublicKey
	ReserveA    solana.PublicKey
	ReserveB    solana.PublicKey
}

// Provisioner создаёт минты и резервы пула в порядке зависимостей
type Provisioner struct {
	factory TokenFactory
	config  Config
	logger  *zap.Logger
}

// NewProvisioner создаёт Provisioner
func NewProvisioner(factory TokenFactory, config Config, logger *zap.Logger) *Provisioner {
	if config.ProgramID.IsZero() {
		config.ProgramID = tokenswap.DefaultProgramID
	}
	return &Provisioner{
		factory: factory,
		config:  config,
		logger:  logger.Named("provision"),
	}
}

// ProvisionAccounts выводит авторитет пула для swapAccount и создаёт минты A/B
// с резервами, принадлежащими авторитету. owner платит за всё и владеет минтами.
func (p *Provisioner) ProvisionAccounts(ctx context.Context, owner *wallet.Wallet, swapAccount solana.PublicKey) (*Accounts, error) {
	// авторитет должен быть известен до создания резервов
	authority, bump, err := tokenswap.DeriveAuthority(swapAccount, p.config.ProgramID)
	if err != nil {
		return nil, domain.NewProvisioningError(StepDeriveAuthority, err)
	}

	p.logger.Info("Pool authority derived",
		zap.Stringer("swap_account", swapAccount),
		zap.Stringer("authority", authority),
		zap.Uint8("bump", bump))

	accounts := &Accounts{
		SwapAccount: swapAccount,
		Authority:   authority,
		BumpSeed:    bump,
	}

	accounts.MintA, accounts.ReserveA, err = p.provisionSide(ctx, owner, authority, p.config.InitialSupplyA,
		StepCreateMintA, StepCreateReserveA, StepMintReserveA)
	if err != nil {
		return nil, err
	}

	accounts.MintB, accounts.ReserveB, err = p.provisionSide(ctx, owner, authority, p.config.InitialSupplyB,
		StepCreateMintB, StepCreateReserveB, StepMintReserveB)
	if err != nil {
		return nil, err
	}

	p.logger.Info("Pool accounts provisioned",
		zap.Stringer("mint_a", accounts.MintA),
		zap.Stringer("mint_b", accounts.MintB),
		zap.Stringer("reserve_a", accounts.ReserveA),
		zap.Stringer("reserve_b", accounts.ReserveB))

	return accounts, nil
}

// provisionSide: минт -> резерв авторитета -> начальная эмиссия
func (p *Provisioner) provisionSide(
	ctx context.Context,
	owner *wallet.Wallet,
	authority solana.PublicKey,
	supply uint64,
	mintStep, reserveStep, supplyStep string,
) (solana.PublicKey, solana.PublicKey, error) {
	mint, err := p.factory.CreateMint(ctx, owner, owner.PublicKey, MintDecimals)
	if err != nil {
		return solana.PublicKey{}, solana.PublicKey{}, domain.NewProvisioningError(mintStep, err)
	}

	reserve, err := p.factory.CreateAccount(ctx, owner, mint, authority)
	if err != nil {
		return solana.PublicKey{}, solana.PublicKey{}, domain.NewProvisioningError(reserveStep, err)
	}

	if err := p.factory.MintTo(ctx, owner, owner, mint, reserve, supply); err != nil {
		return solana.PublicKey{}, solana.PublicKey{}, domain.NewProvisioningError(supplyStep, err)
	}

	p.logger.Debug("Reserve funded",
		zap.Stringer("mint", mint),
		zap.Stringer("reserve", reserve),
		zap.Uint64("supply", supply))

	return mint, reserve, nil
}
