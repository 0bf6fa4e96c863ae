// internal/spltoken/factory.go
package spltoken

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	ata "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/blockchain/solbc"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/transaction"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/wallet"
)

const (
	MintSize    uint64 = 82
	AccountSize uint64 = 165
)

// Client - часть blockchain.Client, нужная фабрике
type Client interface {
	GetMinimumBalanceForRentExemption(ctx context.Context, dataSize uint64) (uint64, error)
	GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*rpc.GetAccountInfoResult, error)
}

// Factory создаёт минты и токен-аккаунты через token program.
// Каждый вызов - отдельная подтверждённая транзакция.
type Factory struct {
	client Client
	sender transaction.Submitter
	logger *zap.Logger
}

// NewFactory создаёт фабрику токенов
func NewFactory(client Client, sender transaction.Submitter, logger *zap.Logger) *Factory {
	return &Factory{
		client: client,
		sender: sender,
		logger: logger.Named("spltoken"),
	}
}

// CreateMint создаёт минт с заданным авторитетом. Freeze authority не задаётся.
func (f *Factory) CreateMint(ctx context.Context, payer *wallet.Wallet, mintAuthority solana.PublicKey, decimals uint8) (solana.PublicKey, error) {
	mint, err := wallet.Generate()
	if err != nil {
		return solana.PublicKey{}, err
	}

	create, err := f.createAccountInstruction(ctx, payer.PublicKey, mint.PublicKey, MintSize)
	if err != nil {
		return solana.PublicKey{}, err
	}

	initialize, err := token.NewInitializeMintInstructionBuilder().
		SetDecimals(decimals).
		SetMintAuthority(mintAuthority).
		SetMintAccount(mint.PublicKey).
		SetSysVarRentPubkeyAccount(solana.SysVarRentPubkey).
		ValidateAndBuild()
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to build initialize mint instruction: %w", err)
	}

	if _, err := f.sender.Submit(ctx, &transaction.Bundle{
		Label:        "create_mint",
		FeePayer:     payer,
		Signers:      []*wallet.Wallet{mint},
		Instructions: []solana.Instruction{create, initialize},
	}); err != nil {
		return solana.PublicKey{}, err
	}

	f.logger.Debug("Mint created",
		zap.Stringer("mint", mint.PublicKey),
		zap.Stringer("authority", mintAuthority),
		zap.Uint8("decimals", decimals))
	return mint.PublicKey, nil
}

// CreateAccount создаёт новый токен-аккаунт (свежая пара ключей) для owner
func (f *Factory) CreateAccount(ctx context.Context, payer *wallet.Wallet, mint, owner solana.PublicKey) (solana.PublicKey, error) {
	account, err := wallet.Generate()
	if err != nil {
		return solana.PublicKey{}, err
	}

	create, err := f.createAccountInstruction(ctx, payer.PublicKey, account.PublicKey, AccountSize)
	if err != nil {
		return solana.PublicKey{}, err
	}

	initialize, err := token.NewInitializeAccountInstruction(
		account.PublicKey,
		mint,
		owner,
		solana.SysVarRentPubkey,
	).ValidateAndBuild()
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to build initialize account instruction: %w", err)
	}

	if _, err := f.sender.Submit(ctx, &transaction.Bundle{
		Label:        "create_token_account",
		FeePayer:     payer,
		Signers:      []*wallet.Wallet{account},
		Instructions: []solana.Instruction{create, initialize},
	}); err != nil {
		return solana.PublicKey{}, err
	}

	f.logger.Debug("Token account created",
		zap.Stringer("account", account.PublicKey),
		zap.Stringer("mint", mint),
		zap.Stringer("owner", owner))
	return account.PublicKey, nil
}

// GetOrCreateAssociatedAccount возвращает ATA владельца, создавая его при отсутствии
func (f *Factory) GetOrCreateAssociatedAccount(ctx context.Context, payer *wallet.Wallet, mint, owner solana.PublicKey) (solana.PublicKey, error) {
	address, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to find ATA: %w", err)
	}

	exists, err := f.accountExists(ctx, address)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if exists {
		f.logger.Debug("ATA already exists", zap.Stringer("ata", address))
		return address, nil
	}

	create, err := ata.NewCreateInstruction(payer.PublicKey, owner, mint).ValidateAndBuild()
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to build create ATA instruction: %w", err)
	}

	if _, err := f.sender.Submit(ctx, &transaction.Bundle{
		Label:        "create_associated_account",
		FeePayer:     payer,
		Instructions: []solana.Instruction{create},
	}); err != nil {
		return solana.PublicKey{}, err
	}

	f.logger.Debug("ATA created",
		zap.Stringer("ata", address),
		zap.Stringer("mint", mint),
		zap.Stringer("owner", owner))
	return address, nil
}

// MintTo выпускает amount токенов на destination. authority подписывает.
func (f *Factory) MintTo(ctx context.Context, payer, authority *wallet.Wallet, mint, destination solana.PublicKey, amount uint64) error {
	ix, err := token.NewMintToInstruction(
		amount,
		mint,
		destination,
		authority.PublicKey,
		[]solana.PublicKey{},
	).ValidateAndBuild()
	if err != nil {
		return fmt.Errorf("failed to build mint-to instruction: %w", err)
	}

	if _, err := f.sender.Submit(ctx, &transaction.Bundle{
		Label:        "mint_to",
		FeePayer:     payer,
		Signers:      []*wallet.Wallet{authority},
		Instructions: []solana.Instruction{ix},
	}); err != nil {
		return err
	}

	f.logger.Debug("Tokens minted",
		zap.Stringer("mint", mint),
		zap.Stringer("destination", destination),
		zap.Uint64("amount", amount))
	return nil
}

// Approve выдаёт delegate право перевести до amount токенов с source
func (f *Factory) Approve(ctx context.Context, payer, owner *wallet.Wallet, source, delegate solana.PublicKey, amount uint64) error {
	ix, err := token.NewApproveInstruction(
		amount,
		source,
		delegate,
		owner.PublicKey,
		[]solana.PublicKey{},
	).ValidateAndBuild()
	if err != nil {
		return fmt.Errorf("failed to build approve instruction: %w", err)
	}

	if _, err := f.sender.Submit(ctx, &transaction.Bundle{
		Label:        "approve",
		FeePayer:     payer,
		Signers:      []*wallet.Wallet{owner},
		Instructions: []solana.Instruction{ix},
	}); err != nil {
		return err
	}

	f.logger.Debug("Delegate approved",
		zap.Stringer("source", source),
		zap.Stringer("delegate", delegate),
		zap.Uint64("amount", amount))
	return nil
}

func (f *Factory) createAccountInstruction(ctx context.Context, payer, account solana.PublicKey, size uint64) (solana.Instruction, error) {
	lamports, err := f.client.GetMinimumBalanceForRentExemption(ctx, size)
	if err != nil {
		return nil, fmt.Errorf("failed to get rent exemption for %d bytes: %w", size, err)
	}

	ix, err := system.NewCreateAccountInstruction(
		lamports,
		size,
		solana.TokenProgramID,
		payer,
		account,
	).ValidateAndBuild()
	if err != nil {
		return nil, fmt.Errorf("failed to build create account instruction: %w", err)
	}
	return ix, nil
}

func (f *Factory) accountExists(ctx context.Context, address solana.PublicKey) (bool, error) {
	info, err := f.client.GetAccountInfo(ctx, address)
	if err != nil {
		if solbc.IsAccountNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get account info for %s: %w", address, err)
	}
	return info != nil && info.Value != nil && !info.Value.Owner.IsZero(), nil
}
