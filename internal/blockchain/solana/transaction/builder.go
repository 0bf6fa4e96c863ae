// internal/blockchain/solana/transaction/builder.go
package transaction

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/blockchain/solana/programs/computebudget"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/wallet"
)

// BlockhashSource определяет интерфейс для получения blockhash.
type BlockhashSource interface {
	GetRecentBlockhash(ctx context.Context) (solana.Hash, error)
}

// Builder помогает конструировать транзакции
type Builder struct {
	instructions []solana.Instruction
	feePayer     *wallet.Wallet
	signers      []*wallet.Wallet
	config       computebudget.Config
}

// NewBuilder создает новый билдер транзакций
func NewBuilder() *Builder {
	return &Builder{}
}

// SetComputeBudget устанавливает параметры compute budget
func (b *Builder) SetComputeBudget(config computebudget.Config) *Builder {
	b.config = config
	return b
}

// SetFeePayer задает плательщика комиссии. Он же подписывает транзакцию первым.
func (b *Builder) SetFeePayer(payer *wallet.Wallet) *Builder {
	b.feePayer = payer
	return b
}

// AddInstruction добавляет инструкции в транзакцию
func (b *Builder) AddInstruction(instructions ...solana.Instruction) *Builder {
	b.instructions = append(b.instructions, instructions...)
	return b
}

// AddSigner добавляет подписантов транзакции
func (b *Builder) AddSigner(signers ...*wallet.Wallet) *Builder {
	for _, s := range signers {
		if s == nil || b.hasSigner(s.PublicKey) {
			continue
		}
		b.signers = append(b.signers, s)
	}
	return b
}

func (b *Builder) hasSigner(key solana.PublicKey) bool {
	if b.feePayer != nil && b.feePayer.PublicKey.Equals(key) {
		return true
	}
	for _, s := range b.signers {
		if s.PublicKey.Equals(key) {
			return true
		}
	}
	return false
}

// Build создает и подписывает транзакцию
func (b *Builder) Build(ctx context.Context, client BlockhashSource) (*solana.Transaction, error) {
	if b.feePayer == nil {
		return nil, fmt.Errorf("no fee payer provided")
	}
	if len(b.instructions) == 0 {
		return nil, fmt.Errorf("no instructions provided")
	}

	blockhash, err := client.GetRecentBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent blockhash: %w", err)
	}

	// Получаем инструкции для compute budget
	budgetInstructions, err := computebudget.BuildInstructions(b.config)
	if err != nil {
		return nil, fmt.Errorf("failed to build compute budget instructions: %w", err)
	}

	instructions := make([]solana.Instruction, 0, len(budgetInstructions)+len(b.instructions))
	instructions = append(instructions, budgetInstructions...)
	instructions = append(instructions, b.instructions...)

	tx, err := solana.NewTransaction(
		instructions,
		blockhash,
		solana.TransactionPayer(b.feePayer.PublicKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	signers := append([]*wallet.Wallet{b.feePayer}, b.signers...)
	if err := wallet.SignTransaction(tx, signers...); err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	return tx, nil
}
