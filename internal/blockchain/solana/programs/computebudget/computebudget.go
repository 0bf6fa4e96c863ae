// internal/blockchain/solana/programs/computebudget/computebudget.go
package computebudget

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	cb "github.com/gagliardetto/solana-go/programs/compute-budget"
)

// Config содержит конфигурацию compute budget для транзакции.
// Нулевые значения означают "не добавлять инструкцию".
type Config struct {
	Units     uint32
	UnitPrice uint64 // micro-lamports per compute unit
}

// IsZero reports whether no compute-budget instruction would be emitted.
func (c Config) IsZero() bool {
	return c.Units == 0 && c.UnitPrice == 0
}

// BuildInstructions создает инструкции для настройки бюджета.
func BuildInstructions(config Config) ([]solana.Instruction, error) {
	var instructions []solana.Instruction

	if config.Units > 0 {
		limit, err := cb.NewSetComputeUnitLimitInstruction(config.Units).ValidateAndBuild()
		if err != nil {
			return nil, fmt.Errorf("failed to build compute unit limit instruction: %w", err)
		}
		instructions = append(instructions, limit)
	}

	if config.UnitPrice > 0 {
		price, err := cb.NewSetComputeUnitPriceInstruction(config.UnitPrice).ValidateAndBuild()
		if err != nil {
			return nil, fmt.Errorf("failed to build compute unit price instruction: %w", err)
		}
		instructions = append(instructions, price)
	}

	return instructions, nil
}
