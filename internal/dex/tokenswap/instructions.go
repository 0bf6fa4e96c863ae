// =============================
// File: internal/dex/tokenswap/instructions.go
// =============================
package tokenswap

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// InitializeData - данные инструкции Initialize после тега
type InitializeData struct {
	Fees            Fees
	CurveType       CurveType
	CurveParameters [CurveParametersSize]byte
}

// Curve возвращает селектор кривой из данных инструкции
func (d *InitializeData) Curve() Curve {
	return CurveFromParameters(d.CurveType, d.CurveParameters)
}

// SwapData - данные инструкции Swap после тега
type SwapData struct {
	AmountIn         uint64
	MinimumAmountOut uint64
}

// InitializeParams содержит аккаунты и конфигурацию для создания пула
type InitializeParams struct {
	ProgramID      solana.PublicKey
	Swap           solana.PublicKey
	Authority      solana.PublicKey
	TokenA         solana.PublicKey
	TokenB         solana.PublicKey
	PoolMint       solana.PublicKey
	FeeAccount     solana.PublicKey
	PoolShareDest  solana.PublicKey
	TokenProgramID solana.PublicKey

	Fees  Fees
	Curve Curve
}

// SwapParams содержит аккаунты и суммы для обмена
type SwapParams struct {
	ProgramID             solana.PublicKey
	Swap                  solana.PublicKey
	Authority             solana.PublicKey
	UserTransferAuthority solana.PublicKey
	UserSource            solana.PublicKey
	PoolSource            solana.PublicKey
	PoolDestination       solana.PublicKey
	UserDestination       solana.PublicKey
	PoolMint              solana.PublicKey
	FeeAccount            solana.PublicKey
	TokenProgramID        solana.PublicKey
	HostFeeAccount        *solana.PublicKey // опционально

	AmountIn         uint64
	MinimumAmountOut uint64
}

// NewInitializeInstruction создаёт инструкцию создания пула
func NewInitializeInstruction(params *InitializeParams) (solana.Instruction, error) {
	data, err := encode(InstructionInitialize, &InitializeData{
		Fees:            params.Fees,
		CurveType:       params.Curve.Type,
		CurveParameters: params.Curve.Parameters(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode initialize data: %w", err)
	}

	accounts := []*solana.AccountMeta{
		solana.NewAccountMeta(params.Swap, true, false),
		solana.NewAccountMeta(params.Authority, false, false),
		solana.NewAccountMeta(params.TokenA, false, false),
		solana.NewAccountMeta(params.TokenB, false, false),
		solana.NewAccountMeta(params.PoolMint, true, false),
		solana.NewAccountMeta(params.FeeAccount, false, false),
		solana.NewAccountMeta(params.PoolShareDest, true, false),
		solana.NewAccountMeta(params.TokenProgramID, false, false),
	}

	return solana.NewInstruction(params.ProgramID, accounts, data), nil
}

// NewSwapInstruction создаёт инструкцию обмена
func NewSwapInstruction(params *SwapParams) (solana.Instruction, error) {
	data, err := encode(InstructionSwap, &SwapData{
		AmountIn:         params.AmountIn,
		MinimumAmountOut: params.MinimumAmountOut,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode swap data: %w", err)
	}

	accounts := []*solana.AccountMeta{
		solana.NewAccountMeta(params.Swap, false, false),
		solana.NewAccountMeta(params.Authority, false, false),
		solana.NewAccountMeta(params.UserTransferAuthority, false, true),
		solana.NewAccountMeta(params.UserSource, true, false),
		solana.NewAccountMeta(params.PoolSource, true, false),
		solana.NewAccountMeta(params.PoolDestination, true, false),
		solana.NewAccountMeta(params.UserDestination, true, false),
		solana.NewAccountMeta(params.PoolMint, true, false),
		solana.NewAccountMeta(params.FeeAccount, true, false),
		solana.NewAccountMeta(params.TokenProgramID, false, false),
	}
	if params.HostFeeAccount != nil {
		accounts = append(accounts, solana.NewAccountMeta(*params.HostFeeAccount, true, false))
	}

	return solana.NewInstruction(params.ProgramID, accounts, data), nil
}

func encode(tag uint8, payload interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBinEncoder(buf)
	if err := enc.WriteUint8(tag); err != nil {
		return nil, err
	}
	if err := enc.Encode(payload); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeInitializeData разбирает данные инструкции Initialize
func DecodeInitializeData(data []byte) (*InitializeData, error) {
	if err := expectTag(data, InstructionInitialize); err != nil {
		return nil, err
	}
	var out InitializeData
	if err := bin.NewBinDecoder(data[1:]).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode initialize data: %w", err)
	}
	return &out, nil
}

// DecodeSwapData разбирает данные инструкции Swap
func DecodeSwapData(data []byte) (*SwapData, error) {
	if err := expectTag(data, InstructionSwap); err != nil {
		return nil, err
	}
	var out SwapData
	if err := bin.NewBinDecoder(data[1:]).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode swap data: %w", err)
	}
	return &out, nil
}

func expectTag(data []byte, tag uint8) error {
	if len(data) == 0 {
		return fmt.Errorf("empty instruction data")
	}
	if data[0] != tag {
		return fmt.Errorf("unexpected instruction tag %d, want %d", data[0], tag)
	}
	return nil
}
