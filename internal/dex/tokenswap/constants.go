// =============================
// File: internal/dex/tokenswap/constants.go
// =============================
package tokenswap

import "github.com/gagliardetto/solana-go"

// Адрес программы по умолчанию (devnet/localnet деплой)
const DefaultProgramAddress = "SwapsVeCiPHMUAtzQWZw7RjsKjgCjhwU55QGu4U1Szw"

var DefaultProgramID = solana.MustPublicKeyFromBase58(DefaultProgramAddress)

const (
	// StateSize - размер аккаунта состояния пула
	StateSize = 324

	// CurveParametersSize - размер блока параметров кривой
	CurveParametersSize = 32

	// PoolMintDecimals - decimals для минта долей пула
	PoolMintDecimals uint8 = 2
)

// Теги инструкций
const (
	InstructionInitialize uint8 = iota
	InstructionSwap
)

// SwapVersion - текущая версия состояния
const SwapVersion uint8 = 1
