// =============================
// File: internal/dex/tokenswap/errors.go
// =============================
package tokenswap

import "fmt"

// ProgramError - пользовательский код ошибки программы обмена
type ProgramError uint32

const (
	ErrAlreadyInUse ProgramError = iota
	ErrInvalidProgramAddress
	ErrInvalidOwner
	ErrInvalidOutputOwner
	ErrExpectedMint
	ErrExpectedAccount
	ErrEmptySupply
	ErrInvalidSupply
	ErrInvalidDelegate
	ErrInvalidInput
	ErrIncorrectSwapAccount
	ErrIncorrectPoolMint
	ErrInvalidOutput
	ErrCalculationFailure
	ErrInvalidInstruction
	ErrRepeatedMint
	ErrExceededSlippage
	ErrInvalidCloseAuthority
	ErrInvalidFreezeAuthority
	ErrIncorrectFeeAccount
	ErrZeroTradingTokens
	ErrFeeCalculationFailure
	ErrConversionFailure
	ErrInvalidFee
	ErrIncorrectTokenProgramID
	ErrUnsupportedCurveType
	ErrInvalidCurve
	ErrUnsupportedCurveOperation
)

var programErrorNames = [...]string{
	"AlreadyInUse",
	"InvalidProgramAddress",
	"InvalidOwner",
	"InvalidOutputOwner",
	"ExpectedMint",
	"ExpectedAccount",
	"EmptySupply",
	"InvalidSupply",
	"InvalidDelegate",
	"InvalidInput",
	"IncorrectSwapAccount",
	"IncorrectPoolMint",
	"InvalidOutput",
	"CalculationFailure",
	"InvalidInstruction",
	"RepeatedMint",
	"ExceededSlippage",
	"InvalidCloseAuthority",
	"InvalidFreezeAuthority",
	"IncorrectFeeAccount",
	"ZeroTradingTokens",
	"FeeCalculationFailure",
	"ConversionFailure",
	"InvalidFee",
	"IncorrectTokenProgramId",
	"UnsupportedCurveType",
	"InvalidCurve",
	"UnsupportedCurveOperation",
}

func (e ProgramError) String() string {
	if int(e) < len(programErrorNames) {
		return programErrorNames[e]
	}
	return fmt.Sprintf("Unknown(0x%x)", uint32(e))
}
