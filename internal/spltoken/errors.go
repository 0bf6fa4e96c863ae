// internal/spltoken/errors.go
package spltoken

import "fmt"

// ProgramError - код ошибки token program
type ProgramError uint32

const (
	ErrNotRentExempt ProgramError = iota
	ErrInsufficientFunds
	ErrInvalidMint
	ErrMintMismatch
	ErrOwnerMismatch
	ErrFixedSupply
	ErrAlreadyInUse
	ErrInvalidNumberOfProvidedSigners
	ErrInvalidNumberOfRequiredSigners
	ErrUninitializedState
	ErrNativeNotSupported
	ErrNonNativeHasBalance
	ErrInvalidInstruction
	ErrInvalidState
	ErrOverflow
	ErrAuthorityTypeNotSupported
	ErrMintCannotFreeze
	ErrAccountFrozen
	ErrMintDecimalsMismatch
	ErrNonNativeNotSupported
)

var programErrorNames = [...]string{
	"NotRentExempt",
	"InsufficientFunds",
	"InvalidMint",
	"MintMismatch",
	"OwnerMismatch",
	"FixedSupply",
	"AlreadyInUse",
	"InvalidNumberOfProvidedSigners",
	"InvalidNumberOfRequiredSigners",
	"UninitializedState",
	"NativeNotSupported",
	"NonNativeHasBalance",
	"InvalidInstruction",
	"InvalidState",
	"Overflow",
	"AuthorityTypeNotSupported",
	"MintCannotFreeze",
	"AccountFrozen",
	"MintDecimalsMismatch",
	"NonNativeNotSupported",
}

func (e ProgramError) String() string {
	if int(e) < len(programErrorNames) {
		return programErrorNames[e]
	}
	return fmt.Sprintf("Unknown(0x%x)", uint32(e))
}
