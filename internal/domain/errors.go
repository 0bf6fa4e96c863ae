// =============================
// File: internal/domain/errors.go
// =============================
package domain

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Sentinels for errors.Is across the run taxonomy.
var (
	ErrFundingTimeout = errors.New("funding timeout")
	ErrProvisioning   = errors.New("provisioning failed")
	ErrPoolCreation   = errors.New("pool creation failed")
	ErrSwap           = errors.New("swap failed")
)

// FundingTimeoutError is returned when a requested credit is not observed within the poll budget.
type FundingTimeoutError struct {
	Address   solana.PublicKey
	Requested uint64
	Observed  uint64 // last observed credit delta
	Attempts  int
	Err       error
}

func (e *FundingTimeoutError) Error() string {
	msg := fmt.Sprintf("airdrop of %d lamports to %s not confirmed after %d attempts (observed %d)",
		e.Requested, e.Address, e.Attempts, e.Observed)
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *FundingTimeoutError) Unwrap() error { return e.Err }

func (e *FundingTimeoutError) Is(target error) bool { return target == ErrFundingTimeout }

// ProvisioningError reports a failed mint/account creation or minting sub-step.
type ProvisioningError struct {
	Step string
	Err  error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provisioning step %q failed: %v", e.Step, e.Err)
}

func (e *ProvisioningError) Unwrap() error { return e.Err }

func (e *ProvisioningError) Is(target error) bool { return target == ErrProvisioning }

// NewProvisioningError wraps err with the failed step name.
func NewProvisioningError(step string, err error) error {
	return &ProvisioningError{Step: step, Err: err}
}

// PoolCreationError wraps the swap program's rejection of a pool-creation request.
type PoolCreationError struct {
	Pool   solana.PublicKey
	Reason string // program error name when it could be decoded
	Err    error
}

func (e *PoolCreationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("pool %s creation rejected (%s): %v", e.Pool, e.Reason, e.Err)
	}
	return fmt.Sprintf("pool %s creation rejected: %v", e.Pool, e.Err)
}

func (e *PoolCreationError) Unwrap() error { return e.Err }

func (e *PoolCreationError) Is(target error) bool { return target == ErrPoolCreation }

// SwapError wraps a rejected or reverted swap, including slippage and allowance failures.
type SwapError struct {
	Pool         solana.PublicKey
	AmountIn     uint64
	MinAmountOut uint64
	Reason       string
	Err          error
}

func (e *SwapError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("swap of %d on pool %s (min out %d) rejected (%s): %v",
			e.AmountIn, e.Pool, e.MinAmountOut, e.Reason, e.Err)
	}
	return fmt.Sprintf("swap of %d on pool %s (min out %d) rejected: %v",
		e.AmountIn, e.Pool, e.MinAmountOut, e.Err)
}

func (e *SwapError) Unwrap() error { return e.Err }

func (e *SwapError) Is(target error) bool { return target == ErrSwap }
