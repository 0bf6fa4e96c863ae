// internal/swap/fake_program_test.go
package swap

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"

	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/dex/tokenswap"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/spltoken"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/transaction"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/wallet"
)

type approval struct {
	delegate solana.PublicKey
	amount   uint64
}

// fakeProgram - token program и программа обмена в памяти.
// Выход обмена считает сама "программа", клиент его только проверяет.
type fakeProgram struct {
	programID solana.PublicKey
	amountOut uint64

	balances  map[solana.PublicKey]uint64
	approvals map[solana.PublicKey]approval

	dropApproval bool   // обнулить делегирование перед обменом
	shortChange  uint64 // недоплатить получателю без отказа
	failATA      bool

	mintAuthorities []solana.PublicKey
	bundles         []*transaction.Bundle
}

func newFakeProgram(amountOut uint64) *fakeProgram {
	return &fakeProgram{
		programID: tokenswap.DefaultProgramID,
		amountOut: amountOut,
		balances:  make(map[solana.PublicKey]uint64),
		approvals: make(map[solana.PublicKey]approval),
	}
}

func (f *fakeProgram) CreateAccount(_ context.Context, _ *wallet.Wallet, _, _ solana.PublicKey) (solana.PublicKey, error) {
	account := solana.NewWallet().PublicKey()
	f.balances[account] = 0
	return account, nil
}

func (f *fakeProgram) GetOrCreateAssociatedAccount(_ context.Context, _ *wallet.Wallet, mint, owner solana.PublicKey) (solana.PublicKey, error) {
	if f.failATA {
		return solana.PublicKey{}, errors.New("ata rejected")
	}
	address, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if _, ok := f.balances[address]; !ok {
		f.balances[address] = 0
	}
	return address, nil
}

func (f *fakeProgram) MintTo(_ context.Context, _, authority *wallet.Wallet, _, destination solana.PublicKey, amount uint64) error {
	f.mintAuthorities = append(f.mintAuthorities, authority.PublicKey)
	f.balances[destination] += amount
	return nil
}

func (f *fakeProgram) Approve(_ context.Context, _, _ *wallet.Wallet, source, delegate solana.PublicKey, amount uint64) error {
	f.approvals[source] = approval{delegate: delegate, amount: amount}
	return nil
}

func (f *fakeProgram) GetTokenAccountBalance(_ context.Context, account solana.PublicKey) (uint64, error) {
	balance, ok := f.balances[account]
	if !ok {
		return 0, fmt.Errorf("account %s not found", account)
	}
	return balance, nil
}

func (f *fakeProgram) reject(bundle *transaction.Bundle, program solana.PublicKey, code uint32) error {
	logs := []interface{}{}
	if !program.Equals(f.programID) {
		logs = append(logs, fmt.Sprintf("Program %s failed: custom program error: 0x%x", program, code))
	}
	logs = append(logs, fmt.Sprintf("Program %s failed: custom program error: 0x%x", f.programID, code))
	return transaction.NewRejectionError(bundle.Label, solana.Signature{}, 0, &jsonrpc.RPCError{
		Message: "Transaction simulation failed",
		Data: map[string]interface{}{
			"err": map[string]interface{}{
				"InstructionError": []interface{}{float64(0), map[string]interface{}{"Custom": float64(code)}},
			},
			"logs": logs,
		},
	})
}

func (f *fakeProgram) Submit(_ context.Context, bundle *transaction.Bundle) (*transaction.Receipt, error) {
	f.bundles = append(f.bundles, bundle)
	ix := bundle.Instructions[0]
	data, err := ix.Data()
	if err != nil {
		return nil, err
	}
	request, err := tokenswap.DecodeSwapData(data)
	if err != nil {
		return nil, err
	}
	metas := ix.Accounts()
	delegate, source, destination := metas[2].PublicKey, metas[3].PublicKey, metas[6].PublicKey

	if f.dropApproval {
		delete(f.approvals, source)
	}
	allowed := f.approvals[source]
	if !allowed.delegate.Equals(delegate) || allowed.amount < request.AmountIn {
		return nil, f.reject(bundle, solana.TokenProgramID, uint32(spltoken.ErrInsufficientFunds))
	}
	if f.amountOut < request.MinimumAmountOut {
		return nil, f.reject(bundle, f.programID, uint32(tokenswap.ErrExceededSlippage))
	}

	f.balances[source] -= request.AmountIn
	f.balances[destination] += f.amountOut - f.shortChange
	return &transaction.Receipt{Label: bundle.Label, Signature: solana.Signature{2}}, nil
}
