// internal/pool/fake_program_test.go
package pool

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"

	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/dex/tokenswap"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/transaction"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/wallet"
)

// fakeProgram эмулирует ledger, token program и Initialize программы обмена
type fakeProgram struct {
	programID solana.PublicKey
	accounts  map[solana.PublicKey][]byte
	mintOf    map[solana.PublicKey]solana.PublicKey

	rejectCode *uint32
	tamper     func(*tokenswap.SwapState)
	failStep   string

	bundles []*transaction.Bundle
	created []string
}

func newFakeProgram() *fakeProgram {
	return &fakeProgram{
		programID: tokenswap.DefaultProgramID,
		accounts:  make(map[solana.PublicKey][]byte),
		mintOf:    make(map[solana.PublicKey]solana.PublicKey),
	}
}

func (f *fakeProgram) GetMinimumBalanceForRentExemption(_ context.Context, dataSize uint64) (uint64, error) {
	return dataSize * 6960, nil
}

func (f *fakeProgram) GetAccountInfo(_ context.Context, pubkey solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	data, ok := f.accounts[pubkey]
	if !ok {
		return nil, rpc.ErrNotFound
	}
	return &rpc.GetAccountInfoResult{
		Value: &rpc.Account{Owner: f.programID, Data: rpc.DataBytesOrJSONFromBytes(data)},
	}, nil
}

func (f *fakeProgram) step(name string) error {
	f.created = append(f.created, name)
	if f.failStep == name {
		return fmt.Errorf("%s rejected", name)
	}
	return nil
}

func (f *fakeProgram) CreateMint(_ context.Context, _ *wallet.Wallet, _ solana.PublicKey, _ uint8) (solana.PublicKey, error) {
	if err := f.step("mint"); err != nil {
		return solana.PublicKey{}, err
	}
	return solana.NewWallet().PublicKey(), nil
}

func (f *fakeProgram) CreateAccount(_ context.Context, _ *wallet.Wallet, mint, _ solana.PublicKey) (solana.PublicKey, error) {
	if err := f.step("account"); err != nil {
		return solana.PublicKey{}, err
	}
	account := solana.NewWallet().PublicKey()
	f.mintOf[account] = mint
	return account, nil
}

func (f *fakeProgram) GetOrCreateAssociatedAccount(_ context.Context, _ *wallet.Wallet, mint, owner solana.PublicKey) (solana.PublicKey, error) {
	if err := f.step("ata"); err != nil {
		return solana.PublicKey{}, err
	}
	address, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, err
	}
	f.mintOf[address] = mint
	return address, nil
}

func (f *fakeProgram) Submit(_ context.Context, bundle *transaction.Bundle) (*transaction.Receipt, error) {
	f.bundles = append(f.bundles, bundle)
	if f.rejectCode != nil {
		return nil, transaction.NewRejectionError(bundle.Label, solana.Signature{}, 0, &jsonrpc.RPCError{
			Message: "Transaction simulation failed",
			Data: map[string]interface{}{
				"err": map[string]interface{}{
					"InstructionError": []interface{}{float64(1), map[string]interface{}{"Custom": float64(*f.rejectCode)}},
				},
				"logs": []interface{}{
					fmt.Sprintf("Program %s failed: custom program error: 0x%x", f.programID, *f.rejectCode),
				},
			},
		})
	}

	for _, ix := range bundle.Instructions {
		if !ix.ProgramID().Equals(f.programID) {
			continue
		}
		data, err := ix.Data()
		if err != nil {
			return nil, err
		}
		decoded, err := tokenswap.DecodeInitializeData(data)
		if err != nil {
			return nil, err
		}
		metas := ix.Accounts()
		_, bump, err := tokenswap.DeriveAuthority(metas[0].PublicKey, f.programID)
		if err != nil {
			return nil, err
		}
		state := &tokenswap.SwapState{
			Version:         tokenswap.SwapVersion,
			IsInitialized:   true,
			BumpSeed:        bump,
			TokenProgramID:  metas[7].PublicKey,
			TokenA:          metas[2].PublicKey,
			TokenB:          metas[3].PublicKey,
			PoolMint:        metas[4].PublicKey,
			MintA:           f.mintOf[metas[2].PublicKey],
			MintB:           f.mintOf[metas[3].PublicKey],
			FeeAccount:      metas[5].PublicKey,
			Fees:            decoded.Fees,
			CurveType:       decoded.CurveType,
			CurveParameters: decoded.CurveParameters,
		}
		if f.tamper != nil {
			f.tamper(state)
		}
		encoded, err := state.Encode()
		if err != nil {
			return nil, err
		}
		f.accounts[metas[0].PublicKey] = encoded
	}
	return &transaction.Receipt{Label: bundle.Label, Signature: solana.Signature{1}}, nil
}

// provisioned создаёт резервы так, как это сделал бы Provisioner
func (f *fakeProgram) provisioned(swapAccount solana.PublicKey) *provisionedAccounts {
	authority, bump, _ := tokenswap.DeriveAuthority(swapAccount, f.programID)
	mintA := solana.NewWallet().PublicKey()
	mintB := solana.NewWallet().PublicKey()
	reserveA := solana.NewWallet().PublicKey()
	reserveB := solana.NewWallet().PublicKey()
	f.mintOf[reserveA] = mintA
	f.mintOf[reserveB] = mintB
	return &provisionedAccounts{
		SwapAccount: swapAccount,
		Authority:   authority,
		BumpSeed:    bump,
		MintA:       mintA,
		MintB:       mintB,
		ReserveA:    reserveA,
		ReserveB:    reserveB,
	}
}
