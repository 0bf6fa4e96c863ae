// ==================================
// File: internal/wallet/wallet.go
// ==================================
package wallet

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Wallet is an address/signing-key pair. Wallets are generated per run and never persisted.
type Wallet struct {
	PrivateKey solana.PrivateKey
	PublicKey  solana.PublicKey
}

// Generate creates a fresh random identity.
func Generate() (*Wallet, error) {
	privateKey, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate private key: %w", err)
	}
	return FromPrivateKey(privateKey), nil
}

// MustGenerate is Generate for call sites where key generation failing is unrecoverable.
func MustGenerate() *Wallet {
	w, err := Generate()
	if err != nil {
		panic(err)
	}
	return w
}

// FromPrivateKey wraps an existing key.
func FromPrivateKey(privateKey solana.PrivateKey) *Wallet {
	return &Wallet{
		PrivateKey: privateKey,
		PublicKey:  privateKey.PublicKey(),
	}
}

// SignTransaction signs the transaction with the wallet key only.
func (w *Wallet) SignTransaction(tx *solana.Transaction) error {
	return SignTransaction(tx, w)
}

// SignTransaction signs tx with every wallet whose key the message requires.
// Keys the message asks for but no wallet provides make tx.Sign fail.
func SignTransaction(tx *solana.Transaction, signers ...*Wallet) error {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		for _, w := range signers {
			if w != nil && key.Equals(w.PublicKey) {
				privateCopy := w.PrivateKey
				return &privateCopy
			}
		}
		return nil
	})
	return err
}

// String returns the wallet address.
func (w *Wallet) String() string {
	return w.PublicKey.String()
}
