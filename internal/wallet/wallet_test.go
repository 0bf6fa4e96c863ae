package wallet

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProducesDistinctIdentities(t *testing.T) {
	a, err := Generate()
	require.NoError(t, err)
	b, err := Generate()
	require.NoError(t, err)

	assert.False(t, a.PublicKey.Equals(b.PublicKey))
	assert.True(t, a.PublicKey.Equals(a.PrivateKey.PublicKey()))
	assert.Equal(t, a.PublicKey.String(), a.String())
}

func TestSignTransactionWithMultipleSigners(t *testing.T) {
	payer := MustGenerate()
	newAccount := MustGenerate()

	ix := system.NewCreateAccountInstruction(
		1_000_000, 82, solana.TokenProgramID, payer.PublicKey, newAccount.PublicKey,
	).Build()
	tx, err := solana.NewTransaction([]solana.Instruction{ix}, solana.Hash{}, solana.TransactionPayer(payer.PublicKey))
	require.NoError(t, err)

	require.NoError(t, SignTransaction(tx, payer, newAccount))
	assert.Len(t, tx.Signatures, 2)
	require.NoError(t, tx.VerifySignatures())
}

func TestSignTransactionMissingSigner(t *testing.T) {
	payer := MustGenerate()
	newAccount := MustGenerate()

	ix := system.NewCreateAccountInstruction(
		1_000_000, 82, solana.TokenProgramID, payer.PublicKey, newAccount.PublicKey,
	).Build()
	tx, err := solana.NewTransaction([]solana.Instruction{ix}, solana.Hash{}, solana.TransactionPayer(payer.PublicKey))
	require.NoError(t, err)

	assert.Error(t, payer.SignTransaction(tx))
}
