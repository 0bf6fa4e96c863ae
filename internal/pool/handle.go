// =============================
// File: internal/pool/handle.go
// =============================
package pool

import (
	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/dex/tokenswap"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/wallet"
)

// Handle - ссылка на живой пул. Создаётся Bootstrapper, дальше только читается.
type Handle struct {
	SwapAccount solana.PublicKey
	ProgramID   solana.PublicKey
	Authority   solana.PublicKey
	BumpSeed    uint8

	MintA    solana.PublicKey
	MintB    solana.PublicKey
	ReserveA solana.PublicKey
	ReserveB solana.PublicKey

	PoolMint         solana.PublicKey
	FeeAccount       solana.PublicKey
	PoolShareAccount solana.PublicKey

	// значения, прочитанные из состояния пула после создания
	Fees  tokenswap.Fees
	Curve tokenswap.Curve

	OwnerFeeAddress *solana.PublicKey

	// Owner - mint authority для A и B, Payer - плательщик транзакций пула
	Owner *wallet.Wallet
	Payer *wallet.Wallet
}
