// =============================
// File: internal/pool/config.go
// =============================
package pool

import (
	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/dex/tokenswap"
)

// Фиксированное расписание комиссий пула
var (
	TradeFee      = tokenswap.Fee{Numerator: 25, Denominator: 10000}
	OwnerTradeFee = tokenswap.Fee{Numerator: 5, Denominator: 10000}
	HostFee       = tokenswap.Fee{Numerator: 20, Denominator: 100}

	// комиссия на вывод, когда у программы нет адреса получателя комиссий владельца
	OwnerWithdrawFeeWithoutRecipient = tokenswap.Fee{Numerator: 1, Denominator: 6}
)

// Config - замороженная конфигурация пула. После создания пула не меняется.
type Config struct {
	ProgramID       solana.PublicKey
	Fees            tokenswap.Fees
	Curve           tokenswap.Curve
	OwnerFeeAddress *solana.PublicKey // nil - получатель не настроен
}

// DefaultConfig возвращает расписание 25/10000, 5/10000, 0/0 или 1/6, 20/100
// и кривую constant-price с параметром 1.
func DefaultConfig(programID solana.PublicKey, ownerFeeAddress *solana.PublicKey) Config {
	ownerWithdraw := OwnerWithdrawFeeWithoutRecipient
	if ownerFeeAddress != nil {
		ownerWithdraw = tokenswap.Fee{}
	}
	return Config{
		ProgramID: programID,
		Fees: tokenswap.Fees{
			Trade:         TradeFee,
			OwnerTrade:    OwnerTradeFee,
			OwnerWithdraw: ownerWithdraw,
			Host:          HostFee,
		},
		Curve:           tokenswap.Curve{Type: tokenswap.CurveConstantPrice, Parameter: 1},
		OwnerFeeAddress: ownerFeeAddress,
	}
}
