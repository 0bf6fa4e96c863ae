// =============================
// File: internal/dex/tokenswap/state.go
// =============================
package tokenswap

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// SwapState - состояние пула, как его хранит программа (324 байта)
type SwapState struct {
	Version         uint8
	IsInitialized   bool
	BumpSeed        uint8
	TokenProgramID  solana.PublicKey
	TokenA          solana.PublicKey
	TokenB          solana.PublicKey
	PoolMint        solana.PublicKey
	MintA           solana.PublicKey
	MintB           solana.PublicKey
	FeeAccount      solana.PublicKey
	Fees            Fees
	CurveType       CurveType
	CurveParameters [CurveParametersSize]byte
}

// Curve возвращает селектор кривой пула
func (s *SwapState) Curve() Curve {
	return CurveFromParameters(s.CurveType, s.CurveParameters)
}

// DecodeSwapState декодирует данные аккаунта пула
func DecodeSwapState(data []byte) (*SwapState, error) {
	if len(data) < StateSize {
		return nil, fmt.Errorf("data too short for swap state: got %d bytes, need %d", len(data), StateSize)
	}
	var state SwapState
	if err := bin.NewBinDecoder(data[:StateSize]).Decode(&state); err != nil {
		return nil, fmt.Errorf("failed to decode swap state: %w", err)
	}
	return &state, nil
}

// Encode сериализует состояние в формат аккаунта
func (s *SwapState) Encode() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := bin.NewBinEncoder(buf).Encode(s); err != nil {
		return nil, fmt.Errorf("failed to encode swap state: %w", err)
	}
	return buf.Bytes(), nil
}

// DeriveAuthority вычисляет PDA-авторитет пула: seeds = [swapAccount]
func DeriveAuthority(swapAccount, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	authority, bump, err := solana.FindProgramAddress([][]byte{swapAccount.Bytes()}, programID)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("failed to derive pool authority for %s: %w", swapAccount, err)
	}
	return authority, bump, nil
}
