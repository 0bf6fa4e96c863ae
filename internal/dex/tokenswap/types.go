// =============================
// File: internal/dex/tokenswap/types.go
// =============================
package tokenswap

import (
	"encoding/binary"
	"fmt"

	cosmath "cosmossdk.io/math"
)

// Fee - дробь комиссии numerator/denominator
type Fee struct {
	Numerator   uint64
	Denominator uint64
}

// Rate возвращает комиссию как десятичную дробь. 0/0 считается нулевой комиссией.
func (f Fee) Rate() cosmath.LegacyDec {
	if f.Denominator == 0 {
		return cosmath.LegacyZeroDec()
	}
	return cosmath.LegacyNewDecFromInt(cosmath.NewIntFromUint64(f.Numerator)).
		Quo(cosmath.LegacyNewDecFromInt(cosmath.NewIntFromUint64(f.Denominator)))
}

func (f Fee) String() string {
	return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
}

func (f Fee) validate(name string) error {
	if f.Denominator == 0 && f.Numerator != 0 {
		return fmt.Errorf("%s fee %s has zero denominator", name, f)
	}
	if f.Numerator > f.Denominator {
		return fmt.Errorf("%s fee %s exceeds 100%%", name, f)
	}
	return nil
}

// Fees - расписание комиссий пула в порядке, в котором его ожидает программа
type Fees struct {
	Trade         Fee
	OwnerTrade    Fee
	OwnerWithdraw Fee
	Host          Fee
}

// Validate проверяет форму дробей. Значения комиссий программа проверяет сама.
func (f Fees) Validate() error {
	for _, item := range []struct {
		name string
		fee  Fee
	}{
		{"trade", f.Trade},
		{"owner trade", f.OwnerTrade},
		{"owner withdraw", f.OwnerWithdraw},
		{"host", f.Host},
	} {
		if err := item.fee.validate(item.name); err != nil {
			return err
		}
	}
	return nil
}

// CurveType выбирает функцию ценообразования внутри программы
type CurveType uint8

const (
	CurveConstantProduct CurveType = iota
	CurveConstantPrice
	CurveStable
	CurveOffset
)

func (c CurveType) String() string {
	switch c {
	case CurveConstantProduct:
		return "constant_product"
	case CurveConstantPrice:
		return "constant_price"
	case CurveStable:
		return "stable"
	case CurveOffset:
		return "offset"
	default:
		return fmt.Sprintf("curve(%d)", uint8(c))
	}
}

// Curve - селектор кривой и её параметр.
// Parameter передаётся программе как есть, клиент его не интерпретирует.
type Curve struct {
	Type      CurveType
	Parameter uint64
}

// Parameters упаковывает параметр в 32-байтовый блок (u64 LE в первых 8 байтах)
func (c Curve) Parameters() [CurveParametersSize]byte {
	var out [CurveParametersSize]byte
	binary.LittleEndian.PutUint64(out[:8], c.Parameter)
	return out
}

// CurveFromParameters восстанавливает Curve из сырого блока параметров
func CurveFromParameters(curveType CurveType, params [CurveParametersSize]byte) Curve {
	return Curve{
		Type:      curveType,
		Parameter: binary.LittleEndian.Uint64(params[:8]),
	}
}

func (c Curve) String() string {
	return fmt.Sprintf("%s(%d)", c.Type, c.Parameter)
}
