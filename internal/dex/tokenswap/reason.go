// =============================
// File: internal/dex/tokenswap/reason.go
// =============================
package tokenswap

import (
	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/spltoken"
	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/transaction"
)

// RejectionReason возвращает читаемую причину отказа программы.
// Если ошибку вернула token program (например, при переводе внутри swap), используется её таблица.
func RejectionReason(err error, programID solana.PublicKey) string {
	if err == nil {
		return ""
	}
	rej, ok := transaction.AsRejection(err)
	if !ok {
		return err.Error()
	}
	failure, ok := rej.Failure()
	if !ok {
		return rej.Err.Error()
	}
	if failure.ProgramID.Equals(solana.TokenProgramID) {
		return spltoken.ProgramError(failure.Code).String()
	}
	if failure.ProgramID.IsZero() || failure.ProgramID.Equals(programID) {
		return ProgramError(failure.Code).String()
	}
	return rej.Err.Error()
}
