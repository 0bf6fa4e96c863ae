// =============================
// File: internal/transaction/errors.go
// =============================
package transaction

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"

	"github.com/rovshanmuradov/spl-swap-bootstrap/internal/blockchain"
)

var (
	instructionErrorPattern = regexp.MustCompile(`Instruction (\d+): custom program error: 0x([0-9a-fA-F]+)`)
	failedProgramPattern    = regexp.MustCompile(`Program (\w+) failed: custom program error: 0x[0-9a-fA-F]+`)
)

// ProgramFailure is a custom program error decoded from a rejection.
type ProgramFailure struct {
	InstructionIndex int // index within the bundle, compute-budget prefix excluded
	Code             uint32
	ProgramID        solana.PublicKey // zero when logs were unavailable
}

// RejectionError is a bundle the ledger refused, either at preflight or after landing.
type RejectionError struct {
	Label     string
	Signature solana.Signature
	Logs      []string
	Err       error

	failure *ProgramFailure
}

func (e *RejectionError) Error() string {
	if e.Signature.IsZero() {
		return fmt.Sprintf("%s rejected: %v", e.Label, e.Err)
	}
	return fmt.Sprintf("%s (%s) rejected: %v", e.Label, e.Signature, e.Err)
}

func (e *RejectionError) Unwrap() error { return e.Err }

// Failure returns the decoded custom program error, if the rejection carried one.
func (e *RejectionError) Failure() (ProgramFailure, bool) {
	if e.failure == nil {
		return ProgramFailure{}, false
	}
	return *e.failure, true
}

// AsRejection extracts a RejectionError from an error chain.
func AsRejection(err error) (*RejectionError, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

// NewRejectionError classifies err as a rejection of the labelled bundle.
// prefix is the number of instructions prepended ahead of the bundle's own.
func NewRejectionError(label string, sig solana.Signature, prefix int, err error) *RejectionError {
	rej := &RejectionError{Label: label, Signature: sig, Err: err}

	var raw interface{}
	var rpcErr *jsonrpc.RPCError
	var failed *blockchain.TransactionFailedError
	switch {
	case errors.As(err, &failed):
		raw = failed.Err
	case errors.As(err, &rpcErr):
		if data, ok := rpcErr.Data.(map[string]interface{}); ok {
			raw = data["err"]
			rej.Logs = stringSlice(data["logs"])
		}
	}

	index, code, ok := decodeInstructionError(raw)
	if !ok {
		index, code, ok = parseInstructionError(err.Error())
	}
	if ok {
		rej.failure = &ProgramFailure{
			InstructionIndex: index - prefix,
			Code:             code,
			ProgramID:        failedProgram(rej.Logs),
		}
	}
	return rej
}

// decodeInstructionError handles {"InstructionError":[idx,{"Custom":code}]}.
func decodeInstructionError(raw interface{}) (int, uint32, bool) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return 0, 0, false
	}
	pair, ok := m["InstructionError"].([]interface{})
	if !ok || len(pair) != 2 {
		return 0, 0, false
	}
	index, ok := toUint64(pair[0])
	if !ok {
		return 0, 0, false
	}
	detail, ok := pair[1].(map[string]interface{})
	if !ok {
		return 0, 0, false
	}
	code, ok := toUint64(detail["Custom"])
	if !ok {
		return 0, 0, false
	}
	return int(index), uint32(code), true
}

func parseInstructionError(msg string) (int, uint32, bool) {
	m := instructionErrorPattern.FindStringSubmatch(msg)
	if m == nil {
		return 0, 0, false
	}
	index, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	code, err := strconv.ParseUint(m[2], 16, 32)
	if err != nil {
		return 0, 0, false
	}
	return index, uint32(code), true
}

// failedProgram returns the innermost program that reported the custom error.
// Inner invocations fail before their callers, so the first match wins.
func failedProgram(logs []string) solana.PublicKey {
	for _, line := range logs {
		if m := failedProgramPattern.FindStringSubmatch(line); m != nil {
			if key, err := solana.PublicKeyFromBase58(m[1]); err == nil {
				return key
			}
		}
	}
	return solana.PublicKey{}
}

func toUint64(v interface{}) (uint64, bool) {
	switch n := v.(type) {
	case float64:
		return uint64(n), n >= 0
	case json.Number:
		u, err := strconv.ParseUint(n.String(), 10, 64)
		return u, err == nil
	case int:
		return uint64(n), n >= 0
	case int64:
		return uint64(n), n >= 0
	case uint64:
		return n, true
	}
	return 0, false
}

func stringSlice(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
