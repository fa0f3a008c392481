package ledger

import "errors"

var (
	// ErrMalformedTransaction is returned for undecodable or structurally invalid transactions.
	ErrMalformedTransaction = errors.New("malformed transaction")

	// ErrInvalidSignature is returned when the signer's signature does not verify.
	ErrInvalidSignature = errors.New("invalid transaction signature")

	// ErrDuplicateTransaction is returned when a transaction hash was already executed.
	ErrDuplicateTransaction = errors.New("duplicate transaction")

	// ErrUnknownProgram is returned when an instruction targets an unregistered program.
	ErrUnknownProgram = errors.New("unknown program")

	// ErrProgramPanic is returned when a program panics while processing an instruction.
	ErrProgramPanic = errors.New("program panicked")

	// ErrNotFound is returned when no record exists at an address.
	ErrNotFound = errors.New("record not found")

	// ErrOccupied is returned when creating a record at an occupied address.
	ErrOccupied = errors.New("address already occupied")

	// ErrOwnerMismatch is returned when a program updates a record it does not own.
	ErrOwnerMismatch = errors.New("record owned by another program")

	// ErrVersionConflict is returned when an update is based on a stale version.
	ErrVersionConflict = errors.New("record version conflict")

	// ErrInstructionIndex is returned when introspecting a non-existent instruction.
	ErrInstructionIndex = errors.New("instruction index out of range")
)

// codeOf returns the receipt code for host-level errors, or "" if err is not one.
func codeOf(err error) string {
	switch {
	case errors.Is(err, ErrUnknownProgram):
		return "UnknownProgram"
	case errors.Is(err, ErrProgramPanic):
		return "ProgramPanic"
	case errors.Is(err, ErrOccupied):
		return "Occupied"
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrOwnerMismatch):
		return "OwnerMismatch"
	case errors.Is(err, ErrVersionConflict):
		return "VersionConflict"
	case errors.Is(err, ErrInstructionIndex):
		return "InstructionIndex"
	default:
		return ""
	}
}
