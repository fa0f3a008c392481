package mint

import (
	"errors"

	"MintGate/internal/sigverify"
	"MintGate/internal/token"
)

var (
	// ErrUnauthorized is returned when a registry mutation is not signed by its authority.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrDuplicateValidator is returned when adding a key already in the registry.
	ErrDuplicateValidator = errors.New("validator already registered")

	// ErrUnknownValidator is returned when a proof's validator index is out of range.
	ErrUnknownValidator = errors.New("unknown validator")

	// ErrProofSignatureMismatch is returned when the proof does not match the
	// signature check that precedes it.
	ErrProofSignatureMismatch = errors.New("proof signature mismatch")

	// ErrReplay is returned when the proof's signature hash was already consumed.
	ErrReplay = errors.New("attestation already consumed")

	// ErrAlreadyInitialized is returned when re-initializing the registry or asset.
	ErrAlreadyInitialized = errors.New("already initialized")

	// ErrNotInitialized is returned when minting before the registry or asset exists.
	ErrNotInitialized = errors.New("not initialized")

	// ErrUnauthorizedMinter is returned when the transaction signer is not the proof's minter.
	ErrUnauthorizedMinter = errors.New("signer is not the attested minter")

	// ErrRegistryFull is returned when the registry holds MaxValidators keys.
	ErrRegistryFull = errors.New("validator registry full")

	// ErrStaleAttestation is returned when the attestation timestamp is outside the accepted window.
	ErrStaleAttestation = errors.New("attestation outside freshness window")

	// ErrInsufficientCollateral is returned when the requested amount exceeds the attested collateral.
	ErrInsufficientCollateral = errors.New("insufficient collateral")

	// ErrInvalidInstruction is returned for unknown discriminators or malformed arguments.
	ErrInvalidInstruction = errors.New("invalid instruction")
)

// codes lists receipt codes in match order.
var codes = []struct {
	err  error
	code string
}{
	{ErrUnauthorized, "Unauthorized"},
	{ErrDuplicateValidator, "DuplicateValidator"},
	{ErrUnknownValidator, "UnknownValidator"},
	{ErrProofSignatureMismatch, "ProofSignatureMismatch"},
	{ErrReplay, "Replay"},
	{ErrAlreadyInitialized, "AlreadyInitialized"},
	{ErrNotInitialized, "NotInitialized"},
	{ErrUnauthorizedMinter, "UnauthorizedMinter"},
	{ErrRegistryFull, "RegistryFull"},
	{ErrStaleAttestation, "StaleAttestation"},
	{ErrInsufficientCollateral, "InsufficientCollateral"},
	{ErrInvalidInstruction, "InvalidInstruction"},
}

// Code returns the failure kind for err, covering the mint, token and
// sigverify programs. Returns "" for errors none of them define.
func Code(err error) string {
	if err == nil {
		return ""
	}

	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}

	if c := token.Code(err); c != "" {
		return c
	}

	return sigverify.Code(err)
}
