// Package mint is the collateral-backed issuance program. It keeps a
// registry of validator keys, accepts attestations those validators sign
// over (minter, collateral, timestamp), and issues tokens of a single asset
// to the attested minter, consuming each attestation exactly once.
//
// Every instruction starts with an 8-byte discriminator followed by
// Borsh-encoded arguments.
package mint

import (
	"errors"
	"fmt"
	"time"

	"github.com/zeebo/blake3"

	"MintGate/internal/codec"
	"MintGate/internal/ledger"
	"MintGate/internal/token"
)

const (
	// KindRegistry tags the validator registry record.
	KindRegistry uint8 = 16

	// KindLock tags replay-lock records.
	KindLock uint8 = 17

	// discriminatorSize is the instruction tag length.
	discriminatorSize = 8
)

// ProgramID is the id under which the mint program is registered.
var ProgramID = ledger.ProgramID("mint")

var (
	ixInitRegistry = discriminator("init_registry")
	ixAddValidator = discriminator("add_validator")
	ixInitToken    = discriminator("init_token")
	ixMintTokens   = discriminator("mint_tokens")
)

// discriminator derives the 8-byte tag of an instruction.
func discriminator(name string) [discriminatorSize]byte {
	sum := blake3.Sum256([]byte("MintGate/Instruction/mint:" + name))

	var d [discriminatorSize]byte
	copy(d[:], sum[:discriminatorSize])

	return d
}

// addValidatorArgs are the arguments of AddValidator.
type addValidatorArgs struct {
	Validator ledger.Hash
}

// initTokenArgs are the arguments of InitToken.
type initTokenArgs struct {
	Name     string
	Symbol   string
	URI      string
	Decimals uint8
}

// mintTokensArgs are the arguments of MintTokens.
type mintTokensArgs struct {
	Proof    Proof
	Quantity uint64
}

// mintTokensArgsSize is the fixed encoded size of mintTokensArgs.
const mintTokensArgsSize = 32 + 8 + 8 + 32 + 4 + 8

// Option configures a Program.
type Option func(*Program)

// WithMaxAttestationAge rejects attestations whose timestamp differs from
// the execution time by more than d. Zero disables the check.
func WithMaxAttestationAge(d time.Duration) Option {
	return func(p *Program) {
		p.maxAge = d
	}
}

// WithCollateralCap rejects mints whose quantity exceeds the attested collateral.
func WithCollateralCap() Option {
	return func(p *Program) {
		p.collateralCap = true
	}
}

// Program implements ledger.Program for the mint instructions.
type Program struct {
	maxAge        time.Duration // maxAge bounds attestation age, zero for unbounded
	collateralCap bool          // collateralCap caps quantity at the attested collateral
}

// NewProgram creates the mint program.
func NewProgram(opts ...Option) *Program {
	p := &Program{}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Process dispatches one mint instruction.
func (p *Program) Process(ctx *ledger.Context, data []byte) error {
	if len(data) < discriminatorSize {
		return fmt.Errorf("%w: %d bytes", ErrInvalidInstruction, len(data))
	}

	var tag [discriminatorSize]byte
	copy(tag[:], data)
	args := data[discriminatorSize:]

	switch tag {
	case ixInitRegistry:
		if len(args) != 0 {
			return fmt.Errorf("%w: init_registry takes no arguments", ErrInvalidInstruction)
		}
		return initRegistry(ctx)

	case ixAddValidator:
		var a addValidatorArgs
		if err := decodeArgs(args, len(ledger.Hash{}), &a); err != nil {
			return err
		}
		return addValidator(ctx, a.Validator)

	case ixInitToken:
		var a initTokenArgs
		if err := decodeArgs(args, -1, &a); err != nil {
			return err
		}
		if err := checkCanonical(args, a); err != nil {
			return err
		}
		return initToken(ctx, a)

	case ixMintTokens:
		var a mintTokensArgs
		if err := decodeArgs(args, mintTokensArgsSize, &a); err != nil {
			return err
		}
		return p.mintTokens(ctx, &a.Proof, a.Quantity)

	default:
		return fmt.Errorf("%w: unknown discriminator %x", ErrInvalidInstruction, tag)
	}
}

// decodeArgs decodes args into v. A non-negative size must match exactly.
func decodeArgs(args []byte, size int, v any) error {
	if size >= 0 && len(args) != size {
		return fmt.Errorf("%w: got %d argument bytes, want %d", ErrInvalidInstruction, len(args), size)
	}

	if err := codec.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w:\n%v", ErrInvalidInstruction, err)
	}

	return nil
}

// checkCanonical rejects args that carry bytes beyond the encoding of v.
func checkCanonical(args []byte, v any) error {
	enc, err := codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w:\n%v", ErrInvalidInstruction, err)
	}

	if len(enc) != len(args) {
		return fmt.Errorf("%w: %d argument bytes, encoding is %d", ErrInvalidInstruction, len(args), len(enc))
	}

	return nil
}

// isOccupied reports whether err is a create on an existing address.
func isOccupied(err error) bool {
	return errors.Is(err, ledger.ErrOccupied)
}

// newInstruction encodes tag and args as a mint instruction.
func newInstruction(tag [discriminatorSize]byte, args any) ledger.Instruction {
	data := append([]byte(nil), tag[:]...)
	if args != nil {
		data = append(data, codec.MustMarshal(args)...)
	}

	return ledger.Instruction{Program: ProgramID, Data: data}
}

// InitRegistryInstruction creates the registry with the signer as authority.
func InitRegistryInstruction() ledger.Instruction {
	return newInstruction(ixInitRegistry, nil)
}

// AddValidatorInstruction registers key. Must be signed by the registry authority.
func AddValidatorInstruction(key ledger.Hash) ledger.Instruction {
	return newInstruction(ixAddValidator, addValidatorArgs{Validator: key})
}

// InitTokenInstruction creates the asset and its metadata.
func InitTokenInstruction(meta token.Metadata, decimals uint8) ledger.Instruction {
	return newInstruction(ixInitToken, initTokenArgs{
		Name:     meta.Name,
		Symbol:   meta.Symbol,
		URI:      meta.URI,
		Decimals: decimals,
	})
}

// MintTokensInstruction issues quantity units against proof. It must directly
// follow the sigverify instruction carrying the proof's signature.
func MintTokensInstruction(proof Proof, quantity uint64) ledger.Instruction {
	return newInstruction(ixMintTokens, mintTokensArgs{Proof: proof, Quantity: quantity})
}
