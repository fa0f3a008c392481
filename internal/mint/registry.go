package mint

import (
	"fmt"

	"MintGate/internal/codec"
	"MintGate/internal/ledger"
	"MintGate/internal/logger"
)

// MaxValidators bounds the registry size.
const MaxValidators = 64

// Registry is the set of validator keys whose attestations are accepted,
// together with the identity allowed to extend it.
type Registry struct {
	Authority  ledger.Hash   // Authority is the signer of InitRegistry
	Validators []ledger.Hash // Validators are ed25519 keys in insertion order

	rec *ledger.Record
}

// registryData is the Borsh payload of the registry record.
type registryData struct {
	Authority  ledger.Hash
	Validators []ledger.Hash
}

// RegistryAddress returns the singleton registry address.
func RegistryAddress() ledger.Hash {
	return ledger.DeriveAddress(ProgramID, []byte("validator_registry"))
}

// LoadRegistry reads the registry. Returns ErrNotInitialized if it does not exist.
func LoadRegistry(r ledger.Reader) (*Registry, error) {
	rec, err := r.Load(RegistryAddress())
	if ledger.IsNotFound(err) {
		return nil, fmt.Errorf("%w: validator registry", ErrNotInitialized)
	}
	if err != nil {
		return nil, err
	}

	if rec.Owner != ProgramID || rec.Kind != KindRegistry {
		return nil, fmt.Errorf("%w: registry record kind %d", ErrNotInitialized, rec.Kind)
	}

	var d registryData
	if err := codec.Unmarshal(rec.Data, &d); err != nil {
		return nil, fmt.Errorf("decode registry:\n%w", err)
	}

	return &Registry{Authority: d.Authority, Validators: d.Validators, rec: rec}, nil
}

// Contains reports whether key is registered.
func (r *Registry) Contains(key ledger.Hash) bool {
	for _, v := range r.Validators {
		if v == key {
			return true
		}
	}

	return false
}

// Validator returns the key at index.
func (r *Registry) Validator(index uint32) (ledger.Hash, error) {
	if uint64(index) >= uint64(len(r.Validators)) {
		return ledger.Hash{}, fmt.Errorf("%w: index %d of %d", ErrUnknownValidator, index, len(r.Validators))
	}

	return r.Validators[index], nil
}

// save writes the registry back.
func (r *Registry) save(ctx *ledger.Context) error {
	payload, err := codec.Marshal(registryData{Authority: r.Authority, Validators: r.Validators})
	if err != nil {
		return err
	}

	r.rec.Data = payload

	return ctx.Update(ProgramID, r.rec)
}

// initRegistry creates the registry with the signer as authority.
func initRegistry(ctx *ledger.Context) error {
	payload, err := codec.Marshal(registryData{Authority: ctx.Signer(), Validators: []ledger.Hash{}})
	if err != nil {
		return err
	}

	if _, err := ctx.Create(RegistryAddress(), ProgramID, KindRegistry, payload); err != nil {
		if isOccupied(err) {
			return fmt.Errorf("%w: validator registry", ErrAlreadyInitialized)
		}
		return err
	}

	logger.Debug("registry staged", "authority", ctx.Signer().Short())

	return nil
}

// addValidator appends key to the registry. Only the authority may call it.
func addValidator(ctx *ledger.Context, key ledger.Hash) error {
	reg, err := LoadRegistry(ctx)
	if err != nil {
		return err
	}

	if ctx.Signer() != reg.Authority {
		return fmt.Errorf("%w: %s is not the registry authority", ErrUnauthorized, ctx.Signer().Short())
	}

	if reg.Contains(key) {
		return fmt.Errorf("%w: %s", ErrDuplicateValidator, key.Short())
	}

	if len(reg.Validators) >= MaxValidators {
		return fmt.Errorf("%w: %d keys", ErrRegistryFull, len(reg.Validators))
	}

	reg.Validators = append(reg.Validators, key)

	if err := reg.save(ctx); err != nil {
		return fmt.Errorf("save registry:\n%w", err)
	}

	logger.Debug("validator staged",
		"key", key.Short(),
		"index", len(reg.Validators)-1,
	)

	return nil
}
