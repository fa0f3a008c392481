// Package token is the host's fungible-holding subsystem: a singleton asset
// record per issuer, its descriptive metadata, and one holding record per
// owner created on first issuance.
package token

import (
	"errors"
	"fmt"

	"MintGate/internal/codec"
	"MintGate/internal/ledger"
)

const (
	// KindAsset tags asset records.
	KindAsset uint8 = 1

	// KindMetadata tags metadata records.
	KindMetadata uint8 = 2

	// KindHolding tags holding records.
	KindHolding uint8 = 3

	// MaxNameLen bounds Metadata.Name in bytes.
	MaxNameLen = 32

	// MaxSymbolLen bounds Metadata.Symbol in bytes.
	MaxSymbolLen = 10

	// MaxURILen bounds Metadata.URI in bytes.
	MaxURILen = 200
)

var (
	// ErrInvalidMetadata is returned when metadata fields exceed their limits.
	ErrInvalidMetadata = errors.New("invalid asset metadata")

	// ErrMintAuthority is returned when issuing without the asset's authority.
	ErrMintAuthority = errors.New("not the asset's mint authority")

	// ErrSupplyOverflow is returned when issuance would overflow a u64 balance or supply.
	ErrSupplyOverflow = errors.New("supply overflow")

	// ErrWrongKind is returned when a record exists but is not of the expected kind.
	ErrWrongKind = errors.New("unexpected record kind")
)

// ProgramID owns every record this package writes.
var ProgramID = ledger.ProgramID("token")

// Asset is the issuance target.
type Asset struct {
	Address   ledger.Hash // Address is where the asset record lives
	Authority ledger.Hash // Authority is the only identity allowed to issue
	Decimals  uint8       // Decimals is the display precision
	Supply    uint64      // Supply is the total issued units

	rec *ledger.Record
}

// Metadata describes an asset.
type Metadata struct {
	Name   string
	Symbol string
	URI    string
}

// Holding is one owner's balance of one asset.
type Holding struct {
	Address ledger.Hash // Address is where the holding record lives
	Asset   ledger.Hash // Asset is the asset held
	Owner   ledger.Hash // Owner is the holder's identity
	Amount  uint64      // Amount is the balance in base units

	rec *ledger.Record
}

// assetData is the Borsh payload of an asset record.
type assetData struct {
	Authority [32]byte
	Decimals  uint8
	Supply    uint64
}

// metadataData is the Borsh payload of a metadata record.
type metadataData struct {
	Asset  [32]byte
	Name   string
	Symbol string
	URI    string
}

// holdingData is the Borsh payload of a holding record.
type holdingData struct {
	Asset  [32]byte
	Owner  [32]byte
	Amount uint64
}

// MetadataAddress returns the metadata record address for an asset.
func MetadataAddress(asset ledger.Hash) ledger.Hash {
	return ledger.DeriveAddress(ProgramID, []byte("metadata"), asset[:])
}

// HoldingAddress returns the holding record address for (asset, owner).
func HoldingAddress(asset, owner ledger.Hash) ledger.Hash {
	return ledger.DeriveAddress(ProgramID, []byte("holding"), asset[:], owner[:])
}

// Validate checks metadata field limits.
func (m Metadata) Validate() error {
	switch {
	case m.Name == "" || len(m.Name) > MaxNameLen:
		return fmt.Errorf("%w: name length %d", ErrInvalidMetadata, len(m.Name))
	case m.Symbol == "" || len(m.Symbol) > MaxSymbolLen:
		return fmt.Errorf("%w: symbol length %d", ErrInvalidMetadata, len(m.Symbol))
	case len(m.URI) > MaxURILen:
		return fmt.Errorf("%w: uri length %d", ErrInvalidMetadata, len(m.URI))
	}

	return nil
}

// CreateAsset creates the asset record at addr and its metadata record.
// Returns ledger.ErrOccupied (wrapped) if either address is taken.
func CreateAsset(ctx *ledger.Context, addr, authority ledger.Hash, decimals uint8, meta Metadata) (*Asset, error) {
	if err := meta.Validate(); err != nil {
		return nil, err
	}

	payload, err := codec.Marshal(assetData{Authority: authority, Decimals: decimals})
	if err != nil {
		return nil, err
	}

	rec, err := ctx.Create(addr, ProgramID, KindAsset, payload)
	if err != nil {
		return nil, fmt.Errorf("create asset:\n%w", err)
	}

	metaPayload, err := codec.Marshal(metadataData{
		Asset:  addr,
		Name:   meta.Name,
		Symbol: meta.Symbol,
		URI:    meta.URI,
	})
	if err != nil {
		return nil, err
	}

	if _, err := ctx.Create(MetadataAddress(addr), ProgramID, KindMetadata, metaPayload); err != nil {
		return nil, fmt.Errorf("create metadata:\n%w", err)
	}

	return &Asset{
		Address:   addr,
		Authority: authority,
		Decimals:  decimals,
		rec:       rec,
	}, nil
}

// LoadAsset reads the asset at addr.
func LoadAsset(r ledger.Reader, addr ledger.Hash) (*Asset, error) {
	rec, err := loadKind(r, addr, KindAsset)
	if err != nil {
		return nil, err
	}

	var d assetData
	if err := codec.Unmarshal(rec.Data, &d); err != nil {
		return nil, fmt.Errorf("decode asset:\n%w", err)
	}

	return &Asset{
		Address:   addr,
		Authority: d.Authority,
		Decimals:  d.Decimals,
		Supply:    d.Supply,
		rec:       rec,
	}, nil
}

// LoadMetadata reads the metadata of the asset at addr.
func LoadMetadata(r ledger.Reader, asset ledger.Hash) (*Metadata, error) {
	rec, err := loadKind(r, MetadataAddress(asset), KindMetadata)
	if err != nil {
		return nil, err
	}

	var d metadataData
	if err := codec.Unmarshal(rec.Data, &d); err != nil {
		return nil, fmt.Errorf("decode metadata:\n%w", err)
	}

	return &Metadata{Name: d.Name, Symbol: d.Symbol, URI: d.URI}, nil
}

// LoadHolding reads owner's holding of asset. Returns ledger.ErrNotFound
// (wrapped) if owner never received units.
func LoadHolding(r ledger.Reader, asset, owner ledger.Hash) (*Holding, error) {
	addr := HoldingAddress(asset, owner)

	rec, err := loadKind(r, addr, KindHolding)
	if err != nil {
		return nil, err
	}

	var d holdingData
	if err := codec.Unmarshal(rec.Data, &d); err != nil {
		return nil, fmt.Errorf("decode holding:\n%w", err)
	}

	return &Holding{
		Address: addr,
		Asset:   d.Asset,
		Owner:   d.Owner,
		Amount:  d.Amount,
		rec:     rec,
	}, nil
}

// Balance returns owner's balance of asset, zero if no holding exists.
func Balance(r ledger.Reader, asset, owner ledger.Hash) (uint64, error) {
	h, err := LoadHolding(r, asset, owner)
	if ledger.IsNotFound(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return h.Amount, nil
}

// MintTo issues amount units of asset to owner, creating the holding if
// needed. authority must be the asset's mint authority.
func MintTo(ctx *ledger.Context, assetAddr, authority, owner ledger.Hash, amount uint64) (*Holding, error) {
	asset, err := LoadAsset(ctx, assetAddr)
	if err != nil {
		return nil, fmt.Errorf("load asset:\n%w", err)
	}

	if asset.Authority != authority {
		return nil, ErrMintAuthority
	}

	holding, err := loadOrCreateHolding(ctx, assetAddr, owner)
	if err != nil {
		return nil, err
	}

	if holding.Amount+amount < holding.Amount {
		return nil, fmt.Errorf("%w: balance %d + %d", ErrSupplyOverflow, holding.Amount, amount)
	}

	if asset.Supply+amount < asset.Supply {
		return nil, fmt.Errorf("%w: supply %d + %d", ErrSupplyOverflow, asset.Supply, amount)
	}

	holding.Amount += amount
	asset.Supply += amount

	if err := holding.save(ctx); err != nil {
		return nil, err
	}

	if err := asset.save(ctx); err != nil {
		return nil, err
	}

	return holding, nil
}

// loadOrCreateHolding returns owner's holding, creating an empty one first.
func loadOrCreateHolding(ctx *ledger.Context, asset, owner ledger.Hash) (*Holding, error) {
	h, err := LoadHolding(ctx, asset, owner)
	if err == nil {
		return h, nil
	}
	if !ledger.IsNotFound(err) {
		return nil, err
	}

	addr := HoldingAddress(asset, owner)

	payload, err := codec.Marshal(holdingData{Asset: asset, Owner: owner})
	if err != nil {
		return nil, err
	}

	rec, err := ctx.Create(addr, ProgramID, KindHolding, payload)
	if err != nil {
		return nil, fmt.Errorf("create holding:\n%w", err)
	}

	return &Holding{Address: addr, Asset: asset, Owner: owner, rec: rec}, nil
}

// save writes the holding back.
func (h *Holding) save(ctx *ledger.Context) error {
	payload, err := codec.Marshal(holdingData{Asset: h.Asset, Owner: h.Owner, Amount: h.Amount})
	if err != nil {
		return err
	}

	h.rec.Data = payload

	return ctx.Update(ProgramID, h.rec)
}

// save writes the asset back.
func (a *Asset) save(ctx *ledger.Context) error {
	payload, err := codec.Marshal(assetData{Authority: a.Authority, Decimals: a.Decimals, Supply: a.Supply})
	if err != nil {
		return err
	}

	a.rec.Data = payload

	return ctx.Update(ProgramID, a.rec)
}

// loadKind loads addr and checks owner and kind.
func loadKind(r ledger.Reader, addr ledger.Hash, kind uint8) (*ledger.Record, error) {
	rec, err := r.Load(addr)
	if err != nil {
		return nil, err
	}

	if rec.Owner != ProgramID || rec.Kind != kind {
		return nil, fmt.Errorf("%w: %s has kind %d", ErrWrongKind, addr.Short(), rec.Kind)
	}

	return rec, nil
}

// Code maps token errors to receipt codes.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidMetadata):
		return "InvalidMetadata"
	case errors.Is(err, ErrMintAuthority):
		return "MintAuthority"
	case errors.Is(err, ErrSupplyOverflow):
		return "SupplyOverflow"
	case errors.Is(err, ErrWrongKind):
		return "WrongKind"
	default:
		return ""
	}
}
