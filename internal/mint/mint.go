package mint

import (
	"fmt"
	"math"

	"MintGate/internal/ledger"
	"MintGate/internal/logger"
	"MintGate/internal/token"
)

// AssetAddress returns the address of the asset this program issues.
// The asset's mint authority is the same address, so only this program can issue.
func AssetAddress() ledger.Hash {
	return ledger.DeriveAddress(ProgramID, []byte("mint"))
}

// initToken creates the asset and its metadata. Any signer may call it once.
func initToken(ctx *ledger.Context, args initTokenArgs) error {
	addr := AssetAddress()
	meta := token.Metadata{Name: args.Name, Symbol: args.Symbol, URI: args.URI}

	// An existing asset wins over any problem with the new arguments.
	_, err := token.LoadAsset(ctx, addr)
	switch {
	case err == nil:
		return fmt.Errorf("%w: asset", ErrAlreadyInitialized)
	case !ledger.IsNotFound(err):
		return fmt.Errorf("probe asset:\n%w", err)
	}

	if _, err := token.CreateAsset(ctx, addr, addr, args.Decimals, meta); err != nil {
		if isOccupied(err) {
			return fmt.Errorf("%w: asset", ErrAlreadyInitialized)
		}
		return err
	}

	logger.Debug("asset staged",
		"symbol", args.Symbol,
		"decimals", args.Decimals,
		"address", addr.Short(),
	)

	return nil
}

// mintTokens verifies proof against the preceding signature check, consumes
// it and issues quantity units to the minter.
func (p *Program) mintTokens(ctx *ledger.Context, proof *Proof, quantity uint64) error {
	reg, err := LoadRegistry(ctx)
	if err != nil {
		return err
	}

	asset := AssetAddress()
	if _, err := token.LoadAsset(ctx, asset); err != nil {
		if ledger.IsNotFound(err) {
			return fmt.Errorf("%w: asset", ErrNotInitialized)
		}
		return err
	}

	if err := verifyProof(ctx, reg, proof); err != nil {
		return err
	}

	if ctx.Signer() != proof.Minter {
		return fmt.Errorf("%w: signer %s, minter %s", ErrUnauthorizedMinter, ctx.Signer().Short(), proof.Minter.Short())
	}

	if err := p.checkPolicy(ctx, proof, quantity); err != nil {
		return err
	}

	if err := acquireLock(ctx, proof); err != nil {
		return err
	}

	holding, err := token.MintTo(ctx, asset, asset, proof.Minter, quantity)
	if err != nil {
		return fmt.Errorf("issue:\n%w", err)
	}

	logger.Debug("mint staged",
		"minter", proof.Minter.Short(),
		"quantity", quantity,
		"collateral", proof.CollateralAmount,
		"validator", proof.ValidatorIndex,
		"balance", holding.Amount,
	)

	return nil
}

// checkPolicy applies the optional freshness and collateral rules.
func (p *Program) checkPolicy(ctx *ledger.Context, proof *Proof, quantity uint64) error {
	if p.maxAge > 0 {
		now := ctx.Now().Unix()
		window := int64(p.maxAge.Seconds())

		if proof.Timestamp > math.MaxInt64 {
			return fmt.Errorf("%w: timestamp %d", ErrStaleAttestation, proof.Timestamp)
		}

		diff := now - int64(proof.Timestamp)
		if diff > window || -diff > window {
			return fmt.Errorf("%w: timestamp %d, now %d", ErrStaleAttestation, proof.Timestamp, now)
		}
	}

	if p.collateralCap && quantity > proof.CollateralAmount {
		return fmt.Errorf("%w: quantity %d, collateral %d", ErrInsufficientCollateral, quantity, proof.CollateralAmount)
	}

	return nil
}
