package genesis

import (
	"crypto/ed25519"
	"fmt"

	"MintGate/internal/ledger"
	"MintGate/internal/logger"
	"MintGate/internal/mint"
	"MintGate/internal/token"
)

// Config holds the bootstrap configuration of a node.
type Config struct {
	// PrivateKey signs the bootstrap transactions and becomes the registry authority.
	PrivateKey ed25519.PrivateKey

	// Validators are the ed25519 keys to register, in index order.
	Validators []ledger.Hash

	// Token describes the issued asset.
	Token token.Metadata

	// Decimals is the asset's display precision.
	Decimals uint8
}

// Ledger is the subset of the ledger bootstrap needs.
type Ledger interface {
	ledger.Reader
	Execute(txData []byte) (*ledger.Receipt, error)
}

// Plan returns the instructions still needed to bring the ledger to cfg.
// Steps whose target already exists are skipped, so Plan on a bootstrapped
// ledger returns nothing.
func Plan(r ledger.Reader, cfg Config) ([]ledger.Instruction, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	authority := signer(cfg.PrivateKey)

	var ins []ledger.Instruction

	reg, err := mint.LoadRegistry(r)
	switch {
	case err == nil:
		if reg.Authority != authority && len(missing(reg, cfg.Validators)) > 0 {
			return nil, fmt.Errorf("registry authority is %s, node key is %s", reg.Authority.Short(), authority.Short())
		}
	case ledger.IsNotFound(err) || isNotInitialized(err):
		reg = &mint.Registry{Authority: authority}
		ins = append(ins, mint.InitRegistryInstruction())
	default:
		return nil, fmt.Errorf("probe registry:\n%w", err)
	}

	for _, key := range missing(reg, cfg.Validators) {
		ins = append(ins, mint.AddValidatorInstruction(key))
	}

	_, err = token.LoadAsset(r, mint.AssetAddress())
	switch {
	case err == nil:
	case ledger.IsNotFound(err):
		ins = append(ins, mint.InitTokenInstruction(cfg.Token, cfg.Decimals))
	default:
		return nil, fmt.Errorf("probe asset:\n%w", err)
	}

	return ins, nil
}

// Run plans and executes the bootstrap. It returns the number of
// transactions executed.
func Run(l Ledger, cfg Config, nonce uint64) (int, error) {
	ins, err := Plan(l, cfg)
	if err != nil {
		return 0, err
	}

	if len(ins) == 0 {
		logger.Info("bootstrap already applied")
		return 0, nil
	}

	txs := BuildTransactions(cfg.PrivateKey, nonce, ins)

	for i, tx := range txs {
		receipt, err := l.Execute(tx)
		if err != nil {
			return i, fmt.Errorf("bootstrap tx %d:\n%w", i, err)
		}

		logger.Info("bootstrap tx executed",
			"index", i,
			"hash", receipt.Hash.Short(),
		)
	}

	logger.Info("bootstrap complete",
		"validators", len(cfg.Validators),
		"symbol", cfg.Token.Symbol,
		"txs", len(txs),
	)

	return len(txs), nil
}

// validate checks the configuration before anything is built.
func validate(cfg Config) error {
	if cfg.PrivateKey == nil {
		return fmt.Errorf("private key is required")
	}

	if len(cfg.PrivateKey) != ed25519.PrivateKeySize {
		return fmt.Errorf("invalid private key size: %d", len(cfg.PrivateKey))
	}

	if len(cfg.Validators) > mint.MaxValidators {
		return fmt.Errorf("too many validators: %d > %d", len(cfg.Validators), mint.MaxValidators)
	}

	return cfg.Token.Validate()
}

// missing returns the keys of want not yet in reg, deduplicated, in order.
func missing(reg *mint.Registry, want []ledger.Hash) []ledger.Hash {
	seen := make(map[ledger.Hash]bool, len(want))

	var out []ledger.Hash
	for _, key := range want {
		if seen[key] || reg.Contains(key) {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}

	return out
}
