package client

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"sync/atomic"
	"time"

	"MintGate/internal/ledger"
	"MintGate/internal/mint"
	"MintGate/internal/sigverify"
	"MintGate/internal/token"
)

// Wallet holds a keypair and signs transactions.
type Wallet struct {
	privKey ed25519.PrivateKey // privKey is the Ed25519 private key
	pubKey  ledger.Hash        // pubKey is the Ed25519 public key
	nonce   atomic.Uint64      // nonce is the last nonce used
}

// NewWallet creates a new wallet with a random Ed25519 keypair.
func NewWallet() *Wallet {
	_, priv, _ := ed25519.GenerateKey(rand.Reader)
	return WalletFromKey(priv)
}

// WalletFromKey wraps an existing private key.
func WalletFromKey(priv ed25519.PrivateKey) *Wallet {
	w := &Wallet{privKey: priv}
	copy(w.pubKey[:], priv.Public().(ed25519.PublicKey))
	w.nonce.Store(uint64(time.Now().UnixNano()))

	return w
}

// Pubkey returns the wallet's public key.
func (w *Wallet) Pubkey() ledger.Hash {
	return w.pubKey
}

// Sign builds a signed transaction with a fresh nonce.
func (w *Wallet) Sign(ins ...ledger.Instruction) []byte {
	return ledger.BuildTransaction(w.privKey, w.nonce.Add(1), ins)
}

// InitRegistry makes the wallet the registry authority.
func (w *Wallet) InitRegistry(c *Client) (*Receipt, error) {
	return c.Submit(w.Sign(mint.InitRegistryInstruction()))
}

// AddValidators registers keys. The wallet must be the registry authority.
func (w *Wallet) AddValidators(c *Client, keys ...ledger.Hash) (*Receipt, error) {
	ins := make([]ledger.Instruction, len(keys))
	for i, k := range keys {
		ins[i] = mint.AddValidatorInstruction(k)
	}

	return c.Submit(w.Sign(ins...))
}

// InitToken creates the issued asset.
func (w *Wallet) InitToken(c *Client, meta token.Metadata, decimals uint8) (*Receipt, error) {
	return c.Submit(w.Sign(mint.InitTokenInstruction(meta, decimals)))
}

// Mint redeems an attestation issued to this wallet for quantity units.
func (w *Wallet) Mint(c *Client, a *Attestation, quantity uint64) (*Receipt, error) {
	if a.Proof.Minter != w.pubKey {
		return nil, fmt.Errorf("attestation is for %s, wallet is %s", a.Proof.Minter.Short(), w.pubKey.Short())
	}

	return c.Submit(w.Sign(a.Instructions(quantity)...))
}

// Attestor signs collateral attestations on behalf of a registered validator.
type Attestor struct {
	privKey ed25519.PrivateKey // privKey is the validator's Ed25519 key
	index   uint32             // index is the validator's position in the registry
}

// Attestation is a signed proof ready to be redeemed.
type Attestation struct {
	Proof     mint.Proof        // Proof is the mint argument
	PublicKey ed25519.PublicKey // PublicKey is the attesting validator's key
	Signature []byte            // Signature is the validator's signature over the message
}

// NewAttestor creates an attestor for the validator at index.
func NewAttestor(priv ed25519.PrivateKey, index uint32) *Attestor {
	return &Attestor{privKey: priv, index: index}
}

// Pubkey returns the validator's public key.
func (a *Attestor) Pubkey() ledger.Hash {
	var h ledger.Hash
	copy(h[:], a.privKey.Public().(ed25519.PublicKey))

	return h
}

// Attest signs that minter deposited collateral at timestamp.
func (a *Attestor) Attest(minter ledger.Hash, collateral uint64, timestamp time.Time) *Attestation {
	ts := uint64(timestamp.Unix())
	sig := ed25519.Sign(a.privKey, mint.AttestationMessage(minter, collateral, ts))

	return &Attestation{
		Proof: mint.Proof{
			Minter:           minter,
			CollateralAmount: collateral,
			Timestamp:        ts,
			SignatureHash:    mint.SignatureHash(sig),
			ValidatorIndex:   a.index,
		},
		PublicKey: a.privKey.Public().(ed25519.PublicKey),
		Signature: sig,
	}
}

// Instructions returns the signature check and the mint that must run as
// adjacent instructions of one transaction.
func (a *Attestation) Instructions(quantity uint64) []ledger.Instruction {
	return []ledger.Instruction{
		sigverify.NewInstruction(a.PublicKey, a.Proof.Message(), a.Signature),
		mint.MintTokensInstruction(a.Proof, quantity),
	}
}
