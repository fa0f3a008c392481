package mint

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"MintGate/internal/ledger"
	"MintGate/internal/logger"
	"MintGate/internal/sigverify"
	"MintGate/internal/storage"
	"MintGate/internal/token"
)

var (
	testNow  = time.Unix(1700000000, 0)
	testMeta = token.Metadata{Name: "Collateral Note", Symbol: "CNOTE", URI: "https://example.org/cnote.json"}
)

// identity is a test key pair.
type identity struct {
	priv ed25519.PrivateKey
	pub  ledger.Hash
}

func newIdentity(seed byte) identity {
	var s [ed25519.SeedSize]byte
	s[0] = seed
	priv := ed25519.NewKeyFromSeed(s[:])

	var pub ledger.Hash
	copy(pub[:], priv.Public().(ed25519.PublicKey))

	return identity{priv: priv, pub: pub}
}

// harness is a ledger with the mint program and a nonce counter.
type harness struct {
	t      *testing.T
	ledger *ledger.Ledger
	nonce  uint64
}

func newHarness(t *testing.T, opts ...Option) (*harness, func()) {
	t.Helper()

	return newHarnessWith(t, nil, opts...)
}

// newHarnessWith also registers extra ledger options, such as additional programs.
func newHarnessWith(t *testing.T, extra []ledger.Option, opts ...Option) (*harness, func()) {
	t.Helper()

	dir, err := os.MkdirTemp("", "mint-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	db, err := storage.New(filepath.Join(dir, "db"))
	if err != nil {
		os.RemoveAll(dir)
		t.Fatalf("failed to create storage: %v", err)
	}

	ledgerOpts := append([]ledger.Option{
		ledger.WithProgram(sigverify.ProgramID, sigverify.Program{}),
		ledger.WithProgram(ProgramID, NewProgram(opts...)),
		ledger.WithErrorCodes(Code),
		ledger.WithClock(func() time.Time { return testNow }),
	}, extra...)

	l := ledger.New(db, ledgerOpts...)

	return &harness{t: t, ledger: l}, func() {
		db.Close()
		os.RemoveAll(dir)
	}
}

// exec signs and executes instructions as signer.
func (h *harness) exec(signer identity, ins ...ledger.Instruction) (*ledger.Receipt, error) {
	h.nonce++
	return h.ledger.Execute(ledger.BuildTransaction(signer.priv, h.nonce, ins))
}

// must executes and fails the test on error.
func (h *harness) must(signer identity, ins ...ledger.Instruction) {
	h.t.Helper()

	if _, err := h.exec(signer, ins...); err != nil {
		h.t.Fatalf("execute failed: %v", err)
	}
}

// bootstrap initializes the registry and asset with validators registered in order.
func (h *harness) bootstrap(authority identity, validators ...identity) {
	h.t.Helper()

	ins := []ledger.Instruction{InitRegistryInstruction()}
	for _, v := range validators {
		ins = append(ins, AddValidatorInstruction(v.pub))
	}
	ins = append(ins, InitTokenInstruction(testMeta, 9))

	h.must(authority, ins...)
}

func (h *harness) balance(owner ledger.Hash) uint64 {
	h.t.Helper()

	b, err := token.Balance(h.ledger, AssetAddress(), owner)
	if err != nil {
		h.t.Fatalf("Balance failed: %v", err)
	}

	return b
}

// attest has validator sign (minter, collateral, timestamp) and returns the
// signature-check instruction with the matching proof.
func attest(validator identity, index uint32, minter ledger.Hash, collateral, timestamp uint64) (ledger.Instruction, Proof) {
	msg := AttestationMessage(minter, collateral, timestamp)
	sig := ed25519.Sign(validator.priv, msg)

	proof := Proof{
		Minter:           minter,
		CollateralAmount: collateral,
		Timestamp:        timestamp,
		SignatureHash:    SignatureHash(sig),
		ValidatorIndex:   index,
	}

	return sigverify.NewInstruction(validator.priv.Public().(ed25519.PublicKey), msg, sig), proof
}

func TestInitRegistry(t *testing.T) {
	h, cleanup := newHarness(t)
	defer cleanup()

	authority := newIdentity(1)
	h.must(authority, InitRegistryInstruction())

	reg, err := LoadRegistry(h.ledger)
	if err != nil {
		t.Fatalf("LoadRegistry failed: %v", err)
	}

	if reg.Authority != authority.pub || len(reg.Validators) != 0 {
		t.Errorf("unexpected registry: %+v", reg)
	}

	receipt, err := h.exec(newIdentity(2), InitRegistryInstruction())
	if !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("expected ErrAlreadyInitialized, got %v", err)
	}

	if receipt.Code != "AlreadyInitialized" {
		t.Errorf("expected AlreadyInitialized, got %q", receipt.Code)
	}

	reg, _ = LoadRegistry(h.ledger)
	if reg.Authority != authority.pub {
		t.Error("authority changed by second init")
	}
}

func TestAddValidator(t *testing.T) {
	h, cleanup := newHarness(t)
	defer cleanup()

	authority := newIdentity(1)
	v1, v2 := newIdentity(10), newIdentity(11)

	h.must(authority, InitRegistryInstruction(), AddValidatorInstruction(v1.pub))
	h.must(authority, AddValidatorInstruction(v2.pub))

	reg, err := LoadRegistry(h.ledger)
	if err != nil {
		t.Fatalf("LoadRegistry failed: %v", err)
	}

	if len(reg.Validators) != 2 || reg.Validators[0] != v1.pub || reg.Validators[1] != v2.pub {
		t.Fatalf("unexpected validators: %v", reg.Validators)
	}

	if _, err := h.exec(authority, AddValidatorInstruction(v1.pub)); !errors.Is(err, ErrDuplicateValidator) {
		t.Errorf("expected ErrDuplicateValidator, got %v", err)
	}

	if _, err := h.exec(newIdentity(2), AddValidatorInstruction(newIdentity(12).pub)); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	reg, _ = LoadRegistry(h.ledger)
	if len(reg.Validators) != 2 {
		t.Errorf("registry changed by rejected adds: %d keys", len(reg.Validators))
	}
}

func TestAddValidatorBeforeInit(t *testing.T) {
	h, cleanup := newHarness(t)
	defer cleanup()

	if _, err := h.exec(newIdentity(1), AddValidatorInstruction(newIdentity(10).pub)); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestRegistryFull(t *testing.T) {
	h, cleanup := newHarness(t)
	defer cleanup()

	authority := newIdentity(1)
	h.must(authority, InitRegistryInstruction())

	added := 0
	for added < MaxValidators {
		var ins []ledger.Instruction
		for i := 0; i < ledger.MaxInstructions && added < MaxValidators; i++ {
			var key ledger.Hash
			key[0], key[1] = 0xEE, byte(added)
			ins = append(ins, AddValidatorInstruction(key))
			added++
		}
		h.must(authority, ins...)
	}

	if _, err := h.exec(authority, AddValidatorInstruction(newIdentity(10).pub)); !errors.Is(err, ErrRegistryFull) {
		t.Errorf("expected ErrRegistryFull, got %v", err)
	}
}

func TestInitToken(t *testing.T) {
	h, cleanup := newHarness(t)
	defer cleanup()

	h.must(newIdentity(1), InitTokenInstruction(testMeta, 9))

	asset, err := token.LoadAsset(h.ledger, AssetAddress())
	if err != nil {
		t.Fatalf("LoadAsset failed: %v", err)
	}

	if asset.Authority != AssetAddress() || asset.Decimals != 9 || asset.Supply != 0 {
		t.Errorf("unexpected asset: %+v", asset)
	}

	meta, err := token.LoadMetadata(h.ledger, AssetAddress())
	if err != nil {
		t.Fatalf("LoadMetadata failed: %v", err)
	}

	if *meta != testMeta {
		t.Errorf("metadata %+v, want %+v", meta, testMeta)
	}

	if _, err := h.exec(newIdentity(2), InitTokenInstruction(testMeta, 6)); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("expected ErrAlreadyInitialized, got %v", err)
	}

	bad := token.Metadata{Name: "x", Symbol: "TOO-LONG-SYMBOL"}

	receipt, err := h.exec(newIdentity(2), InitTokenInstruction(bad, 6))
	if !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("second init with invalid metadata: expected ErrAlreadyInitialized, got %v", err)
	}
	if receipt == nil || receipt.Code != "AlreadyInitialized" {
		t.Errorf("second init with invalid metadata: unexpected receipt %+v", receipt)
	}

	h2, cleanup2 := newHarness(t)
	defer cleanup2()

	if _, err := h2.exec(newIdentity(1), InitTokenInstruction(bad, 9)); !errors.Is(err, token.ErrInvalidMetadata) {
		t.Errorf("expected ErrInvalidMetadata, got %v", err)
	}
}

func TestMintScenario(t *testing.T) {
	h, cleanup := newHarness(t)
	defer cleanup()

	authority := newIdentity(1)
	validator := newIdentity(10)
	minter := newIdentity(20)

	h.bootstrap(authority, validator)

	check, proof := attest(validator, 0, minter.pub, 10_000_000, 1_700_000_000)

	receipt, err := h.exec(minter, check, MintTokensInstruction(proof, 9_000_000))
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	if !receipt.OK {
		t.Fatal("expected OK receipt")
	}

	if got := h.balance(minter.pub); got != 9_000_000 {
		t.Errorf("balance %d, want 9000000", got)
	}

	lock, err := LoadLock(h.ledger, proof.SignatureHash)
	if err != nil {
		t.Fatalf("LoadLock failed: %v", err)
	}

	if lock.Minter != minter.pub || lock.ConsumedAt != uint64(testNow.Unix()) {
		t.Errorf("unexpected lock: %+v", lock)
	}

	receipt, err = h.exec(minter, check, MintTokensInstruction(proof, 9_000_000))
	if !errors.Is(err, ErrReplay) {
		t.Fatalf("expected ErrReplay, got %v", err)
	}

	if receipt.Code != "Replay" {
		t.Errorf("expected Replay code, got %q", receipt.Code)
	}

	if got := h.balance(minter.pub); got != 9_000_000 {
		t.Errorf("balance changed by replay: %d", got)
	}
}

func TestMintReplayInSameTransaction(t *testing.T) {
	h, cleanup := newHarness(t)
	defer cleanup()

	validator := newIdentity(10)
	minter := newIdentity(20)
	h.bootstrap(newIdentity(1), validator)

	check, proof := attest(validator, 0, minter.pub, 100, 1)

	_, err := h.exec(minter,
		check, MintTokensInstruction(proof, 100),
		check, MintTokensInstruction(proof, 100),
	)
	if !errors.Is(err, ErrReplay) {
		t.Fatalf("expected ErrReplay, got %v", err)
	}

	if got := h.balance(minter.pub); got != 0 {
		t.Errorf("failed transaction issued %d", got)
	}

	if _, err := LoadLock(h.ledger, proof.SignatureHash); !ledger.IsNotFound(err) {
		t.Errorf("lock survived rollback: %v", err)
	}
}

// captureLogs routes the default logger into a buffer at info level until the test ends.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(logger.NewHandler(&buf, slog.LevelInfo)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	return &buf
}

func TestRolledBackMintNotLogged(t *testing.T) {
	h, cleanup := newHarness(t)
	defer cleanup()

	validator := newIdentity(10)
	minter := newIdentity(20)
	h.bootstrap(newIdentity(1), validator)

	logs := captureLogs(t)
	check, proof := attest(validator, 0, minter.pub, 100, 1)

	if _, err := h.exec(minter,
		check, MintTokensInstruction(proof, 100),
		check, MintTokensInstruction(proof, 100),
	); !errors.Is(err, ErrReplay) {
		t.Fatalf("expected ErrReplay, got %v", err)
	}

	out := logs.String()
	if strings.Contains(out, "staged") || strings.Contains(out, "tx committed") {
		t.Errorf("rolled-back effects logged at info: %q", out)
	}
	if !strings.Contains(out, "tx rejected") || !strings.Contains(out, "code=Replay") {
		t.Errorf("missing rejection record: %q", out)
	}

	logs.Reset()
	h.must(minter, check, MintTokensInstruction(proof, 100))

	if !strings.Contains(logs.String(), "tx committed") {
		t.Errorf("missing commit record: %q", logs.String())
	}
}

func TestMintConcurrentReplay(t *testing.T) {
	h, cleanup := newHarness(t)
	defer cleanup()

	authority := newIdentity(1)
	validator := newIdentity(10)
	minter := newIdentity(20)
	h.bootstrap(authority, validator)

	check, proof := attest(validator, 0, minter.pub, 10, 1)

	const workers = 32

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)

	for i := 0; i < workers; i++ {
		mintTx := ledger.BuildTransaction(minter.priv, uint64(1000+i), []ledger.Instruction{check, MintTokensInstruction(proof, 10)})

		var key ledger.Hash
		key[0], key[1] = 0xAA, byte(i)
		addTx := ledger.BuildTransaction(authority.priv, uint64(2000+i), []ledger.Instruction{AddValidatorInstruction(key)})

		wg.Add(2)

		go func() {
			defer wg.Done()

			_, err := h.ledger.Execute(mintTx)
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			if !errors.Is(err, ErrReplay) {
				t.Errorf("expected ErrReplay, got %v", err)
			}
		}()

		go func() {
			defer wg.Done()

			if _, err := h.ledger.Execute(addTx); err != nil {
				t.Errorf("AddValidator failed: %v", err)
			}
		}()
	}

	wg.Wait()

	if successes != 1 {
		t.Errorf("attestation consumed %d times, want 1", successes)
	}

	if got := h.balance(minter.pub); got != 10 {
		t.Errorf("balance %d, want 10", got)
	}

	reg, err := LoadRegistry(h.ledger)
	if err != nil {
		t.Fatalf("LoadRegistry failed: %v", err)
	}

	if len(reg.Validators) != workers+1 {
		t.Errorf("registry has %d keys, want %d", len(reg.Validators), workers+1)
	}
}

func TestMintDistinctAttestations(t *testing.T) {
	h, cleanup := newHarness(t)
	defer cleanup()

	v1, v2 := newIdentity(10), newIdentity(11)
	minter := newIdentity(20)
	h.bootstrap(newIdentity(1), v1, v2)

	check1, proof1 := attest(v1, 0, minter.pub, 100, 1)
	check2, proof2 := attest(v2, 1, minter.pub, 100, 1)

	h.must(minter, check1, MintTokensInstruction(proof1, 40))
	h.must(minter, check2, MintTokensInstruction(proof2, 60))

	if got := h.balance(minter.pub); got != 100 {
		t.Errorf("balance %d, want 100", got)
	}
}

func TestMintRejections(t *testing.T) {
	validator := newIdentity(10)
	other := newIdentity(11)
	minter := newIdentity(20)

	check, proof := attest(validator, 0, minter.pub, 100, 1)

	tampered := proof
	tampered.CollateralAmount = 1_000

	badDigest := proof
	badDigest.SignatureHash[0] ^= 0xFF

	wrongIndex := proof
	wrongIndex.ValidatorIndex = 5

	otherCheck, otherProof := attest(other, 0, minter.pub, 100, 1)

	forged := check
	forged.Program = ledger.ProgramID("not-sigverify")

	cases := []struct {
		name   string
		signer identity
		ins    []ledger.Instruction
		want   error
	}{
		{"missing signature check", minter, []ledger.Instruction{MintTokensInstruction(proof, 1)}, ErrProofSignatureMismatch},
		{"unknown validator", minter, []ledger.Instruction{check, MintTokensInstruction(wrongIndex, 1)}, ErrUnknownValidator},
		{"message mismatch", minter, []ledger.Instruction{check, MintTokensInstruction(tampered, 1)}, ErrProofSignatureMismatch},
		{"digest mismatch", minter, []ledger.Instruction{check, MintTokensInstruction(badDigest, 1)}, ErrProofSignatureMismatch},
		{"unregistered signer", minter, []ledger.Instruction{otherCheck, MintTokensInstruction(otherProof, 1)}, ErrProofSignatureMismatch},
		{"not adjacent", minter, []ledger.Instruction{check, otherCheck, MintTokensInstruction(proof, 1)}, ErrProofSignatureMismatch},
		{"minter mismatch", other, []ledger.Instruction{check, MintTokensInstruction(proof, 1)}, ErrUnauthorizedMinter},
	}

	h, cleanup := newHarness(t)
	defer cleanup()
	h.bootstrap(newIdentity(1), validator)

	for _, tc := range cases {
		receipt, err := h.exec(tc.signer, tc.ins...)
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
			continue
		}
		if receipt == nil || receipt.OK {
			t.Errorf("%s: expected failure receipt", tc.name)
		}
	}

	// The preceding instruction is not a signature check; the ledger rejects
	// the forged one as an unknown program before the mint runs.
	if _, err := h.exec(minter, forged, MintTokensInstruction(proof, 1)); !errors.Is(err, ledger.ErrUnknownProgram) {
		t.Errorf("forged check: expected ErrUnknownProgram, got %v", err)
	}

	if got := h.balance(minter.pub); got != 0 {
		t.Errorf("rejected mints issued %d", got)
	}

	if _, err := LoadLock(h.ledger, proof.SignatureHash); !ledger.IsNotFound(err) {
		t.Errorf("rejected mints created a lock: %v", err)
	}

	// The attestation is still usable after all the rejections.
	h.must(minter, check, MintTokensInstruction(proof, 1))
}

// echoProgram accepts any data.
type echoProgram struct{}

func (echoProgram) Process(*ledger.Context, []byte) error { return nil }

func TestMintPrecedingInstructionOtherProgram(t *testing.T) {
	echo := ledger.ProgramID("echo")

	h, cleanup := newHarnessWith(t, []ledger.Option{ledger.WithProgram(echo, echoProgram{})})
	defer cleanup()

	validator := newIdentity(10)
	minter := newIdentity(20)
	h.bootstrap(newIdentity(1), validator)

	check, proof := attest(validator, 0, minter.pub, 100, 1)

	// Same bytes as a valid signature check, but never verified.
	disguised := ledger.Instruction{Program: echo, Data: check.Data}

	receipt, err := h.exec(minter, disguised, MintTokensInstruction(proof, 1))
	if !errors.Is(err, ErrProofSignatureMismatch) {
		t.Fatalf("expected ErrProofSignatureMismatch, got %v", err)
	}

	if receipt.Code != "ProofSignatureMismatch" {
		t.Errorf("expected ProofSignatureMismatch code, got %q", receipt.Code)
	}
}

func TestMintBeforeInit(t *testing.T) {
	h, cleanup := newHarness(t)
	defer cleanup()

	validator := newIdentity(10)
	minter := newIdentity(20)
	authority := newIdentity(1)

	check, proof := attest(validator, 0, minter.pub, 100, 1)

	if _, err := h.exec(minter, check, MintTokensInstruction(proof, 1)); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("no registry: expected ErrNotInitialized, got %v", err)
	}

	h.must(authority, InitRegistryInstruction(), AddValidatorInstruction(validator.pub))

	if _, err := h.exec(minter, check, MintTokensInstruction(proof, 1)); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("no asset: expected ErrNotInitialized, got %v", err)
	}
}

func TestMintZeroQuantityConsumes(t *testing.T) {
	h, cleanup := newHarness(t)
	defer cleanup()

	validator := newIdentity(10)
	minter := newIdentity(20)
	h.bootstrap(newIdentity(1), validator)

	check, proof := attest(validator, 0, minter.pub, 100, 1)

	h.must(minter, check, MintTokensInstruction(proof, 0))

	if _, err := h.exec(minter, check, MintTokensInstruction(proof, 100)); !errors.Is(err, ErrReplay) {
		t.Errorf("expected ErrReplay, got %v", err)
	}
}

func TestMintAboveCollateralByDefault(t *testing.T) {
	h, cleanup := newHarness(t)
	defer cleanup()

	validator := newIdentity(10)
	minter := newIdentity(20)
	h.bootstrap(newIdentity(1), validator)

	check, proof := attest(validator, 0, minter.pub, 100, 1)
	h.must(minter, check, MintTokensInstruction(proof, 1_000))

	if got := h.balance(minter.pub); got != 1_000 {
		t.Errorf("balance %d, want 1000", got)
	}
}

func TestCollateralCap(t *testing.T) {
	h, cleanup := newHarness(t, WithCollateralCap())
	defer cleanup()

	validator := newIdentity(10)
	minter := newIdentity(20)
	h.bootstrap(newIdentity(1), validator)

	check, proof := attest(validator, 0, minter.pub, 100, 1)

	receipt, err := h.exec(minter, check, MintTokensInstruction(proof, 101))
	if !errors.Is(err, ErrInsufficientCollateral) {
		t.Fatalf("expected ErrInsufficientCollateral, got %v", err)
	}

	if receipt.Code != "InsufficientCollateral" {
		t.Errorf("expected InsufficientCollateral code, got %q", receipt.Code)
	}

	h.must(minter, check, MintTokensInstruction(proof, 100))
}

func TestMaxAttestationAge(t *testing.T) {
	h, cleanup := newHarness(t, WithMaxAttestationAge(time.Hour))
	defer cleanup()

	validator := newIdentity(10)
	minter := newIdentity(20)
	h.bootstrap(newIdentity(1), validator)

	now := uint64(testNow.Unix())

	for _, ts := range []uint64{now - 3601, now + 3601, 1 << 63} {
		check, proof := attest(validator, 0, minter.pub, 100, ts)
		if _, err := h.exec(minter, check, MintTokensInstruction(proof, 1)); !errors.Is(err, ErrStaleAttestation) {
			t.Errorf("timestamp %d: expected ErrStaleAttestation, got %v", ts, err)
		}
	}

	check, proof := attest(validator, 0, minter.pub, 100, now-3600)
	h.must(minter, check, MintTokensInstruction(proof, 1))
}

func TestProcessInvalidInstruction(t *testing.T) {
	h, cleanup := newHarness(t)
	defer cleanup()

	cases := map[string][]byte{
		"short":           {1, 2, 3},
		"unknown tag":     make([]byte, 8),
		"registry args":   append(ixInitRegistry[:8:8], 1),
		"validator short": append(ixAddValidator[:8:8], 1, 2),
		"token trailing":  append(InitTokenInstruction(testMeta, 9).Data, 0xde, 0xad, 0xbe, 0xef),
	}

	for name, data := range cases {
		receipt, err := h.exec(newIdentity(1), ledger.Instruction{Program: ProgramID, Data: data})
		if !errors.Is(err, ErrInvalidInstruction) {
			t.Errorf("%s: expected ErrInvalidInstruction, got %v", name, err)
			continue
		}
		if receipt.Code != "InvalidInstruction" {
			t.Errorf("%s: expected InvalidInstruction code, got %q", name, receipt.Code)
		}
	}
}

func TestAttestationMessage(t *testing.T) {
	var minter ledger.Hash
	minter[0], minter[31] = 0xAB, 0xCD

	msg := AttestationMessage(minter, 0x0102030405060708, 1)

	if len(msg) != MessageSize {
		t.Fatalf("message size %d", len(msg))
	}

	if msg[0] != 0xAB || msg[31] != 0xCD {
		t.Error("minter not at the front")
	}

	if msg[32] != 0x08 || msg[39] != 0x01 {
		t.Errorf("collateral not little-endian: %x", msg[32:40])
	}

	if msg[40] != 1 || msg[47] != 0 {
		t.Errorf("timestamp not little-endian: %x", msg[40:48])
	}
}

func TestSignatureHashIsKeccak(t *testing.T) {
	// Keccak-256 of the empty input.
	want := "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"

	if got := SignatureHash(nil).String(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestCode(t *testing.T) {
	cases := map[error]string{
		ErrReplay:                     "Replay",
		token.ErrMintAuthority:        "MintAuthority",
		sigverify.ErrInvalidSignature: "SignatureCheckFailed",
		errors.New("other"):           "",
	}

	for err, want := range cases {
		if got := Code(err); got != want {
			t.Errorf("Code(%v) = %q, want %q", err, got, want)
		}
	}
}
