//go:build ignore

// compare_state reports differences between the ledger records of two
// stopped nodes, e.g. a primary and a node synced from it.
//
// Usage: go run scripts/compare_state.go <data1>/db <data2>/db
package main

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"MintGate/internal/ledger"
	"MintGate/internal/storage"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <db1_path> <db2_path>\n", os.Args[0])
		os.Exit(1)
	}

	db1 := open(os.Args[1])
	defer db1.Close()

	db2 := open(os.Args[2])
	defer db2.Close()

	records1 := collectRecords(db1)
	records2 := collectRecords(db2)

	fmt.Printf("DB1 (%s): %d records\n", os.Args[1], len(records1))
	fmt.Printf("DB2 (%s): %d records\n", os.Args[2], len(records2))

	only1 := missingFrom(records1, records2)
	only2 := missingFrom(records2, records1)
	different := changed(records1, records2)

	if len(only1) == 0 && len(only2) == 0 && len(different) == 0 {
		fmt.Println("\nStates are identical")
		return
	}

	fmt.Println("\nStates differ:")
	report("Records only in DB1", db1, only1)
	report("Records only in DB2", db2, only2)
	report("Records with different content (DB1 view)", db1, different)

	os.Exit(1)
}

func open(path string) *storage.Storage {
	db, err := storage.New(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", path, err)
		os.Exit(1)
	}

	return db
}

// collectRecords returns every record keyed by address; receipts are skipped.
func collectRecords(db *storage.Storage) map[ledger.Hash][]byte {
	records := make(map[ledger.Hash][]byte)

	db.Iterate(func(key, value []byte) error {
		if len(key) != len(ledger.Hash{}) {
			return nil
		}

		var addr ledger.Hash
		copy(addr[:], key)
		records[addr] = append([]byte(nil), value...)

		return nil
	})

	return records
}

// missingFrom returns the addresses of a that b lacks, sorted.
func missingFrom(a, b map[ledger.Hash][]byte) []ledger.Hash {
	var out []ledger.Hash

	for addr := range a {
		if _, ok := b[addr]; !ok {
			out = append(out, addr)
		}
	}

	return sorted(out)
}

// changed returns the addresses present in both with different bytes, sorted.
func changed(a, b map[ledger.Hash][]byte) []ledger.Hash {
	var out []ledger.Hash

	for addr, data := range a {
		if other, ok := b[addr]; ok && !bytes.Equal(data, other) {
			out = append(out, addr)
		}
	}

	return sorted(out)
}

func sorted(addrs []ledger.Hash) []ledger.Hash {
	sort.Slice(addrs, func(i, j int) bool {
		return bytes.Compare(addrs[i][:], addrs[j][:]) < 0
	})

	return addrs
}

// report prints each address with the owner, kind and version it has in db.
func report(title string, db *storage.Storage, addrs []ledger.Hash) {
	if len(addrs) == 0 {
		return
	}

	fmt.Printf("  - %s: %d\n", title, len(addrs))

	l := ledger.New(db)
	for _, addr := range addrs {
		rec, err := l.Load(addr)
		if err != nil {
			fmt.Printf("      %s (undecodable: %v)\n", addr.Short(), err)
			continue
		}

		fmt.Printf("      %s owner=%s kind=%d version=%d\n", addr.Short(), rec.Owner.Short(), rec.Kind, rec.Version)
	}
}
