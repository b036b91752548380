// Package accountnumber generates account numbers for CreateAccount.
//
// Format: a two-letter prefix plus 8 decimal digits (e.g. "AC83920174"),
// drawn from a uniform random domain of 10^8 candidates so sequential
// enumeration doesn't reveal account ordering (spec §4.1, §9).
package accountnumber

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	prefix = "AC"
	domain = 100_000_000 // 10^8
)

// Generate returns one random candidate account number. Callers attempt an
// insert and, on a uniqueness violation, call Generate again up to a
// bounded retry ceiling (see internal/domain/ledger).
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(domain))
	if err != nil {
		return "", fmt.Errorf("accountnumber: failed to draw random candidate: %w", err)
	}
	return fmt.Sprintf("%s%08d", prefix, n.Int64()), nil
}
