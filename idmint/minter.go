// Package idmint mints the human readable FIR and case numbers.
//
// Numbers take the form PREFIX-YEAR-SEQ where SEQ comes from an atomic
// counter per (kind, year). The counter alone makes concurrent mints
// distinct; the unique index on the number field covers counters that lag
// behind existing data, and Insert retries past those collisions.
package idmint

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/linesmerrill/case-tracker-api/databases"
)

// MaxAttempts bounds how many numbers Insert will try before giving up
const MaxAttempts = 5

// ErrExhausted is returned when every attempt collided with an existing number
var ErrExhausted = errors.New("identifier minting exhausted its attempts")

// Kind is the record family a number is minted for
type Kind string

// Kinds of minted identifiers
const (
	KindFIR  Kind = "FIR"
	KindCase Kind = "CASE"
)

// field is the unique index column holding numbers of this kind
func (k Kind) field() string {
	if k == KindCase {
		return "caseNumber"
	}
	return "firNumber"
}

// Key names the counter for kind in year
func Key(kind Kind, year int) string {
	return fmt.Sprintf("%s-%d", kind, year)
}

// Prefix is the leading part shared by every number of kind in year
func Prefix(kind Kind, year int) string {
	return Key(kind, year) + "-"
}

// Format renders a sequence value as an identifier
func Format(kind Kind, year int, seq int64) string {
	return fmt.Sprintf("%s%04d", Prefix(kind, year), seq)
}

// Sequence is an atomic per-key counter
type Sequence interface {
	// Next increments key and returns the new value, starting from 1
	Next(ctx context.Context, key string) (int64, error)
	// Raise lifts key to at least floor
	Raise(ctx context.Context, key string, floor int64) error
}

// Counter counts existing records whose number starts with prefix
type Counter interface {
	CountByPrefix(ctx context.Context, prefix string) (int64, error)
}

// Minter hands out identifiers backed by a Sequence
type Minter struct {
	seq Sequence
}

// New returns a Minter drawing from seq
func New(seq Sequence) *Minter {
	return &Minter{seq: seq}
}

// Mint returns the next identifier of kind for year
func (m *Minter) Mint(ctx context.Context, kind Kind, year int) (string, error) {
	n, err := m.seq.Next(ctx, Key(kind, year))
	if err != nil {
		return "", fmt.Errorf("failed to advance %s counter: %w", Key(kind, year), err)
	}
	return Format(kind, year, n), nil
}

// Insert mints a number and hands it to insert, minting again whenever
// insert reports a duplicate on the kind's number field. Any other error
// from insert is returned as is.
func (m *Minter) Insert(ctx context.Context, kind Kind, year int, insert func(number string) error) (string, error) {
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		number, err := m.Mint(ctx, kind, year)
		if err != nil {
			return "", err
		}
		err = insert(number)
		if err == nil {
			return number, nil
		}
		if !databases.IsDuplicateKey(err, kind.field()) {
			return "", err
		}
		zap.S().Warnw("minted identifier already taken, retrying", "number", number, "attempt", attempt)
	}
	return "", fmt.Errorf("%s for %d: %w", kind, year, ErrExhausted)
}

// Seed raises the counter of every kind in counts for year to the number of
// records already carrying that prefix
func (m *Minter) Seed(ctx context.Context, year int, counts map[Kind]Counter) error {
	for kind, counter := range counts {
		n, err := counter.CountByPrefix(ctx, Prefix(kind, year))
		if err != nil {
			return fmt.Errorf("failed to count existing %s numbers: %w", kind, err)
		}
		if err := m.seq.Raise(ctx, Key(kind, year), n); err != nil {
			return fmt.Errorf("failed to raise %s counter: %w", kind, err)
		}
		zap.S().Infow("seeded identifier counter", "key", Key(kind, year), "floor", n)
	}
	return nil
}
