package randen

import (
	"fmt"
	"math"
	"math/bits"
	"math/rand/v2"
	"strings"
	"time"

	"golang.org/x/exp/constraints"
)

const (
	lowerLetters = "abcdefghijklmnopqrstuvwxyz"
	upperLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	alphanumeric = lowerLetters + upperLetters + "0123456789"

	minStringAttempts = 1024
	attemptsPerString = 32
)

func checkRows(nrows int) error {
	if nrows < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRowCount, nrows)
	}
	return nil
}

func checkRange[T constraints.Ordered](lo, hi T) error {
	if !(lo < hi) {
		return fmt.Errorf("%w: [%v, %v) is empty", ErrInvalidRange, lo, hi)
	}
	return nil
}

// Integers returns nrows integers drawn uniformly from [minval, maxval).
func Integers(r *rand.Rand, nrows int, minval, maxval int64) ([]int64, error) {
	if err := checkRows(nrows); err != nil {
		return nil, err
	}
	if err := checkRange(minval, maxval); err != nil {
		return nil, err
	}

	// The span is computed in uint64 so ranges wider than MaxInt64 do not overflow.
	span := uint64(maxval) - uint64(minval)
	out := make([]int64, nrows)
	for i := range out {
		out[i] = int64(uint64(minval) + r.Uint64N(span))
	}
	return out, nil
}

// Floats returns nrows floats drawn uniformly from [minval, maxval).
func Floats(r *rand.Rand, nrows int, minval, maxval float64) ([]float64, error) {
	if err := checkRows(nrows); err != nil {
		return nil, err
	}
	if err := checkRange(minval, maxval); err != nil {
		return nil, err
	}
	if math.IsInf(minval, 0) || math.IsInf(maxval, 0) {
		return nil, fmt.Errorf("%w: [%v, %v) is unbounded", ErrInvalidRange, minval, maxval)
	}

	span := maxval - minval
	wide := math.IsInf(span, 0)
	out := make([]float64, nrows)
	for i := range out {
		u := r.Float64()
		v := span*u + minval
		if wide {
			// span overflows float64, interpolate between the bounds instead
			v = minval*(1-u) + maxval*u
		}
		if v >= maxval {
			// rounding can land exactly on the open bound
			v = math.Nextafter(maxval, minval)
		}
		out[i] = v
	}
	return out, nil
}

// Booleans returns nrows fair coin flips.
func Booleans(r *rand.Rand, nrows int) ([]bool, error) {
	if err := checkRows(nrows); err != nil {
		return nil, err
	}

	out := make([]bool, nrows)
	for i := range out {
		out[i] = r.Float64() < 0.5
	}
	return out, nil
}

// Characters returns nrows letters from a-z, or A-Z when lowercase is false.
func Characters(r *rand.Rand, nrows int, lowercase bool) ([]byte, error) {
	if err := checkRows(nrows); err != nil {
		return nil, err
	}

	alphabet := upperLetters
	if lowercase {
		alphabet = lowerLetters
	}
	out := make([]byte, nrows)
	for i := range out {
		out[i] = alphabet[r.IntN(len(alphabet))]
	}
	return out, nil
}

// UniqueStrings returns nrows pairwise distinct alphanumeric strings whose
// lengths are drawn uniformly from [minlen, maxlen).
//
// Candidates are drawn until nrows distinct values are collected. At most
// maxAttempts candidates are drawn (a non-positive value selects a budget
// proportional to nrows); running out, or asking for more strings than the
// length range can hold, fails with ErrUniqueExhausted.
func UniqueStrings(r *rand.Rand, nrows, minlen, maxlen, maxAttempts int) ([]string, error) {
	if err := checkRows(nrows); err != nil {
		return nil, err
	}
	if minlen < 0 {
		return nil, fmt.Errorf("%w: negative string length %d", ErrInvalidRange, minlen)
	}
	if err := checkRange(minlen, maxlen); err != nil {
		return nil, err
	}
	if c := stringCapacity(minlen, maxlen, nrows); c < nrows {
		return nil, fmt.Errorf("%w: only %d distinct strings of length [%d, %d), %d requested",
			ErrUniqueExhausted, c, minlen, maxlen, nrows)
	}
	if maxAttempts <= 0 {
		maxAttempts = max(attemptsPerString*nrows, minStringAttempts)
	}

	seen := make(map[string]struct{}, nrows)
	out := make([]string, 0, nrows)
	var sb strings.Builder
	for attempts := 0; len(out) < nrows; attempts++ {
		if attempts >= maxAttempts {
			return nil, fmt.Errorf("%w: %d distinct of %d after %d attempts",
				ErrUniqueExhausted, len(out), nrows, attempts)
		}

		sb.Reset()
		n := minlen + r.IntN(maxlen-minlen)
		for range n {
			sb.WriteByte(alphanumeric[r.IntN(len(alphanumeric))])
		}
		s := sb.String()
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}

// stringCapacity counts the distinct alphanumeric strings with length in
// [minlen, maxlen), saturating at limit.
func stringCapacity(minlen, maxlen, limit int) int {
	total := 0
	for l := minlen; l < maxlen; l++ {
		c := 1
		for i := 0; i < l && c <= limit; i++ {
			c *= len(alphanumeric)
		}
		total += c
		if total >= limit {
			return limit
		}
	}
	return total
}

// Timestamps returns nrows instants evenly spaced from start to end, both
// inclusive. A single row yields start. Both ends must be representable as
// int64 nanoseconds since the Unix epoch (years 1678 to 2262).
func Timestamps(nrows int, start, end time.Time) ([]time.Time, error) {
	if err := checkRows(nrows); err != nil {
		return nil, err
	}
	if err := checkInstant(start); err != nil {
		return nil, err
	}
	if err := checkInstant(end); err != nil {
		return nil, err
	}

	out := make([]time.Time, nrows)
	if nrows == 0 {
		return out, nil
	}

	s, e := start.UnixNano(), end.UnixNano()
	out[0] = time.Unix(0, s).UTC()
	if nrows == 1 {
		return out, nil
	}

	// The gap can exceed MaxInt64, so it is kept as an unsigned magnitude
	// and i*gap/k is computed with a 128-bit intermediate.
	descending := e < s
	gap := uint64(e) - uint64(s)
	if descending {
		gap = uint64(s) - uint64(e)
	}
	k := uint64(nrows - 1)
	for i := uint64(1); i <= k; i++ {
		hi, lo := bits.Mul64(i, gap)
		step, _ := bits.Div64(hi, lo, k)
		v := uint64(s) + step
		if descending {
			v = uint64(s) - step
		}
		out[i] = time.Unix(0, int64(v)).UTC()
	}
	return out, nil
}

var (
	minInstant = time.Unix(0, math.MinInt64)
	maxInstant = time.Unix(0, math.MaxInt64)
)

// checkInstant rejects times that do not fit in int64 nanoseconds.
func checkInstant(t time.Time) error {
	if t.Before(minInstant) || t.After(maxInstant) {
		return fmt.Errorf("%w: %s is outside the nanosecond timestamp range", ErrInvalidRange, t.UTC().Format(time.RFC3339))
	}
	return nil
}

// timeRange resolves the defaults of a timestamp spec against now.
func timeRange(spec ColumnSpec, now time.Time) (time.Time, time.Time) {
	start, end := spec.Start, spec.End
	if start.IsZero() {
		start = time.Unix(0, 0).UTC()
	}
	if end.IsZero() {
		end = now
	}
	return start, end
}
