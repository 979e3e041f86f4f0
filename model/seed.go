package model

import (
	"encoding/csv"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrMalformedSeed is wrapped by every seed file parse failure
var ErrMalformedSeed = errors.New("malformed seed")

// NewRNG returns a deterministic PCG generator. A zero seed is replaced by
// the current time.
func NewRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// RandomGrid fills a rows x cols grid, each cell alive with probability
// density. A density of 0.5 is a uniform choice between dead and alive.
func RandomGrid(rows, cols int, density float64, rng *rand.Rand) *Grid {
	g := NewGrid(rows, cols)
	for i := range rows {
		for j := range cols {
			g.cells[i][j] = rng.Float64() < density
		}
	}
	return g
}

// LoadGridFile reads a seed grid from a comma-separated file of 0/1 values
func LoadGridFile(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "[LoadGridFile] failed to open seed file: %+v", path)
	}
	defer f.Close()

	g, err := LoadGrid(f)
	if err != nil {
		return nil, errors.Wrapf(err, "[LoadGridFile] %+v", path)
	}
	return g, nil
}

// LoadGrid parses comma-separated rows of 0/1 values. Lines starting with
// '#' and blank lines are skipped. The number of records becomes the row
// count and every record must have the same number of fields.
func LoadGrid(r io.Reader) (*Grid, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, errors.Wrapf(ErrMalformedSeed, "line %d, column %d: %v", parseErr.Line, parseErr.Column, parseErr.Err)
		}
		return nil, errors.Wrap(err, "[LoadGrid] failed to read seed")
	}
	if len(records) == 0 {
		return nil, errors.Wrap(ErrMalformedSeed, "no rows")
	}

	g := NewGrid(len(records), len(records[0]))
	for i, record := range records {
		for j, field := range record {
			v, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return nil, errors.Wrapf(ErrMalformedSeed, "row %d, column %d: %q is not a number", i+1, j+1, field)
			}
			if v != 0 && v != 1 {
				return nil, errors.Wrapf(ErrMalformedSeed, "row %d, column %d: cell value %d is not 0 or 1", i+1, j+1, v)
			}
			g.cells[i][j] = v == 1
		}
	}
	return g, nil
}
