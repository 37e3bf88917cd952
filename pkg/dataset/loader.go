/*
Package dataset turns transaction sources into the transaction collection
consumed by a store.

Text sources hold one transaction per line. Blank lines and lines starting
with '#' are ignored. A line that cannot be parsed is a malformed record and
is either skipped or aborts the load, depending on Options.OnMalformed.
A source that cannot be opened or read always aborts the load: no partial
dataset is ever returned.
*/
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bastiangx/freqset/pkg/itemset"
	"github.com/bastiangx/freqset/pkg/store"
	"github.com/charmbracelet/log"
)

const maxLineSize = 16 * 1024 * 1024

// Options controls how a source is read.
type Options struct {
	// Format of the source; FormatUnknown detects it from the file.
	Format      Format
	OnMalformed MalformedPolicy
}

// LoadStats summarises a load.
type LoadStats struct {
	Lines   int
	Records int
	Skipped int
	Items   int
}

// Dataset is a loaded transaction collection.
type Dataset struct {
	Transactions []store.Transaction
	Labels       *Labels
	Format       Format
	Stats        LoadStats
}

// Store builds the transaction store of the dataset.
func (d *Dataset) Store() *store.Store {
	return store.New(d.Transactions)
}

// Load reads the transaction source at path.
func Load(path string, opts Options) (*Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	if opts.Format == FormatUnknown {
		format, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		opts.Format = format
		log.Debugf("Detected %s format for %s", format, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer file.Close()

	ds, err := Read(file, opts)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	log.Debugf("Loaded %d transactions from %s (%d skipped)", len(ds.Transactions), path, ds.Stats.Skipped)
	return ds, nil
}

// Read parses transactions from r. The format must be known.
func Read(r io.Reader, opts Options) (*Dataset, error) {
	switch opts.Format {
	case FormatMsgpack:
		return ReadSnapshot(r)
	case FormatTranscript, FormatBasket, FormatLabeled:
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, opts.Format)
	}

	ds := &Dataset{Labels: NewLabels(), Format: opts.Format}
	seen := make(map[itemset.Item]struct{})

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		ds.Stats.Lines++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		tx, err := parseRecord(line, opts.Format, ds.Labels)
		if err != nil {
			recErr := &RecordError{Line: ds.Stats.Lines, Text: line, Err: err}
			if opts.OnMalformed == FailOnMalformed {
				return nil, recErr
			}
			log.Warnf("Skipping record: %v", recErr)
			ds.Stats.Skipped++
			continue
		}

		for _, item := range tx {
			seen[item] = struct{}{}
		}
		ds.Transactions = append(ds.Transactions, tx)
		ds.Stats.Records++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	ds.Stats.Items = len(seen)
	return ds, nil
}

func parseRecord(line string, format Format, labels *Labels) (store.Transaction, error) {
	switch format {
	case FormatTranscript:
		return parseTranscript(line, labels)
	case FormatBasket:
		return parseBasket(line)
	case FormatLabeled:
		return parseLabeled(line, labels), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
}

// parseTranscript reads "year {month code name credit grade}*". The course
// codes are the items; course names become their labels once the whole
// record has parsed.
func parseTranscript(line string, labels *Labels) (store.Transaction, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, errors.New("empty record")
	}
	if _, err := strconv.Atoi(fields[0]); err != nil {
		return nil, fmt.Errorf("invalid starting year %q", fields[0])
	}
	if (len(fields)-1)%5 != 0 {
		return nil, fmt.Errorf("expected groups of 5 course fields, got %d fields", len(fields)-1)
	}

	tx := make(store.Transaction, 0, (len(fields)-1)/5)
	names := make([]string, 0, cap(tx))
	for i := 1; i+4 < len(fields); i += 5 {
		if _, err := strconv.Atoi(strings.ReplaceAll(fields[i], "-", "")); err != nil {
			return nil, fmt.Errorf("invalid starting month %q", fields[i])
		}
		code, err := strconv.ParseUint(fields[i+1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid course code %q", fields[i+1])
		}
		if _, err := strconv.ParseFloat(fields[i+3], 64); err != nil {
			return nil, fmt.Errorf("invalid credit points %q", fields[i+3])
		}
		if _, err := strconv.Atoi(fields[i+4]); err != nil {
			return nil, fmt.Errorf("invalid grade %q", fields[i+4])
		}
		tx = append(tx, itemset.Item(code))
		names = append(names, fields[i+2])
	}
	for i, name := range names {
		labels.Assign(name, tx[i])
	}
	return tx, nil
}

func splitItems(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ',' || r == ';'
	})
}

// parseBasket reads integer items separated by spaces, tabs, commas or semicolons.
func parseBasket(line string) (store.Transaction, error) {
	tokens := splitItems(line)
	tx := make(store.Transaction, 0, len(tokens))
	for _, tok := range tokens {
		v, err := strconv.ParseUint(tok, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid item %q", tok)
		}
		tx = append(tx, itemset.Item(v))
	}
	return tx, nil
}

// parseLabeled interns every token. Comma separated lines keep inner spaces.
func parseLabeled(line string, labels *Labels) store.Transaction {
	var tokens []string
	if strings.Contains(line, ",") {
		for _, tok := range strings.Split(line, ",") {
			if tok = strings.TrimSpace(tok); tok != "" {
				tokens = append(tokens, tok)
			}
		}
	} else {
		tokens = strings.Fields(line)
	}

	tx := make(store.Transaction, 0, len(tokens))
	for _, tok := range tokens {
		tx = append(tx, labels.Intern(tok))
	}
	return tx
}
