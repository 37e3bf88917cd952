package dataset

import (
	"errors"
	"fmt"
	"io"

	"github.com/bastiangx/freqset/internal/utils"
	"github.com/bastiangx/freqset/pkg/itemset"
	"github.com/bastiangx/freqset/pkg/store"
	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotVersion is the binary snapshot layout written by WriteSnapshot.
const SnapshotVersion = 1

// Snapshot is the msgpack encoding of a dataset.
type Snapshot struct {
	Version      int               `msgpack:"v"`
	Transactions [][]uint32        `msgpack:"t"`
	Labels       map[string]uint32 `msgpack:"l,omitempty"`
}

// NewSnapshot captures the transactions and labels of ds.
func NewSnapshot(ds *Dataset) *Snapshot {
	snap := &Snapshot{
		Version:      SnapshotVersion,
		Transactions: make([][]uint32, len(ds.Transactions)),
	}
	for i, tx := range ds.Transactions {
		row := make([]uint32, len(tx))
		for j, item := range tx {
			row[j] = uint32(item)
		}
		snap.Transactions[i] = row
	}
	if ds.Labels != nil && ds.Labels.Len() > 0 {
		snap.Labels = make(map[string]uint32, ds.Labels.Len())
		for _, e := range ds.Labels.Entries() {
			snap.Labels[e.Label] = uint32(e.Item)
		}
	}
	return snap
}

// WriteSnapshot encodes ds to w.
func WriteSnapshot(w io.Writer, ds *Dataset) error {
	if err := msgpack.NewEncoder(w).Encode(NewSnapshot(ds)); err != nil {
		return fmt.Errorf("dataset: encoding snapshot: %w", err)
	}
	return nil
}

// SaveSnapshot writes ds to a snapshot file at path.
func SaveSnapshot(path string, ds *Dataset) error {
	return utils.WriteFileAtomic(path, func(w io.Writer) error {
		return WriteSnapshot(w, ds)
	})
}

// ReadSnapshot decodes a snapshot. A snapshot that does not decode is
// rejected as a whole.
func ReadSnapshot(r io.Reader) (*Dataset, error) {
	var snap Snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
		return nil, &RecordError{Line: 1, Err: err}
	}
	if snap.Version != SnapshotVersion {
		return nil, &RecordError{Line: 1, Err: fmt.Errorf("unsupported snapshot version %d", snap.Version)}
	}

	ds := &Dataset{
		Transactions: make([]store.Transaction, len(snap.Transactions)),
		Labels:       NewLabels(),
		Format:       FormatMsgpack,
	}
	seen := make(map[itemset.Item]struct{})
	for i, row := range snap.Transactions {
		tx := make(store.Transaction, len(row))
		for j, v := range row {
			tx[j] = itemset.Item(v)
			seen[tx[j]] = struct{}{}
		}
		ds.Transactions[i] = tx
	}
	for label, item := range snap.Labels {
		ds.Labels.Assign(label, itemset.Item(item))
	}
	ds.Stats = LoadStats{
		Lines:   len(snap.Transactions),
		Records: len(snap.Transactions),
		Items:   len(seen),
	}
	return ds, nil
}
