package store

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/zeebo/blake3"
)

// SchemaVersion is the snapshot layout written by this package. Snapshots
// with a higher version are refused rather than overwritten.
const SchemaVersion = 1

var errChecksum = errors.New("checksum mismatch")

// snapshot is the envelope persisted under each table key.
type snapshot struct {
	SchemaVersion int         `json:"schema_version"`
	Table         string      `json:"table"`
	Revision      uint64      `json:"revision"`
	Checksum      string      `json:"checksum"`
	Records       []rawRecord `json:"records"`
}

// Quarantined is a stored record, or a whole snapshot, that could not be
// decoded or validated. It is kept aside instead of failing the load.
type Quarantined struct {
	Table    string    `json:"table"`
	RecordID string    `json:"recordId,omitempty"`
	Reason   string    `json:"reason"`
	Raw      []byte    `json:"raw"`
	At       time.Time `json:"at"`
}

// checksum hashes the records with length prefixes so that record
// boundaries are part of the digest.
func checksum(records []rawRecord) string {
	h := blake3.New()
	var n [8]byte
	for _, r := range records {
		binary.BigEndian.PutUint64(n[:], uint64(len(r)))
		h.Write(n[:])
		h.Write(r)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// encodeSnapshot wraps records in an envelope at the given revision.
func encodeSnapshot(codec Codec, table string, revision uint64, records []rawRecord) ([]byte, error) {
	if records == nil {
		records = []rawRecord{}
	}
	return codec.Marshal(snapshot{
		SchemaVersion: SchemaVersion,
		Table:         table,
		Revision:      revision,
		Checksum:      checksum(records),
		Records:       records,
	})
}

// decodeSnapshot parses an envelope. A bare array of records, the format
// written by the browser client, decodes as a schema 0 snapshot at
// revision 0.
func decodeSnapshot(codec Codec, data []byte) (snapshot, error) {
	var snap snapshot
	envErr := codec.Unmarshal(data, &snap)
	if envErr != nil {
		var records []rawRecord
		if err := codec.Unmarshal(data, &records); err != nil {
			return snapshot{}, fmt.Errorf("decode %s snapshot: %w", codec.Name(), envErr)
		}
		return snapshot{Records: records}, nil
	}
	if snap.SchemaVersion > SchemaVersion {
		return snap, fmt.Errorf("table %q has schema %d, supported %d: %w",
			snap.Table, snap.SchemaVersion, SchemaVersion, ErrUnsupportedSchema)
	}
	if snap.SchemaVersion > 0 && snap.Checksum != checksum(snap.Records) {
		return snap, fmt.Errorf("table %q revision %d: %w", snap.Table, snap.Revision, errChecksum)
	}
	return snap, nil
}
