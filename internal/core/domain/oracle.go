package domain

import "time"

// OracleRemote is the watermark key of the Pythia oracle.
const OracleRemote = "pythia"

// OracleSnapshot is the result of one oracle synchronisation.
type OracleSnapshot struct {
	// LastUpdate is the remote catalog's last modification time.
	LastUpdate time.Time

	// PendingCount is the number of remote changes still to pull.
	PendingCount int64

	// Pulled are the records received and consumed by the sync.
	Pulled []FrameworkRecord
}

// Watermark records how far the local catalog has consumed a remote delta.
// It only moves after every record of a pull has been stored.
type Watermark struct {
	Remote string

	// LastUpdate is the remote last-update time the delta was pulled up to.
	LastUpdate time.Time

	// SyncedAt is when the delta was consumed locally.
	SyncedAt time.Time

	// Records is the size of the consumed delta.
	Records int
}

// Since returns the lower bound for the next pull. The zero time asks for
// the whole remote catalog.
func (w *Watermark) Since() time.Time {
	if w == nil {
		return time.Time{}
	}
	return w.LastUpdate
}
