package shop

import (
	"encoding/json"
	"fmt"
	"time"
)

// Snapshot is the persisted envelope for a collection value. Legacy
// snapshots were stored as a bare array/object without the envelope;
// DecodeSnapshot accepts both, EncodeSnapshot always writes the envelope.
type Snapshot struct {
	Data         json.RawMessage `json:"data"`
	Timestamp    int64           `json:"_timestamp"`
	LastModified string          `json:"_lastModified"`
}

// EncodeSnapshot wraps value in the snapshot envelope, stamped with the
// given revision and modification time.
func EncodeSnapshot(value any, revision int64, modified time.Time) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshaling snapshot data: %w", err)
	}
	return json.Marshal(Snapshot{
		Data:         data,
		Timestamp:    revision,
		LastModified: modified.UTC().Format(time.RFC3339),
	})
}

// DecodeSnapshot unmarshals a persisted snapshot into out and returns
// the stored revision stamp. Legacy bare payloads decode with a zero
// revision.
func DecodeSnapshot(raw []byte, out any) (int64, error) {
	var s Snapshot
	if err := json.Unmarshal(raw, &s); err == nil && s.Data != nil {
		if err := json.Unmarshal(s.Data, out); err != nil {
			return 0, fmt.Errorf("unmarshaling snapshot data: %w", err)
		}
		return s.Timestamp, nil
	}
	// Legacy format: the payload is the value itself.
	if err := json.Unmarshal(raw, out); err != nil {
		return 0, fmt.Errorf("unmarshaling legacy snapshot: %w", err)
	}
	return 0, nil
}

// RestampSnapshot rewrites the revision stamp of an encoded snapshot
// without touching its data. Used when an update is applied so the
// cached payload matches the adopted revision. Legacy payloads are
// upgraded to the envelope format.
func RestampSnapshot(raw []byte, revision int64, modified time.Time) ([]byte, error) {
	var s Snapshot
	if err := json.Unmarshal(raw, &s); err != nil || s.Data == nil {
		s = Snapshot{Data: json.RawMessage(raw)}
		if !json.Valid(raw) {
			return nil, fmt.Errorf("restamping snapshot: payload is not valid JSON")
		}
	}
	s.Timestamp = revision
	s.LastModified = modified.UTC().Format(time.RFC3339)
	return json.Marshal(s)
}
