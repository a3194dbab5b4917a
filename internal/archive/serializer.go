package archive

import (
	"bytes"
	"encoding/json"
	"fmt"

	"chronicle/internal/domain"
)

// Serialization codecs are resolved through a function table so new formats
// register in one place. Unknown formats are rejected at call time.

type serializeFunc func(records []domain.AuditRecord) ([]byte, error)

type deserializeFunc func(payload []byte) ([]domain.AuditRecord, error)

var serializers = map[Format]serializeFunc{
	FormatJSON:  marshalArray,
	FormatJSONL: marshalLines,
}

var deserializers = map[Format]deserializeFunc{
	FormatJSON:  unmarshalArray,
	FormatJSONL: unmarshalLines,
}

// Serialize turns records into a byte payload in the given format. An empty
// record list is valid and produces a valid empty payload ("[]" for json,
// zero bytes for jsonl).
func Serialize(format Format, records []domain.AuditRecord) ([]byte, error) {
	fn, ok := serializers[format]
	if !ok {
		return nil, &UnsupportedFormatError{Format: format}
	}
	return fn(records)
}

// Deserialize recovers the record list from a serialized payload.
func Deserialize(format Format, payload []byte) ([]domain.AuditRecord, error) {
	fn, ok := deserializers[format]
	if !ok {
		return nil, &UnsupportedFormatError{Format: format}
	}
	return fn(payload)
}

func marshalArray(records []domain.AuditRecord) ([]byte, error) {
	if records == nil {
		records = []domain.AuditRecord{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("marshal records: %w", err)
	}
	return payload, nil
}

func unmarshalArray(payload []byte) ([]domain.AuditRecord, error) {
	var records []domain.AuditRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("unmarshal records: %w", err)
	}
	return records, nil
}

func marshalLines(records []domain.AuditRecord) ([]byte, error) {
	var buf bytes.Buffer
	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("marshal record %s: %w", record.ID, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func unmarshalLines(payload []byte) ([]domain.AuditRecord, error) {
	var records []domain.AuditRecord
	for _, line := range bytes.Split(payload, []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var record domain.AuditRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("unmarshal record line: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}
