package db

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/interview-feedback/internal/snapshot"
)

// variantColumns are the report variant payload columns, in snapshot.Variants order.
const variantColumns = "manual_report, full_report, ai_competency_report"

// encodeVariants marshals each report variant, leaving absent ones nil so
// they are stored as NULL.
func encodeVariants(snap *snapshot.Snapshot) ([3][]byte, error) {
	var out [3][]byte
	for i, v := range snapshot.Variants {
		rv := v.Get(snap)
		if rv == nil {
			continue
		}
		data, err := json.Marshal(rv)
		if err != nil {
			return out, fmt.Errorf("failed to marshal %s report: %w", v.Name, err)
		}
		out[i] = data
	}
	return out, nil
}

func decodeVariants(snap *snapshot.Snapshot, payloads [3][]byte) error {
	for i, v := range snapshot.Variants {
		if len(payloads[i]) == 0 {
			continue
		}
		var rv snapshot.ReportVariant
		if err := json.Unmarshal(payloads[i], &rv); err != nil {
			return fmt.Errorf("failed to unmarshal %s report: %w", v.Name, err)
		}
		v.Set(snap, &rv)
	}
	return nil
}
