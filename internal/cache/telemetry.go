package cache

import (
	"context"
	"fmt"
	"time"
)

// RecordTelemetry appends a write-only telemetry record for an agent
// invocation, keyed by timestamp. Callers treat failures as best-effort.
func (s *Store) RecordTelemetry(ctx context.Context, prompt, response string) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	key := "telemetry:" + timestamp

	err := s.client.HSet(ctx, key, map[string]any{
		"prompt":    prompt,
		"response":  response,
		"timestamp": timestamp,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to record telemetry: %w", err)
	}

	return nil
}
