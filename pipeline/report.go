// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"encoding/json"
	"io"
)

// Reporter consumes the finalized snapshot of a run.
type Reporter interface {
	Report(ctx context.Context, s Snapshot) error
}

// JSONReporter writes the snapshot as indented JSON.
type JSONReporter struct {
	W io.Writer
}

// Report implements Reporter.
func (j JSONReporter) Report(_ context.Context, s Snapshot) error {
	enc := json.NewEncoder(j.W)
	enc.SetIndent("", "  ")

	return enc.Encode(s)
}

// Reporters fans a snapshot out to several reporters, stopping at the first error.
type Reporters []Reporter

// Report implements Reporter.
func (rs Reporters) Report(ctx context.Context, s Snapshot) error {
	for _, r := range rs {
		if err := r.Report(ctx, s); err != nil {
			return err
		}
	}

	return nil
}
