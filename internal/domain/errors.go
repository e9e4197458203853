// Package domain contains the mutation testing engine: generation,
// materialization, orchestration and verdict aggregation.
package domain

import "errors"

var (
	// ErrSpanMismatch means the source drifted between generation and
	// materialization; the recorded span no longer holds the original text.
	ErrSpanMismatch = errors.New("source span does not match generated mutant")

	// ErrDuplicateVerdict means a verdict was recorded twice for one mutant.
	ErrDuplicateVerdict = errors.New("verdict already recorded for mutant")

	// ErrWorkspace means the isolated workspace for a mutant could not be
	// created even after a retry.
	ErrWorkspace = errors.New("failed to create mutant workspace")
)
