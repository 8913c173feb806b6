// SPDX-License-Identifier: MIT

package network

import "errors"

var (
	// ErrNotSquare indicates a flux matrix with differing row and column counts.
	ErrNotSquare = errors.New("network: matrix is not square")

	// ErrNegativeWeight indicates a negative flux or edge weight.
	ErrNegativeWeight = errors.New("network: negative weight")

	// ErrStepOutOfRange indicates a removal step below zero.
	ErrStepOutOfRange = errors.New("network: removal step out of range")
)
