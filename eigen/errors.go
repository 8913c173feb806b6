// SPDX-License-Identifier: MIT

package eigen

import "errors"

// ErrNotConverged is returned when Jacobi sweeps do not reach the tolerance.
var ErrNotConverged = errors.New("eigen: decomposition did not converge")

// ErrFactorize is returned when gonum reports a failed factorization.
var ErrFactorize = errors.New("eigen: factorization failed")
