// Package eigen computes the real spectrum of symmetric matrices.
//
// Two interchangeable solvers satisfy Solver:
//
//   - Jacobi – cyclic Jacobi rotations on a dense copy; self-contained,
//     accurate to machine precision, O(n³) per sweep.
//   - Gonum  – LAPACK-backed gonum mat.EigenSym; the default for large n.
//
// Both return eigenvalues sorted ascending, the form consumed by the unfolding
// and spacing packages.
package eigen
