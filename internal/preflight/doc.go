// Package preflight provides readiness checks for the destination storage
// and the broadcast platform.
//
// These checks run in two contexts:
//   - The workflow manager calls RunAll before a run. If any check fails,
//     the run aborts before any export request is spent.
//   - The CLI "carillon status" command uses individual check functions
//     (CheckDirectoryAccess, CheckFreeSpace) to display health.
package preflight
