// Package preflight provides readiness checks for the binaries and
// filesystem paths an assembly run depends on.
//
// These checks run in two contexts:
//   - The assemble command calls RunAll before acquiring the staging lock.
//     If any check fails, the run aborts instead of dying mid-encode.
//   - The CLI "demobuilder deps" command displays the same binary checks
//     as a table for troubleshooting.
//
// Each check is gated by its config toggle -- disabled features are skipped.
package preflight
