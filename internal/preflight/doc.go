// Package preflight provides readiness checks for the shared exchange
// directories, external binaries, and the model runtime the worker
// depends on.
//
// These checks run in two contexts:
//   - The daemon runs RunAll at startup and logs every failing check.
//     The worker still starts, because a temporarily unreachable runtime
//     should not prevent the poll loop from coming up.
//   - The CLI "halbzeit doctor" command renders the same checks as a table
//     for interactive troubleshooting.
package preflight
