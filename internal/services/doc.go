// Package services defines shared utilities consumed by the pipeline stages
// and the external tool clients.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and attachment names
//     onto contexts so structured logs stay correlated.
//   - A sentinel error taxonomy plus Wrap, which builds stage-qualified
//     diagnostics without leaking tool output to chat users.
package services
