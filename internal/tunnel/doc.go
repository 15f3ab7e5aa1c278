// Package tunnel races independent reverse-tunnel providers against each
// other to expose a local port on a public URL. Each provider is an external
// client program described by a data-driven config (command template plus a
// success-detection regex); probes run concurrently, and the orchestrator
// always reports one result per attempted provider.
package tunnel
