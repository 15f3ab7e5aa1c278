// Package settings provides the injected key-value settings store the
// orchestrator reads credential tokens and the cached public IP from.
// The file-backed implementation wraps the notebook layer's settings JSON;
// it is never accessed as ambient global state.
package settings
