// Package logging provides zerolog construction helpers for the tunnel hub.
// Components receive a pre-tagged logger so that every line carries the
// component name, keeping concurrent subprocess output attributable.
package logging
