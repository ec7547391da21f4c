// Package hookexec implements a sandboxed smart-contract runtime for
// ledger hooks: guest bytecode attached to an account runs in an
// isolated WASM module against a bounded host-API surface, and its
// proposed ledger effects are committed or discarded by its terminal
// verdict.
//
// # Overview
//
// Guests have zero ambient capabilities: no clock, no randomness
// beyond derived nonces, no network, no filesystem. Every capability
// is a numbered host call with deterministic semantics and
// deterministic resource bounds: 255 slots, 255 nonces, 255
// emissions, guest-inserted iteration guards.
//
// # Basic Usage
//
//	runner := hook.NewRunner()
//	res := runner.Apply(ctx, hookHash, bytecode, applyCtx, account, false)
//	if res.Committed() {
//	    // state diff applied, emissions queued
//	}
//
// # Packages
//
// [hookapi] fixes the ABI: return codes, import whitelist, limits.
// [sto] is the canonical serialised-object codec. [addr] converts
// checked addresses. [ledger] holds the data model and the
// ApplyContext collaborator contract. [hook] is the execution core:
// context, host functions, binder, runner, commit. cmd/hookexec
// validates and runs modules against an in-memory ledger.
package hookexec
