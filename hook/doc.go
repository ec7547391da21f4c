// Package hook implements the sandboxed hook execution core: the
// per-invocation execution context, the host-function surface guests
// call against, the module binder that instantiates guest bytecode
// with the whitelisted "env" imports, the runner driving one
// invocation to a terminal verdict, and the commit protocol applying
// accepted effects to the ledger.
//
// # Lifecycle
//
//	runner := hook.NewRunner()
//	res := runner.Apply(ctx, hookHash, bytecode, applyCtx, account, false)
//	switch res.ExitType {
//	case hookapi.ExitAccept:   // staged writes committed, emissions queued
//	case hookapi.ExitRollback: // effects discarded, exit code/reason reported
//	case hookapi.ExitWasmError: // trap, bind failure or guard violation
//	}
//
// A fresh VM instance and a fresh Context back every invocation, so
// guest-visible state starts zeroed and nothing leaks between runs.
// Resource bounds are deterministic: 255 slots, 255 nonces, 255
// emissions, and guest-inserted iteration guards.
package hook
