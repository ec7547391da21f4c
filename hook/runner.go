package hook

import (
	"context"

	"github.com/tetratelabs/wazero"

	"github.com/ledgerhooks/hookexec/hookapi"
	"github.com/ledgerhooks/hookexec/ledger"
	"github.com/ledgerhooks/hookexec/sto"
)

// Entry symbols a guest exports. The callback entry runs when a
// previously emitted transaction comes back to its emitting hook.
const (
	entryHook     = "hook"
	entryCallback = "cbak"
)

// Runner drives hook invocations end to end: gate, bind, execute,
// interpret the verdict, commit or discard.
type Runner struct {
	cfg    runnerConfig
	binder *binder
	comp   wazero.CompilationCache
}

// NewRunner builds a Runner. The zero-option form is consensus-safe:
// silent logger, 128-byte state cap, size-proportional fee ceiling.
func NewRunner(opts ...Option) *Runner {
	cfg := defaultRunnerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Runner{
		cfg:    cfg,
		binder: newBinder(cfg.moduleCacheSize),
		comp:   wazero.NewCompilationCache(),
	}
}

// Close releases the shared compilation cache. Runs in flight must
// finish first.
func (r *Runner) Close() error {
	return r.comp.Close(context.Background())
}

// hookOn reads the gate mask from the account's hook object. Absent
// hook objects leave every hookable type enabled.
func (r *Runner) hookOn(applyCtx ledger.ApplyContext, account ledger.AccountID) uint64 {
	obj, ok := applyCtx.Read(ledger.HookKeylet(account))
	if !ok {
		return 0
	}
	v, _ := obj.Uint(sto.FieldHookOn)
	return v
}

// Apply executes one hook invocation against the apply context.
//
// The verdict decides everything: ACCEPT commits the staged state diff
// and queues the emissions; ROLLBACK and WASM_ERROR discard both. The
// ledger outside the returned result is untouched unless Committed().
func (r *Runner) Apply(ctx context.Context, hookHash ledger.Hash256, bytecode []byte, applyCtx ledger.ApplyContext, account ledger.AccountID, callback bool) HookResult {
	res := HookResult{
		Account:        account,
		HookHash:       hookHash,
		AccountKeylet:  ledger.AccountKeylet(account),
		OwnerDirKeylet: ledger.OwnerDirKeylet(account),
		HookKeylet:     ledger.HookKeylet(account),
		ExitType:       hookapi.ExitUnset,
	}

	txType := applyCtx.Tx().Type()
	if !ledger.CanHook(txType, r.hookOn(applyCtx, account)) {
		res.Skipped = true
		r.cfg.metrics.observe(&res)
		return res
	}

	hctx := newContext(applyCtx, account, hookHash, r.cfg)
	hctx.log = r.cfg.log.With().
		Str("hook", hookHash.String()).
		Str("account", account.String()).
		Logger()

	if err := r.binder.validate(bytecode); err != nil {
		res.ExitType = hookapi.ExitWasmError
		res.ExitReason = []byte(err.Error())
		hctx.log.Debug().Err(err).Msg("bind rejected")
		r.cfg.metrics.observe(&res)
		return res
	}

	// Fresh runtime and env instance per invocation: guest-visible
	// state starts zeroed and the host closures die with the run.
	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter().
		WithCloseOnContextDone(true).
		WithMemoryLimitPages(guestMemoryPages).
		WithCompilationCache(r.comp))
	defer rt.Close(ctx)

	if err := bindEnv(ctx, rt, hctx); err != nil {
		res.ExitType = hookapi.ExitWasmError
		res.ExitReason = []byte(err.Error())
		r.cfg.metrics.observe(&res)
		return res
	}

	compiled, err := rt.CompileModule(ctx, bytecode)
	if err != nil {
		res.ExitType = hookapi.ExitWasmError
		res.ExitReason = []byte(err.Error())
		r.cfg.metrics.observe(&res)
		return res
	}
	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName("hook"))
	if err != nil {
		res.ExitType = hookapi.ExitWasmError
		res.ExitReason = []byte(err.Error())
		r.cfg.metrics.observe(&res)
		return res
	}

	entry := entryHook
	if callback {
		entry = entryCallback
	}
	fn := mod.ExportedFunction(entry)
	if fn == nil {
		res.ExitType = hookapi.ExitWasmError
		res.ExitReason = []byte("entry symbol " + entry + " not exported")
		r.cfg.metrics.observe(&res)
		return res
	}

	_, callErr := fn.Call(ctx, 0)

	// The context verdict is authoritative: accept/rollback and guard
	// violations unwind through the VM, so callErr is non-nil for
	// them too.
	switch hctx.exitType {
	case hookapi.ExitAccept:
		res.ExitType = hookapi.ExitAccept
		res.TER = commit(hctx)
		if res.TER.Success() {
			res.ChangedState = dirtyState(hctx)
			res.Emitted = append([]*ledger.Tx(nil), hctx.emitted...)
		} else {
			// commit failed after the fact: effects are gone and
			// the verdict flips
			res.ExitType = hookapi.ExitRollback
			res.ExitReason = []byte("commit rejected: " + res.TER.String())
		}
	case hookapi.ExitRollback, hookapi.ExitWasmError:
		res.ExitType = hctx.exitType
	default:
		if callErr != nil {
			res.ExitType = hookapi.ExitWasmError
			res.ExitReason = []byte(callErr.Error())
		} else {
			// ran to completion without accept or rollback
			res.ExitType = hookapi.ExitRollback
		}
	}
	if res.ExitReason == nil {
		res.ExitReason = hctx.exitReason
	}
	res.ExitCode = hctx.exitCode

	hctx.log.Debug().
		Str("verdict", res.ExitType.String()).
		Int64("exit_code", res.ExitCode).
		Int("emitted", len(res.Emitted)).
		Msg("hook finished")
	r.cfg.metrics.observe(&res)
	return res
}
