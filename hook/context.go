package hook

import (
	"github.com/rs/zerolog"
	"github.com/tetratelabs/wazero/sys"

	"github.com/ledgerhooks/hookexec/hookapi"
	"github.com/ledgerhooks/hookexec/ledger"
	"github.com/ledgerhooks/hookexec/sto"
)

// slotEntry bundles a materialised ledger object with its serialised
// view and the type tag it was slotted under. Holding the object keeps
// the view valid until the slot is cleared or reassigned.
type slotEntry struct {
	view []byte
	obj  *sto.Object
	typ  uint32
	key  ledger.Hash256
}

// stateEntry is one row of the pending state map: a cache of reads and
// a staging area for writes. Dirty entries are flushed on accept.
type stateEntry struct {
	dirty bool
	value []byte
}

// Context is the mutable record of one hook invocation. It is created
// by the runner, threaded through every host call, and dropped after
// commit or discard. Host calls run single-threaded; nothing here is
// locked.
type Context struct {
	applyCtx  ledger.ApplyContext
	txFactory ledger.TxFactory

	account  ledger.AccountID
	hookHash ledger.Hash256

	accountKeylet  ledger.Keylet
	ownerDirKeylet ledger.Keylet
	hookKeylet     ledger.Keylet

	slots       map[int]*slotEntry
	slotCounter int
	slotFree    []int

	expectedEtxnCount int64

	nonceCounter int
	noncesUsed   map[ledger.Hash256]struct{}

	// lazily memoised derivations from the triggering transaction
	generation    uint32
	generationSet bool
	burden        int64
	burdenSet     bool
	feeBase       int64
	feeBaseSet    bool

	guardMap map[uint32]uint32

	emitted      []*ledger.Tx
	changedState map[ledger.Hash256]stateEntry

	exitType   hookapi.ExitType
	exitReason []byte
	exitCode   int64

	maxStateSize int
	feeCeiling   int64
	log          zerolog.Logger
}

func newContext(applyCtx ledger.ApplyContext, account ledger.AccountID, hookHash ledger.Hash256, cfg runnerConfig) *Context {
	return &Context{
		applyCtx:          applyCtx,
		txFactory:         cfg.txFactory,
		account:           account,
		hookHash:          hookHash,
		accountKeylet:     ledger.AccountKeylet(account),
		ownerDirKeylet:    ledger.OwnerDirKeylet(account),
		hookKeylet:        ledger.HookKeylet(account),
		slots:             make(map[int]*slotEntry),
		slotCounter:       1,
		expectedEtxnCount: -1,
		noncesUsed:        make(map[ledger.Hash256]struct{}),
		guardMap:          make(map[uint32]uint32),
		changedState:      make(map[ledger.Hash256]stateEntry),
		exitType:          hookapi.ExitUnset,
		exitCode:          -1,
		maxStateSize:      cfg.maxStateSize,
		feeCeiling:        cfg.feeCeiling,
		log:               cfg.log,
	}
}

// finished reports whether a terminal verdict has been set. A host
// call observed after that is a sandbox invariant violation.
func (c *Context) finished() bool { return c.exitType != hookapi.ExitUnset }

// unwind aborts guest execution. The exit code is a sentinel; the
// runner reads the verdict from the context, never from the VM error.
func (c *Context) unwind() {
	panic(sys.NewExitError(1))
}

// liveSlots counts occupied slot handles.
func (c *Context) liveSlots() int { return len(c.slots) }

// allocSlot hands out the next slot id: reclaimed ids first, then the
// monotone counter. Returns 0 when all 255 slots are occupied.
func (c *Context) allocSlot() int {
	if len(c.slots) >= hookapi.MaxSlots {
		return 0
	}
	if n := len(c.slotFree); n > 0 {
		id := c.slotFree[0]
		c.slotFree = c.slotFree[1:]
		return id
	}
	if c.slotCounter > hookapi.MaxSlots {
		return 0
	}
	id := c.slotCounter
	c.slotCounter++
	return id
}

// lazyFeeBase memoises the snapshot's fee base.
func (c *Context) lazyFeeBase() int64 {
	if !c.feeBaseSet {
		c.feeBase = c.applyCtx.FeeBase()
		c.feeBaseSet = true
	}
	return c.feeBase
}

// lazyGeneration memoises the triggering transaction's emission
// generation.
func (c *Context) lazyGeneration() uint32 {
	if !c.generationSet {
		c.generation = c.applyCtx.Tx().Generation()
		c.generationSet = true
	}
	return c.generation
}

// lazyBurden memoises the triggering transaction's burden.
func (c *Context) lazyBurden() int64 {
	if !c.burdenSet {
		c.burden = c.applyCtx.Tx().Burden()
		c.burdenSet = true
	}
	return c.burden
}

// etxnBurden is the burden stamped on every emission from this
// invocation: the triggering burden multiplied by the declared fan-out.
func (c *Context) etxnBurden() int64 {
	fanout := c.expectedEtxnCount
	if fanout < 1 {
		fanout = 1
	}
	return c.lazyBurden() * fanout
}

// deriveNonce produces the next deterministic nonce for this
// invocation and records it for the uniqueness audit. Returns false
// when the nonce budget is exhausted.
func (c *Context) deriveNonce() (ledger.Hash256, bool) {
	if c.nonceCounter >= hookapi.MaxNonce {
		return ledger.Hash256{}, false
	}
	otxnID := c.applyCtx.Tx().ID()
	counter := []byte{byte(c.nonceCounter >> 8), byte(c.nonceCounter)}
	n := ledger.SHA512Half([]byte("ETXN"), c.account[:], otxnID[:], counter)
	c.nonceCounter++
	c.noncesUsed[n] = struct{}{}
	return n, true
}

// stateRead resolves a state key for the hook's own account: pending
// writes first, then the ledger snapshot, caching what it finds.
func (c *Context) stateRead(key ledger.Hash256) ([]byte, bool) {
	if e, ok := c.changedState[key]; ok {
		if len(e.value) == 0 {
			return nil, !e.dirty // a staged empty write is a pending delete
		}
		return e.value, true
	}
	v, ok := c.applyCtx.GetState(c.account, key)
	if !ok {
		return nil, false
	}
	c.changedState[key] = stateEntry{value: v}
	return v, true
}
