package hook

import (
	"github.com/ledgerhooks/hookexec/hookapi"
	"github.com/ledgerhooks/hookexec/sto"
)

// EtxnReserve declares the upper bound on emissions for this
// invocation. Settable exactly once; capped at 255.
func (c *Context) EtxnReserve(count uint32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	if c.expectedEtxnCount != -1 {
		return hookapi.AlreadySet
	}
	if count == 0 {
		return hookapi.TooSmall
	}
	if count > hookapi.MaxEmit {
		return hookapi.TooBig
	}
	c.expectedEtxnCount = int64(count)
	return int64(count)
}

// minEmitFee prices an emission of n template bytes:
// ceil(n * feeBase * 11/10), integer arithmetic throughout.
func (c *Context) minEmitFee(n int64) int64 {
	base := c.lazyFeeBase()
	return (hookapi.FeeMultNum*n*base + hookapi.FeeMultDenom - 1) / hookapi.FeeMultDenom
}

// EtxnFeeBase returns the minimum fee for a would-be emission of the
// given byte size.
func (c *Context) EtxnFeeBase(txByteCount uint32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	if c.expectedEtxnCount == -1 {
		return hookapi.PrerequisiteNotMet
	}
	return c.minEmitFee(int64(txByteCount))
}

// EtxnBurden returns the burden every emission from this invocation
// carries.
func (c *Context) EtxnBurden() int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	if c.expectedEtxnCount == -1 {
		return hookapi.PrerequisiteNotMet
	}
	return c.etxnBurden()
}

// EtxnGeneration returns the generation stamped on emissions: one past
// the triggering transaction's.
func (c *Context) EtxnGeneration() int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	return int64(c.lazyGeneration()) + 1
}

// buildEmitDetails assembles the emission-details object stamped onto
// every emitted transaction. Consumes one nonce.
func (c *Context) buildEmitDetails() (*sto.Object, int64) {
	nonce, ok := c.deriveNonce()
	if !ok {
		return nil, hookapi.TooManyNonces
	}
	parent := c.applyCtx.Tx().ID()
	ed := sto.NewObject()
	ed.SetUint(sto.FieldEmitGeneration, uint64(c.lazyGeneration())+1)
	ed.SetUint(sto.FieldEmitBurden, uint64(c.etxnBurden()))
	ed.SetBytes(sto.FieldEmitParentTxnID, parent[:])
	ed.SetBytes(sto.FieldEmitNonce, nonce[:])
	ed.SetBytes(sto.FieldEmitCallback, c.account[:])
	return ed, 0
}

// EtxnDetails writes the serialised emission details the guest embeds
// in templates it sizes by hand. Always EmitDetailsSize bytes.
func (c *Context) EtxnDetails(m Memory, writePtr, writeLen uint32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	if c.expectedEtxnCount == -1 {
		return hookapi.PrerequisiteNotMet
	}
	if errc := writeCheck(m, writePtr, writeLen, hookapi.EmitDetailsSize); errc != 0 {
		return errc
	}
	ed, errc := c.buildEmitDetails()
	if errc != 0 {
		return errc
	}
	wrap := sto.NewObject()
	wrap.SetObject(sto.FieldEmitDetails, ed)
	enc, _ := wrap.EncodeField(sto.FieldEmitDetails)
	return memWrite(m, writePtr, enc)
}

// Emit parses the read region as a transaction template, stamps it
// with emission details, and queues it for attachment on accept.
func (c *Context) Emit(m Memory, readPtr, readLen uint32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	if c.expectedEtxnCount == -1 {
		return hookapi.PrerequisiteNotMet
	}
	if int64(len(c.emitted)) >= c.expectedEtxnCount {
		return hookapi.TooManyEmittedTxn
	}
	b, errc := memRead(m, readPtr, readLen)
	if errc != 0 {
		return errc
	}
	obj, err := sto.Decode(b)
	if err != nil {
		return hookapi.EmissionFailure
	}

	fee, ok := obj.Uint(sto.FieldFee)
	if !ok || fee > 1<<62 {
		return hookapi.EmissionFailure
	}
	if int64(fee) < c.minEmitFee(int64(readLen)) {
		return hookapi.EmissionFailure
	}
	ceiling := c.feeCeiling
	if ceiling == 0 {
		ceiling = int64(readLen) * hookapi.DropsPerByte
	}
	if int64(fee) > ceiling {
		return hookapi.FeeTooLarge
	}

	ed, errc := c.buildEmitDetails()
	if errc != 0 {
		return errc
	}
	obj.SetObject(sto.FieldEmitDetails, ed)

	tx, err := c.txFactory.FromBytes(obj.Encode())
	if err != nil {
		return hookapi.EmissionFailure
	}
	c.emitted = append(c.emitted, tx)
	id := tx.ID()
	c.log.Debug().
		Hex("etxn_id", id[:]).
		Int("queued", len(c.emitted)).
		Msg("emission queued")
	return int64(readLen)
}

// Nonce writes the next deterministic 256-bit nonce, derived from the
// hook account, the triggering transaction id and the nonce counter.
func (c *Context) Nonce(m Memory, writePtr, writeLen uint32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	if errc := writeCheck(m, writePtr, writeLen, 32); errc != 0 {
		return errc
	}
	n, ok := c.deriveNonce()
	if !ok {
		return hookapi.TooManyNonces
	}
	return memWrite(m, writePtr, n[:])
}
