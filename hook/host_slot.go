package hook

import (
	"github.com/ledgerhooks/hookexec/hookapi"
	"github.com/ledgerhooks/hookexec/ledger"
	"github.com/ledgerhooks/hookexec/sto"
)

// SlotSet materialises the ledger object identified by the 32-byte
// hash in the read region into a numbered slot. A non-zero slot id
// replaces any prior occupant; zero takes the oldest reclaimed id, else
// the next counter value. An id handed out this way is not checked
// against slots that were set by explicit id.
// Returns the slot id.
func (c *Context) SlotSet(m Memory, readPtr, readLen, slotType uint32, slot int32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	if slot < 0 || slot > hookapi.MaxSlots {
		return hookapi.InvalidArgument
	}
	b, errc := memRead(m, readPtr, readLen)
	if errc != 0 {
		return errc
	}
	if len(b) != 32 {
		return hookapi.InvalidArgument
	}
	var key ledger.Hash256
	copy(key[:], b)

	k, ok := ledger.KeyletForSlotType(slotType, key)
	if !ok {
		return hookapi.InvalidArgument
	}
	obj, ok := c.applyCtx.Read(k)
	if !ok {
		return hookapi.DoesntExist
	}

	id := int(slot)
	if id == 0 {
		id = c.allocSlot()
		if id == 0 {
			return hookapi.NoFreeSlots
		}
	}
	c.slots[id] = &slotEntry{view: obj.Encode(), obj: obj, typ: slotType, key: key}
	return int64(id)
}

// SlotClear drops a slot and recycles its id.
func (c *Context) SlotClear(slot uint32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	id := int(slot)
	if _, ok := c.slots[id]; !ok {
		return hookapi.DoesntExist
	}
	delete(c.slots, id)
	c.slotFree = append(c.slotFree, id)
	return 1
}

// SlotField serialises one field of the slotted object into the write
// region in canonical binary form, header included.
func (c *Context) SlotField(m Memory, writePtr, writeLen, fieldID, slot uint32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	e, ok := c.slots[int(slot)]
	if !ok {
		return hookapi.DoesntExist
	}
	enc, ok := encodeField(e.obj, sto.FieldID(fieldID))
	if !ok {
		return hookapi.InvalidField
	}
	if errc := writeCheck(m, writePtr, writeLen, len(enc)); errc != 0 {
		return errc
	}
	return memWrite(m, writePtr, enc)
}

// SlotFieldTxt writes a human-readable rendering of the field.
func (c *Context) SlotFieldTxt(m Memory, writePtr, writeLen, fieldID, slot uint32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	e, ok := c.slots[int(slot)]
	if !ok {
		return hookapi.DoesntExist
	}
	txt, ok := fieldText(e.obj, sto.FieldID(fieldID))
	if !ok {
		return hookapi.InvalidField
	}
	if errc := writeCheck(m, writePtr, writeLen, len(txt)); errc != 0 {
		return errc
	}
	return memWrite(m, writePtr, []byte(txt))
}

// SlotID returns the low 64 bits of the slotted object's key, through
// the non-negative int64 rule.
func (c *Context) SlotID(slot uint32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	e, ok := c.slots[int(slot)]
	if !ok {
		return hookapi.DoesntExist
	}
	return hookapi.DataAsInt64(e.key[24:])
}

// SlotType returns the type tag the slot was set with.
func (c *Context) SlotType(slot uint32) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	e, ok := c.slots[int(slot)]
	if !ok {
		return hookapi.DoesntExist
	}
	return int64(e.typ)
}
