package hook

import "github.com/ledgerhooks/hookexec/hookapi"

// Accept sets the terminal ACCEPT verdict, stashing the guest's
// diagnostic payload, and unwinds the VM. It does not return to the
// guest.
func (c *Context) Accept(m Memory, readPtr, readLen uint32, errorCode int32) int64 {
	return c.terminate(m, readPtr, readLen, errorCode, hookapi.ExitAccept)
}

// Rollback sets the terminal ROLLBACK verdict and unwinds the VM.
func (c *Context) Rollback(m Memory, readPtr, readLen uint32, errorCode int32) int64 {
	return c.terminate(m, readPtr, readLen, errorCode, hookapi.ExitRollback)
}

func (c *Context) terminate(m Memory, readPtr, readLen uint32, errorCode int32, et hookapi.ExitType) int64 {
	if c.finished() {
		return hookapi.InternalError
	}
	reason, errc := memRead(m, readPtr, readLen)
	if errc != 0 {
		return errc
	}
	c.exitReason = append([]byte(nil), reason...)
	c.exitCode = int64(errorCode)
	c.exitType = et
	c.unwind()
	return 0 // unreachable
}

// Guard is the iteration guard _g: each call with the same id
// increments its counter; exceeding maxIter forces a WASM_ERROR
// verdict with GUARD_VIOLATION and unwinds. The guard lets static
// analysis bound total guest work.
func (c *Context) Guard(guardID, maxIter uint32) int32 {
	if c.finished() {
		return int32(hookapi.InternalError)
	}
	n := c.guardMap[guardID] + 1
	c.guardMap[guardID] = n
	if n > maxIter {
		c.log.Debug().
			Uint32("guard_id", guardID).
			Uint32("max_iter", maxIter).
			Msg("guard violation")
		c.exitType = hookapi.ExitWasmError
		c.exitCode = hookapi.GuardViolation
		c.exitReason = nil
		c.unwind()
	}
	return 1
}
