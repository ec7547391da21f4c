// Package wasmgen emits minimal WebAssembly binaries: one entry
// function over a set of host imports, a fixed memory, an optional
// table, and data segments. Tests and tooling use it to synthesise
// guest fixtures without a toolchain.
package wasmgen

// ValType is a wasm value type byte.
type ValType byte

const (
	I32 ValType = 0x7f
	I64 ValType = 0x7e
)

// Import declares one imported function.
type Import struct {
	Module  string
	Name    string
	Params  []ValType
	Results []ValType
}

type segment struct {
	offset uint32
	data   []byte
}

// Builder assembles a module with a single exported entry function.
type Builder struct {
	imports []Import
	body    []byte
	data    []segment

	entryName string

	memMin, memMax uint32
	memHasMax      bool

	tableMin, tableMax    uint32
	hasTable, tableHasMax bool
}

// New returns a builder with the guest defaults: entry "hook" of type
// (i32)->i64, memory (1,1), table (10,20).
func New() *Builder {
	return &Builder{
		entryName:   "hook",
		memMin:      1,
		memMax:      1,
		memHasMax:   true,
		tableMin:    10,
		tableMax:    20,
		hasTable:    true,
		tableHasMax: true,
	}
}

// Entry overrides the exported entry symbol.
func (b *Builder) Entry(name string) *Builder {
	b.entryName = name
	return b
}

// Memory overrides the memory limits. hasMax false drops the maximum.
func (b *Builder) Memory(min, max uint32, hasMax bool) *Builder {
	b.memMin, b.memMax, b.memHasMax = min, max, hasMax
	return b
}

// Table overrides the table limits. NoTable removes the section.
func (b *Builder) Table(min, max uint32, hasMax bool) *Builder {
	b.tableMin, b.tableMax, b.hasTable, b.tableHasMax = min, max, true, hasMax
	return b
}

// NoTable drops the table section.
func (b *Builder) NoTable() *Builder {
	b.hasTable = false
	return b
}

// Import adds an "env" function import and returns its function index.
func (b *Builder) Import(name string, params, results []ValType) uint32 {
	return b.ImportFrom("env", name, params, results)
}

// ImportFrom adds an import under an explicit module name.
func (b *Builder) ImportFrom(module, name string, params, results []ValType) uint32 {
	b.imports = append(b.imports, Import{Module: module, Name: name, Params: params, Results: results})
	return uint32(len(b.imports) - 1)
}

// Body sets the entry function's instruction stream. The stream must
// leave one i64 on the stack; the final end opcode is appended by
// Build.
func (b *Builder) Body(code ...[]byte) *Builder {
	b.body = nil
	for _, c := range code {
		b.body = append(b.body, c...)
	}
	return b
}

// Data adds an active data segment at the given memory offset.
func (b *Builder) Data(offset uint32, data []byte) *Builder {
	b.data = append(b.data, segment{offset: offset, data: data})
	return b
}

// Instruction helpers.

// I32Const pushes a 32-bit constant.
func I32Const(v int32) []byte { return append([]byte{0x41}, sleb(int64(v))...) }

// I64Const pushes a 64-bit constant.
func I64Const(v int64) []byte { return append([]byte{0x42}, sleb(v)...) }

// Call invokes the function at idx.
func Call(idx uint32) []byte { return append([]byte{0x10}, uleb(uint64(idx))...) }

// Drop discards the top of stack.
func Drop() []byte { return []byte{0x1a} }

// Unreachable traps.
func Unreachable() []byte { return []byte{0x00} }

// Build assembles the binary.
func (b *Builder) Build() []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	// type section: dedupe signatures, entry type included
	type sigKey string
	key := func(params, results []ValType) sigKey {
		k := make([]byte, 0, len(params)+len(results)+1)
		for _, p := range params {
			k = append(k, byte(p))
		}
		k = append(k, 0)
		for _, r := range results {
			k = append(k, byte(r))
		}
		return sigKey(k)
	}
	var types [][2][]ValType
	index := make(map[sigKey]uint32)
	addType := func(params, results []ValType) uint32 {
		k := key(params, results)
		if i, ok := index[k]; ok {
			return i
		}
		i := uint32(len(types))
		types = append(types, [2][]ValType{params, results})
		index[k] = i
		return i
	}
	importTypes := make([]uint32, len(b.imports))
	for i, imp := range b.imports {
		importTypes[i] = addType(imp.Params, imp.Results)
	}
	entryType := addType([]ValType{I32}, []ValType{I64})

	var sec []byte
	sec = append(sec, uleb(uint64(len(types)))...)
	for _, t := range types {
		sec = append(sec, 0x60)
		sec = append(sec, uleb(uint64(len(t[0])))...)
		for _, p := range t[0] {
			sec = append(sec, byte(p))
		}
		sec = append(sec, uleb(uint64(len(t[1])))...)
		for _, r := range t[1] {
			sec = append(sec, byte(r))
		}
	}
	out = section(out, 1, sec)

	// import section
	if len(b.imports) > 0 {
		sec = sec[:0]
		sec = append(sec, uleb(uint64(len(b.imports)))...)
		for i, imp := range b.imports {
			sec = appendName(sec, imp.Module)
			sec = appendName(sec, imp.Name)
			sec = append(sec, 0x00)
			sec = append(sec, uleb(uint64(importTypes[i]))...)
		}
		out = section(out, 2, sec)
	}

	// function section: the entry function
	sec = sec[:0]
	sec = append(sec, uleb(1)...)
	sec = append(sec, uleb(uint64(entryType))...)
	out = section(out, 3, sec)

	// table section
	if b.hasTable {
		sec = sec[:0]
		sec = append(sec, uleb(1)...)
		sec = append(sec, 0x70) // funcref
		sec = appendLimits(sec, b.tableMin, b.tableMax, b.tableHasMax)
		out = section(out, 4, sec)
	}

	// memory section
	sec = sec[:0]
	sec = append(sec, uleb(1)...)
	sec = appendLimits(sec, b.memMin, b.memMax, b.memHasMax)
	out = section(out, 5, sec)

	// export section: memory plus the entry function
	entryIdx := uint64(len(b.imports))
	sec = sec[:0]
	sec = append(sec, uleb(2)...)
	sec = appendName(sec, "memory")
	sec = append(sec, 0x02, 0x00)
	sec = appendName(sec, b.entryName)
	sec = append(sec, 0x00)
	sec = append(sec, uleb(entryIdx)...)
	out = section(out, 7, sec)

	// code section
	body := append([]byte{0x00}, b.body...) // no locals
	body = append(body, 0x0b)
	sec = sec[:0]
	sec = append(sec, uleb(1)...)
	sec = append(sec, uleb(uint64(len(body)))...)
	sec = append(sec, body...)
	out = section(out, 10, sec)

	// data section
	if len(b.data) > 0 {
		sec = sec[:0]
		sec = append(sec, uleb(uint64(len(b.data)))...)
		for _, s := range b.data {
			sec = append(sec, 0x00) // active, memory 0
			sec = append(sec, I32Const(int32(s.offset))...)
			sec = append(sec, 0x0b)
			sec = append(sec, uleb(uint64(len(s.data)))...)
			sec = append(sec, s.data...)
		}
		out = section(out, 11, sec)
	}

	return out
}

func section(out []byte, id byte, content []byte) []byte {
	out = append(out, id)
	out = append(out, uleb(uint64(len(content)))...)
	return append(out, content...)
}

func appendName(dst []byte, s string) []byte {
	dst = append(dst, uleb(uint64(len(s)))...)
	return append(dst, s...)
}

func appendLimits(dst []byte, min, max uint32, hasMax bool) []byte {
	if hasMax {
		dst = append(dst, 0x01)
		dst = append(dst, uleb(uint64(min))...)
		return append(dst, uleb(uint64(max))...)
	}
	dst = append(dst, 0x00)
	return append(dst, uleb(uint64(min))...)
}

func uleb(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func sleb(v int64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}
