package ir

// Register is the target register assigned to a node or variable by the
// regalloc package. It is embedded directly in Node and Variable headers
// (spec.md §3) rather than being looked up from a side table, mirroring
// hlsl_ir_node::reg / hlsl_ir_var::reg in the original source.
type Register struct {
	// Class is the one-letter register class this allocation belongs to
	// ('r' temp, 'c' constant, 'v' input semantic, 'o' output semantic,
	// 'b' constant buffer, 's' sampler, 't' texture), set by the
	// allocating regalloc pass. Zero means unset.
	Class byte
	// ID is the register index within its class.
	ID uint32
	// Writemask selects which of the register's 4 components this value
	// occupies; only meaningful for the single-register (writemask-based)
	// allocator. Bit i set means component i (.x=1, .y=2, .z=4, .w=8).
	Writemask uint8
	// Count is the number of consecutive 4-component registers this
	// value spans. 0 and 1 both mean "one register" (Writemask applies);
	// values > 1 mean a range allocation, in which case Writemask is
	// MaskAll and every register from ID to ID+Count-1 is reserved.
	Count uint32
	// Allocated reports whether ID/Writemask are meaningful yet.
	Allocated bool
}

// String renders a register the way debug_register in the original
// toolchain does: "c7.xyz" for a single register with a partial
// writemask, "r3-r5" for a range, bare "t0" when the writemask is full
// or absent.
func (r Register) String() string {
	if !r.Allocated {
		return "<unallocated>"
	}
	class := r.Class
	if class == 0 {
		class = 'r'
	}
	s := []byte{class}
	s = appendUintDecimal(s, uint64(r.ID))
	if r.Count > 1 {
		s = append(s, '-', class)
		s = appendUintDecimal(s, uint64(r.ID+r.Count-1))
		return string(s)
	}
	if r.Writemask != 0 && r.Writemask != MaskAll {
		s = append(s, '.')
		for i, c := range "xyzw" {
			if r.Writemask&(1<<uint(i)) != 0 {
				s = append(s, byte(c))
			}
		}
	}
	return string(s)
}

func appendUintDecimal(dst []byte, v uint64) []byte {
	if v == 0 {
		return append(dst, '0')
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return append(dst, buf[i:]...)
}

// Writemask bit constants.
const (
	MaskX uint8 = 1 << iota
	MaskY
	MaskZ
	MaskW
	MaskAll = MaskX | MaskY | MaskZ | MaskW
)

// PopCount returns the number of set bits in a writemask.
func PopCount(mask uint8) int {
	n := 0
	for mask != 0 {
		n += int(mask & 1)
		mask >>= 1
	}
	return n
}
