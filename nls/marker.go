package nls

// marker is the per-coefficient state-marker table entry. NLS-SPIHT
// replaces SPIHT's three dynamic lists (LIP, LIS, LSP) with this single
// flat table, reinterpreted on every pass.
type marker uint8

const (
	nm  marker = iota // untouched
	mip               // insignificant pixel, to be tested on the next IP pass
	mnp               // newly significant this bitplane, not refined this plane
	msp               // significant, refined in subsequent planes
	mcp               // child-of-descendant-set marked for immediate test
	md                // first (lowest-index) child of a descendant set
	mg                // first grandchild of a granddescendant set

	// mn2..mn14: "tree-root at depth k" sentinels placed by push() below an
	// md marker. They are never tested directly; they only change the
	// stride a pass advances by.
	mn2
	mn3
	mn4
	mn5
	mn6
	mn7
	mn8
	mn9
	mn10
	mn11
	mn12
	mn13
	mn14
)

// skip returns the number of coefficients the IP and REF passes advance by
// when the current index carries m.
func skip(m marker) uint16 {
	switch m {
	case md, mn2:
		return 2
	case mg, mn3:
		return 4
	case mn4:
		return 8
	case mn5:
		return 16
	case mn6:
		return 32
	case mn7:
		return 64
	case mn8:
		return 128
	case mn9:
		return 256
	case mn10:
		return 512
	case mn11:
		return 1024
	case mn12:
		return 2048
	case mn13:
		return 4096
	case mn14:
		return 8192
	default: // nm, mip, mnp, mcp, msp
		return 1
	}
}

// isSkip returns the number of coefficients the IS pass advances by when
// the current index carries m.
func isSkip(m marker) uint16 {
	switch m {
	case md, mn2, mip, mnp, msp:
		return 2
	case mg, mn3:
		return 4
	case mn4:
		return 8
	case mn5:
		return 16
	case mn6:
		return 32
	case mn7:
		return 64
	case mn8:
		return 128
	case mn9:
		return 256
	case mn10:
		return 512
	case mn11:
		return 1024
	case mn12:
		return 2048
	case mn13:
		return 4096
	case mn14:
		return 8192
	default: // nm, mcp
		return 1
	}
}

// push walks i, 2i, 4i, ... and assigns each successive index the next
// mn* sentinel, stopping once the index would reach or exceed n.
func push(mk []marker, i uint16, n int) {
	j := uint32(i) << 1
	depth := mn2
	for int(j) < n {
		mk[j] = depth
		depth++
		j <<= 1
	}
}
