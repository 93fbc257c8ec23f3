package chimp

// GroupState holds one group's worth of expanded flags and leading-zero
// classes, plus the cursors into them. It is owned by the scan state and
// handed to the DecompressionState FSM by reference on every call — the FSM
// never stores a back-pointer to it (spec §9 "Cyclic ownership").
type GroupState struct {
	flags        [SequenceSize + 1]uint8
	leadingZeros [SequenceSize + 1]uint8

	index            int // cursor into flags; 0 means "group not yet started"
	leadingZeroIndex int // cursor into leadingZeros

	maxFlagsToRead        int
	maxLeadingZerosToRead int
}

// Load unpacks groupSize flags and lzBlockSize leading-zero classes from the
// packed arrays, synthesizing the flags[0]=0 verbatim-store sentinel, and
// resets both cursors.
func (g *GroupState) Load(packedFlags, packedLeadingZeros []byte, groupSize, lzBlockSize int) {
	g.loadFlags(packedFlags, groupSize)
	g.loadLeadingZeros(packedLeadingZeros, lzBlockSize)
	g.index = 0
	g.leadingZeroIndex = 0
}

func (g *GroupState) loadFlags(packed []byte, groupSize int) {
	var fb FlagBuffer
	fb.SetBuffer(packed)

	g.flags[0] = 0 // first value of the group never needs a flag
	for i := 0; i < groupSize; i++ {
		g.flags[1+i] = fb.Extract()
	}
	g.maxFlagsToRead = groupSize
}

func (g *GroupState) loadLeadingZeros(packed []byte, n int) {
	var lzb LeadingZeroBuffer
	lzb.SetBuffer(packed)

	for i := 0; i < n; i++ {
		g.leadingZeros[i] = lzb.Extract()
	}
	g.maxLeadingZerosToRead = n
}

// Started reports whether any value of the current group has been
// consumed yet.
func (g *GroupState) Started() bool {
	return g.index > 0
}

// GetFlag returns flags[index] and post-increments index.
func (g *GroupState) GetFlag() uint8 {
	if g.index > g.maxFlagsToRead {
		panic("chimp: GroupState.GetFlag read past the flags loaded for this group")
	}

	f := g.flags[g.index]
	g.index++

	return f
}

// GetLeadingZero returns leading_zeros[leadingZeroIndex] without advancing
// the cursor; advancement is explicit via AdvanceLeadingZero.
func (g *GroupState) GetLeadingZero() uint8 {
	// The "+1" tolerance mirrors the encoder producing one trailing slot
	// that is never dereferenced when the last value of a group reuses a
	// class (spec §9 "One-past-the-end leading-zero slot").
	if g.leadingZeroIndex > g.maxLeadingZerosToRead {
		panic("chimp: GroupState.GetLeadingZero cursor past the one-past-the-end tolerance")
	}

	return g.leadingZeros[g.leadingZeroIndex]
}

// AdvanceLeadingZero post-increments the leading-zero cursor.
func (g *GroupState) AdvanceLeadingZero() {
	g.leadingZeroIndex++
}

// RemainingInGroup returns how many values are left before the group is
// exhausted, assuming the group is full-sized.
func (g *GroupState) RemainingInGroup() int {
	return SequenceSize - g.index
}
