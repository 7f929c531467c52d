package relay

// partBuffer accumulates variable-size HTTP read chunks into store-sized
// upload parts. It never drops data: a chunk that pushes the buffer past
// the part size stays in the same part, so parts may exceed the threshold
// but never fall below it except for the final part of a stream.
type partBuffer struct {
	data     []byte
	partSize int64
}

func newPartBuffer(partSize int64) *partBuffer {
	return &partBuffer{data: make([]byte, 0, partSize), partSize: partSize}
}

func (b *partBuffer) Append(p []byte) {
	b.data = append(b.data, p...)
}

func (b *partBuffer) Len() int {
	return len(b.data)
}

// ShouldFlush reports whether the buffer holds at least one full part.
func (b *partBuffer) ShouldFlush() bool {
	return int64(len(b.data)) >= b.partSize
}

// Take returns the buffered bytes and resets the buffer. The returned
// slice is owned by the caller.
func (b *partBuffer) Take() []byte {
	data := b.data
	b.data = make([]byte, 0, b.partSize)
	return data
}
