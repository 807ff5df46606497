package adapters

import (
	"io"

	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ChunkReceiver is the receiving half of a client stream of byte chunks.
type ChunkReceiver interface {
	Recv() (*wrapperspb.BytesValue, error)
}

// ChunkReader adapts a gRPC chunk stream to io.Reader. Message boundaries
// are not preserved; a chunk larger than the caller's buffer is served over
// several reads.
type ChunkReader struct {
	stream  ChunkReceiver
	pending []byte
	err     error
}

var _ io.Reader = (*ChunkReader)(nil)

func NewChunkReader(stream ChunkReceiver) *ChunkReader {
	return &ChunkReader{stream: stream}
}

func (r *ChunkReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for len(r.pending) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		msg, err := r.stream.Recv()
		if err != nil {
			// io.EOF from Recv marks a cleanly closed client stream.
			r.err = err
			return 0, err
		}
		r.pending = msg.GetValue()
	}

	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}
