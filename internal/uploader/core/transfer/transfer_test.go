package transfer

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_errors "fileupload/pkg/errors"
	"fileupload/pkg/platform"
)

func pattern(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestTransfer_RoundTrip(t *testing.T) {
	lengths := []int{0, 1, 2047, 2048, 2049, 3*2048 + 17, 1 << 20}

	for _, n := range lengths {
		dest := filepath.Join(t.TempDir(), "out.bin")
		data := pattern(n)

		err := New(platform.NewMockPlatform(), 0).Transfer(dest, bytes.NewReader(data))
		require.NoError(t, err, "length %d", n)

		got := readFile(t, dest)
		assert.Len(t, got, n)
		assert.True(t, bytes.Equal(data, got), "content mismatch for length %d", n)
	}
}

func TestTransfer_IndependentOfReaderChunking(t *testing.T) {
	data := pattern(3*2048 + 5)

	readers := map[string]func() io.Reader{
		"one byte":  func() io.Reader { return iotest.OneByteReader(bytes.NewReader(data)) },
		"half":      func() io.Reader { return iotest.HalfReader(bytes.NewReader(data)) },
		"data err":  func() io.Reader { return iotest.DataErrReader(bytes.NewReader(data)) },
		"full read": func() io.Reader { return bytes.NewReader(data) },
	}

	for name, mk := range readers {
		t.Run(name, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "out.bin")
			require.NoError(t, New(platform.NewMockPlatform(), 0).Transfer(dest, mk()))
			assert.True(t, bytes.Equal(data, readFile(t, dest)))
		})
	}
}

func TestTransfer_ChunkSizes(t *testing.T) {
	assert.Equal(t, DefaultChunkSize, New(platform.NewMockPlatform(), 0).ChunkSize())
	assert.Equal(t, DefaultChunkSize, New(platform.NewMockPlatform(), -5).ChunkSize())
	assert.Equal(t, 7, New(platform.NewMockPlatform(), 7).ChunkSize())

	data := pattern(100)
	dest := filepath.Join(t.TempDir(), "small-chunks.bin")
	require.NoError(t, New(platform.NewMockPlatform(), 7).Transfer(dest, bytes.NewReader(data)))
	assert.Equal(t, data, readFile(t, dest))
}

type countingReader struct {
	r     io.Reader
	sizes []int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.sizes = append(c.sizes, n)
	}
	return n, err
}

type recordingPlatform struct {
	*platform.MockPlatform
	writes []int
}

func (rp *recordingPlatform) Create(name string) (platform.File, error) {
	f, err := rp.MockPlatform.Create(name)
	if err != nil {
		return nil, err
	}
	return &recordingFile{File: f, rp: rp}, nil
}

type recordingFile struct {
	platform.File
	rp *recordingPlatform
}

func (f *recordingFile) Write(p []byte) (int, error) {
	f.rp.writes = append(f.rp.writes, len(p))
	return f.File.Write(p)
}

func TestTransfer_ReadsAndWritesInReferenceChunks(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB}, 5000)
	src := &countingReader{r: bytes.NewReader(data)}
	rp := &recordingPlatform{MockPlatform: platform.NewMockPlatform()}
	dest := filepath.Join(t.TempDir(), "ab.bin")

	require.NoError(t, New(rp, 0).Transfer(dest, src))

	assert.Equal(t, []int{2048, 2048, 904}, src.sizes)
	assert.Equal(t, []int{2048, 2048, 904}, rp.writes)
	assert.Equal(t, data, readFile(t, dest))
}

func TestTransfer_ReadFailureLeavesPartialFile(t *testing.T) {
	boom := errors.New("connection reset")
	data := pattern(4096)
	const n = 3000

	mp := platform.NewMockPlatform()
	dest := filepath.Join(t.TempDir(), "partial.bin")
	src := io.MultiReader(bytes.NewReader(data[:n]), iotest.ErrReader(boom))

	err := New(mp, 0).Transfer(dest, src)
	require.Error(t, err)

	var terr *TransferError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, OpRead, terr.Op)
	assert.Equal(t, dest, terr.Path)
	assert.Equal(t, int64(n), terr.Written)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, _errors.ErrTransferFailed)

	assert.Equal(t, data[:n], readFile(t, dest))
	assert.True(t, mp.Closed(dest))
}

func TestTransfer_TruncatesExistingFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "existing.bin")
	require.NoError(t, os.WriteFile(dest, pattern(10000), 0644))

	require.NoError(t, New(platform.NewMockPlatform(), 0).Transfer(dest, bytes.NewReader([]byte("short"))))

	assert.Equal(t, []byte("short"), readFile(t, dest))
}

func TestTransfer_CreateFailure(t *testing.T) {
	mp := platform.NewMockPlatform()
	mp.ShouldFailCreate = true
	dest := filepath.Join(t.TempDir(), "denied.bin")

	err := New(mp, 0).Transfer(dest, bytes.NewReader(pattern(10)))

	var terr *TransferError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, OpOpen, terr.Op)
	assert.Zero(t, terr.Written)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Equal(t, []string{dest}, mp.CreateCalls)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestTransfer_MissingDirectory(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "no", "such", "dir", "f.bin")

	err := New(platform.NewMockPlatform(), 0).Transfer(dest, bytes.NewReader(pattern(10)))

	var terr *TransferError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, OpOpen, terr.Op)
	assert.True(t, os.IsNotExist(errors.Unwrap(err)))
}

func TestTransfer_WriteFailure(t *testing.T) {
	mp := platform.NewMockPlatform()
	mp.FailWriteAfter = 100
	dest := filepath.Join(t.TempDir(), "full-disk.bin")
	data := pattern(5000)

	err := New(mp, 0).Transfer(dest, bytes.NewReader(data))

	var terr *TransferError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, OpWrite, terr.Op)
	assert.Equal(t, int64(100), terr.Written)
	assert.ErrorIs(t, err, syscall.ENOSPC)
	assert.Equal(t, data[:100], readFile(t, dest))
	assert.True(t, mp.Closed(dest))
}

func TestTransfer_CloseFailureIsReported(t *testing.T) {
	mp := platform.NewMockPlatform()
	mp.ShouldFailClose = true
	dest := filepath.Join(t.TempDir(), "close.bin")
	data := pattern(300)

	err := New(mp, 0).Transfer(dest, bytes.NewReader(data))

	var terr *TransferError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, OpClose, terr.Op)
	assert.Equal(t, int64(300), terr.Written)
	assert.ErrorIs(t, err, syscall.EIO)
	assert.Equal(t, data, readFile(t, dest))
}

type stalledReader struct{ calls int }

func (s *stalledReader) Read(p []byte) (int, error) {
	s.calls++
	return 0, nil
}

func TestTransfer_StalledReaderFails(t *testing.T) {
	src := &stalledReader{}
	dest := filepath.Join(t.TempDir(), "stalled.bin")

	err := New(platform.NewMockPlatform(), 0).Transfer(dest, src)

	assert.ErrorIs(t, err, io.ErrNoProgress)
	assert.Equal(t, maxEmptyReads, src.calls)
}

type hiccupReader struct {
	r       io.Reader
	pending bool
}

func (h *hiccupReader) Read(p []byte) (int, error) {
	h.pending = !h.pending
	if h.pending {
		return 0, nil
	}
	return h.r.Read(p)
}

func TestTransfer_RetriesEmptyReads(t *testing.T) {
	data := pattern(5000)
	dest := filepath.Join(t.TempDir(), "hiccup.bin")

	err := New(platform.NewMockPlatform(), 0).Transfer(dest, &hiccupReader{r: bytes.NewReader(data)})

	require.NoError(t, err)
	assert.Equal(t, data, readFile(t, dest))
}

func TestTransferError_Message(t *testing.T) {
	err := &TransferError{Op: OpWrite, Path: "/tmp/x", Written: 12, Err: syscall.ENOSPC}
	assert.Contains(t, err.Error(), "write /tmp/x after 12 bytes")
	assert.True(t, errors.Is(err, _errors.ErrTransferFailed))
	assert.False(t, errors.Is(err, _errors.ErrMissingFileName))
}
