package platform

import (
	"os"
	"sync"
	"syscall"
)

// MockPlatform writes through to the real filesystem but can inject
// failures at create, write or close time.
type MockPlatform struct {
	*BasePlatform

	// Mock behavior flags
	ShouldFailCreate bool
	ShouldFailClose  bool
	// FailWriteAfter makes writes fail once this many bytes have been
	// written to a single file. Negative disables it.
	FailWriteAfter int64

	mu          sync.Mutex
	CreateCalls []string
	ClosedFiles []string
}

var _ Platform = (*MockPlatform)(nil)

// NewMockPlatform creates a new mock platform for testing
func NewMockPlatform() *MockPlatform {
	return &MockPlatform{
		BasePlatform:   NewBasePlatform(),
		FailWriteAfter: -1,
		CreateCalls:    make([]string, 0),
		ClosedFiles:    make([]string, 0),
	}
}

func (mp *MockPlatform) Create(name string) (File, error) {
	mp.mu.Lock()
	mp.CreateCalls = append(mp.CreateCalls, name)
	mp.mu.Unlock()

	if mp.ShouldFailCreate {
		return nil, NewPlatformError("mock", "create", os.ErrPermission)
	}

	f, err := mp.BasePlatform.Create(name)
	if err != nil {
		return nil, err
	}

	return &mockFile{File: f, mp: mp, limit: mp.FailWriteAfter}, nil
}

// Reset clears all call tracking
func (mp *MockPlatform) Reset() {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.CreateCalls = mp.CreateCalls[:0]
	mp.ClosedFiles = mp.ClosedFiles[:0]
	mp.ShouldFailCreate = false
	mp.ShouldFailClose = false
	mp.FailWriteAfter = -1
}

// Closed reports whether a file created under name has been closed.
func (mp *MockPlatform) Closed(name string) bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	for _, n := range mp.ClosedFiles {
		if n == name {
			return true
		}
	}
	return false
}

type mockFile struct {
	File
	mp      *MockPlatform
	limit   int64
	written int64
}

func (f *mockFile) Write(p []byte) (int, error) {
	if f.limit >= 0 && f.written+int64(len(p)) > f.limit {
		allowed := int(f.limit - f.written)
		n, _ := f.File.Write(p[:allowed])
		f.written += int64(n)
		return n, NewPlatformError("mock", "write", syscall.ENOSPC)
	}

	n, err := f.File.Write(p)
	f.written += int64(n)
	return n, err
}

func (f *mockFile) Close() error {
	err := f.File.Close()

	f.mp.mu.Lock()
	f.mp.ClosedFiles = append(f.mp.ClosedFiles, f.File.Name())
	f.mp.mu.Unlock()

	if err != nil {
		return err
	}
	if f.mp.ShouldFailClose {
		return NewPlatformError("mock", "close", syscall.EIO)
	}
	return nil
}
