package ids

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDGenerator_ProducesDistinctValidTokens(t *testing.T) {
	gen := NewUUIDGenerator()
	seen := make(map[string]struct{})

	for i := 0; i < 1000; i++ {
		token := gen.Next()
		_, err := uuid.Parse(token)
		require.NoError(t, err)
		_, dup := seen[token]
		require.False(t, dup, "duplicate token %s", token)
		seen[token] = struct{}{}
	}
}

func TestSequenceGenerator_Next(t *testing.T) {
	gen := NewSequenceGenerator("")
	assert.Equal(t, "1", gen.Next())
	assert.Equal(t, "2", gen.Next())

	prefixed := NewSequenceGenerator("upload")
	assert.Equal(t, "upload-1", prefixed.Next())

	gen.Reset()
	assert.Equal(t, "1", gen.Next())
}

func TestSequenceGenerator_ConcurrentCallsAreUnique(t *testing.T) {
	gen := NewSequenceGenerator("c")
	const workers, perWorker = 8, 250

	var mu sync.Mutex
	seen := make(map[string]struct{})
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				token := gen.Next()
				mu.Lock()
				seen[token] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}

func TestNew(t *testing.T) {
	gen, err := New("", "")
	require.NoError(t, err)
	assert.IsType(t, &UUIDGenerator{}, gen)

	gen, err = New("Sequence", "x")
	require.NoError(t, err)
	assert.Equal(t, "x-1", gen.Next())

	_, err = New("snowflake", "")
	assert.Error(t, err)
}
