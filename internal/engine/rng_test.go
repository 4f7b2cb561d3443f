package engine

import (
	"fmt"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloats(t *testing.T) {
	tests := []struct {
		name       string
		serverSeed string
		clientSeed string
		nonce      uint64
		cursor     uint64
		count      int
	}{
		{"basic float generation", "test_server_seed", "test_client_seed", 1, 0, 1},
		{"multiple floats", "test_server_seed", "test_client_seed", 1, 0, 8},
		{"cursor boundary", "test_server_seed", "test_client_seed", 1, 31, 2},
		{"several rounds", "test_server_seed", "test_client_seed", 9, 0, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			floats := Floats(tt.serverSeed, tt.clientSeed, tt.nonce, tt.cursor, tt.count)
			require.Len(t, floats, tt.count)

			for i, f := range floats {
				assert.GreaterOrEqual(t, f, 0.0, "float %d", i)
				assert.Less(t, f, 1.0, "float %d", i)
			}
		})
	}
}

func TestStreamMatchesFloats(t *testing.T) {
	seeds := Seeds{Server: "deterministic_test", Client: "client_test"}
	want := Floats(seeds.Server, seeds.Client, 42, 0, 20)

	stream := NewStream(seeds, 42)
	for i := range want {
		assert.Equal(t, want[i], stream.Float64(), "index %d", i)
	}
	assert.Equal(t, uint64(20), stream.Draws())
	assert.Equal(t, uint64(42), stream.Nonce())
}

func TestStreamsDifferByNonce(t *testing.T) {
	seeds := Seeds{Server: "s", Client: "c"}
	a := Floats(seeds.Server, seeds.Client, 1, 0, 4)
	b := Floats(seeds.Server, seeds.Client, 2, 0, 4)
	assert.NotEqual(t, a, b)
}

func TestConcurrentReproducibility(t *testing.T) {
	seeds := Seeds{Server: "test_server_seed_for_reproducibility", Client: "test_client_seed_for_reproducibility"}
	reference := Floats(seeds.Server, seeds.Client, 12345, 0, 16)

	const numGoroutines = 10
	var wg sync.WaitGroup
	results := make([][]float64, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			results[id] = Floats(seeds.Server, seeds.Client, 12345, 0, 16)
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		assert.Equal(t, reference, r, "goroutine %d", i)
	}
}

func TestGOMAXPROCSIndependence(t *testing.T) {
	original := runtime.GOMAXPROCS(0)
	defer runtime.GOMAXPROCS(original)

	reference := Floats("server", "client", 7, 0, 8)
	for _, procs := range []int{1, 2, runtime.NumCPU()} {
		t.Run(fmt.Sprintf("GOMAXPROCS=%d", procs), func(t *testing.T) {
			runtime.GOMAXPROCS(procs)
			assert.Equal(t, reference, Floats("server", "client", 7, 0, 8))
		})
	}
}

func TestSeeds(t *testing.T) {
	assert.ErrorIs(t, Seeds{}.Validate(), ErrEmptySeed)
	assert.ErrorIs(t, Seeds{Server: "a", Client: " "}.Validate(), ErrEmptySeed)
	assert.NoError(t, Seeds{Server: "a", Client: "b"}.Validate())

	random := Seeds{}.OrRandom()
	assert.NoError(t, random.Validate())
	assert.NotEqual(t, random, Seeds{}.OrRandom())

	fixed := Seeds{Server: "x", Client: "y"}
	assert.Equal(t, fixed, fixed.OrRandom())
}

func BenchmarkStream(b *testing.B) {
	stream := NewStream(Seeds{Server: "benchmark_server_seed", Client: "benchmark_client_seed"}, 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		stream.Float64()
	}
}
