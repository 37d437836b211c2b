package lazy

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOfReturnsExplicitValue(t *testing.T) {
	v := Of("kelvin")

	assert.True(t, v.Explicit(), "Of values are explicit")
	assert.Equal(t, "kelvin", v.Get(), "Get should return the supplied value")
}

func TestDeferredComputesOnFirstGet(t *testing.T) {
	calls := 0
	v := Deferred(func() int {
		calls++
		return 42
	})

	assert.False(t, v.Explicit(), "Deferred values are not explicit")
	assert.Equal(t, 0, calls, "compute should not run before Get")
	assert.Equal(t, 42, v.Get(), "Get should return the computed value")
	assert.Equal(t, 42, v.Get(), "repeated Get should return the cached value")
	assert.Equal(t, 1, calls, "compute should run exactly once")
}

func TestZeroValueYieldsZero(t *testing.T) {
	var v Value[int]

	assert.Equal(t, 0, v.Get(), "zero Value should yield the zero result")
	assert.False(t, v.Explicit(), "zero Value is not explicit")
}

func TestConcurrentGetComputesOnce(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	v := Deferred(func() string {
		mu.Lock()
		calls++
		mu.Unlock()
		return "once"
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "once", v.Get())
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, calls, "concurrent Gets should share one computation")
}
