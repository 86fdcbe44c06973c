package middleware

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func storeSize() int {
	n := 0
	rateLimitStore.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

func clearStore() {
	rateLimitStore.Range(func(key, _ interface{}) bool {
		rateLimitStore.Delete(key)
		return true
	})
}

func TestEvictExpiredDropsStaleEntries(t *testing.T) {
	clearStore()

	window := 50 * time.Millisecond
	for i := 0; i < 1000; i++ {
		incrementMemory(fmt.Sprintf("rl:auth:10.0.%d.%d", i/256, i%256), window)
	}
	assert.Equal(t, 1000, storeSize())

	// Sweep with a clock past every window: the store must drain completely
	evictExpired(time.Now().Add(window + time.Second))
	assert.Equal(t, 0, storeSize())
}

func TestEvictExpiredKeepsLiveEntries(t *testing.T) {
	clearStore()

	incrementMemory("rl:auth:stale", 10*time.Millisecond)
	incrementMemory("rl:auth:live", time.Hour)

	evictExpired(time.Now().Add(time.Minute))
	assert.Equal(t, 1, storeSize())

	// The surviving entry keeps its count
	count, _ := incrementMemory("rl:auth:live", time.Hour)
	assert.Equal(t, 2, count)
}

func TestIncrementMemoryResetsAfterWindow(t *testing.T) {
	clearStore()

	count, _ := incrementMemory("rl:auth:reset", 10*time.Millisecond)
	assert.Equal(t, 1, count)
	count, _ = incrementMemory("rl:auth:reset", 10*time.Millisecond)
	assert.Equal(t, 2, count)

	time.Sleep(20 * time.Millisecond)
	count, _ = incrementMemory("rl:auth:reset", 10*time.Millisecond)
	assert.Equal(t, 1, count)
}
