package state

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const stateAsking State = "awaiting_question"

func TestMemoryManager(t *testing.T) {
	m := NewMemoryManager()
	assert.Equal(t, StateIdle, m.GetState(10))
	assert.False(t, m.InProgress(10))

	m.SetState(10, stateAsking)
	assert.Equal(t, stateAsking, m.GetState(10))
	assert.True(t, m.HasState(10))
	assert.False(t, m.HasState(11))

	m.SetState(10, StateIdle)
	assert.False(t, m.InProgress(10))

	m.SetState(10, stateAsking)
	m.ClearState(10)
	assert.Equal(t, StateIdle, m.GetState(10))
}

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	k := NewKeyedMutex()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock(1)
			defer unlock()
			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
	assert.Zero(t, k.size())
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	k := NewKeyedMutex()
	unlockA := k.Lock(1)
	done := make(chan struct{})
	go func() {
		unlock := k.Lock(2)
		unlock()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different key blocked")
	}
	unlockA()
}
