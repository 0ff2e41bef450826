package service

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressManager_NonInteractiveWriter(t *testing.T) {
	pm := NewProgressManager()
	var buf bytes.Buffer
	pm.SetWriter(&buf)

	assert.False(t, pm.IsInteractive())

	pm.Initialize(3)
	pm.SetDescription("Cross-comparing")
	pm.Start()
	pm.Update(1, 3)
	pm.Update(2, 3)
	pm.Complete(true)
	pm.Close()

	assert.Equal(t, 2, pm.Processed())
	assert.Empty(t, buf.String(), "no bar is drawn off a terminal")
}

func TestProgressManager_UpdateNeverMovesBackwards(t *testing.T) {
	pm := NewProgressManager()
	pm.SetWriter(&bytes.Buffer{})
	pm.Initialize(10)

	pm.Update(5, 10)
	pm.Update(3, 10)
	assert.Equal(t, 5, pm.Processed())

	pm.Initialize(10)
	assert.Equal(t, 0, pm.Processed())
}

func TestProgressManager_ConcurrentUpdate(t *testing.T) {
	pm := NewProgressManager()
	pm.SetWriter(&bytes.Buffer{})
	pm.Initialize(100)
	pm.Start()

	var wg sync.WaitGroup
	for i := 1; i <= 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pm.Update(i, 100)
		}()
	}
	wg.Wait()
	pm.Complete(true)

	assert.Equal(t, 100, pm.Processed())
}

func TestNoOpProgressManager(t *testing.T) {
	var pm NoOpProgressManager
	assert.NotPanics(t, func() {
		pm.Initialize(1)
		pm.Start()
		pm.Update(1, 1)
		pm.Complete(false)
		pm.Close()
	})
	assert.False(t, pm.IsInteractive())
}
