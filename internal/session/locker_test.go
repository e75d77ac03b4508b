package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocker_SerializesSameID(t *testing.T) {
	l := NewLocker()
	counter := 0
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("chat_1")
			defer unlock()
			v := counter
			v++
			counter = v
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Zero(t, l.size())
}

func TestLocker_IndependentIDs(t *testing.T) {
	l := NewLocker()
	unlockA := l.Lock("a")

	done := make(chan struct{})
	go func() {
		unlock := l.Lock("b")
		unlock()
		close(done)
	}()
	<-done

	assert.Equal(t, 1, l.size())
	unlockA()
	assert.Zero(t, l.size())
}
