package mq

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestPool(size int) *Pool {
	p := &Pool{channels: make(chan *channelWrapper, size), size: size}
	for i := 0; i < size; i++ {
		p.channels <- &channelWrapper{}
	}
	return p
}

func TestAcquireAfterClose(t *testing.T) {
	p := newTestPool(2)
	p.Close()

	_, ok := p.Acquire()
	assert.False(t, ok)

	// 关闭后发布报错而不是panic
	err := p.PublishAsyncWithID(Exchange, KeyOrderCreated, []byte("{}"), "id-1")
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestReleaseAfterClose(t *testing.T) {
	p := newTestPool(1)
	cw, ok := p.Acquire()
	assert.True(t, ok)

	p.Close()

	// 在途通道在关闭后归还 就地丢弃 不得写入已关闭的池
	assert.NotPanics(t, func() { p.Release(cw) })
}

func TestCloseIdempotent(t *testing.T) {
	p := newTestPool(2)
	assert.NotPanics(t, func() {
		p.Close()
		p.Close()
	})
}

// 停机与发布竞争：Acquire/Release与Close并发交错不得panic
func TestCloseConcurrentWithAcquire(t *testing.T) {
	p := newTestPool(4)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				cw, ok := p.Acquire()
				if !ok {
					return
				}
				p.Release(cw)
			}
		}()
	}
	p.Close()
	wg.Wait()
}
