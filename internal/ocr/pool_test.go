package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPoolCreatesNoEnginesUpFront(t *testing.T) {
	p := NewPool(30, Options{})
	defer p.Close()

	// Every slot is still an empty placeholder before the first
	// recognition; construction must not touch Tesseract.
	assert.Equal(t, 30, cap(p.engines))
	assert.Len(t, p.engines, 30)
	for i := 0; i < 30; i++ {
		assert.Nil(t, <-p.engines)
	}
}

func TestNewPoolClampsSize(t *testing.T) {
	p := NewPool(0, Options{})
	defer p.Close()
	assert.Equal(t, 1, cap(p.engines))
}

func TestPoolCloseUnused(t *testing.T) {
	p := NewPool(4, Options{})
	assert.NoError(t, p.Close())
}
