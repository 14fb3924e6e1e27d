package images

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ContrastPercentage converts a multiplicative contrast factor (1 = unchanged,
// 0 = flat gray, 2 = twice the spread around mid gray) into the percentage
// expected by imaging.AdjustContrast.
func ContrastPercentage(factor float64) float64 {
	switch {
	case factor <= 0:
		return -100
	case factor <= 1:
		return (factor - 1) * 100
	default:
		return (1 - 1/factor) * 100
	}
}

// ContrastCache memoizes contrast-adjusted copies of a source image.
// Stepping contrast back and forth reuses earlier results.
type ContrastCache struct {
	src   image.Image
	cache *lru.Cache[float64, *image.NRGBA]
}

// NewContrastCache keeps up to size adjusted images.
func NewContrastCache(src image.Image, size int) (*ContrastCache, error) {
	if src == nil {
		return nil, fmt.Errorf("contrast cache: nil image")
	}
	if size < 1 {
		size = 1
	}
	c, err := lru.New[float64, *image.NRGBA](size)
	if err != nil {
		return nil, fmt.Errorf("contrast cache: %w", err)
	}
	return &ContrastCache{src: src, cache: c}, nil
}

// Get returns src adjusted by factor. Callers must not modify the result.
func (c *ContrastCache) Get(factor float64) *image.NRGBA {
	if math.IsNaN(factor) || factor < 0 {
		factor = 0
	}
	if img, ok := c.cache.Get(factor); ok {
		return img
	}
	var img *image.NRGBA
	if factor == 1 {
		img = imaging.Clone(c.src)
	} else {
		img = imaging.AdjustContrast(c.src, ContrastPercentage(factor))
	}
	c.cache.Add(factor, img)
	return img
}

// Len reports how many adjusted images are cached.
func (c *ContrastCache) Len() int { return c.cache.Len() }
