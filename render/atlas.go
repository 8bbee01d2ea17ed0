package render

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/sketchbook/common"
)

// ImageAtlas is an Atlas backed by an ebiten image.
type ImageAtlas struct {
	img      *ebiten.Image
	disposed bool
}

func NewImageAtlas(img *ebiten.Image) (*ImageAtlas, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil atlas image", common.ErrInvalidArgument)
	}
	return &ImageAtlas{img: img}, nil
}

func (a *ImageAtlas) Size() (int, int) {
	if a == nil || a.img == nil {
		return 0, 0
	}
	b := a.img.Bounds()
	return b.Dx(), b.Dy()
}

func (a *ImageAtlas) Image() *ebiten.Image {
	if a == nil || a.disposed {
		return nil
	}
	return a.img
}

func (a *ImageAtlas) Dispose() {
	if a == nil || a.disposed {
		return
	}
	a.disposed = true
	if a.img != nil {
		a.img.Deallocate()
	}
}

func (a *ImageAtlas) Disposed() bool {
	return a == nil || a.disposed
}

// ImageLoader adapts an image opener (e.g. assets.LoadImage) to a cache Loader.
func ImageLoader(open func(path string) (*ebiten.Image, error)) Loader {
	return func(key string) (Atlas, error) {
		img, err := open(key)
		if err != nil {
			return nil, err
		}
		return NewImageAtlas(img)
	}
}
