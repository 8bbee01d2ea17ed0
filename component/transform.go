package component

// Transform is the pixel-space placement of one object. Y grows downwards.
// Z only drives render order.
type Transform struct {
	X      float64
	Y      float64
	Z      float64
	Width  float64
	Height float64
	FlipX  bool
	FlipY  bool

	disposed bool
}

func NewTransform(x, y, z, width, height float64, flipX, flipY bool) *Transform {
	return &Transform{X: x, Y: y, Z: z, Width: width, Height: height, FlipX: flipX, FlipY: flipY}
}

// Center returns the middle of the transform's box.
func (t *Transform) Center() (float64, float64) {
	return t.X + t.Width/2, t.Y + t.Height/2
}

func (t *Transform) Update(float64) {}
func (t *Transform) PostUpdate()    {}
func (t *Transform) Dispose()       { t.disposed = true }
func (t *Transform) Disposed() bool { return t.disposed }
