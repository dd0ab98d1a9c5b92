package hal

import "sync"

// hostFramebuffer is double buffered. Tasks draw into back; Present copies
// it to front, which is what the window shows.
type hostFramebuffer struct {
	width  int
	height int
	back   []byte

	mu     sync.Mutex
	front  []byte
	frames uint64
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	n := width * height * 2
	return &hostFramebuffer{
		width:  width,
		height: height,
		back:   make([]byte, n),
		front:  make([]byte, n),
	}
}

func (f *hostFramebuffer) Width() int          { return f.width }
func (f *hostFramebuffer) Height() int         { return f.height }
func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *hostFramebuffer) StrideBytes() int    { return f.width * 2 }
func (f *hostFramebuffer) Buffer() []byte      { return f.back }

func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	p := rgb565(r, g, b)
	for i := 0; i+1 < len(f.back); i += 2 {
		f.back[i] = byte(p)
		f.back[i+1] = byte(p >> 8)
	}
}

func (f *hostFramebuffer) Present() error {
	f.mu.Lock()
	copy(f.front, f.back)
	f.frames++
	f.mu.Unlock()
	return nil
}

// presented expands the last presented frame into dst as RGBA when it is
// newer than seen, and returns its frame number.
func (f *hostFramebuffer) presented(dst []byte, seen uint64) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.frames != seen {
		expandRGB565(dst, f.front)
	}
	return f.frames
}
