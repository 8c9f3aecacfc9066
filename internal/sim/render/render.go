package render

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/holoscene/simgate/internal/sim"
)

// LitPNG produces the lit view of one camera as an encoded PNG. The
// scene content is synthetic: a gradient keyed on the camera pose so
// that moving or rotating the camera changes the capture.
func LitPNG(cam sim.Camera) ([]byte, error) {
	w, h := int(cam.FilmW), int(cam.FilmH)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("render: invalid film size %dx%d", w, h)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	phase := cam.Rotation.Y + cam.Location.X + cam.Location.Y
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			fx := float64(x) / float64(w)
			fy := float64(y) / float64(h)
			r := uint8(255 * fx)
			g := uint8(255 * fy)
			b := uint8(127 + 127*math.Sin(phase/180*math.Pi+fx*4))
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DepthNPY produces the depth view of one camera as a float32 NPY
// array of shape (height, width). Depth values grow radially from the
// image center, offset by the camera height.
func DepthNPY(cam sim.Camera) ([]byte, error) {
	w, h := int(cam.FilmW), int(cam.FilmH)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("render: invalid film size %dx%d", w, h)
	}
	data := make([]float32, w*h)
	cx, cy := float64(w)/2, float64(h)/2
	base := 100 + cam.Location.Z
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			data[y*w+x] = float32(base + math.Sqrt(dx*dx+dy*dy))
		}
	}
	return EncodeNPYFloat32(data, h, w)
}

// EncodeNPYFloat32 writes a v1.0 NPY file holding a little-endian
// float32 array of shape (rows, cols).
func EncodeNPYFloat32(data []float32, rows, cols int) ([]byte, error) {
	if rows*cols != len(data) {
		return nil, fmt.Errorf("render: shape (%d, %d) does not cover %d values", rows, cols, len(data))
	}
	header := fmt.Sprintf("{'descr': '<f4', 'fortran_order': False, 'shape': (%d, %d), }", rows, cols)
	// Total header length (magic + version + length field + text) must
	// be a multiple of 64, padded with spaces, newline-terminated.
	pre := 6 + 2 + 2
	total := pre + len(header) + 1
	if pad := total % 64; pad != 0 {
		header += string(bytes.Repeat([]byte{' '}, 64-pad))
	}
	header += "\n"

	var buf bytes.Buffer
	buf.Grow(pre + len(header) + 4*len(data))
	buf.WriteString("\x93NUMPY")
	buf.WriteByte(1)
	buf.WriteByte(0)
	var hlen [2]byte
	binary.LittleEndian.PutUint16(hlen[:], uint16(len(header)))
	buf.Write(hlen[:])
	buf.WriteString(header)
	for _, v := range data {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
		buf.Write(b[:])
	}
	return buf.Bytes(), nil
}
