package image

import (
	"errors"
	"math"
	"testing"
)

func TestNewImageBuf(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		format  Format
		wantErr error
	}{
		{"valid RGBA8", 100, 100, FormatRGBA8, nil},
		{"valid Gray8", 50, 50, FormatGray8, nil},
		{"valid RGBAF32", 8, 8, FormatRGBAF32, nil},
		{"1x1 minimum", 1, 1, FormatRGBA8, nil},
		{"zero width", 0, 100, FormatRGBA8, ErrInvalidDimensions},
		{"zero height", 100, 0, FormatRGBA8, ErrInvalidDimensions},
		{"negative width", -1, 100, FormatRGBA8, ErrInvalidDimensions},
		{"invalid format", 100, 100, Format(255), ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := NewImageBuf(tt.width, tt.height, tt.format)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewImageBuf() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if buf.Width() != tt.width || buf.Height() != tt.height {
				t.Errorf("Bounds() = (%d, %d), want (%d, %d)", buf.Width(), buf.Height(), tt.width, tt.height)
			}
			if buf.Stride() != tt.format.RowBytes(tt.width) {
				t.Errorf("Stride() = %d, want %d", buf.Stride(), tt.format.RowBytes(tt.width))
			}
			if buf.ByteSize() != tt.format.ImageBytes(tt.width, tt.height) {
				t.Errorf("ByteSize() = %d, want %d", buf.ByteSize(), tt.format.ImageBytes(tt.width, tt.height))
			}
		})
	}
}

func TestFromRaw_PaddedStride(t *testing.T) {
	data := make([]byte, 64*9+40)
	buf, err := FromRaw(data, 10, 10, FormatRGBA8, 64)
	if err != nil {
		t.Fatalf("FromRaw() error = %v", err)
	}
	if buf.Stride() != 64 {
		t.Errorf("Stride() = %d, want 64", buf.Stride())
	}
	if got := buf.PixelOffset(1, 1); got != 68 {
		t.Errorf("PixelOffset(1, 1) = %d, want 68", got)
	}
}

func TestFromRaw(t *testing.T) {
	data := make([]byte, 2*2*4)
	data[4], data[5], data[6], data[7] = 10, 20, 30, 40

	buf, err := FromRaw(data, 2, 2, FormatRGBA8, 8)
	if err != nil {
		t.Fatalf("FromRaw() error = %v", err)
	}
	r, g, b, a := buf.GetRGBA(1, 0)
	if r != 10 || g != 20 || b != 30 || a != 40 {
		t.Errorf("GetRGBA(1, 0) = (%d,%d,%d,%d), want (10,20,30,40)", r, g, b, a)
	}

	// Shares memory with the caller.
	data[0] = 99
	if r, _, _, _ := buf.GetRGBA(0, 0); r != 99 {
		t.Errorf("FromRaw should not copy, got r=%d", r)
	}

	if _, err := FromRaw(data[:10], 2, 2, FormatRGBA8, 8); !errors.Is(err, ErrDataTooSmall) {
		t.Errorf("short data error = %v, want ErrDataTooSmall", err)
	}
	if _, err := FromRaw(data, 2, 2, FormatRGBA8, 4); !errors.Is(err, ErrInvalidStride) {
		t.Errorf("short stride error = %v, want ErrInvalidStride", err)
	}
}

func TestTexel_Formats(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		pixel  []byte
		want   [4]float64
	}{
		{"Gray8", FormatGray8, []byte{51}, [4]float64{0.2, 0.2, 0.2, 1}},
		{"Gray16", FormatGray16, []byte{0xff, 0xff}, [4]float64{1, 1, 1, 1}},
		{"RGB8 alpha reads 1", FormatRGB8, []byte{51, 102, 153}, [4]float64{0.2, 0.4, 0.6, 1}},
		{"RGBA8", FormatRGBA8, []byte{51, 102, 153, 0}, [4]float64{0.2, 0.4, 0.6, 0}},
		{"BGRA8 swizzled", FormatBGRA8, []byte{153, 102, 51, 255}, [4]float64{0.2, 0.4, 0.6, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := NewImageBuf(1, 1, tt.format)
			if err != nil {
				t.Fatalf("NewImageBuf() error = %v", err)
			}
			if err := buf.SetPixelBytes(0, 0, tt.pixel); err != nil {
				t.Fatalf("SetPixelBytes() error = %v", err)
			}
			if got := buf.Texel(0, 0); got != tt.want {
				t.Errorf("Texel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTexel_RGBAF32(t *testing.T) {
	buf, err := NewImageBuf(2, 1, FormatRGBAF32)
	if err != nil {
		t.Fatalf("NewImageBuf() error = %v", err)
	}

	want := [4]float64{0.5, 2.0, -1.0, 0.25}
	if err := buf.SetTexel(1, 0, want); err != nil {
		t.Fatalf("SetTexel() error = %v", err)
	}
	if got := buf.Texel(1, 0); got != want {
		t.Errorf("Texel() = %v, want %v (float formats are not clamped)", got, want)
	}
}

func TestTexel_OutOfBounds(t *testing.T) {
	buf, _ := NewImageBuf(2, 2, FormatRGBA8)
	buf.Fill([4]float64{1, 1, 1, 1})

	for _, p := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if got := buf.Texel(p[0], p[1]); got != ([4]float64{}) {
			t.Errorf("Texel(%d, %d) = %v, want zero", p[0], p[1], got)
		}
	}
	if err := buf.SetTexel(5, 5, [4]float64{}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("SetTexel out of bounds error = %v, want ErrOutOfBounds", err)
	}
}

func TestSetTexel_ClampsNormalized(t *testing.T) {
	buf, _ := NewImageBuf(1, 1, FormatRGBA8)
	_ = buf.SetTexel(0, 0, [4]float64{-0.5, 1.5, 0.5, 1})

	r, g, b, a := buf.GetRGBA(0, 0)
	if r != 0 || g != 255 || b != 128 || a != 255 {
		t.Errorf("GetRGBA() = (%d,%d,%d,%d), want (0,255,128,255)", r, g, b, a)
	}
}

func TestSetTexel_Gray(t *testing.T) {
	buf, _ := NewImageBuf(1, 1, FormatGray8)
	_ = buf.SetTexel(0, 0, [4]float64{1, 1, 1, 0})

	got := buf.Texel(0, 0)
	if math.Abs(got[0]-1) > 1e-12 || got[3] != 1 {
		t.Errorf("Texel() = %v, want white opaque", got)
	}
}

func TestSubImage(t *testing.T) {
	buf, _ := NewImageBuf(4, 4, FormatRGBA8)
	_ = buf.SetRGBA(2, 2, 200, 100, 50, 255)

	sub := buf.SubImage(1, 1, 2, 2)
	if sub == nil {
		t.Fatal("SubImage returned nil")
	}
	if sub.Width() != 2 || sub.Height() != 2 {
		t.Errorf("SubImage bounds = (%d, %d), want (2, 2)", sub.Width(), sub.Height())
	}
	if r, _, _, _ := sub.GetRGBA(1, 1); r != 200 {
		t.Errorf("sub.GetRGBA(1, 1).r = %d, want 200", r)
	}

	_ = sub.SetRGBA(0, 0, 7, 7, 7, 7)
	if r, _, _, _ := buf.GetRGBA(1, 1); r != 7 {
		t.Errorf("SubImage should share memory, got r=%d", r)
	}

	for _, args := range [][4]int{{-1, 0, 1, 1}, {0, 0, 0, 1}, {3, 3, 2, 2}} {
		if s := buf.SubImage(args[0], args[1], args[2], args[3]); s != nil {
			t.Errorf("SubImage(%v) = %v, want nil", args, s)
		}
	}
}

func TestClone(t *testing.T) {
	buf, _ := NewImageBuf(2, 2, FormatRGB8)
	_ = buf.SetRGBA(0, 0, 1, 2, 3, 255)

	c := buf.Clone()
	_ = buf.SetRGBA(0, 0, 9, 9, 9, 255)

	if r, g, b, _ := c.GetRGBA(0, 0); r != 1 || g != 2 || b != 3 {
		t.Errorf("Clone() = (%d,%d,%d), want (1,2,3)", r, g, b)
	}
}

func TestFormat_Info(t *testing.T) {
	tests := []struct {
		format     Format
		bpp        int
		alpha      bool
		normalized bool
		name       string
	}{
		{FormatGray8, 1, false, true, "Gray8"},
		{FormatGray16, 2, false, true, "Gray16"},
		{FormatRGB8, 3, false, true, "RGB8"},
		{FormatRGBA8, 4, true, true, "RGBA8"},
		{FormatBGRA8, 4, true, true, "BGRA8"},
		{FormatRGBAF32, 16, true, false, "RGBAF32"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.format.BytesPerPixel() != tt.bpp {
				t.Errorf("BytesPerPixel() = %d, want %d", tt.format.BytesPerPixel(), tt.bpp)
			}
			if tt.format.HasAlpha() != tt.alpha {
				t.Errorf("HasAlpha() = %v, want %v", tt.format.HasAlpha(), tt.alpha)
			}
			if tt.format.IsNormalized() != tt.normalized {
				t.Errorf("IsNormalized() = %v, want %v", tt.format.IsNormalized(), tt.normalized)
			}
			if tt.format.String() != tt.name {
				t.Errorf("String() = %q, want %q", tt.format.String(), tt.name)
			}
		})
	}

	if Format(200).IsValid() {
		t.Error("Format(200) should be invalid")
	}
	if Format(200).String() != "Unknown" {
		t.Errorf("Format(200).String() = %q, want Unknown", Format(200).String())
	}
}
