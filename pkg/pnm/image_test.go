package pnm

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	img, err := New(BinaryRgb, 3, 2, 255)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer img.Close()

	if img.Variant() != BinaryRgb {
		t.Errorf("Variant: got %v, want BinaryRgb", img.Variant())
	}
	if img.Width() != 3 || img.Height() != 2 || img.Maxval() != 255 {
		t.Errorf("dimensions: got %dx%d/%d, want 3x2/255", img.Width(), img.Height(), img.Maxval())
	}
	if len(img.Pixels()) != 6 {
		t.Fatalf("buffer length: got %d, want 6", len(img.Pixels()))
	}
	for i, p := range img.Pixels() {
		if p != (Pixel{}) {
			t.Errorf("pixel %d: got %v, want zero", i, p)
		}
	}
}

func TestNew_Bounds(t *testing.T) {
	tests := []struct {
		name                  string
		width, height, maxval int
		wantErr               bool
	}{
		{"all minimum", 1, 1, 1, false},
		{"maximum maxval", 1, 1, 65535, false},
		{"maximum width", 65535, 1, 255, false},
		{"maximum height", 1, 65535, 255, false},
		{"zero width", 0, 1, 255, true},
		{"zero height", 1, 0, 255, true},
		{"zero maxval", 1, 1, 0, true},
		{"negative width", -1, 1, 255, true},
		{"width too large", 65536, 1, 255, true},
		{"height too large", 1, 65536, 255, true},
		{"maxval too large", 1, 1, 65536, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := New(AsciiRgb, tt.width, tt.height, tt.maxval)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("New failed: %v", err)
				}
				img.Close()
				return
			}
			if err == nil {
				t.Fatal("New should fail for out-of-range values")
			}
			if img != nil {
				t.Error("New returned an image alongside an error")
			}
			if !errors.Is(err, ErrLimitOverflow) {
				t.Errorf("error: got %v, want LimitOverflow", err)
			}
		})
	}
}

func TestNew_InvalidVariant(t *testing.T) {
	for _, v := range []Variant{0, 7, -1} {
		_, err := New(v, 1, 1, 255)
		if KindOf(err) != ValueOutOfRange {
			t.Errorf("New(%d): got %v, want ValueOutOfRange", int(v), err)
		}
	}
}

func TestSetters(t *testing.T) {
	img, err := New(AsciiGreymap, 2, 2, 255)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer img.Close()

	if err := img.SetMaxval(65535); err != nil {
		t.Errorf("SetMaxval(65535) failed: %v", err)
	}
	if err := img.SetMaxval(0); KindOf(err) != LimitOverflow {
		t.Errorf("SetMaxval(0): got %v, want LimitOverflow", err)
	}
	if img.Maxval() != 65535 {
		t.Errorf("failed setter changed maxval to %d", img.Maxval())
	}
	if err := img.SetVariant(BinaryGreymap); err != nil {
		t.Errorf("SetVariant failed: %v", err)
	}
	if err := img.SetWidth(65536); KindOf(err) != LimitOverflow {
		t.Errorf("SetWidth(65536): got %v, want LimitOverflow", err)
	}
	if err := img.SetHeight(0); KindOf(err) != LimitOverflow {
		t.Errorf("SetHeight(0): got %v, want LimitOverflow", err)
	}
}

func TestSetDimensions_RequiresInitialize(t *testing.T) {
	img, err := New(BinaryRgb, 2, 4, 255)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer img.Close()
	if err := img.Set(1, 3, Pixel{R: 9}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Same pixel count, different shape: still stale.
	if err := img.SetWidth(4); err != nil {
		t.Fatalf("SetWidth failed: %v", err)
	}
	if err := img.SetHeight(2); err != nil {
		t.Fatalf("SetHeight failed: %v", err)
	}
	if _, err := img.At(0, 0); !errors.Is(err, ErrUninitialized) {
		t.Errorf("At before Initialize: got %v, want Uninitialized", err)
	}
	if err := img.Fill(Pixel{}); !errors.Is(err, ErrUninitialized) {
		t.Errorf("Fill before Initialize: got %v, want Uninitialized", err)
	}

	if err := img.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	p, err := img.At(3, 1)
	if err != nil {
		t.Fatalf("At after Initialize failed: %v", err)
	}
	if p != (Pixel{}) {
		t.Errorf("Initialize should zero the buffer, got %v", p)
	}
}

func TestClose(t *testing.T) {
	img, err := New(BinaryRgb, 1, 1, 255)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	img.AddComment("x")

	if err := img.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := img.Close(); !errors.Is(err, ErrUninitialized) {
		t.Errorf("second Close: got %v, want Uninitialized", err)
	}
	if _, err := img.At(0, 0); !errors.Is(err, ErrUninitialized) {
		t.Errorf("At after Close: got %v, want Uninitialized", err)
	}
	if err := img.AddComment("y"); !errors.Is(err, ErrUninitialized) {
		t.Errorf("AddComment after Close: got %v, want Uninitialized", err)
	}
	if img.CommentCount() != 0 {
		t.Errorf("Close should release comments, have %d", img.CommentCount())
	}
}

func TestClone(t *testing.T) {
	img, err := New(AsciiRgb, 2, 1, 255)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	img.AddComment("orig")

	c := img.Clone()
	c.Set(0, 0, Pixel{R: 1, G: 2, B: 3})
	c.ReplaceComment(0, "copy")

	p, _ := img.At(0, 0)
	if p != (Pixel{}) {
		t.Errorf("Clone shares the pixel buffer: original changed to %v", p)
	}
	if img.Comments()[0] != "orig" {
		t.Errorf("Clone shares comments: original is %q", img.Comments()[0])
	}
}

func TestNew_MemoryFailure(t *testing.T) {
	img, err := New(BinaryRgb, MaxWidth, MaxHeight, 255)
	if err == nil {
		img.Close()
		t.Fatal("New should refuse a buffer above MaxPixels")
	}
	if KindOf(err) != MemoryFailure {
		t.Errorf("kind: got %v, want MemoryFailure", KindOf(err))
	}
	if !errors.Is(err, ErrMemoryFailure) {
		t.Errorf("error should match ErrMemoryFailure: %v", err)
	}
}

func TestInitialize_MemoryFailureKeepsBuffer(t *testing.T) {
	defer func(n int) { MaxPixels = n }(MaxPixels)
	MaxPixels = 12

	img, err := New(BinaryRgb, 3, 4, 255)
	if err != nil {
		t.Fatalf("New at the limit failed: %v", err)
	}
	defer img.Close()
	if err := img.Set(2, 3, Pixel{G: 7}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := img.SetWidth(4); err != nil {
		t.Fatalf("SetWidth failed: %v", err)
	}
	if err := img.Initialize(); KindOf(err) != MemoryFailure {
		t.Fatalf("Initialize above the limit: got %v, want MemoryFailure", err)
	}

	// the old buffer survives for the old dimensions
	if err := img.SetWidth(3); err != nil {
		t.Fatalf("SetWidth failed: %v", err)
	}
	if p, err := img.At(2, 3); err != nil || p != (Pixel{G: 7}) {
		t.Errorf("At(2,3): got %v, %v", p, err)
	}
}
