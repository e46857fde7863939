// Package pnm reads, holds and writes images in the six PNM variants:
// P1-P3 (decimal text payload) and P4-P6 (raw byte payload).
//
// Every variant stores its pixels the same way, as RGB triplets with 8-bit
// channels. The variant only decides the magic number and which body codec
// is used; maxval is recorded in the header but does not change the sample
// width.
//
// # File Layout
//
//	P<digit>
//	#<comment>            zero or more, anywhere between the header fields
//	<width> <height>
//	<maxval>
//	<pixel data>          "%3d %3d %3d " triplets (P1-P3) or raw bytes (P4-P6)
//
// Width, height and maxval must be in [1, 65535]. The pixel buffer is further
// capped at MaxPixels; larger images fail with MemoryFailure.
//
// # Lifecycle
//
// An *Image is created by New or by Decode/Load and owns its pixel buffer and
// comments. Close releases both; any later use of the image fails with
// Uninitialized. Changing the width or height does not reallocate the buffer:
// call Initialize before addressing pixels again.
//
//	img, err := pnm.New(pnm.BinaryRgb, 2, 2, 255)
//	if err != nil {
//	    return err
//	}
//	defer img.Close()
//	img.AddComment("test")
//	img.Set(0, 0, pnm.Pixel{R: 255})
//	return pnm.Save(img, "out.ppm")
//
// # Errors
//
// Operations return *Error values classified by Kind. errors.Is matches the
// sentinel of each kind (ErrLimitOverflow, ErrWrongHeader, ...); KindOf
// extracts the kind. Nothing in this package terminates the process.
//
// # Diagnostics
//
// Each error is also logged on the hclog.Logger installed with SetLogger.
// The default logger discards everything.
//
// # Thread Safety
//
// An *Image is not safe for concurrent use. Conversion functions (Negative,
// RGBToHSL, HSLToRGB) are pure and may be called from any goroutine.
package pnm
