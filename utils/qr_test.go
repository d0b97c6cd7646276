package utils

import (
	"bytes"
	"image/png"
	"testing"
)

func TestBookingQRCode(t *testing.T) {
	t.Parallel()

	data, err := BookingQRCode("68a1b2c3d4e5f60718293a4b", 256)
	if err != nil {
		t.Fatalf("BookingQRCode failed: %v", err)
	}

	pngMagic := []byte{0x89, 'P', 'N', 'G'}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Error("output is not a PNG")
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output does not decode as PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 256 || bounds.Dy() != 256 {
		t.Errorf("expected 256x256 image, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestBookingQRCodeDefaultSize(t *testing.T) {
	t.Parallel()

	data, err := BookingQRCode("68a1b2c3d4e5f60718293a4b", 0)
	if err != nil {
		t.Fatalf("BookingQRCode failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 256 {
		t.Errorf("expected default size 256, got %d", img.Bounds().Dx())
	}
}
