package services

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"testing"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeImageData_DataURI(t *testing.T) {
	t.Parallel()
	raw := pngBytes(t)

	got, format, err := decodeImageData("data:image/png;base64," + base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if format != "png" {
		t.Fatalf("unexpected format: %q", format)
	}
	if !bytes.Equal(got, raw) {
		t.Fatalf("decoded bytes differ from input")
	}
}

func TestDecodeImageData_BarePayload(t *testing.T) {
	t.Parallel()
	raw := pngBytes(t)

	got, format, err := decodeImageData(base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if format != "png" || !bytes.Equal(got, raw) {
		t.Fatalf("unexpected decode result: format=%q", format)
	}
}

func TestDecodeImageData_Rejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"data URI without comma", "data:image/png;base64"},
		{"invalid base64", "data:image/png;base64,not-base64!!!"},
		{"payload is not an image", base64.StdEncoding.EncodeToString([]byte("just text"))},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, _, err := decodeImageData(tc.input); err == nil {
				t.Fatalf("expected error for %q", tc.input)
			}
		})
	}
}

func TestImageFileExt(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"jpeg": "jpg",
		"png":  "png",
		"gif":  "gif",
	}
	for format, want := range cases {
		if got := imageFileExt(format); got != want {
			t.Fatalf("unexpected extension for %q: got=%q want=%q", format, got, want)
		}
	}
}
