package services

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/google/uuid"

	types "github.com/platefeed/platefeed-backend/internal/domain"
)

func TestComputeInitials(t *testing.T) {
	t.Parallel()

	cases := []struct {
		first, last string
		want        string
	}{
		{"anna", "smith", "AS"},
		{"", "smith", "?S"},
		{"anna", "", "A?"},
		{"", "", "??"},
	}
	for _, tc := range cases {
		if got := computeInitials(tc.first, tc.last); got != tc.want {
			t.Fatalf("unexpected initials for %q/%q: got=%q want=%q", tc.first, tc.last, got, tc.want)
		}
	}
}

func TestPickColor_StablePerUsername(t *testing.T) {
	t.Parallel()
	as := &avatarService{bgColors: avatarPalette}

	base := as.pickColor("cook")
	for _, variant := range []string{"cook", "COOK", "  cook  "} {
		if got := as.pickColor(variant); got != base {
			t.Fatalf("color changed for variant %q", variant)
		}
	}

	found := false
	for _, c := range avatarPalette {
		if c == base {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("picked color is not from the palette: %+v", base)
	}
}

func TestProcessUploadedAvatar_SquaresAndResizes(t *testing.T) {
	t.Parallel()

	var src bytes.Buffer
	if err := png.Encode(&src, image.NewRGBA(image.Rect(0, 0, 8, 4))); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}

	out, err := processUploadedAvatar(src.Bytes(), 64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, format, err := image.Decode(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if format != "png" {
		t.Fatalf("unexpected format: %q", format)
	}
	b := decoded.Bounds()
	if b.Dx() != 64 || b.Dy() != 64 {
		t.Fatalf("unexpected dimensions: %dx%d", b.Dx(), b.Dy())
	}
}

func TestProcessUploadedAvatar_RejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := processUploadedAvatar([]byte("not an image"), 64); err == nil {
		t.Fatalf("expected error for undecodable input")
	}
}

func TestAvatarService_GenerationDisabledWithoutFont(t *testing.T) {
	t.Setenv("AVATAR_FONT", "")
	log := newTestLogger(t)

	svc, err := NewAvatarService(log, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.GenerateEnabled() {
		t.Fatalf("expected generation to be disabled")
	}

	user := &types.User{ID: uuid.New(), Username: "cook"}
	if err := svc.SetGenerated(context.Background(), user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.AvatarURL != "" || user.AvatarBucketKey != "" {
		t.Fatalf("expected avatar fields untouched, got %q / %q", user.AvatarURL, user.AvatarBucketKey)
	}
}
