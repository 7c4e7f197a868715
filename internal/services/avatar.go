package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	types "github.com/platefeed/platefeed-backend/internal/domain"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
	"github.com/platefeed/platefeed-backend/internal/platform/media"
)

// AvatarService renders and stores user avatars. SetGenerated draws an
// initials avatar and is a no-op unless AVATAR_FONT points at a TTF file;
// SetFromImage processes an uploaded image. Both mutate the user's avatar
// fields and leave persistence to the caller.
type AvatarService interface {
	GenerateEnabled() bool
	SetGenerated(ctx context.Context, user *types.User) error
	SetFromImage(ctx context.Context, user *types.User, raw []byte) error
	Clear(ctx context.Context, user *types.User) error
}

type avatarService struct {
	log        *logger.Logger
	mediaStore media.Store
	fontFace   font.Face
	bgColors   []color.NRGBA
}

// Background palette for generated initials avatars.
var avatarPalette = []color.NRGBA{
	{R: 0x4C, G: 0xAF, B: 0x50, A: 0xFF},
	{R: 0x42, G: 0xA5, B: 0xF5, A: 0xFF},
	{R: 0xEF, G: 0x53, B: 0x50, A: 0xFF},
	{R: 0xAB, G: 0x47, B: 0xBC, A: 0xFF},
	{R: 0xFF, G: 0xA7, B: 0x26, A: 0xFF},
	{R: 0x26, G: 0xA6, B: 0x9A, A: 0xFF},
}

func NewAvatarService(log *logger.Logger, mediaStore media.Store) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	var face font.Face
	fontPath := strings.TrimSpace(os.Getenv("AVATAR_FONT"))
	if fontPath != "" {
		var err error
		face, err = loadFontFace(fontPath, 206)
		if err != nil {
			return nil, fmt.Errorf("could not load avatar font: %w", err)
		}
		serviceLog.Info("Initials avatar generation enabled", "font", fontPath)
	} else {
		serviceLog.Info("AVATAR_FONT not set; initials avatar generation disabled")
	}

	return &avatarService{
		log:        serviceLog,
		mediaStore: mediaStore,
		fontFace:   face,
		bgColors:   avatarPalette,
	}, nil
}

func (as *avatarService) GenerateEnabled() bool {
	return as.fontFace != nil
}

func (as *avatarService) SetGenerated(ctx context.Context, user *types.User) error {
	if as.fontFace == nil {
		return nil
	}
	buf, err := as.renderInitialsAvatar(user)
	if err != nil {
		return err
	}
	return as.storeAvatar(ctx, user, buf.Bytes())
}

func (as *avatarService) SetFromImage(ctx context.Context, user *types.User, raw []byte) error {
	processed, err := processUploadedAvatar(raw, 512)
	if err != nil {
		return err
	}
	return as.storeAvatar(ctx, user, processed.Bytes())
}

func (as *avatarService) Clear(ctx context.Context, user *types.User) error {
	oldKey := strings.TrimSpace(user.AvatarBucketKey)
	user.AvatarBucketKey = ""
	user.AvatarURL = ""

	// Best-effort object delete; the cleared fields are what matter.
	if oldKey != "" {
		if err := as.mediaStore.Delete(ctx, oldKey); err != nil {
			as.log.Warn("failed to delete avatar object (ignored)", "key", oldKey, "error", err)
		}
	}
	return nil
}

// storeAvatar uploads the encoded PNG under a fresh key, points the user
// at it, and then best-effort deletes the previous object.
func (as *avatarService) storeAvatar(ctx context.Context, user *types.User, png []byte) error {
	oldKey := strings.TrimSpace(user.AvatarBucketKey)
	newKey := fmt.Sprintf("avatars/%s.png", uuid.New().String())

	url, err := as.mediaStore.Upload(ctx, newKey, "image/png", png)
	if err != nil {
		return fmt.Errorf("failed to upload avatar: %w", err)
	}
	user.AvatarBucketKey = newKey
	user.AvatarURL = url

	if oldKey != "" && oldKey != newKey {
		if err := as.mediaStore.Delete(ctx, oldKey); err != nil {
			as.log.Warn("failed to delete old avatar (ignored)", "old_key", oldKey, "error", err)
		}
	}
	return nil
}

func (as *avatarService) renderInitialsAvatar(user *types.User) (bytes.Buffer, error) {
	const size = 512

	dc := gg.NewContext(size, size)

	// Clip to circle
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()

	// Fill bg
	dc.SetColor(as.pickColor(user.Username))
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()

	// Initials
	initials := computeInitials(user.FirstName, user.LastName)

	dc.SetFontFace(as.fontFace)
	tw, th := dc.MeasureString(initials)
	cx, cy := float64(size)/2, float64(size)/2

	dc.SetColor(color.White)
	dc.DrawString(initials, cx-(tw/2)+5, cy+(th/2)-10)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

// pickColor derives a stable palette color from the username so the same
// user always renders with the same background.
func (as *avatarService) pickColor(username string) color.NRGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(username))))
	return as.bgColors[int(h.Sum32())%len(as.bgColors)]
}

func processUploadedAvatar(raw []byte, size int) (bytes.Buffer, error) {
	var out bytes.Buffer

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return out, fmt.Errorf("decode image: %w", err)
	}

	// Center-crop to square
	b := img.Bounds()
	w := b.Dx()
	h := b.Dy()
	side := w
	if h < w {
		side = h
	}
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2

	cropRect := image.Rect(0, 0, side, side)
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, img, image.Point{X: x0, Y: y0}, draw.Src)

	// Resize to NxN
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	// Circle clip with gg
	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()
	dc.DrawImage(dst, 0, 0)

	if err := dc.EncodePNG(&out); err != nil {
		return out, fmt.Errorf("encode png: %w", err)
	}

	return out, nil
}

func computeInitials(first, last string) string {
	fInit := "?"
	if len(first) > 0 {
		fInit = strings.ToUpper(first[:1])
	}
	lInit := "?"
	if len(last) > 0 {
		lInit = strings.ToUpper(last[:1])
	}
	return fInit + lInit
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	face := truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	return face, nil
}
