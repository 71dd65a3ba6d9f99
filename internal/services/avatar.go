package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"os"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"gorm.io/gorm"

	"github.com/trainhub/trainhub-backend/internal/clients/media"
	"github.com/trainhub/trainhub-backend/internal/logger"
	"github.com/trainhub/trainhub-backend/internal/types"
)

type AvatarService interface {
	CreateUserAvatar(ctx context.Context, tx *gorm.DB, user *types.User) error
	CreateUserAvatarFromImage(ctx context.Context, tx *gorm.DB, user *types.User, raw []byte) error
}

type avatarService struct {
	db    *gorm.DB
	log   *logger.Logger
	store media.Store

	bgColors []color.NRGBA
	fontFace font.Face
}

var defaultAvatarColors = []color.NRGBA{
	{R: 0x2E, G: 0x86, B: 0xAB, A: 0xFF},
	{R: 0xF2, G: 0x6B, B: 0x38, A: 0xFF},
	{R: 0x5B, G: 0x8C, B: 0x5A, A: 0xFF},
	{R: 0x8E, G: 0x44, B: 0xAD, A: 0xFF},
	{R: 0xC0, G: 0x39, B: 0x2B, A: 0xFF},
	{R: 0x16, G: 0xA0, B: 0x85, A: 0xFF},
}

func NewAvatarService(db *gorm.DB, log *logger.Logger, store media.Store) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	face, err := loadAvatarFont(206)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}

	return &avatarService{
		db:       db,
		log:      serviceLog,
		store:    store,
		bgColors: defaultAvatarColors,
		fontFace: face,
	}, nil
}

func (as *avatarService) CreateUserAvatar(ctx context.Context, tx *gorm.DB, user *types.User) error {
	as.ensureAvatarColor(user)

	buf, err := as.renderInitialsAvatar(user)
	if err != nil {
		return err
	}
	return as.replaceAvatar(ctx, user, buf.Bytes())
}

func (as *avatarService) CreateUserAvatarFromImage(ctx context.Context, tx *gorm.DB, user *types.User, raw []byte) error {
	processed, err := processUploadedAvatar(raw, 512)
	if err != nil {
		return err
	}
	return as.replaceAvatar(ctx, user, processed.Bytes())
}

// replaceAvatar uploads under a versioned key before deleting the old
// object, so the user never points at a missing file.
func (as *avatarService) replaceAvatar(ctx context.Context, user *types.User, data []byte) error {
	oldKey := strings.TrimSpace(user.AvatarMediaKey)
	newKey := fmt.Sprintf("user_avatar/%s/%d.png", user.ID.String(), time.Now().UnixNano())

	if err := as.store.Save(ctx, newKey, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to store user avatar: %w", err)
	}

	user.AvatarMediaKey = newKey
	user.AvatarURL = as.store.PublicURL(newKey)

	if oldKey != "" && oldKey != newKey {
		if err := as.store.Delete(ctx, oldKey); err != nil {
			as.log.Warn("failed to delete old avatar (ignored)", "old_key", oldKey, "error", err)
		}
	}
	return nil
}

func (as *avatarService) renderInitialsAvatar(user *types.User) (bytes.Buffer, error) {
	const size = 512

	dc := gg.NewContext(size, size)

	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()

	dc.SetColor(as.pickColor(user.AvatarColor))
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()

	initials := computeInitials(user.FirstName, user.LastName)

	dc.SetFontFace(as.fontFace)
	tw, th := dc.MeasureString(initials)
	cx, cy := float64(size)/2, float64(size)/2

	dc.SetColor(color.White)
	dc.DrawString(initials, cx-(tw/2), cy+(th/2)-10)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

func processUploadedAvatar(raw []byte, size int) (bytes.Buffer, error) {
	var out bytes.Buffer

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return out, fmt.Errorf("decode image: %w", err)
	}

	// Center-crop to square before scaling.
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

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()
	dc.DrawImage(dst, 0, 0)

	if err := dc.EncodePNG(&out); err != nil {
		return out, fmt.Errorf("encode png: %w", err)
	}
	return out, nil
}

func (as *avatarService) ensureAvatarColor(user *types.User) {
	if strings.TrimSpace(user.AvatarColor) != "" {
		return
	}
	pick := as.bgColors[rand.Intn(len(as.bgColors))]
	user.AvatarColor = fmt.Sprintf("#%02X%02X%02X", pick.R, pick.G, pick.B)
}

func (as *avatarService) pickColor(hexStr string) color.NRGBA {
	s := strings.TrimPrefix(strings.TrimSpace(hexStr), "#")
	if len(s) == 6 {
		var r, g, b uint8
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err == nil {
			return color.NRGBA{R: r, G: g, B: b, A: 0xFF}
		}
	}
	return as.bgColors[rand.Intn(len(as.bgColors))]
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

// loadAvatarFont prefers the TTF at AVATAR_FONT and falls back to the
// embedded Go Regular face.
func loadAvatarFont(size float64) (font.Face, error) {
	fontBytes := goregular.TTF
	if p := strings.TrimSpace(os.Getenv("AVATAR_FONT")); p != "" {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file: %w", err)
		}
		fontBytes = data
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}
