package imageprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DefaultQuality - качество JPEG для производных копий
const DefaultQuality = 85

var (
	// ErrUnsupportedFormat - формат декодируется, но перекодировать его нечем (webp)
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrDisabled          = errors.New("image processing is disabled")
)

// Size - именованный прямоугольник, в который вписывается изображение
type Size struct {
	Name   string
	Width  int
	Height int
}

var (
	SizeThumbnail = Size{Name: "thumbnail", Width: 150, Height: 150}
	SizeMedium    = Size{Name: "medium", Width: 400, Height: 400}

	// Variants - все производные копии, которые делаются при загрузке
	Variants = []Size{SizeThumbnail, SizeMedium}
)

// Processor делает ресайзы с сохранением пропорций
type Processor struct {
	quality int
	enabled bool
}

func NewProcessor(quality int, enabled bool) *Processor {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Processor{
		quality: quality,
		enabled: enabled,
	}
}

// Enabled - доступен ли ресайз в этой сборке/конфигурации
func (p *Processor) Enabled() bool {
	return p != nil && p.enabled
}

// Result - закодированная производная копия
type Result struct {
	Data        []byte
	Format      string
	ContentType string
	Width       int
	Height      int
}

// Resize вписывает изображение в size и кодирует в исходный формат.
// PNG и GIF сохраняют прозрачность, JPEG пережимается с заданным качеством.
func (p *Processor) Resize(r io.Reader, size Size) (*Result, error) {
	if !p.Enabled() {
		return nil, ErrDisabled
	}

	src, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	w, h := FitDimensions(bounds.Dx(), bounds.Dy(), size.Width, size.Height)
	rect := image.Rect(0, 0, w, h)

	var buf bytes.Buffer
	result := &Result{Format: format, Width: w, Height: h}

	switch format {
	case "jpeg":
		dst := image.NewRGBA(rect)
		draw.CatmullRom.Scale(dst, rect, src, bounds, draw.Src, nil)
		if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: p.quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		result.ContentType = "image/jpeg"
	case "png":
		dst := image.NewNRGBA(rect)
		draw.CatmullRom.Scale(dst, rect, src, bounds, draw.Src, nil)
		if err := png.Encode(&buf, dst); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
		result.ContentType = "image/png"
	case "gif":
		if err := gif.Encode(&buf, scaleGIF(src, rect), nil); err != nil {
			return nil, fmt.Errorf("failed to encode GIF: %w", err)
		}
		result.ContentType = "image/gif"
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	result.Data = buf.Bytes()
	return result, nil
}

// scaleGIF сохраняет палитру источника вместе с индексом прозрачного цвета
func scaleGIF(src image.Image, rect image.Rectangle) image.Image {
	if paletted, ok := src.(*image.Paletted); ok {
		dst := image.NewPaletted(rect, paletted.Palette)
		draw.NearestNeighbor.Scale(dst, rect, src, src.Bounds(), draw.Src, nil)
		return dst
	}
	dst := image.NewRGBA(rect)
	draw.CatmullRom.Scale(dst, rect, src, src.Bounds(), draw.Src, nil)
	return dst
}

// FitDimensions вписывает w×h в maxW×maxH с сохранением пропорций.
// Результат округляется: 3000×2000 в 400×400 даёт 400×267.
func FitDimensions(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return maxW, maxH
	}

	ratio := float64(w) / float64(h)
	newW, newH := float64(maxW), float64(maxH)

	if float64(maxW)/float64(maxH) > ratio {
		newW = float64(maxH) * ratio
	} else {
		newH = float64(maxW) / ratio
	}

	return max(1, int(math.Round(newW))), max(1, int(math.Round(newH)))
}

// Dimensions читает только заголовок изображения
func Dimensions(r io.Reader) (width, height int, format string, err error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, "", fmt.Errorf("failed to decode image config: %w", err)
	}
	return cfg.Width, cfg.Height, format, nil
}

// IsImageMime - подходит ли MIME-тип для ресайза
func IsImageMime(mimeType string) bool {
	return len(mimeType) > 6 && mimeType[:6] == "image/"
}
