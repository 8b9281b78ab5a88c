package services

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/elbuensabor/restaurante-api/utils"
)

// Variant widths in pixels.
const (
	thumbWidth  = 150
	mediumWidth = 600
	largeWidth  = 1200
)

// ImageService turns an uploaded image into the resolution variants the
// catalog stores URLs for.
type ImageService struct {
	Dir         string
	BaseURL     string
	MaxSize     int64
	AllowedMIME []string
}

func NewImageService(dir, baseURL string, maxSize int64, allowedMIME []string) *ImageService {
	return &ImageService{Dir: dir, BaseURL: baseURL, MaxSize: maxSize, AllowedMIME: allowedMIME}
}

type ImageURLs struct {
	Thumbnail string `json:"thumbnail"`
	Medium    string `json:"medium"`
	Large     string `json:"large"`
	Original  string `json:"original"`
}

type UploadedImage struct {
	FileName string                 `json:"fileName"`
	URLs     ImageURLs              `json:"urls"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Process validates, decodes and resizes one uploaded image, writing
// the original plus thumbnail/medium/large variants under Dir. On any
// failure every file already written is removed.
func (s *ImageService) Process(file *multipart.FileHeader) (*UploadedImage, error) {
	if file.Size > s.MaxSize {
		return nil, fmt.Errorf("archivo supera el limite de %d bytes: %w", s.MaxSize, utils.ErrValidation)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("abriendo archivo: %w", utils.ErrValidation)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, _ := src.Read(head)
	mime := http.DetectContentType(head[:n])
	if !s.mimeAllowed(mime) {
		return nil, fmt.Errorf("tipo de archivo %s no permitido: %w", mime, utils.ErrValidation)
	}
	if _, err := src.Seek(0, 0); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decodificando imagen: %w", utils.ErrValidation)
	}

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return nil, fmt.Errorf("creando directorio de subida: %w", err)
	}

	ext := ".jpg"
	if mime == "image/png" {
		ext = ".png"
	}
	base := uuid.New().String()

	variants := map[string]int{
		"thumb":  thumbWidth,
		"medium": mediumWidth,
		"large":  largeWidth,
	}

	written := []string{}
	cleanup := func() {
		for _, p := range written {
			os.Remove(p)
		}
	}

	originalPath := filepath.Join(s.Dir, base+ext)
	if err := imaging.Save(img, originalPath); err != nil {
		return nil, fmt.Errorf("guardando original: %w", err)
	}
	written = append(written, originalPath)

	paths := map[string]string{}
	for suffix, width := range variants {
		resized := img
		if img.Bounds().Dx() > width {
			resized = imaging.Resize(img, width, 0, imaging.Lanczos)
		}
		p := filepath.Join(s.Dir, fmt.Sprintf("%s_%s%s", base, suffix, ext))
		if err := imaging.Save(resized, p); err != nil {
			cleanup()
			return nil, fmt.Errorf("guardando variante %s: %w", suffix, err)
		}
		written = append(written, p)
		paths[suffix] = p
	}

	urlFor := func(p string) string {
		return s.BaseURL + "/uploads/menu_images/" + filepath.Base(p)
	}

	bounds := img.Bounds()
	return &UploadedImage{
		FileName: base + ext,
		URLs: ImageURLs{
			Thumbnail: urlFor(paths["thumb"]),
			Medium:    urlFor(paths["medium"]),
			Large:     urlFor(paths["large"]),
			Original:  urlFor(originalPath),
		},
		Metadata: map[string]interface{}{
			"original_name": file.Filename,
			"mime":          mime,
			"size_bytes":    file.Size,
			"width":         bounds.Dx(),
			"height":        bounds.Dy(),
		},
	}, nil
}

func (s *ImageService) mimeAllowed(mime string) bool {
	for _, m := range s.AllowedMIME {
		if strings.EqualFold(m, mime) {
			return true
		}
	}
	return false
}
