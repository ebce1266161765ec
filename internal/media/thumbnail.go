package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nfnt/resize"
)

// ErrNoImage is returned when a recipe has no image to thumbnail.
var ErrNoImage = errors.New("recipe has no image")

// ErrFetch wraps failures to download the source image.
var ErrFetch = errors.New("failed to fetch image")

// maxImageBytes bounds the size of a downloaded source image.
const maxImageBytes = 20 << 20

// Thumbnailer produces resized copies of remote recipe images and caches
// them on disk.
type Thumbnailer struct {
	httpClient *http.Client
	dir        string
	width      uint
}

// NewThumbnailer creates a Thumbnailer writing width-pixel wide images into dir.
func NewThumbnailer(httpClient *http.Client, dir string, width uint) *Thumbnailer {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Thumbnailer{httpClient: httpClient, dir: dir, width: width}
}

// Thumbnail returns the path of the cached thumbnail for a recipe,
// downloading and resizing imageURL on a cache miss. Cache entries are
// keyed by recipe id, width and image URL, so a recipe whose image_url
// changes gets a fresh thumbnail.
func (t *Thumbnailer) Thumbnail(ctx context.Context, recipeID int64, imageURL string) (string, error) {
	if imageURL == "" {
		return "", ErrNoImage
	}

	for _, ext := range []string{".jpg", ".png"} {
		path := t.path(recipeID, imageURL, ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	log.Printf("Thumbnail not cached, fetching image for recipe %d: %s", recipeID, imageURL)
	imageData, err := t.fetch(ctx, imageURL)
	if err != nil {
		return "", err
	}

	return t.save(imageData, recipeID, imageURL)
}

// path names a cache entry <id>-<width>-<first 8 hex digits of sha1(url)><ext>.
func (t *Thumbnailer) path(recipeID int64, imageURL, ext string) string {
	sum := sha1.Sum([]byte(imageURL))
	name := strconv.FormatInt(recipeID, 10) + "-" + strconv.FormatUint(uint64(t.width), 10) + "-" + hex.EncodeToString(sum[:])[:8] + ext
	return filepath.Join(t.dir, name)
}

func (t *Thumbnailer) fetch(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: received non-OK status code: %d", ErrFetch, resp.StatusCode)
	}

	imageData, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return imageData, nil
}

func (t *Thumbnailer) save(imageData []byte, recipeID int64, imageURL string) (string, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	if uint(img.Bounds().Dx()) > t.width {
		img = resize.Resize(t.width, 0, img, resize.Lanczos3)
	}

	if err := os.MkdirAll(t.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	ext := ".jpg"
	if format == "png" {
		ext = ".png"
	}
	imagePath := t.path(recipeID, imageURL, ext)

	// written under a temp name, then renamed into place
	out, err := os.CreateTemp(t.dir, "thumb-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer os.Remove(out.Name())

	switch ext {
	case ".png":
		err = png.Encode(out, img)
	default:
		err = jpeg.Encode(out, img, nil)
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	if err := os.Rename(out.Name(), imagePath); err != nil {
		return "", fmt.Errorf("failed to store thumbnail: %w", err)
	}
	return imagePath, nil
}
