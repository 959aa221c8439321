package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "golang.org/x/image/webp"

	"fightcards/models"
	"fightcards/utils"
)

// maxCachedImages bounds the decoded image cache
const maxCachedImages = 64

// LocalRoot maps a root-relative URL prefix to a directory on disk
type LocalRoot struct {
	Prefix string
	Dir    string
}

// ImageLoader fetches images from http(s), data URLs, Google Drive and local directories
type ImageLoader struct {
	client  *http.Client
	baseURL string
	drive   DriveServiceInterface
	roots   []LocalRoot

	mu    sync.Mutex
	cache map[string]image.Image
}

// NewImageLoader creates an ImageLoader. drive may be nil.
// URLs starting with baseURL are resolved against the local roots instead of over HTTP.
func NewImageLoader(client *http.Client, baseURL string, drive DriveServiceInterface, roots ...LocalRoot) *ImageLoader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &ImageLoader{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		drive:   drive,
		roots:   roots,
		cache:   make(map[string]image.Image),
	}
}

func cacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Load fetches and decodes an image. Decoded images are cached and shared: callers must not modify them.
func (l *ImageLoader) Load(ctx context.Context, url string) (image.Image, error) {
	key := cacheKey(url)

	l.mu.Lock()
	img, ok := l.cache[key]
	l.mu.Unlock()
	if ok {
		return img, nil
	}

	data, err := l.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrAssetDecode, describeURL(url), err)
	}
	log.Printf("📸 Image decoded: format=%s, bounds=%v", format, img.Bounds())

	l.mu.Lock()
	if len(l.cache) >= maxCachedImages {
		for k := range l.cache {
			delete(l.cache, k)
			break
		}
	}
	l.cache[key] = img
	l.mu.Unlock()

	return img, nil
}

// Fetch returns the raw bytes behind an image URL
func (l *ImageLoader) Fetch(ctx context.Context, url string) ([]byte, error) {
	var data []byte
	var err error

	switch {
	case strings.HasPrefix(url, "data:"):
		data, _, err = utils.ParseImageDataURL(url)
	case l.drive != nil && strings.HasPrefix(url, driveURLPrefix):
		id, _ := DriveFileID(url)
		data, err = l.drive.DownloadImage(ctx, id)
	case l.baseURL != "" && strings.HasPrefix(url, l.baseURL+"/"):
		data, err = l.readLocal(strings.TrimPrefix(url, l.baseURL))
	case strings.HasPrefix(url, "/") && !strings.HasPrefix(url, "//"):
		data, err = l.readLocal(url)
	case strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://"):
		data, err = l.fetchHTTP(ctx, url)
	default:
		err = fmt.Errorf("unsupported image URL")
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrAssetLoad, describeURL(url), err)
	}
	return data, nil
}

func (l *ImageLoader) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, utils.MaxImageSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > utils.MaxImageSize {
		return nil, fmt.Errorf("image exceeds %d bytes", utils.MaxImageSize)
	}
	return data, nil
}

// readLocal resolves a root-relative path against the most specific matching root
func (l *ImageLoader) readLocal(path string) ([]byte, error) {
	var best *LocalRoot
	for i := range l.roots {
		r := &l.roots[i]
		if strings.HasPrefix(path, r.Prefix) && (best == nil || len(r.Prefix) > len(best.Prefix)) {
			best = r
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no local directory serves %s", path)
	}

	rel := filepath.FromSlash(strings.TrimPrefix(path, best.Prefix))
	full := filepath.Join(best.Dir, filepath.Clean(string(filepath.Separator)+rel))
	return os.ReadFile(full)
}

// describeURL shortens data URLs for logs and error messages
func describeURL(url string) string {
	if strings.HasPrefix(url, "data:") {
		if i := strings.IndexByte(url, ','); i > 0 {
			return url[:i] + ",…"
		}
		return "data URL"
	}
	return url
}
