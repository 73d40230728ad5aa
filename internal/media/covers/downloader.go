package covers

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// maxCoverSize limits download size to prevent memory exhaustion.
	maxCoverSize = 10 * 1024 * 1024 // 10MB

	downloadTimeout = 30 * time.Second
)

// DownloadResult reports the outcome of one cover download.
type DownloadResult struct {
	Success  bool
	Width    int
	Height   int
	Size     int64
	BlurHash string
	Source   string
	Error    error
}

// Downloader fetches covers from provider CDNs into the store.
type Downloader struct {
	httpClient *http.Client
	store      *Store
	logger     *slog.Logger
}

func NewDownloader(store *Store, logger *slog.Logger) *Downloader {
	return &Downloader{
		httpClient: &http.Client{Timeout: downloadTimeout},
		store:      store,
		logger:     logger,
	}
}

// Download fetches the cover at url and stores it under the ISBN.
// Failures are reported in the result, never raised; cover downloads
// run best-effort after a save and must not block cataloging.
func (d *Downloader) Download(ctx context.Context, isbn, url string) *DownloadResult {
	result := &DownloadResult{Source: DetectSource(url)}

	if url == "" {
		result.Error = errors.New("empty cover URL")
		return result
	}

	downloadCtx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(downloadCtx, http.MethodGet, url, nil)
	if err != nil {
		result.Error = fmt.Errorf("create request: %w", err)
		return result
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		result.Error = fmt.Errorf("download: %w", err)
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		result.Error = fmt.Errorf("download failed: status %d", resp.StatusCode)
		return result
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		result.Error = fmt.Errorf("not an image: %s", contentType)
		return result
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCoverSize))
	if err != nil {
		result.Error = fmt.Errorf("read data: %w", err)
		return result
	}
	if len(data) == 0 {
		result.Error = errors.New("empty response body")
		return result
	}
	result.Size = int64(len(data))

	width, height, err := parseImageDimensions(data)
	if err != nil {
		d.logger.Warn("failed to parse cover dimensions",
			"isbn", isbn, "url", url, "error", err)
		// The image may still decode; keep going without dimensions.
	} else {
		result.Width = width
		result.Height = height
	}

	hash, err := computeBlurHash(data)
	if err != nil {
		d.logger.Warn("failed to compute blurhash", "isbn", isbn, "error", err)
	} else {
		result.BlurHash = hash
	}

	cover := &Cover{
		Meta: Meta{
			ContentType: contentType,
			BlurHash:    result.BlurHash,
			Width:       result.Width,
			Height:      result.Height,
			Source:      result.Source,
			FetchedAt:   time.Now().UTC(),
		},
		Data: data,
	}
	if err := d.store.Save(isbn, cover); err != nil {
		result.Error = fmt.Errorf("store: %w", err)
		return result
	}

	result.Success = true
	d.logger.Info("downloaded cover",
		"isbn", isbn,
		"source", result.Source,
		"size", result.Size,
		"width", result.Width,
		"height", result.Height)
	return result
}

// parseImageDimensions extracts dimensions from JPEG or PNG data.
func parseImageDimensions(data []byte) (width, height int, err error) {
	if len(data) < 24 {
		return 0, 0, errors.New("data too small")
	}
	if w, h, ok := parseJPEGDimensions(data); ok {
		return w, h, nil
	}
	if w, h, ok := parsePNGDimensions(data); ok {
		return w, h, nil
	}
	return 0, 0, errors.New("unsupported format")
}

func parseJPEGDimensions(data []byte) (width, height int, ok bool) {
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		return 0, 0, false
	}

	// Scan for SOF0/SOF1/SOF2 markers.
	i := 2
	for i < len(data)-9 {
		if data[i] != 0xFF {
			i++
			continue
		}
		marker := data[i+1]
		if marker == 0xC0 || marker == 0xC1 || marker == 0xC2 {
			if i+9 > len(data) {
				return 0, 0, false
			}
			height = int(binary.BigEndian.Uint16(data[i+5 : i+7]))
			width = int(binary.BigEndian.Uint16(data[i+7 : i+9]))
			return width, height, true
		}
		if i+3 >= len(data) {
			break
		}
		segmentLen := int(binary.BigEndian.Uint16(data[i+2 : i+4]))
		i += 2 + segmentLen
	}
	return 0, 0, false
}

func parsePNGDimensions(data []byte) (width, height int, ok bool) {
	pngSig := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	if len(data) < 24 || !bytes.Equal(data[:8], pngSig) {
		return 0, 0, false
	}
	if string(data[12:16]) != "IHDR" {
		return 0, 0, false
	}
	width = int(binary.BigEndian.Uint32(data[16:20]))
	height = int(binary.BigEndian.Uint32(data[20:24]))
	return width, height, true
}

// DetectSource recognizes the provider CDNs the metadata sources link
// to.
func DetectSource(url string) string {
	switch {
	case strings.Contains(url, "covers.openlibrary.org"):
		return "Open Library"
	case strings.Contains(url, "books.google"):
		return "Google Books"
	case strings.Contains(url, "images.isbndb.com"):
		return "ISBNdb"
	default:
		return "unknown"
	}
}
