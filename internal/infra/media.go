package infra

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// ArtworkFetcher downloads and caches thumbnails for asset artwork.
// Metadata references that are not http(s) URLs are skipped.
type ArtworkFetcher struct {
	basePath string
	client   *http.Client
}

// NewArtworkFetcher creates a new ArtworkFetcher
func NewArtworkFetcher() (*ArtworkFetcher, error) {
	path, err := getArtworkPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve artwork path: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create artwork directory: %w", err)
	}

	// Optimize HTTP Transport to prevent connection leaks
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = 100
	transport.MaxConnsPerHost = 10
	transport.IdleConnTimeout = 30 * time.Second

	return &ArtworkFetcher{
		basePath: path,
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
	}, nil
}

// FetchThumbnail downloads the artwork behind a metadata reference and
// caches a 128x128 thumbnail keyed by asset id. It returns the local file
// path, or an empty path for non-HTTP references.
func (f *ArtworkFetcher) FetchThumbnail(assetID uint64, metadataRef string) (string, error) {
	if !strings.HasPrefix(metadataRef, "http://") && !strings.HasPrefix(metadataRef, "https://") {
		return "", nil
	}

	fileName := fmt.Sprintf("asset_%d.png", assetID)
	filePath := filepath.Join(f.basePath, fileName)

	// Check if exists
	if _, err := os.Stat(filePath); err == nil {
		return filePath, nil // Already exists (Cache Hit)
	}

	resp, err := f.client.Get(metadataRef)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}

	// Decode the image
	srcImg, err := imaging.Decode(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	// Fit into 128x128 with high-quality Lanczos filter
	thumb := imaging.Fit(srcImg, 128, 128, imaging.Lanczos)

	// Save the thumbnail
	if err := imaging.Save(thumb, filePath); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return filePath, nil
}

// ThumbnailPath returns the local cache path for an asset's thumbnail.
func (f *ArtworkFetcher) ThumbnailPath(assetID uint64) string {
	return filepath.Join(f.basePath, fmt.Sprintf("asset_%d.png", assetID))
}

func getArtworkPath() (string, error) {
	var configDir string
	var err error

	if runtime.GOOS == "windows" {
		configDir = os.Getenv("LOCALAPPDATA")
		if configDir == "" {
			configDir, err = os.UserConfigDir()
		}
	} else {
		configDir, err = os.UserConfigDir()
	}

	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "MarketGo", "assets", "artwork"), nil
}
