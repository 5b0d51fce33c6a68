package state

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Now is the clock used for artwork names. Tests replace it.
var Now = time.Now

// NewOwnerID returns a fresh owner identity for a studio install.
func NewOwnerID() string {
	return uuid.NewString()
}

// ArtworkName returns "<hero>_<unix millis>" for an artwork finished now.
func ArtworkName(heroName string) string {
	name := strings.ReplaceAll(strings.TrimSpace(heroName), " ", "_")
	if name == "" {
		name = "artwork"
	}
	return fmt.Sprintf("%s_%d", name, Now().UnixMilli())
}

// DownloadName is the local file name for an artwork.
func DownloadName(artworkName, ext string) string {
	return artworkName + "." + strings.TrimPrefix(ext, ".")
}
