package media

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// DefaultFilename names uploads that arrive without a filename.
const DefaultFilename = "photo.jpg"

// keyTimeLayout is the second-resolution part of the key timestamp; microseconds
// are appended separately since Go layouts require a dot before fractions.
const keyTimeLayout = "20060102150405"

// StorageKey derives the object key for a photo uploaded to albumID at the given
// instant: albums/{album_id}/{YYYYMMDDHHMMSSffffff}_{filename}. Keys sort
// chronologically within an album.
func StorageKey(albumID, filename string, at time.Time) string {
	at = at.UTC()
	return fmt.Sprintf("albums/%s/%s%06d_%s",
		albumID, at.Format(keyTimeLayout), at.Nanosecond()/int(time.Microsecond), cleanFilename(filename))
}

// cleanFilename strips any client-side directory components.
func cleanFilename(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, `\`, "/"))
	if name == "" {
		return DefaultFilename
	}
	base := path.Base(name)
	if base == "." || base == "/" || base == ".." {
		return DefaultFilename
	}
	return base
}
