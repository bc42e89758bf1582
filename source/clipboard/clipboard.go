// Package clipboard abstracts the OS clipboard behind a Source interface so
// the clipboard watcher can be tested without a display server. The system
// implementation reads text through atotto/clipboard; richer flavors
// (images, file lists) are platform extras that sources may not support.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnavailable indicates the clipboard cannot be read on this platform or
// in this environment (e.g. no display server). Watchers treat it as an
// empty poll, not a failure.
var ErrUnavailable = errors.New("clipboard unavailable")

// ErrNoContent indicates the clipboard holds no content of the requested
// flavor this cycle.
var ErrNoContent = errors.New("no clipboard content")

// Source provides access to the current clipboard contents.
type Source interface {
	// Text returns the current plain-text clipboard content.
	Text() (string, error)

	// Image returns the current clipboard image as PNG bytes, along with
	// its pixel dimensions. Sources without image support return
	// ErrUnavailable.
	Image() (data []byte, width, height int, err error)

	// Files returns the file paths currently on the clipboard. Sources
	// without file-list support return ErrUnavailable.
	Files() ([]string, error)
}

// systemSource reads the real OS clipboard.
type systemSource struct{}

// System returns a Source backed by the OS clipboard.
func System() Source {
	return &systemSource{}
}

func (s *systemSource) Text() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnavailable
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", ErrUnavailable
	}
	return text, nil
}

// Image support needs platform clipboard formats that the portable text
// backend does not expose.
func (s *systemSource) Image() ([]byte, int, int, error) {
	return nil, 0, 0, ErrUnavailable
}

// Files support needs platform clipboard formats (CF_HDROP and friends)
// that the portable text backend does not expose.
func (s *systemSource) Files() ([]string, error) {
	return nil, ErrUnavailable
}
