package clipboard

import "sync"

// Fake is an in-memory Source for tests and offline development. All
// flavors are settable; unset flavors return ErrNoContent.
type Fake struct {
	mu     sync.Mutex
	text   string
	img    []byte
	imgW   int
	imgH   int
	files  []string
	txtErr error
}

// NewFake returns an empty fake clipboard.
func NewFake() *Fake {
	return &Fake{}
}

// SetText sets the plain-text content.
func (f *Fake) SetText(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text = text
}

// SetTextError makes Text return err until cleared with SetText.
func (f *Fake) SetTextError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txtErr = err
}

// SetImage sets the image content.
func (f *Fake) SetImage(data []byte, width, height int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.img, f.imgW, f.imgH = data, width, height
}

// SetFiles sets the file-list content.
func (f *Fake) SetFiles(paths []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files = paths
}

// Clear empties all flavors.
func (f *Fake) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text, f.img, f.files, f.txtErr = "", nil, nil, nil
	f.imgW, f.imgH = 0, 0
}

func (f *Fake) Text() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.txtErr != nil {
		return "", f.txtErr
	}
	return f.text, nil
}

func (f *Fake) Image() ([]byte, int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.img == nil {
		return nil, 0, 0, ErrNoContent
	}
	return f.img, f.imgW, f.imgH, nil
}

func (f *Fake) Files() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.files == nil {
		return nil, ErrNoContent
	}
	return append([]string(nil), f.files...), nil
}
