package imaging

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// BuiltinFontName is reported when no requested font could be loaded and
// the embedded Go Regular face is used instead.
const BuiltinFontName = "goregular"

// DefaultFontNames is the fallback chain tried before the built-in face.
var DefaultFontNames = []string{"arial.ttf", "Arial.ttf", "DejaVuSans.ttf"}

// FontLoader resolves font names to faces.
//
// A name may be a path to a .ttf/.otf/.ttc file or a bare file name, which
// is searched for under the usual system font directories. Parsed fonts are
// cached by name; faces are created per size.
type FontLoader struct {
	// Dirs overrides the directories searched for bare names.
	Dirs []string

	mu     sync.Mutex
	parsed map[string]*opentype.Font
	misses map[string]bool
}

// NewFontLoader returns a loader searching the platform font directories.
func NewFontLoader() *FontLoader {
	return &FontLoader{Dirs: systemFontDirs()}
}

// Face walks names in order and returns a face of the given pixel size for
// the first font that loads, together with the name that matched. When none
// load, the built-in Go Regular face is returned with BuiltinFontName. Face
// never fails.
func (l *FontLoader) Face(names []string, size float64) (font.Face, string) {
	for _, name := range names {
		f, err := l.load(name)
		if err != nil {
			continue
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			continue
		}
		return face, name
	}
	return builtinFace(size), BuiltinFontName
}

func (l *FontLoader) load(name string) (*opentype.Font, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.parsed == nil {
		l.parsed = make(map[string]*opentype.Font)
		l.misses = make(map[string]bool)
	}
	if f, ok := l.parsed[name]; ok {
		return f, nil
	}
	if l.misses[name] {
		return nil, fmt.Errorf("font %q not available", name)
	}

	f, err := l.resolveAndParse(name)
	if err != nil {
		l.misses[name] = true
		return nil, err
	}
	l.parsed[name] = f
	return f, nil
}

func (l *FontLoader) resolveAndParse(name string) (*opentype.Font, error) {
	path, err := l.resolve(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".ttc") {
		coll, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, fmt.Errorf("parse font collection %s: %w", path, err)
		}
		return coll.Font(0)
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return f, nil
}

// resolve maps name to a file. Names containing a path separator are used
// as-is; bare names are matched by base name in the search directories.
func (l *FontLoader) resolve(name string) (string, error) {
	if strings.ContainsRune(name, os.PathSeparator) || strings.ContainsRune(name, '/') {
		if _, err := os.Stat(name); err != nil {
			return "", err
		}
		return name, nil
	}
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return name, nil
	}

	for _, dir := range l.Dirs {
		var found string
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() && d.Name() == name {
				found = path
				return fs.SkipAll
			}
			return nil
		})
		if found != "" {
			return found, nil
		}
	}
	return "", fmt.Errorf("font %q not found", name)
}

var (
	goRegularOnce sync.Once
	goRegular     *opentype.Font
)

func builtinFace(size float64) font.Face {
	goRegularOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			panic(fmt.Sprintf("embedded goregular font is invalid: %v", err))
		}
		goRegular = f
	})

	face, err := opentype.NewFace(goRegular, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		panic(fmt.Sprintf("embedded goregular face: %v", err))
	}
	return face
}

func systemFontDirs() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		dirs := []string{filepath.Join(os.Getenv("WINDIR"), "Fonts")}
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			dirs = append(dirs, filepath.Join(local, "Microsoft", "Windows", "Fonts"))
		}
		return dirs
	case "darwin":
		return []string{
			filepath.Join(home, "Library", "Fonts"),
			"/Library/Fonts",
			"/System/Library/Fonts",
		}
	default:
		return []string{
			filepath.Join(home, ".fonts"),
			filepath.Join(home, ".local", "share", "fonts"),
			"/usr/local/share/fonts",
			"/usr/share/fonts",
		}
	}
}

// DefaultFontSize is the label size used when none is configured: 6% of
// the tile width, never below 12px.
func DefaultFontSize(tileWidth int) float64 {
	size := int(float64(tileWidth) * 0.06)
	if size < 12 {
		size = 12
	}
	return float64(size)
}
