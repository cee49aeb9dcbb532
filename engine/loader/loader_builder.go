package loader

import (
	"io/fs"
	"strings"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithFS sets the file system assets are read from. Paths are slash separated and relative to its root.
//
// Parameters:
//   - fsys: the asset file system
//
// Returns:
//   - LoaderBuilderOption: a function that applies the file system option to a loader
func WithFS(fsys fs.FS) LoaderBuilderOption {
	return func(l *loader) {
		l.fsys = fsys
	}
}

// WithLayout sets the pattern mapping an asset name to its document path. Every "{name}" in the
// pattern is replaced by the asset name.
//
// Parameters:
//   - pattern: the path pattern, e.g. "gltf2/{name}/glTF/{name}.gltf"
//
// Returns:
//   - LoaderBuilderOption: a function that applies the layout option to a loader
func WithLayout(pattern string) LoaderBuilderOption {
	return func(l *loader) {
		if strings.Contains(pattern, namePlaceholder) {
			l.layout = pattern
		}
	}
}

// WithImageDecoder replaces the default PNG/JPEG decoder.
//
// Parameters:
//   - d: the decoder to use
//
// Returns:
//   - LoaderBuilderOption: a function that applies the decoder option to a loader
func WithImageDecoder(d ImageDecoder) LoaderBuilderOption {
	return func(l *loader) {
		l.decoder = d
	}
}

// WithDecodeWorkers sets the number of worker goroutines that decode images.
//
// Parameters:
//   - n: the number of decode workers, values below 1 are ignored
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count option to a loader
func WithDecodeWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.decodeWorkers = n
		}
	}
}

// WithProgress registers a callback invoked after every completed buffer or image fetch.
//
// Parameters:
//   - fn: the progress callback
//
// Returns:
//   - LoaderBuilderOption: a function that applies the progress option to a loader
func WithProgress(fn ProgressFunc) LoaderBuilderOption {
	return func(l *loader) {
		l.progress = fn
	}
}
