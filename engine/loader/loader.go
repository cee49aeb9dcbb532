package loader

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-pbr/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	namePlaceholder = "{name}"

	// DefaultLayout is the document path pattern used when none is configured.
	DefaultLayout = "gltf2/{name}/glTF/{name}.gltf"

	bufferExtension = ".bin"
)

var imageExtensions = []string{".png", ".jpg"}

// ProgressFunc reports fetch progress. done counts completed fetches out of total; item is the path
// just completed. Calls are serialized.
type ProgressFunc func(done, total int, item string)

// ResolvedAssets is a parsed document together with its fetched buffers and decoded images, in
// document order.
type ResolvedAssets struct {
	// Name is the asset name the document was resolved from.
	Name string
	// Path is the document path inside the asset file system.
	Path string
	// Document is the validated scene document.
	Document *Document
	// Buffers holds one byte slice per document buffer.
	Buffers [][]byte
	// Images holds one decoded image per document image.
	Images []common.TextureStagingData
}

// loader is the implementation of the Loader interface.
type loader struct {
	fsys   fs.FS
	layout string

	decoder       ImageDecoder
	decodeWorkers int
	pool          worker.DynamicWorkerPool

	progressMu sync.Mutex
	progress   ProgressFunc
}

// Loader resolves named glTF assets into documents, raw buffers and decoded images.
// It performs no caching: resolving the same name twice fetches everything twice.
type Loader interface {
	// AssetPath maps an asset name to its document path using the configured layout.
	//
	// Parameters:
	//   - name: the asset name
	//
	// Returns:
	//   - string: the slash-separated document path
	AssetPath(name string) string

	// Resolve reads the named asset's document, validates it, and concurrently fetches every buffer
	// and decodes every image. Buffer and image references are checked before any fetch starts. The
	// first failure cancels the outstanding work and no partial result is returned.
	//
	// Parameters:
	//   - ctx: cancels outstanding fetches
	//   - name: the asset name
	//
	// Returns:
	//   - *ResolvedAssets: the document with its buffers and images in document order
	//   - error: a *common.Error for unsupported or malformed content, or a wrapped I/O error
	Resolve(ctx context.Context, name string) (*ResolvedAssets, error)

	// FetchImages concurrently reads and decodes the images at the given paths.
	//
	// Parameters:
	//   - ctx: cancels outstanding fetches
	//   - paths: slash-separated paths inside the asset file system
	//
	// Returns:
	//   - []common.TextureStagingData: the decoded images in the order of paths
	//   - error: the first read or decode failure
	FetchImages(ctx context.Context, paths []string) ([]common.TextureStagingData, error)
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the provided options applied. Without WithFS the loader
// reads from the current working directory.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new Loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		layout:        DefaultLayout,
		decoder:       NewImageDecoder(),
		decodeWorkers: runtime.NumCPU(),
	}
	for _, option := range options {
		option(l)
	}
	if l.fsys == nil {
		l.fsys = os.DirFS(".")
	}
	l.pool = worker.NewDynamicWorkerPool(l.decodeWorkers, 256, 1*time.Second)
	return l
}

func (l *loader) AssetPath(name string) string {
	return strings.ReplaceAll(l.layout, namePlaceholder, name)
}

func (l *loader) Resolve(ctx context.Context, name string) (*ResolvedAssets, error) {
	docPath := l.AssetPath(name)
	common.Logger().Info("resolving asset", zap.String("asset", name), zap.String("path", docPath))

	data, err := fs.ReadFile(l.fsys, docPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene document %s: %w", docPath, err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scene document %s: %w", docPath, err)
	}

	dir := path.Dir(docPath)
	bufferPaths, imagePaths, err := referencePaths(doc, dir)
	if err != nil {
		return nil, err
	}

	res := &ResolvedAssets{
		Name:     name,
		Path:     docPath,
		Document: doc,
		Buffers:  make([][]byte, len(bufferPaths)),
		Images:   make([]common.TextureStagingData, len(imagePaths)),
	}

	total := len(bufferPaths) + len(imagePaths)
	var done atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range bufferPaths {
		g.Go(func() error {
			b, err := fs.ReadFile(l.fsys, p)
			if err != nil {
				return fmt.Errorf("failed to read buffer %d (%s): %w", i, p, err)
			}
			if len(b) < doc.Buffers[i].ByteLength {
				return common.NewError(common.KindMalformedDocument, "buffers.byteLength", i,
					fmt.Sprintf("%s has %d bytes, document declares %d", p, len(b), doc.Buffers[i].ByteLength))
			}
			res.Buffers[i] = b[:doc.Buffers[i].ByteLength]
			common.Logger().Debug("buffer fetched", zap.String("asset", name), zap.Int("buffer", i), zap.Int("bytes", len(b)))
			l.report(int(done.Add(1)), total, p)
			return nil
		})
	}
	for i, p := range imagePaths {
		g.Go(func() error {
			img, err := l.fetchImage(gctx, p)
			if err != nil {
				return withIndex(err, "images", i)
			}
			res.Images[i] = img
			l.report(int(done.Add(1)), total, p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	common.Logger().Info("asset resolved",
		zap.String("asset", name),
		zap.Int("buffers", len(res.Buffers)),
		zap.Int("images", len(res.Images)))
	return res, nil
}

func (l *loader) FetchImages(ctx context.Context, paths []string) ([]common.TextureStagingData, error) {
	out := make([]common.TextureStagingData, len(paths))
	var done atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			img, err := l.fetchImage(gctx, p)
			if err != nil {
				return err
			}
			out[i] = img
			l.report(int(done.Add(1)), len(paths), p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// fetchImage reads p and hands the bytes to the decode pool, waiting for the result or cancellation.
func (l *loader) fetchImage(ctx context.Context, p string) (common.TextureStagingData, error) {
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("failed to read image %s: %w", p, err)
	}
	if err := ctx.Err(); err != nil {
		return common.TextureStagingData{}, err
	}

	type decoded struct {
		img common.TextureStagingData
		err error
	}
	result := make(chan decoded, 1)
	l.pool.SubmitTask(worker.Task{
		ID: nextTaskID(),
		Do: func() (any, error) {
			img, err := l.decoder.Decode(data)
			result <- decoded{img: img, err: err}
			return nil, err
		},
	})

	select {
	case <-ctx.Done():
		return common.TextureStagingData{}, ctx.Err()
	case r := <-result:
		if r.err != nil {
			return common.TextureStagingData{}, &common.Error{
				Kind:   common.KindImageDecodeError,
				Index:  -1,
				Detail: p,
				Err:    r.err,
			}
		}
		common.Logger().Debug("image decoded", zap.String("path", p),
			zap.Uint32("width", r.img.Width), zap.Uint32("height", r.img.Height))
		return r.img, nil
	}
}

func (l *loader) report(done, total int, item string) {
	if l.progress == nil {
		return
	}
	l.progressMu.Lock()
	defer l.progressMu.Unlock()
	l.progress(done, total, item)
}

var taskSeq atomic.Int64

func nextTaskID() int {
	return int(taskSeq.Add(1))
}

// referencePaths checks every buffer and image reference and maps it to a path relative to dir.
func referencePaths(doc *Document, dir string) (buffers, images []string, err error) {
	buffers = make([]string, len(doc.Buffers))
	for i, b := range doc.Buffers {
		if b.URI == "" {
			return nil, nil, common.NewError(common.KindUnsupportedBufferEncoding, "buffers", i, "embedded buffer")
		}
		if !strings.HasSuffix(b.URI, bufferExtension) {
			return nil, nil, common.NewError(common.KindUnsupportedBufferEncoding, "buffers", i, b.URI)
		}
		if buffers[i], err = joinURI(dir, b.URI); err != nil {
			return nil, nil, common.WrapError(common.KindMalformedDocument, "buffers.uri", i, err)
		}
	}

	images = make([]string, len(doc.Images))
	for i, img := range doc.Images {
		if img.URI == "" {
			return nil, nil, common.NewError(common.KindUnsupportedBufferEncoding, "images", i, "image embedded in a bufferView")
		}
		if !hasAnySuffix(img.URI, imageExtensions) {
			return nil, nil, common.NewError(common.KindUnsupportedImageFormat, "images", i, img.URI)
		}
		if images[i], err = joinURI(dir, img.URI); err != nil {
			return nil, nil, common.WrapError(common.KindMalformedDocument, "images.uri", i, err)
		}
	}
	return buffers, images, nil
}

func joinURI(dir, uri string) (string, error) {
	unescaped, err := url.PathUnescape(uri)
	if err != nil {
		return "", err
	}
	return path.Join(dir, unescaped), nil
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

// withIndex stamps a document array position onto a structured error that lacks one.
func withIndex(err error, feature string, index int) error {
	if e, ok := err.(*common.Error); ok && e.Index < 0 {
		e.Feature = feature
		e.Index = index
	}
	return err
}
