package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-metaform/pkg/metaform"
)

// Options configures a Loader.
type Options struct {
	// FileSystem backs SourceKindFS lookups.
	FileSystem fs.FS
	// HTTPClient enables URL sources. Nil keeps the loader offline unless
	// AllowHTTP is set.
	HTTPClient *http.Client
	AllowHTTP  bool
	Timeout    time.Duration
	// Sanitize strips unsafe markup from html fields after decoding.
	Sanitize bool
	Logger   *zap.Logger
}

// Option mutates Options.
type Option func(*Options)

// WithFileSystem injects the fs.FS used for SourceKindFS.
func WithFileSystem(files fs.FS) Option {
	return func(o *Options) { o.FileSystem = files }
}

// WithHTTPClient injects the client used for URL sources.
func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) { o.HTTPClient = client }
}

// WithHTTPFallback enables URL sources on a default client with timeout.
func WithHTTPFallback(timeout time.Duration) Option {
	return func(o *Options) {
		o.AllowHTTP = true
		o.Timeout = timeout
	}
}

// WithSanitize toggles html field sanitising.
func WithSanitize(enabled bool) Option {
	return func(o *Options) { o.Sanitize = enabled }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// Loader implements metaform.Loader over files, fs.FS and HTTP.
type Loader struct {
	fs       fs.FS
	http     *http.Client
	timeout  time.Duration
	sanitize bool
	logger   *zap.Logger
}

var _ metaform.Loader = (*Loader)(nil)

// New constructs a Loader.
func New(options ...Option) *Loader {
	cfg := Options{Logger: zap.NewNop()}
	for _, opt := range options {
		opt(&cfg)
	}

	var client *http.Client
	switch {
	case cfg.HTTPClient != nil:
		clone := *cfg.HTTPClient
		if cfg.Timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = cfg.Timeout
		}
		client = &clone
	case cfg.AllowHTTP:
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Loader{
		fs:       cfg.FileSystem,
		http:     client,
		timeout:  cfg.Timeout,
		sanitize: cfg.Sanitize,
		logger:   cfg.Logger,
	}
}

// Load fetches and decodes the document behind src.
func (l *Loader) Load(ctx context.Context, src metaform.Source) (metaform.Document, error) {
	if src == nil {
		return metaform.Document{}, errors.New("metaform loader: source is nil")
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case metaform.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case metaform.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case metaform.SourceKindURL:
		if l.http == nil {
			return metaform.Document{}, errors.New("metaform loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = errors.New("metaform loader: unsupported source kind")
	}
	if err != nil {
		return metaform.Document{}, err
	}

	doc, err := metaform.DecodeAny(data, src.Location())
	if err != nil {
		return metaform.Document{}, err
	}
	if l.sanitize {
		doc = metaform.SanitizeDocument(doc)
	}
	l.logger.Debug("metaform loaded",
		zap.String("kind", string(src.Kind())),
		zap.String("location", src.Location()),
		zap.Int("sections", len(doc.Sections)),
		zap.Int("fields", metaform.FieldCount(doc)),
	)
	return doc, nil
}
