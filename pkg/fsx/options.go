package fsx

import (
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/Abraxas-365/fileutil/pkg/logx"
	"github.com/Abraxas-365/fileutil/pkg/pathx"
)

// FileSpec is one entry of a WriteFiles batch.
//
// With Filename empty, Path is the file to write. With Filename set, the
// file is written as Filename inside the directory of Path.
type FileSpec struct {
	Path     string
	Filename string
	Data     []byte
	Encoding Encoding
}

// Target returns the path the entry writes to
func (s FileSpec) Target() string {
	if s.Filename == "" {
		return s.Path
	}
	return path.Join(pathx.GetDirectory(s.Path), s.Filename)
}

// HelperOptions configures a Helper
type HelperOptions struct {
	Logger *logx.Logger
	// NewID returns a fresh time-based identifier for unique filenames
	NewID func() string
}

func defaultHelperOptions() HelperOptions {
	return HelperOptions{
		Logger: logx.GetDefaultLogger(),
		NewID:  timeUUID,
	}
}

// HelperOption is a functional option for configuring the helper
type HelperOption func(*HelperOptions)

// WithLogger sets the logger used for operation traces
func WithLogger(l *logx.Logger) HelperOption {
	return func(o *HelperOptions) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithIDSource replaces the identifier source of GetUniqueFilename
func WithIDSource(fn func() string) HelperOption {
	return func(o *HelperOptions) {
		if fn != nil {
			o.NewID = fn
		}
	}
}

type writeOptions struct {
	encoding Encoding
}

// WriteOption configures a single write
type WriteOption func(*writeOptions)

// WithEncoding decodes the data with enc before storing it
func WithEncoding(enc Encoding) WriteOption {
	return func(o *writeOptions) {
		o.encoding = enc
	}
}

type listOptions struct {
	pattern string
}

// ListOption configures GetFiles and GetFileCount
type ListOption func(*listOptions)

// WithPattern keeps only files whose name matches the glob. "**" and
// "{a,b}" alternatives are supported.
func WithPattern(pattern string) ListOption {
	return func(o *listOptions) {
		o.pattern = pattern
	}
}

func timeUUID() string {
	id, err := uuid.NewUUID()
	if err != nil {
		id = uuid.New()
	}
	return strings.ReplaceAll(id.String(), "-", "")
}
