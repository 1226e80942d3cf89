package fsx

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Abraxas-365/fileutil/pkg/asyncx"
	"github.com/Abraxas-365/fileutil/pkg/logx"
	"github.com/Abraxas-365/fileutil/pkg/pathx"
)

// Helper runs the higher level file operations on top of a FileSystem.
// Parent directories are created before every write, and batch operations
// run one item at a time so results line up with their inputs.
type Helper struct {
	fs     FileSystem
	logger *logx.Logger
	newID  func() string
}

// NewHelper creates a helper on fs
func NewHelper(fs FileSystem, opts ...HelperOption) *Helper {
	o := defaultHelperOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Helper{
		fs:     fs,
		logger: o.Logger,
		newID:  o.NewID,
	}
}

// FileSystem returns the underlying file system
func (h *Helper) FileSystem() FileSystem {
	return h.fs
}

// WriteFile writes data to p, creating the directory of p first.
// It returns the path written.
func (h *Helper) WriteFile(ctx context.Context, p string, data []byte, opts ...WriteOption) (string, error) {
	if p == "" {
		return "", EmptyInputError("path")
	}
	if len(data) == 0 {
		return "", EmptyInputError("data").WithDetail("path", p)
	}

	o := writeOptions{encoding: EncodingUTF8}
	for _, opt := range opts {
		opt(&o)
	}

	raw, err := o.encoding.Decode(data)
	if err != nil {
		return "", InvalidArgumentError("data", err).
			WithDetail("path", p).
			WithDetail("encoding", string(o.encoding))
	}

	dir := pathx.GetDirectory(p)
	if err := h.fs.CreateDir(ctx, dir); err != nil {
		h.logger.WithError(err).WithField("dir", dir).Warn("create directory failed")
		return "", err
	}
	if err := h.fs.WriteFile(ctx, p, raw); err != nil {
		h.logger.WithError(err).WithField("path", p).Warn("write failed")
		return "", err
	}

	h.logger.WithFields(logx.Fields{"path": p, "bytes": len(raw)}).Debug("file written")
	return p, nil
}

// WriteFiles validates every entry, then writes them in order. The returned
// paths correspond index by index to files. The first failure stops the
// batch.
func (h *Helper) WriteFiles(ctx context.Context, files []FileSpec) ([]string, error) {
	for i, f := range files {
		if f.Path == "" {
			return nil, EmptyInputError("path").WithDetail("index", i)
		}
		if len(f.Data) == 0 {
			return nil, EmptyInputError("data").WithDetail("index", i).WithDetail("path", f.Path)
		}
	}

	written, err := asyncx.Pool(ctx, 1, files, func(ctx context.Context, f FileSpec) (string, error) {
		return h.WriteFile(ctx, f.Target(), f.Data, WithEncoding(f.Encoding))
	})
	if err != nil {
		return nil, err
	}

	h.logger.WithField("count", len(written)).Debug("batch written")
	return written, nil
}

// ReadFiles reads every path in order and returns the contents in the same
// order. A missing file fails the whole call with ErrNotFound.
func (h *Helper) ReadFiles(ctx context.Context, paths ...string) ([][]byte, error) {
	return asyncx.Pool(ctx, 1, paths, h.readExisting)
}

// ReadFilesEncoded is ReadFiles returning text encoded with enc
func (h *Helper) ReadFilesEncoded(ctx context.Context, enc Encoding, paths ...string) ([]string, error) {
	return asyncx.Pool(ctx, 1, paths, func(ctx context.Context, p string) (string, error) {
		raw, err := h.readExisting(ctx, p)
		if err != nil {
			return "", err
		}
		text, err := enc.Encode(raw)
		if err != nil {
			return "", InvalidArgumentError("encoding", err).WithDetail("path", p)
		}
		return text, nil
	})
}

func (h *Helper) readExisting(ctx context.Context, p string) ([]byte, error) {
	if p == "" {
		return nil, EmptyInputError("path")
	}
	if err := h.mustExist(ctx, p); err != nil {
		return nil, err
	}

	data, err := h.fs.ReadFile(ctx, p)
	if err != nil {
		return nil, err
	}
	h.logger.WithFields(logx.Fields{"path": p, "bytes": len(data)}).Debug("file read")
	return data, nil
}

// Copy copies a file or directory to dst, creating the directory of dst
// first. It returns the normalized dst.
func (h *Helper) Copy(ctx context.Context, src, dst string) (string, error) {
	if src == "" {
		return "", EmptyInputError("src")
	}
	if dst == "" {
		return "", EmptyInputError("dst")
	}

	src = path.Clean(src)
	dst = path.Clean(dst)
	if src == dst {
		return "", InvalidArgumentError("dst", fmt.Errorf("cannot copy %s onto itself", src))
	}

	if err := h.mustExist(ctx, src); err != nil {
		return "", err
	}
	if err := h.fs.CreateDir(ctx, pathx.GetDirectory(dst)); err != nil {
		return "", err
	}
	if err := h.fs.Copy(ctx, src, dst); err != nil {
		h.logger.WithError(err).WithFields(logx.Fields{"src": src, "dst": dst}).Warn("copy failed")
		return "", err
	}

	h.logger.WithFields(logx.Fields{"src": src, "dst": dst}).Debug("copied")
	return dst, nil
}

// GetFiles lists the regular, non-hidden files directly inside dir. A path
// that looks like a file is replaced by its directory. A missing directory
// yields an empty list.
func (h *Helper) GetFiles(ctx context.Context, dir string, opts ...ListOption) ([]string, error) {
	var o listOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.pattern != "" && !doublestar.ValidatePattern(o.pattern) {
		return nil, InvalidArgumentError("pattern", fmt.Errorf("bad glob %q", o.pattern))
	}

	if !pathx.IsDirectory(dir) {
		dir = pathx.GetDirectory(dir)
	}
	dir = pathx.Normalize(dir)

	files := []string{}

	exists, err := h.fs.Exists(ctx, dir)
	if err != nil {
		return nil, err
	}
	if !exists {
		return files, nil
	}

	entries, err := h.fs.List(ctx, dir)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir || strings.HasPrefix(entry.Name, ".") {
			continue
		}
		if o.pattern != "" {
			ok, err := doublestar.Match(o.pattern, entry.Name)
			if err != nil {
				return nil, InvalidArgumentError("pattern", err)
			}
			if !ok {
				continue
			}
		}
		files = append(files, h.fs.Join(dir, entry.Name))
	}

	return files, nil
}

// GetFileCount returns len(GetFiles(dir))
func (h *Helper) GetFileCount(ctx context.Context, dir string, opts ...ListOption) (int, error) {
	files, err := h.GetFiles(ctx, dir, opts...)
	if err != nil {
		return 0, err
	}
	return len(files), nil
}

// GetUniqueFilename returns a new path inside dir of the form
// "<count>_<id>.<ext>", where count is the current number of files in dir
// padded to two digits and id is six hex characters of a time-based UUID.
// Only the first '.' of ext is dropped.
func (h *Helper) GetUniqueFilename(ctx context.Context, dir, ext string) (string, error) {
	ext = strings.Replace(ext, ".", "", 1)
	if ext == "" {
		return "", EmptyInputError("extension")
	}

	count, err := h.GetFileCount(ctx, dir)
	if err != nil {
		return "", err
	}

	id := h.newID()
	if len(id) > 6 {
		id = id[:6]
	}

	return h.fs.Join(dir, fmt.Sprintf("%02d_%s.%s", count, id, ext)), nil
}

func (h *Helper) mustExist(ctx context.Context, p string) error {
	exists, err := h.fs.Exists(ctx, p)
	if err != nil {
		return err
	}
	if !exists {
		return NotFoundError(p)
	}
	return nil
}
