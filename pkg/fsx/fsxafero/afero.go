// Package fsxafero adapts any afero.Fs to fsx.FileSystem. NewMemory gives an
// isolated in-memory file system, handy for tests and dry runs.
package fsxafero

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/Abraxas-365/fileutil/pkg/fsx"
	"github.com/Abraxas-365/fileutil/pkg/pathx"
)

// FileSystem implements fsx.FileSystem on an afero.Fs. Paths are rooted,
// so "a/b.txt" and "/a/b.txt" are the same file.
type FileSystem struct {
	fs afero.Fs
}

// New wraps fs. A nil fs means the OS file system.
func New(fs afero.Fs) *FileSystem {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileSystem{fs: fs}
}

// NewMemory returns an empty in-memory file system
func NewMemory() *FileSystem {
	return New(afero.NewMemMapFs())
}

// NewBasePath confines every operation to dir on the OS file system
func NewBasePath(dir string) *FileSystem {
	return New(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// Afero exposes the wrapped file system
func (f *FileSystem) Afero() afero.Fs {
	return f.fs
}

func (f *FileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(f.fs, rooted(p))
	if err != nil {
		return nil, classify("read", p, err)
	}
	return data, nil
}

func (f *FileSystem) ReadFileStream(ctx context.Context, p string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := f.fs.Open(rooted(p))
	if err != nil {
		return nil, classify("open", p, err)
	}
	return file, nil
}

func (f *FileSystem) Stat(ctx context.Context, p string) (fsx.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return fsx.FileInfo{}, err
	}
	info, err := f.fs.Stat(rooted(p))
	if err != nil {
		return fsx.FileInfo{}, classify("stat", p, err)
	}
	return toFileInfo(info), nil
}

func (f *FileSystem) List(ctx context.Context, p string) ([]fsx.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := afero.ReadDir(f.fs, rooted(p))
	if err != nil {
		return nil, classify("list", p, err)
	}

	infos := make([]fsx.FileInfo, 0, len(entries))
	for _, entry := range entries {
		infos = append(infos, toFileInfo(entry))
	}
	return infos, nil
}

func (f *FileSystem) Exists(ctx context.Context, p string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := afero.Exists(f.fs, rooted(p))
	if err != nil {
		return false, fsx.IOError("stat", p, err)
	}
	return ok, nil
}

func (f *FileSystem) WriteFile(ctx context.Context, p string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := rooted(p)
	if err := f.fs.MkdirAll(path.Dir(name), 0o755); err != nil {
		return fsx.IOError("mkdir", p, err)
	}
	if err := afero.WriteFile(f.fs, name, data, 0o644); err != nil {
		return fsx.IOError("write", p, err)
	}
	return nil
}

func (f *FileSystem) WriteFileStream(ctx context.Context, p string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := rooted(p)
	if err := f.fs.MkdirAll(path.Dir(name), 0o755); err != nil {
		return fsx.IOError("mkdir", p, err)
	}
	if err := afero.WriteReader(f.fs, name, r); err != nil {
		return fsx.IOError("write", p, err)
	}
	return nil
}

func (f *FileSystem) CreateDir(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := f.fs.MkdirAll(rooted(p), 0o755); err != nil {
		return fsx.IOError("mkdir", p, err)
	}
	return nil
}

func (f *FileSystem) DeleteFile(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := f.fs.Remove(rooted(p)); err != nil && !os.IsNotExist(err) {
		return fsx.IOError("delete", p, err)
	}
	return nil
}

func (f *FileSystem) DeleteDir(ctx context.Context, p string, recursive bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := rooted(p)
	if name == "/" {
		return fsx.InvalidArgumentError("path", errors.New("refusing to delete the root"))
	}

	remove := f.fs.Remove
	if recursive {
		remove = f.fs.RemoveAll
	}
	if err := remove(name); err != nil && !os.IsNotExist(err) {
		return fsx.IOError("delete", p, err)
	}
	return nil
}

// Copy copies a file or a directory tree, overwriting existing files
func (f *FileSystem) Copy(ctx context.Context, src, dst string) error {
	from, to := rooted(src), rooted(dst)

	info, err := f.fs.Stat(from)
	if err != nil {
		return classify("copy", src, err)
	}
	if to == from {
		return fsx.InvalidArgumentError("dst", fmt.Errorf("cannot copy %s onto itself", src))
	}
	if !info.IsDir() {
		return f.copyFile(from, to, info.Mode().Perm())
	}
	if from == "/" || strings.HasPrefix(to, from+"/") {
		return fsx.InvalidArgumentError("dst", fmt.Errorf("cannot copy %s into itself", src))
	}

	return afero.Walk(f.fs, from, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return fsx.IOError("copy", src, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel := strings.TrimPrefix(filepath.ToSlash(p), from)
		target := path.Join(to, rel)

		if fi.IsDir() {
			if err := f.fs.MkdirAll(target, 0o755); err != nil {
				return fsx.IOError("mkdir", dst, err)
			}
			return nil
		}
		if !fi.Mode().IsRegular() {
			return nil
		}
		return f.copyFile(p, target, fi.Mode().Perm())
	})
}

func (f *FileSystem) Join(elem ...string) string {
	return path.Join(elem...)
}

func (f *FileSystem) copyFile(from, to string, perm os.FileMode) error {
	in, err := f.fs.Open(from)
	if err != nil {
		return fsx.IOError("copy", from, err)
	}
	defer in.Close()

	if err := f.fs.MkdirAll(path.Dir(to), 0o755); err != nil {
		return fsx.IOError("mkdir", to, err)
	}

	out, err := f.fs.OpenFile(to, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fsx.IOError("copy", to, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fsx.IOError("copy", to, err)
	}
	if err := out.Close(); err != nil {
		return fsx.IOError("copy", to, err)
	}
	return nil
}

func rooted(p string) string {
	return path.Clean("/" + p)
}

func toFileInfo(info os.FileInfo) fsx.FileInfo {
	fi := fsx.FileInfo{
		Name:     info.Name(),
		Size:     info.Size(),
		ModTime:  info.ModTime(),
		IsDir:    info.IsDir(),
		Metadata: map[string]string{},
	}
	if !fi.IsDir {
		fi.ContentType = pathx.ContentType(fi.Name)
	} else {
		fi.Size = 0
	}
	return fi
}

func classify(op, p string, err error) error {
	if os.IsNotExist(err) || errors.Is(err, os.ErrNotExist) {
		return fsx.NotFoundError(p)
	}
	return fsx.IOError(op, p, err)
}
