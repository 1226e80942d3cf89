package fsxlocal

import (
	"context"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Abraxas-365/fileutil/pkg/fsx"
	"github.com/Abraxas-365/fileutil/pkg/pathx"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// LocalFileSystem implements fsx.FileSystem on local disk. Every path is
// resolved below the base directory, so "/a/b.txt" and "a/b.txt" name the
// same file and ".." cannot climb out of the base.
type LocalFileSystem struct {
	basePath string
}

// NewLocalFileSystem creates the base directory when needed and returns a
// file system rooted there.
func NewLocalFileSystem(basePath string) (*LocalFileSystem, error) {
	if err := os.MkdirAll(basePath, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	return &LocalFileSystem{basePath: absPath}, nil
}

// GetBasePath returns the base path
func (l *LocalFileSystem) GetBasePath() string {
	return l.basePath
}

// ============================================================================
// FileReader Implementation
// ============================================================================

func (l *LocalFileSystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(l.fullPath(path))
	if err != nil {
		return nil, classify("read", path, err)
	}
	return data, nil
}

func (l *LocalFileSystem) ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(l.fullPath(path))
	if err != nil {
		return nil, classify("open", path, err)
	}
	return file, nil
}

func (l *LocalFileSystem) Stat(ctx context.Context, path string) (fsx.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return fsx.FileInfo{}, err
	}
	info, err := os.Stat(l.fullPath(path))
	if err != nil {
		return fsx.FileInfo{}, classify("stat", path, err)
	}
	return toFileInfo(info), nil
}

func (l *LocalFileSystem) List(ctx context.Context, path string) ([]fsx.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(l.fullPath(path))
	if err != nil {
		return nil, classify("list", path, err)
	}

	infos := make([]fsx.FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue // removed between ReadDir and Info
		}
		infos = append(infos, toFileInfo(info))
	}
	return infos, nil
}

func (l *LocalFileSystem) Exists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(l.fullPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fsx.IOError("stat", path, err)
	}
	return true, nil
}

// ============================================================================
// FileWriter Implementation
// ============================================================================

func (l *LocalFileSystem) WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath := l.fullPath(path)

	if err := os.MkdirAll(filepath.Dir(fullPath), dirPerm); err != nil {
		return fsx.IOError("mkdir", path, err)
	}
	if err := os.WriteFile(fullPath, data, filePerm); err != nil {
		return fsx.IOError("write", path, err)
	}
	return nil
}

func (l *LocalFileSystem) WriteFileStream(ctx context.Context, path string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath := l.fullPath(path)

	if err := os.MkdirAll(filepath.Dir(fullPath), dirPerm); err != nil {
		return fsx.IOError("mkdir", path, err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fsx.IOError("create", path, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, r); err != nil {
		return fsx.IOError("write", path, err)
	}
	return file.Close()
}

func (l *LocalFileSystem) CreateDir(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(l.fullPath(path), dirPerm); err != nil {
		return fsx.IOError("mkdir", path, err)
	}
	return nil
}

// ============================================================================
// FileDeleter Implementation
// ============================================================================

func (l *LocalFileSystem) DeleteFile(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(l.fullPath(path)); err != nil && !os.IsNotExist(err) {
		return fsx.IOError("delete", path, err)
	}
	return nil
}

func (l *LocalFileSystem) DeleteDir(ctx context.Context, path string, recursive bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath := l.fullPath(path)
	if fullPath == l.basePath {
		return fsx.InvalidArgumentError("path", fmt.Errorf("refusing to delete the base directory"))
	}

	remove := os.Remove
	if recursive {
		remove = os.RemoveAll
	}
	if err := remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fsx.IOError("delete", path, err)
	}
	return nil
}

// ============================================================================
// FileCopier Implementation
// ============================================================================

// Copy copies a file, or a directory tree, overwriting existing files.
// Anything other than regular files and directories is skipped.
func (l *LocalFileSystem) Copy(ctx context.Context, src, dst string) error {
	from, to := l.fullPath(src), l.fullPath(dst)

	info, err := os.Stat(from)
	if err != nil {
		return classify("copy", src, err)
	}
	if to == from {
		return fsx.InvalidArgumentError("dst", fmt.Errorf("cannot copy %s onto itself", src))
	}
	if !info.IsDir() {
		return copyFile(from, to, info.Mode().Perm(), dst)
	}
	if strings.HasPrefix(to, from+string(filepath.Separator)) {
		return fsx.InvalidArgumentError("dst", fmt.Errorf("cannot copy %s into itself", src))
	}

	return filepath.WalkDir(from, func(p string, d iofs.DirEntry, err error) error {
		if err != nil {
			return fsx.IOError("copy", src, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(from, p)
		if err != nil {
			return fsx.IOError("copy", src, err)
		}
		target := filepath.Join(to, rel)

		if d.IsDir() {
			if err := os.MkdirAll(target, dirPerm); err != nil {
				return fsx.IOError("mkdir", dst, err)
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return fsx.IOError("copy", src, err)
		}
		return copyFile(p, target, fi.Mode().Perm(), dst)
	})
}

// ============================================================================
// PathOperations Implementation
// ============================================================================

func (l *LocalFileSystem) Join(elem ...string) string {
	return filepath.Join(elem...)
}

// ============================================================================
// Helper Methods
// ============================================================================

// fullPath resolves path below the base directory
func (l *LocalFileSystem) fullPath(path string) string {
	return filepath.Join(l.basePath, filepath.Clean("/"+path))
}

func copyFile(from, to string, perm os.FileMode, dst string) error {
	in, err := os.Open(from)
	if err != nil {
		return fsx.IOError("copy", from, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(to), dirPerm); err != nil {
		return fsx.IOError("mkdir", dst, err)
	}

	out, err := os.OpenFile(to, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fsx.IOError("copy", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fsx.IOError("copy", dst, err)
	}
	if err := out.Close(); err != nil {
		return fsx.IOError("copy", dst, err)
	}
	return nil
}

func toFileInfo(info os.FileInfo) fsx.FileInfo {
	fi := fsx.FileInfo{
		Name:     info.Name(),
		Size:     info.Size(),
		ModTime:  info.ModTime(),
		IsDir:    info.IsDir(),
		Metadata: map[string]string{"mode": info.Mode().String()},
	}
	if !fi.IsDir {
		fi.ContentType = pathx.ContentType(fi.Name)
	}
	return fi
}

func classify(op, path string, err error) error {
	if os.IsNotExist(err) {
		return fsx.NotFoundError(path)
	}
	return fsx.IOError(op, path, err)
}
