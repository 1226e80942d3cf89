package fsx

import (
	"context"
	"io"
	"time"
)

// FileInfo represents information about a file or directory
type FileInfo struct {
	Name        string            // Base name
	Size        int64             // Size in bytes, 0 for directories
	ModTime     time.Time         // Modification time, zero when the backend has none
	IsDir       bool              // Is a directory
	ContentType string            // MIME type guessed from the extension
	Metadata    map[string]string // Backend specific metadata
}

// FileReader provides read-only operations
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error)
	Stat(ctx context.Context, path string) (FileInfo, error)
	// List returns the direct children of a directory
	List(ctx context.Context, path string) ([]FileInfo, error)
	Exists(ctx context.Context, path string) (bool, error)
}

// FileWriter provides write operations
type FileWriter interface {
	WriteFile(ctx context.Context, path string, data []byte) error
	WriteFileStream(ctx context.Context, path string, r io.Reader) error
	// CreateDir creates path and any missing parents
	CreateDir(ctx context.Context, path string) error
}

// FileDeleter provides deletion operations
type FileDeleter interface {
	DeleteFile(ctx context.Context, path string) error
	DeleteDir(ctx context.Context, path string, recursive bool) error
}

// FileCopier copies a file, or a directory with everything below it
type FileCopier interface {
	Copy(ctx context.Context, src, dst string) error
}

// PathOperations provides path manipulation functionality
type PathOperations interface {
	Join(elem ...string) string
}

// PresignedURLGenerator provides presigned URL generation
type PresignedURLGenerator interface {
	GetPresignedDownloadURL(ctx context.Context, path string, expiration time.Duration) (string, error)
	GetPresignedUploadURL(ctx context.Context, path string, expiration time.Duration) (string, error)
}

// FileSystem combines all file operations
type FileSystem interface {
	FileReader
	FileWriter
	FileDeleter
	FileCopier
	PathOperations
}

// FileSystemWithPresign combines standard file operations with presigned URL generation
type FileSystemWithPresign interface {
	FileSystem
	PresignedURLGenerator
}
