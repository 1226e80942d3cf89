// Package pathx classifies POSIX path strings without touching the filesystem.
//
// Whether a path names a file or a directory is inferred purely from its last
// segment: a segment containing a '.' is a file, anything else is a directory.
// This is a naming heuristic, not a statement about what exists on disk.
//
//	pathx.GetDirectory("/path1/path2/myFile.txt") // "/path1/path2/"
//	pathx.GetDirectory("path1////path2/")         // "/path1/path2/"
//	pathx.IsDirectory("hello")                    // true
//	pathx.GetFileObject("/Users/boom/myFile.txt").MimeType // "text/plain"
//
// Every function is pure and safe for concurrent use.
package pathx

import (
	"encoding/json"
	"path"
	"strings"
)

// Separator is the only separator pathx normalizes.
const Separator = "/"

// FileObject describes a path after classification.
type FileObject struct {
	// MimeType is empty when the extension is unknown or absent.
	MimeType string
	// Name is the last segment, or empty when the path is a directory.
	Name string
	// Path is the normalized input.
	Path string
	// Dir is always absolute and terminated by a separator.
	Dir string
	// Extension is the suffix after the final '.', without the dot.
	Extension string
}

// HasMimeType reports whether the lookup table knew the extension.
func (f *FileObject) HasMimeType() bool {
	return f.MimeType != ""
}

// IsDir reports whether the object was classified as a directory.
func (f *FileObject) IsDir() bool {
	return f.Name == ""
}

type fileObjectJSON struct {
	MimeType  any    `json:"mimetype"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	Dir       string `json:"dir"`
	Extension string `json:"extension"`
}

// MarshalJSON renders an unknown mimetype as false.
func (f FileObject) MarshalJSON() ([]byte, error) {
	out := fileObjectJSON{
		MimeType:  false,
		Name:      f.Name,
		Path:      f.Path,
		Dir:       f.Dir,
		Extension: f.Extension,
	}
	if f.MimeType != "" {
		out.MimeType = f.MimeType
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts both a string and false for mimetype.
func (f *FileObject) UnmarshalJSON(data []byte) error {
	var in fileObjectJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	mt, _ := in.MimeType.(string)
	*f = FileObject{
		MimeType:  mt,
		Name:      in.Name,
		Path:      in.Path,
		Dir:       in.Dir,
		Extension: in.Extension,
	}
	return nil
}

// Normalize collapses repeated separators and resolves "." and ".."
// lexically. A trailing separator survives on non-root paths. The empty
// string stays empty.
func Normalize(p string) string {
	if p == "" {
		return ""
	}
	cleaned := path.Clean(p)
	if cleaned != Separator && strings.HasSuffix(p, Separator) {
		cleaned += Separator
	}
	return cleaned
}

// SplitPath splits a path into its non-empty segments.
//
//	SplitPath("/example/myDirectory/myFile.txt") // ["example" "myDirectory" "myFile.txt"]
func SplitPath(p string) []string {
	return SplitPathBy(p, Separator)
}

// SplitPathBy is SplitPath with a custom delimiter. An empty delimiter
// means Separator.
func SplitPathBy(p, delimiter string) []string {
	segments := []string{}
	if p == "" {
		return segments
	}
	if delimiter == "" {
		delimiter = Separator
	}

	for _, part := range strings.Split(Normalize(p), delimiter) {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// IsDirectory reports whether the last segment of p has no '.'.
// A path without segments is a directory.
//
//	IsDirectory("/example/myDirectory")            // true
//	IsDirectory("/example/myDirectory/myFile.txt") // false
//	IsDirectory("myFile.txt/")                     // false
func IsDirectory(p string) bool {
	segments := SplitPath(p)
	if len(segments) == 0 {
		return true
	}
	return !isFileSegment(segments[len(segments)-1])
}

// GetDirectory returns the directory part of p, always absolute and always
// terminated by a separator.
//
//	GetDirectory("/User/mike/project/myFile.txt") // "/User/mike/project/"
//	GetDirectory("/User/mike/project/")           // "/User/mike/project/"
//	GetDirectory("myFile.txt")                    // "/"
func GetDirectory(p string) string {
	return GetDirectoryBy(p, Separator)
}

// GetDirectoryBy is GetDirectory with a custom delimiter. An empty
// delimiter means Separator.
func GetDirectoryBy(p, delimiter string) string {
	if delimiter == "" {
		delimiter = Separator
	}

	segments := SplitPathBy(p, delimiter)
	if len(segments) == 0 {
		return Separator
	}
	if len(segments) == 1 && isFileSegment(segments[0]) {
		return Separator
	}
	if isFileSegment(segments[len(segments)-1]) {
		segments = segments[:len(segments)-1]
	}

	return Normalize(Separator + strings.Join(segments, delimiter) + delimiter)
}

// GetFileObject classifies p. It returns nil for an empty path.
func GetFileObject(p string) *FileObject {
	if p == "" {
		return nil
	}

	normalized := Normalize(p)
	obj := &FileObject{
		Path:      normalized,
		Dir:       GetDirectory(normalized),
		Extension: strings.ReplaceAll(extname(normalized), ".", ""),
	}
	if !IsDirectory(normalized) {
		segments := SplitPath(normalized)
		obj.Name = segments[len(segments)-1]
	}
	obj.MimeType, _ = LookupMimeType(normalized)
	return obj
}

// Ext returns the extension of p without the leading dot, or "" when the
// last segment has none. Leading-dot names such as ".bashrc" have no
// extension.
func Ext(p string) string {
	return extname(Normalize(p))
}

// IsHidden reports whether the last segment starts with a dot.
func IsHidden(p string) bool {
	segments := SplitPath(p)
	if len(segments) == 0 {
		return false
	}
	return strings.HasPrefix(segments[len(segments)-1], ".")
}

func isFileSegment(segment string) bool {
	return strings.Contains(segment, ".")
}

// extname follows the basename rule: the dot must not be the first byte of
// the last segment.
func extname(p string) string {
	base := strings.TrimRight(p, Separator)
	if i := strings.LastIndex(base, Separator); i >= 0 {
		base = base[i+1:]
	}
	i := strings.LastIndex(base, ".")
	if i <= 0 {
		return ""
	}
	return base[i+1:]
}
