package pathx_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/Abraxas-365/fileutil/pkg/pathx"
)

func TestSplitPath(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"/path1/path2/myFile.txt", []string{"path1", "path2", "myFile.txt"}},
		{"/path1/path2/path3/path4/path5/path6/path7/myFile.txt", []string{"path1", "path2", "path3", "path4", "path5", "path6", "path7", "myFile.txt"}},
		{"path1////path2//", []string{"path1", "path2"}},
		{"/", []string{}},
		{"", []string{}},
	}

	for _, tt := range tests {
		got := pathx.SplitPath(tt.in)
		if got == nil {
			t.Fatalf("SplitPath(%q) returned nil slice", tt.in)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitPath(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSplitPathBy(t *testing.T) {
	got := pathx.SplitPathBy("a:b::c", ":")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitPathBy = %v, want %v", got, want)
	}

	// empty delimiter falls back to '/'
	if got := pathx.SplitPathBy("/a/b", ""); len(got) != 2 {
		t.Fatalf("expected 2 segments, got %v", got)
	}
}

func TestIsDirectory(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"hello", true},
		{"/tmp/test/tmp/", true},
		{"/Users/boom/myFile.json", false},
		{"/example/myDirectory", true},
		{"myFile.txt/", false},
		{"///myFile.txt////", false},
		{"/", true},
		{"", true},
		{"/a.b/c", true},
	}

	for _, tt := range tests {
		if got := pathx.IsDirectory(tt.in); got != tt.want {
			t.Errorf("IsDirectory(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGetDirectory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/path1/path2/path3/myFile.txt", "/path1/path2/path3/"},
		{"path1////path2/path3//myFile.txt", "/path1/path2/path3/"},
		{"/", "/"},
		{"", "/"},
		{"/myFile.txt", "/"},
		{"myFile.txt", "/"},
		{"myFile.txt/", "/"},
		{"///myFile.txt/", "/"},
		{"///myFile.txt////", "/"},
		{"/User/mike/project/", "/User/mike/project/"},
		{"/User/mike/project", "/User/mike/project/"},
		{"relative/dir", "/relative/dir/"},
		{"../up/file.txt", "/up/"},
		{"/a/./b/../c/file.txt", "/a/c/"},
	}

	for _, tt := range tests {
		if got := pathx.GetDirectory(tt.in); got != tt.want {
			t.Errorf("GetDirectory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetDirectoryBy(t *testing.T) {
	if got := pathx.GetDirectoryBy("a:b:file.txt", ":"); got != "/a:b:" {
		t.Fatalf("GetDirectoryBy = %q", got)
	}
	if got := pathx.GetDirectoryBy("", ":"); got != "/" {
		t.Fatalf("GetDirectoryBy empty = %q", got)
	}
}

func TestGetDirectory_AbsoluteWithTrailingSeparator(t *testing.T) {
	inputs := []string{
		"/path1/path2/path3/myFile.txt",
		"path1////path2/path3//myFile.txt",
		"/", "a", "a.b", "a/b.c/", "//x//y//z//", "x/y.tar.gz", "..", "../..", ".",
		"/Users/boom/", "///Users///boom/myFile.boo.txt",
	}

	for _, in := range inputs {
		dir := pathx.GetDirectory(in)
		if !strings.HasPrefix(dir, "/") || !strings.HasSuffix(dir, "/") {
			t.Errorf("GetDirectory(%q) = %q is not wrapped in separators", in, dir)
		}
		if strings.Contains(dir, "//") {
			t.Errorf("GetDirectory(%q) = %q contains a doubled separator", in, dir)
		}
		if again := pathx.GetDirectory(dir); again != dir {
			t.Errorf("GetDirectory not idempotent for %q: %q then %q", in, dir, again)
		}
	}
}

func TestGetDirectory_DottedDirectoryNotIdempotent(t *testing.T) {
	dir := pathx.GetDirectory("a.b/c.d/")
	if dir != "/a.b/" {
		t.Fatalf("GetDirectory(a.b/c.d/) = %q, want /a.b/", dir)
	}
	// A lone dotted segment reads as a file at the root.
	if again := pathx.GetDirectory(dir); again != "/" {
		t.Fatalf("GetDirectory(%q) = %q, want /", dir, again)
	}
}

func TestGetFileObject(t *testing.T) {
	tests := []struct {
		in   string
		want pathx.FileObject
	}{
		{
			in: "/Users/boom/myFile.txt",
			want: pathx.FileObject{
				MimeType:  "text/plain",
				Name:      "myFile.txt",
				Path:      "/Users/boom/myFile.txt",
				Dir:       "/Users/boom/",
				Extension: "txt",
			},
		},
		{
			in: "///Users///boom/myFile.boo.txt",
			want: pathx.FileObject{
				MimeType:  "text/plain",
				Name:      "myFile.boo.txt",
				Path:      "/Users/boom/myFile.boo.txt",
				Dir:       "/Users/boom/",
				Extension: "txt",
			},
		},
		{
			in: "/Users/boom/",
			want: pathx.FileObject{
				Path: "/Users/boom/",
				Dir:  "/Users/boom/",
			},
		},
		{
			in: "photo.JPG",
			want: pathx.FileObject{
				MimeType:  "image/jpeg",
				Name:      "photo.JPG",
				Path:      "photo.JPG",
				Dir:       "/",
				Extension: "JPG",
			},
		},
	}

	for _, tt := range tests {
		got := pathx.GetFileObject(tt.in)
		if got == nil {
			t.Fatalf("GetFileObject(%q) returned nil", tt.in)
		}
		if *got != tt.want {
			t.Errorf("GetFileObject(%q) = %+v, want %+v", tt.in, *got, tt.want)
		}
	}
}

func TestGetFileObject_Empty(t *testing.T) {
	if got := pathx.GetFileObject(""); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestFileObject_JSON(t *testing.T) {
	dir := pathx.GetFileObject("/Users/boom/")
	data, err := json.Marshal(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"mimetype":false`) {
		t.Fatalf("expected mimetype false, got %s", data)
	}

	file := pathx.GetFileObject("/Users/boom/myFile.txt")
	data, err = json.Marshal(file)
	if err != nil {
		t.Fatal(err)
	}

	var back pathx.FileObject
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back != *file {
		t.Fatalf("round trip mismatch: %+v vs %+v", back, *file)
	}
}

func TestExtAndHidden(t *testing.T) {
	if got := pathx.Ext("/a/archive.tar.gz"); got != "gz" {
		t.Errorf("Ext = %q", got)
	}
	if got := pathx.Ext("/home/.bashrc"); got != "" {
		t.Errorf("Ext of dotfile = %q", got)
	}
	if !pathx.IsHidden("/home/.bashrc") {
		t.Error("expected .bashrc to be hidden")
	}
	if pathx.IsHidden("/home/notes.txt") {
		t.Error("notes.txt is not hidden")
	}
}
