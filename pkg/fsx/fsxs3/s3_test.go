package fsxs3_test

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/fileutil/pkg/errx"
	"github.com/Abraxas-365/fileutil/pkg/fsx"
	"github.com/Abraxas-365/fileutil/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/fileutil/pkg/logx"
)

var _ fsx.FileSystemWithPresign = (*fsxs3.S3FileSystem)(nil)

// fakeS3 keeps objects of a single bucket in memory
type fakeS3 struct {
	mu      sync.Mutex
	bucket  string
	objects map[string][]byte
}

func newFake(bucket string) *fakeS3 {
	return &fakeS3{bucket: bucket, objects: map[string][]byte{}}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: aws.Int64(int64(len(data))),
	}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{
		ContentLength: aws.Int64(int64(len(data))),
		LastModified:  aws.Time(time.Unix(0, 0)),
	}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) CopyObject(_ context.Context, in *s3.CopyObjectInput, _ ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
	src, err := url.PathUnescape(strings.TrimPrefix(aws.ToString(in.CopySource), f.bucket+"/"))
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[src]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	f.objects[aws.ToString(in.Key)] = append([]byte(nil), data...)
	return &s3.CopyObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	prefix, delim := aws.ToString(in.Prefix), aws.ToString(in.Delimiter)
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	seen := map[string]bool{}
	for _, k := range keys {
		if in.MaxKeys != nil && int32(len(out.Contents)+len(out.CommonPrefixes)) >= *in.MaxKeys {
			break
		}
		rest := strings.TrimPrefix(k, prefix)
		if delim != "" {
			if i := strings.Index(rest, delim); i >= 0 {
				cp := prefix + rest[:i+1]
				if !seen[cp] {
					seen[cp] = true
					out.CommonPrefixes = append(out.CommonPrefixes, types.CommonPrefix{Prefix: aws.String(cp)})
				}
				continue
			}
		}
		out.Contents = append(out.Contents, types.Object{
			Key:  aws.String(k),
			Size: aws.Int64(int64(len(f.objects[k]))),
		})
	}
	return out, nil
}

type fakePresigner struct{}

func (fakePresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{URL: "https://s3.test/" + aws.ToString(in.Key) + "?get", Method: "GET"}, nil
}

func (fakePresigner) PresignPutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{URL: "https://s3.test/" + aws.ToString(in.Key) + "?put", Method: "PUT"}, nil
}

func newS3(t *testing.T) (*fsxs3.S3FileSystem, *fakeS3) {
	t.Helper()
	fake := newFake("files")
	return fsxs3.NewWithAPI(fake, fakePresigner{}, "files", "/uploads/"), fake
}

func TestS3_WriteReadUnderPrefix(t *testing.T) {
	ctx := context.Background()
	s, fake := newS3(t)

	require.NoError(t, s.WriteFile(ctx, "/a/b.txt", []byte("hello")))
	assert.Contains(t, fake.objects, "uploads/a/b.txt")

	data, err := s.ReadFile(ctx, "a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	info, err := s.Stat(ctx, "a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "b.txt", info.Name)
	assert.Equal(t, int64(5), info.Size)
	assert.Equal(t, "text/plain", info.ContentType)

	_, err = s.ReadFile(ctx, "a/missing.txt")
	assert.True(t, errx.IsCode(err, fsx.ErrNotFound))
}

func TestS3_Directories(t *testing.T) {
	ctx := context.Background()
	s, fake := newS3(t)

	require.NoError(t, s.WriteFile(ctx, "/d/one.txt", []byte("1")))
	require.NoError(t, s.WriteFile(ctx, "/d/sub/two.txt", []byte("2")))
	require.NoError(t, s.CreateDir(ctx, "/empty"))
	assert.Contains(t, fake.objects, "uploads/empty/")

	for _, p := range []string{"/", "/d", "/d/sub", "/empty"} {
		info, err := s.Stat(ctx, p)
		require.NoError(t, err, p)
		assert.True(t, info.IsDir, p)
	}

	ok, err := s.Exists(ctx, "/nothing")
	require.NoError(t, err)
	assert.False(t, ok)

	infos, err := s.List(ctx, "/d")
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "one.txt", infos[0].Name)
	assert.False(t, infos[0].IsDir)
	assert.Equal(t, "sub", infos[1].Name)
	assert.True(t, infos[1].IsDir)

	empty, err := s.List(ctx, "/empty")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = s.List(ctx, "/nothing")
	assert.True(t, errx.IsCode(err, fsx.ErrNotFound))
}

func TestS3_DeleteDir(t *testing.T) {
	ctx := context.Background()
	s, fake := newS3(t)

	require.NoError(t, s.WriteFile(ctx, "/x/a.txt", []byte("a")))

	err := s.DeleteDir(ctx, "/x", false)
	assert.True(t, errx.IsCode(err, fsx.ErrInvalidArgument))

	require.NoError(t, s.DeleteDir(ctx, "/x", true))
	assert.Empty(t, fake.objects)

	assert.True(t, errx.IsCode(s.DeleteDir(ctx, "/", true), fsx.ErrInvalidArgument))
}

func TestS3_Copy(t *testing.T) {
	ctx := context.Background()
	s, fake := newS3(t)

	require.NoError(t, s.WriteFile(ctx, "/src/a b.txt", []byte("a")))
	require.NoError(t, s.WriteFile(ctx, "/src/deep/c.txt", []byte("c")))

	require.NoError(t, s.Copy(ctx, "/src/a b.txt", "/one.txt"))
	assert.Equal(t, []byte("a"), fake.objects["uploads/one.txt"])

	require.NoError(t, s.Copy(ctx, "/src", "/dst"))
	assert.Equal(t, []byte("a"), fake.objects["uploads/dst/a b.txt"])
	assert.Equal(t, []byte("c"), fake.objects["uploads/dst/deep/c.txt"])

	assert.True(t, errx.IsCode(s.Copy(ctx, "/src", "/src/again"), fsx.ErrInvalidArgument))
	assert.True(t, errx.IsCode(s.Copy(ctx, "/one.txt", "one.txt"), fsx.ErrInvalidArgument))
	assert.True(t, errx.IsCode(s.Copy(ctx, "/missing", "/dst2"), fsx.ErrNotFound))
}

func TestS3_Presign(t *testing.T) {
	ctx := context.Background()
	s, _ := newS3(t)

	u, err := s.GetPresignedDownloadURL(ctx, "/a.txt", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://s3.test/uploads/a.txt?get", u)

	u, err = s.GetPresignedUploadURL(ctx, "/a.txt", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://s3.test/uploads/a.txt?put", u)

	bare := fsxs3.NewWithAPI(newFake("files"), nil, "files", "")
	_, err = bare.GetPresignedDownloadURL(ctx, "/a.txt", time.Minute)
	assert.True(t, errx.IsCode(err, fsx.ErrUnsupported))
}

func TestS3_WithHelper(t *testing.T) {
	ctx := context.Background()
	s, _ := newS3(t)
	h := fsx.NewHelper(s,
		fsx.WithLogger(logx.NewNop()),
		fsx.WithIDSource(func() string { return "0123456789" }),
	)

	_, err := h.WriteFiles(ctx, []fsx.FileSpec{
		{Path: "/inbox/a.txt", Data: []byte("a")},
		{Path: "/inbox/.keep", Data: []byte("k")},
	})
	require.NoError(t, err)

	files, err := h.GetFiles(ctx, "/inbox/")
	require.NoError(t, err)
	assert.Equal(t, []string{"/inbox/a.txt"}, files)

	name, err := h.GetUniqueFilename(ctx, "/inbox", "json")
	require.NoError(t, err)
	assert.Equal(t, "/inbox/01_012345.json", name)
}
