// Package fsxs3 implements fsx.FileSystem on an S3 bucket.
//
// Directories are key prefixes. CreateDir stores an empty "dir/" marker
// object so empty directories still exist; listing and copying work on the
// prefix, so directories created implicitly by writes behave the same.
package fsxs3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/Abraxas-365/fileutil/pkg/asyncx"
	"github.com/Abraxas-365/fileutil/pkg/errx"
	"github.com/Abraxas-365/fileutil/pkg/fsx"
	"github.com/Abraxas-365/fileutil/pkg/pathx"
)

const deleteWorkers = 8

// API is the subset of *s3.Client the file system needs
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	s3.ListObjectsV2APIClient
}

// Presigner is the subset of *s3.PresignClient used for presigned URLs
type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3FileSystem implements fsx.FileSystemWithPresign
type S3FileSystem struct {
	client    API
	presigner Presigner
	bucket    string
	prefix    string
}

// NewS3FileSystem stores every path under prefix in bucket
func NewS3FileSystem(client *s3.Client, bucket, prefix string) *S3FileSystem {
	return NewWithAPI(client, s3.NewPresignClient(client), bucket, prefix)
}

// NewWithAPI builds the file system on any API implementation. A nil
// presigner disables presigned URLs.
func NewWithAPI(client API, presigner Presigner, bucket, prefix string) *S3FileSystem {
	return &S3FileSystem{
		client:    client,
		presigner: presigner,
		bucket:    bucket,
		prefix:    strings.Trim(prefix, "/"),
	}
}

// Bucket returns the bucket name
func (s *S3FileSystem) Bucket() string {
	return s.bucket
}

// ============================================================================
// FileReader Implementation
// ============================================================================

func (s *S3FileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	body, err := s.ReadFileStream(ctx, p)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fsx.IOError("read", p, err)
	}
	return data, nil
}

func (s *S3FileSystem) ReadFileStream(ctx context.Context, p string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(p)),
	})
	if err != nil {
		return nil, classify("read", p, err)
	}
	return out.Body, nil
}

func (s *S3FileSystem) Stat(ctx context.Context, p string) (fsx.FileInfo, error) {
	key := s.key(p)
	if key != s.prefix {
		head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err == nil {
			return fsx.FileInfo{
				Name:        path.Base(key),
				Size:        aws.ToInt64(head.ContentLength),
				ModTime:     aws.ToTime(head.LastModified),
				ContentType: contentType(aws.ToString(head.ContentType), key),
				Metadata:    head.Metadata,
			}, nil
		}
		if !isNotFound(err) {
			return fsx.FileInfo{}, fsx.IOError("stat", p, err)
		}
	}

	found, err := s.hasPrefix(ctx, s.dirPrefix(p))
	if err != nil {
		return fsx.FileInfo{}, fsx.IOError("stat", p, err)
	}
	if !found && key != s.prefix {
		return fsx.FileInfo{}, fsx.NotFoundError(p)
	}
	return fsx.FileInfo{
		Name:     path.Base("/" + key),
		IsDir:    true,
		Metadata: map[string]string{},
	}, nil
}

// List returns files and sub-directories directly below p
func (s *S3FileSystem) List(ctx context.Context, p string) ([]fsx.FileInfo, error) {
	prefix := s.dirPrefix(p)
	pager := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	var (
		infos []fsx.FileInfo
		seen  bool
	)
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fsx.IOError("list", p, err)
		}

		for _, cp := range page.CommonPrefixes {
			seen = true
			name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), prefix), "/")
			infos = append(infos, fsx.FileInfo{Name: name, IsDir: true, Metadata: map[string]string{}})
		}
		for _, obj := range page.Contents {
			seen = true
			key := aws.ToString(obj.Key)
			if key == prefix {
				continue // directory marker
			}
			name := strings.TrimPrefix(key, prefix)
			infos = append(infos, fsx.FileInfo{
				Name:        name,
				Size:        aws.ToInt64(obj.Size),
				ModTime:     aws.ToTime(obj.LastModified),
				ContentType: pathx.ContentType(name),
				Metadata:    map[string]string{"etag": aws.ToString(obj.ETag)},
			})
		}
	}

	if !seen && s.key(p) != s.prefix {
		return nil, fsx.NotFoundError(p)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

func (s *S3FileSystem) Exists(ctx context.Context, p string) (bool, error) {
	_, err := s.Stat(ctx, p)
	if err == nil {
		return true, nil
	}
	if errx.IsCode(err, fsx.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// ============================================================================
// FileWriter Implementation
// ============================================================================

func (s *S3FileSystem) WriteFile(ctx context.Context, p string, data []byte) error {
	key := s.key(p)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(pathx.ContentType(key)),
	})
	if err != nil {
		return fsx.IOError("write", p, err)
	}
	return nil
}

// WriteFileStream buffers r; PutObject needs a known length to sign the request
func (s *S3FileSystem) WriteFileStream(ctx context.Context, p string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fsx.IOError("write", p, err)
	}
	return s.WriteFile(ctx, p, data)
}

func (s *S3FileSystem) CreateDir(ctx context.Context, p string) error {
	if s.key(p) == s.prefix {
		return nil
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.dirPrefix(p)),
		Body:          bytes.NewReader(nil),
		ContentLength: aws.Int64(0),
	})
	if err != nil {
		return fsx.IOError("mkdir", p, err)
	}
	return nil
}

// ============================================================================
// FileDeleter Implementation
// ============================================================================

func (s *S3FileSystem) DeleteFile(ctx context.Context, p string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(p)),
	})
	if err != nil && !isNotFound(err) {
		return fsx.IOError("delete", p, err)
	}
	return nil
}

func (s *S3FileSystem) DeleteDir(ctx context.Context, p string, recursive bool) error {
	if s.key(p) == s.prefix {
		return fsx.InvalidArgumentError("path", errors.New("refusing to delete the root prefix"))
	}

	prefix := s.dirPrefix(p)
	keys, err := s.keysUnder(ctx, prefix)
	if err != nil {
		return fsx.IOError("delete", p, err)
	}
	if !recursive {
		for _, k := range keys {
			if k != prefix {
				return fsx.InvalidArgumentError("recursive", fmt.Errorf("directory %s is not empty", p))
			}
		}
	}

	_, err = asyncx.Pool(ctx, deleteWorkers, keys, func(ctx context.Context, k string) (struct{}, error) {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(k),
		})
		if err != nil && !isNotFound(err) {
			return struct{}{}, fsx.IOError("delete", p, err)
		}
		return struct{}{}, nil
	})
	return err
}

// ============================================================================
// FileCopier Implementation
// ============================================================================

// Copy copies one object, or every object below a prefix
func (s *S3FileSystem) Copy(ctx context.Context, src, dst string) error {
	info, err := s.Stat(ctx, src)
	if err != nil {
		return err
	}
	if !info.IsDir {
		if s.key(src) == s.key(dst) {
			return fsx.InvalidArgumentError("dst", fmt.Errorf("cannot copy %s onto itself", src))
		}
		return s.copyObject(ctx, s.key(src), s.key(dst))
	}

	from, to := s.dirPrefix(src), s.dirPrefix(dst)
	if from == "" || strings.HasPrefix(to, from) {
		return fsx.InvalidArgumentError("dst", fmt.Errorf("cannot copy %s into itself", src))
	}

	keys, err := s.keysUnder(ctx, from)
	if err != nil {
		return fsx.IOError("copy", src, err)
	}
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.copyObject(ctx, k, to+strings.TrimPrefix(k, from)); err != nil {
			return err
		}
	}
	return nil
}

// ============================================================================
// PathOperations Implementation
// ============================================================================

func (s *S3FileSystem) Join(elem ...string) string {
	return path.Join(elem...)
}

// ============================================================================
// PresignedURLGenerator Implementation
// ============================================================================

func (s *S3FileSystem) GetPresignedDownloadURL(ctx context.Context, p string, expiration time.Duration) (string, error) {
	if s.presigner == nil {
		return "", fsx.UnsupportedError("presign")
	}
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(p)),
	}, s3.WithPresignExpires(expiration))
	if err != nil {
		return "", fsx.IOError("presign", p, err)
	}
	return req.URL, nil
}

func (s *S3FileSystem) GetPresignedUploadURL(ctx context.Context, p string, expiration time.Duration) (string, error) {
	if s.presigner == nil {
		return "", fsx.UnsupportedError("presign")
	}
	key := s.key(p)
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(pathx.ContentType(key)),
	}, s3.WithPresignExpires(expiration))
	if err != nil {
		return "", fsx.IOError("presign", p, err)
	}
	return req.URL, nil
}

// ============================================================================
// Helper Methods
// ============================================================================

// key maps a path to its object key; the root maps to the bare prefix
func (s *S3FileSystem) key(p string) string {
	k := strings.TrimPrefix(path.Clean("/"+p), "/")
	if s.prefix == "" {
		return k
	}
	if k == "" {
		return s.prefix
	}
	return s.prefix + "/" + k
}

// dirPrefix is the listing prefix of p, ending in "/" unless it is the bucket root
func (s *S3FileSystem) dirPrefix(p string) string {
	k := s.key(p)
	if k == "" {
		return ""
	}
	return k + "/"
}

func (s *S3FileSystem) hasPrefix(ctx context.Context, prefix string) (bool, error) {
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return false, err
	}
	return len(out.Contents) > 0 || len(out.CommonPrefixes) > 0, nil
}

func (s *S3FileSystem) keysUnder(ctx context.Context, prefix string) ([]string, error) {
	pager := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	var keys []string
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}

func (s *S3FileSystem) copyObject(ctx context.Context, srcKey, dstKey string) error {
	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		Key:        aws.String(dstKey),
		CopySource: aws.String(s.bucket + "/" + escapeKey(srcKey)),
	})
	if err != nil {
		return classify("copy", srcKey, err)
	}
	return nil
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

func contentType(reported, key string) string {
	if reported != "" {
		return reported
	}
	return pathx.ContentType(key)
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound)
}

func classify(op, p string, err error) error {
	if isNotFound(err) {
		return fsx.NotFoundError(p)
	}
	return fsx.IOError(op, p, err)
}
