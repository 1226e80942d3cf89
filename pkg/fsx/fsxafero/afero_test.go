package fsxafero_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/fileutil/pkg/errx"
	"github.com/Abraxas-365/fileutil/pkg/fsx"
	"github.com/Abraxas-365/fileutil/pkg/fsx/fsxafero"
)

var _ fsx.FileSystem = (*fsxafero.FileSystem)(nil)

func TestMemory_WriteReadStream(t *testing.T) {
	ctx := context.Background()
	m := fsxafero.NewMemory()

	require.NoError(t, m.WriteFileStream(ctx, "logs/today.log", bytes.NewBufferString("line\n")))

	r, err := m.ReadFileStream(ctx, "/logs/today.log")
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(data))

	ok, err := afero.Exists(m.Afero(), "/logs/today.log")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemory_StatAndList(t *testing.T) {
	ctx := context.Background()
	m := fsxafero.NewMemory()

	require.NoError(t, m.WriteFile(ctx, "/d/x.csv", []byte("a,b")))
	require.NoError(t, m.CreateDir(ctx, "/d/empty"))

	info, err := m.Stat(ctx, "/d/x.csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", info.ContentType)

	infos, err := m.List(ctx, "/d")
	require.NoError(t, err)
	assert.Len(t, infos, 2)

	_, err = m.Stat(ctx, "/d/none")
	assert.True(t, errx.IsCode(err, fsx.ErrNotFound))
}

func TestMemory_CopyTree(t *testing.T) {
	ctx := context.Background()
	m := fsxafero.NewMemory()

	require.NoError(t, m.WriteFile(ctx, "/t/a.txt", []byte("a")))
	require.NoError(t, m.WriteFile(ctx, "/t/s/b.txt", []byte("b")))

	require.NoError(t, m.Copy(ctx, "/t", "/u"))

	data, err := m.ReadFile(ctx, "/u/s/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))

	assert.True(t, errx.IsCode(m.Copy(ctx, "/t", "/t/again"), fsx.ErrInvalidArgument))
	assert.True(t, errx.IsCode(m.Copy(ctx, "/", "/backup"), fsx.ErrInvalidArgument))

	assert.True(t, errx.IsCode(m.Copy(ctx, "/t/a.txt", "t/a.txt"), fsx.ErrInvalidArgument))
	data, err = m.ReadFile(ctx, "/t/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))
}

func TestMemory_Delete(t *testing.T) {
	ctx := context.Background()
	m := fsxafero.NewMemory()

	require.NoError(t, m.WriteFile(ctx, "/del/a.txt", []byte("a")))
	require.NoError(t, m.DeleteFile(ctx, "/del/a.txt"))
	require.NoError(t, m.DeleteFile(ctx, "/del/a.txt"))

	require.NoError(t, m.DeleteDir(ctx, "/del", true))
	ok, err := m.Exists(ctx, "/del")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, errx.IsCode(m.DeleteDir(ctx, "/", true), fsx.ErrInvalidArgument))
}

func TestBasePath(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	b := fsxafero.NewBasePath(dir)

	require.NoError(t, b.WriteFile(ctx, "/nested/file.txt", []byte("ok")))

	data, err := afero.ReadFile(afero.NewBasePathFs(afero.NewOsFs(), dir), "/nested/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
}
