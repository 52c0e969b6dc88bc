package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46, 0x00, 0x01}

func TestResolve(t *testing.T) {
	tests := []struct {
		uri  string
		kind SourceKind
		want string
	}{
		{"data:image/jpeg;base64,abcd", KindDataURI, "data:image/jpeg;base64,abcd"},
		{"https://cdn.example.com/a.jpg", KindRemoteURL, "https://cdn.example.com/a.jpg"},
		{"http://cdn.example.com/a.jpg", KindRemoteURL, "http://cdn.example.com/a.jpg"},
		{"file:///tmp/a.jpg", KindLocalFile, "/tmp/a.jpg"},
		{"/tmp/a.jpg", KindLocalFile, "/tmp/a.jpg"},
	}

	for _, tt := range tests {
		src := Resolve(tt.uri)
		assert.Equal(t, tt.kind, src.Kind, tt.uri)
		assert.Equal(t, tt.want, src.URI, tt.uri)
	}
}

func TestMaterialize_DataURI(t *testing.T) {
	m := NewMaterializer(NewOSReader(t.TempDir()), nil)
	uri := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegBytes)

	asset, err := m.Materialize(context.Background(), Resolve(uri), "")
	require.NoError(t, err)

	assert.Equal(t, jpegBytes, asset.Bytes)
	assert.Equal(t, "image/jpeg", asset.MIMEType)
	assert.True(t, strings.HasPrefix(asset.FileName, "upload-"))
	assert.Empty(t, asset.TempPath)
}

func TestMaterialize_DataURIMalformed(t *testing.T) {
	m := NewMaterializer(NewOSReader(t.TempDir()), nil)

	_, err := m.Materialize(context.Background(), Resolve("data:image/jpeg;base64"), "")
	assert.Error(t, err)

	_, err = m.Materialize(context.Background(), Resolve("data:image/jpeg;base64,!!!"), "")
	assert.Error(t, err)
}

func TestMaterialize_RemoteURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(jpegBytes)
	}))
	defer server.Close()

	m := NewMaterializer(NewOSReader(t.TempDir()), nil)
	asset, err := m.Materialize(context.Background(), Resolve(server.URL+"/photos/beach.jpg?sig=abc"), "")
	require.NoError(t, err)

	assert.Equal(t, jpegBytes, asset.Bytes)
	assert.Equal(t, "beach.jpg", asset.FileName)
	assert.Equal(t, "image/jpeg", asset.MIMEType)
}

func TestMaterialize_RemoteFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	m := NewMaterializer(NewOSReader(t.TempDir()), nil)
	_, err := m.Materialize(context.Background(), Resolve(server.URL+"/gone.jpg"), "")

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, fetchErr.URL, "/gone.jpg")
}

func TestMaterialize_RemoteServerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	m := NewMaterializer(NewOSReader(t.TempDir()), nil)
	_, err := m.Materialize(context.Background(), Resolve(server.URL+"/a.jpg"), "")

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
}

func TestMaterialize_LocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pic.jpg")
	require.NoError(t, os.WriteFile(path, jpegBytes, 0o644))

	m := NewMaterializer(NewOSReader(dir), nil)
	asset, err := m.Materialize(context.Background(), Resolve(path), "")
	require.NoError(t, err)

	assert.Equal(t, jpegBytes, asset.Bytes)
	assert.Equal(t, "pic.jpg", asset.FileName)
	assert.Equal(t, "image/jpeg", asset.MIMEType)
	assert.Empty(t, asset.TempPath)
}

func TestMaterialize_LocalFileMissing(t *testing.T) {
	m := NewMaterializer(NewOSReader(t.TempDir()), nil)

	_, err := m.Materialize(context.Background(), Resolve("/nope/missing.jpg"), "")

	var missingErr *FileMissingError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, "/nope/missing.jpg", missingErr.Path)
}

func TestMaterialize_MIMEHintFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noext")
	require.NoError(t, os.WriteFile(path, []byte("plain bytes"), 0o644))

	m := NewMaterializer(NewOSReader(dir), nil)
	asset, err := m.Materialize(context.Background(), Resolve(path), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "image/png", asset.MIMEType)
}

func TestMaterialize_SniffWhenNoExtensionOrHint(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noext")
	require.NoError(t, os.WriteFile(path, jpegBytes, 0o644))

	m := NewMaterializer(NewOSReader(dir), nil)
	asset, err := m.Materialize(context.Background(), Resolve(path), "")
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", asset.MIMEType)
}

func TestSpoolAndCleanup(t *testing.T) {
	dir := t.TempDir()
	m := NewMaterializer(NewOSReader(dir), nil)

	src, err := m.Spool("clip.jpg", bytes.NewReader(jpegBytes))
	require.NoError(t, err)
	assert.True(t, src.Temp)
	assert.Equal(t, KindLocalFile, src.Kind)

	asset, err := m.Materialize(context.Background(), src, "")
	require.NoError(t, err)
	assert.Equal(t, src.URI, asset.TempPath)
	assert.Equal(t, jpegBytes, asset.Bytes)

	m.Cleanup(asset)
	_, statErr := os.Stat(src.URI)
	assert.True(t, os.IsNotExist(statErr))

	// double cleanup is harmless
	m.Cleanup(asset)
}

type readerStub struct {
	files map[string][]byte
}

func (f *readerStub) ReadFile(path string) ([]byte, error) {
	b, ok := f.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return b, nil
}

func (f *readerStub) WriteScratch(ext string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	path := "/virtual/scratch" + ext
	f.files[path] = b
	return path, nil
}

func (f *readerStub) Remove(path string) error {
	delete(f.files, path)
	return nil
}

func TestMaterialize_UsesInjectedReader(t *testing.T) {
	reader := &readerStub{files: map[string][]byte{"/virtual/a.jpg": jpegBytes}}
	m := NewMaterializer(reader, nil)

	asset, err := m.Materialize(context.Background(), Resolve("/virtual/a.jpg"), "")
	require.NoError(t, err)
	assert.Equal(t, jpegBytes, asset.Bytes)

	_, err = m.Materialize(context.Background(), Resolve("/virtual/b.jpg"), "")
	var missingErr *FileMissingError
	require.ErrorAs(t, err, &missingErr)
}
