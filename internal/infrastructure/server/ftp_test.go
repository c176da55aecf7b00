package server

import (
	"bytes"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFTPConn struct {
	files      map[string][]byte
	stored     map[string][]byte
	madeDirs   []string
	deleted    []string
	recursed   []string
	quit       bool
	deleteErr  error
	recurseErr error
}

func newFakeFTPConn() *fakeFTPConn {
	return &fakeFTPConn{
		files:  map[string][]byte{},
		stored: map[string][]byte{},
	}
}

func (f *fakeFTPConn) Retr(path string) (io.ReadCloser, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, errors.New("550 file not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeFTPConn) Stor(path string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.stored[path] = data
	return nil
}

func (f *fakeFTPConn) MakeDir(path string) error {
	f.madeDirs = append(f.madeDirs, path)
	return nil
}

func (f *fakeFTPConn) Delete(path string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, path)
	return nil
}

func (f *fakeFTPConn) RemoveDirRecur(path string) error {
	if f.recurseErr != nil {
		return f.recurseErr
	}
	f.recursed = append(f.recursed, path)
	return nil
}

func (f *fakeFTPConn) Quit() error {
	f.quit = true
	return nil
}

func newTestFTPClient(t *testing.T, conn FTPConn, rawURL string) *FTPClient {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return &FTPClient{cfg: ClientConfig{URL: u}, conn: conn}
}

func TestFTPReadFile(t *testing.T) {
	conn := newFakeFTPConn()
	conn.files["/www/index.html"] = []byte("<html>")
	client := newTestFTPClient(t, conn, "ftp://example.com/www")

	data, err := client.ReadFile("index.html")

	require.NoError(t, err)
	assert.Equal(t, "<html>", string(data))
}

func TestFTPReadFileMissing(t *testing.T) {
	client := newTestFTPClient(t, newFakeFTPConn(), "ftp://example.com/www")

	_, err := client.ReadFile("missing.txt")

	assert.Error(t, err)
}

func TestFTPWriteFileCreatesParents(t *testing.T) {
	conn := newFakeFTPConn()
	client := newTestFTPClient(t, conn, "ftp://example.com/www")

	err := client.WriteFile("assets/js/app.js", strings.NewReader("var x;"))

	require.NoError(t, err)
	assert.Equal(t, "var x;", string(conn.stored["/www/assets/js/app.js"]))
	assert.Equal(t, []string{"/www/assets", "/www/assets/js"}, conn.madeDirs)
}

func TestFTPWriteFileAtRoot(t *testing.T) {
	conn := newFakeFTPConn()
	client := newTestFTPClient(t, conn, "ftp://example.com/www")

	err := client.WriteFile("index.html", strings.NewReader("x"))

	require.NoError(t, err)
	assert.Empty(t, conn.madeDirs)
	assert.Contains(t, conn.stored, "/www/index.html")
}

func TestFTPDeleteFile(t *testing.T) {
	conn := newFakeFTPConn()
	client := newTestFTPClient(t, conn, "ftp://example.com/www")

	err := client.Delete("old.txt")

	require.NoError(t, err)
	assert.Equal(t, []string{"/www/old.txt"}, conn.deleted)
	assert.Empty(t, conn.recursed)
}

func TestFTPDeleteFallsBackToDirectory(t *testing.T) {
	conn := newFakeFTPConn()
	conn.deleteErr = errors.New("550 not a plain file")
	client := newTestFTPClient(t, conn, "ftp://example.com/www")

	err := client.Delete("old-dir")

	require.NoError(t, err)
	assert.Equal(t, []string{"/www/old-dir"}, conn.recursed)
}

func TestFTPDeleteFailure(t *testing.T) {
	conn := newFakeFTPConn()
	conn.deleteErr = errors.New("550 not a plain file")
	conn.recurseErr = errors.New("550 permission denied")
	client := newTestFTPClient(t, conn, "ftp://example.com/www")

	err := client.Delete("protected")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "protected")
}

func TestFTPClose(t *testing.T) {
	conn := newFakeFTPConn()
	client := newTestFTPClient(t, conn, "ftp://example.com/www")

	require.NoError(t, client.Close())

	assert.True(t, conn.quit)
	assert.Nil(t, client.conn)
	assert.NoError(t, client.Close())
}
