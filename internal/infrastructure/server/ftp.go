package server

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"path"
	"strings"

	"github.com/jlaffaye/ftp"

	"github.com/godeploy/godeploy/internal/core/deploy"
)

// FTPConn abstracts the subset of FTP operations the client uses.
type FTPConn interface {
	Retr(path string) (io.ReadCloser, error)
	Stor(path string, r io.Reader) error
	MakeDir(path string) error
	Delete(path string) error
	RemoveDirRecur(path string) error
	Quit() error
}

// FTPAdapter adapts ftp.ServerConn to the FTPConn interface.
type FTPAdapter struct {
	*ftp.ServerConn
}

// NewFTPAdapter creates a new FTPAdapter wrapping the provided connection.
func NewFTPAdapter(conn *ftp.ServerConn) FTPConn {
	return &FTPAdapter{ServerConn: conn}
}

// Retr implements FTPConn
func (a *FTPAdapter) Retr(path string) (io.ReadCloser, error) {
	return a.ServerConn.Retr(path)
}

// FTPClient implements deploy.Client over plain or explicit-TLS FTP.
// The connection is established on first use. The protocol has no
// portable chmod, so permission masks are not applied.
type FTPClient struct {
	cfg  ClientConfig
	conn FTPConn
}

// NewFTPClient creates an FTP client for the given configuration
// without dialing.
func NewFTPClient(cfg ClientConfig) *FTPClient {
	return &FTPClient{cfg: cfg}
}

func (c *FTPClient) connect() error {
	if c.conn != nil {
		return nil
	}

	u := c.cfg.URL
	addr := u.Host
	if u.Port() == "" {
		addr = net.JoinHostPort(u.Hostname(), "21")
	}

	opts := []ftp.DialOption{ftp.DialWithTimeout(c.cfg.Timeout)}
	if u.Scheme == "ftps" {
		opts = append(opts, ftp.DialWithExplicitTLS(&tls.Config{ServerName: u.Hostname()}))
	}
	if c.cfg.Passive {
		opts = append(opts, ftp.DialWithDisabledEPSV(true))
	}

	conn, err := ftp.Dial(addr, opts...)
	if err != nil {
		return &deploy.ConnectionError{Section: u.Host, Cause: err}
	}

	user := "anonymous"
	password := "anonymous"
	if u.User != nil {
		user = u.User.Username()
		if p, ok := u.User.Password(); ok {
			password = p
		}
	}
	if err := conn.Login(user, password); err != nil {
		conn.Quit()
		return &deploy.ConnectionError{Section: u.Host, Cause: fmt.Errorf("login failed: %w", err)}
	}

	c.conn = NewFTPAdapter(conn)
	return nil
}

func (c *FTPClient) remotePath(p string) string {
	return path.Join(c.cfg.URL.Path, p)
}

// ReadFile implements deploy.Client
func (c *FTPClient) ReadFile(p string) ([]byte, error) {
	if err := c.connect(); err != nil {
		return nil, err
	}

	r, err := c.conn.Retr(c.remotePath(p))
	if err != nil {
		return nil, fmt.Errorf("retrieve remote file %s: %w", p, err)
	}
	defer r.Close()

	return io.ReadAll(r)
}

// WriteFile implements deploy.Client
func (c *FTPClient) WriteFile(p string, content io.Reader) error {
	if err := c.connect(); err != nil {
		return err
	}

	if dir := path.Dir(p); dir != "." && dir != "/" {
		if err := c.MkdirAll(dir); err != nil {
			return err
		}
	}

	buf, err := io.ReadAll(content)
	if err != nil {
		return fmt.Errorf("read content for %s: %w", p, err)
	}
	if err := c.conn.Stor(c.remotePath(p), bytes.NewReader(buf)); err != nil {
		return fmt.Errorf("store remote file %s: %w", p, err)
	}
	return nil
}

// MkdirAll implements deploy.Client. FTP has no recursive MKD, so each
// path segment is created in turn; already-existing directories are
// reported as errors by most servers and ignored here.
func (c *FTPClient) MkdirAll(p string) error {
	if err := c.connect(); err != nil {
		return err
	}

	current := c.cfg.URL.Path
	for _, segment := range strings.Split(strings.Trim(p, "/"), "/") {
		if segment == "" || segment == "." {
			continue
		}
		current = path.Join(current, segment)
		// best effort: exists-errors are indistinguishable from real
		// failures until the final Stor surfaces them
		_ = c.conn.MakeDir(current)
	}
	return nil
}

// Delete implements deploy.Client. Files and directories arrive through
// the same call, so a failed DELE falls back to recursive directory
// removal.
func (c *FTPClient) Delete(p string) error {
	if err := c.connect(); err != nil {
		return err
	}

	rp := c.remotePath(p)
	if err := c.conn.Delete(rp); err == nil {
		return nil
	}
	if err := c.conn.RemoveDirRecur(rp); err != nil {
		return fmt.Errorf("delete remote path %s: %w", p, err)
	}
	return nil
}

// Close implements deploy.Client
func (c *FTPClient) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Quit()
	c.conn = nil
	return err
}
