package server

import (
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/url"
	"path"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/godeploy/godeploy/internal/core/deploy"
)

// SFTPConn abstracts the subset of SFTP operations the client uses.
type SFTPConn interface {
	Open(path string) (io.ReadCloser, error)
	Create(path string) (io.WriteCloser, error)
	MkdirAll(path string) error
	Chmod(path string, mode fs.FileMode) error
	RemoveAll(path string) error
	Close() error
}

// SFTPAdapter adapts sftp.Client to the SFTPConn interface.
type SFTPAdapter struct {
	*sftp.Client
}

// NewSFTPAdapter creates a new SFTPAdapter wrapping the provided client.
func NewSFTPAdapter(client *sftp.Client) SFTPConn {
	return &SFTPAdapter{Client: client}
}

// Open implements SFTPConn
func (a *SFTPAdapter) Open(path string) (io.ReadCloser, error) {
	return a.Client.Open(path)
}

// Create implements SFTPConn
func (a *SFTPAdapter) Create(path string) (io.WriteCloser, error) {
	return a.Client.Create(path)
}

// SFTPClient implements deploy.Client over an SSH connection. The
// connection is established on first use.
type SFTPClient struct {
	cfg  ClientConfig
	ssh  io.Closer
	conn SFTPConn
}

// NewSFTPClient creates an SFTP client for the given configuration
// without dialing.
func NewSFTPClient(cfg ClientConfig) *SFTPClient {
	return &SFTPClient{cfg: cfg}
}

func (c *SFTPClient) connect() error {
	if c.conn != nil {
		return nil
	}

	u := c.cfg.URL
	sshConfig := &ssh.ClientConfig{
		User:            u.User.Username(),
		Auth:            sftpAuthMethods(u),
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         c.cfg.Timeout,
	}

	addr := u.Host
	if u.Port() == "" {
		addr = net.JoinHostPort(u.Hostname(), "22")
	}

	sshClient, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		return &deploy.ConnectionError{Section: u.Host, Cause: err}
	}

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return fmt.Errorf("SFTP session failed: %w", err)
	}

	c.ssh = sshClient
	c.conn = NewSFTPAdapter(sftpClient)
	return nil
}

func sftpAuthMethods(u *url.URL) []ssh.AuthMethod {
	if u.User == nil {
		return nil
	}
	if password, ok := u.User.Password(); ok {
		return []ssh.AuthMethod{ssh.Password(password)}
	}
	return nil
}

// remotePath resolves p under the root encoded in the remote URL.
func (c *SFTPClient) remotePath(p string) string {
	return path.Join(c.cfg.URL.Path, p)
}

// ReadFile implements deploy.Client
func (c *SFTPClient) ReadFile(p string) ([]byte, error) {
	if err := c.connect(); err != nil {
		return nil, err
	}

	f, err := c.conn.Open(c.remotePath(p))
	if err != nil {
		return nil, fmt.Errorf("open remote file %s: %w", p, err)
	}
	defer f.Close()

	return io.ReadAll(f)
}

// WriteFile implements deploy.Client
func (c *SFTPClient) WriteFile(p string, content io.Reader) error {
	if err := c.connect(); err != nil {
		return err
	}

	rp := c.remotePath(p)
	if dir := path.Dir(p); dir != "." && dir != "/" {
		if err := c.MkdirAll(dir); err != nil {
			return err
		}
	}

	f, err := c.conn.Create(rp)
	if err != nil {
		return fmt.Errorf("create remote file %s: %w", p, err)
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		return fmt.Errorf("write remote file %s: %w", p, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close remote file %s: %w", p, err)
	}

	if c.cfg.FilePerm != 0 {
		if err := c.conn.Chmod(rp, c.cfg.FilePerm); err != nil {
			return fmt.Errorf("chmod remote file %s: %w", p, err)
		}
	}
	return nil
}

// MkdirAll implements deploy.Client
func (c *SFTPClient) MkdirAll(p string) error {
	if err := c.connect(); err != nil {
		return err
	}

	rp := c.remotePath(p)
	if err := c.conn.MkdirAll(rp); err != nil {
		return fmt.Errorf("create remote directory %s: %w", p, err)
	}

	if c.cfg.DirPerm != 0 {
		if err := c.conn.Chmod(rp, c.cfg.DirPerm); err != nil {
			return fmt.Errorf("chmod remote directory %s: %w", p, err)
		}
	}
	return nil
}

// Delete implements deploy.Client
func (c *SFTPClient) Delete(p string) error {
	if err := c.connect(); err != nil {
		return err
	}

	if err := c.conn.RemoveAll(c.remotePath(p)); err != nil {
		return fmt.Errorf("delete remote path %s: %w", p, err)
	}
	return nil
}

// Close implements deploy.Client
func (c *SFTPClient) Close() error {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	if c.ssh != nil {
		err := c.ssh.Close()
		c.ssh = nil
		return err
	}
	return nil
}
