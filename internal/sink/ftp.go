package sink

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// FTPOptions configures the FTP sink.
type FTPOptions struct {
	Addr     string // host or host:port; port defaults to 21
	User     string
	Password string
	Dir      string // remote directory for uploads, "" for the login root
	Timeout  time.Duration
}

// FTPSink uploads files to an FTP drop directory.
type FTPSink struct {
	opts FTPOptions
}

// NewFTPSink creates a new FTPSink with the given options.
func NewFTPSink(opts FTPOptions) *FTPSink {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if _, _, err := net.SplitHostPort(opts.Addr); err != nil {
		opts.Addr = net.JoinHostPort(opts.Addr, "21")
	}
	return &FTPSink{opts: opts}
}

// Upload stores the local file on the server under its base name. The
// connection is opened and closed per call; runs are infrequent enough
// that keeping a session alive buys nothing.
func (s *FTPSink) Upload(ctx context.Context, localPath string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return eris.Wrap(err, "ftp: open local file")
	}
	defer file.Close()

	zap.L().Debug("ftp: connecting", zap.String("addr", s.opts.Addr))

	conn, err := ftp.Dial(s.opts.Addr, ftp.DialWithTimeout(s.opts.Timeout), ftp.DialWithContext(ctx))
	if err != nil {
		return eris.Wrap(err, "ftp: dial")
	}
	defer conn.Quit()

	if err := conn.Login(s.opts.User, s.opts.Password); err != nil {
		return eris.Wrap(err, "ftp: login")
	}

	if s.opts.Dir != "" {
		if err := conn.ChangeDir(s.opts.Dir); err != nil {
			return eris.Wrap(err, "ftp: change dir")
		}
	}

	name := filepath.Base(localPath)
	if err := conn.Stor(name, file); err != nil {
		return eris.Wrap(err, "ftp: store")
	}

	zap.L().Info("ftp: uploaded", zap.String("name", name), zap.String("dir", s.opts.Dir))
	return nil
}
