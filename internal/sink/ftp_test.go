package sink

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFTPSink_Defaults(t *testing.T) {
	s := NewFTPSink(FTPOptions{Addr: "ftp.example.com"})
	assert.Equal(t, "ftp.example.com:21", s.opts.Addr)
	assert.Equal(t, 30*time.Second, s.opts.Timeout)
}

func TestNewFTPSink_ExplicitPortKept(t *testing.T) {
	s := NewFTPSink(FTPOptions{Addr: "ftp.example.com:2121", Timeout: 5 * time.Second})
	assert.Equal(t, "ftp.example.com:2121", s.opts.Addr)
	assert.Equal(t, 5*time.Second, s.opts.Timeout)
}

func TestFTPSink_UploadMissingLocalFile(t *testing.T) {
	s := NewFTPSink(FTPOptions{Addr: "ftp.example.com"})
	err := s.Upload(context.Background(), "/nonexistent/leads.xlsx")
	assert.ErrorContains(t, err, "open local file")
}

func TestFTPSink_UploadDialFailure(t *testing.T) {
	s := NewFTPSink(FTPOptions{
		// Reserved TEST-NET address, nothing listens there.
		Addr:    "192.0.2.1:21",
		Timeout: 100 * time.Millisecond,
	})

	path := filepath.Join(t.TempDir(), "leads.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("stub"), 0o644))

	err := s.Upload(context.Background(), path)
	assert.ErrorContains(t, err, "ftp: dial")
}
