// Package templatesource resolves a PayloadTemplate::File path into bytes,
// dispatching on URI scheme. A bare path with no scheme is read from the
// local filesystem.
package templatesource

import (
	"fmt"
	"net/url"
	"os"
)

// Read loads the contents named by path. path may be a local filesystem
// path, or a URI with scheme s3://, sftp://, or smb:// to fetch the
// template text from a remote store before rendering.
func Read(path string) ([]byte, error) {
	u, err := url.Parse(path)
	if err != nil || u.Scheme == "" {
		return os.ReadFile(path)
	}

	switch u.Scheme {
	case "s3":
		return readS3(u)
	case "sftp":
		return readSFTP(u)
	case "smb":
		return readSMB(u)
	default:
		return nil, fmt.Errorf("templatesource: unsupported scheme %q", u.Scheme)
	}
}
