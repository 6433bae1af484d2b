package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// localStore writes objects under a directory and serves them from
// urlPrefix.
type localStore struct {
	dir       string
	urlPrefix string
}

func NewLocal(dir, urlPrefix string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &localStore{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

func (s *localStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean := path.Clean("/" + key)
	target := filepath.Join(s.dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, err
	}

	f, err := os.Create(target)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	n, err := io.Copy(f, io.LimitReader(r, size+1))
	if err != nil {
		return nil, err
	}
	if n != size {
		os.Remove(target)
		return nil, fmt.Errorf("storage: wrote %d bytes, expected %d", n, size)
	}

	return &Object{
		Key:         strings.TrimPrefix(clean, "/"),
		URL:         s.urlPrefix + clean,
		Size:        n,
		ContentType: contentType,
	}, nil
}
