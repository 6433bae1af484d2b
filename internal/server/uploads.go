package server

import (
	"net/http"
	"os"
)

// fileOnlyFS serves stored files but never directories, so the upload tree
// cannot be listed.
type fileOnlyFS struct {
	fs http.FileSystem
}

func (f fileOnlyFS) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}

	return file, nil
}

func uploadsHandler(dir string) http.Handler {
	return http.FileServer(fileOnlyFS{fs: http.Dir(dir)})
}
