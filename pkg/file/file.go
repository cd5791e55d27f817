// Package file holds the file helpers of the flightdata CLI.
package file

import (
	"io"
	"os"
	"path/filepath"
)

// Dir return file dir
func Dir(filename string) string {
	return filepath.Dir(filename)
}

// Mkdir create dir like mkdir -p
func Mkdir(fpath string) error {
	return os.MkdirAll(fpath, os.ModePerm)
}

// Exists check is file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	if err != nil {
		return os.IsExist(err)
	}
	return true
}

// Create creates or truncates the named file, creating missing parent dirs.
func Create(path string) (*os.File, error) {
	dir := Dir(path)
	if !Exists(dir) {
		if err := Mkdir(dir); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

// PutContents write content to given file
func PutContents(path string, content []byte) error {
	f, err := Create(path)
	if err != nil {
		return err
	}
	n, err := f.Write(content)
	if err == nil && n < len(content) {
		err = io.ErrShortWrite
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// WriteFile calls write with a temp file next to path and renames it to path
// once write succeeds. On any error path is left untouched and the temp file
// is removed.
func WriteFile(path string, write func(w io.Writer) error) (err error) {
	dir := Dir(path)
	if !Exists(dir) {
		if err := Mkdir(dir); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
