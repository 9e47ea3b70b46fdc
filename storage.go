package geoid

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

var ErrReadOnlyStorage = errors.New("model storage is read-only")

// ModelStorage is where model files are kept.
type ModelStorage interface {
	LoadFile(fileName string) ([]byte, error)
	SaveFile(fileName string, contents []byte) error
	IsNotExists(err error) bool
}

// LocalFileModelStorage keeps model files in a local directory.
type LocalFileModelStorage struct {
	directory string
}

// NewLocalFileModelStorage uses directory, or the current directory when
// empty. The directory is created if needed.
func NewLocalFileModelStorage(directory string) (*LocalFileModelStorage, error) {
	if directory == "" {
		directory = "."
	}
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return nil, err
	}
	return &LocalFileModelStorage{directory: directory}, nil
}

func (s *LocalFileModelStorage) LoadFile(fileName string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.directory, filepath.Base(fileName)))
}

func (s *LocalFileModelStorage) SaveFile(fileName string, contents []byte) error {
	return os.WriteFile(filepath.Join(s.directory, filepath.Base(fileName)), contents, 0o644)
}

func (s *LocalFileModelStorage) IsNotExists(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// FSModelStorage reads model files from an fs.FS, such as an embed.FS
// holding models compiled into the binary.
type FSModelStorage struct {
	fsys fs.FS
	dir  string
}

func NewFSModelStorage(fsys fs.FS, dir string) *FSModelStorage {
	if dir == "" {
		dir = "."
	}
	return &FSModelStorage{fsys: fsys, dir: dir}
}

func (s *FSModelStorage) LoadFile(fileName string) ([]byte, error) {
	return fs.ReadFile(s.fsys, path.Join(s.dir, path.Base(fileName)))
}

func (s *FSModelStorage) SaveFile(string, []byte) error {
	return ErrReadOnlyStorage
}

func (s *FSModelStorage) IsNotExists(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
