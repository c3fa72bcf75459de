package textio

import (
	"os"
	"path/filepath"
)

// FindUp attempts to find a named file relative to the current working
// directory, checking every parent directory until one is found.
// It returns stat info and an absolute path, or a nil info if there is no
// such file.
func FindUp(name string) (os.FileInfo, string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, "", err
	}
	return FindUpFrom(wd, name)
}

// FindUpFrom is FindUp starting at dir instead of the working directory.
func FindUpFrom(dir, name string) (os.FileInfo, string, error) {
	if filepath.IsAbs(name) {
		info, err := os.Stat(name)
		if os.IsNotExist(err) {
			return nil, "", nil
		}
		return info, name, err
	}

	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", err
	}
	for {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil {
			return info, path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, "", nil
		}
		dir = parent
	}
}
