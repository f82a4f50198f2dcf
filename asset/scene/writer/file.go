package writer

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Write data to a temporary file next to filename and rename it into place
// once it has been flushed. The temporary file is removed on failure.
func writeFileAtomic(filename string, data []byte) (err error) {
	dir, base := filepath.Split(filename)
	if dir == "" {
		dir = "."
	}

	f, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, `could not create temporary file for "%s"`, filename)
	}
	tmpName := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err = f.Write(data); err != nil {
		return errors.Wrapf(err, `could not write "%s"`, tmpName)
	}
	if err = f.Sync(); err != nil {
		return errors.Wrapf(err, `could not flush "%s"`, tmpName)
	}
	if err = f.Close(); err != nil {
		return errors.Wrapf(err, `could not close "%s"`, tmpName)
	}
	if err = os.Rename(tmpName, filename); err != nil {
		return errors.Wrapf(err, `could not rename "%s" to "%s"`, tmpName, filename)
	}
	return nil
}
