// Package export writes and reads the clip collection document.
package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/sells-group/barmania-cli/internal/model"
)

// Encode renders clips as a JSON array indented by two spaces. Each record
// keeps the key order it arrived with. A nil slice encodes as [].
func Encode(clips []model.Clip) ([]byte, error) {
	if clips == nil {
		clips = []model.Clip{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(clips); err != nil {
		return nil, eris.Wrap(err, "export: encode clips")
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// WriteClips replaces the file at path with the encoded clips. The data goes
// to a temp file in the same directory first and is renamed into place.
func WriteClips(path string, clips []model.Clip) error {
	data, err := Encode(clips)
	if err != nil {
		return err
	}

	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return eris.Wrapf(err, "export: create temp file for %s", path)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return eris.Wrapf(err, "export: write %s", tmpName)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() //nolint:errcheck
		return eris.Wrapf(err, "export: sync %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrapf(err, "export: close %s", tmpName)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return eris.Wrapf(err, "export: chmod %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return eris.Wrapf(err, "export: rename to %s", path)
	}
	return nil
}

// ReadClips loads a clip collection written by WriteClips. Numbers are kept
// as json.Number.
func ReadClips(path string) ([]model.Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "export: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	dec := json.NewDecoder(f)
	dec.UseNumber()

	var clips []model.Clip
	if err := dec.Decode(&clips); err != nil {
		return nil, eris.Wrapf(err, "export: decode %s", path)
	}
	if clips == nil {
		clips = []model.Clip{}
	}
	return clips, nil
}
