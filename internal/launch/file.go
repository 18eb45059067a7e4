package launch

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/tailscale/hujson"
)

const launchVersion = "0.2.0"

// FileRepository stores records in a launch.json file. The file may
// contain comments and trailing commas; Save rewrites only the
// configurations member and keeps everything else.
type FileRepository struct {
	path string
}

// NewFileRepository returns a repository backed by the file at path
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Path returns the backing file path
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the configurations list. A missing file yields no records.
func (r *FileRepository) Load() ([]Record, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read launch file")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", r.path)
	}
	var doc struct {
		Configurations []json.RawMessage `json:"configurations"`
	}
	if err := json.Unmarshal(std, &doc); err != nil {
		return nil, errors.Wrapf(err, "parse %s", r.path)
	}
	return decodeRecords(doc.Configurations)
}

// Save replaces the configurations list with records
func (r *FileRepository) Save(records []Record) error {
	list, err := json.Marshal(encodeRecords(records))
	if err != nil {
		return errors.Wrap(err, "marshal configurations")
	}

	data, err := os.ReadFile(r.path)
	switch {
	case os.IsNotExist(err), err == nil && len(bytes.TrimSpace(data)) == 0:
		data, err = newDocument(list)
	case err == nil:
		data, err = patchDocument(data, list)
	}
	if err != nil {
		return errors.Wrapf(err, "update %s", r.path)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return errors.Wrap(err, "create launch dir")
	}
	return errors.Wrap(os.WriteFile(r.path, data, 0644), "write launch file")
}

func newDocument(list json.RawMessage) ([]byte, error) {
	doc := struct {
		Version        string          `json:"version"`
		Configurations json.RawMessage `json:"configurations"`
	}{launchVersion, list}
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func patchDocument(data []byte, list json.RawMessage) ([]byte, error) {
	value, err := hujson.Parse(data)
	if err != nil {
		return nil, err
	}
	patch, err := json.Marshal([]map[string]any{{
		"op":    "add",
		"path":  "/configurations",
		"value": list,
	}})
	if err != nil {
		return nil, err
	}
	if err := value.Patch(patch); err != nil {
		return nil, err
	}
	value.Format()
	return value.Pack(), nil
}
