package launch

import (
	"encoding/json"

	"github.com/pkg/errors"

	"pytdbg/internal/domain"
)

// Configuration is the debug launch record written for a single test
type Configuration struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Request    string   `json:"request"`
	Module     string   `json:"module,omitempty"`
	Program    string   `json:"program,omitempty"`
	Args       []string `json:"args"`
	Django     bool     `json:"django"`
	JustMyCode bool     `json:"justMyCode"`
	PythonPath string   `json:"pythonPath,omitempty"`
	Cwd        string   `json:"cwd"`
}

// NewConfiguration maps a launch descriptor onto a launch record. pytest
// runs as a module with the identifier as its only argument; unittest runs
// manage.py test with the dotted identifier.
func NewConfiguration(d domain.LaunchDescriptor) Configuration {
	cfg := Configuration{
		Name:       d.DisplayName,
		Type:       d.DebugOptions.Type,
		Request:    "launch",
		Django:     d.DebugOptions.Django,
		JustMyCode: d.DebugOptions.JustMyCode,
		PythonPath: d.DebugOptions.Interpreter,
		Cwd:        d.WorkingDirectory,
	}
	if d.Runner == domain.RunnerPytest {
		cfg.Module = "pytest"
		cfg.Args = []string{d.TargetID}
		return cfg
	}
	cfg.Program = d.Program
	cfg.Args = []string{"test", d.TargetID}
	if d.DebugOptions.KeepDB {
		cfg.Args = append(cfg.Args, "--keepdb")
	}
	return cfg
}

// Record encodes the configuration as a repository record
func (c Configuration) Record() (Record, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return Record{}, errors.Wrap(err, "marshal launch configuration")
	}
	return Record{Name: c.Name, Raw: raw}, nil
}

// Decode parses a record into a Configuration
func Decode(record Record) (Configuration, error) {
	var cfg Configuration
	if err := json.Unmarshal(record.Raw, &cfg); err != nil {
		return Configuration{}, errors.Wrapf(err, "decode launch configuration %q", record.Name)
	}
	return cfg, nil
}

// Upsert replaces the first record named like record, or appends it
func Upsert(records []Record, record Record) []Record {
	out := append([]Record(nil), records...)
	for i := range out {
		if out[i].Name == record.Name {
			out[i] = record
			return out
		}
	}
	return append(out, record)
}

// Find returns the first record with the given name
func Find(records []Record, name string) (Record, bool) {
	for _, record := range records {
		if record.Name == name {
			return record, true
		}
	}
	return Record{}, false
}

// Write loads the repository, upserts the configuration and saves the
// full list back.
func Write(repo Repository, cfg Configuration) error {
	records, err := repo.Load()
	if err != nil {
		return err
	}
	record, err := cfg.Record()
	if err != nil {
		return err
	}
	return repo.Save(Upsert(records, record))
}
