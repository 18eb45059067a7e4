package domain

// TestTarget is the test selected by a single user action
type TestTarget struct {
	FilePath     string     // Absolute path to the test file
	Line         int        // Zero-based line of the def statement
	ClassName    string     // Enclosing class, empty when none was found
	FunctionName string     // Test function name including the test_ prefix
	Runner       RunnerKind // Runner the identifier is built for
}

// HasClass reports whether an enclosing class was found
func (t TestTarget) HasClass() bool {
	return t.ClassName != ""
}

// Trigger marks a line that declares a runnable test function
type Trigger struct {
	FunctionName string `json:"function_name"`
	Line         int    `json:"line"`       // Zero-based line index
	Column       int    `json:"column"`     // First non-whitespace character, in UTF-16 code units
	EndColumn    int    `json:"end_column"` // Length of the line, in UTF-16 code units
}

// IndexedTest is a trigger resolved against its file and project root
type IndexedTest struct {
	Trigger
	ClassName  string `json:"class_name,omitempty"`
	PytestID   string `json:"pytest_id"`
	UnittestID string `json:"unittest_id"`
}

// ID returns the identifier for the given runner
func (t IndexedTest) ID(runner RunnerKind) string {
	if runner == RunnerUnittest {
		return t.UnittestID
	}
	return t.PytestID
}

// FileTriggers holds every test found in one file
type FileTriggers struct {
	Path    string        `json:"path"`
	RelPath string        `json:"rel_path"`
	Tests   []IndexedTest `json:"tests"`
	Err     error         `json:"-"`
}
