package kb

// CodeMap is the pre-supplied parsed-code descriptor input: source file path
// to its parsed contents. How code is parsed into functions and classes is
// an upstream concern; this package only consumes the result.
type CodeMap map[string]SourceFile

// SourceFile describes one parsed source file.
type SourceFile struct {
	Language   string         `json:"language"`
	SourceCode string         `json:"source_code"`
	LineCount  int            `json:"line_count"`
	Functions  []FunctionInfo `json:"functions"`
	Classes    []ClassInfo    `json:"classes"`
}

// FunctionInfo describes one parsed top-level function.
type FunctionInfo struct {
	Name      string `json:"name"`
	Signature string `json:"signature"`
	Code      string `json:"code"`
	Docstring string `json:"docstring"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// ClassInfo describes one parsed class and its methods.
type ClassInfo struct {
	Name      string       `json:"name"`
	Code      string       `json:"code"`
	Docstring string       `json:"docstring"`
	StartLine int          `json:"start_line"`
	EndLine   int          `json:"end_line"`
	Methods   []MethodInfo `json:"methods"`
}

// MethodInfo describes one method of a class.
type MethodInfo struct {
	Name      string `json:"name"`
	Signature string `json:"signature"`
}
