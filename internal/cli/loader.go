package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// jobSchema constrains the "job" value of a job file.
const jobSchema = `
#Job: {
	dataset:     string
	relation?:   string
	support?:    number & >0 & <=1
	confidence?: number & >0 & <=1
	filter?: {
		support?:    bool
		confidence?: bool
	}
	missing?: "keep" | "drop" | "fill"
	bin?: [string]: int & >0
	output?: {
		format?: "none" | "json" | "json-pretty" | "weka"
		file?:   string
	}
	partitions?: int & >=1
	sort?:       "default" | "support" | "confidence"
	db?:         string
}
`

// Job is a mining run described in a CUE file:
//
//	job: {
//		dataset:    "weather.arff"
//		support:    0.5
//		confidence: 0.5
//		missing:    "drop"
//		bin: age: 10
//		output: {format: "weka", file: "weather.txt"}
//	}
//
// Unset fields keep the corresponding flag's value.
type Job struct {
	Dataset    string         `json:"dataset"`
	Relation   string         `json:"relation,omitempty"`
	Support    *float64       `json:"support,omitempty"`
	Confidence *float64       `json:"confidence,omitempty"`
	Filter     JobFilter      `json:"filter"`
	Missing    string         `json:"missing,omitempty"`
	Bin        map[string]int `json:"bin,omitempty"`
	Output     JobOutput      `json:"output"`
	Partitions int            `json:"partitions,omitempty"`
	Sort       string         `json:"sort,omitempty"`
	Database   string         `json:"db,omitempty"`
}

// JobFilter toggles the support and confidence filters.
type JobFilter struct {
	Support    *bool `json:"support,omitempty"`
	Confidence *bool `json:"confidence,omitempty"`
}

// JobOutput selects the report format and file.
type JobOutput struct {
	Format string `json:"format,omitempty"`
	File   string `json:"file,omitempty"`
}

// LoadError represents an error that occurred while loading a job file.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants, shared across CLI commands.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeNotFound      = "E005" // Path or saved run not found
	ErrCodeBuildFailed   = "E006" // CUE build failed
	ErrCodeWriteFailed   = "E007" // File write error
	ErrCodeInvalidJob    = "E101" // Job does not match the schema
	ErrCodeMiningFailed  = "E201" // Mining run failed
	ErrCodeStoreFailed   = "E202" // Result store error
	ErrCodeImportFailed  = "E203" // SQL import failed
	ErrCodeInvalidConfig = "E204" // Invalid thresholds or dataset configuration
)

// LoadJob reads a CUE job file and validates it against the job schema.
// A relative dataset or output path is resolved against the job file's
// directory.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("job file not found: %s", path)}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(jobSchema, cue.Filename("job-schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(ErrCodeBuildFailed, err)
	}

	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, formatCUEError(ErrCodeBuildFailed, err)
	}

	jobVal := value.LookupPath(cue.ParsePath("job"))
	if !jobVal.Exists() {
		return nil, &LoadError{Code: ErrCodeInvalidJob, Message: "no job value found", Pos: value.Pos()}
	}

	checked := schema.LookupPath(cue.ParsePath("#Job")).Unify(jobVal)
	if err := checked.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(ErrCodeInvalidJob, err)
	}

	var job Job
	if err := checked.Decode(&job); err != nil {
		return nil, formatCUEError(ErrCodeInvalidJob, err)
	}

	dir := filepath.Dir(path)
	job.Dataset = resolvePath(dir, job.Dataset)
	if job.Output.File != "" {
		job.Output.File = resolvePath(dir, job.Output.File)
	}
	return &job, nil
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(code string, err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}

	first := errs[0]
	loadErr := &LoadError{Code: code, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		loadErr.Pos = positions[0]
	}
	return loadErr
}
