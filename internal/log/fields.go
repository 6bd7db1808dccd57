package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration"
	FieldUserAgent  = "user_agent"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldFile       = "file"
	FieldFiles      = "files"
	FieldRows       = "rows"
	FieldMonths     = "months"
	FieldCommand    = "command"
	FieldArgs       = "args"
	FieldExitCode   = "exit_code"
	FieldSource     = "source"
	FieldDest       = "dest"
	FieldDirectory  = "directory"
	FieldAddr       = "addr"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentExpenses  = "expenses"
	ComponentHighlight = "highlight"
	ComponentServe     = "serve"
	ComponentBackup    = "backup"
	ComponentRunner    = "runner"
	ComponentConfig    = "config"
	ComponentHTTP      = "http"
)

// Operations defines standard operation names
const (
	OpParse     = "parse"
	OpAggregate = "aggregate"
	OpRender    = "render"
	OpExec      = "exec"
	OpSync      = "sync"
	OpServe     = "serve"
	OpShutdown  = "shutdown"
	OpStartup   = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithRequestID adds request ID field
func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithCommand adds the fields describing an external process run
func (f LogFields) WithCommand(name string, args []string, exitCode int) LogFields {
	f[FieldCommand] = name
	f[FieldArgs] = args
	f[FieldExitCode] = exitCode
	return f
}

// WithHTTPRequest adds HTTP request fields
func (f LogFields) WithHTTPRequest(method, path, query, userAgent string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	f[FieldUserAgent] = userAgent
	return f
}

// WithHTTPResponse adds HTTP response fields
func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64, success bool) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = success
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
