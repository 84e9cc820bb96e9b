package resource

// Result codes follow HTTP-style numbering but are domain codes, not
// transport statuses: 200 for successful reads, 201 for successful writes,
// 400 for any failure.
const (
	CodeRead    = 200
	CodeWritten = 201
	CodeFailure = 400
)

// Result is the uniform envelope returned by every repository operation.
// Callers branch on the envelope rather than on error types; no operation
// surfaces a raw store or validation error.
type Result struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Read creates a success envelope for a read operation.
func Read(message string, data any) Result {
	return Result{Code: CodeRead, Message: message, Data: data}
}

// Written creates a success envelope for a write operation.
func Written(message string, data any) Result {
	return Result{Code: CodeWritten, Message: message, Data: data}
}

// Failure creates a failure envelope. The code is always 400; the failure
// cause is preserved in the message.
func Failure(message string) Result {
	return Result{Code: CodeFailure, Message: message}
}

// OK reports whether the result is a success envelope.
func (r Result) OK() bool {
	return r.Code != CodeFailure
}
