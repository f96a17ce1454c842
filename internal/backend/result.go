// Package backend calls the business REST API (clients, products, service
// orders, quotes) and reports every outcome as a tagged Result, never as a
// raised error: tool handlers depend on failures staying inside the value.
package backend

// Status tags a backend call outcome.
type Status string

const (
	StatusOK       Status = "ok"
	StatusNotFound Status = "not_found"
	StatusError    Status = "error"
)

// Result is the uniform outcome of one backend call. Payload holds the
// decoded JSON body (object or list) when the call succeeded with content;
// Message carries a human-readable failure description otherwise.
type Result struct {
	Status  Status
	Payload any
	Message string
}

// OK reports whether the call succeeded.
func (r Result) OK() bool { return r.Status == StatusOK }

// AsMap returns the payload as a JSON object, or nil when the payload is
// absent or not an object.
func (r Result) AsMap() map[string]any {
	m, _ := r.Payload.(map[string]any)
	return m
}

func errorResult(msg string) Result {
	return Result{Status: StatusError, Message: msg}
}

func notFoundResult() Result {
	return Result{Status: StatusNotFound, Message: "registro não encontrado"}
}
