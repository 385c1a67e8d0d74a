package graph

// Error codes surfaced in the GraphQL error extensions.
const (
	codeUnauthenticated = "UNAUTHENTICATED"
	codeConflict        = "CONFLICT"
	codeNotFound        = "NOT_FOUND"
)

// resolverError is an error with a machine-readable code. The GraphQL engine
// picks up Extensions and includes it in the response error object.
type resolverError struct {
	code    string
	message string
}

func (e *resolverError) Error() string {
	return e.message
}

func (e *resolverError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

func errUnauthenticated(message string) error {
	return &resolverError{code: codeUnauthenticated, message: message}
}

func errConflict(message string) error {
	return &resolverError{code: codeConflict, message: message}
}

func errNotFound(message string) error {
	return &resolverError{code: codeNotFound, message: message}
}
