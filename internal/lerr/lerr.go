// Package lerr defines the error taxonomy shared by every lapimposteur
// component. Errors carry a stable Kind so callers (and tests) can branch on
// failure category without parsing message text.
package lerr

import "fmt"

// Kind is one of the named error categories from the imposter spec.
type Kind string

const (
	KindConfigLoad          Kind = "ConfigLoad"
	KindConnectFailure      Kind = "ConnectFailure"
	KindChannelSetup        Kind = "ChannelSetup"
	KindQueueDeclare        Kind = "QueueDeclare"
	KindQueueBind           Kind = "QueueBind"
	KindConsumeSetup        Kind = "ConsumeSetup"
	KindEnvMissing          Kind = "EnvMissing"
	KindEnvParse            Kind = "EnvParse"
	KindHeaderMissing       Kind = "HeaderMissing"
	KindHeaderTypeMismatch  Kind = "HeaderTypeMismatch"
	KindJsonParse           Kind = "JsonParse"
	KindJsonPathCompile     Kind = "JsonPathCompile"
	KindJsonPathNoMatch     Kind = "JsonPathNoMatch"
	KindJsonPathAmbiguous   Kind = "JsonPathAmbiguous"
	KindJsonPathDeserialize Kind = "JsonPathDeserialize"
	KindBadKind             Kind = "BadKind"
	KindVariableNotFound    Kind = "VariableNotFound"
	KindVariableTypeMismatch Kind = "VariableTypeMismatch"
	KindReplyToMissing      Kind = "ReplyToMissing"
	KindTemplateCompile     Kind = "TemplateCompile"
	KindTemplateRender      Kind = "TemplateRender"
	KindFileRead            Kind = "FileRead"
	KindNotUtf8             Kind = "NotUtf8"
	KindPublishFailure      Kind = "PublishFailure"
	KindAckFailure          Kind = "AckFailure"

	// Kinds for the SqlQuery Var source.
	KindSqlConnect      Kind = "SqlConnect"
	KindSqlQuery        Kind = "SqlQuery"
	KindSqlNoRows       Kind = "SqlNoRows"
	KindSqlAmbiguous    Kind = "SqlAmbiguous"
	KindSqlTypeCoercion Kind = "SqlTypeCoercion"
)

// Error wraps an underlying error with a stable Kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err under kind.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Newf formats a new error under kind.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if le, ok := err.(*Error); ok {
		return le.Kind == kind
	}
	_ = e
	return false
}
