package domain

import "fmt"

// Error codes surfaced at the transport boundary.
const (
	CodeWrongArguments      = 805
	CodeDataAbsent          = 811
	CodeInvalidActionObject = 812
)

// ErrorKind is the closed enumeration of domain failure kinds. Each kind maps
// to exactly one transport code, but kinds stay distinguishable via errors.Is
// so callers can react to, say, a malformed asset differently from a generic
// argument problem.
type ErrorKind string

const (
	KindWrongArguments ErrorKind = "wrong_arguments"
	KindMalformedAsset ErrorKind = "malformed_asset"
	KindInvalidScale   ErrorKind = "invalid_scale"
	KindDataAbsent     ErrorKind = "data_absent"
	KindInvalidAction  ErrorKind = "invalid_action_object"
)

// Error is a coded domain error carrying the numeric code expected by
// upstream callers of the original wallet service.
type Error struct {
	Kind    ErrorKind
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches errors of the same kind regardless of message detail, so
// errors.Is(err, domain.ErrMalformedAsset) works on decorated instances.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel values for errors.Is checks.
var (
	ErrWrongArguments      = &Error{Kind: KindWrongArguments, Code: CodeWrongArguments, Message: "wrong arguments"}
	ErrMalformedAsset      = &Error{Kind: KindMalformedAsset, Code: CodeWrongArguments, Message: "malformed asset"}
	ErrInvalidScale        = &Error{Kind: KindInvalidScale, Code: CodeWrongArguments, Message: "invalid asset scale"}
	ErrDataAbsent          = &Error{Kind: KindDataAbsent, Code: CodeDataAbsent, Message: "data is absent in base"}
	ErrInvalidActionObject = &Error{Kind: KindInvalidAction, Code: CodeInvalidActionObject, Message: "invalid action object"}
)

// WrongArguments returns an 805 error with a caller-facing detail message.
func WrongArguments(format string, args ...any) *Error {
	return &Error{
		Kind:    KindWrongArguments,
		Code:    CodeWrongArguments,
		Message: fmt.Sprintf(format, args...),
	}
}

// MalformedAsset returns an 805-class error for asset text that does not parse.
func MalformedAsset(text string) *Error {
	return &Error{
		Kind:    KindMalformedAsset,
		Code:    CodeWrongArguments,
		Message: fmt.Sprintf("malformed asset %q", text),
	}
}

// InvalidScale returns an 805-class error for an asset with the wrong number
// of fractional digits.
func InvalidScale(got, want int32) *Error {
	return &Error{
		Kind:    KindInvalidScale,
		Code:    CodeWrongArguments,
		Message: fmt.Sprintf("invalid asset scale %d, must be %d", got, want),
	}
}

// DataAbsent returns an 811 error for a conversion that cannot proceed
// because a required document is missing.
func DataAbsent(format string, args ...any) *Error {
	return &Error{
		Kind:    KindDataAbsent,
		Code:    CodeDataAbsent,
		Message: fmt.Sprintf(format, args...),
	}
}

// InvalidActionObject returns an 812 error for an action without args.
func InvalidActionObject() *Error {
	return &Error{
		Kind:    KindInvalidAction,
		Code:    CodeInvalidActionObject,
		Message: "invalid action object",
	}
}
