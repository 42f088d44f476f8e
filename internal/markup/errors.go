// ABOUTME: Recoverable interpreter errors for malformed markup tokens
// ABOUTME: Each carries the offending token; scanning always continues past it

package markup

import "fmt"

// UnrecognizedTokenError reports a %{...} tag the interpreter does not know.
type UnrecognizedTokenError struct {
	Token string
}

func (e *UnrecognizedTokenError) Error() string {
	return fmt.Sprintf("unrecognized token %q", e.Token)
}

// InvalidColorError reports a color tag whose value does not parse. The
// previous color stays in effect.
type InvalidColorError struct {
	Token string
	Err   error
}

func (e *InvalidColorError) Error() string {
	return fmt.Sprintf("invalid color in token %q: %v", e.Token, e.Err)
}

func (e *InvalidColorError) Unwrap() error { return e.Err }
