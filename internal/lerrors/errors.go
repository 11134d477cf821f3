// Package lerrors formats reader and runtime errors in a caret-diagnostic
// style, split into a two-part taxonomy: reader errors (malformed source,
// always positioned) and runtime errors (everything raised during eval).
package lerrors

import (
	"fmt"
	"strings"

	"github.com/nrperez/golisp/internal/token"
)

// ReaderKind enumerates the tokenizer/reader error taxonomy. Reader
// errors always carry a position, since the tokenizer already tracks
// byte spans — unlike runtime errors, which carry none.
type ReaderKind int

const (
	UnbalancedEmptyString ReaderKind = iota
	UnbalancedString
	UnbalancedList
	UnbalancedVec
	UnbalancedMap
	UnexpectedToken
	UnexpectedEOF
	ReaderUnimplemented
)

func (k ReaderKind) String() string {
	switch k {
	case UnbalancedEmptyString:
		return "unbalanced empty string"
	case UnbalancedString:
		return "unbalanced string"
	case UnbalancedList:
		return "unbalanced list"
	case UnbalancedVec:
		return "unbalanced vector"
	case UnbalancedMap:
		return "unbalanced map"
	case UnexpectedToken:
		return "unexpected token"
	case UnexpectedEOF:
		return "unexpected EOF"
	case ReaderUnimplemented:
		return "unimplemented"
	default:
		return "reader error"
	}
}

// ReaderError is a single parse-time diagnostic with source position
// and context.
type ReaderError struct {
	Kind    ReaderKind
	Message string
	Source  string
	Pos     token.Position
}

func NewReaderError(kind ReaderKind, message, source string, pos token.Position) *ReaderError {
	return &ReaderError{Kind: kind, Message: message, Source: source, Pos: pos}
}

// Error implements the error interface with a single-line diagnostic.
func (e *ReaderError) Error() string {
	return fmt.Sprintf("reader error at %s: %s", e.Pos, e.Message)
}

// Format renders the error with a caret pointing at the offending
// column.
func (e *ReaderError) Format() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("reader error at %s: %s\n", e.Pos, e.Message))

	line := sourceLine(e.Source, e.Pos.Line)
	if line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
		sb.WriteString("^")
	}
	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatErrors renders one or more ReaderErrors as a numbered list.
func FormatErrors(errs []*ReaderError) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d reader error(s):\n\n", len(errs)))
	for i, e := range errs {
		sb.WriteString(fmt.Sprintf("[%d of %d] ", i+1, len(errs)))
		sb.WriteString(e.Format())
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// RuntimeKind enumerates the evaluator's error taxonomy.
type RuntimeKind int

const (
	LookupError RuntimeKind = iota
	TypeError
	OutOfBounds
	IOError
	UserException
	NotCallable
	Unimplemented
)

func (k RuntimeKind) String() string {
	switch k {
	case LookupError:
		return "lookup error"
	case TypeError:
		return "type error"
	case OutOfBounds:
		return "out of bounds"
	case IOError:
		return "I/O error"
	case UserException:
		return "exception"
	case NotCallable:
		return "not callable"
	case Unimplemented:
		return "unimplemented"
	default:
		return "runtime error"
	}
}

// RuntimeError is the evaluator's error taxonomy. It carries no
// source position and no Value; a value raised by throw travels as a
// *types.Exception error instead, which try*/catch* unwraps without
// reparsing a formatted string (see internal/eval's exceptionValueOf).
type RuntimeError struct {
	Kind    RuntimeKind
	Message string
}

func NewRuntimeError(kind RuntimeKind, format string, args ...any) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *RuntimeError) Error() string {
	return e.Message
}
