package reader

import (
	"regexp"
	"strconv"

	"github.com/nrperez/golisp/internal/lerrors"
	"github.com/nrperez/golisp/internal/token"
	"github.com/nrperez/golisp/internal/types"
)

// Reader consumes a Tokenizer's output with one-token lookahead,
// filters non-semantic tokens (whitespace is never emitted; comments
// are), and builds Values with one-token-lookahead recursive descent.
// This reader's productions ARE the runtime value universe — there is
// no separate AST type.
type Reader struct {
	tok     *Tokenizer
	peeked  *token.Token
	source  string
}

// NewReader builds a Reader over source text.
func NewReader(source string, opts ...TokenizerOption) *Reader {
	return &Reader{tok: NewTokenizer(source, opts...), source: source}
}

var intPattern = regexp.MustCompile(`^-?[0-9]+$`)

func (r *Reader) next() (token.Token, error) {
	if r.peeked != nil {
		t := *r.peeked
		r.peeked = nil
		return t, nil
	}
	return r.nextSemantic()
}

func (r *Reader) peek() (token.Token, error) {
	if r.peeked == nil {
		t, err := r.nextSemantic()
		if err != nil {
			return token.Token{}, err
		}
		r.peeked = &t
	}
	return *r.peeked, nil
}

// nextSemantic pulls tokens from the Tokenizer until it finds one
// that isn't a COMMENT.
func (r *Reader) nextSemantic() (token.Token, error) {
	for {
		t, err := r.tok.Next()
		if err != nil {
			return token.Token{}, err
		}
		if t.Kind == token.COMMENT {
			continue
		}
		return t, nil
	}
}

// ReadForm reads exactly one top-level form. Completely empty or
// comment-only input returns (nil, nil), which callers treat as a
// no-op rather than an error.
func (r *Reader) ReadForm() (types.Value, error) {
	t, err := r.peek()
	if err != nil {
		return nil, err
	}
	if t.Kind == token.EOF {
		return nil, nil
	}
	return r.readForm()
}

func (r *Reader) readForm() (types.Value, error) {
	t, err := r.peek()
	if err != nil {
		return nil, err
	}

	switch t.Kind {
	case token.EOF:
		return nil, lerrors.NewReaderError(lerrors.UnexpectedEOF, "unexpected EOF while reading a form", r.source, t.Pos)
	case token.LPAREN:
		return r.readSeq(token.RPAREN, lerrors.UnbalancedList, func(items []types.Value) types.Value {
			return types.NewList(items...)
		})
	case token.LBRACKET:
		return r.readSeq(token.RBRACKET, lerrors.UnbalancedVec, func(items []types.Value) types.Value {
			return types.NewVec(items...)
		})
	case token.LBRACE:
		return r.readMap()
	case token.RPAREN, token.RBRACKET, token.RBRACE:
		return nil, lerrors.NewReaderError(lerrors.UnexpectedToken, "unexpected '"+t.Literal+"' with no matching opener", r.source, t.Pos)
	case token.QUOTE:
		return r.readWrapped("quote")
	case token.QUASIQUOTE:
		return r.readWrapped("quasiquote")
	case token.UNQUOTE:
		return r.readWrapped("unquote")
	case token.SPLICE_UNQUOTE:
		return r.readWrapped("splice-unquote")
	case token.DEREF:
		return r.readWrapped("deref")
	case token.WITH_META_MARKER:
		_, _ = r.next()
		return nil, lerrors.NewReaderError(lerrors.ReaderUnimplemented, "'^' (with-meta) reader macro is unimplemented", r.source, t.Pos)
	case token.STRING:
		_, _ = r.next()
		return types.Str(t.Literal), nil
	default:
		_, _ = r.next()
		return classifyAtom(t.Literal), nil
	}
}

// readWrapped reads one form and wraps it as (sym form), the
// reader-macro expansion of ' ` ~ ~@ @ into Sym-headed lists.
func (r *Reader) readWrapped(sym string) (types.Value, error) {
	_, _ = r.next() // consume the prefix token
	inner, err := r.readForm()
	if err != nil {
		return nil, err
	}
	return types.NewList(types.Sym(sym), inner), nil
}

func (r *Reader) readSeq(closer token.Kind, unbalancedKind lerrors.ReaderKind, build func([]types.Value) types.Value) (types.Value, error) {
	openTok, _ := r.next() // consume opener
	var items []types.Value
	for {
		t, err := r.peek()
		if err != nil {
			return nil, err
		}
		if t.Kind == token.EOF {
			return nil, lerrors.NewReaderError(unbalancedKind, "EOF reached before closing delimiter", r.source, openTok.Pos)
		}
		if t.Kind == closer {
			_, _ = r.next()
			return build(items), nil
		}
		item, err := r.readForm()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}

func (r *Reader) readMap() (types.Value, error) {
	openTok, _ := r.next() // consume '{'
	var kvs []types.Value
	for {
		t, err := r.peek()
		if err != nil {
			return nil, err
		}
		if t.Kind == token.EOF {
			return nil, lerrors.NewReaderError(lerrors.UnbalancedMap, "EOF reached before closing '}'", r.source, openTok.Pos)
		}
		if t.Kind == token.RBRACE {
			_, _ = r.next()
			break
		}
		v, err := r.readForm()
		if err != nil {
			return nil, err
		}
		kvs = append(kvs, v)
	}

	if len(kvs)%2 != 0 {
		return nil, lerrors.NewReaderError(lerrors.UnbalancedMap, "map literal has an odd number of forms", r.source, openTok.Pos)
	}
	for i := 0; i < len(kvs); i += 2 {
		switch kvs[i].(type) {
		case types.Str, types.Kw:
		default:
			return nil, lerrors.NewReaderError(lerrors.UnbalancedMap, "map keys must be strings or keywords, got "+kvs[i].Type(), r.source, openTok.Pos)
		}
	}
	return types.NewMap(kvs...), nil
}

// classifyAtom maps an atom's literal text to true/false/nil, an Int,
// a Kw (leading colon), or a plain Sym.
func classifyAtom(lit string) types.Value {
	switch lit {
	case "true":
		return types.True
	case "false":
		return types.False
	case "nil":
		return types.Nil
	}
	if intPattern.MatchString(lit) {
		if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return types.Int(n)
		}
	}
	if len(lit) > 0 && lit[0] == ':' {
		return types.Kw(lit)
	}
	return types.Sym(lit)
}
