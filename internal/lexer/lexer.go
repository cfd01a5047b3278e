// Package lexer provides a whitespace-delimited token reader over the
// fixed-grammar chip description format, with typed extraction helpers for
// the chip loader.
package lexer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrTruncatedInput is returned when a token is demanded past end-of-stream.
var ErrTruncatedInput = errors.New("truncated input")

// ErrSyntaxError is returned when Expect mismatches or integer parsing fails.
var ErrSyntaxError = errors.New("syntax error")

// Reader splits input on ASCII whitespace and exposes typed token
// extraction. It carries no line numbers; diagnostics attach only the
// expected keyword or value kind.
type Reader struct {
	sc   *bufio.Scanner
	next string
	have bool
}

// New returns a Reader over r.
func New(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)
	return &Reader{sc: sc}
}

// NewFromString returns a Reader over s.
func NewFromString(s string) *Reader {
	return New(strings.NewReader(s))
}

func (r *Reader) fill() bool {
	if r.have {
		return true
	}
	if r.sc.Scan() {
		r.next = r.sc.Text()
		r.have = true
		return true
	}
	return false
}

// TakeToken returns the next whitespace-delimited token, or
// ErrTruncatedInput if the stream is exhausted.
func (r *Reader) TakeToken() (string, error) {
	if !r.fill() {
		return "", fmt.Errorf("lexer: expected a token: %w", ErrTruncatedInput)
	}
	tok := r.next
	r.have = false
	return tok, nil
}

// Peek returns the next token without consuming it.
func (r *Reader) Peek() (string, bool) {
	if !r.fill() {
		return "", false
	}
	return r.next, true
}

// AtEnd reports whether no tokens remain.
func (r *Reader) AtEnd() bool {
	return !r.fill()
}

// TakeInt reads the next token and parses it as an integer.
func (r *Reader) TakeInt() (int, error) {
	tok, err := r.TakeToken()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("lexer: %q is not an integer: %w", tok, ErrSyntaxError)
	}
	return n, nil
}

// TakeSignedInt reads the next token and parses it as a signed integer
// (used for non-default supply deltas, which may be negative).
func (r *Reader) TakeSignedInt() (int, error) {
	return r.TakeInt()
}

// Expect reads the next token and fails with ErrSyntaxError unless it
// equals literal exactly.
func (r *Reader) Expect(literal string) error {
	tok, err := r.TakeToken()
	if err != nil {
		return fmt.Errorf("lexer: expected %q: %w", literal, err)
	}
	if tok != literal {
		return fmt.Errorf("lexer: expected %q, got %q: %w", literal, tok, ErrSyntaxError)
	}
	return nil
}
