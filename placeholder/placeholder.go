// Package placeholder substitutes {name} tokens in view content with values
// taken from a model.
package placeholder

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"golang.org/x/text/cases"
)

// ErrUnresolved is matched by every *ResolutionError.
var ErrUnresolved = errors.New("placeholder: unresolved token")

// Model maps property names to values. Names are compared case-insensitively.
type Model map[string]any

// Token is a placeholder found in content. Start and End delimit the whole
// match, braces included.
type Token struct {
	Start int
	End   int
	Name  string
}

// ResolutionError reports a token that did not match exactly one model key.
type ResolutionError struct {
	Token   string
	Matches int
}

func (e *ResolutionError) Error() string {
	if e.Matches == 0 {
		return fmt.Sprintf("placeholder: no model property for {%s}", e.Token)
	}
	return fmt.Sprintf("placeholder: {%s} is ambiguous, %d model properties match", e.Token, e.Matches)
}

func (e *ResolutionError) Unwrap() error { return ErrUnresolved }

// Scan returns the tokens of content from left to right. A token runs from a
// '{' to the next '}' and never crosses a line break.
func Scan(content string) []Token {
	var tokens []Token
	for i := 0; i < len(content); {
		if content[i] != '{' {
			i++
			continue
		}
		j := strings.IndexAny(content[i+1:], "}\n")
		if j < 0 {
			break
		}
		end := i + 1 + j
		if content[end] != '}' {
			i++
			continue
		}
		tokens = append(tokens, Token{Start: i, End: end + 1, Name: content[i+1 : end]})
		i = end + 1
	}
	return tokens
}

// Render replaces every token in content with the string form of the model
// value it names. Replacement text is not scanned again.
func Render(content string, model Model) (string, error) {
	tokens := Scan(content)
	if len(tokens) == 0 {
		return content, nil
	}

	lookup := newLookup(model)

	var b strings.Builder
	b.Grow(len(content))
	last := 0
	for _, tok := range tokens {
		v, err := lookup.resolve(tok.Name)
		if err != nil {
			return "", err
		}
		b.WriteString(content[last:tok.Start])
		b.WriteString(v)
		last = tok.End
	}
	b.WriteString(content[last:])
	return b.String(), nil
}

type lookup struct {
	fold  cases.Caser
	names map[string][]string
	model Model
}

func newLookup(model Model) *lookup {
	l := &lookup{
		fold:  cases.Fold(),
		names: make(map[string][]string, len(model)),
		model: model,
	}
	for name := range model {
		key := l.fold.String(name)
		l.names[key] = append(l.names[key], name)
	}
	return l
}

func (l *lookup) resolve(token string) (string, error) {
	names := l.names[l.fold.String(token)]
	if len(names) != 1 {
		return "", &ResolutionError{Token: token, Matches: len(names)}
	}
	return Stringify(l.model[names[0]]), nil
}

// Stringify returns the natural string form of v. Nil values, including nil
// pointers, render as the empty string.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		if isNil(v) {
			return ""
		}
		return t.String()
	}
	if isNil(v) {
		return ""
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		return Stringify(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}

func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
