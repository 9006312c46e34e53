// Package notation compiles note lines ("#54 C E G*2") and chord lines
// ("&44 Cmaj7 Am7 2(Dm7 G7)") into note events.
package notation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/jsphweid/notegen/constants"
	"github.com/jsphweid/notegen/model"
)

var ErrNotationTooLarge = errors.New("notation too large")

// TooLargeError is returned when repeat expansion would produce more than
// Limit tokens.
type TooLargeError struct {
	Limit int
	Token string
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("%v: %q expands past %d tokens", ErrNotationTooLarge, e.Token, e.Limit)
}

func (e *TooLargeError) Unwrap() error {
	return ErrNotationTooLarge
}

// Tokenize splits on whitespace outside parentheses. A closing paren with
// no opening one is kept as a plain character.
func Tokenize(line string) []string {
	var res []string
	var curr strings.Builder
	depth := 0
	flush := func() {
		if curr.Len() > 0 {
			res = append(res, curr.String())
			curr.Reset()
		}
	}
	for _, r := range line {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case unicode.IsSpace(r) && depth == 0:
			flush()
			continue
		}
		curr.WriteRune(r)
	}
	flush()
	return res
}

var repeatPattern = regexp.MustCompile(`^(\d+)\((.*)\)$`)

type Expander struct {
	// MaxTokens bounds the expanded length of one line.
	MaxTokens int
}

func NewExpander() Expander {
	return Expander{MaxTokens: constants.DefaultMaxExpandedTokens}
}

// Expand flattens N(...) repeat groups. Groups with an unusable count are
// dropped and reported. Each repetition is a fresh slice.
func (e Expander) Expand(tokens []string) ([]string, []model.Failure, error) {
	limit := e.MaxTokens
	if limit <= 0 {
		limit = constants.DefaultMaxExpandedTokens
	}
	return expand(tokens, limit)
}

func Expand(tokens []string) ([]string, []model.Failure, error) {
	return NewExpander().Expand(tokens)
}

func expand(tokens []string, limit int) ([]string, []model.Failure, error) {
	res := make([]string, 0, len(tokens))
	var failures []model.Failure
	for _, tok := range tokens {
		m := repeatPattern.FindStringSubmatch(tok)
		if m == nil {
			if len(res)+1 > limit {
				return nil, failures, &TooLargeError{Limit: limit, Token: tok}
			}
			res = append(res, tok)
			continue
		}

		count, err := strconv.Atoi(m[1])
		if err != nil {
			failures = append(failures, model.Failure{Token: tok, Reason: "malformed repeat count"})
			continue
		}
		inner, innerFailures, err := expand(Tokenize(m[2]), limit)
		failures = append(failures, innerFailures...)
		if err != nil {
			return nil, failures, err
		}
		if len(inner) == 0 {
			continue
		}
		if count > 0 && len(inner) > (limit-len(res))/count {
			return nil, failures, &TooLargeError{Limit: limit, Token: tok}
		}
		for i := 0; i < count; i++ {
			copied := make([]string, len(inner))
			copy(copied, inner)
			res = append(res, copied...)
		}
	}
	return res, failures, nil
}
