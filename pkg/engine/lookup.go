package engine

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrNotFound  = errors.New("network definition not found")
	ErrAmbiguous = errors.New("ambiguous network definition name")
)

// Normalize folds s for name lookups: diacritics are removed, so "é" becomes
// "e", and the result is lowercased.
func Normalize(s string) (string, error) {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	out, _, err := transform.String(t, s)
	if err != nil {
		return "", fmt.Errorf("normalize %q: %w", s, err)
	}

	return strings.ToLower(out), nil
}

// Lookup returns the result for the definition named by query.
//
// A definition whose normalized display name equals the normalized query
// wins; the first one in load order is returned. Otherwise names are ranked
// by fuzzy match, and the best match is returned if it outranks every other
// candidate.
func (r *Report) Lookup(query string) (Result, error) {
	q, err := Normalize(query)
	if err != nil {
		return Result{}, err
	}

	names := make([]string, len(r.Results))
	for i, res := range r.Results {
		names[i], err = Normalize(res.Definition.DisplayName())
		if err != nil {
			return Result{}, err
		}

		if names[i] == q {
			return res, nil
		}
	}

	matches := fuzzy.Find(q, names)

	switch {
	case len(matches) == 0:
		return Result{}, fmt.Errorf("%w: %q", ErrNotFound, query)
	case len(matches) > 1 && matches[0].Score == matches[1].Score:
		candidates := []string{}
		for _, m := range matches {
			if m.Score != matches[0].Score {
				break
			}

			candidates = append(candidates, r.Results[m.Index].Definition.DisplayName())
		}

		return Result{}, fmt.Errorf("%w: %q matches %s", ErrAmbiguous, query, strings.Join(candidates, ", "))
	}

	return r.Results[matches[0].Index], nil
}
