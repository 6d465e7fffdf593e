package linter

import (
	"fmt"
	"sort"
	"strings"
)

// UnknownLinterError reports a --take or --skip code that no configured
// linter carries.
type UnknownLinterError struct {
	// Code is the unrecognized linter code.
	Code string

	// Flag is the selection flag the code came from ("take" or "skip").
	Flag string

	// Available lists the configured codes, sorted.
	Available []string
}

func (e *UnknownLinterError) Error() string {
	return fmt.Sprintf("unknown linter %q in --%s; available linters: %s",
		e.Code, e.Flag, strings.Join(e.Available, ", "))
}

// Select applies --take and --skip filters to the configured linters.
// All codes in take and skip must name a configured linter. When take is
// non-empty only those linters are retained; skip then removes from the
// remainder. Manifest order is preserved.
func Select(specs []Spec, take, skip []string) ([]Spec, error) {
	known := make(map[string]bool, len(specs))
	for _, spec := range specs {
		known[spec.Code] = true
	}

	available := make([]string, 0, len(known))
	for code := range known {
		available = append(available, code)
	}
	sort.Strings(available)

	for _, code := range take {
		if !known[code] {
			return nil, &UnknownLinterError{Code: code, Flag: "take", Available: available}
		}
	}
	for _, code := range skip {
		if !known[code] {
			return nil, &UnknownLinterError{Code: code, Flag: "skip", Available: available}
		}
	}

	taken := toSet(take)
	skipped := toSet(skip)

	roster := make([]Spec, 0, len(specs))
	for _, spec := range specs {
		if len(taken) > 0 && !taken[spec.Code] {
			continue
		}
		if skipped[spec.Code] {
			continue
		}
		roster = append(roster, spec)
	}
	return roster, nil
}

func toSet(codes []string) map[string]bool {
	if len(codes) == 0 {
		return nil
	}
	set := make(map[string]bool, len(codes))
	for _, code := range codes {
		set[code] = true
	}
	return set
}
