package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gocaveripper/cavegen/pkg/caverr"
)

// ErrMalformedClause is the sentinel wrapped by every parse failure, in
// the teacher-cousin dice/notation.go style of a single wrapped
// sentinel rather than one error type per grammar rule.
var ErrMalformedClause = errors.New("malformed query clause")

// relTokens is checked longest-prefix-first so "<=" and ">=" aren't
// swallowed by the single-character "<"/">" entries.
var relTokens = []struct {
	token string
	rel   Rel
}{
	{"!=", RelNe},
	{"<=", RelLe},
	{">=", RelGe},
	{"=", RelEq},
	{"<", RelLt},
	{">", RelGt},
}

func parseRel(tok string) (Rel, error) {
	for _, rt := range relTokens {
		if rt.token == tok {
			return rt.rel, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown relation %q", ErrMalformedClause, tok)
}

// Parse builds a Query for sublevel from a list of clause lines, one
// clause per line (conjunction). Blank lines and lines starting with
// "#" are ignored, so query files can carry comments.
func Parse(sublevel string, lines []string) (*Query, error) {
	q := &Query{Sublevel: sublevel}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		clause, err := parseClause(trimmed)
		if err != nil {
			return nil, &caverr.QueryParseError{Clause: trimmed, Err: err}
		}
		q.Clauses = append(q.Clauses, clause)
	}
	if len(q.Clauses) == 0 {
		return nil, &caverr.QueryParseError{Clause: "", Err: fmt.Errorf("%w: query has no clauses", ErrMalformedClause)}
	}
	return q, nil
}

func parseClause(line string) (Clause, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty clause", ErrMalformedClause)
	}

	switch fields[0] {
	case "count":
		return parseCountClause(fields)
	case "carry_dist":
		return parseCarryDistClause(fields)
	case "straight_dist":
		return parseStraightDistClause(fields)
	case "gated":
		return parseGatedClause(fields, true)
	case "not_gated":
		return parseGatedClause(fields, false)
	case "room_path":
		return parseRoomPathClause(fields)
	default:
		return nil, fmt.Errorf("%w: unknown clause keyword %q", ErrMalformedClause, fields[0])
	}
}

// parseCountClause parses `count entity <token> <rel> n` and
// `count room <token> <rel> n`.
func parseCountClause(fields []string) (Clause, error) {
	if len(fields) != 5 {
		return nil, fmt.Errorf("%w: count clause wants 5 fields, got %d", ErrMalformedClause, len(fields))
	}
	rel, err := parseRel(fields[3])
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(fields[4])
	if err != nil {
		return nil, fmt.Errorf("%w: count clause wants an integer, got %q: %v", ErrMalformedClause, fields[4], err)
	}

	switch fields[1] {
	case "entity":
		return &countEntityClause{match: entityMatcher{fields[2]}, rel: rel, n: n}, nil
	case "room":
		return &countRoomClause{match: unitMatcher{fields[2]}, rel: rel, n: n}, nil
	default:
		return nil, fmt.Errorf("%w: count clause wants \"entity\" or \"room\", got %q", ErrMalformedClause, fields[1])
	}
}

func parseCarryDistClause(fields []string) (Clause, error) {
	if len(fields) != 4 {
		return nil, fmt.Errorf("%w: carry_dist clause wants 4 fields, got %d", ErrMalformedClause, len(fields))
	}
	rel, err := parseRel(fields[2])
	if err != nil {
		return nil, err
	}
	d, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: carry_dist clause wants a number, got %q: %v", ErrMalformedClause, fields[3], err)
	}
	return &carryDistClause{match: entityMatcher{fields[1]}, rel: rel, d: d}, nil
}

func parseStraightDistClause(fields []string) (Clause, error) {
	if len(fields) != 5 {
		return nil, fmt.Errorf("%w: straight_dist clause wants 5 fields, got %d", ErrMalformedClause, len(fields))
	}
	rel, err := parseRel(fields[3])
	if err != nil {
		return nil, err
	}
	d, err := strconv.ParseFloat(fields[4], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: straight_dist clause wants a number, got %q: %v", ErrMalformedClause, fields[4], err)
	}
	return &straightDistClause{a: entityMatcher{fields[1]}, b: entityMatcher{fields[2]}, rel: rel, d: d}, nil
}

func parseGatedClause(fields []string, want bool) (Clause, error) {
	if len(fields) != 2 {
		return nil, fmt.Errorf("%w: %s clause wants 2 fields, got %d", ErrMalformedClause, fields[0], len(fields))
	}
	return &gatedClause{match: entityMatcher{fields[1]}, want: want}, nil
}

// parseRoomPathClause parses `room_path step1 -> step2 -> ...`, where
// each step is `unit_token` or `unit_token+entity_token+entity_token...`.
func parseRoomPathClause(fields []string) (Clause, error) {
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: room_path clause wants at least one step", ErrMalformedClause)
	}

	var stepTokens []string
	var current []string
	for _, f := range fields[1:] {
		if f == "->" {
			if len(current) == 0 {
				return nil, fmt.Errorf("%w: room_path has an empty step", ErrMalformedClause)
			}
			stepTokens = append(stepTokens, strings.Join(current, ""))
			current = nil
			continue
		}
		current = append(current, f)
	}
	if len(current) == 0 {
		return nil, fmt.Errorf("%w: room_path has a trailing empty step", ErrMalformedClause)
	}
	stepTokens = append(stepTokens, strings.Join(current, ""))

	steps := make([]roomPathStep, 0, len(stepTokens))
	for _, tok := range stepTokens {
		parts := strings.Split(tok, "+")
		step := roomPathStep{unit: unitMatcher{parts[0]}}
		for _, e := range parts[1:] {
			if e == "" {
				return nil, fmt.Errorf("%w: room_path step %q has an empty entity", ErrMalformedClause, tok)
			}
			step.entities = append(step.entities, entityMatcher{e})
		}
		if len(step.entities) == 0 {
			return nil, fmt.Errorf("%w: room_path step %q needs at least one +entity (§4.G: \"unit (+ entity)+\")", ErrMalformedClause, tok)
		}
		steps = append(steps, step)
	}
	return &roomPathClause{steps: steps}, nil
}
