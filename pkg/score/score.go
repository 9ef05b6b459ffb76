// Package score reads the composite "<hard>hard/<soft>soft" score strings
// produced by the solver and classifies them.
package score

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	hardToken = "hard"
	softToken = "soft"
)

type Status int

const (
	OK Status = iota
	Violated
)

func (s Status) String() string {
	if s == OK {
		return "ok"
	}
	return "violated"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "ok":
		*s = OK
	case "violated":
		*s = Violated
	default:
		return fmt.Errorf("score: unknown status %q", b)
	}
	return nil
}

// BadgeClass is the css class of the badge showing a score with this status.
func (s Status) BadgeClass() string {
	if s == OK {
		return "badge bg-success"
	}
	return "badge bg-danger"
}

// ParseError reports a score string that does not follow the solver format.
type ParseError struct {
	Score  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("score %q: %s: %v", e.Score, e.Reason, e.Err)
	}
	return fmt.Sprintf("score %q: %s", e.Score, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Score is a parsed composite score.
type Score struct {
	Hard float64 `json:"hard"`
	Soft float64 `json:"soft"`
}

func (s Score) String() string {
	return strconv.FormatFloat(s.Hard, 'f', -1, 64) + hardToken + "/" +
		strconv.FormatFloat(s.Soft, 'f', -1, 64) + softToken
}

// HardViolation returns the number written before the first "hard" token.
// The prefix is coerced loosely: surrounding blanks are ignored and an empty
// prefix counts as 0, so "0hard/-3soft" and "hard/0soft" both yield 0.
func HardViolation(score string) (float64, error) {
	i := strings.Index(score, hardToken)
	if i < 0 {
		return math.NaN(), &ParseError{Score: score, Reason: "missing hard token"}
	}
	return coerce(score, score[:i])
}

// Classify is OK iff the hard component equals 0. Malformed scores are Violated.
func Classify(score string) Status {
	hard, err := HardViolation(score)
	if err != nil || hard != 0 {
		return Violated
	}
	return OK
}

// Parse reads both components of a composite score.
func Parse(score string) (Score, error) {
	i := strings.Index(score, hardToken)
	if i < 0 {
		return Score{}, &ParseError{Score: score, Reason: "missing hard token"}
	}
	hard, err := coerce(score, score[:i])
	if err != nil {
		return Score{}, err
	}

	rest := score[i+len(hardToken):]
	if !strings.HasPrefix(rest, "/") {
		return Score{}, &ParseError{Score: score, Reason: "missing separator after hard component"}
	}
	rest = rest[1:]
	j := strings.Index(rest, softToken)
	if j < 0 {
		return Score{}, &ParseError{Score: score, Reason: "missing soft token"}
	}
	soft, err := coerce(score, rest[:j])
	if err != nil {
		return Score{}, err
	}
	return Score{Hard: hard, Soft: soft}, nil
}

func coerce(score, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN(), &ParseError{Score: score, Reason: fmt.Sprintf("component %q is not a number", s), Err: err}
	}
	if math.IsNaN(v) {
		return math.NaN(), &ParseError{Score: score, Reason: fmt.Sprintf("component %q is not a number", s)}
	}
	return v, nil
}
