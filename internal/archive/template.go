// Package archive implements the Archive sink of spec.md §6: a
// `/`-separated path template expanded per record into an output path,
// multiplexed across many concurrently open files with idle-time
// eviction under an open-file-descriptor budget.
package archive

import (
	"fmt"
	"strings"
	"time"

	"github.com/iamNilotpal/dataselect/internal/model"
	"github.com/iamNilotpal/dataselect/pkg/errors"
)

// Values carries everything a template placeholder can expand from, for
// one record about to be archived.
type Values struct {
	Source     model.SourceID
	PubVersion int
	RecLen     int
	SampleRate float64
	Time       time.Time // UTC, the record's effective start time
}

// qualityLetter maps a legacy publication version (1-4) to its quality
// letter, per spec.md §6's `%q` flag description; any other version
// renders as its decimal value.
func (v Values) qualityLetter() string {
	switch v.PubVersion {
	case 1:
		return "R"
	case 2:
		return "D"
	case 3:
		return "Q"
	case 4:
		return "M"
	default:
		return fmt.Sprintf("%d", v.PubVersion)
	}
}

func (v Values) expand(flag byte) (string, error) {
	switch flag {
	case 'n':
		return v.Source.Network, nil
	case 's':
		return v.Source.Station, nil
	case 'l':
		return v.Source.Location, nil
	case 'c':
		return v.Source.Channel, nil
	case 'Y':
		return fmt.Sprintf("%04d", v.Time.Year()), nil
	case 'y':
		return fmt.Sprintf("%02d", v.Time.Year()%100), nil
	case 'j':
		return fmt.Sprintf("%03d", v.Time.YearDay()), nil
	case 'H':
		return fmt.Sprintf("%02d", v.Time.Hour()), nil
	case 'M':
		return fmt.Sprintf("%02d", v.Time.Minute()), nil
	case 'S':
		return fmt.Sprintf("%02d", v.Time.Second()), nil
	case 'F':
		return fmt.Sprintf("%04d", v.Time.Nanosecond()/100000), nil
	case 'N':
		return fmt.Sprintf("%09d", v.Time.Nanosecond()), nil
	case 'v':
		return fmt.Sprintf("%d", v.PubVersion), nil
	case 'q':
		return v.qualityLetter(), nil
	case 'L':
		return fmt.Sprintf("%d", v.RecLen), nil
	case 'r':
		return fmt.Sprintf("%d", int64(v.SampleRate+0.5)), nil
	case 'R':
		return fmt.Sprintf("%.6f", v.SampleRate), nil
	default:
		return "", errors.NewArchiveError(nil, errors.ErrorCodeArchiveTemplate, "unknown archive template placeholder").
			WithTemplate(string(flag))
	}
}

// token is one literal-text or placeholder piece of a parsed template.
type token struct {
	literal  string
	flag     byte // 0 for a literal token
	defining bool // true for '%', false for '#'
}

// Template is a parsed archive path template: a flat list of tokens, `/`
// boundaries included as literal tokens so Render can build the whole
// path in one pass while Key only concatenates the defining ('%')
// placeholders, per spec.md §6's file-grouping rule.
type Template struct {
	raw    string
	tokens []token
}

// Parse compiles tmpl into a Template. An empty template is a ConfigError
// (spec.md §7: "empty path template" is listed explicitly).
func Parse(tmpl string) (*Template, error) {
	if strings.TrimSpace(tmpl) == "" {
		return nil, errors.NewConfigError(nil, "archive template must not be empty").
			WithFlag("-A")
	}

	var toks []token
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			toks = append(toks, token{literal: lit.String()})
			lit.Reset()
		}
	}

	runes := []rune(tmpl)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '%' && r != '#' {
			lit.WriteRune(r)
			continue
		}
		if i+1 >= len(runes) {
			return nil, errors.NewConfigError(nil, "archive template ends with a bare placeholder marker").
				WithFlag("-A").WithProvided(tmpl)
		}
		defining := r == '%'
		flagRune := runes[i+1]
		i++

		if flagRune == '%' || flagRune == '#' {
			lit.WriteRune(flagRune)
			continue
		}

		flush()
		toks = append(toks, token{flag: byte(flagRune), defining: defining})
	}
	flush()

	return &Template{raw: tmpl, tokens: toks}, nil
}

// String returns the original, unparsed template text.
func (t *Template) String() string { return t.raw }

// Key renders only the defining ('%') placeholders of t against v,
// joined with a separator that cannot appear in any expansion — this is
// the file-grouping key all records resolving to the same key share one
// open output file, per spec.md §6.
func (t *Template) Key(v Values) (string, error) {
	var b strings.Builder
	for _, tok := range t.tokens {
		if tok.flag == 0 || !tok.defining {
			continue
		}
		s, err := v.expand(tok.flag)
		if err != nil {
			return "", err
		}
		b.WriteByte(0)
		b.WriteString(s)
	}
	return b.String(), nil
}

// Render expands every token of t against v, using first for any
// non-defining ('#') placeholder — the first record to reach this file,
// per spec.md §6's "`#` flags are formatted from the first record that
// reaches that file" rule. On the very first record for a key, first ==
// v.
func (t *Template) Render(v, first Values) (string, error) {
	var b strings.Builder
	for _, tok := range t.tokens {
		if tok.flag == 0 {
			b.WriteString(tok.literal)
			continue
		}
		src := v
		if !tok.defining {
			src = first
		}
		s, err := src.expand(tok.flag)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}

	out := b.String()
	if out == "" {
		return "", errors.NewArchiveError(nil, errors.ErrorCodeArchiveTemplate, "archive template expanded to an empty path").
			WithTemplate(t.raw)
	}
	return out, nil
}
