package primitive

import (
	"strings"
	"time"

	"github.com/awantoch/uiscript/scripterr"
)

// defaultDateFormats is the fixed format list parseDate tries, in order,
// when the step supplies none (spec.md §4.4).
var defaultDateFormats = []string{
	"M/d/yyyy h:mm a",
	"MM/dd h:mm a",
	"h:mm a",
	"yyyy-MM-dd HH:mm:ss",
	"yyyy-MM-dd",
	"MMM dd, yyyy",
	"MMM d",
}

// layoutTokens translates LDML-style date tokens to Go's reference-time
// layout, longest token first so e.g. "yyyy" isn't split into four "y"s.
var layoutTokens = []struct {
	token, layout string
}{
	{"yyyy", "2006"},
	{"MMM", "Jan"},
	{"MM", "01"},
	{"dd", "02"},
	{"HH", "15"},
	{"mm", "04"},
	{"ss", "05"},
	{"M", "1"},
	{"d", "2"},
	{"h", "3"},
	{"a", "PM"},
}

// toGoLayout converts one LDML-style format string to a Go reference
// layout. This pins date parsing to a fixed locale-independent grammar
// (spec.md §9: "pin the parser to a fixed POSIX-style locale").
func toGoLayout(format string) string {
	var b strings.Builder
	i := 0
	for i < len(format) {
		matched := false
		for _, tok := range layoutTokens {
			if strings.HasPrefix(format[i:], tok.token) {
				b.WriteString(tok.layout)
				i += len(tok.token)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(format[i])
			i++
		}
	}
	return b.String()
}

// ParseDate implements parseDate{input|value, formats?[], as}: tries
// each format in order, first that parses wins; writes the timestamp in
// seconds under "as" plus the sibling year/month/day/hour/minute/timestamp
// keys (spec.md §3, §4.4).
func ParseDate(pc *Context, args map[string]any) error {
	input := strOr(args, "input", strOr(args, "value", ""))
	if input == "" {
		return scripterr.Invalid("missing required field %q", "input")
	}
	formats := defaultDateFormats
	if raw, ok := args["formats"].([]any); ok && len(raw) > 0 {
		formats = make([]string, 0, len(raw))
		for _, f := range raw {
			if s, ok := f.(string); ok {
				formats = append(formats, s)
			}
		}
	}

	var parsed time.Time
	var found bool
	for _, format := range formats {
		layout := toGoLayout(format)
		if t, err := time.Parse(layout, input); err == nil {
			parsed = t
			found = true
			break
		}
	}
	if !found {
		return scripterr.Invalid("could not parse %q with any configured format", input)
	}

	as := resultKey(args, "parsed")
	pc.Store.SetVar(as, float64(parsed.Unix()))
	pc.Store.SetVar(as+"_timestamp", float64(parsed.Unix()))
	pc.Store.SetVar(as+"_year", parsed.Year())
	pc.Store.SetVar(as+"_month", int(parsed.Month()))
	pc.Store.SetVar(as+"_day", parsed.Day())
	pc.Store.SetVar(as+"_hour", parsed.Hour())
	pc.Store.SetVar(as+"_minute", parsed.Minute())
	return nil
}

// FormatDate implements formatDate{format, timestamp?|timestampVar?, as}:
// timestamp absent means now.
func FormatDate(pc *Context, args map[string]any) error {
	format, err := str(args, "format")
	if err != nil {
		return err
	}
	var when time.Time
	if varName, ok := args["timestampVar"].(string); ok {
		v, found := pc.Store.GetVar(varName)
		if !found {
			return scripterr.NotFoundf("variable %q referenced by timestampVar not set", varName)
		}
		f, ok := v.(float64)
		if !ok {
			return scripterr.Invalid("variable %q is not numeric", varName)
		}
		when = time.Unix(int64(f), 0).UTC()
	} else if v, ok := args["timestamp"]; ok {
		f, ok := v.(float64)
		if !ok {
			return scripterr.Invalid("field %q must be numeric", "timestamp")
		}
		when = time.Unix(int64(f), 0).UTC()
	} else {
		when = Now().UTC()
	}
	pc.Store.SetVar(resultKey(args, "formatted"), when.Format(toGoLayout(format)))
	return nil
}
