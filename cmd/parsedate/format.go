package main

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/parsedate/internal/profile"
	"github.com/hrygo/parsedate/plugin/datetime"
)

// layoutDefault is the output of GNU date without a format.
const layoutDefault = "Mon Jan _2 15:04:05 MST 2006"

var iso8601Layouts = map[string]string{
	"date":    "2006-01-02",
	"hours":   "2006-01-02T15-07:00",
	"minutes": "2006-01-02T15:04-07:00",
	"seconds": "2006-01-02T15:04:05-07:00",
	"ns":      "2006-01-02T15:04:05,000000000-07:00",
}

var rfc3339Layouts = map[string]string{
	"date":    "2006-01-02",
	"seconds": "2006-01-02 15:04:05-07:00",
	"ns":      "2006-01-02 15:04:05.000000000-07:00",
}

// formatter renders a resolved date string.
type formatter func(input string, r *datetime.Result) (string, error)

// newFormatter picks the output format. A Go layout wins over the named
// formats.
func newFormatter(format, precision, layout string) (formatter, error) {
	if layout != "" {
		return layoutFormatter(layout), nil
	}
	switch format {
	case "", profile.FormatDefault:
		return layoutFormatter(layoutDefault), nil
	case profile.FormatISO8601:
		if precision == "" {
			precision = "date"
		}
		l, ok := iso8601Layouts[precision]
		if !ok {
			return nil, errors.Errorf("invalid argument %q for --iso-8601", precision)
		}
		return layoutFormatter(l), nil
	case profile.FormatRFC3339:
		l, ok := rfc3339Layouts[precision]
		if !ok {
			return nil, errors.Errorf("invalid argument %q for --rfc-3339", precision)
		}
		return layoutFormatter(l), nil
	case profile.FormatRFCMail:
		return layoutFormatter(time.RFC1123Z), nil
	case profile.FormatJSON:
		return formatJSON, nil
	default:
		return nil, errors.Errorf("unknown output format %q", format)
	}
}

func layoutFormatter(layout string) formatter {
	return func(_ string, r *datetime.Result) (string, error) {
		return r.Time.Format(layout), nil
	}
}

type jsonResult struct {
	Input string   `json:"input"`
	Time  string   `json:"time"`
	Unix  int64    `json:"unix"`
	Zone  string   `json:"zone"`
	Items []string `json:"items"`
}

func formatJSON(input string, r *datetime.Result) (string, error) {
	out := jsonResult{
		Input: input,
		Time:  r.Time.Format(time.RFC3339Nano),
		Unix:  r.Time.Unix(),
		Zone:  r.Time.Location().String(),
		Items: make([]string, 0, len(r.Spec.Items)),
	}
	for _, it := range r.Spec.Items {
		out.Items = append(out.Items, it.String())
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode result")
	}
	return string(b), nil
}
