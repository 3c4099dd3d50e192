package errors

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	// Causes lists the individual errors when err was combined with multierr.
	Causes []string `json:"causes,omitempty"`
	Source string   `json:"source,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
		if details, ok := te.Details().(map[string]any); ok {
			if source, ok := details["source"].(string); ok {
				d.Source = source
			}
		}
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
		if d.Causes != nil {
			continue
		}
		if combined := multierr.Errors(e); len(combined) > 1 {
			for _, c := range combined {
				d.Causes = append(d.Causes, c.Error())
			}
		}
	}

	return d
}
