/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: validator.go
Description: Parser output scoring. A candidate parser prints whatever
"Name: Value" lines it believes describe a file; the validator parses
those lines leniently, then scores them against the decoded ground truth
of the spec that generated the file. Matching is value-based and ignores
the names the candidate invented, since a system guessing an unknown
format has no way to know what the true fields are called. The score is
the matched fraction of ground-truth fields.
*/

package validator

import (
	"strconv"
	"strings"

	"github.com/kleascm/lyra-formats/pkg/codec"
	"github.com/kleascm/lyra-formats/pkg/schema"
)

// FloatTolerance is the absolute tolerance for float-to-float matches
const FloatTolerance = 1e-3

// separator divides a field name from its value in candidate output
const separator = ": "

// ParseCandidate extracts name/value pairs from candidate parser output.
// Each line splits on the first ": "; values containing a '.' parse as
// floats, anything else as integers. Lines without a separator and
// values that fail to parse are dropped rather than failing the
// candidate. A name printed twice keeps its last value.
func ParseCandidate(text string) map[string]schema.Value {
	parsed := make(map[string]schema.Value)
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		idx := strings.Index(line, separator)
		if idx < 0 {
			continue
		}
		name := line[:idx]
		raw := strings.TrimSpace(line[idx+len(separator):])

		if strings.Contains(raw, ".") {
			x, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			parsed[name] = schema.FloatValue(x)
		} else {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				continue
			}
			parsed[name] = schema.IntValue(n)
		}
	}
	return parsed
}

// Score rates candidate output against decoded ground truth: the
// fraction of ground-truth fields whose value appears anywhere in the
// candidate's mapping, under any key. Floats match within
// FloatTolerance, integers exactly, and mixed pairs by exact numeric
// equality. Value-based matching can credit a lucky collision between
// two fields sharing a value; that looseness is accepted as part of the
// scoring contract. An empty ground truth scores 0.0.
func Score(truth codec.GroundTruth, text string) float64 {
	if len(truth) == 0 {
		return 0.0
	}

	parsed := ParseCandidate(text)
	matched := 0
	for _, want := range truth {
		for _, got := range parsed {
			if want.Matches(got, FloatTolerance) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(truth))
}

// ScoreFile decodes a file's ground truth under spec and scores the
// candidate output against it. Decode failures, including truncated
// files, propagate to the caller.
func ScoreFile(spec *schema.FormatSpec, data []byte, text string) (float64, error) {
	truth, err := codec.Decode(spec, data)
	if err != nil {
		return 0, err
	}
	return Score(truth, text), nil
}
