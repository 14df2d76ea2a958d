package dataprocessing

import (
	"regexp"
	"strconv"
	"strings"
)

// ParsedLine is the structured form of one free-text product line.
type ParsedLine struct {
	Total       float64
	Quantity    float64
	UnitValue   float64
	Description string
}

var integerToken = regexp.MustCompile(`^\d+$`)

// ParseLine splits a product line on runs of whitespace into a monetary /
// quantity / description tuple.
//
// The first token must parse as a float and becomes the line total; if it
// does not, a zero-value sentinel carrying the raw line as description is
// returned and the caller discards the line via Total <= 0. When the second
// token is an integer literal it is consumed as the quantity and the unit
// value is total/quantity; otherwise the quantity is 1 and every token after
// the first joins the description.
func ParseLine(line string) ParsedLine {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return ParsedLine{Description: line}
	}

	total, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return ParsedLine{Description: line}
	}

	if len(parts) > 1 && integerToken.MatchString(parts[1]) {
		qty, _ := strconv.Atoi(parts[1])
		if qty > 0 {
			return ParsedLine{
				Total:       total,
				Quantity:    float64(qty),
				UnitValue:   total / float64(qty),
				Description: strings.Join(parts[2:], " "),
			}
		}
	}

	return ParsedLine{
		Total:       total,
		Quantity:    1,
		UnitValue:   total,
		Description: strings.Join(parts[1:], " "),
	}
}
