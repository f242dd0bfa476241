package arrangement

import (
	"io"
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/tdewolff/parse/v2"
)

// ParseSegments parses segments from a string, see ReadSegments.
func ParseSegments(s string) ([]Segment, error) {
	return readSegments(parse.NewInputString(s))
}

// ReadSegments parses segments as four numbers x0 y0 x1 y1 each, separated by whitespace or commas. Numbers are decimals such as -1.25 or 3e2, or fractions such as 1/3, and are converted exactly. A # starts a comment until the end of the line. Segments of zero length are an error.
func ReadSegments(r io.Reader) ([]Segment, error) {
	return readSegments(parse.NewInput(r))
}

func readSegments(z *parse.Input) ([]Segment, error) {
	var segments []Segment
	var coords [4]*big.Rat
	var i int
	for ; ; i++ {
		skipSeparators(z)
		if z.Peek(0) == 0 {
			if err := z.Err(); err != nil && err != io.EOF {
				return nil, errors.Wrap(err, "read segments")
			} else if err == io.EOF {
				break
			}
		}

		lit := scanNumber(z)
		if len(lit) == 0 {
			return nil, errors.Wrapf(parse.NewErrorLexer(z, "expected number"), "segment %d", len(segments))
		}
		v, ok := new(big.Rat).SetString(string(lit))
		if !ok {
			return nil, errors.Wrapf(parse.NewErrorLexer(z, "bad number: %s", lit), "segment %d", len(segments))
		}
		coords[i%4] = v
		if i%4 == 3 {
			seg := Segment{Point{coords[0], coords[1]}, Point{coords[2], coords[3]}}
			if seg.Degenerate() {
				return nil, errors.Wrapf(parse.NewErrorLexer(z, "zero-length segment: %v", seg), "segment %d", len(segments))
			}
			segments = append(segments, seg)
		}
	}
	if i%4 != 0 {
		return nil, errors.Wrapf(parse.NewErrorLexer(z, "incomplete segment"), "segment %d", len(segments))
	}
	return segments, nil
}

func skipSeparators(z *parse.Input) {
	for {
		c := z.Peek(0)
		if parse.IsWhitespace(c) || c == '\n' || c == '\r' || c == ',' {
			z.Move(1)
		} else if c == '#' {
			for c = z.Peek(0); c != 0 && c != '\n' && c != '\r'; c = z.Peek(0) {
				z.Move(1)
			}
		} else {
			break
		}
	}
	z.Skip()
}

// scanNumber consumes a decimal or fraction and returns its text.
func scanNumber(z *parse.Input) []byte {
	if c := z.Peek(0); c == '+' || c == '-' {
		z.Move(1)
	}
	digits := moveDigits(z)
	if z.Peek(0) == '.' {
		z.Move(1)
		digits += moveDigits(z)
	}
	if digits == 0 {
		z.Rewind(0)
		return nil
	}
	if c := z.Peek(0); c == 'e' || c == 'E' {
		pos := z.Pos()
		z.Move(1)
		if c := z.Peek(0); c == '+' || c == '-' {
			z.Move(1)
		}
		if moveDigits(z) == 0 {
			z.Rewind(pos)
		}
	} else if c == '/' {
		pos := z.Pos()
		z.Move(1)
		if moveDigits(z) == 0 {
			z.Rewind(pos)
		}
	}
	return z.Shift()
}

func moveDigits(z *parse.Input) int {
	n := 0
	for c := z.Peek(0); '0' <= c && c <= '9'; c = z.Peek(0) {
		z.Move(1)
		n++
	}
	return n
}
