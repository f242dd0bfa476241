package arrangement

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
)

func TestGolden(t *testing.T) {
	datadriven.Walk(t, "testdata", func(t *testing.T, path string) {
		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			segments, err := ParseSegments(d.Input)
			if err != nil {
				return fmt.Sprintf("error: %v", err)
			}

			var sb strings.Builder
			switch d.Cmd {
			case "relate":
				for _, r := range Relations(segments) {
					fmt.Fprintln(&sb, r)
				}
			case "split":
				for _, f := range Split(segments) {
					fmt.Fprintln(&sb, f)
				}
			case "crossings":
				for _, c := range Intersections(segments) {
					fmt.Fprintln(&sb, c)
				}
			case "simple":
				fmt.Fprintln(&sb, IsSimple(segments))
			default:
				d.Fatalf(t, "unknown command: %s", d.Cmd)
			}
			return sb.String()
		})
	})
}
