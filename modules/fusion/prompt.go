package fusion

import (
	"fmt"
	"strconv"
	"strings"
)

// BuildInstruction renders the natural-language request sent alongside the
// two images. The background is the first image and the person the second.
func BuildInstruction(opts Options) string {
	var b strings.Builder
	b.WriteString("Generate a new image merging these two images with the following instructions:\n")
	fmt.Fprintf(&b, "- Style: %s\n", opts.Style)
	fmt.Fprintf(&b, "- Integration strength: %s%%\n", formatPercent(opts.IntegrationStrength))
	fmt.Fprintf(&b, "- Detail level: %s%%\n", formatPercent(opts.DetailLevel))
	fmt.Fprintf(&b, "- Preserve original lighting: %s\n", yesNo(opts.PreserveLighting))
	fmt.Fprintf(&b, "- Add realistic shadows: %s\n", yesNo(opts.AddShadows))
	fmt.Fprintf(&b, "- Additional instructions: %s\n", strings.TrimSpace(opts.Instructions))
	b.WriteString("\nPlace the person from the second image into the background scene from the first image according to these specifications.")
	return b.String()
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
