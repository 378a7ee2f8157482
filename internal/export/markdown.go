package export

import (
	"fmt"
	"io"

	"github.com/jmallard/rollcall/pkg/errors"
)

// transcriptWidth is the wrap column for message bodies.
const transcriptWidth = 72

// WriteMarkdown writes a human-readable transcript: a title, a heading per
// day, and one wrapped block per message.
func WriteMarkdown(w io.Writer, title string, views []MessageView) error {
	if title != "" {
		if _, err := fmt.Fprintf(w, "# %s\n", title); err != nil {
			return errors.WrapIO("write", "transcript", err)
		}
	}

	lastDay := ""
	for _, v := range views {
		day := v.Date.Format("2006-01-02")
		if day != lastDay {
			if _, err := fmt.Fprintf(w, "\n## %s\n", day); err != nil {
				return errors.WrapIO("write", "transcript", err)
			}
			lastDay = day
		}

		name := v.SenderName
		if name == "" {
			name = v.Sender.String()
		}
		if name == "" {
			name = "anonymous"
		}

		header := fmt.Sprintf("\n**%s** (%s)", name, v.Date.Format("15:04"))
		if v.Forwarded {
			header += " *(forwarded)*"
		}
		if _, err := fmt.Fprintf(w, "%s\n\n", header); err != nil {
			return errors.WrapIO("write", "transcript", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", wrapText(v.Text, "> ", transcriptWidth)); err != nil {
			return errors.WrapIO("write", "transcript", err)
		}
	}
	return nil
}
