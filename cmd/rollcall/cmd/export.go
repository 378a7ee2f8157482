package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmallard/rollcall/internal/dump"
	"github.com/jmallard/rollcall/internal/export"
	"github.com/jmallard/rollcall/pkg/chat"
	pkgerrors "github.com/jmallard/rollcall/pkg/errors"
	"github.com/jmallard/rollcall/pkg/identity"
	"github.com/jmallard/rollcall/pkg/logging"
)

var exportFlags struct {
	dumpPath string
	chatRef  string
	limit    int
	format   string
	out      string
	title    string
}

// exportCmd writes a chat transcript from a dump file.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export chat history from a dump file",
	Long: `Export reads a chat dump and writes the message history as JSON, YAML,
or a Markdown transcript. Sender names come from the same identity
reconciliation the members command uses, so every fragment of a sender's
identity observed anywhere in the dump names their messages.`,
	Example: `  rollcall export --dump gophers.jsonl --format markdown --out gophers.md
  rollcall export --dump gophers.jsonl --format json`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFlags.dumpPath, "dump", "", "event dump file (JSONL), required")
	exportCmd.Flags().StringVar(&exportFlags.chatRef, "chat", "", "chat reference, used in the default title")
	exportCmd.Flags().IntVar(&exportFlags.limit, "limit", 0, "maximum events to read (0 = all)")
	exportCmd.Flags().StringVar(&exportFlags.format, "format", "markdown", "output format: json, yaml, or markdown")
	exportCmd.Flags().StringVar(&exportFlags.out, "out", "-", "output file or directory (- for stdout)")
	exportCmd.Flags().StringVar(&exportFlags.title, "title", "", "transcript title")
	_ = exportCmd.MarkFlagRequired("dump")
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := logging.Ctx(ctx)

	title := exportFlags.title
	if title == "" {
		title = "Chat history"
		if exportFlags.chatRef != "" {
			title = "Chat " + exportFlags.chatRef
		}
	}

	// One pass collects the messages and reconciles sender identities.
	dir := identity.NewDirectory(identity.WithLogger(logger))
	reader := dump.NewReader(exportFlags.dumpPath, dump.WithLogger(logger))

	var messages []*chat.Message
	err := reader.ForEachEvent(ctx, exportFlags.chatRef, exportFlags.limit, func(ev chat.Event) error {
		dir.FoldAll(chat.Extract(ev))
		if m, ok := ev.(*chat.Message); ok {
			messages = append(messages, m)
		}
		return nil
	})
	if aborted, fatal := splitIngestErr(err); fatal != nil {
		return fatal
	} else if aborted {
		logger.Warn().Msg("Dump read aborted, exporting what was collected")
	}

	views := export.Views(messages, dir)

	w, closeFn, err := openExportOutput(exportFlags.out, title, exportFlags.format)
	if err != nil {
		return err
	}
	defer closeFn()

	switch exportFlags.format {
	case "json":
		err = export.WriteMessagesJSON(w, views)
	case "yaml":
		err = export.WriteMessagesYAML(w, views)
	case "markdown", "md":
		err = export.WriteMarkdown(w, title, views)
	default:
		return pkgerrors.NewValidationError("format", exportFlags.format, "must be json, yaml, or markdown")
	}
	if err != nil {
		return err
	}

	logger.Info().Int("messages", len(views)).Str("format", exportFlags.format).Msg("Export written")
	return nil
}

// openExportOutput resolves the output target. When the target is an
// existing directory, the file name derives from the title.
func openExportOutput(path, title, format string) (w *os.File, closeFn func(), err error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}

	if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
		ext := map[string]string{"json": "json", "yaml": "yaml", "markdown": "md", "md": "md"}[format]
		if ext == "" {
			ext = "txt"
		}
		path = filepath.Join(path, export.Slug(title)+"."+ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, pkgerrors.WrapIO("create", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}
