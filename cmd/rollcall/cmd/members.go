package cmd

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmallard/rollcall/internal/botapi"
	"github.com/jmallard/rollcall/internal/cache"
	"github.com/jmallard/rollcall/internal/config"
	"github.com/jmallard/rollcall/internal/dump"
	"github.com/jmallard/rollcall/internal/export"
	"github.com/jmallard/rollcall/pkg/chat"
	pkgerrors "github.com/jmallard/rollcall/pkg/errors"
	"github.com/jmallard/rollcall/pkg/identity"
	"github.com/jmallard/rollcall/pkg/logging"
)

var membersFlags struct {
	dumpPath         string
	participantsPath string
	chatRef          string
	limit            int
	resolve          bool
	concurrency      int
	format           string
	out              string
}

// membersCmd builds the reconciled participant directory for one chat.
var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "Build the deduplicated participant directory of a chat",
	Long: `Members folds every identity observation in a chat dump into one
directory: message authors, joins and adds, removals, forward origins,
mentions, shared contacts, and participant listing entries. Records that
end up with nothing but an identifier can be resolved through the Bot API
with --resolve.

The output is sorted ascending by numeric subject id, and ids are written
as decimal strings so values beyond 2^53 survive JSON round trips.`,
	Example: `  rollcall members --dump gophers.jsonl --out members.json
  rollcall members --dump gophers.jsonl --participants listing.jsonl --resolve`,
	RunE: runMembers,
}

func init() {
	rootCmd.AddCommand(membersCmd)

	membersCmd.Flags().StringVar(&membersFlags.dumpPath, "dump", "", "event dump file (JSONL), required")
	membersCmd.Flags().StringVar(&membersFlags.participantsPath, "participants", "", "participant listing dump file (JSONL)")
	membersCmd.Flags().StringVar(&membersFlags.chatRef, "chat", "", "chat reference recorded in the snapshot")
	membersCmd.Flags().IntVar(&membersFlags.limit, "limit", 0, "maximum events to ingest (0 = all)")
	membersCmd.Flags().BoolVar(&membersFlags.resolve, "resolve", false, "resolve bare records through the Bot API")
	membersCmd.Flags().IntVar(&membersFlags.concurrency, "concurrency", 0, "parallel lookups during resolution (default from config)")
	membersCmd.Flags().StringVar(&membersFlags.format, "format", "json", "output format: json or yaml")
	membersCmd.Flags().StringVar(&membersFlags.out, "out", "-", "output file (- for stdout)")
	_ = membersCmd.MarkFlagRequired("dump")
}

func runMembers(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := logging.Ctx(ctx)
	cfg := config.Load()

	dir := identity.NewDirectory(identity.WithLogger(logger))
	reader := dump.NewReader(membersFlags.dumpPath, dump.WithLogger(logger))

	fresh, err := chat.Ingest(ctx, dir, reader, membersFlags.chatRef, membersFlags.limit)
	if aborted, fatal := splitIngestErr(err); fatal != nil {
		return fatal
	} else if aborted {
		logger.Warn().Msg("Ingestion aborted, persisting partial directory")
	}
	logger.Info().Int("new_subjects", fresh).Int("directory", dir.Len()).Msg("Event ingestion done")

	if membersFlags.participantsPath != "" {
		parts := dump.NewReader(membersFlags.participantsPath, dump.WithLogger(logger))
		fresh, err = chat.IngestParticipants(ctx, dir, parts, membersFlags.chatRef, 0)
		if aborted, fatal := splitIngestErr(err); fatal != nil {
			return fatal
		} else if aborted {
			logger.Warn().Msg("Participant ingestion aborted, persisting partial directory")
		}
		logger.Info().Int("new_subjects", fresh).Msg("Participant ingestion done")
	}

	if membersFlags.resolve {
		if err := resolveBare(ctx, cfg, dir); err != nil {
			return err
		}
	}

	records := dir.Snapshot()
	snap := export.NewSnapshot(logging.RunID(ctx), membersFlags.chatRef, records)

	w, closeFn, err := openOutput(membersFlags.out)
	if err != nil {
		return err
	}
	defer closeFn()

	switch membersFlags.format {
	case "yaml":
		err = snap.WriteYAML(w)
	case "json":
		err = snap.WriteJSON(w)
	default:
		return pkgerrors.NewValidationError("format", membersFlags.format, "must be json or yaml")
	}
	if err != nil {
		return err
	}

	logger.Info().
		Int("participants", len(records)).
		Interface("fragments", dir.Counts()).
		Msg("Directory snapshot written")
	return nil
}

// resolveBare wires the Bot API resolver (behind the local cache) into the
// directory's resolution pass.
func resolveBare(ctx context.Context, cfg *config.Config, dir *identity.Directory) error {
	logger := logging.Ctx(ctx)

	token, err := cfg.Token()
	if err != nil {
		return err
	}
	client, err := botapi.New(token,
		botapi.WithRateLimit(cfg.RequestsPerSecond),
		botapi.WithLogger(logger))
	if err != nil {
		return err
	}

	cachePath, err := cfg.CachePath()
	if err != nil {
		return err
	}
	store, err := cache.Open(cachePath)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	concurrency := membersFlags.concurrency
	if concurrency < 1 {
		concurrency = cfg.ResolveConcurrency
	}

	resolver := cache.NewResolver(store, client, 0)
	err = dir.Resolve(ctx, resolver, identity.WithConcurrency(concurrency))
	if aborted, fatal := splitIngestErr(err); fatal != nil {
		return fatal
	} else if aborted {
		logger.Warn().Msg("Resolution aborted, persisting partial directory")
	}
	return nil
}

// splitIngestErr separates context cancellation (partial results are still
// persisted) from genuinely fatal errors.
func splitIngestErr(err error) (aborted bool, fatal error) {
	if err == nil {
		return false, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true, nil
	}
	return false, err
}

// openOutput opens the output target, "-" meaning stdout.
func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, pkgerrors.WrapIO("create", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}
