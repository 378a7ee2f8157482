package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmallard/rollcall/internal/botapi"
	"github.com/jmallard/rollcall/internal/cache"
	"github.com/jmallard/rollcall/internal/config"
	"github.com/jmallard/rollcall/internal/stickers"
	"github.com/jmallard/rollcall/pkg/logging"
)

var stickerFlags struct {
	chatRef string
	set     string
	emoji   string
}

// stickerCmd is the parent for sticker operations.
var stickerCmd = &cobra.Command{
	Use:   "sticker",
	Short: "Sticker operations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return fmt.Errorf("unknown sticker operation: %s", args[0])
	},
}

// stickerSendCmd sends one sticker from a named set.
var stickerSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a sticker picked by emoji from a set",
	Long: `Send looks up the named sticker set (cached locally between runs),
picks the sticker associated with the given emoji, and sends it to the
chat.`,
	Example: `  rollcall sticker send --chat @gophers --set GopherPack --emoji 🎉`,
	RunE:    runStickerSend,
}

func init() {
	rootCmd.AddCommand(stickerCmd)
	stickerCmd.AddCommand(stickerSendCmd)

	stickerSendCmd.Flags().StringVar(&stickerFlags.chatRef, "chat", "", "target chat id or @handle, required")
	stickerSendCmd.Flags().StringVar(&stickerFlags.set, "set", "", "sticker set name, required")
	stickerSendCmd.Flags().StringVar(&stickerFlags.emoji, "emoji", "", "emoji to pick from the set, required")
	_ = stickerSendCmd.MarkFlagRequired("chat")
	_ = stickerSendCmd.MarkFlagRequired("set")
	_ = stickerSendCmd.MarkFlagRequired("emoji")
}

func runStickerSend(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := logging.Ctx(ctx)
	cfg := config.Load()

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

	catalog := stickers.NewCatalog(store, client, stickers.WithLogger(logger))
	return catalog.Send(ctx, client, stickerFlags.chatRef, stickerFlags.set, stickerFlags.emoji)
}
