package botapi

import (
	"context"

	"github.com/jmallard/rollcall/internal/stickers"
)

// stickerSetResult mirrors the getStickerSet response shape.
type stickerSetResult struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Stickers []struct {
		FileID string `json:"file_id"`
		Emoji  string `json:"emoji"`
	} `json:"stickers"`
}

// GetStickerSet implements stickers.Fetcher via the getStickerSet method.
func (c *Client) GetStickerSet(ctx context.Context, name string) (*stickers.Set, error) {
	var result stickerSetResult
	params := map[string]any{"name": name}
	if err := c.invoke(ctx, "getStickerSet", params, &result); err != nil {
		return nil, err
	}

	set := &stickers.Set{
		Name:  result.Name,
		Title: result.Title,
	}
	for _, s := range result.Stickers {
		set.Stickers = append(set.Stickers, stickers.Sticker{FileID: s.FileID, Emoji: s.Emoji})
	}
	return set, nil
}

// SendSticker implements stickers.Sender via the sendSticker method.
func (c *Client) SendSticker(ctx context.Context, chat string, fileID string) error {
	params := map[string]any{
		"chat_id": chat,
		"sticker": fileID,
	}
	return c.invoke(ctx, "sendSticker", params, nil)
}
