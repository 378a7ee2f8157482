package botapi

import (
	"context"

	"github.com/jmallard/rollcall/pkg/identity"
)

// chatInfo is the subset of the getChat result the resolver cares about.
// The id is decoded through SubjectID so values past 2^53 survive.
type chatInfo struct {
	ID        identity.SubjectID `json:"id"`
	Type      string             `json:"type"`
	Username  string             `json:"username"`
	FirstName string             `json:"first_name"`
	LastName  string             `json:"last_name"`
}

// ResolveSubject implements identity.Resolver via the getChat method.
// Unknown or blocked subjects come back as 404/403 API errors, which map
// onto ErrNotFound / ErrAccessDenied for the caller.
func (c *Client) ResolveSubject(ctx context.Context, id identity.SubjectID) (identity.Fragment, error) {
	var info chatInfo
	params := map[string]any{"chat_id": id.String()}
	if err := c.invoke(ctx, "getChat", params, &info); err != nil {
		return identity.Fragment{}, err
	}
	return identity.Fragment{
		Subject:   id,
		Handle:    info.Username,
		FirstName: info.FirstName,
		LastName:  info.LastName,
		Source:    identity.SourceLookup,
	}, nil
}
