package client

import (
	"context"

	"github.com/crmarques/srvinv/inventory"
	"github.com/crmarques/srvinv/translator"
)

// AddItem appends a sniffed item to a list attribute unless an equal item is
// already present. A missing or null attribute counts as an empty list.
func (c *Client) AddItem(ctx context.Context, collection string, id string, attribute string, raw string) inventory.ListCode {
	return c.editList(ctx, collection, id, attribute, func(items []inventory.Value) ([]inventory.Value, bool) {
		item := translator.SniffValue(raw)
		if indexOf(items, item) >= 0 {
			return nil, false
		}
		return append(items, item), true
	})
}

// RemoveItem drops every item equal to the sniffed item.
func (c *Client) RemoveItem(ctx context.Context, collection string, id string, attribute string, raw string) inventory.ListCode {
	return c.editList(ctx, collection, id, attribute, func(items []inventory.Value) ([]inventory.Value, bool) {
		item := translator.SniffValue(raw)
		if indexOf(items, item) < 0 {
			return nil, false
		}
		kept := make([]inventory.Value, 0, len(items))
		for _, existing := range items {
			if !existing.Equal(item) {
				kept = append(kept, existing)
			}
		}
		return kept, true
	})
}

func (c *Client) editList(
	ctx context.Context,
	collection string,
	id string,
	attribute string,
	edit func([]inventory.Value) ([]inventory.Value, bool),
) inventory.ListCode {
	id, ok := c.resolveID(ctx, collection, id)
	if !ok {
		return inventory.ListIdentityUnresolved
	}

	code, current := c.get(ctx, collection, id, attribute)
	switch code {
	case inventory.FetchOK:
	case inventory.FetchAttributeMissing:
		current = inventory.List()
	default:
		return inventory.ListFetchFailed
	}
	if current.IsNull() {
		current = inventory.List()
	}

	items, ok := current.AsList()
	if !ok {
		return inventory.ListNotAList
	}

	updated, changed := edit(items)
	if !changed {
		return inventory.ListNoop
	}

	switch c.setValue(ctx, collection, id, attribute, inventory.List(updated...)) {
	case inventory.PatchOK:
		return inventory.ListOK
	case inventory.PatchUnchanged:
		return inventory.ListNoop
	default:
		return inventory.ListWriteFailed
	}
}

func indexOf(items []inventory.Value, item inventory.Value) int {
	for idx, existing := range items {
		if existing.Equal(item) {
			return idx
		}
	}
	return -1
}
