package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/SUMITRAUTHAN09/rosca/internal/models"
)

// Wishlist returns the rooms the user has saved
func (c *Client) Wishlist(ctx context.Context) ([]models.Room, error) {
	var resp struct {
		Data     []models.Room `json:"data"`
		Wishlist []models.Room `json:"wishlist"`
	}
	err := c.do(ctx, call{
		op:        "wishlist",
		method:    http.MethodGet,
		path:      "/wishlist",
		protected: true,
		fallback:  "Failed to fetch wishlist",
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Wishlist != nil {
		return resp.Wishlist, nil
	}
	if resp.Data != nil {
		return resp.Data, nil
	}
	return []models.Room{}, nil
}

func (c *Client) AddToWishlist(ctx context.Context, roomID string) error {
	return c.do(ctx, call{
		op:        "wishlist_add",
		method:    http.MethodPost,
		path:      "/wishlist/add/" + url.PathEscape(roomID),
		protected: true,
		body:      jsonBody(map[string]string{"roomId": roomID}),
		fallback:  "Failed to add to wishlist",
	}, nil)
}

func (c *Client) RemoveFromWishlist(ctx context.Context, roomID string) error {
	return c.do(ctx, call{
		op:        "wishlist_remove",
		method:    http.MethodDelete,
		path:      "/wishlist/remove/" + url.PathEscape(roomID),
		protected: true,
		fallback:  "Failed to remove from wishlist",
	}, nil)
}

func (c *Client) ClearWishlist(ctx context.Context) error {
	return c.do(ctx, call{
		op:        "wishlist_clear",
		method:    http.MethodDelete,
		path:      "/wishlist/clear",
		protected: true,
		fallback:  "Failed to clear wishlist",
	}, nil)
}

// InWishlist reports whether a room is saved
func (c *Client) InWishlist(ctx context.Context, roomID string) (bool, error) {
	var resp struct {
		InWishlist   *bool `json:"inWishlist"`
		IsInWishlist *bool `json:"isInWishlist"`
	}
	err := c.do(ctx, call{
		op:        "wishlist_check",
		method:    http.MethodGet,
		path:      "/wishlist/check/" + url.PathEscape(roomID),
		protected: true,
		fallback:  "Failed to check wishlist",
	}, &resp)
	if err != nil {
		return false, err
	}
	switch {
	case resp.InWishlist != nil:
		return *resp.InWishlist, nil
	case resp.IsInWishlist != nil:
		return *resp.IsInWishlist, nil
	}
	return false, nil
}

// ToggleWishlist removes the room when it is saved and adds it otherwise.
// It returns the resulting state, unchanged on error.
func (c *Client) ToggleWishlist(ctx context.Context, roomID string, saved bool) (bool, error) {
	if saved {
		if err := c.RemoveFromWishlist(ctx, roomID); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := c.AddToWishlist(ctx, roomID); err != nil {
		return false, err
	}
	return true, nil
}
