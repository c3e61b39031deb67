package api

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/SUMITRAUTHAN09/rosca/internal/listing"
	"github.com/SUMITRAUTHAN09/rosca/internal/models"
)

type roomResponse struct {
	Data *models.Room `json:"data"`
	Room *models.Room `json:"room"`
}

func (r roomResponse) room() models.Room {
	switch {
	case r.Data != nil:
		return *r.Data
	case r.Room != nil:
		return *r.Room
	}
	return models.Room{}
}

type roomsResponse struct {
	Data  []models.Room `json:"data"`
	Rooms []models.Room `json:"rooms"`
}

func (r roomsResponse) list() []models.Room {
	if r.Rooms != nil {
		return r.Rooms
	}
	if r.Data != nil {
		return r.Data
	}
	return []models.Room{}
}

func roomPath(roomID string) string {
	return "/rooms/" + url.PathEscape(roomID)
}

// ListRooms fetches every published room
func (c *Client) ListRooms(ctx context.Context) ([]models.Room, error) {
	var resp roomsResponse
	err := c.do(ctx, call{
		op:       "list_rooms",
		method:   http.MethodGet,
		path:     "/rooms",
		fallback: "Failed to fetch rooms",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.list(), nil
}

func (c *Client) GetRoom(ctx context.Context, roomID string) (models.Room, error) {
	var resp roomResponse
	err := c.do(ctx, call{
		op:       "get_room",
		method:   http.MethodGet,
		path:     roomPath(roomID),
		fallback: "Failed to fetch room details",
	}, &resp)
	if err != nil {
		return models.Room{}, err
	}
	return resp.room(), nil
}

// MyRooms fetches the rooms listed by the signed-in user
func (c *Client) MyRooms(ctx context.Context) ([]models.Room, error) {
	var resp roomsResponse
	err := c.do(ctx, call{
		op:        "my_rooms",
		method:    http.MethodGet,
		path:      "/rooms/user/my-rooms",
		protected: true,
		fallback:  "Failed to fetch user rooms",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.list(), nil
}

// CreateRoom uploads a submission payload. Media is streamed from the
// selected files rather than buffered.
func (c *Client) CreateRoom(ctx context.Context, payload *listing.Payload) (models.Room, error) {
	var pr *io.PipeReader
	defer func() {
		if pr != nil {
			pr.Close()
		}
	}()

	var resp roomResponse
	err := c.do(ctx, call{
		op:        "create_room",
		method:    http.MethodPost,
		path:      "/rooms",
		protected: true,
		body: func() (io.Reader, string, error) {
			var pw *io.PipeWriter
			pr, pw = io.Pipe()
			go func() {
				_, err := payload.WriteTo(pw)
				pw.CloseWithError(err)
			}()
			return pr, payload.ContentType(), nil
		},
		fallback: "Failed to add room",
	}, &resp)
	if err != nil {
		return models.Room{}, err
	}
	return resp.room(), nil
}

func (c *Client) UpdateRoom(ctx context.Context, roomID string, update listing.RoomUpdate) (models.Room, error) {
	var resp roomResponse
	err := c.do(ctx, call{
		op:        "update_room",
		method:    http.MethodPut,
		path:      roomPath(roomID),
		protected: true,
		body:      jsonBody(update),
		fallback:  "Failed to update room",
	}, &resp)
	if err != nil {
		return models.Room{}, err
	}
	return resp.room(), nil
}

func (c *Client) DeleteRoom(ctx context.Context, roomID string) error {
	return c.do(ctx, call{
		op:        "delete_room",
		method:    http.MethodDelete,
		path:      roomPath(roomID),
		protected: true,
		fallback:  "Failed to delete room",
	}, nil)
}
