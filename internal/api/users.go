package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/pkg/errors"

	"github.com/SUMITRAUTHAN09/rosca/internal/media"
	"github.com/SUMITRAUTHAN09/rosca/internal/models"
)

const (
	UserTypeHost = "host"
	UserTypeUser = "user"
)

var ErrInvalidUserType = errors.New("invalid user type")

type userResponse struct {
	User  *models.User `json:"user"`
	Data  *models.User `json:"data"`
	Token string       `json:"token"`
}

func (r userResponse) user() (models.User, bool) {
	switch {
	case r.User != nil:
		return *r.User, true
	case r.Data != nil:
		return *r.Data, true
	}
	return models.User{}, false
}

// CurrentUser fetches the profile of the signed-in user
func (c *Client) CurrentUser(ctx context.Context) (models.User, error) {
	var resp userResponse
	err := c.do(ctx, call{
		op:        "current_user",
		method:    http.MethodGet,
		path:      "/users/me",
		protected: true,
		fallback:  "Failed to fetch user info",
	}, &resp)
	if err != nil {
		return models.User{}, err
	}

	user, ok := resp.user()
	if !ok {
		return models.User{}, &RemoteError{Op: "current_user", StatusCode: http.StatusOK, Message: "User data not found in response"}
	}
	return user, nil
}

// UploadProfilePicture replaces the avatar. Only images within the image
// size limit are sent. The session's cached user is refreshed on success.
func (c *Client) UploadProfilePicture(ctx context.Context, file media.FileHandle) (models.User, error) {
	item, err := media.Validate(file)
	if err != nil {
		return models.User{}, err
	}
	if item.Kind != media.KindImage {
		return models.User{}, errors.Wrapf(media.ErrUnsupportedType, "%s is not an image", item.Name)
	}

	var resp userResponse
	err = c.do(ctx, call{
		op:        "upload_profile_picture",
		method:    http.MethodPost,
		path:      "/users/upload-profile-picture",
		protected: true,
		body: func() (io.Reader, string, error) {
			return singleFileBody("profilePicture", item)
		},
		fallback: "Failed to upload profile picture",
	}, &resp)
	if err != nil {
		return models.User{}, err
	}

	user, ok := resp.user()
	if ok {
		if err := c.session.SetUser(user); err != nil {
			return user, err
		}
	}
	return user, nil
}

// UpdateUserType switches the account between hosting and browsing
func (c *Client) UpdateUserType(ctx context.Context, userType string) (models.User, error) {
	if userType != UserTypeHost && userType != UserTypeUser {
		return models.User{}, errors.Wrapf(ErrInvalidUserType, "%q", userType)
	}

	var resp userResponse
	err := c.do(ctx, call{
		op:        "update_user_type",
		method:    http.MethodPatch,
		path:      "/users/update-user-type",
		protected: true,
		body:      jsonBody(map[string]string{"userType": userType}),
		fallback:  "Failed to update user type",
	}, &resp)
	if err != nil {
		return models.User{}, err
	}

	user, ok := resp.user()
	if ok {
		if err := c.session.SetUser(user); err != nil {
			return user, err
		}
	}
	return user, nil
}

// singleFileBody buffers one small file as a multipart body
func singleFileBody(field string, item media.Item) (io.Reader, string, error) {
	src, err := item.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", item.Name, err)
	}
	defer src.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, item.Name))
	header.Set("Content-Type", item.MimeType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", item.Name, err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
