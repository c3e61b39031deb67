package api

import "strings"

// ServerBaseURL strips the trailing /api from an API base URL, giving the
// origin that serves uploaded media.
func ServerBaseURL(apiBase string) string {
	base := strings.TrimRight(apiBase, "/")
	return strings.TrimSuffix(base, "/api")
}

// ImageURL resolves a media path from a Room. Absolute URLs pass through
// and server-relative paths are joined to the server base.
func (c *Client) ImageURL(path string) string {
	return ResolveImageURL(ServerBaseURL(c.BaseURL), path)
}

func ResolveImageURL(serverBase, path string) string {
	switch {
	case path == "":
		return ""
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return path
	case strings.HasPrefix(path, "/"):
		return serverBase + path
	}
	return serverBase + "/" + path
}
