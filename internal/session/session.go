package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gopkg.in/yaml.v3"

	"github.com/SUMITRAUTHAN09/rosca/internal/models"
)

// state is the on-disk layout. The keys match what the web client keeps in
// localStorage so a token copied from the browser can be pasted in as-is.
type state struct {
	AuthToken    string       `yaml:"authToken,omitempty"`
	User         *models.User `yaml:"user,omitempty"`
	UserLoggedIn bool         `yaml:"userLoggedIn,omitempty"`
}

// Context holds the signed-in session: a bearer token and the user it
// belongs to. It is safe for concurrent use. When created with Open every
// change is written back to the session file.
type Context struct {
	token string
	user  *models.User
	path  string
	now   func() time.Time
	mu    sync.RWMutex
}

// New returns an empty, in-memory session
func New() *Context {
	return &Context{now: time.Now}
}

// Open loads the session stored at path. A missing file yields an empty
// session that will be created on the first Set.
func Open(path string) (*Context, error) {
	c := &Context{path: path, now: time.Now}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var st state
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	c.token = st.AuthToken
	c.user = st.User
	return c, nil
}

// Token returns the bearer token, or "" when there is none or it has expired
func (c *Context) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == "" || expired(c.token, c.now()) {
		return ""
	}
	return c.token
}

func (c *Context) HasToken() bool {
	return c.Token() != ""
}

// User returns the cached user, if one was stored with the token
func (c *Context) User() (models.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return models.User{}, false
	}
	return *c.user, true
}

// Set stores a token and, optionally, the user it belongs to
func (c *Context) Set(token string, user *models.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	if user != nil {
		u := *user
		c.user = &u
	} else {
		c.user = nil
	}
	return c.save()
}

// SetUser replaces the cached user and keeps the token
func (c *Context) SetUser(user models.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = &user
	return c.save()
}

// Clear signs out: token and user are dropped and the session file removed
func (c *Context) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.user = nil
	if c.path == "" {
		return nil
	}
	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

func (c *Context) save() error {
	if c.path == "" {
		return nil
	}

	st := state{
		AuthToken:    c.token,
		User:         c.user,
		UserLoggedIn: c.token != "",
	}
	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// expired reports whether a JWT carries an exp claim in the past. Tokens
// that are not JWTs are opaque to the client and never expire here; the
// signature is the server's business.
func expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}
