package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const sessionFile = "session.json"

// ErrNoSession is returned when no session has been saved yet.
var ErrNoSession = errors.New("not logged in")

// Session is the persisted login state of the CLI.
type Session struct {
	Server       string `json:"server"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// DisplayName joins first and last name.
func (s Session) DisplayName() string {
	switch {
	case s.FirstName == "":
		return s.LastName
	case s.LastName == "":
		return s.FirstName
	default:
		return s.FirstName + " " + s.LastName
	}
}

// SessionStore keeps the session in <dir>/session.json, readable by the owner only.
type SessionStore struct {
	dir string
}

func NewSessionStore(dir string) *SessionStore {
	return &SessionStore{dir: dir}
}

// Path returns the session file location.
func (s *SessionStore) Path() string {
	return filepath.Join(s.dir, sessionFile)
}

// Load reads the saved session or returns ErrNoSession.
func (s *SessionStore) Load() (Session, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to read session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return Session{}, fmt.Errorf("failed to decode session %s: %w", s.Path(), err)
	}
	if session.AccessToken == "" {
		return Session{}, ErrNoSession
	}
	return session, nil
}

// Save writes the session atomically with mode 0600.
func (s *SessionStore) Save(session Session) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, sessionFile+".*")
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save session: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return os.Rename(tmp.Name(), s.Path())
}

// Clear removes the saved session. A missing file is not an error.
func (s *SessionStore) Clear() error {
	err := os.Remove(s.Path())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
