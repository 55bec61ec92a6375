package internal

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// SessionStore owns the ordered session collections, one per namespace,
// most-recently-updated first. Every mutating call writes the full list back
// to the backend before returning, so readers always observe a consistent
// view. The store is the only writer to its keys.
type SessionStore struct {
	mu      sync.Mutex
	backend Backend
}

// NewSessionStore creates a store over the given backend
func NewSessionStore(backend Backend) *SessionStore {
	return &SessionStore{backend: backend}
}

// List returns the namespace's sessions, most recently updated first.
// A missing or corrupt persisted value yields an empty list, never an error:
// corruption is recoverable by simply starting over.
func (s *SessionStore) List(namespace string) ([]Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(namespace)
}

// Get returns one session by ID, moving nothing. Returns ErrSessionNotFound
// if the ID is absent.
func (s *SessionStore) Get(namespace, sessionID string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.loadLocked(namespace)
	if err != nil {
		return Session{}, err
	}
	for _, sess := range sessions {
		if sess.ID == sessionID {
			return sess, nil
		}
	}
	return Session{}, ErrSessionNotFound
}

// Upsert creates or replaces a session and moves it to the front.
//
// With an empty sessionID a new session is minted and inserted at index 0.
// With a known sessionID its messages and UpdatedAt are replaced, the title
// is recomputed unless the user renamed it, and it moves to index 0. With an
// unknown sessionID (deleted concurrently) the session is recreated under the
// same ID rather than dropping the messages.
//
// A non-empty title overrides the computed one and marks it user-set.
func (s *SessionStore) Upsert(namespace, sessionID string, messages []Message, title string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.loadLocked(namespace)
	if err != nil {
		return Session{}, err
	}

	now := time.Now()
	var updated Session

	idx := -1
	if sessionID != "" {
		for i, sess := range sessions {
			if sess.ID == sessionID {
				idx = i
				break
			}
		}
	}

	if idx >= 0 {
		updated = sessions[idx]
		updated.Messages = messages
		updated.UpdatedAt = now
		if title != "" {
			updated.Title = title
			updated.TitleSet = true
		} else if !updated.TitleSet {
			updated.Title = DefaultTitle(messages)
		}
		sessions = append(sessions[:idx], sessions[idx+1:]...)
	} else {
		id := sessionID
		if id == "" {
			id = NewSessionID()
		}
		updated = Session{
			ID:        id,
			Title:     DefaultTitle(messages),
			UpdatedAt: now,
			Messages:  messages,
		}
		if title != "" {
			updated.Title = title
			updated.TitleSet = true
		}
	}

	sessions = append([]Session{updated}, sessions...)

	if err := s.persistLocked(namespace, sessions); err != nil {
		return Session{}, err
	}
	return updated, nil
}

// Rename overwrites a session's title in place without reordering. An empty
// or whitespace-only title is a no-op.
func (s *SessionStore) Rename(namespace, sessionID, newTitle string) error {
	newTitle = strings.TrimSpace(newTitle)
	if newTitle == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.loadLocked(namespace)
	if err != nil {
		return err
	}
	for i := range sessions {
		if sessions[i].ID == sessionID {
			sessions[i].Title = newTitle
			sessions[i].TitleSet = true
			return s.persistLocked(namespace, sessions)
		}
	}
	return ErrSessionNotFound
}

// Remove deletes a session. Removing an absent ID is a no-op.
func (s *SessionStore) Remove(namespace, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.loadLocked(namespace)
	if err != nil {
		return err
	}
	for i := range sessions {
		if sessions[i].ID == sessionID {
			sessions = append(sessions[:i], sessions[i+1:]...)
			return s.persistLocked(namespace, sessions)
		}
	}
	return nil
}

// Touch moves a session to the front and refreshes its UpdatedAt, used when
// a session is loaded into the active conversation.
func (s *SessionStore) Touch(namespace, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.loadLocked(namespace)
	if err != nil {
		return err
	}
	for i := range sessions {
		if sessions[i].ID == sessionID {
			sess := sessions[i]
			sess.UpdatedAt = time.Now()
			sessions = append(sessions[:i], sessions[i+1:]...)
			sessions = append([]Session{sess}, sessions...)
			return s.persistLocked(namespace, sessions)
		}
	}
	return ErrSessionNotFound
}

// loadLocked reads and deserializes a namespace's session list.
// Caller must hold s.mu.
func (s *SessionStore) loadLocked(namespace string) ([]Session, error) {
	value, ok, err := s.backend.Get(StorageKey(namespace))
	if err != nil {
		return nil, err
	}
	if !ok || value == "" {
		return []Session{}, nil
	}

	var sessions []Session
	if err := json.Unmarshal([]byte(value), &sessions); err != nil {
		LogWarn("Corrupt session list for namespace %q, treating as empty: %v", namespace, err)
		return []Session{}, nil
	}
	return sessions, nil
}

// persistLocked serializes the full session list back to the backend.
// Caller must hold s.mu.
func (s *SessionStore) persistLocked(namespace string, sessions []Session) error {
	data, err := json.Marshal(sessions)
	if err != nil {
		return &StorageError{Key: StorageKey(namespace), Op: "put", Err: err}
	}
	return s.backend.Put(StorageKey(namespace), string(data))
}
