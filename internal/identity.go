package internal

import "strings"

// GuestNamespace is the storage namespace used when no identity is available.
const GuestNamespace = "guest"

// storageKeyPrefix namespaces session lists inside the shared key-value store.
const storageKeyPrefix = "chat_history_"

// Identity describes an authenticated user as supplied by the external auth
// collaborator. A nil Identity means a guest. None of the fields are required;
// the first non-empty one identifies the user.
type Identity struct {
	UniqueID string `json:"unique_id,omitempty" yaml:"unique_id,omitempty"`
	Email    string `json:"email,omitempty" yaml:"email,omitempty"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Ref returns the identifier sent to the backend as identity_ref.
// Empty for guests.
func (id *Identity) Ref() string {
	if id == nil {
		return ""
	}
	for _, field := range []string{id.UniqueID, id.Email, id.Username, id.Name} {
		if strings.TrimSpace(field) != "" {
			return strings.TrimSpace(field)
		}
	}
	return ""
}

// DeriveNamespace maps an identity to its stable storage namespace.
// Guests and identities without any identifying field map to "guest".
// The result is deterministic: trimmed, lower-cased, with internal
// whitespace collapsed to single underscores. Never fails.
func DeriveNamespace(id *Identity) string {
	ref := id.Ref()
	if ref == "" {
		return GuestNamespace
	}
	normalized := strings.ToLower(ref)
	// Collapse any run of whitespace into one underscore
	fields := strings.Fields(normalized)
	return strings.Join(fields, "_")
}

// StorageKey returns the key under which a namespace's session list is
// persisted.
func StorageKey(namespace string) string {
	if namespace == "" {
		namespace = GuestNamespace
	}
	return storageKeyPrefix + namespace
}
