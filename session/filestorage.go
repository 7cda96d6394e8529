package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const sessionFileName = "session.json"

// FileStorage keeps the durable session copy in a single JSON file under the
// configured data folder.
type FileStorage struct {
	path string
}

var _ Storage = (*FileStorage)(nil)

type storedSession struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// NewFileStorage returns a FileStorage rooted at folder.
func NewFileStorage(folder string) *FileStorage {
	return &FileStorage{path: filepath.Join(folder, sessionFileName)}
}

// Read never fails: a missing, unreadable or partially written file reports
// ok=false and is treated upstream as "no session".
func (f *FileStorage) Read() (string, []byte, bool) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", nil, false
	}
	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return "", nil, false
	}
	if stored.Token == "" || len(stored.User) == 0 {
		return "", nil, false
	}
	return stored.Token, stored.User, true
}

func (f *FileStorage) Write(token string, user []byte) error {
	data, err := json.Marshal(storedSession{Token: token, User: user})
	if err != nil {
		return errors.Wrap(err, "[FileStorage.Write] marshal")
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return errors.Wrap(err, "[FileStorage.Write] create folder")
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return errors.Wrap(err, "[FileStorage.Write] write file")
	}
	return nil
}

func (f *FileStorage) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[FileStorage.Clear] remove file")
	}
	return nil
}
