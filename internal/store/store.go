// Package store persists the ledger's named records as JSON files in a data
// directory. Each record is loaded whole and saved whole; a missing file
// loads as the record's well-defined default.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"FundKeeper/internal/model"
)

const (
	ledgerFile      = "data.json"
	modesFile       = "state.json"
	lastActionsFile = "last_actions.json"
	messagesFile    = "messages.json"
)

// FileStore keeps every record as a JSON file under one directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed and returns a store.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// LoadLedger reads the fund record. Returns an empty ledger if absent.
func (s *FileStore) LoadLedger() (*model.Ledger, error) {
	l := model.NewLedger()
	if err := s.load(ledgerFile, l); err != nil {
		return nil, err
	}
	return l, nil
}

// SaveLedger overwrites the fund record.
func (s *FileStore) SaveLedger(l *model.Ledger) error {
	return s.save(ledgerFile, l)
}

// LoadModes reads the per-chat conversation mode record.
func (s *FileStore) LoadModes() (model.ModeTable, error) {
	m := make(model.ModeTable)
	if err := s.load(modesFile, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// SaveModes overwrites the conversation mode record.
func (s *FileStore) SaveModes(m model.ModeTable) error {
	return s.save(modesFile, m)
}

// LoadLastActions reads the per-chat undo slot record.
func (s *FileStore) LoadLastActions() (model.LastActionTable, error) {
	t := make(model.LastActionTable)
	if err := s.load(lastActionsFile, &t); err != nil {
		return nil, err
	}
	return t, nil
}

// SaveLastActions overwrites the undo slot record.
func (s *FileStore) SaveLastActions(t model.LastActionTable) error {
	return s.save(lastActionsFile, t)
}

// LoadMessages reads the bot-sent message log.
func (s *FileStore) LoadMessages() ([]model.SentMessage, error) {
	var msgs []model.SentMessage
	if err := s.load(messagesFile, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// SaveMessages overwrites the bot-sent message log.
func (s *FileStore) SaveMessages(msgs []model.SentMessage) error {
	if msgs == nil {
		msgs = []model.SentMessage{}
	}
	return s.save(messagesFile, msgs)
}

// ArchiveLedger preserves a full ledger snapshot under the given key for
// later manual recovery. The key becomes "<key>.json" in the data directory.
func (s *FileStore) ArchiveLedger(key string, l *model.Ledger) error {
	return s.save(key+".json", l)
}

func (s *FileStore) load(name string, out any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) save(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
