package state

import (
	"encoding/json"
	"time"

	"github.com/spf13/afero"

	"wcp-fetch/internal/logger"
)

// SyncState records the outcome of one application's most recent sync.
type SyncState struct {
	AppID       string `json:"app_id"`       // Numeric platform id resolved for the reference id
	ArchivePath string `json:"archive_path"` // Where the downloaded ZIP was archived
	SyncedAt    string `json:"synced_at"`    // RFC 3339 timestamp of the sync
}

// State holds the saved sync history, keyed by application reference id.
type State struct {
	Syncs map[string]SyncState `json:"syncs"`
}

// Load loads the saved state from a JSON file at the given path.
// If the file does not exist or cannot be read, it returns a new empty
// State. The Syncs map is always non-nil.
func Load(fs afero.Fs, path string) *State {
	file, err := afero.ReadFile(fs, path)
	if err != nil {
		// File missing or unreadable: start with empty history.
		return &State{Syncs: make(map[string]SyncState)}
	}

	var st State
	_ = json.Unmarshal(file, &st)

	if st.Syncs == nil {
		st.Syncs = make(map[string]SyncState)
	}
	return &st
}

// Record stores the outcome of a completed sync for the reference id.
func (st *State) Record(referenceID, appID, archivePath string) {
	st.Syncs[referenceID] = SyncState{
		AppID:       appID,
		ArchivePath: archivePath,
		SyncedAt:    time.Now().Format(time.RFC3339),
	}
}

// Save writes the state to a JSON file at the given path, pretty-printed
// for readability. Errors are logged but not propagated; a lost history
// entry should not fail an otherwise successful sync.
func Save(fs afero.Fs, path string, st *State) {
	file, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		logger.Error("[ERROR] Failed to marshal state: %v\n", err)
		return
	}

	logger.Debug("[DEBUG] Writing state to %s\n", path)
	if err := afero.WriteFile(fs, path, file, 0644); err != nil {
		logger.Error("[ERROR] Failed to write state file %s: %v\n", path, err)
	}
}
