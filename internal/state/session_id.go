package state

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

// ComputeSessionID computes a stable session ID from the tree root path.
// This ID names the session state file.
func ComputeSessionID(root string) string {
	hash := sha256.Sum256([]byte(filepath.Clean(root)))
	return hex.EncodeToString(hash[:])
}
