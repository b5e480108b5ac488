package bscommon

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rocket-pool/node-manager-core/utils"
)

const (
	fileMode fs.FileMode = 0600
	dirMode  fs.FileMode = 0700
)

// Data stored in the key registry file
type keyRegistryData struct {
	// 0x-prefixed pubkeys already submitted to BstETH
	Pubkeys []string `json:"pubkeys"`
}

// Tracks the keys that were already submitted, persisted as a JSON file
type KeyRegistry struct {
	path    string
	pubkeys map[string]struct{}
	lock    sync.RWMutex
}

// Create a new key registry backed by the file at the provided path
func NewKeyRegistry(path string) (*KeyRegistry, error) {
	registry := &KeyRegistry{
		path:    path,
		pubkeys: map[string]struct{}{},
	}
	err := registry.Reload()
	if err != nil {
		return nil, fmt.Errorf("error loading key registry: %w", err)
	}
	return registry, nil
}

// Reload the registry from disk
func (r *KeyRegistry) Reload() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	// Check if the registry exists
	_, err := os.Stat(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		r.pubkeys = map[string]struct{}{}
		return nil
	} else if err != nil {
		return fmt.Errorf("error checking status of key registry file [%s]: %w", r.path, err)
	}

	// Read it
	bytes, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("error loading key registry data: %w", err)
	}
	var data keyRegistryData
	err = json.Unmarshal(bytes, &data)
	if err != nil {
		return fmt.Errorf("error deserializing key registry data: %w", err)
	}
	pubkeys := make(map[string]struct{}, len(data.Pubkeys))
	for _, pubkey := range data.Pubkeys {
		pubkeys[strings.ToLower(pubkey)] = struct{}{}
	}
	r.pubkeys = pubkeys
	return nil
}

// Check if the key was already submitted
func (r *KeyRegistry) IsRegistered(pubkey []byte) (bool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	_, exists := r.pubkeys[registryKey(pubkey)]
	return exists, nil
}

// Get the number of submitted keys
func (r *KeyRegistry) Count() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.pubkeys)
}

// Record keys as submitted and save the registry
func (r *KeyRegistry) Add(pubkeys ...[]byte) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, pubkey := range pubkeys {
		r.pubkeys[registryKey(pubkey)] = struct{}{}
	}
	return r.saveData()
}

// Write the registry to disk
func (r *KeyRegistry) saveData() error {
	data := keyRegistryData{
		Pubkeys: make([]string, 0, len(r.pubkeys)),
	}
	for pubkey := range r.pubkeys {
		data.Pubkeys = append(data.Pubkeys, pubkey)
	}
	sort.Strings(data.Pubkeys)

	// Serialize it
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("error serializing key registry data: %w", err)
	}

	// Save it
	err = os.MkdirAll(filepath.Dir(r.path), dirMode)
	if err != nil {
		return fmt.Errorf("error creating key registry directory: %w", err)
	}
	err = os.WriteFile(r.path, bytes, fileMode)
	if err != nil {
		return fmt.Errorf("error saving key registry data: %w", err)
	}
	return nil
}

func registryKey(pubkey []byte) string {
	return strings.ToLower(utils.EncodeHexWithPrefix(pubkey))
}
