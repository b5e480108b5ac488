package bskeys

import (
	"fmt"
)

// Checks every key in the batch against the registry and against the rest of the batch. If any of
// them were already submitted or show up more than once, the whole batch is rejected with a KeyExists
// error listing all of the offending keys.
func CheckDuplicateKeys(batch Batch, registry KeyRegistry) error {
	duplicates := []string{}
	seen := map[string]bool{}
	flagged := map[string]bool{}
	for _, datum := range batch {
		pubkey := datum.PubkeyHex()
		if seen[pubkey] {
			if !flagged[pubkey] {
				duplicates = append(duplicates, pubkey)
				flagged[pubkey] = true
			}
			continue
		}
		seen[pubkey] = true

		registered, err := registry.IsRegistered(datum.Pubkey)
		if err != nil {
			return fmt.Errorf("error checking if key %s was already submitted: %w", pubkey, err)
		}
		if registered {
			duplicates = append(duplicates, pubkey)
			flagged[pubkey] = true
		}
	}
	if len(duplicates) == 0 {
		return nil
	}

	subErr := newSubmissionError(ErrorKind_KeyExists, nil)
	subErr.DuplicateKeys = duplicates
	return subErr
}
