package bskeys

import (
	"errors"
	"strings"
	"testing"

	"github.com/rocket-pool/node-manager-core/utils"
	"github.com/stretchr/testify/require"
)

type mapRegistry struct {
	registered map[string]bool
	err        error
	checked    int
}

func newMapRegistry(pubkeys ...[]byte) *mapRegistry {
	r := &mapRegistry{registered: map[string]bool{}}
	for _, pubkey := range pubkeys {
		r.registered[utils.EncodeHexWithPrefix(pubkey)] = true
	}
	return r
}

func (r *mapRegistry) IsRegistered(pubkey []byte) (bool, error) {
	r.checked++
	if r.err != nil {
		return false, r.err
	}
	return r.registered[utils.EncodeHexWithPrefix(pubkey)], nil
}

func TestCheckDuplicateKeysPasses(t *testing.T) {
	registry := newMapRegistry(makeDatum(0x09).Pubkey)
	err := CheckDuplicateKeys(Batch{makeDatum(0x01), makeDatum(0x02)}, registry)
	require.NoError(t, err)
	require.Equal(t, 2, registry.checked)
}

func TestCheckDuplicateKeysChecksEveryKey(t *testing.T) {
	k1 := makeDatum(0x01)
	k2 := makeDatum(0x02)
	k3 := makeDatum(0x03)
	registry := newMapRegistry(k2.Pubkey, k3.Pubkey)

	err := CheckDuplicateKeys(Batch{k1, k2, k3}, registry)
	require.ErrorIs(t, err, ErrKeyExists)
	require.Equal(t, 3, registry.checked)

	var subErr *SubmissionError
	require.True(t, errors.As(err, &subErr))
	require.Equal(t, ErrorKind_KeyExists, subErr.Kind)
	require.Equal(t, []string{k2.PubkeyHex(), k3.PubkeyHex()}, subErr.DuplicateKeys)
	require.True(t, strings.Contains(err.Error(), k2.PubkeyHex()))
}

func TestCheckDuplicateKeysRegistryFailure(t *testing.T) {
	registry := newMapRegistry()
	registry.err = errors.New("disk on fire")
	err := CheckDuplicateKeys(Batch{makeDatum(0x01)}, registry)
	require.ErrorIs(t, err, registry.err)
	require.Equal(t, ErrorKind_None, KindOf(err))
}

func TestCheckDuplicateKeysWithinBatch(t *testing.T) {
	k1 := makeDatum(0x01)
	k2 := makeDatum(0x02)
	registry := newMapRegistry()

	err := CheckDuplicateKeys(Batch{k1, k1}, registry)
	require.ErrorIs(t, err, ErrKeyExists)
	var subErr *SubmissionError
	require.True(t, errors.As(err, &subErr))
	require.Equal(t, []string{k1.PubkeyHex()}, subErr.DuplicateKeys)

	// Each repeated key is listed once, in the order it was found
	err = CheckDuplicateKeys(Batch{k2, k1, k2, k1, k2}, registry)
	require.True(t, errors.As(err, &subErr))
	require.Equal(t, []string{k2.PubkeyHex(), k1.PubkeyHex()}, subErr.DuplicateKeys)
}

func TestCheckDuplicateKeysRegisteredAndRepeated(t *testing.T) {
	k1 := makeDatum(0x01)
	registry := newMapRegistry(k1.Pubkey)

	err := CheckDuplicateKeys(Batch{k1, k1}, registry)
	var subErr *SubmissionError
	require.True(t, errors.As(err, &subErr))
	require.Equal(t, []string{k1.PubkeyHex()}, subErr.DuplicateKeys)
	require.Equal(t, 1, registry.checked)
}
