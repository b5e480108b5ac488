package bstesting

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/nodeset-org/hyperdrive-bsteth/common/contracts"
	"github.com/nodeset-org/hyperdrive-bsteth/common/contracts/bsteth"
	bskeys "github.com/nodeset-org/hyperdrive-bsteth/keys"
	"github.com/rocket-pool/node-manager-core/utils"
)

// ====================
// === Key Registry ===
// ====================

// An in-memory key registry
type FakeKeyRegistry struct {
	// Returned from IsRegistered when set
	Err error

	pubkeys map[string]bool
	lock    sync.RWMutex
}

func NewFakeKeyRegistry(pubkeys ...[]byte) *FakeKeyRegistry {
	r := &FakeKeyRegistry{
		pubkeys: map[string]bool{},
	}
	for _, pubkey := range pubkeys {
		r.pubkeys[fakeRegistryKey(pubkey)] = true
	}
	return r
}

func (r *FakeKeyRegistry) IsRegistered(pubkey []byte) (bool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.Err != nil {
		return false, r.Err
	}
	return r.pubkeys[fakeRegistryKey(pubkey)], nil
}

func (r *FakeKeyRegistry) Count() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.pubkeys)
}

func fakeRegistryKey(pubkey []byte) string {
	return strings.ToLower(utils.EncodeHexWithPrefix(pubkey))
}

// =====================
// === Bond Resolver ===
// =====================

// A bond resolver that returns a fixed bond
type FakeBondResolver struct {
	Bond *big.Int
	Err  error

	// The key counts of every request
	Calls []int
	lock  sync.Mutex
}

func (r *FakeBondResolver) ResolveBond(ctx context.Context, keyCount int) (*big.Int, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.Calls = append(r.Calls, keyCount)
	if r.Err != nil {
		return nil, r.Err
	}
	return new(big.Int).Set(r.Bond), nil
}

func (r *FakeBondResolver) CallCount() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.Calls)
}

// ===================
// === Connections ===
// ===================

// Hands out connections backed by a fake execution client and the real BstETH binding
type FakeConnectionProvider struct {
	Client *FakeExecutionClient

	// Returned from Open when set
	OpenErr error

	opened int
	closed int
	lock   sync.Mutex
}

func NewFakeConnectionProvider() *FakeConnectionProvider {
	return &FakeConnectionProvider{
		Client: &FakeExecutionClient{},
	}
}

func (p *FakeConnectionProvider) Open(ctx context.Context) (bskeys.ChainConnection, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.OpenErr != nil {
		return nil, p.OpenErr
	}
	txMgr, err := contracts.NewTransactionManager(p.Client, TestChainID)
	if err != nil {
		return nil, err
	}
	p.opened++
	return &fakeConnection{
		provider: p,
		txMgr:    txMgr,
	}, nil
}

// Number of connections opened
func (p *FakeConnectionProvider) OpenCount() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.opened
}

// Number of connections closed
func (p *FakeConnectionProvider) CloseCount() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.closed
}

type fakeConnection struct {
	provider *FakeConnectionProvider
	txMgr    *contracts.TransactionManager
}

func (c *fakeConnection) GetOperatorContract(address common.Address) (bskeys.OperatorContract, error) {
	return bsteth.NewBstETH(address, c.txMgr)
}

func (c *fakeConnection) Close() error {
	c.provider.lock.Lock()
	defer c.provider.lock.Unlock()
	c.provider.closed++
	return nil
}

// ==============
// === Signer ===
// ==============

// A signer that returns a fixed hash or error
type FakeSigner struct {
	TxHash common.Hash
	Err    error

	// Every transaction handed to the signer
	Requests []*contracts.TransactionInfo
	lock     sync.Mutex
}

func (s *FakeSigner) Sign(ctx context.Context, tx *contracts.TransactionInfo) (common.Hash, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Requests = append(s.Requests, tx)
	if s.Err != nil {
		return common.Hash{}, s.Err
	}
	return s.TxHash, nil
}

func (s *FakeSigner) RequestCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.Requests)
}
