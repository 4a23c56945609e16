//go:build unit

// Package fake holds in-memory doubles for the write-side ports. The fakes
// mirror the guarded SQL of the real repositories: conditional updates whose
// guard fails surface as KindNotFound, duplicates as KindDuplicateKey, so
// command code takes the same branches it would against the store.
package fake

import (
	"context"
	"sync"

	dombid "mess-market/internal/domain/bid"
	domlisting "mess-market/internal/domain/listing"
	"mess-market/internal/domain/settlement"
	domuser "mess-market/internal/domain/user"
	"mess-market/internal/infra"
	"mess-market/internal/infra/db"
	"mess-market/internal/usecase/shared"

	"github.com/google/uuid"
)

type Store struct {
	mu           sync.Mutex
	listings     map[uuid.UUID]*shared.ListingSnapshot
	bids         map[uuid.UUID]*shared.BidSnapshot
	users        map[uuid.UUID]*shared.UserSnapshot
	transactions []*settlement.Transaction
	purchases    []*settlement.Purchase
}

func NewStore() *Store {
	return &Store{
		listings: make(map[uuid.UUID]*shared.ListingSnapshot),
		bids:     make(map[uuid.UUID]*shared.BidSnapshot),
		users:    make(map[uuid.UUID]*shared.UserSnapshot),
	}
}

// Seeding helpers. Snapshots are copied in so tests can't alias store state.

func (s *Store) AddUser(snap shared.UserSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[snap.ID] = &snap
}

func (s *Store) AddListing(snap shared.ListingSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings[snap.ID] = &snap
}

func (s *Store) AddBid(snap shared.BidSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bids[snap.ID] = &snap
}

func (s *Store) Listing(id uuid.UUID) (shared.ListingSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.listings[id]
	if !ok {
		return shared.ListingSnapshot{}, false
	}
	return *snap, true
}

func (s *Store) Bid(id uuid.UUID) (shared.BidSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.bids[id]
	if !ok {
		return shared.BidSnapshot{}, false
	}
	return *snap, true
}

func (s *Store) User(id uuid.UUID) (shared.UserSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.users[id]
	if !ok {
		return shared.UserSnapshot{}, false
	}
	return *snap, true
}

func (s *Store) Transactions() []*settlement.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*settlement.Transaction(nil), s.transactions...)
}

func (s *Store) Purchases() []*settlement.Purchase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*settlement.Purchase(nil), s.purchases...)
}

func (s *Store) ListingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listings)
}

func (s *Store) BidCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bids)
}

// MarkBidAccepted flips a stored bid to accepted, standing in for a
// concurrent accept committing while a command is between its validation
// read and its transaction.
func (s *Store) MarkBidAccepted(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap, ok := s.bids[id]; ok {
		snap.Accepted = true
	}
}

func (s *Store) hasAcceptedBid(listingID uuid.UUID) bool {
	for _, b := range s.bids {
		if b.ListingID == listingID && b.Accepted {
			return true
		}
	}
	return false
}

// UnitOfWork implements shared.UnitOfWork over the in-memory store. There is
// no rollback: commands under test either succeed atomically or fail before
// mutating, which matches how the guarded statements behave.
type UnitOfWork struct {
	store *Store
}

func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

func (u *UnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &fakeTx{store: u.store})
}

func (u *UnitOfWork) WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *UnitOfWork) CommandReads() shared.CommandReads {
	return &fakeReads{store: u.store}
}

type fakeTx struct {
	store *Store
}

func (t *fakeTx) Listings() shared.ListingRepository        { return &fakeListingRepo{store: t.store} }
func (t *fakeTx) Bids() shared.BidRepository                { return &fakeBidRepo{store: t.store} }
func (t *fakeTx) Transactions() shared.TransactionRepository { return &fakeTxnRepo{store: t.store} }
func (t *fakeTx) Purchases() shared.PurchaseRepository      { return &fakePurchaseRepo{store: t.store} }
func (t *fakeTx) Users() shared.UserRepository              { return &fakeUserRepo{store: t.store} }
func (t *fakeTx) Reads() shared.CommandReads                { return &fakeReads{store: t.store} }
func (t *fakeTx) DB() db.DBTX                               { return nil }

type fakeReads struct {
	store *Store
}

func (r *fakeReads) ListingByID(_ context.Context, id uuid.UUID) (*shared.ListingSnapshot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snap, ok := r.store.listings[id]
	if !ok {
		return nil, infra.WrapRepoErr("listing not found", nil, infra.KindNotFound)
	}
	out := *snap
	out.HasAcceptedBid = r.store.hasAcceptedBid(id)
	return &out, nil
}

func (r *fakeReads) BidByID(_ context.Context, id uuid.UUID) (*shared.BidSnapshot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snap, ok := r.store.bids[id]
	if !ok {
		return nil, infra.WrapRepoErr("bid not found", nil, infra.KindNotFound)
	}
	out := *snap
	return &out, nil
}

func (r *fakeReads) BidByBuyerAndListing(_ context.Context, buyerID, listingID uuid.UUID) (*shared.BidSnapshot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, snap := range r.store.bids {
		if snap.BuyerID == buyerID && snap.ListingID == listingID {
			out := *snap
			return &out, nil
		}
	}
	return nil, infra.WrapRepoErr("bid not found", nil, infra.KindNotFound)
}

func (r *fakeReads) UserByID(_ context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snap, ok := r.store.users[id]
	if !ok {
		return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	out := *snap
	return &out, nil
}

func (r *fakeReads) ExpiryCandidates(_ context.Context, today domlisting.MealDate) ([]*shared.ListingSnapshot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*shared.ListingSnapshot
	for _, snap := range r.store.listings {
		if !today.Before(snap.MealDate) {
			copied := *snap
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeListingRepo struct {
	store *Store
}

func (r *fakeListingRepo) Create(_ context.Context, _ db.DBTX, l *domlisting.Listing) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, snap := range r.store.listings {
		if snap.SellerID == l.SellerID() && snap.MealDate.Equal(l.MealDate()) && snap.MealType == l.MealType() {
			return infra.WrapRepoErr("listing already exists", nil, infra.KindDuplicateKey)
		}
	}
	r.store.listings[l.ID()] = &shared.ListingSnapshot{
		ID:        l.ID(),
		SellerID:  l.SellerID(),
		MealDate:  l.MealDate(),
		MealType:  l.MealType(),
		Mess:      l.Mess(),
		MinPrice:  l.MinPrice().Amount(),
		CreatedAt: l.CreatedAt(),
	}
	return nil
}

func (r *fakeListingRepo) UpdateMinPrice(_ context.Context, _ db.DBTX, id uuid.UUID, price int32) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snap, ok := r.store.listings[id]
	if !ok || r.store.hasAcceptedBid(id) {
		return infra.WrapRepoErr("listing not found or locked", nil, infra.KindNotFound)
	}
	snap.MinPrice = price
	return nil
}

func (r *fakeListingRepo) Delete(_ context.Context, _ db.DBTX, id uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.listings[id]; !ok {
		return false, nil
	}
	delete(r.store.listings, id)
	return true, nil
}

type fakeBidRepo struct {
	store *Store
}

func (r *fakeBidRepo) Create(_ context.Context, _ db.DBTX, b *dombid.Bid) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, snap := range r.store.bids {
		if snap.ListingID == b.ListingID() && snap.BuyerID == b.BuyerID() {
			return infra.WrapRepoErr("bid already exists", nil, infra.KindDuplicateKey)
		}
	}
	r.store.bids[b.ID()] = &shared.BidSnapshot{
		ID:        b.ID(),
		ListingID: b.ListingID(),
		BuyerID:   b.BuyerID(),
		Price:     b.Price().Amount(),
		Accepted:  b.Accepted(),
		Paid:      b.Paid(),
		CreatedAt: b.CreatedAt(),
	}
	return nil
}

func (r *fakeBidRepo) UpdatePrice(_ context.Context, _ db.DBTX, id uuid.UUID, price int32) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snap, ok := r.store.bids[id]
	if !ok || snap.Accepted {
		return infra.WrapRepoErr("bid not found or accepted", nil, infra.KindNotFound)
	}
	snap.Price = price
	return nil
}

func (r *fakeBidRepo) ClearAcceptedForListing(_ context.Context, _ db.DBTX, listingID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, snap := range r.store.bids {
		if snap.ListingID == listingID {
			snap.Accepted = false
		}
	}
	return nil
}

func (r *fakeBidRepo) SetAccepted(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snap, ok := r.store.bids[id]
	if !ok {
		return infra.WrapRepoErr("bid not found", nil, infra.KindNotFound)
	}
	snap.Accepted = true
	return nil
}

func (r *fakeBidRepo) MarkPaid(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snap, ok := r.store.bids[id]
	if !ok || !snap.Accepted {
		return infra.WrapRepoErr("bid not found or not accepted", nil, infra.KindNotFound)
	}
	snap.Paid = true
	return nil
}

func (r *fakeBidRepo) DeleteUnaccepted(_ context.Context, _ db.DBTX, id uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snap, ok := r.store.bids[id]
	if !ok || snap.Accepted {
		return false, nil
	}
	delete(r.store.bids, id)
	return true, nil
}

func (r *fakeBidRepo) Delete(_ context.Context, _ db.DBTX, id uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.bids[id]; !ok {
		return false, nil
	}
	delete(r.store.bids, id)
	return true, nil
}

func (r *fakeBidRepo) DeleteByListing(_ context.Context, _ db.DBTX, listingID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var deleted int64
	for id, snap := range r.store.bids {
		if snap.ListingID == listingID {
			delete(r.store.bids, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeTxnRepo struct {
	store *Store
}

func (r *fakeTxnRepo) Create(_ context.Context, _ db.DBTX, t *settlement.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.transactions = append(r.store.transactions, t)
	return nil
}

type fakePurchaseRepo struct {
	store *Store
}

func (r *fakePurchaseRepo) Create(_ context.Context, _ db.DBTX, p *settlement.Purchase) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.purchases = append(r.store.purchases, p)
	return nil
}

type fakeUserRepo struct {
	store *Store
}

func (r *fakeUserRepo) Upsert(_ context.Context, _ db.DBTX, u *domuser.User) (uuid.UUID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, snap := range r.store.users {
		if snap.Roll == u.Roll() {
			snap.DisplayName = u.DisplayName()
			snap.Email = u.Email()
			return snap.ID, nil
		}
	}
	r.store.users[u.ID()] = &shared.UserSnapshot{
		ID:          u.ID(),
		Roll:        u.Roll(),
		DisplayName: u.DisplayName(),
		Email:       u.Email(),
	}
	return u.ID(), nil
}

func (r *fakeUserRepo) UpdateMealCredential(_ context.Context, _ db.DBTX, id uuid.UUID, credential string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snap, ok := r.store.users[id]
	if !ok {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	snap.MealCredential = credential
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, _ db.DBTX, _ uuid.UUID) error {
	return nil
}
