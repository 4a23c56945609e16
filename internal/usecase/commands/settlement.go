package commands

import (
	"context"
	"log/slog"

	"mess-market/internal/domain/listing"
	"mess-market/internal/domain/notification"
	"mess-market/internal/domain/settlement"
	"mess-market/internal/infra"
	"mess-market/internal/pkg/clock"
	"mess-market/internal/pkg/errs"
	"mess-market/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrBidNotAccepted = errs.New("bid not accepted")
	ErrBidAlreadyPaid = errs.New("bid already paid")
)

// acceptRetries bounds reruns of the accept transaction after losing the
// accepted-bid index race.
const acceptRetries = 2

// SettlementCommands drives the listing through its terminal states:
// accept → (cancel | pay). Payment itself happens off-platform between the
// students; MarkPaid is the seller's confirmation that it did.
type SettlementCommands interface {
	AcceptBid(ctx context.Context, sellerID, listingID, bidID uuid.UUID) error
	MarkPaid(ctx context.Context, sellerID, listingID, bidID uuid.UUID) error
	CancelAcceptedBid(ctx context.Context, sellerID, listingID, bidID uuid.UUID) error
}

type settlementCommandsImpl struct {
	uow      shared.UnitOfWork
	registry shared.MealRegistry
	notifier shared.Notifier
	clock    clock.Clock
}

func NewSettlementCommands(
	uow shared.UnitOfWork,
	registry shared.MealRegistry,
	notifier shared.Notifier,
	clk clock.Clock,
) SettlementCommands {
	return &settlementCommandsImpl{
		uow:      uow,
		registry: registry,
		notifier: notifier,
		clock:    clk,
	}
}

// AcceptBid clears any previously accepted bid and marks the target, both in
// one transaction. Concurrent accepts on the same listing serialize on the
// row locks, so at most one bid can end up accepted; a partial unique index
// in the store backstops the same invariant.
func (c *settlementCommandsImpl) AcceptBid(ctx context.Context, sellerID, listingID, bidID uuid.UUID) error {
	listingSnap, bidSnap, err := c.loadPair(ctx, sellerID, listingID, bidID)
	if err != nil {
		return err
	}
	if bidSnap.Paid {
		return ErrBidAlreadyPaid
	}
	if bidSnap.Accepted {
		return nil
	}

	// Two accepts racing on different bids can both find nothing to clear;
	// the loser then trips the one-accepted-per-listing index. Rerunning is
	// the same as having arrived second: the winner's row gets cleared and
	// the acceptance moves.
	for attempt := 0; ; attempt++ {
		err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			if err := tx.Bids().ClearAcceptedForListing(ctx, tx.DB(), listingID); err != nil {
				return err
			}
			return tx.Bids().SetAccepted(ctx, tx.DB(), bidID)
		})
		if !infra.IsKind(err, infra.KindDuplicateKey) || attempt >= acceptRetries {
			break
		}
	}
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrBidNotFound
		}
		return errs.Wrap(err, "failed to accept bid")
	}

	c.notifyAccepted(ctx, listingSnap, bidSnap)
	return nil
}

// MarkPaid is the settlement saga. The redemption token is fetched before the
// transaction: a registry outage then degrades the purchase to an empty token
// instead of blocking the seller, and support reconciles later. Everything
// after that point is atomic: bid paid, transaction and purchase written,
// bids and listing gone.
func (c *settlementCommandsImpl) MarkPaid(ctx context.Context, sellerID, listingID, bidID uuid.UUID) error {
	listingSnap, bidSnap, err := c.loadPair(ctx, sellerID, listingID, bidID)
	if err != nil {
		return err
	}
	if !bidSnap.Accepted {
		return ErrBidNotAccepted
	}
	if bidSnap.Paid {
		return ErrBidAlreadyPaid
	}

	token := c.fetchToken(ctx, sellerID, listingSnap)
	now := c.clock.Now()

	txn := settlement.NewTransaction(
		listingSnap.MealDate, listingSnap.MealType, listingSnap.Mess,
		mustPrice(bidSnap.Price), mustPrice(listingSnap.MinPrice),
		bidSnap.BuyerID, sellerID,
		listingSnap.CreatedAt, now,
	)
	purchase := settlement.NewPurchase(txn.ID(), token, listingSnap.MealDate, now)

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Bids().MarkPaid(ctx, tx.DB(), bidID); err != nil {
			return err
		}
		if err := tx.Transactions().Create(ctx, tx.DB(), txn); err != nil {
			return err
		}
		if err := tx.Purchases().Create(ctx, tx.DB(), purchase); err != nil {
			return err
		}
		if _, err := tx.Bids().DeleteByListing(ctx, tx.DB(), listingID); err != nil {
			return err
		}
		_, err := tx.Listings().Delete(ctx, tx.DB(), listingID)
		return err
	})
	if err != nil {
		// MarkPaid's WHERE accepted guard: a concurrent cancel turns up here.
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrBidNotAccepted
		}
		return errs.Wrap(err, "failed to settle sale")
	}

	c.notifySettled(ctx, listingSnap, bidSnap, txn.ID(), purchase.ID(), token != "")
	return nil
}

// CancelAcceptedBid deletes the bid outright rather than reopening it: the
// buyer gets an explicit do-not-pay notice and must re-bid if still
// interested.
func (c *settlementCommandsImpl) CancelAcceptedBid(ctx context.Context, sellerID, listingID, bidID uuid.UUID) error {
	listingSnap, bidSnap, err := c.loadPair(ctx, sellerID, listingID, bidID)
	if err != nil {
		return err
	}
	if bidSnap.Paid {
		return ErrBidAlreadyPaid
	}
	if !bidSnap.Accepted {
		return ErrBidNotAccepted
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.Bids().Delete(ctx, tx.DB(), bidID)
		return err
	})
	if err != nil {
		return errs.Wrap(err, "failed to cancel accepted bid")
	}

	c.notifier.Notify(ctx, bidSnap.BuyerID, notification.BidCancelled{
		ListingID: listingID,
		MealDate:  listingSnap.MealDate.String(),
		MealType:  listingSnap.MealType.String(),
	})
	return nil
}

// Snapshot prices were validated on the way in, so reconstruction can't fail.
func mustPrice(amount int32) listing.Price {
	p, _ := listing.NewPrice(amount)
	return p
}

func (c *settlementCommandsImpl) loadPair(ctx context.Context, sellerID, listingID, bidID uuid.UUID) (*shared.ListingSnapshot, *shared.BidSnapshot, error) {
	reads := c.uow.CommandReads()

	listingSnap, err := reads.ListingByID(ctx, listingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, ErrListingNotFound
		}
		return nil, nil, errs.Wrap(err, "failed to load listing")
	}
	if listingSnap.SellerID != sellerID {
		return nil, nil, ErrNotSeller
	}

	bidSnap, err := reads.BidByID(ctx, bidID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, ErrBidNotFound
		}
		return nil, nil, errs.Wrap(err, "failed to load bid")
	}
	if bidSnap.ListingID != listingID {
		return nil, nil, ErrBidNotFound
	}

	return listingSnap, bidSnap, nil
}

func (c *settlementCommandsImpl) fetchToken(ctx context.Context, sellerID uuid.UUID, snap *shared.ListingSnapshot) string {
	seller, err := c.uow.CommandReads().UserByID(ctx, sellerID)
	if err != nil || seller.MealCredential == "" {
		slog.Warn("settling without redemption token: no usable credential",
			"listing_id", snap.ID, "seller_id", sellerID)
		return ""
	}

	registration, err := c.registry.Registration(ctx, seller.MealCredential, snap.MealDate, snap.MealType)
	if err != nil {
		slog.Warn("settling without redemption token: registry fetch failed",
			"listing_id", snap.ID, "seller_id", sellerID, "error", err.Error())
		return ""
	}
	return registration.Token
}

func (c *settlementCommandsImpl) notifyAccepted(ctx context.Context, listingSnap *shared.ListingSnapshot, bidSnap *shared.BidSnapshot) {
	reads := c.uow.CommandReads()
	buyer, buyerErr := reads.UserByID(ctx, bidSnap.BuyerID)
	seller, sellerErr := reads.UserByID(ctx, listingSnap.SellerID)
	if buyerErr != nil || sellerErr != nil {
		slog.Warn("skipping accept notifications: failed to load parties",
			"listing_id", listingSnap.ID, "bid_id", bidSnap.ID)
		return
	}

	base := notification.BidAccepted{
		ListingID: listingSnap.ID,
		BidID:     bidSnap.ID,
		Price:     bidSnap.Price,
		MealDate:  listingSnap.MealDate.String(),
		MealType:  listingSnap.MealType.String(),
	}

	toBuyer := base
	toBuyer.Counterparty = seller.DisplayName
	toBuyer.ContactEmail = seller.Email
	c.notifier.Notify(ctx, bidSnap.BuyerID, toBuyer)

	toSeller := base
	toSeller.Counterparty = buyer.DisplayName
	toSeller.ContactEmail = buyer.Email
	toSeller.SelfRecord = true
	c.notifier.Notify(ctx, listingSnap.SellerID, toSeller)
}

func (c *settlementCommandsImpl) notifySettled(ctx context.Context, listingSnap *shared.ListingSnapshot, bidSnap *shared.BidSnapshot, txnID, purchaseID uuid.UUID, hasToken bool) {
	c.notifier.Notify(ctx, bidSnap.BuyerID, notification.PaymentConfirmed{
		TransactionID: txnID,
		PurchaseID:    purchaseID,
		Price:         bidSnap.Price,
		MealDate:      listingSnap.MealDate.String(),
		MealType:      listingSnap.MealType.String(),
		Mess:          listingSnap.Mess,
		HasToken:      hasToken,
	})

	buyerName := "the buyer"
	if buyer, err := c.uow.CommandReads().UserByID(ctx, bidSnap.BuyerID); err == nil {
		buyerName = buyer.DisplayName
	}
	c.notifier.Notify(ctx, listingSnap.SellerID, notification.SaleRecorded{
		TransactionID: txnID,
		Price:         bidSnap.Price,
		MealDate:      listingSnap.MealDate.String(),
		MealType:      listingSnap.MealType.String(),
		Buyer:         buyerName,
	})
}
