package commands

import (
	"context"
	"errors"

	"mess-market/internal/domain/bid"
	"mess-market/internal/domain/listing"
	"mess-market/internal/domain/notification"
	"mess-market/internal/infra"
	"mess-market/internal/pkg/clock"
	"mess-market/internal/pkg/errs"
	"mess-market/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrBidNotFound = errs.New("bid not found")
	// ErrDuplicateBid: one bid per (buyer, listing); resubmit via update.
	ErrDuplicateBid       = errs.New("bid already exists for this listing")
	ErrBidAlreadyAccepted = errs.New("bid already accepted")
	ErrOwnListingBid      = errs.New("cannot bid on own listing")
	ErrNotBuyer           = errs.New("only the bid's buyer can do this")
)

type BidCommands interface {
	Place(ctx context.Context, buyerID, listingID uuid.UUID, price int32) (uuid.UUID, error)
	Update(ctx context.Context, buyerID, listingID uuid.UUID, price int32) error
	Withdraw(ctx context.Context, buyerID, bidID uuid.UUID) error
}

type bidCommandsImpl struct {
	uow      shared.UnitOfWork
	notifier shared.Notifier
	clock    clock.Clock
}

func NewBidCommands(uow shared.UnitOfWork, notifier shared.Notifier, clk clock.Clock) BidCommands {
	return &bidCommandsImpl{
		uow:      uow,
		notifier: notifier,
		clock:    clk,
	}
}

// Place allows offers below the listing's minimum: the floor is advisory and
// the seller simply won't accept a lowball. Rejecting would lose real demand
// signal on slots nobody wants at full price.
func (c *bidCommandsImpl) Place(ctx context.Context, buyerID, listingID uuid.UUID, price int32) (uuid.UUID, error) {
	snap, err := c.uow.CommandReads().ListingByID(ctx, listingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return uuid.Nil, ErrListingNotFound
		}
		return uuid.Nil, errs.Wrap(err, "failed to load listing")
	}

	now := c.clock.Now().In(c.clock.Location())
	if listing.IsExpired(snap.MealDate, snap.MealType, now) {
		return uuid.Nil, ErrListingExpired
	}

	bidPrice, err := listing.NewPrice(price)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidPrice)
	}

	entity, err := bid.NewBid(listingID, buyerID, snap.SellerID, bidPrice, c.clock.Now())
	if err != nil {
		if errors.Is(err, bid.ErrOwnListing) {
			return uuid.Nil, ErrOwnListingBid
		}
		return uuid.Nil, err
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Bids().Create(ctx, tx.DB(), entity)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return uuid.Nil, ErrDuplicateBid
		}
		return uuid.Nil, errs.Wrap(err, "failed to persist bid")
	}

	c.notifySeller(ctx, snap, entity.ID(), buyerID, price, false)
	return entity.ID(), nil
}

func (c *bidCommandsImpl) Update(ctx context.Context, buyerID, listingID uuid.UUID, price int32) error {
	reads := c.uow.CommandReads()

	bidSnap, err := reads.BidByBuyerAndListing(ctx, buyerID, listingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrBidNotFound
		}
		return errs.Wrap(err, "failed to load bid")
	}
	if bidSnap.Accepted {
		return ErrBidAlreadyAccepted
	}

	listingSnap, err := reads.ListingByID(ctx, listingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrListingNotFound
		}
		return errs.Wrap(err, "failed to load listing")
	}

	bidPrice, err := listing.NewPrice(price)
	if err != nil {
		return errs.Mark(err, ErrInvalidPrice)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Bids().UpdatePrice(ctx, tx.DB(), bidSnap.ID, bidPrice.Amount())
	})
	if err != nil {
		// The statement refuses accepted bids, so a concurrent accept between
		// the read and the write surfaces here.
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrBidAlreadyAccepted
		}
		return errs.Wrap(err, "failed to update bid price")
	}

	c.notifySeller(ctx, listingSnap, bidSnap.ID, buyerID, price, true)
	return nil
}

// Withdraw is idempotent: a bid that is already gone counts as withdrawn. The
// delete itself carries the NOT accepted guard, so an accept committing after
// the validation read still blocks the withdrawal.
func (c *bidCommandsImpl) Withdraw(ctx context.Context, buyerID, bidID uuid.UUID) error {
	snap, err := c.uow.CommandReads().BidByID(ctx, bidID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil
		}
		return errs.Wrap(err, "failed to load bid")
	}
	if snap.BuyerID != buyerID {
		return ErrNotBuyer
	}
	if snap.Accepted {
		return ErrBidAlreadyAccepted
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		deleted, err := tx.Bids().DeleteUnaccepted(ctx, tx.DB(), bidID)
		if err != nil {
			return err
		}
		if deleted {
			return nil
		}
		// Zero rows: the bid either vanished (withdrawn elsewhere, fine) or
		// got accepted since the validation read.
		if _, err := tx.Reads().BidByID(ctx, bidID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil
			}
			return err
		}
		return ErrBidAlreadyAccepted
	})
	if err != nil {
		if errors.Is(err, ErrBidAlreadyAccepted) {
			return ErrBidAlreadyAccepted
		}
		return errs.Wrap(err, "failed to withdraw bid")
	}
	return nil
}

func (c *bidCommandsImpl) notifySeller(ctx context.Context, snap *shared.ListingSnapshot, bidID, buyerID uuid.UUID, price int32, updated bool) {
	bidderName := "A buyer"
	if buyer, err := c.uow.CommandReads().UserByID(ctx, buyerID); err == nil {
		bidderName = buyer.DisplayName
	}

	c.notifier.Notify(ctx, snap.SellerID, notification.BidPlaced{
		ListingID: snap.ID,
		BidID:     bidID,
		Bidder:    bidderName,
		Price:     price,
		MealDate:  snap.MealDate.String(),
		MealType:  snap.MealType.String(),
		Updated:   updated,
	})
}
