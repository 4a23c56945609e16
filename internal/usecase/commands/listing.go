package commands

import (
	"context"
	"errors"

	"mess-market/internal/domain/listing"
	"mess-market/internal/infra"
	"mess-market/internal/pkg/clock"
	"mess-market/internal/pkg/errs"
	"mess-market/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrListingNotFound = errs.New("listing not found")
	ErrNotSeller       = errs.New("only the seller can do this")
	ErrListingExpired  = errs.New("listing expired")
	// ErrListingLocked: an accepted bid freezes the listing's price.
	ErrListingLocked    = errs.New("listing has an accepted bid")
	ErrInvalidPrice     = errs.New("invalid price")
	ErrDuplicateListing = errs.New("slot already listed")
)

type ListingCommands interface {
	Create(ctx context.Context, sellerID uuid.UUID, mealDate listing.MealDate, mealType listing.MealType, minPrice int32) (uuid.UUID, error)
	UpdateMinPrice(ctx context.Context, sellerID, listingID uuid.UUID, minPrice int32) error
	Delete(ctx context.Context, sellerID, listingID uuid.UUID) error
}

type listingCommandsImpl struct {
	uow      shared.UnitOfWork
	registry shared.MealRegistry
	clock    clock.Clock
}

func NewListingCommands(uow shared.UnitOfWork, registry shared.MealRegistry, clk clock.Clock) ListingCommands {
	return &listingCommandsImpl{
		uow:      uow,
		registry: registry,
		clock:    clk,
	}
}

// Create auto-fills the mess from the seller's actual registration. A seller
// without a linked meal credential cannot list at all.
func (c *listingCommandsImpl) Create(
	ctx context.Context,
	sellerID uuid.UUID,
	mealDate listing.MealDate,
	mealType listing.MealType,
	minPrice int32,
) (uuid.UUID, error) {
	seller, err := c.uow.CommandReads().UserByID(ctx, sellerID)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrUserNotFound)
	}
	if seller.MealCredential == "" {
		return uuid.Nil, shared.ErrCredentialExpired
	}

	registration, err := c.registry.Registration(ctx, seller.MealCredential, mealDate, mealType)
	if err != nil {
		// ErrCredentialExpired and ErrNotRegistered pass through to the handler
		return uuid.Nil, err
	}

	price, err := listing.NewPrice(minPrice)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidPrice)
	}

	entity, err := listing.NewListing(
		&listing.Services{Clock: c.clock},
		sellerID, mealDate, mealType, registration.Mess, price,
	)
	if err != nil {
		if errors.Is(err, listing.ErrSlotExpired) {
			return uuid.Nil, errs.Mark(err, ErrListingExpired)
		}
		return uuid.Nil, err
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Listings().Create(ctx, tx.DB(), entity)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return uuid.Nil, ErrDuplicateListing
		}
		return uuid.Nil, errs.Wrap(err, "failed to persist listing")
	}

	return entity.ID(), nil
}

func (c *listingCommandsImpl) UpdateMinPrice(ctx context.Context, sellerID, listingID uuid.UUID, minPrice int32) error {
	snap, err := c.uow.CommandReads().ListingByID(ctx, listingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrListingNotFound
		}
		return errs.Wrap(err, "failed to load listing")
	}
	if snap.SellerID != sellerID {
		return ErrNotSeller
	}
	if snap.HasAcceptedBid {
		return ErrListingLocked
	}

	price, err := listing.NewPrice(minPrice)
	if err != nil {
		return errs.Mark(err, ErrInvalidPrice)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Listings().UpdateMinPrice(ctx, tx.DB(), listingID, price.Amount())
	})
	if err != nil {
		// The update re-checks for an accepted bid inside the statement, so a
		// concurrent accept between the read and the write lands here.
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrListingLocked
		}
		return errs.Wrap(err, "failed to update listing price")
	}
	return nil
}

// Delete is idempotent: removing a listing that is already gone succeeds.
func (c *listingCommandsImpl) Delete(ctx context.Context, sellerID, listingID uuid.UUID) error {
	snap, err := c.uow.CommandReads().ListingByID(ctx, listingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil
		}
		return errs.Wrap(err, "failed to load listing")
	}
	if snap.SellerID != sellerID {
		return ErrNotSeller
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Bids().DeleteByListing(ctx, tx.DB(), listingID); err != nil {
			return err
		}
		_, err := tx.Listings().Delete(ctx, tx.DB(), listingID)
		return err
	})
	if err != nil {
		return errs.Wrap(err, "failed to delete listing")
	}
	return nil
}
