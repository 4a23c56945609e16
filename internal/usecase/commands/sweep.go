package commands

import (
	"context"
	"errors"
	"log/slog"

	"mess-market/internal/domain/listing"
	"mess-market/internal/domain/notification"
	"mess-market/internal/pkg/clock"
	"mess-market/internal/pkg/errs"
	"mess-market/internal/usecase/shared"
)

type SweepCommands interface {
	// Sweep deletes every listing whose service window has closed and
	// returns how many went. Safe to run any number of times.
	Sweep(ctx context.Context) (int, error)
}

type sweepCommandsImpl struct {
	uow      shared.UnitOfWork
	notifier shared.Notifier
	clock    clock.Clock
}

func NewSweepCommands(uow shared.UnitOfWork, notifier shared.Notifier, clk clock.Clock) SweepCommands {
	return &sweepCommandsImpl{
		uow:      uow,
		notifier: notifier,
		clock:    clk,
	}
}

// Each listing goes in its own transaction: one stuck row cannot hold the
// whole sweep hostage, and whatever this run misses the next run retries.
func (s *sweepCommandsImpl) Sweep(ctx context.Context) (int, error) {
	now := s.clock.Now().In(s.clock.Location())
	today := listing.DateOf(now)

	candidates, err := s.uow.CommandReads().ExpiryCandidates(ctx, today)
	if err != nil {
		return 0, errs.Wrap(err, "failed to load expiry candidates")
	}

	deleted := 0
	for _, snap := range candidates {
		if !listing.IsExpired(snap.MealDate, snap.MealType, now) {
			continue
		}

		err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			if _, err := tx.Bids().DeleteByListing(ctx, tx.DB(), snap.ID); err != nil {
				return err
			}
			removed, err := tx.Listings().Delete(ctx, tx.DB(), snap.ID)
			if err != nil {
				return err
			}
			// Already gone (settled or deleted since the read): not ours to count.
			if !removed {
				return errAlreadyGone
			}
			return nil
		})
		if err != nil {
			if !errors.Is(err, errAlreadyGone) {
				slog.Error("sweep failed for listing, continuing",
					"listing_id", snap.ID, "error", err.Error())
			}
			continue
		}

		deleted++
		s.notifier.Notify(ctx, snap.SellerID, notification.ListingExpired{
			ListingID: snap.ID,
			MealDate:  snap.MealDate.String(),
			MealType:  snap.MealType.String(),
		})
	}

	slog.Info("expiry sweep finished", "candidates", len(candidates), "deleted", deleted)
	return deleted, nil
}

var errAlreadyGone = errs.New("listing already removed")
