package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/platefeed/platefeed-backend/internal/data/repos"
	types "github.com/platefeed/platefeed-backend/internal/domain"
	pkgerrors "github.com/platefeed/platefeed-backend/internal/pkg/errors"
	"github.com/platefeed/platefeed-backend/internal/platform/apierr"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
)

// membershipRule is the per-kind policy: whether an actor may target
// itself and the messages for the two rule violations.
type membershipRule struct {
	disallowSelf   bool
	selfMessage    string
	alreadyMessage string
	missingMessage string
}

// membershipDescriptor binds a rule to the kind's target lookup and its
// success read model. Adding a relation kind means adding a descriptor,
// not another handler pair.
type membershipDescriptor struct {
	rule       membershipRule
	loadTarget func(ctx context.Context, targetID uuid.UUID) (any, error)
	readModel  func(ctx context.Context, actorID uuid.UUID, target any, recipesLimit int) (any, error)
}

// MembershipService drives the toggle-membership relations: favorites,
// shopping cart entries and subscriptions. Add returns the kind's read
// model for the 201 response; Remove returns nothing.
type MembershipService interface {
	Add(ctx context.Context, kind repos.MembershipKind, actorID, targetID uuid.UUID, recipesLimit int) (any, error)
	Remove(ctx context.Context, kind repos.MembershipKind, actorID, targetID uuid.UUID) error
}

type membershipService struct {
	log            *logger.Logger
	membershipRepo repos.MembershipRepo
	descriptors    map[repos.MembershipKind]*membershipDescriptor
}

func NewMembershipService(
	log *logger.Logger,
	membershipRepo repos.MembershipRepo,
	recipeRepo repos.RecipeRepo,
	userRepo repos.UserRepo,
	viewService ViewService,
) MembershipService {
	serviceLog := log.With("service", "MembershipService")

	loadRecipe := func(ctx context.Context, targetID uuid.UUID) (any, error) {
		recipe, err := recipeRepo.GetByID(ctx, nil, targetID)
		if err != nil {
			if errors.Is(err, pkgerrors.ErrNotFound) {
				return nil, apierr.NotFound(notFoundMessage)
			}
			return nil, fmt.Errorf("failed to load recipe: %w", err)
		}
		return recipe, nil
	}
	recipeShort := func(_ context.Context, _ uuid.UUID, target any, _ int) (any, error) {
		return viewService.RecipeShortView(target.(*types.Recipe)), nil
	}

	return &membershipService{
		log:            serviceLog,
		membershipRepo: membershipRepo,
		descriptors: map[repos.MembershipKind]*membershipDescriptor{
			repos.MembershipFavorite: {
				rule: membershipRule{
					alreadyMessage: "Recipe is already in favorites.",
					missingMessage: "Recipe is not in favorites.",
				},
				loadTarget: loadRecipe,
				readModel:  recipeShort,
			},
			repos.MembershipShoppingCart: {
				rule: membershipRule{
					alreadyMessage: "Recipe is already in shopping cart.",
					missingMessage: "Recipe is not in shopping cart.",
				},
				loadTarget: loadRecipe,
				readModel:  recipeShort,
			},
			repos.MembershipSubscription: {
				rule: membershipRule{
					disallowSelf:   true,
					selfMessage:    "You cannot subscribe to yourself.",
					alreadyMessage: "You are already subscribed to this author.",
					missingMessage: "You are not subscribed to this author.",
				},
				loadTarget: func(ctx context.Context, targetID uuid.UUID) (any, error) {
					author, err := userRepo.GetByID(ctx, nil, targetID)
					if err != nil {
						if errors.Is(err, pkgerrors.ErrNotFound) {
							return nil, apierr.NotFound(notFoundMessage)
						}
						return nil, fmt.Errorf("failed to load author: %w", err)
					}
					return author, nil
				},
				readModel: func(ctx context.Context, actorID uuid.UUID, target any, recipesLimit int) (any, error) {
					return viewService.AuthorView(ctx, target.(*types.User), actorID, recipesLimit)
				},
			},
		},
	}
}

func (ms *membershipService) Add(ctx context.Context, kind repos.MembershipKind, actorID, targetID uuid.UUID, recipesLimit int) (any, error) {
	d, err := ms.descriptor(kind)
	if err != nil {
		return nil, err
	}

	// Self-reference is rejected before the target or the unique index is
	// consulted.
	if d.rule.disallowSelf && actorID == targetID {
		return nil, apierr.BusinessRule(d.rule.selfMessage)
	}
	target, err := d.loadTarget(ctx, targetID)
	if err != nil {
		return nil, err
	}

	// No exists pre-check: the insert races straight into the unique
	// index, and a violation reports the relation as already present.
	if err := ms.membershipRepo.Add(ctx, nil, kind, actorID, targetID); err != nil {
		if errors.Is(err, pkgerrors.ErrConflict) {
			return nil, apierr.BusinessRule(d.rule.alreadyMessage)
		}
		return nil, fmt.Errorf("failed to add %s: %w", kind, err)
	}

	ms.log.Info("Membership added", "kind", string(kind), "actor_id", actorID.String(), "target_id", targetID.String())
	return d.readModel(ctx, actorID, target, recipesLimit)
}

func (ms *membershipService) Remove(ctx context.Context, kind repos.MembershipKind, actorID, targetID uuid.UUID) error {
	d, err := ms.descriptor(kind)
	if err != nil {
		return err
	}

	if _, err := d.loadTarget(ctx, targetID); err != nil {
		return err
	}
	removed, err := ms.membershipRepo.Remove(ctx, nil, kind, actorID, targetID)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", kind, err)
	}
	if !removed {
		return apierr.BusinessRule(d.rule.missingMessage)
	}

	ms.log.Info("Membership removed", "kind", string(kind), "actor_id", actorID.String(), "target_id", targetID.String())
	return nil
}

func (ms *membershipService) descriptor(kind repos.MembershipKind) (*membershipDescriptor, error) {
	d, ok := ms.descriptors[kind]
	if !ok {
		return nil, fmt.Errorf("unknown membership kind %q", kind)
	}
	return d, nil
}
