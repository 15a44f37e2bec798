package cards

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/vendora/internal/integrity"
	"github.com/angelmondragon/vendora/pkg/db/models"
	"github.com/angelmondragon/vendora/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendora/pkg/errors"
)

// Service manages a user's stored payment cards.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*CardDTO, error)
	Update(ctx context.Context, userID, cardID uuid.UUID, input UpdateInput) (*CardDTO, error)
	Delete(ctx context.Context, userID, cardID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]CardDTO, error)
	MakeDefault(ctx context.Context, userID, cardID uuid.UUID) error
}

type service struct {
	store *integrity.Store
	repo  *Repository
}

func NewService(store *integrity.Store, repo *Repository) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("integrity store required")
	}
	if repo == nil {
		return nil, fmt.Errorf("cards repository required")
	}
	return &service{store: store, repo: repo}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*CardDTO, error) {
	card := input.toModel(userID)
	var defaultID *uuid.UUID
	err := s.store.Atomic(ctx, "create_card", func(tx *integrity.Tx) error {
		if err := tx.Create(card); err != nil {
			return err
		}
		if !input.MakeDefault {
			return nil
		}
		user, err := tx.SetDefault(userID, enums.EntityKindCard, card.ID)
		if err != nil {
			return err
		}
		defaultID = user.DefaultCardID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(card, defaultID), nil
}

func (s *service) Update(ctx context.Context, userID, cardID uuid.UUID, input UpdateInput) (*CardDTO, error) {
	card, err := integrity.UpdateAs(ctx, s.store, cardID, func(c *models.Card) error {
		if c.UserID != userID {
			return notFound(cardID)
		}
		input.apply(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	defaultID, err := s.repo.DefaultCardID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(card, defaultID), nil
}

// Delete removes an owned card. Orders paid with it keep their card snapshot.
func (s *service) Delete(ctx context.Context, userID, cardID uuid.UUID) error {
	return s.store.Atomic(ctx, "delete_card", func(tx *integrity.Tx) error {
		card, err := integrity.TxGetAs[*models.Card](tx, cardID)
		if err != nil {
			return err
		}
		if card.UserID != userID {
			return notFound(cardID)
		}
		return tx.Delete(enums.EntityKindCard, cardID)
	})
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]CardDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	defaultID, err := s.repo.DefaultCardID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]CardDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i], defaultID))
	}
	return out, nil
}

func (s *service) MakeDefault(ctx context.Context, userID, cardID uuid.UUID) error {
	_, err := s.store.SetDefault(ctx, userID, enums.EntityKindCard, cardID)
	return err
}

func notFound(id uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "card not found").
		WithDetails(map[string]any{"kind": enums.EntityKindCard.String(), "id": id.String()})
}
