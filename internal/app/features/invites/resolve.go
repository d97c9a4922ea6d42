package invites

import (
	"context"

	"github.com/familiahq/familia/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// resolve hydrates invites into ResolvedInvite values: reference ids are
// swapped for the documents they point at. Invites whose family or users
// vanished are dropped rather than returned half-hydrated.
func (h *Handler) resolve(ctx context.Context, invs []models.Invite) ([]models.ResolvedInvite, error) {
	if len(invs) == 0 {
		return []models.ResolvedInvite{}, nil
	}

	familyIDs := make([]primitive.ObjectID, 0, len(invs))
	userIDs := make([]primitive.ObjectID, 0, len(invs)*2)
	for _, inv := range invs {
		familyIDs = append(familyIDs, inv.FamilyID)
		userIDs = append(userIDs, inv.FromID, inv.ToID)
	}

	families, err := h.Families.GetByIDs(ctx, familyIDs)
	if err != nil {
		return nil, err
	}
	users, err := h.Users.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	familyByID := make(map[primitive.ObjectID]models.Family, len(families))
	for _, f := range families {
		familyByID[f.ID] = f
	}
	userByID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}

	resolved := make([]models.ResolvedInvite, 0, len(invs))
	for _, inv := range invs {
		family, okF := familyByID[inv.FamilyID]
		from, okFrom := userByID[inv.FromID]
		to, okTo := userByID[inv.ToID]
		if !okF || !okFrom || !okTo {
			continue
		}
		resolved = append(resolved, models.ResolvedInvite{
			ID:        inv.ID,
			Family:    family,
			From:      from,
			To:        to,
			CreatedAt: inv.CreatedAt,
		})
	}
	return resolved, nil
}

// resolveOne hydrates a single invite.
func (h *Handler) resolveOne(ctx context.Context, inv models.Invite) (models.ResolvedInvite, bool, error) {
	rs, err := h.resolve(ctx, []models.Invite{inv})
	if err != nil {
		return models.ResolvedInvite{}, false, err
	}
	if len(rs) == 0 {
		return models.ResolvedInvite{}, false, nil
	}
	return rs[0], true, nil
}
