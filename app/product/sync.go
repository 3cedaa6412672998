package product

import (
	"context"
	"slices"
)

// uniqueIDs drops repeated ids and keeps first-seen order.
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	res := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}
	return res
}

// diffIDs returns the ids to attach and detach so that current becomes
// exactly desired. Ids present in both are left alone.
func diffIDs(current, desired []uint) (attach, detach []uint) {
	for _, id := range uniqueIDs(desired) {
		if !slices.Contains(current, id) {
			attach = append(attach, id)
		}
	}

	for _, id := range uniqueIDs(current) {
		if !slices.Contains(desired, id) {
			detach = append(detach, id)
		}
	}

	return attach, detach
}

// syncCategories makes the product's links equal to categoryIDs.
func syncCategories(ctx context.Context, repo Repository, productID uint, categoryIDs []uint) error {
	current, err := repo.GetProductCategoryIDs(ctx, productID)
	if err != nil {
		return err
	}

	attach, detach := diffIDs(current, categoryIDs)

	if len(detach) > 0 {
		if err := repo.DetachCategories(ctx, productID, detach); err != nil {
			return err
		}
	}

	if len(attach) > 0 {
		if err := repo.AttachCategories(ctx, productID, attach); err != nil {
			return err
		}
	}

	return nil
}
