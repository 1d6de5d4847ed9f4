package storage

import (
	"context"
	"fmt"

	"github.com/runnerr0/focusguard/internal/validation"
)

// AddBlockedSite normalizes raw and adds it to the user's block list. It
// returns the stored value.
func (s *SQLStore) AddBlockedSite(ctx context.Context, userID int64, raw string) (string, error) {
	site, err := validation.NormalizeSite(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSite, err)
	}

	_, err = s.db.ExecContext(ctx,
		s.db.Rebind("INSERT INTO blocked_sites (user_id, website, added_at) VALUES (?, ?, ?)"),
		userID, site, s.timestamp(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", site, ErrSiteExists)
		}
		return "", fmt.Errorf("add blocked site: %w", err)
	}

	return site, nil
}

// ListBlockedSites returns the user's sites in alphabetical order.
func (s *SQLStore) ListBlockedSites(ctx context.Context, userID int64) ([]string, error) {
	sites := []string{}
	err := s.db.SelectContext(ctx, &sites,
		s.db.Rebind("SELECT website FROM blocked_sites WHERE user_id = ? ORDER BY website"), userID)
	if err != nil {
		return nil, fmt.Errorf("list blocked sites: %w", err)
	}
	return sites, nil
}

// BlockedSiteDetails is ListBlockedSites with the time each site was added.
func (s *SQLStore) BlockedSiteDetails(ctx context.Context, userID int64) ([]BlockedSite, error) {
	sites := []BlockedSite{}
	err := s.db.SelectContext(ctx, &sites,
		s.db.Rebind("SELECT user_id, website, added_at FROM blocked_sites WHERE user_id = ? ORDER BY website"), userID)
	if err != nil {
		return nil, fmt.Errorf("list blocked sites: %w", err)
	}
	return sites, nil
}

// RemoveBlockedSite deletes one site from the user's block list.
func (s *SQLStore) RemoveBlockedSite(ctx context.Context, userID int64, raw string) error {
	site, err := validation.NormalizeSite(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSite, err)
	}

	res, err := s.db.ExecContext(ctx,
		s.db.Rebind("DELETE FROM blocked_sites WHERE user_id = ? AND website = ?"), userID, site)
	if err != nil {
		return fmt.Errorf("remove blocked site: %w", err)
	}
	return expectRow(res, site)
}
