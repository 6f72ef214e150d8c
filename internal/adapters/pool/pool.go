// Package pool loads the harvested player-pool snapshot that the
// stat-collection pipeline writes.
package pool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/courtside/fastbreak/internal/domain/model"
)

// ErrUnavailable reports a missing, empty, or malformed pool file.
var ErrUnavailable = errors.New("player pool unavailable")

// poolFile mirrors the harvester's JSON layout: tier labels like "$3"
// mapping to player lists. Both observed tier schemes ($0-$3 and
// $1-$5) load unchanged; the tier set is whatever the file contains.
type poolFile map[string][]filePlayer

type filePlayer struct {
	ID    int               `json:"id"`
	Name  string            `json:"name"`
	Stats model.PlayerStats `json:"stats"`
}

// Provider serves an immutable snapshot of the full player pool.
// The snapshot is built once at construction and is safe for any
// number of concurrent readers.
type Provider struct {
	snapshot map[int][]model.PoolPlayer
}

// New reads and validates the pool file at path.
func New(path string) (*Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, path, err)
	}
	return Parse(data)
}

// Parse builds a Provider from raw pool JSON.
func Parse(data []byte) (*Provider, error) {
	var raw poolFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}

	snapshot := make(map[int][]model.PoolPlayer, len(raw))
	total := 0
	for label, players := range raw {
		tier, err := parseTier(label)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		list := make([]model.PoolPlayer, 0, len(players))
		for _, p := range players {
			if strings.TrimSpace(p.Name) == "" {
				continue
			}
			list = append(list, model.PoolPlayer{
				ID:       p.ID,
				Name:     p.Name,
				CostTier: tier,
				Stats:    p.Stats,
			})
		}
		snapshot[tier] = list
		total += len(list)
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: no players in snapshot", ErrUnavailable)
	}
	return &Provider{snapshot: snapshot}, nil
}

// Snapshot returns the full tiered pool. Callers must treat the result
// as read-only.
func (p *Provider) Snapshot(_ context.Context) (map[int][]model.PoolPlayer, error) {
	return p.snapshot, nil
}

// parseTier converts a "$N" label (or bare "N") to its integer tier.
func parseTier(label string) (int, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(label), "$")
	tier, err := strconv.Atoi(trimmed)
	if err != nil || tier < 0 {
		return 0, fmt.Errorf("invalid cost tier label %q", label)
	}
	return tier, nil
}
