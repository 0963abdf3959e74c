// Package staticfile loads a town's baseline execution state from a YAML
// file, the way demo worlds are tuned by hand.
package staticfile

import (
	"context"
	"fmt"
	"os"

	"townreeve/internal/app/ports"
	"townreeve/internal/domain/canonical"
	"townreeve/internal/domain/town"

	"gopkg.in/yaml.v3"
)

type fileConfig struct {
	TownID                  string   `yaml:"town_id"`
	SnapshotHash            string   `yaml:"snapshot_hash"`
	DecisionEpoch           int64    `yaml:"decision_epoch"`
	Mission                 string   `yaml:"mission"`
	SideQuests              []string `yaml:"side_quests"`
	Projects                []string `yaml:"projects"`
	SupportedSalvageFocuses []string `yaml:"supported_salvage_focuses"`
	SupportedTalkTypes      []string `yaml:"supported_talk_types"`
}

type Provider struct {
	Path string
}

func (p Provider) Baseline(_ context.Context) (ports.TownBaseline, error) {
	raw, err := os.ReadFile(p.Path)
	if err != nil {
		return ports.TownBaseline{}, fmt.Errorf("town baseline: %w", err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return ports.TownBaseline{}, fmt.Errorf("town baseline: %s: %w", p.Path, err)
	}
	if cfg.TownID == "" {
		return ports.TownBaseline{}, fmt.Errorf("town baseline: %s: town_id is required", p.Path)
	}

	state := town.State{
		SnapshotHash:            cfg.SnapshotHash,
		DecisionEpoch:           cfg.DecisionEpoch,
		SideQuests:              refsFromIDs(cfg.SideQuests),
		Projects:                refsFromIDs(cfg.Projects),
		SupportedSalvageFocuses: cfg.SupportedSalvageFocuses,
		SupportedTalkTypes:      cfg.SupportedTalkTypes,
		ProcessedResults:        []town.LedgerEntry{},
	}
	if cfg.Mission != "" {
		state.Mission = &town.MissionRef{ID: cfg.Mission}
	}
	// A file without an explicit fingerprint gets a content-derived one, so
	// the baseline is still a valid world view.
	if state.SnapshotHash == "" {
		digest, err := canonical.Hash(cfg)
		if err != nil {
			return ports.TownBaseline{}, err
		}
		state.SnapshotHash = digest
	}

	normalized, err := state.Normalized()
	if err != nil {
		return ports.TownBaseline{}, fmt.Errorf("town baseline: %s: %w", p.Path, err)
	}
	return ports.TownBaseline{TownID: cfg.TownID, State: normalized}, nil
}

func refsFromIDs(ids []string) []town.EntityRef {
	out := make([]town.EntityRef, 0, len(ids))
	for _, id := range ids {
		out = append(out, town.EntityRef{ID: id})
	}
	return out
}
