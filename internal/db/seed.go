package db

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"ppc-sim/internal/core/domain"
	"ppc-sim/internal/core/port"
)

//go:embed fixtures/campaigns.yaml
var defaultFixtures []byte

// Fixture is a demo campaign together with the weeks to simulate for it.
type Fixture struct {
	Name        string           `yaml:"name"`
	Type        string           `yaml:"type"`
	DailyBudget float64          `yaml:"dailyBudget"`
	Status      string           `yaml:"status"`
	AdGroups    []FixtureAdGroup `yaml:"adGroups"`
	Simulate    []string         `yaml:"simulate"`
}

// FixtureAdGroup is an ad group of a Fixture. When Auto is set the ad group
// uses auto targeting and Keywords is ignored.
type FixtureAdGroup struct {
	Name       string           `yaml:"name"`
	DefaultBid float64          `yaml:"defaultBid"`
	Keywords   []FixtureKeyword `yaml:"keywords"`
	Auto       *FixtureAuto     `yaml:"auto"`
}

// FixtureKeyword is a manual keyword; MatchType is broad, phrase or exact.
type FixtureKeyword struct {
	Text      string `yaml:"text"`
	MatchType string `yaml:"matchType"`
}

// FixtureAuto selects the auto targeting options of an ad group.
type FixtureAuto struct {
	CloseMatch  bool `yaml:"closeMatch"`
	LooseMatch  bool `yaml:"looseMatch"`
	Substitutes bool `yaml:"substitutes"`
	Complements bool `yaml:"complements"`
}

// ParseFixtures decodes a YAML list of fixtures.
func ParseFixtures(r io.Reader) ([]Fixture, error) {
	var fixtures []Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fixtures); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	return fixtures, nil
}

// Config converts the fixture into a campaign configuration.
func (f Fixture) Config() (domain.CampaignConfig, error) {
	typ, err := domain.ParseCampaignType(f.Type)
	if err != nil {
		return domain.CampaignConfig{}, err
	}
	cfg := domain.CampaignConfig{
		CampaignName: f.Name,
		CampaignType: typ,
		DailyBudget:  f.DailyBudget,
	}
	for _, ag := range f.AdGroups {
		group := domain.AdGroupConfig{AdGroupName: ag.Name, DefaultBid: ag.DefaultBid}
		if ag.Auto != nil {
			group.Targeting = domain.AutoTargeting{
				CloseMatch:  ag.Auto.CloseMatch,
				LooseMatch:  ag.Auto.LooseMatch,
				Substitutes: ag.Auto.Substitutes,
				Complements: ag.Auto.Complements,
			}
		} else {
			manual := domain.ManualTargeting{Keywords: make([]domain.Keyword, 0, len(ag.Keywords))}
			for _, kw := range ag.Keywords {
				mt, err := domain.ParseMatchType(kw.MatchType)
				if err != nil {
					return domain.CampaignConfig{}, err
				}
				manual.Keywords = append(manual.Keywords, domain.Keyword{Text: kw.Text, MatchType: mt})
			}
			group.Targeting = manual
		}
		cfg.AdGroups = append(cfg.AdGroups, group)
	}
	return cfg, nil
}

// Seed creates the embedded demo campaigns through svc, simulates their
// listed weeks and applies their final status. It does nothing when
// campaigns already exist.
func Seed(ctx context.Context, svc port.CampaignUseCase, logger *slog.Logger) error {
	fixtures, err := ParseFixtures(bytes.NewReader(defaultFixtures))
	if err != nil {
		return err
	}
	return SeedFixtures(ctx, svc, logger, fixtures)
}

// SeedFixtures is Seed with explicit fixtures.
func SeedFixtures(ctx context.Context, svc port.CampaignUseCase, logger *slog.Logger, fixtures []Fixture) error {
	existing, err := svc.ListCampaigns(ctx, port.CampaignFilter{Limit: 1})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info("seed skipped, campaigns already exist")
		return nil
	}

	for _, f := range fixtures {
		cfg, err := f.Config()
		if err != nil {
			return fmt.Errorf("fixture %q: %w", f.Name, err)
		}
		c, err := svc.CreateCampaign(ctx, cfg)
		if err != nil {
			return fmt.Errorf("fixture %q: %w", f.Name, err)
		}

		for _, day := range f.Simulate {
			start, err := time.Parse(time.DateOnly, day)
			if err != nil {
				return fmt.Errorf("fixture %q: simulate %q: %w", f.Name, day, err)
			}
			if _, err = svc.SimulateWeek(ctx, c.ID, start); err != nil {
				return fmt.Errorf("fixture %q: %w", f.Name, err)
			}
		}

		if f.Status != "" {
			status, err := domain.ParseCampaignStatus(f.Status)
			if err != nil {
				return fmt.Errorf("fixture %q: %w", f.Name, err)
			}
			if status != c.Status {
				if _, err = svc.SetStatus(ctx, c.ID, status); err != nil {
					return fmt.Errorf("fixture %q: %w", f.Name, err)
				}
			}
		}

		logger.Info("seeded campaign",
			slog.Int64("campaign_id", c.ID),
			slog.String("name", c.Name),
			slog.Int("score", c.Feedback.Score),
			slog.Int("weeks", len(f.Simulate)))
	}
	return nil
}
