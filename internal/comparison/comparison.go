// Package comparison evaluates every selected payout structure against every
// selected performance profile.
package comparison

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/iwvelando/payout-simulator/internal/config"
	"github.com/iwvelando/payout-simulator/internal/store"
	"github.com/iwvelando/payout-simulator/pkg/compensation"
	"github.com/iwvelando/payout-simulator/pkg/mathutil"
	"github.com/iwvelando/payout-simulator/pkg/simulation"
	"github.com/iwvelando/payout-simulator/pkg/validation"
	"go.uber.org/zap"
)

// Row is one structure and profile pair.
type Row struct {
	StructureID   string              `json:"structureId,omitempty"`
	StructureName string              `json:"structureName"`
	ProfileID     string              `json:"profileId,omitempty"`
	ProfileName   string              `json:"profileName"`
	Result        compensation.Result `json:"result"`
}

// Curve summarises a structure's elasticity sweep for side-by-side display.
type Curve struct {
	StructureName string             `json:"structureName"`
	PayoutAt100   float64            `json:"payoutAt100"`
	PayoutAt150   float64            `json:"payoutAt150"`
	MaxPayout     float64            `json:"maxPayout"`
	MaxMultiple   float64            `json:"maxMultiple"`
	Points        []simulation.Point `json:"points"`
}

// Comparison is the outcome of a comparison run. Rows are ordered by
// structure, then by profile, in selection order.
type Comparison struct {
	Rows   []Row   `json:"rows"`
	Curves []Curve `json:"curves"`
}

// Structure is a selected structure with its optional store id.
type Structure struct {
	ID     string
	Config config.StructureConfig
}

// Profile is a selected profile with its optional store id.
type Profile struct {
	ID     string
	Config config.ProfileConfig
}

// Compare evaluates the structure by profile matrix concurrently. Curves are
// swept with the first profile's sales and FTE.
func Compare(ctx context.Context, logger *zap.Logger, structures []Structure, profiles []Profile) (*Comparison, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := validation.ValidateSelection(len(structures), len(profiles)); err != nil {
		return nil, err
	}
	for _, s := range structures {
		if _, err := s.Config.Validate(false); err != nil {
			return nil, fmt.Errorf("structure %q: %w", s.Config.Name, err)
		}
	}
	for _, p := range profiles {
		if _, err := p.Config.Validate(false); err != nil {
			return nil, fmt.Errorf("profile %q: %w", p.Config.Name, err)
		}
	}

	engines := make([]compensation.Structure, len(structures))
	for i, s := range structures {
		engines[i] = s.Config.ToStructure()
	}
	inputs := make([]compensation.Input, len(profiles))
	for i, p := range profiles {
		inputs[i] = p.Config.ToInput()
	}

	out := &Comparison{
		Rows:   make([]Row, len(structures)*len(profiles)),
		Curves: make([]Curve, len(structures)),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for si := range structures {
		for pi := range profiles {
			si, pi := si, pi
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				out.Rows[si*len(profiles)+pi] = Row{
					StructureID:   structures[si].ID,
					StructureName: structures[si].Config.Name,
					ProfileID:     profiles[pi].ID,
					ProfileName:   profiles[pi].Config.Name,
					Result:        engines[si].TotalPayout(inputs[pi]),
				}
				return nil
			})
		}
		si := si
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out.Curves[si] = curveFor(structures[si].Config.Name, engines[si], inputs[0])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug(fmt.Sprintf("compared %d structures against %d profiles", len(structures), len(profiles)),
		zap.String("op", "comparison.Compare"),
	)
	return out, nil
}

func curveFor(name string, s compensation.Structure, in compensation.Input) Curve {
	points := simulation.Elasticity(s, in.MonthlySales, in.FTE)
	c := Curve{StructureName: name, Points: points}
	if p, ok := simulation.Find(points, 100); ok {
		c.PayoutAt100 = p.TotalExcludingContinuity
	}
	if p, ok := simulation.Find(points, 150); ok {
		c.PayoutAt150 = p.TotalExcludingContinuity
	}
	if len(points) > 0 {
		c.MaxPayout = points[len(points)-1].TotalExcludingContinuity
	}
	c.MaxMultiple = mathutil.SafeDivide(c.MaxPayout, c.PayoutAt100)
	return c
}

// CompareStored loads the selected records from st and compares them.
func CompareStored(ctx context.Context, logger *zap.Logger, st store.Store, structureIDs, profileIDs []string) (*Comparison, error) {
	if err := validation.ValidateSelection(len(structureIDs), len(profileIDs)); err != nil {
		return nil, err
	}

	structures := make([]Structure, 0, len(structureIDs))
	for _, id := range structureIDs {
		rec, err := st.GetStructure(ctx, id)
		if err != nil {
			return nil, err
		}
		structures = append(structures, Structure{ID: rec.ID, Config: rec.Structure})
	}
	profiles := make([]Profile, 0, len(profileIDs))
	for _, id := range profileIDs {
		rec, err := st.GetProfile(ctx, id)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, Profile{ID: rec.ID, Config: rec.Profile})
	}
	return Compare(ctx, logger, structures, profiles)
}
