package rulesfile

import (
	"context"
	"fmt"
	"time"

	"github.com/jakechorley/restaurant-rota/pkg/core/configcache"
	"github.com/jakechorley/restaurant-rota/pkg/core/model"
)

// Provider serves rule configuration from a YAML file, re-reading it on every call
// so edits are picked up as soon as the cache expires
type Provider struct {
	path string
}

var _ configcache.Provider = (*Provider)(nil)

// NewProvider creates a provider reading from path
func NewProvider(path string) *Provider {
	return &Provider{path: path}
}

// section loads the file and checks it defines the named section
func (p *Provider) section(ctx context.Context, name string) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := LoadFile(p.path)
	if err != nil {
		return nil, err
	}
	if !f.Has(name) {
		return nil, fmt.Errorf("%w: %s", ErrSectionMissing, name)
	}
	return f, nil
}

func (p *Provider) GetStaffGroups(ctx context.Context) ([]model.StaffGroup, error) {
	f, err := p.section(ctx, SectionStaffGroups)
	if err != nil {
		return nil, err
	}
	return f.Rules.StaffGroups, nil
}

func (p *Provider) GetPriorityRules(ctx context.Context) ([]model.PriorityRule, error) {
	f, err := p.section(ctx, SectionPriorityRules)
	if err != nil {
		return nil, err
	}
	return f.Rules.PriorityRules, nil
}

func (p *Provider) GetDailyLimits(ctx context.Context) (*model.DailyLimits, error) {
	f, err := p.section(ctx, SectionDailyLimits)
	if err != nil {
		return nil, err
	}
	return &f.Rules.DailyLimits, nil
}

func (p *Provider) GetWeeklyLimits(ctx context.Context) ([]model.WeeklyLimit, error) {
	f, err := p.section(ctx, SectionWeeklyLimits)
	if err != nil {
		return nil, err
	}
	return f.Rules.WeeklyLimits, nil
}

// GetMonthlyLimits returns the file's monthly limits only when they name the requested month
func (p *Provider) GetMonthlyLimits(ctx context.Context, year int, month time.Month) (*model.MonthlyLimits, error) {
	f, err := p.section(ctx, SectionMonthlyLimits)
	if err != nil {
		return nil, err
	}

	limits := f.Rules.MonthlyLimits
	if limits.Year != year || limits.Month != int(month) {
		return nil, fmt.Errorf("%w: monthlyLimits for %04d-%02d", ErrSectionMissing, year, int(month))
	}
	return &limits, nil
}

func (p *Provider) GetBackupAssignments(ctx context.Context) ([]model.BackupAssignment, error) {
	f, err := p.section(ctx, SectionBackupAssignments)
	if err != nil {
		return nil, err
	}
	return f.Rules.BackupAssignments, nil
}
