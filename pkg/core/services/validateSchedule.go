package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/restaurant-rota/pkg/core/model"
	"github.com/jakechorley/restaurant-rota/pkg/core/validation"
)

// ScheduleValidator checks a roster against the current rules. validation.Validator implements it.
type ScheduleValidator interface {
	Validate(ctx context.Context, roster model.Roster) (*validation.Report, error)
}

// ReportObserver records validation outcomes. metrics.Metrics implements it.
type ReportObserver interface {
	ObserveReport(report *validation.Report, elapsed time.Duration)
	ObserveFailure()
}

// ValidationResult is a validation report with optional remediation suggestions,
// violations ordered most severe first
type ValidationResult struct {
	Report          *validation.Report          `json:"report"`
	Recommendations []validation.Recommendation `json:"recommendations,omitempty"`
}

// ValidateSchedule validates a roster and, if requested, attaches a recommendation
// for every violation. observer may be nil.
func ValidateSchedule(ctx context.Context, validator ScheduleValidator, roster *model.Roster, logger *zap.Logger, withRecommendations bool, observer ReportObserver) (*ValidationResult, error) {
	if roster == nil {
		return nil, fmt.Errorf("%w: roster is nil", validation.ErrInvalidInput)
	}

	logger.Debug("Validating schedule",
		zap.Int("staff", len(roster.Staff)),
		zap.Int("dates", len(roster.Dates)),
		zap.Bool("recommendations", withRecommendations))

	started := time.Now()
	report, err := validator.Validate(ctx, *roster)
	if err != nil {
		if observer != nil {
			observer.ObserveFailure()
		}
		return nil, fmt.Errorf("failed to validate schedule: %w", err)
	}
	elapsed := time.Since(started)

	if observer != nil {
		observer.ObserveReport(report, elapsed)
	}

	report.Violations = validation.SortBySeverity(report.Violations)

	logger.Info("Validated schedule",
		zap.String("range_start", report.RangeStart),
		zap.String("range_end", report.RangeEnd),
		zap.Bool("valid", report.Valid),
		zap.Int("violations", report.Summary.TotalViolations),
		zap.Int("critical", report.Summary.BySeverity[validation.SeverityCritical]),
		zap.Int("high", report.Summary.BySeverity[validation.SeverityHigh]),
		zap.Int("medium", report.Summary.BySeverity[validation.SeverityMedium]),
		zap.Duration("elapsed", elapsed))

	result := &ValidationResult{Report: report}
	if withRecommendations {
		result.Recommendations = validation.Recommend(report.Violations)
	}

	return result, nil
}
