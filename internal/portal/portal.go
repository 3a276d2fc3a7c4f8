// Package portal serves the impact page and the resident maintenance portal.
package portal

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yourorg/listings-api/community"
	"github.com/yourorg/listings-api/listing"
)

// Source is a backend holding the impact_metrics and maintenance_requests
// tables. Both the hosted REST client and the SQL store implement it.
type Source interface {
	ListMetrics(ctx context.Context) ([]listing.RawRecord, error)
	InsertMaintenanceRequest(ctx context.Context, in community.NewRequest) (listing.RawRecord, error)
	ListMaintenanceRequests(ctx context.Context, residentID string) ([]listing.RawRecord, error)
}

// ValidationError names the first required field a request is missing.
type ValidationError struct{ Field string }

func (e *ValidationError) Error() string { return "portal: " + e.Field + " is required" }

type Service struct {
	Source Source
	Log    zerolog.Logger
	// Dev enables warnings about degraded reads.
	Dev bool
}

// Metrics returns the live impact metrics. An empty table yields the bundled
// figures; a failed read yields an empty list.
func (s *Service) Metrics(ctx context.Context) []community.Metric {
	rows, err := s.Source.ListMetrics(ctx)
	if err != nil {
		if s.Dev {
			s.Log.Warn().Err(err).Msg("impact metrics fetch failed")
		}
		return []community.Metric{}
	}
	if len(rows) == 0 {
		return community.FallbackMetrics()
	}
	out := make([]community.Metric, 0, len(rows))
	for _, r := range rows {
		out = append(out, community.MapMetric(r))
	}
	return out
}

func (s *Service) FinancialBreakdown() []community.FinancialShare {
	return community.FinancialBreakdown()
}

func (s *Service) Standards() []community.Standard {
	return community.Standards()
}

// CreateRequest files a maintenance request with status "open". Missing
// required fields give a *ValidationError; source errors are returned as is.
func (s *Service) CreateRequest(ctx context.Context, in community.NewRequest) (community.MaintenanceRequest, error) {
	in.ResidentID = strings.TrimSpace(in.ResidentID)
	in.PropertyID = strings.TrimSpace(in.PropertyID)
	in.IssueCategory = strings.TrimSpace(in.IssueCategory)
	in.Description = strings.TrimSpace(in.Description)
	in.Priority = strings.TrimSpace(in.Priority)
	in.Status = community.RequestStatusOpen

	switch {
	case in.ResidentID == "":
		return community.MaintenanceRequest{}, &ValidationError{Field: "residentId"}
	case in.PropertyID == "":
		return community.MaintenanceRequest{}, &ValidationError{Field: "propertyId"}
	case in.IssueCategory == "":
		return community.MaintenanceRequest{}, &ValidationError{Field: "issueCategory"}
	case in.Description == "":
		return community.MaintenanceRequest{}, &ValidationError{Field: "description"}
	}

	raw, err := s.Source.InsertMaintenanceRequest(ctx, in)
	if err != nil {
		return community.MaintenanceRequest{}, err
	}
	return community.MapRequest(raw), nil
}

// ResidentRequests lists a resident's requests, newest first.
func (s *Service) ResidentRequests(ctx context.Context, residentID string) ([]community.MaintenanceRequest, error) {
	if strings.TrimSpace(residentID) == "" {
		return nil, &ValidationError{Field: "residentId"}
	}
	rows, err := s.Source.ListMaintenanceRequests(ctx, residentID)
	if err != nil {
		return nil, err
	}
	out := make([]community.MaintenanceRequest, 0, len(rows))
	for _, r := range rows {
		out = append(out, community.MapRequest(r))
	}
	return out, nil
}

// IsValidation reports whether err came from input checks.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
