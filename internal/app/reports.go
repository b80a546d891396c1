package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"zelapb/api/internal/feed"
	"zelapb/api/internal/media"
	"zelapb/api/internal/metrics"
	"zelapb/api/internal/rbac"
	"zelapb/api/internal/search"
	"zelapb/api/internal/share"
	"zelapb/api/internal/store"
	"zelapb/api/internal/util"
)

type SubmitReportInput struct {
	Description string `json:"description"`
	Location    string `json:"location"`
	ImageData   string `json:"imageData"`
}

// CitizenReport is a report as listed on the citizen screen. Contact details
// of other citizens are left out.
type CitizenReport struct {
	ID          string             `json:"id"`
	Description string             `json:"description"`
	Category    string             `json:"category"`
	Priority    store.Priority     `json:"priority"`
	Status      store.ReportStatus `json:"status"`
	StatusLabel string             `json:"statusLabel"`
	Location    string             `json:"location"`
	Timestamp   time.Time          `json:"timestamp"`
	ImageURL    string             `json:"imageUrl,omitempty"`
	AIAnalysis  string             `json:"aiAnalysis,omitempty"`
}

func citizenReport(r store.Report) CitizenReport {
	return CitizenReport{
		ID:          r.ID,
		Description: r.Description,
		Category:    r.Category,
		Priority:    r.Priority,
		Status:      r.Status,
		StatusLabel: r.Status.Label(),
		Location:    r.Location,
		Timestamp:   r.Timestamp,
		ImageURL:    r.ImageURL,
		AIAnalysis:  r.AIAnalysis,
	}
}

// SubmitReport classifies and stores a new citizen report. Classification
// runs before the store is touched and never fails the submission.
func (s *Service) SubmitReport(ctx context.Context, session Session, input SubmitReportInput) (store.Report, error) {
	if err := s.require(session, rbac.ActionSubmitReport); err != nil {
		return store.Report{}, err
	}
	profile := session.Active.Citizen

	description := strings.TrimSpace(input.Description)
	location := strings.TrimSpace(input.Location)
	var missing []string
	if description == "" {
		missing = append(missing, "description")
	}
	if location == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return store.Report{}, validationError("Descrição e localização são obrigatórias", missing...)
	}
	if input.ImageData != "" {
		if _, err := media.ParseDataURL(input.ImageData); err != nil {
			return store.Report{}, validationError(err.Error(), "imageData")
		}
	}

	report := store.Report{
		ID:           util.NewID("rep"),
		Description:  description,
		Status:       store.StatusPending,
		Location:     location,
		CitizenName:  profile.Name,
		ContactPhone: profile.Phone,
		Timestamp:    s.now(),
	}

	started := time.Now()
	analysis, fellBack := s.ai.Classify(ctx, description)
	metrics.ClassificationDurationSeconds.Observe(time.Since(started).Seconds())
	outcome := "model"
	if fellBack {
		outcome = "fallback"
	}
	metrics.Classifications.WithLabelValues(outcome).Inc()
	report.Category = analysis.Category
	report.Priority = analysis.Priority
	report.AIAnalysis = analysis.Summary

	if input.ImageData != "" {
		imageURL, err := s.photos.Save(ctx, report.ID, input.ImageData)
		if err != nil {
			s.logger.Warn("store report photo", zap.String("report_id", report.ID), zap.Error(err))
		} else {
			report.ImageURL = imageURL
		}
	}

	if err := s.store.AppendReport(ctx, report); err != nil {
		return store.Report{}, err
	}

	metrics.ReportsSubmitted.WithLabelValues(metricCategory(report.Category)).Inc()
	s.search.IndexReport(report)
	s.feed.Publish(feed.EventReportCreated, store.TargetCitizens, citizenReport(report))
	s.feed.Publish(feed.EventReportCreated, store.TargetTeams, report)
	s.logger.Info("report submitted",
		zap.String("report_id", report.ID),
		zap.String("category", report.Category),
		zap.String("priority", string(report.Priority)),
		zap.Bool("fallback", fellBack),
	)
	return report, nil
}

// CitizenReports lists every report in submission order. The list is not
// scoped to the caller.
func (s *Service) CitizenReports(ctx context.Context, session Session) ([]CitizenReport, error) {
	if err := s.require(session, rbac.ActionViewCitizen); err != nil {
		return nil, err
	}
	reports, err := s.store.ListReports(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]CitizenReport, 0, len(reports))
	for _, report := range reports {
		items = append(items, citizenReport(report))
	}
	return items, nil
}

// TeamReports lists the open reports routed to the caller's specialty. A
// Geral team sees every open report.
func (s *Service) TeamReports(ctx context.Context, session Session) ([]store.Report, error) {
	if err := s.require(session, rbac.ActionViewTeam); err != nil {
		return nil, err
	}
	specialty := session.Active.Team.Specialty
	reports, err := s.store.ListReports(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]store.Report, 0, len(reports))
	for _, report := range reports {
		if report.Status == store.StatusResolved {
			continue
		}
		if routedTo(report, specialty) {
			items = append(items, report)
		}
	}
	return items, nil
}

// routedTo reports whether a team of specialty works on report. Status is not
// considered, so a resolved report can still be reopened by its team.
func routedTo(report store.Report, specialty string) bool {
	return report.Category == specialty || specialty == store.SpecialtyGeneral
}

// UpdateReportStatus moves a report to status. Any transition is allowed, but
// only the teams the report is routed to may change it.
func (s *Service) UpdateReportStatus(ctx context.Context, session Session, id, status string) (store.Report, error) {
	if err := s.require(session, rbac.ActionUpdateStatus); err != nil {
		return store.Report{}, err
	}
	next := store.ReportStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return store.Report{}, validationError("Status inválido", "status")
	}
	current, err := s.store.GetReport(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Report{}, notFound("Report")
		}
		return store.Report{}, err
	}
	if !routedTo(current, session.Active.Team.Specialty) {
		return store.Report{}, forbidden()
	}
	report, err := s.store.UpdateReportStatus(ctx, id, next)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Report{}, notFound("Report")
		}
		return store.Report{}, err
	}

	metrics.StatusUpdates.WithLabelValues(string(next)).Inc()
	s.search.IndexReport(report)
	s.feed.Publish(feed.EventReportStatus, store.TargetCitizens, citizenReport(report))
	s.feed.Publish(feed.EventReportStatus, store.TargetTeams, report)
	s.logger.Info("report status updated",
		zap.String("report_id", report.ID),
		zap.String("status", string(next)),
		zap.String("by", session.Active.DisplayName()),
	)
	return report, nil
}

// SearchReports is open to citizens, teams and city hall.
func (s *Service) SearchReports(ctx context.Context, session Session, query search.Query) (search.Response, error) {
	if err := s.requireAny(session, rbac.ActionViewCitizen, rbac.ActionViewTeam, rbac.ActionViewStats); err != nil {
		return search.Response{}, err
	}
	query.Text = strings.TrimSpace(query.Text)
	if query.Limit <= 0 || query.Limit > 50 {
		query.Limit = 20
	}
	return s.search.Search(ctx, query), nil
}

func (s *Service) ShareReport(ctx context.Context, session Session, id string) (share.Payload, error) {
	if err := s.requireAny(session, rbac.ActionViewCitizen, rbac.ActionViewTeam, rbac.ActionViewStats); err != nil {
		return share.Payload{}, err
	}
	report, err := s.store.GetReport(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return share.Payload{}, notFound("Report")
		}
		return share.Payload{}, err
	}
	cfg, err := s.store.Config(ctx)
	if err != nil {
		return share.Payload{}, err
	}
	return share.Report(cfg.AppName, report, s.cfg.PublicBaseURL), nil
}

// metricCategory maps categories outside the known specialties to Outros.
func metricCategory(category string) string {
	if store.ValidSpecialty(category) {
		return category
	}
	return uncategorized
}
