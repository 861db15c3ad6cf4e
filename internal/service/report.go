package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/foodflow/backend/config"
)

const reportURLExpiry = 15 * time.Minute

// ObjectStore is the slice of object storage the report export needs.
type ObjectStore interface {
	PutObject(ctx context.Context, objectKey string, body []byte, contentType string) error
	GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error)
}

var _ ObjectStore = (*config.S3Config)(nil)

type ExportedReport struct {
	Key       string        `json:"key"`
	URL       string        `json:"url"`
	ExpiresAt time.Time     `json:"expires_at"`
	Report    *WeeklyReport `json:"report"`
}

// ReportService exports weekly reports to object storage.
type ReportService struct {
	analytics *AnalyticsService
	store     ObjectStore
}

var _ IReportService = (*ReportService)(nil)

// NewReportService accepts a nil store; exports then fail with
// config.ErrStorageNotConfigured.
func NewReportService(analytics *AnalyticsService, store ObjectStore) *ReportService {
	return &ReportService{analytics: analytics, store: store}
}

func (s *ReportService) ExportWeeklyReport(ctx context.Context, userID uint) (*ExportedReport, error) {
	if s.store == nil {
		return nil, config.ErrStorageNotConfigured
	}

	report, err := s.analytics.WeeklyReport(ctx, userID, time.Time{})
	if err != nil {
		return nil, err
	}
	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	key := fmt.Sprintf("reports/%d/%s-%s.json", userID, report.Period.End, uuid.New().String())
	if err := s.store.PutObject(ctx, key, body, "application/json"); err != nil {
		return nil, fmt.Errorf("failed to upload report: %w", err)
	}

	url, err := s.store.GeneratePresignedURL(ctx, key, reportURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign report: %w", err)
	}
	log.Printf("[ReportService] exported weekly report for user %d to %s", userID, key)

	return &ExportedReport{
		Key:       key,
		URL:       url,
		ExpiresAt: time.Now().Add(reportURLExpiry),
		Report:    report,
	}, nil
}

// IsStorageNotConfigured reports whether err means exports are disabled.
func IsStorageNotConfigured(err error) bool {
	return errors.Is(err, config.ErrStorageNotConfigured)
}
