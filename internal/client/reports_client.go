package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/dropout-api/internal/models"
	"github.com/noah-isme/dropout-api/pkg/config"
	appErrors "github.com/noah-isme/dropout-api/pkg/errors"
)

// ReportsClient fetches report payloads from the upstream school report API.
type ReportsClient struct {
	endpoint string
	http     *http.Client
	logger   *zap.Logger
}

// NewReportsClient constructs the client.
func NewReportsClient(cfg config.UpstreamConfig, logger *zap.Logger) *ReportsClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportsClient{
		endpoint: strings.TrimRight(cfg.ReportsEndpoint, "/"),
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}
}

type reportEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Fetch issues one authenticated GET for the requested kind and decodes the
// payload into the tagged canonical model. The Kind discriminant is fixed
// here, at fetch time. Missing credential or school id fails fast without a
// network call.
func (c *ReportsClient) Fetch(ctx context.Context, schoolID string, kind models.ReportKind, token string) (*models.Report, error) {
	if token == "" || schoolID == "" {
		return nil, appErrors.ErrAuthRequired
	}

	url := fmt.Sprintf("%s/%s", c.endpoint, schoolID)
	if kind != models.ReportKindOverall {
		url = fmt.Sprintf("%s?type=%s", url, kind)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build report request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrFetchFailed.Code, appErrors.ErrFetchFailed.Status, "report request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	var envelope reportEnvelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&envelope)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := envelope.Message
		if message == "" {
			message = fmt.Sprintf("report endpoint returned status %d", resp.StatusCode)
		}
		return nil, appErrors.Clone(appErrors.ErrFetchFailed, message)
	}
	if decodeErr != nil {
		return nil, appErrors.Wrap(decodeErr, appErrors.ErrFetchFailed.Code, appErrors.ErrFetchFailed.Status, "decode report payload")
	}
	if !envelope.Success {
		message := envelope.Message
		if message == "" {
			message = "report endpoint reported failure"
		}
		return nil, appErrors.Clone(appErrors.ErrFetchFailed, message)
	}

	report := &models.Report{Kind: kind}
	switch kind {
	case models.ReportKindOverall:
		var overall models.OverallReportData
		if err := json.Unmarshal(envelope.Data, &overall); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrFetchFailed.Code, appErrors.ErrFetchFailed.Status, "decode overall report")
		}
		report.Overall = &overall
	default:
		var courses models.CourseBasedReportData
		if err := json.Unmarshal(envelope.Data, &courses); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrFetchFailed.Code, appErrors.ErrFetchFailed.Status, "decode course report")
		}
		if courses.ReportType == "" {
			courses.ReportType = kind
		}
		report.Courses = &courses
	}

	c.logger.Debug("report fetched",
		zap.String("school_id", schoolID),
		zap.String("kind", string(kind)),
	)
	return report, nil
}
