// Package audit reports principal activity to an external HTTP sink. The
// report is best-effort: failures degrade to a boolean so the caller can apply
// the fail-closed 424 policy without ever seeing a transport error.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/product-catalog/internal"
	"github.com/frahmantamala/product-catalog/internal/auth"
)

type Method string

const (
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodPatch  Method = "PATCH"
	MethodDelete Method = "DELETE"
	MethodGet    Method = "GET"
)

const defaultTimeout = 5 * time.Second

// Record is the payload delivered to the audit endpoint. It is sent, never
// stored locally, and never retried.
type Record struct {
	TimeStamp string `json:"timeStamp"`
	UserID    string `json:"userId"`
	Source    string `json:"source"`
	Method    Method `json:"method"`
	Data      string `json:"data"`
}

type Config struct {
	URL     string
	APIKey  string
	Source  string
	Timeout time.Duration
}

// Reporter posts audit records for principals that have auditing enabled.
type Reporter struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

func NewReporter(cfg Config, logger *slog.Logger) *Reporter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Source == "" {
		cfg.Source = "product-api"
	}
	return &Reporter{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Report sends one activity record for the principal. It returns true when
// the principal is not audited, when no endpoint is configured, or when the
// sink acknowledged with a 2xx; any transport or status failure is logged and
// returned as false. Report never returns an error to the caller.
func (r *Reporter) Report(ctx context.Context, principal auth.Principal, method Method, data string) bool {
	if !principal.Audit || r.cfg.URL == "" {
		return true
	}

	record := Record{
		TimeStamp: time.Now().UTC().Format(time.RFC3339),
		UserID:    principal.UserID,
		Source:    r.cfg.Source,
		Method:    method,
		Data:      data,
	}

	payload, err := json.Marshal(record)
	if err != nil {
		r.logger.Error("audit: failed to marshal record", "error", err)
		return false
	}

	ctx, cancel := internal.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.URL, bytes.NewBuffer(payload))
	if err != nil {
		r.logger.Error("audit: failed to build request", "error", err)
		return false
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", r.cfg.Source)
	req.Header.Set("x-api-key", r.cfg.APIKey)

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("audit: connection refused", "error", err, "user_id", principal.UserID)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		r.logger.Error("audit: sink returned non-success status",
			"status_code", resp.StatusCode,
			"user_id", principal.UserID)
		return false
	}

	r.logger.Debug("audit: activity reported", "user_id", principal.UserID, "method", method)
	return true
}
