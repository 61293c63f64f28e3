// Package ingest ships inventory record batches to a log-ingestion endpoint.
package ingest

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gplima89/filetier/pkg/models"
)

// Config identifies the ingestion endpoint and routing rule. Endpoint and
// RuleID are required; the caller supplies the bearer token (credential
// acquisition is out of scope here).
type Config struct {
	Endpoint string        `yaml:"endpoint"`
	RuleID   string        `yaml:"rule_id"`
	Stream   string        `yaml:"stream"`
	Token    string        `yaml:"-"`
	Retries  int           `yaml:"retries"`
	Timeout  time.Duration `yaml:"timeout"`
}

const (
	defaultStream  = "Custom-FileInventory_CL"
	defaultRetries = 3
	defaultTimeout = 30 * time.Second
)

// Shipper posts gzip-compressed JSON batches with bounded retries.
type Shipper struct {
	cfg  Config
	http *http.Client
}

// NewShipper validates the config and creates a Shipper.
func NewShipper(cfg Config) (*Shipper, error) {
	if cfg.Endpoint == "" || cfg.RuleID == "" {
		return nil, fmt.Errorf("ingest: endpoint and rule_id are required")
	}
	if cfg.Stream == "" {
		cfg.Stream = defaultStream
	}
	if cfg.Retries <= 0 {
		cfg.Retries = defaultRetries
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Shipper{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// ShipRecords uploads one batch. Server errors and network failures are
// retried with exponential backoff; client errors are not retried.
func (s *Shipper) ShipRecords(ctx context.Context, records []models.FileRecord) (models.BatchResult, error) {
	if len(records) == 0 {
		return models.BatchResult{Success: true, Message: "no records to send"}, nil
	}

	body, err := encodeBatch(records)
	if err != nil {
		return models.BatchResult{Message: err.Error()}, err
	}

	url := fmt.Sprintf("%s/dataCollectionRules/%s/streams/%s?api-version=2023-01-01",
		s.cfg.Endpoint, s.cfg.RuleID, s.cfg.Stream)

	var lastErr error
	for attempt := 0; attempt <= s.cfg.Retries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * 200 * time.Millisecond
			log.Warn().Err(lastErr).Int("attempt", attempt).Dur("backoff", backoff).
				Msg("batch upload failed, retrying")
			select {
			case <-ctx.Done():
				return models.BatchResult{Message: ctx.Err().Error()}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		status, err := s.post(ctx, url, body)
		switch {
		case err != nil:
			lastErr = err
		case status >= 200 && status < 300:
			return models.BatchResult{
				Success:     true,
				RecordsSent: len(records),
				Message:     fmt.Sprintf("sent %d records", len(records)),
			}, nil
		case status >= 500:
			lastErr = fmt.Errorf("ingestion endpoint returned status %d", status)
		default:
			// 4xx will not improve on retry.
			err := fmt.Errorf("ingestion endpoint rejected batch with status %d", status)
			return models.BatchResult{Message: err.Error()}, err
		}
	}

	err = fmt.Errorf("batch upload failed after %d attempts: %w", s.cfg.Retries+1, lastErr)
	return models.BatchResult{Message: err.Error()}, err
}

func (s *Shipper) post(ctx context.Context, url string, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")
	if s.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("upload batch: %w", err)
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func encodeBatch(records []models.FileRecord) ([]byte, error) {
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("marshal batch: %w", err)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, fmt.Errorf("compress batch: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress batch: %w", err)
	}
	return buf.Bytes(), nil
}
