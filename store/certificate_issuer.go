package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// CertificateIssuer produces certificate references for completed courses.
// Without a renderer URL it falls back to the deterministic path convention
// served from the public certificates folder; with one, it asks the external
// rendering service for the final document URL.
type CertificateIssuer struct {
	basePath  string
	renderURL string
	client    *resty.Client
	now       func() time.Time
}

func NewCertificateIssuer(basePath, renderURL string) *CertificateIssuer {
	return &CertificateIssuer{
		basePath:  strings.TrimRight(basePath, "/"),
		renderURL: renderURL,
		client:    resty.New().SetTimeout(10 * time.Second),
		now:       time.Now,
	}
}

func (i *CertificateIssuer) Issue(ctx context.Context, userID, courseID uint) (string, error) {
	if i.renderURL == "" {
		return fmt.Sprintf("%s/%d_%d_%d.pdf", i.basePath, userID, courseID, i.now().UnixMilli()), nil
	}

	var out struct {
		CertificateURL string `json:"certificate_url"`
	}
	resp, err := i.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"request_id": uuid.New().String(),
			"user_id":    userID,
			"course_id":  courseID,
		}).
		SetResult(&out).
		Post(i.renderURL)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("certificate renderer returned %s", resp.Status())
	}
	if out.CertificateURL == "" {
		return "", errors.New("certificate renderer returned no URL")
	}
	return out.CertificateURL, nil
}
