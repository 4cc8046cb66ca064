package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// slideRequest is the payload posted to the external slide renderer.
type slideRequest struct {
	Kind       string            `json:"kind"`
	Title      string            `json:"title"`
	ClientName string            `json:"clientName"`
	Date       string            `json:"date"`
	Metrics    map[string]string `json:"metrics"`
	Insights   []string          `json:"insights"`
}

// encodeSlides delegates to an external renderer; no in-process encoder
// exists for this format. An unset endpoint means the format is unavailable
// in this deployment.
func (e *Emitter) encodeSlides(ctx context.Context, doc *Document) (*Artifact, error) {
	if e.slidedeck == "" {
		return nil, ErrFormatUnavailable
	}

	f := NewFormatter(doc.Options.Locale, doc.Options.Currency)
	summary := doc.Result.Summary

	payload := slideRequest{
		Kind:       doc.Kind,
		Title:      reportTitle(doc.Kind),
		ClientName: doc.Client.DisplayName(),
		Date:       f.FormatDate(doc.GeneratedAt),
		Metrics: map[string]string{
			"finalPortfolioValue":  f.FormatCurrency(summary.FinalPortfolioValue),
			"finalRealValue":       f.FormatCurrency(summary.FinalRealValue),
			"averageReturn":        f.FormatPercent(summary.AverageReturn),
			"sustainabilityRating": fmt.Sprintf("%d/10", summary.SustainabilityRating),
			"goalAchieved":         f.YesNo(summary.GoalAchieved),
		},
		Insights: summary.KeyInsights,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal slide request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.slidedeck, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build slide request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("slide renderer unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("slide renderer returned %d: %s", resp.StatusCode, string(snippet))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read slide response: %w", err)
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	}

	return &Artifact{Bytes: data, ContentType: ct, Ext: "pptx"}, nil
}
