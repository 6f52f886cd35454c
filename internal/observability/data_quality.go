package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cownect/cownect-backend/internal/platform/ctxutil"
	"github.com/cownect/cownect-backend/internal/platform/envutil"
	"github.com/cownect/cownect-backend/internal/platform/logger"
)

// Output quality issues, by how far a model reply got before it was rejected.
const (
	IssueSchemaValidation = "schema_validation"
	IssueDecode           = "decode"
	IssueContentCheck     = "content_check"
	IssueRanking          = "ranking_mismatch"
)

type dqAlertState struct {
	mu   sync.Mutex
	last map[string]time.Time
}

var dqAlerts dqAlertState

// ReportOutputQuality records a model reply that arrived but could not be used.
// Transport failures and timeouts are not quality issues and are not reported here.
func ReportOutputQuality(ctx context.Context, log *logger.Logger, stage, issue, detail string) {
	stage = strings.TrimSpace(stage)
	if stage == "" {
		stage = "unknown"
	}
	Current().IncOutputQuality(stage, issue)

	meta := map[string]any{}
	if td := ctxutil.GetTraceData(ctx); td != nil {
		if td.TraceID != "" {
			meta["trace_id"] = td.TraceID
		}
		if td.RequestID != "" {
			meta["request_id"] = td.RequestID
		}
	}
	if log != nil {
		log.Warn("model output rejected", "stage", stage, "issue", issue, "detail", detail, "meta", meta)
	}
	sendQualityAlert(stage, issue, detail, meta, log)
}

func sendQualityAlert(stage, issue, detail string, meta map[string]any, log *logger.Logger) {
	if !envutil.Bool("OUTPUT_QUALITY_ALERTS_ENABLED", false) {
		return
	}
	webhook := envutil.String("OUTPUT_QUALITY_ALERT_WEBHOOK_URL", "")
	if webhook == "" {
		return
	}
	key := stage + "|" + issue
	minInterval := envutil.Seconds("OUTPUT_QUALITY_ALERT_MIN_INTERVAL_SECONDS", 5*time.Minute)

	dqAlerts.mu.Lock()
	if dqAlerts.last == nil {
		dqAlerts.last = map[string]time.Time{}
	}
	if last := dqAlerts.last[key]; !last.IsZero() && time.Since(last) < minInterval {
		dqAlerts.mu.Unlock()
		return
	}
	dqAlerts.last[key] = time.Now()
	dqAlerts.mu.Unlock()

	body, _ := json.Marshal(map[string]any{
		"title":     "Model output rejected",
		"stage":     stage,
		"issue":     issue,
		"detail":    detail,
		"meta":      meta,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	go func() {
		req, err := http.NewRequest(http.MethodPost, webhook, bytes.NewReader(body))
		if err != nil {
			if log != nil {
				log.Warn("quality alert request build failed", "error", err, "stage", stage)
			}
			return
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := (&http.Client{Timeout: 5 * time.Second}).Do(req)
		if err != nil {
			if log != nil {
				log.Warn("quality alert post failed", "error", err, "stage", stage)
			}
			return
		}
		_ = resp.Body.Close()
	}()
}
