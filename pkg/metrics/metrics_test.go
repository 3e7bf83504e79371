package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCheckoutMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)
	m.IncSubmission("card", true)
	m.IncSubmission("card", false)
	m.IncSubmission("card", false)
	m.ObserveGatewayCall("create_order", 120*time.Millisecond, true)
	m.SetBreakerState("order-gateway", 2)
	m.SetActiveSessions(4)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "gallery_checkout_submissions_total", map[string]string{"method": "card", "outcome": OutcomeFailure}); err != nil {
		t.Fatalf("fetch submissions: %v", err)
	} else if got != 2 {
		t.Fatalf("expected failures=2, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "gallery_gateway_request_duration_seconds", map[string]string{"operation": "create_order"}); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}

	if got, err := fetchGaugeValue(mfs, "gallery_gateway_breaker_state", map[string]string{"breaker": "order-gateway"}); err != nil || got != 2 {
		t.Fatalf("expected breaker state 2, got %f (%v)", got, err)
	}
	if got, err := fetchGaugeValue(mfs, "gallery_storefront_sessions", nil); err != nil || got != 4 {
		t.Fatalf("expected 4 sessions, got %f (%v)", got, err)
	}
}

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe("GET", "/api/v1/catalog/{itemId}", 200, 5*time.Millisecond)
	m.Observe("GET", "", 404, time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "gallery_http_requests_total", map[string]string{"route": "/api/v1/catalog/{itemId}", "status": "200"}); err != nil || got != 1 {
		t.Fatalf("expected one catalog request, got %f (%v)", got, err)
	}
	if got, err := fetchCounterValue(mfs, "gallery_http_requests_total", map[string]string{"route": "unknown", "status": "404"}); err != nil || got != 1 {
		t.Fatalf("expected unknown route label, got %f (%v)", got, err)
	}
}

func TestNilRegistererIsSafe(t *testing.T) {
	var m *CheckoutMetrics
	m.IncSubmission("card", true)
	NewCheckoutMetrics(nil).ObserveGatewayCall("x", time.Second, false)
	NewHTTPMetrics(nil).Observe("GET", "/", 200, time.Second)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	metric, err := findMetric(mfs, name, labels)
	if err != nil {
		return 0, err
	}
	return metric.GetCounter().GetValue(), nil
}

func fetchGaugeValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	metric, err := findMetric(mfs, name, labels)
	if err != nil {
		return 0, err
	}
	return metric.GetGauge().GetValue(), nil
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	metric, err := findMetric(mfs, name, labels)
	if err != nil {
		return 0, err
	}
	return metric.GetHistogram().GetSampleSum(), nil
}

func findMetric(mfs []*dto.MetricFamily, name string, labels map[string]string) (*dto.Metric, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if matchesLabels(metric.GetLabel(), labels) {
				return metric, nil
			}
		}
		return nil, fmt.Errorf("metric %q missing labels %v", name, labels)
	}
	return nil, fmt.Errorf("metric %q not found", name)
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	for name, value := range want {
		found := false
		for _, pair := range pairs {
			if pair.GetName() == name && pair.GetValue() == value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
