// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/bolgeo/internal/platform/metrics"
)

func TestRecordHTTPRequest_UnmatchedRoute(t *testing.T) {
	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404"))

	metrics.RecordHTTPRequest("GET", "", 404, 3*time.Millisecond)

	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404"))
	assert.Equal(t, before+1, after)
}

func TestTrackLiveSubscriber(t *testing.T) {
	before := testutil.ToFloat64(metrics.LiveSubscribers)

	metrics.TrackLiveSubscriber(true)
	metrics.TrackLiveSubscriber(true)
	metrics.TrackLiveSubscriber(false)

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.LiveSubscribers))
}
