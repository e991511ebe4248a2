package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordDeployment(t *testing.T) {
	before := testutil.ToFloat64(deployments.WithLabelValues("nft", "compile"))
	RecordDeployment("nft", "compile")
	RecordDeployment("nft", "compile")
	assert.Equal(t, before+2, testutil.ToFloat64(deployments.WithLabelValues("nft", "compile")))
}

func TestAddScratchSwept(t *testing.T) {
	before := testutil.ToFloat64(scratchSwept)
	AddScratchSwept(3)
	AddScratchSwept(0)
	assert.Equal(t, before+3, testutil.ToFloat64(scratchSwept))
}

func TestObserveHistograms(t *testing.T) {
	ObserveHTTPRequest("GET", "", 404, 5*time.Millisecond)
	ObserveToolchainStep("publish", 2*time.Second, true)

	assert.GreaterOrEqual(t, testutil.CollectAndCount(httpRequestDuration, "dappforge_http_request_duration_seconds"), 1)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(toolchainStepDuration), 1)
}
