package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/graphicode-dev/classroom/internal/param"
)

func TestObserveClientRequest(t *testing.T) {
	before := testutil.ToFloat64(ClientRequests.WithLabelValues("GET", "422", "VALIDATION"))
	ObserveClientRequest("GET", 422, "VALIDATION", 15*time.Millisecond)
	after := testutil.ToFloat64(ClientRequests.WithLabelValues("GET", "422", "VALIDATION"))
	assert.Equal(t, before+1, after)
}

func TestWarningSink(t *testing.T) {
	counter := SerializationWarnings.WithLabelValues(param.WarnCycle.String())
	before := testutil.ToFloat64(counter)

	WarningSink().Warn(param.Warning{Kind: param.WarnCycle, Key: "a"})

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
