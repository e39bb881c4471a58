package observability

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollector(t *testing.T) {
	t.Run("repeated construction returns the same collector", func(t *testing.T) {
		c1 := NewCollector("kinship")
		c2 := NewCollector("kinship")
		assert.Same(t, c1, c2)
	})

	t.Run("metrics are exposed on the handler", func(t *testing.T) {
		c := NewCollector("kinship")
		c.RecordMutation("add_person")
		c.ObserveLayout(5 * time.Millisecond)
		c.SaveFailures.Inc()
		c.HTTPRequests.WithLabelValues("GET", "/api/graph", "200").Inc()

		rec := httptest.NewRecorder()
		c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

		body, err := io.ReadAll(rec.Result().Body)
		require.NoError(t, err)
		out := string(body)
		assert.Contains(t, out, "kinship_graph_mutations_total")
		assert.Contains(t, out, "kinship_layout_relaxation_seconds")
		assert.Contains(t, out, "kinship_snapshot_save_failures_total")
		assert.Contains(t, out, "kinship_http_requests_total")
	})
}
