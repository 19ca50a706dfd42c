// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-scoring-workers/internal/common/llm"
	"lead-scoring-workers/internal/common/logger"
	"lead-scoring-workers/internal/scoring"
	"lead-scoring-workers/pkg/registry"

	categorizelead "lead-scoring-workers/internal/workers/lead-scoring/categorize-lead"
	classifyleadneed "lead-scoring-workers/internal/workers/lead-scoring/classify-lead-need"
	recommendleadaction "lead-scoring-workers/internal/workers/lead-scoring/recommend-lead-action"
	scoreleadbatch "lead-scoring-workers/internal/workers/lead-scoring/score-lead-batch"
	scoreleadintent "lead-scoring-workers/internal/workers/lead-scoring/score-lead-intent"
)

// completionServer answers chat completions by matching a substring of the prompt.
type completionServer struct {
	*httptest.Server
	calls int32
}

func newCompletionServer(t *testing.T, replies map[string]string, fallback string) *completionServer {
	t.Helper()
	cs := &completionServer{}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&cs.calls, 1)

		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		reply := fallback
		for needle, r := range replies {
			if strings.Contains(req.Messages[0].Content, needle) {
				reply = r
				break
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": reply}, "finish_reason": "stop"},
			},
		})
	}))
	t.Cleanup(cs.Close)
	return cs
}

func (cs *completionServer) Calls() int { return int(atomic.LoadInt32(&cs.calls)) }

type stack struct {
	server   *completionServer
	redis    *miniredis.Miniredis
	scorer   *scoring.Scorer
	pipeline *scoring.Pipeline
}

func newStack(t *testing.T, replies map[string]string, fallback string) *stack {
	t.Helper()
	server := newCompletionServer(t, replies, fallback)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log := logger.NewTestLogger(t)
	client := llm.NewOpenAIClient(llm.OpenAIConfig{BaseURL: server.URL, APIKey: "sk-test", Timeout: 5 * time.Second})
	cached := llm.NewCachedCompleter(client, rdb, time.Hour, "lead-score:", log)

	scorer := scoring.NewScorer(cached, scoring.ScorerConfig{Timeout: 5 * time.Second})
	pipeline := scoring.NewPipeline(scorer, scoring.PipelineConfig{Concurrency: 2}, log, nil)
	return &stack{server: server, redis: mr, scorer: scorer, pipeline: pipeline}
}

func TestE2E_BatchThroughCompletionServer(t *testing.T) {
	s := newStack(t, map[string]string{
		"tienda online": "5",
		"web page":      "3",
	}, "maybe")

	activity, ok := registry.Default().Find(scoreleadbatch.TaskType)
	require.True(t, ok)
	cfg := scoreleadbatch.DefaultConfig()
	cfg.InputSchema = activity.InputSchema
	h := scoreleadbatch.NewHandler(cfg, s.pipeline, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &scoreleadbatch.Input{
		Columns: []string{"message", "company_name", "company_size"},
		Rows: []map[string]interface{}{
			{"message": "Necesito una tienda online urgente", "company_name": "Acme", "company_size": "medium"},
			{"message": "web page", "company_name": nil},
			{"message": "just browsing"},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Rows, 3)

	assert.Equal(t, 5, out.Rows[0]["lead_score"])
	assert.Equal(t, "🟢 Hot", out.Rows[0]["category"])
	assert.Equal(t, "E-commerce", out.Rows[0]["need"])
	assert.Equal(t, "Contact immediately", out.Rows[0]["recommendation"])

	assert.Equal(t, 3, out.Rows[1]["lead_score"])
	assert.Equal(t, "🟡 Warm", out.Rows[1]["category"])
	assert.Equal(t, "Website", out.Rows[1]["need"])
	assert.Equal(t, "Follow up soon", out.Rows[1]["recommendation"])

	assert.Nil(t, out.Rows[2]["lead_score"])
	assert.Equal(t, "❓ Unknown", out.Rows[2]["category"])
	assert.Equal(t, "Other", out.Rows[2]["need"])
	assert.Equal(t, "Review manually", out.Rows[2]["recommendation"])

	assert.Equal(t, 3, s.server.Calls())
	assert.Len(t, s.redis.Keys(), 3)

	// Same rows again are served from the cache.
	_, err = h.Execute(context.Background(), &scoreleadbatch.Input{
		Columns: []string{"message", "company_name", "company_size"},
		Rows: []map[string]interface{}{
			{"message": "Necesito una tienda online urgente", "company_name": "Acme", "company_size": "medium"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, s.server.Calls())
}

func TestE2E_PerLeadWorkerChain(t *testing.T) {
	s := newStack(t, map[string]string{"web page": "3"}, "1")
	log := logger.NewTestLogger(t)
	ctx := context.Background()

	intent := scoreleadintent.NewHandler(scoreleadintent.DefaultConfig(), s.scorer, log)
	categorize := categorizelead.NewHandler(&categorizelead.Config{}, log)
	classify := classifyleadneed.NewHandler(&classifyleadneed.Config{}, log)
	recommend := recommendleadaction.NewHandler(&recommendleadaction.Config{}, log)

	scored, err := intent.Execute(ctx, &scoreleadintent.Input{Message: "web page"})
	require.NoError(t, err)
	require.True(t, scored.Scored)

	// Variables cross process boundaries as JSON.
	var catIn categorizelead.Input
	roundTrip(t, scored, &catIn)
	cat, err := categorize.Execute(ctx, &catIn)
	require.NoError(t, err)

	need, err := classify.Execute(ctx, &classifyleadneed.Input{Message: "web page"})
	require.NoError(t, err)

	rec, err := recommend.Execute(ctx, &recommendleadaction.Input{Category: cat.CategoryLabel})
	require.NoError(t, err)

	assert.Equal(t, "Warm", cat.Category)
	assert.Equal(t, "Website", need.Need)
	assert.Equal(t, "Follow up soon", rec.Recommendation)
}

func TestE2E_CompletionServerDown(t *testing.T) {
	s := newStack(t, nil, "5")
	s.server.Close()

	out, err := s.pipeline.ScoreTable(context.Background(), scoring.Table{
		Columns: []string{"message"},
		Rows:    []map[string]interface{}{{"message": "store"}, {"message": "web"}},
	}, scoring.FieldMapping{Message: "message"})
	require.NoError(t, err)

	for _, row := range out.Rows {
		assert.Equal(t, "❓ Unknown", row["category"])
		assert.Equal(t, "Review manually", row["recommendation"])
	}
	assert.Equal(t, 2, out.Summary.FailureReasons["LLM_REQUEST_FAILED"])
	assert.Equal(t, "E-commerce", out.Rows[0]["need"])
}

func roundTrip(t *testing.T, from, to interface{}) {
	t.Helper()
	data, err := json.Marshal(from)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, to))
}
