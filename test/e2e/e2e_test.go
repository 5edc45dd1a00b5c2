// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devicelife-worker/internal/common/backend"
	"devicelife-worker/internal/common/camunda"
	"devicelife-worker/internal/common/config"
	"devicelife-worker/internal/common/database"
	"devicelife-worker/internal/common/logger"
	ec "devicelife-worker/internal/workers/evaluation/evaluate-combination"
)

const processID = "evaluate-combination-e2e"

// Runs only against a live gateway, e.g. ZEEBE_E2E_ADDRESS=localhost:26500.
func zeebeAddress(t *testing.T) string {
	addr := os.Getenv("ZEEBE_E2E_ADDRESS")
	if addr == "" || testing.Short() {
		t.Skip("ZEEBE_E2E_ADDRESS not set")
	}
	return addr
}

func TestEvaluateCombination_E2E(t *testing.T) {
	addr := zeebeAddress(t)
	log := logger.NewTestLogger(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// --- Backend stub ---
	var submissions atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/internal/evaluations/501/payload":
			_, _ = io.WriteString(w, `{"code":"COMMON200","message":"ok","success":true,"result":{
				"combinationId": 501,
				"evaluationVersion": 1,
				"devices": [
					{"deviceId": 1, "type": "SMARTPHONE", "specs": {"os": "iOS", "wirelessCharging": "MAGSAFE"}},
					{"deviceId": 2, "type": "SMART_WATCH", "specs": {"compatiblePhoneOs": ["iOS"]}}
				],
				"lifestyles": ["#Office"]
			}}`)
		case "/internal/evaluations/501/result":
			submissions.Add(1)
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	// --- Ledger ---
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ledger := database.NewSubmissionLedger(database.NewRedisFromClient(rdb), "e2e:submitted", time.Hour)

	// --- Zeebe ---
	client, err := camunda.Connect(ctx, &camunda.ClientConfig{
		GatewayAddress:         addr,
		UsePlaintextConnection: true,
		RetryConfig:            &camunda.RetryConfig{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: 5 * time.Second},
	}, log)
	require.NoError(t, err, "zeebe connection failed")
	defer client.Close()

	_, err = client.Zeebe().NewDeployResourceCommand().
		AddResourceFile("testdata/evaluate-combination.bpmn").
		Send(ctx)
	require.NoError(t, err, "deploy failed")

	handler := ec.NewHandler(ec.HandlerOptions{
		Config: &ec.Config{Timeout: 30 * time.Second},
		Backend: backend.NewClient(config.BackendConfig{
			BaseURL:       server.URL,
			InternalToken: "e2e-token",
			Timeout:       5000,
			MaxRetries:    1,
			RetryBackoff:  50,
		}, log),
		Ledger: ledger,
		Logger: log,
	})
	w := camunda.StartWorker(client.Zeebe(), ec.TaskType, config.WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 2,
		Timeout:       30000,
	}, handler, log)
	require.NotNil(t, w)
	defer w.Stop()

	// Same combination twice: both instances complete, one result is posted.
	for i := 0; i < 2; i++ {
		cmd, err := client.Zeebe().NewCreateInstanceCommand().
			BPMNProcessId(processID).
			LatestVersion().
			VariablesFromMap(map[string]interface{}{"combinationId": 501})
		require.NoError(t, err)

		resp, err := cmd.WithResult().Send(ctx)
		require.NoError(t, err, "process instance did not complete")

		var vars ec.Output
		require.NoError(t, json.Unmarshal([]byte(resp.GetVariables()), &vars))
		assert.Equal(t, int64(501), vars.CombinationID)
		assert.Equal(t, 99, vars.CompatibilityScore)
		assert.Equal(t, 100, vars.ConvenienceScore)
		assert.Equal(t, i == 1, vars.DuplicateSubmission)
	}

	assert.Equal(t, int32(1), submissions.Load())
}
