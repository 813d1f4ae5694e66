package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ppc-sim/internal/config/configs"
	"ppc-sim/internal/core/domain"
)

const autoCampaign = `{
	"campaignName": "Yoga Mats",
	"campaignType": "auto",
	"dailyBudget": 8,
	"adGroups": [{
		"adGroupName": "Mats",
		"defaultBid": 0.4,
		"targeting": {"autoTargeting": {"closeMatch": true}}
	}]
}`

func TestEvaluateCommandReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campaign.json")
	require.NoError(t, os.WriteFile(path, []byte(autoCampaign), 0o600))

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"evaluate", path})
	require.NoError(t, root.Execute())

	var fb domain.FeedbackResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &fb))
	// low budget, single auto option, low bid, generic ad group name
	assert.Equal(t, 100-15-10-10-5, fb.Score)
	assert.Len(t, fb.Weaknesses, 4)
}

func TestEvaluateCommandReadsStdin(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetIn(strings.NewReader(autoCampaign))
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"evaluate"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), `"score": 60`)
}

func TestEvaluateRejectsInvalidConfig(t *testing.T) {
	err := evaluate(strings.NewReader(`{"campaignType":"manual","adGroups":[]}`), &bytes.Buffer{})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	err = evaluate(strings.NewReader(`not json`), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "dev", configs.Logger{Level: "warn", Format: "json"})
	logger.Info("hidden")
	logger.Warn("shown", slog.Int("n", 1))

	line := strings.TrimSpace(buf.String())
	require.NotContains(t, line, "hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "dev", rec["env"])
}
