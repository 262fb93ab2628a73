package engine_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tinylangs/bfjit/internal/engine"
)

func TestDefaultConfigRunsOnLIR(t *testing.T) {
	var out bytes.Buffer
	err := engine.NewConfig().Run([]byte("+++."), strings.NewReader(""), &out)
	require.NoError(t, err)
	require.Equal(t, []byte{3}, out.Bytes())
}

func TestEachBackendAgreesOnOutput(t *testing.T) {
	for _, b := range []engine.Backend{engine.Reference, engine.HIR, engine.LIR} {
		var out bytes.Buffer
		err := engine.NewConfig().WithBackend(b).Run([]byte("++[>+++<-]>."), strings.NewReader(""), &out)
		require.NoError(t, err, "backend %s", b)
		require.Equal(t, []byte{6}, out.Bytes(), "backend %s", b)
	}
}

func TestUnknownBackendIsAnError(t *testing.T) {
	var out bytes.Buffer
	err := engine.NewConfig().WithBackend("bogus").Run([]byte("+."), strings.NewReader(""), &out)
	require.ErrorIs(t, err, engine.ErrUnknownBackend)
}

func TestTraceReportIsEmptyWithoutTraceEnabled(t *testing.T) {
	var out bytes.Buffer
	cfg := engine.NewConfig()
	require.NoError(t, cfg.Run([]byte("++[>+++<-]>."), strings.NewReader(""), &out))

	var report bytes.Buffer
	cfg.Report(&report)
	require.Empty(t, report.String())
}

func TestTraceReportAfterEnabledRun(t *testing.T) {
	var out bytes.Buffer
	cfg := engine.NewConfig().WithTrace()
	require.NoError(t, cfg.Run([]byte("++[.>+<-]>."), strings.NewReader(""), &out))

	var report bytes.Buffer
	cfg.Report(&report)
	require.Contains(t, report.String(), "hit_count=2")
}
