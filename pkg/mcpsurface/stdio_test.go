package mcpsurface

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"

	tdb "github.com/agentdeck/agentdeck/test/database"
	"github.com/agentdeck/agentdeck/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStdio_SkipsMalformedLineAndProcessesRest(t *testing.T) {
	client := tdb.NewTestClient(t)
	d := NewDispatcher(services.NewIngestionService(client.Client), services.NewRunService(client.Client))

	in := bytes.NewBufferString(
		"not json at all\n" +
			`{"jsonrpc":"2.0","id":1,"method":"initialize"}` + "\n" +
			`{"jsonrpc":"2.0","method":"notifications/initialized"}` + "\n" +
			`{"jsonrpc":"2.0","id":2,"method":"tools/list"}` + "\n",
	)
	var out bytes.Buffer
	var errOut bytes.Buffer

	require.NoError(t, RunStdio(context.Background(), in, &out, &errOut, d))

	scanner := bufio.NewScanner(&out)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.Len(t, lines, 2)

	var first Response
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, float64(1), first.ID)

	var second Response
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, float64(2), second.ID)

	assert.Contains(t, errOut.String(), "skipping malformed line")
}
