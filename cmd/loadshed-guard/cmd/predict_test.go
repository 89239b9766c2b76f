package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/loadshed-guard/internal/domain/outage"
	"github.com/oshokin/loadshed-guard/internal/service/guard"
)

// TestPrintPrediction covers the predicted and the idle output.
func TestPrintPrediction(t *testing.T) {
	t.Parallel()

	sast := time.FixedZone("SAST", 2*60*60)

	var buf bytes.Buffer

	err := printPrediction(&buf, &guard.Prediction{
		At:          time.Date(2024, time.March, 5, 12, 0, 0, 0, sast),
		OK:          true,
		Stage:       3,
		StageSource: guard.StageSourceEvent,
		Event: &outage.Event{
			Stage: 3,
			Start: time.Date(2024, time.March, 5, 12, 0, 0, 0, sast),
			End:   time.Date(2024, time.March, 5, 14, 30, 0, 0, sast),
			Note:  "Stage 3",
		},
		Area: "Fourways",
	})
	require.NoError(t, err)
	require.Equal(t, "Area:        Fourways\n"+
		"Stage:       3 (event)\n"+
		"Event:       Stage 3, 2024-03-05 12:00:00 - 2024-03-05 14:30:00\n"+
		"Next outage: 2024-03-05T12:00:00+02:00\n", buf.String())

	buf.Reset()

	err = printPrediction(&buf, &guard.Prediction{StageSource: guard.StageSourceNone, Area: "Fourways"})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "Next outage: none\n")
}
