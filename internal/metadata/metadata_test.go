package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SANJAI2406/bearing-force-viewer/internal/ocr"
)

func frag(text string, conf float64) ocr.Fragment {
	return ocr.Fragment{Text: text, Confidence: conf}
}

func TestFromFilenameHints(t *testing.T) {
	m := FromFilenameHints("2nd_stage_150Nm_loaded_B4_Y_Order_2.5--12.csv")

	assert.Equal(t, "2", m.Stage)
	assert.Equal(t, "150Nm", m.Torque)
	assert.Equal(t, "loaded", m.Condition)
	assert.Equal(t, 12, m.FileNumber)

	require.True(t, m.Bearing.Resolved())
	assert.Equal(t, "B4", m.Bearing.Value)
	assert.Equal(t, FromFilename, m.Bearing.Source)

	require.True(t, m.Direction.Resolved())
	assert.Equal(t, "Y", m.Direction.Value)

	require.True(t, m.Order.Resolved())
	assert.Equal(t, "2.5", m.Order.Value)
}

func TestFromFilenameHintsDefaults(t *testing.T) {
	m := FromFilenameHints("/data/run/measurement.csv")

	assert.Equal(t, "1", m.Stage, "stage defaults to 1 when absent")
	assert.False(t, m.Bearing.Resolved())
	assert.False(t, m.Direction.Resolved())
	assert.False(t, m.Order.Resolved())
	assert.False(t, m.Complete())
}

func TestFromFilenameHintsOrderVariants(t *testing.T) {
	cases := map[string]string{
		"B1_X_Order_2.csv":   "2.0",
		"B1_X_Order_2_5.csv": "2.5",
		"B1_X_order-3.7.csv": "3.7",
	}
	for name, want := range cases {
		m := FromFilenameHints(name)
		require.True(t, m.Order.Resolved(), name)
		assert.Equal(t, want, m.Order.Value, name)
	}
}

func TestReduceFragments(t *testing.T) {
	m := ReduceFragments([]ocr.Fragment{
		frag("B4", 91),
		frag("[Rear", 60),
		frag("Bearing]", 62),
		frag("Force", 80),
		frag("Y", 88),
		frag("Order", 85),
		frag("2.5", 83),
	})

	require.True(t, m.Bearing.Resolved())
	assert.Equal(t, "B4", m.Bearing.Value)
	assert.Equal(t, FromOCR, m.Bearing.Source)
	assert.InDelta(t, 91, m.Bearing.Confidence, 0.01)
	assert.Equal(t, "Rear Bearing", m.BearingDesc)

	require.True(t, m.Direction.Resolved())
	assert.Equal(t, "Y", m.Direction.Value)

	require.True(t, m.Order.Resolved())
	assert.Equal(t, "2.5", m.Order.Value)
}

func TestReduceFragmentsCorrections(t *testing.T) {
	m := ReduceFragments([]ocr.Fragment{
		frag("BI", 70),
		frag("Z", 72),
		frag("0rder", 68),
		frag("3", 66),
	})

	require.True(t, m.Bearing.Resolved())
	assert.Equal(t, "B1", m.Bearing.Value, "BI misread repaired to B1")
	assert.Equal(t, "Z", m.Direction.Value)
	require.True(t, m.Order.Resolved())
	assert.Equal(t, "3.0", m.Order.Value, "0rder misread still anchors the order value")
}

func TestReduceFragmentsFusedTokens(t *testing.T) {
	m := ReduceFragments([]ocr.Fragment{
		frag("B2", 90),
		frag("ForceX", 77),
		frag("Order2", 74),
	})

	assert.Equal(t, "X", m.Direction.Value)
	require.True(t, m.Order.Resolved())
	assert.Equal(t, "2.0", m.Order.Value)
}

func TestReduceFragmentsConfidenceWins(t *testing.T) {
	m := ReduceFragments([]ocr.Fragment{
		frag("B4", 60),
		frag("B7", 90),
	})
	require.True(t, m.Bearing.Resolved())
	assert.Equal(t, "B7", m.Bearing.Value)
}

func TestReduceFragmentsTieStaysUnresolved(t *testing.T) {
	m := ReduceFragments([]ocr.Fragment{
		frag("B4", 80),
		frag("B7", 80),
	})
	assert.False(t, m.Bearing.Resolved(), "exact confidence tie between values")
}

func TestReduceFragmentsBareNumberIgnored(t *testing.T) {
	// Numbers not preceded by "Order" are axis limits, not orders.
	m := ReduceFragments([]ocr.Fragment{
		frag("B1", 85),
		frag("X", 85),
		frag("500", 85),
	})
	assert.False(t, m.Order.Resolved())
}

func TestReconcilePreferFilename(t *testing.T) {
	fromName := Metadata{
		Bearing:   FilenameField("B4"),
		Direction: FilenameField("Y"),
		Stage:     "2",
	}
	fromOCR := Metadata{
		Bearing:     OCRField("B7", 88),
		Order:       OCRField("2.5", 83),
		BearingDesc: "Rear Bearing",
	}

	merged, notes := Reconcile(fromName, fromOCR, PreferFilename)

	assert.Equal(t, "B4", merged.Bearing.Value)
	assert.Equal(t, FromFilename, merged.Bearing.Source)
	assert.Equal(t, "Y", merged.Direction.Value)
	assert.Equal(t, "2.5", merged.Order.Value, "OCR fills the gap the filename left")
	assert.Equal(t, FromOCR, merged.Order.Source)
	assert.Equal(t, "Rear Bearing", merged.BearingDesc)
	assert.Equal(t, "2", merged.Stage, "sweep hints pass through")

	require.Len(t, notes, 1)
	assert.Equal(t, "bearing", notes[0].Field)
	assert.Equal(t, "B4", notes[0].Kept.Value)
	assert.Equal(t, "B7", notes[0].Dropped.Value)
}

func TestReconcilePreferOCR(t *testing.T) {
	fromName := Metadata{Bearing: FilenameField("B4")}
	fromOCR := Metadata{Bearing: OCRField("B7", 88)}

	merged, notes := Reconcile(fromName, fromOCR, PreferOCR)

	assert.Equal(t, "B7", merged.Bearing.Value)
	require.Len(t, notes, 1)
	assert.Equal(t, "B7", notes[0].Kept.Value)
	assert.Equal(t, "B4", notes[0].Dropped.Value)
}

func TestReconcileAgreementIsQuiet(t *testing.T) {
	fromName := Metadata{Bearing: FilenameField("B4")}
	fromOCR := Metadata{Bearing: OCRField("B4", 90)}

	merged, notes := Reconcile(fromName, fromOCR, PreferFilename)

	assert.Equal(t, "B4", merged.Bearing.Value)
	assert.Empty(t, notes)
}

func TestFieldString(t *testing.T) {
	assert.Equal(t, "?", Field{}.String())
	assert.Equal(t, "B4", FilenameField("B4").String())
}
