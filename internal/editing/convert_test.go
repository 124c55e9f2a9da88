package editing

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/jonathan/interview-feedback/internal/types"
)

// sequentialIDs returns an IDFunc yielding id-1, id-2, ...
func sequentialIDs() IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func samplePlain() types.InterviewAnalysis {
	var strengths, areas types.HeadingMap
	strengths.Set("Communication", "Explains trade-offs clearly")
	strengths.Set("Ownership", "Follows through")
	areas.Set("Delegation", "Keeps too much work")
	return types.InterviewAnalysis{
		Name:          "Jane Candidate",
		Date:          "2024-03-01",
		Strengths:     strengths,
		AreasToTarget: areas,
		NextSteps: []types.NextStep{
			types.TextStep("para text"),
			types.PointStep("Step", "a", "b"),
		},
	}
}

func TestToOrdered_AssignsIDsInOrder(t *testing.T) {
	ordered := ToOrderedWithIDs(samplePlain(), sequentialIDs())

	assert.Equal(t, []string{"id-1", "id-2"}, ordered.Strengths.Order)
	assert.Equal(t, []string{"id-3"}, ordered.AreasToTarget.Order)
	assert.Equal(t, types.Item{ID: "id-1", Heading: "Communication", Content: "Explains trade-offs clearly"}, ordered.Strengths.Items["id-1"])
	assert.Equal(t, "Delegation", ordered.AreasToTarget.Items["id-3"].Heading)
	require.NoError(t, ordered.Validate())
}

func TestToOrdered_Empty(t *testing.T) {
	ordered := ToOrdered(types.InterviewAnalysis{})

	assert.Empty(t, ordered.Strengths.Order)
	assert.Empty(t, ordered.Strengths.Items)
	assert.Empty(t, ordered.AreasToTarget.Order)
	assert.NotNil(t, ordered.NextSteps)
}

func TestToOrdered_DoesNotAliasInput(t *testing.T) {
	plain := samplePlain()
	ordered := ToOrdered(plain)
	ordered.NextSteps[1].SubPoints[0] = "changed"

	assert.Equal(t, "a", plain.NextSteps[1].SubPoints[0])
}

func TestFromOrdered_RoundTrip(t *testing.T) {
	plain := samplePlain()
	back, err := FromOrdered(ToOrdered(plain))
	require.NoError(t, err)

	if diff := cmp.Diff(plain, back, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFromOrdered_FollowsOrderNotInsertion(t *testing.T) {
	ordered := ToOrderedWithIDs(samplePlain(), sequentialIDs())
	ordered, err := MoveItem(ordered, types.SectionStrengths, "id-2", 0)
	require.NoError(t, err)

	plain, err := FromOrdered(ordered)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ownership", "Communication"}, plain.Strengths.Keys())
}

func TestFromOrdered_DuplicateHeading(t *testing.T) {
	ordered := ToOrderedWithIDs(samplePlain(), sequentialIDs())
	it := ordered.Strengths.Items["id-2"]
	it.Heading = "Communication"
	ordered.Strengths.Items["id-2"] = it

	_, err := FromOrdered(ordered)
	var dupErr *DuplicateHeadingError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, types.SectionStrengths, dupErr.Section)
	assert.Equal(t, "Communication", dupErr.Heading)
}

func TestFromOrdered_DuplicateHeadingIgnoresSurroundingSpace(t *testing.T) {
	ordered := ToOrderedWithIDs(samplePlain(), sequentialIDs())
	it := ordered.Strengths.Items["id-2"]
	it.Heading = " Communication  "
	ordered.Strengths.Items["id-2"] = it
	require.True(t, ordered.Strengths.HasHeading("Communication", "id-1"))

	_, err := FromOrdered(ordered)
	var dupErr *DuplicateHeadingError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, " Communication  ", dupErr.Heading)
}

func TestFromOrdered_BrokenInvariant(t *testing.T) {
	ordered := ToOrderedWithIDs(samplePlain(), sequentialIDs())
	ordered.AreasToTarget.Order = append(ordered.AreasToTarget.Order, "ghost")

	_, err := FromOrdered(ordered)
	var invErr *types.InvariantError
	assert.ErrorAs(t, err, &invErr)
}

func headingMapGen(t *rapid.T, label string) types.HeadingMap {
	headings := rapid.SliceOfDistinct(rapid.StringN(0, 12, -1), strings.TrimSpace).Draw(t, label+"_headings")
	var m types.HeadingMap
	for i, h := range headings {
		m.Set(h, rapid.String().Draw(t, fmt.Sprintf("%s_content_%d", label, i)))
	}
	return m
}

var nextStepGen = rapid.Custom(func(t *rapid.T) types.NextStep {
	if rapid.Bool().Draw(t, "is_points") {
		return types.PointStep(rapid.String().Draw(t, "main"), rapid.SliceOf(rapid.String()).Draw(t, "sub_points")...)
	}
	return types.TextStep(rapid.String().Draw(t, "text"))
})

func plainGen(t *rapid.T) types.InterviewAnalysis {
	return types.InterviewAnalysis{
		Name:          rapid.String().Draw(t, "name"),
		Date:          rapid.String().Draw(t, "date"),
		Strengths:     headingMapGen(t, "strengths"),
		AreasToTarget: headingMapGen(t, "areas"),
		NextSteps:     rapid.SliceOf(nextStepGen).Draw(t, "next_steps"),
	}
}

func TestProperty_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		plain := plainGen(t)
		back, err := FromOrdered(ToOrdered(plain))
		if err != nil {
			t.Fatalf("FromOrdered: %v", err)
		}
		if diff := cmp.Diff(plain, back, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestProperty_OrderPreservation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		plain := plainGen(t)
		ordered := ToOrdered(plain)

		keys := plain.Strengths.Keys()
		if len(keys) != len(ordered.Strengths.Order) {
			t.Fatalf("got %d ids for %d headings", len(ordered.Strengths.Order), len(keys))
		}
		for i, id := range ordered.Strengths.Order {
			if got := ordered.Strengths.Items[id].Heading; got != keys[i] {
				t.Fatalf("position %d: heading %q, want %q", i, got, keys[i])
			}
		}
	})
}
