package distance

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitops.dev/dutysheet/model"
)

var (
	ab = model.StopPair{Origin: "A", Destination: "B"}
	ba = model.StopPair{Origin: "B", Destination: "A"}
)

func TestParseKms(t *testing.T) {
	for _, tc := range []struct {
		in    string
		want  float64
		valid bool
	}{
		{"12.5", 12.5, true},
		{" 7 ", 7, true},
		{"0", 0, true},
		{"", 0, false},
		{"twelve", 0, false},
		{"-3", 0, false},
		{"NaN", 0, false},
		{"inf", 0, false},
	} {
		v, err := ParseKms(tc.in)
		if !tc.valid {
			assert.ErrorIs(t, err, ErrInvalidInput, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, v, tc.in)
	}
}

func TestPrompterReprompts(t *testing.T) {
	out := &bytes.Buffer{}
	p := NewPrompter(strings.NewReader("abc\n\n12.5\n8\n"), out)
	p.Intro = "Sch kms:"

	kms, err := Collect(p, []model.StopPair{ab, ba})
	require.NoError(t, err)
	assert.Equal(t, map[model.StopPair]float64{ab: 12.5, ba: 8}, kms)

	assert.Equal(t, 2, strings.Count(out.String(), "Invalid input"))
	assert.Equal(t, 3, strings.Count(out.String(), "A -> B: "))
	assert.Equal(t, 1, strings.Count(out.String(), "B -> A: "))
	assert.True(t, strings.HasPrefix(out.String(), "Sch kms:\n"))
}

func TestPrompterClosedInput(t *testing.T) {
	p := NewPrompter(strings.NewReader("4\n"), &bytes.Buffer{})

	kms, err := Collect(p, []model.StopPair{ab, ba})
	require.NoError(t, err)
	assert.Equal(t, map[model.StopPair]float64{ab: 4}, kms)
}

func TestLoadTable(t *testing.T) {
	data := "\xef\xbb\xbforigin,destination,kms\nA,B,12.5\nB , A,8\n"
	table, err := LoadTable(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Table{ab: 12.5, ba: 8}, table)

	_, err = LoadTable(strings.NewReader("origin,destination,kms\nA,B,far\n"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestChain(t *testing.T) {
	out := &bytes.Buffer{}
	chain := Chain{
		Table{ab: 12.5},
		NewPrompter(strings.NewReader("3\n"), out),
	}

	kms, err := Collect(chain, []model.StopPair{ab, ba})
	require.NoError(t, err)
	assert.Equal(t, map[model.StopPair]float64{ab: 12.5, ba: 3}, kms)

	// Only the pair missing from the table was asked for.
	assert.NotContains(t, out.String(), "A -> B")
	assert.Contains(t, out.String(), "B -> A")
}
