package passquiz

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomizeKeepsInverseMapping(t *testing.T) {
	bank, err := DefaultQuestionBank()
	require.NoError(t, err)
	questions := bank.All()

	shuffled := Randomize(questions, rand.New(rand.NewSource(1)))
	require.Len(t, shuffled, len(questions))

	seen := make(map[int]bool)
	for _, sq := range shuffled {
		orig, ok := bank.Get(sq.ID)
		require.True(t, ok)
		seen[sq.ID] = true

		assert.Equal(t, orig.Question, sq.Question)
		assert.Equal(t, orig.Category, sq.Category)
		require.Len(t, sq.Options, len(orig.Options))

		order := append([]int(nil), sq.OptionOrder...)
		sort.Ints(order)
		for i, idx := range order {
			assert.Equal(t, i, idx, "option order is a permutation")
		}

		for pos, text := range sq.Options {
			original := sq.OriginalIndex(pos)
			assert.Equal(t, orig.Options[original], text)
			assert.Equal(t, pos, sq.ShownPosition(original))
		}

		// The correct option can be found through the mapping
		correctPos := sq.ShownPosition(orig.CorrectIndex)
		assert.Equal(t, orig.Options[orig.CorrectIndex], sq.Options[correctPos])
	}
	assert.Len(t, seen, len(questions))

	assert.Equal(t, -1, shuffled[0].OriginalIndex(-1))
	assert.Equal(t, -1, shuffled[0].OriginalIndex(len(shuffled[0].Options)))
	assert.Equal(t, -1, shuffled[0].ShownPosition(99))
}

func TestRandomizeDoesNotModifyInput(t *testing.T) {
	questions := sampleQuestions(5)
	before := make([][]string, len(questions))
	for i, q := range questions {
		before[i] = append([]string(nil), q.Options...)
	}

	Randomize(questions, rand.New(rand.NewSource(7)))

	for i, q := range questions {
		assert.Equal(t, i+1, q.ID)
		assert.Equal(t, before[i], q.Options)
	}
}

func TestRandomizeIsDeterministicPerSeedAndVariesAcrossSeeds(t *testing.T) {
	bank, err := DefaultQuestionBank()
	require.NoError(t, err)

	a := Randomize(bank.All(), rand.New(rand.NewSource(3)))
	b := Randomize(bank.All(), rand.New(rand.NewSource(3)))
	assert.Equal(t, a, b)

	different := false
	for seed := int64(4); seed < 10 && !different; seed++ {
		c := Randomize(bank.All(), rand.New(rand.NewSource(seed)))
		for i := range a {
			if a[i].ID != c[i].ID {
				different = true
				break
			}
		}
	}
	assert.True(t, different, "question order should change between requests")
}
