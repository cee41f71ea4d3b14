package passquiz

import "math/rand"

// ShuffledQuestion is a question as presented to the player: options in a
// random order, with OptionOrder mapping each shown position back to the
// option's index in the bank.
type ShuffledQuestion struct {
	ID          int      `json:"id"`
	Category    string   `json:"category"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	OptionOrder []int    `json:"optionOrder"`
}

// OriginalIndex maps a shown option position to its index in the bank.
// It returns -1 for positions out of range.
func (sq ShuffledQuestion) OriginalIndex(pos int) int {
	if pos < 0 || pos >= len(sq.OptionOrder) {
		return -1
	}
	return sq.OptionOrder[pos]
}

// ShownPosition is the inverse of OriginalIndex
func (sq ShuffledQuestion) ShownPosition(original int) int {
	for pos, idx := range sq.OptionOrder {
		if idx == original {
			return pos
		}
	}
	return -1
}

// Randomize returns a new permutation of questions, each with an independent
// permutation of its options. The input is not modified.
func Randomize(questions []Question, rng *rand.Rand) []ShuffledQuestion {
	order := rng.Perm(len(questions))

	out := make([]ShuffledQuestion, len(questions))
	for i, qi := range order {
		q := questions[qi]

		perm := rng.Perm(len(q.Options))
		options := make([]string, len(perm))
		for pos, orig := range perm {
			options[pos] = q.Options[orig]
		}

		out[i] = ShuffledQuestion{
			ID:          q.ID,
			Category:    q.Category,
			Question:    q.Question,
			Options:     options,
			OptionOrder: perm,
		}
	}
	return out
}
