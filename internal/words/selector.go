package words

import (
	"math/rand"
	"time"
)

type Mode string

const (
	// ModeDate seeds selection from the calendar date, so every room
	// shares one daily word.
	ModeDate Mode = "date"
	// ModeRandom draws the seed uniformly from [0, 10000).
	ModeRandom Mode = "random"
)

const randomSeedRange = 10000

// Selector picks target words from the corpus. It never fails: any
// seed maps onto a corpus entry.
type Selector struct {
	corpus []string
	now    func() time.Time
}

func NewSelector() *Selector {
	return &Selector{
		corpus: corpus,
		now:    time.Now,
	}
}

// Select returns the target word for mode. In ModeDate the seed is
// day + month*100 + year*10000 for the current date; otherwise it is
// random. The word is corpus[seed mod len(corpus)].
func (that *Selector) Select(mode Mode) string {
	var seed int

	if mode == ModeDate {
		today := that.now()
		seed = today.Day() + int(today.Month())*100 + today.Year()*10000
	} else {
		seed = rand.Intn(randomSeedRange) //nolint:gosec // game seeding, not crypto
	}

	return that.corpus[seed%len(that.corpus)]
}
