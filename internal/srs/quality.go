package srs

// Quality grades a single recall attempt on the 0-5 SM-2 scale.
type Quality int

const (
	// QualityBlackout means complete failure to recall.
	QualityBlackout Quality = iota
	// QualityIncorrect means a wrong answer, remembered on seeing the correct one.
	QualityIncorrect
	// QualityIncorrectFamiliar means a wrong answer that felt familiar.
	QualityIncorrectFamiliar
	// QualityCorrectHard means a correct answer with significant effort.
	QualityCorrectHard
	// QualityCorrectHesitant means a correct answer after hesitation.
	QualityCorrectHesitant
	// QualityPerfect means flawless recall.
	QualityPerfect
)

// Valid reports whether q is inside the 0-5 scale.
func (q Quality) Valid() bool {
	return q >= QualityBlackout && q <= QualityPerfect
}

// Pass reports whether the review counts as a success. Anything below
// QualityCorrectHard is a lapse.
func (q Quality) Pass() bool {
	return q >= QualityCorrectHard
}
