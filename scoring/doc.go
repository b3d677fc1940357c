// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package scoring tallies yes/no answers into categories.

Each question belongs to one category. A yes answer adds one to that
category the first time it is seen; answering the same question again,
or answering no, never changes the tally.

	tally, counted = scoring.Apply(tally, counted, q, models.AnswerYes)
	dominant := scoring.Dominant(tally) // "A", "B", "C" or "Mixed"

Apply never mutates its inputs.
*/
package scoring
