// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package factsearch

import (
	"strings"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyResult is the outcome of matching one text against a pattern.
// A zero Score means no match. Positions are rune offsets of the
// matched characters, for highlighting.
type FuzzyResult struct {
	Score     int
	Positions []int
}

// initScoring fills fzf's character-class and bonus tables. Until it
// runs every match scores zero.
var initScoring = sync.OnceFunc(func() { algo.Init("default") })

// newSlab allocates fzf's scratch space with the sizes fzf itself uses.
func newSlab() *util.Slab {
	return util.MakeSlab(100*1024, 2048)
}

// FuzzyMatch scores text against pattern with fzf's V2 algorithm,
// case-insensitively. slab may be nil, in which case the matcher
// allocates.
func FuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 {
		return FuzzyResult{}
	}
	initScoring()
	lowered := []rune(strings.ToLower(string(pattern)))
	chars := util.ToChars([]byte(text))
	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, lowered, true, slab)
	if result.Start < 0 || result.Score <= 0 {
		return FuzzyResult{}
	}
	match := FuzzyResult{Score: result.Score}
	if positions != nil {
		match.Positions = *positions
	}
	return match
}
