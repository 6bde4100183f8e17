// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package factsearch

import (
	"math"
	"regexp"
	"strings"
)

// Okapi BM25 parameters (standard values).
const (
	paramK1      = 1.2
	paramB       = 0.75
	paramEpsilon = 0.25
)

// tokenPattern splits text into lowercase letter and digit runs,
// including accented letters so label languages other than English
// tokenize sensibly.
var tokenPattern = regexp.MustCompile(`[\p{Ll}\p{Lo}0-9]+`)

// field is one weighted text field of a fact document.
type field struct {
	text   string
	weight int
}

// posting is the term statistics of one fact document.
type posting struct {
	termFrequencies map[string]int
	length          int
}

// corpus is the BM25 state over all fact documents, indexed by the
// fact's position in document order.
type corpus struct {
	postings                 []posting
	averageLength            float64
	inverseDocumentFrequency map[string]float64
}

func newCorpus(documents [][]field) *corpus {
	corpus := &corpus{
		postings:                 make([]posting, len(documents)),
		inverseDocumentFrequency: make(map[string]float64),
	}

	documentFrequency := make(map[string]int)
	var totalLength int
	for position, fields := range documents {
		frequencies := make(map[string]int)
		length := 0
		for _, field := range fields {
			if field.weight <= 0 {
				continue
			}
			for _, token := range tokenize(field.text) {
				frequencies[token] += field.weight
				length += field.weight
			}
		}
		for token := range frequencies {
			documentFrequency[token]++
		}
		corpus.postings[position] = posting{termFrequencies: frequencies, length: length}
		totalLength += length
	}
	if len(documents) > 0 {
		corpus.averageLength = float64(totalLength) / float64(len(documents))
	}

	// Terms present in every document keep a small positive IDF so
	// they still break ties.
	count := float64(len(documents))
	for term, frequency := range documentFrequency {
		idf := math.Log(1 + (count-float64(frequency)+0.5)/(float64(frequency)+0.5))
		if idf <= 0 {
			idf = paramEpsilon
		}
		corpus.inverseDocumentFrequency[term] = idf
	}
	return corpus
}

// score computes the BM25 score of one document for the query tokens.
// A query token that is a prefix of an indexed term matches it at half
// weight so partially typed words still find results.
func (corpus *corpus) score(position int, queryTokens []string) float64 {
	posting := corpus.postings[position]
	if posting.length == 0 {
		return 0
	}
	var score float64
	for _, token := range queryTokens {
		frequency := float64(posting.termFrequencies[token])
		idf := corpus.inverseDocumentFrequency[token]
		if frequency == 0 {
			frequency, idf = corpus.prefixMatch(posting, token)
			if frequency == 0 {
				continue
			}
		}
		numerator := frequency * (paramK1 + 1)
		denominator := frequency + paramK1*(1-paramB+paramB*float64(posting.length)/corpus.averageLength)
		score += idf * numerator / denominator
	}
	return score
}

func (corpus *corpus) prefixMatch(posting posting, token string) (float64, float64) {
	var bestFrequency, bestIDF float64
	for term, frequency := range posting.termFrequencies {
		if len(term) <= len(token) || !strings.HasPrefix(term, token) {
			continue
		}
		idf := corpus.inverseDocumentFrequency[term] / 2
		if idf > bestIDF {
			bestFrequency, bestIDF = float64(frequency), idf
		}
	}
	return bestFrequency, bestIDF
}

// tokenize lowercases text and splits it into tokens, discarding
// single-character tokens other than digits.
func tokenize(text string) []string {
	matches := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := matches[:0]
	for _, match := range matches {
		if len(match) >= 2 || (match[0] >= '0' && match[0] <= '9') {
			tokens = append(tokens, match)
		}
	}
	return tokens
}
