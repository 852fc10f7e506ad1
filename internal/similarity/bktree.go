// Package similarity finds dictionary words close to a misspelled query.
//
// Words are compared in the compressed alphabet, so replacing "ts" with "s"
// or "kx" with "k" counts as a single edit.
package similarity

import (
	"sort"
	"strings"

	"kame/internal/convert"
)

// Tree is a BK-tree over compressed words. Each word carries the IDs of
// the entries spelled that way.
type Tree struct {
	root *node
	size int
}

type node struct {
	key      []rune
	word     string
	ids      []int
	children map[int]*node
}

// New creates an empty tree.
func New() *Tree {
	return &Tree{}
}

func key(word string) []rune {
	return []rune(convert.Compress(strings.ToLower(word)))
}

// Insert adds word with entry id.
func (t *Tree) Insert(word string, id int) {
	k := key(word)
	if len(k) == 0 {
		return
	}
	n := &node{key: k, word: strings.ToLower(word), ids: []int{id}, children: make(map[int]*node)}

	if t.root == nil {
		t.root = n
		t.size++
		return
	}

	current := t.root
	for {
		dist := distance(k, current.key)
		if dist == 0 {
			for _, existing := range current.ids {
				if existing == id {
					return
				}
			}
			current.ids = append(current.ids, id)
			return
		}

		child, exists := current.children[dist]
		if !exists {
			current.children[dist] = n
			t.size++
			return
		}
		current = child
	}
}

// Match is a word found by Search.
type Match struct {
	Word     string
	IDs      []int
	Distance int
}

// Search finds all words within maxDistance of query, nearest first and
// then alphabetically.
func (t *Tree) Search(query string, maxDistance int) []Match {
	q := key(query)
	if t.root == nil || len(q) == 0 {
		return nil
	}

	var results []Match
	t.root.search(q, maxDistance, &results)
	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Word < results[j].Word
	})
	return results
}

// Nearest is Search limited to limit matches. A limit of 0 means no limit.
func (t *Tree) Nearest(query string, maxDistance, limit int) []Match {
	results := t.Search(query, maxDistance)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func (n *node) search(q []rune, maxDistance int, results *[]Match) {
	dist := distance(q, n.key)
	if dist <= maxDistance {
		*results = append(*results, Match{
			Word:     n.word,
			IDs:      append([]int(nil), n.ids...),
			Distance: dist,
		})
	}

	for childDist, child := range n.children {
		if childDist >= dist-maxDistance && childDist <= dist+maxDistance {
			child.search(q, maxDistance, results)
		}
	}
}

// Size returns the number of distinct words in the tree.
func (t *Tree) Size() int {
	return t.size
}

// Distance returns the edit distance between a and b in the compressed
// alphabet, ignoring case.
func Distance(a, b string) int {
	return distance(key(a), key(b))
}

// distance is the Levenshtein distance, computed with two rows.
func distance(r1, r2 []rune) int {
	if len(r1) > len(r2) {
		r1, r2 = r2, r1
	}
	if len(r1) == 0 {
		return len(r2)
	}

	prev := make([]int, len(r1)+1)
	curr := make([]int, len(r1)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(r2); j++ {
		curr[0] = j
		for i := 1; i <= len(r1); i++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(r1)]
}
