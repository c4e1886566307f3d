// internal/session/words.go
package session

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"
)

// DefaultWords is the built-in secret word pool. Words are drawn uniformly
// with replacement; repeats across rounds are allowed.
var DefaultWords = []string{
	"apple", "banana", "bicycle", "bridge", "butterfly", "cactus", "camera",
	"candle", "castle", "cloud", "compass", "crayon", "crown", "diamond",
	"dolphin", "dragon", "drum", "elephant", "feather", "firetruck", "flower",
	"fountain", "giraffe", "guitar", "hammer", "helicopter", "igloo", "island",
	"jacket", "kangaroo", "keyboard", "ladder", "lighthouse", "lizard",
	"mailbox", "mermaid", "mountain", "mushroom", "octopus", "owl", "penguin",
	"piano", "pirate", "pizza", "pyramid", "rainbow", "robot", "rocket",
	"sandwich", "scissors", "snowman", "spider", "submarine", "telescope",
	"tornado", "tractor", "trophy", "umbrella", "volcano", "whale",
}

// WordList picks secret words for rounds.
type WordList struct {
	words []string
}

// NewWordList wraps a word pool, falling back to DefaultWords when empty.
func NewWordList(words []string) *WordList {
	if len(words) == 0 {
		words = DefaultWords
	}
	return &WordList{words: words}
}

// LoadWordList reads a newline-separated word file, skipping blanks and
// lines starting with '#'.
func LoadWordList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()

	var words []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		words = append(words, w)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list %s is empty", path)
	}
	return words, nil
}

// Pick returns a uniformly random word.
func (w *WordList) Pick() string {
	return w.words[rand.Intn(len(w.words))]
}
