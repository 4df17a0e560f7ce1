// Package captcha produces the verification puzzles new members must solve.
// Generation never fails: an unknown kind degrades to the button challenge.
package captcha

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/insikex/safeguard/model"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// ButtonAnswer is the literal token the confirm button submits.
	ButtonAnswer = "verify"

	portalTokenAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	portalTokenLength   = 32
)

type Challenge struct {
	Type     string
	Question string
	Answer   string
	Options  []string
}

var animalEmojis = []string{
	"🐶", "🐱", "🐭", "🐰", "🦊", "🐻", "🐼", "🐨", "🦁", "🐯",
	"🐮", "🐷", "🐸", "🐵", "🦄", "🐝", "🦋", "🐢", "🐍", "🦎",
	"🦀", "🐙", "🦈", "🐬", "🐳",
}

var fruitEmojis = []string{
	"🍎", "🍊", "🍋", "🍌", "🍉", "🍇", "🍓", "🍑", "🍍", "🥭", "🍒", "🥝",
}

var objectEmojis = []string{
	"⭐", "❤️", "🔥", "💧", "🌈", "☀️", "🌙", "⚡", "🎵", "🎈",
}

var emojiSets = [][]string{animalEmojis, fruitEmojis, objectEmojis}

// Generate returns a challenge of the requested kind. Unknown kinds fall
// back to button.
func Generate(kind string) *Challenge {
	switch kind {
	case model.VerificationMath:
		return generateMath("easy")
	case model.VerificationEmoji:
		return generateEmoji()
	case model.VerificationPortal:
		return generatePortal()
	default:
		return generateButton()
	}
}

func generateButton() *Challenge {
	return &Challenge{
		Type:   model.VerificationButton,
		Answer: ButtonAnswer,
	}
}

// generateMath builds an arithmetic puzzle with 4 choices. Difficulty "easy"
// uses addition and subtraction on 1..10; "hard" adds multiplication on
// 2..12. Operands are swapped when needed so subtraction never goes
// negative.
func generateMath(difficulty string) *Challenge {
	var a, b int
	var op string
	if difficulty == "hard" {
		a = 2 + rand.Intn(11)
		b = 2 + rand.Intn(11)
		op = []string{"+", "-", "×"}[rand.Intn(3)]
	} else {
		a = 1 + rand.Intn(10)
		b = 1 + rand.Intn(10)
		op = []string{"+", "-"}[rand.Intn(2)]
	}
	if op == "-" && b > a {
		a, b = b, a
	}
	var answer int
	switch op {
	case "+":
		answer = a + b
	case "-":
		answer = a - b
	case "×":
		answer = a * b
	}
	return &Challenge{
		Type:     model.VerificationMath,
		Question: fmt.Sprintf("%v %v %v", a, op, b),
		Answer:   strconv.Itoa(answer),
		Options:  mathOptions(answer),
	}
}

// mathOptions returns the correct answer plus 3 distinct non-negative
// distractors within ±5, shuffled.
func mathOptions(answer int) []string {
	options := []string{strconv.Itoa(answer)}
	seen := map[string]bool{options[0]: true}
	for len(options) < 4 {
		offset := (1 + rand.Intn(5)) * []int{-1, 1}[rand.Intn(2)]
		wrong := answer + offset
		s := strconv.Itoa(wrong)
		if wrong < 0 || seen[s] {
			continue
		}
		seen[s] = true
		options = append(options, s)
	}
	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

func generateEmoji() *Challenge {
	set := emojiSets[rand.Intn(len(emojiSets))]
	picked := rand.Perm(len(set))[:4]
	correct := set[picked[0]]
	options := make([]string, 0, 4)
	for _, i := range picked {
		options = append(options, set[i])
	}
	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return &Challenge{
		Type:     model.VerificationEmoji,
		Question: correct,
		Answer:   correct,
		Options:  options,
	}
}

func generatePortal() *Challenge {
	token, err := gonanoid.Generate(portalTokenAlphabet, portalTokenLength)
	if err != nil {
		// gonanoid only fails when the system entropy source does;
		// the process cannot meaningfully continue without one
		panic(err)
	}
	return &Challenge{
		Type:   model.VerificationPortal,
		Answer: token,
	}
}

// VerifyAnswer reports whether the submitted answer solves a challenge of
// the given kind. Button accepts only the literal token; portal tokens are
// opaque secrets compared exactly; everything else is trimmed and
// case-folded first.
func VerifyAnswer(kind, expected, submitted string) bool {
	switch kind {
	case model.VerificationButton:
		return submitted == ButtonAnswer
	case model.VerificationPortal:
		return submitted == expected
	default:
		return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(expected))
	}
}

// Verify reports whether the submitted answer solves the challenge.
func Verify(c *Challenge, submitted string) bool {
	return VerifyAnswer(c.Type, c.Answer, submitted)
}
