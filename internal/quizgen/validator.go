package quizgen

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// RepairKind names what the validator did to make the quiz well-formed.
type RepairKind string

const (
	// RepairFill replaced a non-array or empty document with placeholders.
	RepairFill RepairKind = "fill"
	// RepairReplace substituted a placeholder for a malformed element.
	RepairReplace RepairKind = "replace"
	// RepairAnswer pointed an unknown answer at the first option.
	RepairAnswer RepairKind = "answer"
	// RepairPad appended a placeholder to reach the requested count.
	RepairPad RepairKind = "pad"
	// RepairTruncate dropped an element beyond the requested count.
	RepairTruncate RepairKind = "truncate"
)

// Repair records one correction. Index is 0-based.
type Repair struct {
	Kind   RepairKind `json:"kind"`
	Index  int        `json:"index"`
	Reason string     `json:"reason,omitempty"`
}

func (r Repair) String() string {
	if r.Reason == "" {
		return fmt.Sprintf("%s #%d", r.Kind, r.Index+1)
	}
	return fmt.Sprintf("%s #%d: %s", r.Kind, r.Index+1, r.Reason)
}

// Validate turns a parsed document into a quiz of exactly n questions,
// repairing or substituting anything malformed. It never fails.
func Validate(doc gjson.Result, n int) (Quiz, []Repair) {
	if n < 1 {
		return Quiz{}, nil
	}

	var repairs []Repair

	if !doc.IsArray() || len(doc.Array()) == 0 {
		reason := "empty array"
		if !doc.IsArray() {
			reason = fmt.Sprintf("expected array, got %s", kindOf(doc))
		}
		for i := 0; i < n; i++ {
			repairs = append(repairs, Repair{Kind: RepairFill, Index: i, Reason: reason})
		}
		return PlaceholderQuiz(n), repairs
	}

	elems := doc.Array()
	quiz := make(Quiz, 0, max(n, len(elems)))

	for i, el := range elems {
		q, r := validateElement(el, i)
		quiz = append(quiz, q)
		if r != nil {
			repairs = append(repairs, *r)
		}
	}

	for len(quiz) < n {
		repairs = append(repairs, Repair{Kind: RepairPad, Index: len(quiz)})
		quiz = append(quiz, Placeholder(len(quiz)+1))
	}

	for i := n; i < len(quiz); i++ {
		repairs = append(repairs, Repair{Kind: RepairTruncate, Index: i})
	}
	return quiz[:n], repairs
}

func validateElement(el gjson.Result, i int) (Question, *Repair) {
	if !el.IsObject() {
		return Placeholder(i + 1), &Repair{Kind: RepairReplace, Index: i, Reason: "not an object"}
	}
	if err := checkElement(el.Raw); err != nil {
		return Placeholder(i + 1), &Repair{Kind: RepairReplace, Index: i, Reason: err.Error()}
	}

	q := Question{
		Question:    el.Get("question").String(),
		Options:     optionsFrom(el.Get("options")),
		Explanation: el.Get("explanation").String(),
	}

	ans := el.Get("answer")
	if ans.Type == gjson.String && q.Options.Has(ans.Str) {
		q.Answer = ans.Str
		return q, nil
	}

	q.Answer = q.Options[0].Key
	return q, &Repair{
		Kind:   RepairAnswer,
		Index:  i,
		Reason: fmt.Sprintf("answer %s not among options %v", ans.Raw, q.Options.Keys()),
	}
}

func kindOf(r gjson.Result) string {
	switch {
	case !r.Exists():
		return "nothing"
	case r.IsObject():
		return "object"
	default:
		return r.Type.String()
	}
}
