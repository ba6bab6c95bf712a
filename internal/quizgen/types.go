package quizgen

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Option is one lettered answer choice.
type Option struct {
	Key  string
	Text string
}

// Options is an ordered set of answer choices. It encodes as a JSON object
// and keeps the key order of the document it was decoded from.
type Options []Option

// Get returns the text of key.
func (o Options) Get(key string) (string, bool) {
	for _, opt := range o {
		if opt.Key == key {
			return opt.Text, true
		}
	}
	return "", false
}

// Has reports whether key is one of the options.
func (o Options) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Keys returns the option keys in order.
func (o Options) Keys() []string {
	keys := make([]string, len(o))
	for i, opt := range o {
		keys[i] = opt.Key
	}
	return keys
}

// set replaces the text of an existing key in place or appends a new one.
// A repeated key in a JSON object keeps its first position and last value.
func (o Options) set(key, text string) Options {
	for i := range o {
		if o[i].Key == key {
			o[i].Text = text
			return o
		}
	}
	return append(o, Option{Key: key, Text: text})
}

// MarshalJSON appends each option as an object member, so keys keep their
// order. Keys are escaped and forced, so "1" or "a.b" stay plain members.
func (o Options) MarshalJSON() ([]byte, error) {
	out := []byte("{}")
	for _, opt := range o {
		var err error
		out, err = sjson.SetBytes(out, ":"+gjson.Escape(opt.Key), opt.Text)
		if err != nil {
			return nil, fmt.Errorf("options: set %q: %w", opt.Key, err)
		}
	}
	return out, nil
}

func (o *Options) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("options: invalid JSON")
	}
	res := gjson.ParseBytes(data)
	if res.Type == gjson.Null {
		*o = nil
		return nil
	}
	if !res.IsObject() {
		return fmt.Errorf("options: expected object, got %s", res.Type)
	}
	*o = optionsFrom(res)
	return nil
}

// optionsFrom collects the members of a JSON object in document order.
func optionsFrom(obj gjson.Result) Options {
	var out Options
	obj.ForEach(func(k, v gjson.Result) bool {
		out = out.set(k.String(), v.String())
		return true
	})
	return out
}

// Question is one multiple-choice question.
type Question struct {
	Question    string  `json:"question"`
	Options     Options `json:"options"`
	Answer      string  `json:"answer"`
	Explanation string  `json:"explanation"`

	// Placeholder marks questions substituted for missing or broken content.
	Placeholder bool `json:"placeholder,omitempty"`
}

// IsCorrect reports whether choice is the right answer.
func (q Question) IsCorrect(choice string) bool {
	return choice == q.Answer
}

// AnswerText returns the text of the correct option.
func (q Question) AnswerText() string {
	t, _ := q.Options.Get(q.Answer)
	return t
}

// Quiz is an ordered list of questions.
type Quiz []Question

// Placeholders counts substituted questions.
func (q Quiz) Placeholders() int {
	n := 0
	for _, qq := range q {
		if qq.Placeholder {
			n++
		}
	}
	return n
}

// AllPlaceholders reports whether no question came from the model.
func (q Quiz) AllPlaceholders() bool {
	return len(q) > 0 && q.Placeholders() == len(q)
}
