package quizgen

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestOptionsKeepDocumentOrder(t *testing.T) {
	var q Question
	src := `{"question":"Q","options":{"D":"d","A":"a","C":"c","B":"b"},"answer":"C","explanation":"e"}`
	if err := json.Unmarshal([]byte(src), &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got, want := q.Options.Keys(), []string{"D", "A", "C", "B"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}

	out, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != src {
		t.Errorf("Marshal() = %s, want %s", out, src)
	}
}

func TestOptionsMarshalOddKeys(t *testing.T) {
	in := Options{
		{Key: "1", Text: "um"},
		{Key: "a.b", Text: `diz "oi"`},
		{Key: "x|y*", Text: "Ação"},
		{Key: "B", Text: "b"},
	}
	out, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !json.Valid(out) {
		t.Fatalf("invalid JSON %s", out)
	}

	var back Options
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal %s: %v", out, err)
	}
	if !reflect.DeepEqual(back, in) {
		t.Errorf("got %v, want %v (from %s)", back, in, out)
	}

	empty, err := json.Marshal(Options(nil))
	if err != nil || string(empty) != "{}" {
		t.Errorf("Marshal(nil) = %s, %v", empty, err)
	}
}

func TestOptionsDuplicateKeys(t *testing.T) {
	var o Options
	if err := json.Unmarshal([]byte(`{"A":"first","B":"b","A":"last"}`), &o); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(o) != 2 {
		t.Fatalf("expected 2 options, got %v", o)
	}
	if o[0].Key != "A" || o[0].Text != "last" {
		t.Errorf("duplicate key should keep first position and last value, got %v", o[0])
	}
}

func TestOptionsRejectNonObject(t *testing.T) {
	var o Options
	if err := json.Unmarshal([]byte(`["a","b"]`), &o); err == nil {
		t.Error("expected error for array options")
	}
}

func TestQuestionHelpers(t *testing.T) {
	q := Placeholder(1)
	if !q.IsCorrect("A") || q.IsCorrect("B") {
		t.Error("placeholder answer is A")
	}
	if q.AnswerText() != "Opção A" {
		t.Errorf("AnswerText() = %q", q.AnswerText())
	}

	quiz := Quiz{q, {Question: "real", Options: Options{{Key: "A", Text: "x"}}, Answer: "A"}}
	if quiz.Placeholders() != 1 || quiz.AllPlaceholders() {
		t.Errorf("Placeholders() = %d, AllPlaceholders() = %v", quiz.Placeholders(), quiz.AllPlaceholders())
	}
	if !PlaceholderQuiz(2).AllPlaceholders() {
		t.Error("PlaceholderQuiz should be all placeholders")
	}
	if Quiz(nil).AllPlaceholders() {
		t.Error("empty quiz has no placeholders")
	}
}

func TestConfigClampAndTopic(t *testing.T) {
	cfg := DefaultConfig()
	for in, want := range map[int]int{-3: 1, 0: 1, 1: 1, 7: 7, 10: 10, 11: 10, 500: 10} {
		if got := cfg.ClampCount(in); got != want {
			t.Errorf("ClampCount(%d) = %d, want %d", in, got, want)
		}
	}
	if got := cfg.ResolveTopic("  Redes  "); got != "Redes" {
		t.Errorf("ResolveTopic trimmed = %q", got)
	}
	if got := cfg.ResolveTopic(" \t "); got != DefaultTopic {
		t.Errorf("ResolveTopic blank = %q", got)
	}
	if got := (Config{}).ClampCount(50); got != 10 {
		t.Errorf("zero Config should cap at 10, got %d", got)
	}
}
