package quizgen

import "fmt"

const placeholderExplanation = "Esta é uma questão de exemplo criada devido a um erro na geração da questão original."

// Placeholder returns the stand-in question for 1-based position i.
func Placeholder(i int) Question {
	return Question{
		Question: fmt.Sprintf("Questão exemplo %d (houve um erro ao gerar a questão real)", i),
		Options: Options{
			{Key: "A", Text: "Opção A"},
			{Key: "B", Text: "Opção B"},
			{Key: "C", Text: "Opção C"},
			{Key: "D", Text: "Opção D"},
		},
		Answer:      "A",
		Explanation: placeholderExplanation,
		Placeholder: true,
	}
}

// PlaceholderQuiz returns n placeholders numbered 1..n.
func PlaceholderQuiz(n int) Quiz {
	q := make(Quiz, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		q = append(q, Placeholder(i))
	}
	return q
}
