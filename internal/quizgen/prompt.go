package quizgen

import (
	"fmt"
	"strings"
)

const systemPrompt = "Você é um assistente útil que gera questões de múltipla escolha em formato JSON puro. " +
	"Não inclua explicações ou texto fora do JSON."

// buildUserMessage asks for exactly n questions on topic.
func buildUserMessage(topic string, n int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Gere %d questões de múltipla escolha sobre o tópico '%s'. ", n, topic)
	b.WriteString("Para cada questão, forneça: ")
	b.WriteString("1. A pergunta clara e objetiva ")
	b.WriteString("2. Quatro opções de resposta (A, B, C, D) ")
	b.WriteString("3. A letra da opção correta (A, B, C ou D) ")
	b.WriteString("4. Uma explicação curta da resposta ")
	b.WriteString("Retorne um array JSON onde cada elemento tem as chaves: 'question', 'options' (com opções A, B, C, D), ")
	b.WriteString("'answer' (letra da opção correta), e 'explanation'. ")
	b.WriteString("Todos os textos devem estar em português brasileiro. ")
	b.WriteString("Evite usar caracteres especiais, formatação ou espaços adicionais. ")
	b.WriteString("Forneça apenas o array JSON puro sem texto explicativo adicional.")

	return b.String()
}
