package gemini

import "fmt"

const promptTemplate = `Ты помогаешь человеку отредактировать сообщение, которое он отправляет через контактную форму в службу поддержки компании.

Перепиши сообщение так, чтобы оно было профессиональным и понятным, сохранив исходный смысл и намерение автора. Исправь грамматические и орфографические ошибки. Тон должен быть вежливым, но без лишней официальности. Пиши от первого лица, как автор сообщения.

Сообщение автора: %s

В ответе верни только переписанный текст сообщения, без комментариев и пояснений.`

// BuildPrompt renders the rewrite instruction for a user message.
func BuildPrompt(message string) string {
	return fmt.Sprintf(promptTemplate, message)
}
