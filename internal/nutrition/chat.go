package nutrition

import (
	"github.com/phrazzld/nutri-api/internal/flow"
	"github.com/phrazzld/nutri-api/internal/generation"
	"github.com/phrazzld/nutri-api/internal/prompt"
	"github.com/phrazzld/nutri-api/internal/schema"
)

var chatTurn = schema.Object(
	schema.Required("role", schema.Enum(string(generation.RoleUser), string(generation.RoleModel))),
	schema.Required("text", schema.String()),
)

var chatInput = schema.Object(
	schema.Required("userMessage", schema.String().WithMinLength(1)),
	schema.Optional("chatHistory", schema.Array(chatTurn)),
)

var chatOutput = schema.Object(
	schema.Required("aiResponse", schema.String()),
)

var chatTemplate = prompt.MustParse(FlowChat, `{{userMessage}}`)

const chatSystem = `You are NutriBot, a friendly nutrition assistant. Answer questions about food, nutrition, meal planning and healthy habits in a warm, concise way. You are not a doctor: for medical concerns, suggest consulting a professional.`

// chatHistory converts the chatHistory field into conversation turns.
func chatHistory(in map[string]any) []generation.Message {
	turns := items(in, "chatHistory")
	out := make([]generation.Message, 0, len(turns))
	for _, item := range turns {
		turn, ok := item.(map[string]any)
		if !ok {
			continue
		}
		role, _ := turn["role"].(string)
		text, _ := turn["text"].(string)
		out = append(out, generation.Message{Role: generation.Role(role), Text: text})
	}
	return out
}

func chatDefinition() flow.Definition {
	return flow.Definition{
		Name:        FlowChat,
		Description: "Chat with the nutrition assistant.",
		Input:       chatInput,
		Output:      chatOutput,
		Template:    chatTemplate,
		System:      chatSystem,
		History:     chatHistory,
		Recover: func(error) (map[string]any, bool) {
			return map[string]any{"aiResponse": ChatApology}, true
		},
	}
}
