// Package agent runs the conversation loop between LLM providers and the
// device tools.
package agent

import (
	"fmt"
	"strings"

	"netbot/internal/device"
	"netbot/internal/domain"
)

// PromptBuilder assembles the message list sent to the provider.
type PromptBuilder struct {
	device device.Params
}

func NewPromptBuilder(params device.Params) *PromptBuilder {
	return &PromptBuilder{device: params}
}

// SystemPrompt describes the managed device and the ground rules for
// tool use. The device host is included so the model never has to ask
// which device it is talking to.
func (p *PromptBuilder) SystemPrompt() string {
	var b strings.Builder
	b.WriteString("You are netbot, a network operations assistant. ")
	fmt.Fprintf(&b, "You manage a single %s device at %s over SSH.\n\n", p.device.DeviceType, p.device.Host)
	b.WriteString("Rules:\n")
	b.WriteString("- Use the provided tools to inspect or change the device. Never invent command output.\n")
	b.WriteString("- Tool results starting with [ERROR] describe a failure; report it to the user instead of retrying blindly.\n")
	b.WriteString("- Tool results starting with [SKIP] mean the device was already in the requested state.\n")
	b.WriteString("- Answer concisely and include relevant output verbatim when the user asks for raw data.\n")
	return b.String()
}

// BuildMessages returns the system prompt followed by the user message.
func (p *PromptBuilder) BuildMessages(userContent string) []domain.Message {
	return []domain.Message{
		{Role: "system", Content: p.SystemPrompt()},
		{Role: "user", Content: userContent},
	}
}
