package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"netbot/internal/domain"
	"netbot/internal/tool"
)

const (
	defaultMaxIterations = 10
	defaultLLMMaxTokens  = 4096
	defaultTemperature   = 0.2
	defaultConcurrency   = 3
)

// Loop is the core agent engine: receive message, call the LLM, execute
// tool calls, respond.
type Loop struct {
	provider      domain.Provider
	prompt        *PromptBuilder
	tools         *tool.Registry
	bus           domain.MessageBus
	logger        *slog.Logger
	maxIterations int
	concurrency   int
}

// LoopConfig holds the dependencies and tuning parameters for the loop.
type LoopConfig struct {
	Provider      domain.Provider
	Prompt        *PromptBuilder
	Tools         *tool.Registry
	Bus           domain.MessageBus
	Logger        *slog.Logger
	MaxIterations int
	Concurrency   int // max parallel messages
}

func NewLoop(cfg LoopConfig) *Loop {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = defaultMaxIterations
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return &Loop{
		provider:      cfg.Provider,
		prompt:        cfg.Prompt,
		tools:         cfg.Tools,
		bus:           cfg.Bus,
		logger:        cfg.Logger,
		maxIterations: cfg.MaxIterations,
		concurrency:   cfg.Concurrency,
	}
}

// Run consumes inbound messages and processes them with bounded concurrency.
func (l *Loop) Run(ctx context.Context) {
	l.logger.Info("agent loop started", "concurrency", l.concurrency)

	sem := make(chan struct{}, l.concurrency)
	inbound := l.bus.Subscribe()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("agent loop stopping")
			return
		case msg, ok := <-inbound:
			if !ok {
				l.logger.Info("inbound channel closed, agent loop stopping")
				return
			}
			sem <- struct{}{}
			go func(m domain.InboundMessage) {
				defer func() { <-sem }()
				l.processMessage(ctx, m)
			}(msg)
		}
	}
}

// ProcessDirect processes a message synchronously and returns the response.
// Used by one-shot CLI callers that need a blocking reply.
func (l *Loop) ProcessDirect(ctx context.Context, content string) (string, error) {
	return l.handleMessage(ctx, domain.InboundMessage{
		Channel:   "direct",
		ChatID:    "direct",
		SenderID:  "user",
		Content:   content,
		Timestamp: time.Now(),
	})
}

// processMessage handles one inbound message and sends the response back
// through the message bus.
func (l *Loop) processMessage(ctx context.Context, msg domain.InboundMessage) {
	l.logger.Info("processing message",
		"channel", msg.Channel,
		"sender", msg.SenderID,
		"content_len", len(msg.Content),
	)

	response, err := l.handleMessage(ctx, msg)
	if err != nil {
		l.logger.Error("message processing failed", "err", err)
		response = fmt.Sprintf("Sorry, I encountered an error: %s", err.Error())
	}

	l.bus.SendOutbound(domain.OutboundMessage{
		Channel: msg.Channel,
		ChatID:  msg.ChatID,
		Content: response,
		Format:  "markdown",
	})
}

// handleMessage is the main agent logic: build prompt, call the LLM, loop
// on tool calls, return the final text.
func (l *Loop) handleMessage(ctx context.Context, msg domain.InboundMessage) (string, error) {
	messages := l.prompt.BuildMessages(msg.Content)
	toolDefs := l.tools.Definitions()

	var finalContent string
	for iteration := 0; iteration < l.maxIterations; iteration++ {
		l.logger.Debug("agent iteration", "iteration", iteration+1, "messages", len(messages))

		startTime := time.Now()
		resp, err := l.provider.Chat(ctx, domain.ChatRequest{
			Messages:    messages,
			Tools:       toolDefs,
			MaxTokens:   defaultLLMMaxTokens,
			Temperature: defaultTemperature,
		})
		if err != nil {
			return "", fmt.Errorf("LLM error: %w", err)
		}
		l.logger.Debug("LLM response",
			"latency_ms", time.Since(startTime).Milliseconds(),
			"tool_calls", len(resp.ToolCalls),
		)

		if !resp.HasToolCalls() {
			finalContent = resp.Content
			break
		}

		messages = append(messages, domain.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		// Device commands go over one interactive SSH session, so tool
		// calls within a turn run sequentially rather than in parallel.
		for _, tc := range resp.ToolCalls {
			result := l.executeTool(ctx, tc)
			messages = append(messages, domain.Message{
				Role:       "tool",
				Content:    result,
				ToolCallID: tc.ID,
				ToolName:   tc.Name,
			})
		}
	}

	if finalContent == "" {
		finalContent = "I ran out of iterations before reaching a final answer."
	}
	return finalContent, nil
}

// executeTool runs a single tool call. Dispatch failures (an unknown tool
// name hallucinated by the model) are folded into the result string so the
// model sees the failure and can correct itself.
func (l *Loop) executeTool(ctx context.Context, tc domain.ToolCall) string {
	l.logger.Info("executing tool", "tool", tc.Name)

	res := <-l.tools.DispatchAsync(ctx, tc.Name, argumentString(tc))
	if res.Err != nil {
		if errors.Is(res.Err, tool.ErrToolNotFound) {
			l.logger.Warn("model requested unknown tool", "tool", tc.Name)
		}
		return domain.MarkerError + res.Err.Error()
	}

	l.logger.Debug("tool completed", "tool", tc.Name, "result_len", len(res.Output))
	return res.Output
}

// argumentString pulls the single "input" argument out of a tool call.
// Non-string values are formatted rather than dropped.
func argumentString(tc domain.ToolCall) string {
	v, ok := tc.Arguments["input"]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
