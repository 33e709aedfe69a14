package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"rentchat/internal/model"
	"rentchat/internal/prompt"
	"rentchat/internal/repository"
)

// replyHistoryWindow bounds how many trailing history messages accompany the
// final reply-synthesis call.
const replyHistoryWindow = 10

const (
	emptyInputReply = "您好，我没有听清楚，可以再说一遍吗？"
	resetReply      = "好的，我们重新开始吧！请告诉我您想找什么样的房子～"
	busyReplyFormat = "抱歉，客服系统暂时出现异常，请稍后再试。（错误信息：%v）"
)

// DefaultResetKeywords clear the conversation back to the greeting.
var DefaultResetKeywords = []string{"清空", "重置", "重新开始", "reset", "clear"}

// ChatService drives one conversation turn end to end: intent extraction,
// conditional catalog retrieval, grounded reply synthesis and history upkeep.
//
// The store may be nil; a missing store behaves exactly like a turn that
// needed no retrieval.
type ChatService struct {
	llm           LLMClient
	parser        *QueryParser
	store         repository.HouseStore
	prompts       *prompt.Renderer
	logger        *zap.Logger
	resetKeywords map[string]struct{}
}

// NewChatService wires the chat pipeline. An empty keyword list falls back
// to DefaultResetKeywords.
func NewChatService(
	llm LLMClient,
	parser *QueryParser,
	store repository.HouseStore,
	prompts *prompt.Renderer,
	resetKeywords []string,
	logger *zap.Logger,
) *ChatService {
	if len(resetKeywords) == 0 {
		resetKeywords = DefaultResetKeywords
	}
	keywords := make(map[string]struct{}, len(resetKeywords))
	for _, kw := range resetKeywords {
		keywords[strings.ToLower(strings.TrimSpace(kw))] = struct{}{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		llm:           llm,
		parser:        parser,
		store:         store,
		prompts:       prompts,
		logger:        logger,
		resetKeywords: keywords,
	}
}

// HandleChat processes one user turn and returns the reply text.
//
// History is only mutated after a fully successful turn: the user and
// assistant messages are appended as a pair, so a failed generation leaves
// the conversation exactly as it was and the turn can simply be retried.
// The returned error is reserved for configuration defects (missing prompt
// template); every data-dependent failure resolves to displayable text.
func (s *ChatService) HandleChat(ctx context.Context, conv *Conversation, input string) (string, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return emptyInputReply, nil
	}

	if _, ok := s.resetKeywords[strings.ToLower(text)]; ok {
		conv.Reset()
		s.logger.Info("conversation reset", zap.String("session_id", conv.ID()))
		return resetReply, nil
	}

	history := conv.History()
	query := s.parser.Parse(ctx, history, text)

	var houses []model.House
	searched := false
	if query.SearchIntent && s.store != nil {
		searched = true
		found, err := s.store.QueryHouses(ctx, query)
		if err != nil {
			// Retrieval is best-effort: a store failure reads the same as
			// "searched and found nothing".
			s.logger.Warn("catalog query failed, continuing without listings", zap.Error(err))
		} else {
			houses = found
		}
	}

	systemPrompt, err := s.prompts.Render(prompt.SystemChat, prompt.SystemChatData{
		Searched: searched,
		Context:  renderHouseContext(houses),
	})
	if err != nil {
		return "", fmt.Errorf("render system prompt: %w", err)
	}

	messages := buildReplyMessages(systemPrompt, history, text)
	reply, err := s.llm.GenerateReply(ctx, messages)
	if err != nil {
		s.logger.Error("reply generation failed",
			zap.String("session_id", conv.ID()),
			zap.Error(err),
		)
		return fmt.Sprintf(busyReplyFormat, err), nil
	}

	conv.appendTurn(text, reply)
	s.logger.Info("turn completed",
		zap.String("session_id", conv.ID()),
		zap.Bool("searched", searched),
		zap.Int("listings", len(houses)),
	)
	return reply, nil
}

// buildReplyMessages assembles system instruction + trailing history window
// + the current user input.
func buildReplyMessages(systemPrompt string, history []model.ChatMessage, input string) []model.ChatMessage {
	if len(history) > replyHistoryWindow {
		history = history[len(history)-replyHistoryWindow:]
	}
	messages := make([]model.ChatMessage, 0, len(history)+2)
	messages = append(messages, model.ChatMessage{Role: model.RoleSystem, Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, model.ChatMessage{Role: model.RoleUser, Content: input})
	return messages
}

// renderHouseContext formats retrieved listings as one line each for the
// reply prompt. Returns "" when there is nothing to show.
func renderHouseContext(houses []model.House) string {
	if len(houses) == 0 {
		return ""
	}
	lines := make([]string, 0, len(houses))
	for i, h := range houses {
		price := "未知"
		if h.Price != nil {
			price = fmt.Sprintf("%d元/月", *h.Price)
		}
		lines = append(lines, fmt.Sprintf(
			"%d. 区域：%s | 位置：%s | 户型：%s | 价格：%s | 亮点：%s",
			i+1, h.Area, h.Location, h.Type, price, h.Desc,
		))
	}
	return strings.Join(lines, "\n")
}
