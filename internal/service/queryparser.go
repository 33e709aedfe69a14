package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"rentchat/internal/model"
)

// nluHistoryWindow bounds how many trailing history messages are rendered
// into the extraction prompt.
const nluHistoryWindow = 6

const schemaDescription = `你需要根据下面的 Schema 填充一个 JSON 对象（不要多字段）：

HouseSearchQuery = {
  "search_intent": boolean,   // 用户此轮是否在表达找房 / 问房源的意图
  "area": string | null,      // 当前有效的目标区域，例如 "南山"、"福田"；不知道时填 null
  "max_price": integer | null // 预算上限（元/月），无法确定时填 null
}`

// QueryParser is the NLU component: it turns dialogue history plus the
// current input into a HouseSearchQuery via a single LLM call.
//
// Cross-turn slot merging is delegated to the model: the prompt instructs it
// to maintain the complete current search state, inheriting slots the user
// has not changed this turn and resetting a slot only on explicit negation.
type QueryParser struct {
	client LLMClient
	logger *zap.Logger
}

// NewQueryParser creates a new query parser
func NewQueryParser(client LLMClient, logger *zap.Logger) *QueryParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryParser{client: client, logger: logger}
}

// Parse extracts the structured search intent for the current turn. It never
// fails: blank input short-circuits to the all-defaults query without calling
// the model, and any gateway or parse failure degrades to the same default
// with a logged diagnostic. The chat flow must not abort because intent
// extraction went wrong.
func (p *QueryParser) Parse(ctx context.Context, history []model.ChatMessage, currentInput string) model.HouseSearchQuery {
	text := strings.TrimSpace(currentInput)
	if text == "" {
		p.logger.Info("empty input, returning default query")
		return model.HouseSearchQuery{}
	}

	prompt := buildExtractionPrompt(history, text)
	p.logger.Debug("NLU prompt built",
		zap.Int("history_len", len(history)),
		zap.Int("prompt_len", len(prompt)),
	)

	raw, err := p.client.GenerateReply(ctx, []model.ChatMessage{
		{Role: model.RoleUser, Content: prompt},
	})
	if err != nil {
		p.logger.Warn("intent extraction call failed, falling back to default query", zap.Error(err))
		return model.HouseSearchQuery{}
	}

	query := model.ParseHouseSearchQuery(raw)
	p.logger.Info("structured query parsed",
		zap.Bool("search_intent", query.SearchIntent),
		zap.Stringp("area", query.Area),
		zap.Intp("max_price", query.MaxPrice),
	)
	return query
}

// buildExtractionPrompt renders the instruction, the trailing history window
// as "role: content" lines, and the current input into one user message.
func buildExtractionPrompt(history []model.ChatMessage, currentInput string) string {
	if len(history) > nluHistoryWindow {
		history = history[len(history)-nluHistoryWindow:]
	}
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Role, msg.Content))
	}

	return fmt.Sprintf(`你是一个【租房需求状态追踪器】。
你的目标是**根据 Schema HouseSearchQuery 输出一个 JSON 对象**，用于驱动后端数据库检索。

请严格按照以下规则工作：

1. 你只负责填充 HouseSearchQuery，不负责生成自然语言回复。
2. 合并对话历史和本轮输入，维护**当前时刻的完整搜索条件**：
   - 继承历史：历史中已经确定的条件（如区域、预算）在用户未修改时必须保留。
   - 增量更新：用户只说“太贵了”“换到福田”表示只更新预算或区域。
   - 重置：用户说“不限区域”“随便看看其他区”时，将 area 设为 null。
3. 只输出一个 JSON，对应 HouseSearchQuery，**不要添加解释文字**。

%s

对话历史（最多 %d 条）：
%s

用户最新输入：
%s

现在请**只输出 HouseSearchQuery 对应的 JSON**：`,
		schemaDescription, nluHistoryWindow, strings.Join(lines, "\n"), currentInput)
}
