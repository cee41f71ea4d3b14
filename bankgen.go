package passquiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	submitQuestionsTool = "submit_questions"
	maxGenerationRounds = 10
)

// BankGenerator builds question banks using GPT-4o
type BankGenerator struct {
	client *openai.Client
	model  string
}

// NewBankGenerator creates a new bank generator with OpenAI client
func NewBankGenerator(apiKey string) *BankGenerator {
	return NewBankGeneratorWithClient(openai.NewClient(apiKey))
}

// NewBankGeneratorWithClient creates a bank generator over an existing client
func NewBankGeneratorWithClient(client *openai.Client) *BankGenerator {
	return &BankGenerator{
		client: client,
		model:  openai.GPT4o,
	}
}

// GenerateBank keeps requesting batches until it holds req.NumQuestions valid,
// distinct questions, numbered from 1.
func (bg *BankGenerator) GenerateBank(ctx context.Context, req GenerationRequest) ([]Question, error) {
	if req.Topic == "" {
		return nil, errors.New("topic is required")
	}
	if req.NumQuestions <= 0 {
		return nil, fmt.Errorf("number of questions must be positive, got %d", req.NumQuestions)
	}

	log.Printf("Starting bank generation for topic: %s, target questions: %d", req.Topic, req.NumQuestions)

	accepted := make([]Question, 0, req.NumQuestions)
	seen := make(map[string]bool)
	batchSize := min(req.NumQuestions, 5)

	for round := 1; len(accepted) < req.NumQuestions; round++ {
		if round > maxGenerationRounds {
			return nil, fmt.Errorf("gave up after %d rounds with %d of %d questions", maxGenerationRounds, len(accepted), req.NumQuestions)
		}

		batch, err := bg.GenerateQuestions(ctx, req, batchSize)
		if err != nil {
			return nil, err
		}

		added := 0
		for _, q := range batch {
			if len(accepted) == req.NumQuestions {
				break
			}
			key := normalizeQuestionText(q.Question)
			if seen[key] {
				VerboseLog("Dropping duplicate question: %s", q.Question)
				continue
			}
			if err := ValidateQuestion(q); err != nil {
				VerboseLog("Dropping invalid question: %v", err)
				continue
			}
			seen[key] = true
			q.ID = len(accepted) + 1
			accepted = append(accepted, q)
			added++
		}

		log.Printf("Round %d: accepted %d of %d generated questions (%d/%d total)", round, added, len(batch), len(accepted), req.NumQuestions)

		// If we're not making progress, increase batch size
		if added == 0 {
			batchSize = min(batchSize+2, 10)
			VerboseLog("No questions accepted, increasing batch size to %d", batchSize)
		}
	}

	return accepted, nil
}

// GenerateQuestions requests one batch of questions for the given topic
func (bg *BankGenerator) GenerateQuestions(ctx context.Context, req GenerationRequest, batchSize int) ([]Question, error) {
	VerboseLog("Generating %d questions for topic: %s", batchSize, req.Topic)

	resp, err := bg.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: bg.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are an expert quiz question generator. Generate high-quality multiple choice questions with exactly 4 options each.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: buildBankPrompt(req, batchSize),
				},
			},
			Tools: []openai.Tool{
				{
					Type: openai.ToolTypeFunction,
					Function: &openai.FunctionDefinition{
						Name:        submitQuestionsTool,
						Description: "Submit generated quiz questions",
						Parameters: map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"questions": map[string]interface{}{
									"type": "array",
									"items": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"category": map[string]interface{}{
												"type":        "string",
												"description": "Short category label, e.g. Science or History",
											},
											"question": map[string]interface{}{
												"type":        "string",
												"description": "The question text",
											},
											"options": map[string]interface{}{
												"type": "array",
												"items": map[string]interface{}{
													"type": "string",
												},
												"description": "Array of 4 multiple choice options",
											},
											"correct_index": map[string]interface{}{
												"type":        "integer",
												"description": "0-based index of the correct option",
											},
										},
										"required": []string{"category", "question", "options", "correct_index"},
									},
								},
							},
							"required": []string{"questions"},
						},
					},
				},
			},
			ToolChoice: openai.ToolChoice{
				Type: openai.ToolTypeFunction,
				Function: openai.ToolFunction{
					Name: submitQuestionsTool,
				},
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate questions: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from %s", bg.model)
	}

	choice := resp.Choices[0]
	if len(choice.Message.ToolCalls) == 0 {
		return nil, fmt.Errorf("no tool calls in response")
	}

	toolCall := choice.Message.ToolCalls[0]
	if toolCall.Function.Name != submitQuestionsTool {
		return nil, fmt.Errorf("unexpected tool call: %s", toolCall.Function.Name)
	}

	return parseQuestionArguments(toolCall.Function.Arguments)
}

// parseQuestionArguments decodes submit_questions tool arguments. IDs are left zero.
func parseQuestionArguments(arguments string) ([]Question, error) {
	var toolArgs struct {
		Questions []struct {
			Category     string   `json:"category"`
			Question     string   `json:"question"`
			Options      []string `json:"options"`
			CorrectIndex int      `json:"correct_index"`
		} `json:"questions"`
	}

	if err := json.Unmarshal([]byte(arguments), &toolArgs); err != nil {
		return nil, fmt.Errorf("failed to parse tool arguments: %w", err)
	}

	questions := make([]Question, 0, len(toolArgs.Questions))
	for _, q := range toolArgs.Questions {
		questions = append(questions, Question{
			Category:     strings.TrimSpace(q.Category),
			Question:     strings.TrimSpace(q.Question),
			Options:      q.Options,
			CorrectIndex: q.CorrectIndex,
		})
	}
	return questions, nil
}

func buildBankPrompt(req GenerationRequest, batchSize int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Generate %d multiple choice questions about: %s\n\n", batchSize, req.Topic))

	if req.SourceMaterial != "" {
		sb.WriteString("Use the following source material as reference:\n")
		sb.WriteString(req.SourceMaterial)
		sb.WriteString("\n\n")
	}

	if req.Difficulty != "" {
		sb.WriteString(fmt.Sprintf("Difficulty level: %s\n\n", req.Difficulty))
	}

	sb.WriteString("Requirements:\n")
	sb.WriteString("- Each question must have exactly 4 multiple choice options\n")
	sb.WriteString("- Give every question a short category label\n")
	sb.WriteString("- Incorrect options should be plausible but clearly wrong\n")
	sb.WriteString("- Avoid questions where the answer is given away in the question text\n")
	sb.WriteString("- Use the submit_questions tool to return your questions\n")

	return sb.String()
}

func normalizeQuestionText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
