package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
)

// AIService wraps the text-generation backend. Every caller treats results as
// best-effort: an error or unparseable response falls back to a placeholder
// instead of failing the request.
type AIService interface {
	GenerateMatchReason(ctx context.Context, seeker *models.SeekerProfile, coach *models.CoachProfile) (string, error)
	AnalyzeDocument(ctx context.Context, text string, docType string) (json.RawMessage, error)
	GenerateInterviewQuestions(ctx context.Context, jobTitle string, seekerContext string) ([]string, error)
}

const DefaultMatchReason = "This coach's background lines up with your goals."

var defaultInterviewQuestions = []string{
	"Tell me about yourself and what draws you to this role.",
	"Describe a challenge you overcame and what you learned from it.",
	"What strengths would you bring to this position?",
	"How do you prefer to receive feedback and support at work?",
	"Where do you see your career heading over the next few years?",
}

type GeminiAIService struct {
	client    *genai.Client
	modelName string
}

func NewGeminiAIService(ctx context.Context, apiKey, modelName string) (*GeminiAIService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &GeminiAIService{client: client, modelName: modelName}, nil
}

func (s *GeminiAIService) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func (s *GeminiAIService) generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	model := s.client.GenerativeModel(s.modelName)
	if systemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String(), nil
}

func (s *GeminiAIService) GenerateMatchReason(
	ctx context.Context,
	seeker *models.SeekerProfile,
	coach *models.CoachProfile,
) (string, error) {
	prompt := fmt.Sprintf(
		"A job seeker with interests [%s] in industries [%s] is being matched with a career coach "+
			"whose expertise is [%s] in industries [%s]. In two sentences, explain to the seeker why "+
			"this coach is a good fit. Be warm and specific, no markdown.",
		strings.Join(sliceValue(seekerInterests(seeker)), ", "),
		strings.Join(sliceValue(seekerIndustries(seeker)), ", "),
		strings.Join(sliceValue(coach.Expertise), ", "),
		strings.Join(sliceValue(coach.Industries), ", "),
	)

	reason, err := s.generate(ctx, "You write short, encouraging match explanations for a job-coaching platform.", prompt)
	if err != nil {
		return "", err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return DefaultMatchReason, nil
	}
	return reason, nil
}

func (s *GeminiAIService) AnalyzeDocument(ctx context.Context, text string, docType string) (json.RawMessage, error) {
	prompt := fmt.Sprintf(
		"Analyze the following %s for a job seeker. Respond with JSON only, shaped as "+
			`{"summary": string, "strengths": [string], "improvements": [string], "keywords": [string]}. `+
			"Document text:\n\n%s",
		docType, truncateForPrompt(text),
	)

	raw, err := s.generate(ctx, "You are a career-document reviewer. Respond with valid JSON and nothing else.", prompt)
	if err != nil {
		return nil, err
	}

	return coerceAnalysisJSON(raw), nil
}

func (s *GeminiAIService) GenerateInterviewQuestions(
	ctx context.Context,
	jobTitle string,
	seekerContext string,
) ([]string, error) {
	prompt := fmt.Sprintf(
		"Generate 5 interview questions for a candidate applying for %q. Candidate background: %s. "+
			`Respond with a JSON array of strings and nothing else.`,
		jobTitle, seekerContext,
	)

	raw, err := s.generate(ctx, "You prepare candidates for job interviews.", prompt)
	if err != nil {
		return nil, err
	}

	questions := parseQuestionList(raw)
	if len(questions) == 0 {
		return defaultInterviewQuestions, nil
	}
	return questions, nil
}

// coerceAnalysisJSON keeps whatever valid JSON the model produced; anything
// else is wrapped so callers always store a well-formed blob.
func coerceAnalysisJSON(raw string) json.RawMessage {
	cleaned := stripCodeFences(raw)
	if json.Valid([]byte(cleaned)) && cleaned != "" {
		return json.RawMessage(cleaned)
	}

	fallback, _ := json.Marshal(map[string]string{"summary": strings.TrimSpace(raw)})
	return fallback
}

func parseQuestionList(raw string) []string {
	cleaned := stripCodeFences(raw)

	var questions []string
	if err := json.Unmarshal([]byte(cleaned), &questions); err == nil {
		return compactStrings(questions)
	}

	// Fall back to one question per non-empty line.
	lines := strings.Split(cleaned, "\n")
	return compactStrings(lines)
}

func stripCodeFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

func compactStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(value), "-*0123456789. "))
		if value != "" {
			out = append(out, value)
		}
	}
	return out
}

func truncateForPrompt(text string) string {
	const maxPromptChars = 12000
	if len(text) <= maxPromptChars {
		return text
	}
	// Back off to a rune boundary so the cut never splits a multibyte character.
	cut := maxPromptChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

func seekerInterests(seeker *models.SeekerProfile) *[]string {
	if seeker == nil {
		return nil
	}
	return seeker.JobInterests
}

func seekerIndustries(seeker *models.SeekerProfile) *[]string {
	if seeker == nil {
		return nil
	}
	return seeker.PreferredIndustries
}
