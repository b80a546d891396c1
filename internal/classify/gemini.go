package classify

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"zelapb/api/internal/store"
)

const DefaultModel = "gemini-2.5-flash"

// Gemini classifies reports and drafts configuration changes with the
// Gemini API, asking for JSON that follows a response schema.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"category": {
			Type:        genai.TypeString,
			Description: "The best category for the urban issue (e.g., Limpeza Urbana, Infraestrutura, Iluminação, Jardinagem).",
		},
		"priority": {
			Type:        genai.TypeString,
			Enum:        []string{string(store.PriorityLow), string(store.PriorityMedium), string(store.PriorityHigh)},
			Description: "The urgency of the issue based on safety and sanitation risks.",
		},
		"summary": {
			Type:        genai.TypeString,
			Description: "A very short, professional title for the issue (max 5 words).",
		},
	},
	Required: []string{"category", "priority", "summary"},
}

var configSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"appName":            {Type: genai.TypeString},
		"appSlogan":          {Type: genai.TypeString},
		"version":            {Type: genai.TypeString},
		"maintenanceMode":    {Type: genai.TypeBoolean},
		"allowRegistrations": {Type: genai.TypeBoolean},
		"primaryColorName":   {Type: genai.TypeString},
	},
	Required: []string{"appName", "appSlogan", "version", "maintenanceMode", "allowRegistrations", "primaryColorName"},
}

func (g *Gemini) Classify(ctx context.Context, description string) (Analysis, error) {
	prompt := fmt.Sprintf("Analyze this urban maintenance report from a citizen: %q. Classify it responsibly.", description)
	text, err := g.generate(ctx, prompt, analysisSchema,
		"You are an assistant for a smart city management platform called ZelaPB. Your job is to categorize urban issues.")
	if err != nil {
		return Analysis{}, err
	}
	return ParseAnalysis(text)
}

func (g *Gemini) GenerateConfig(ctx context.Context, current store.SystemConfig, command string) (store.SystemConfig, error) {
	state, err := json.Marshal(current)
	if err != nil {
		return current, fmt.Errorf("marshal current config: %w", err)
	}
	prompt := fmt.Sprintf("Current System State: %s.\nUser Command: %q.\n"+
		"Update the configuration based on the user's command. Keep values unchanged if not mentioned. Return the full config object.",
		state, command)
	text, err := g.generate(ctx, prompt, configSchema,
		"You are the core system controller (DevOps bot). You interpret natural language commands to update system configuration flags.")
	if err != nil {
		return current, err
	}
	return ParseConfig(current, text)
}

func (g *Gemini) generate(ctx context.Context, prompt string, schema *genai.Schema, instruction string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseMIMEType:  "application/json",
			ResponseSchema:    schema,
			SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
		})
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
