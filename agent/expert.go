package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// maxCalls bounds the function calls answered for a single question.
const maxCalls = 8

// ErrTooManyCalls is returned when the model keeps calling functions
// instead of answering.
var ErrTooManyCalls = errors.New("too many function calls")

// chat is the part of a Gemini chat session an Expert relies on.
type chat interface {
	Send(ctx context.Context, parts ...*genai.Part) (*genai.GenerateContentResponse, error)
}

// Expert is a chat session with a model that can call the functions of
// its Library.
type Expert struct {
	Name        string
	Description string
	ModelName   string
	Config      *genai.GenerateContentConfig
	Library     Library
	chat        chat
}

// NewExpert returns an expert without tools, using the default model.
func NewExpert(name, description string) *Expert {
	return &Expert{Name: name, Description: description, ModelName: DefaultModel}
}

// Start opens the chat session.
func (e *Expert) Start(ctx context.Context, client *genai.Client) error {
	c, err := client.Chats.Create(ctx, e.ModelName, e.Config, nil)
	if err != nil {
		return fmt.Errorf("starting chat with %s: %w", e.Name, err)
	}
	e.chat = c
	return nil
}

// Started reports whether the chat session exists.
func (e *Expert) Started() bool { return e.chat != nil }

// Ask sends parts and returns the model's answer. Function calls requested
// by the model are answered from the Library until the model replies with
// content.
func (e *Expert) Ask(ctx context.Context, parts ...*genai.Part) (*genai.Content, error) {
	if e.chat == nil {
		return nil, fmt.Errorf("expert %s is not started", e.Name)
	}
	log := zerolog.Ctx(ctx)
	for range maxCalls + 1 {
		resp, err := e.chat.Send(ctx, parts...)
		if err != nil {
			return nil, err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return nil, fmt.Errorf("no response from expert %s", e.Name)
		}
		content := resp.Candidates[0].Content
		call := content.Parts[0].FunctionCall
		if call == nil {
			return content, nil
		}
		if e.Library == nil {
			return nil, fmt.Errorf("expert %s has no function to call %q", e.Name, call.Name)
		}
		log.Debug().Str("expert", e.Name).Str("function", call.Name).Msg("function call")
		// Errors travel back to the model inside the response.
		parts = []*genai.Part{{FunctionResponse: e.Library(ctx, call)}}
	}
	return nil, fmt.Errorf("expert %s: %w", e.Name, ErrTooManyCalls)
}
