package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jonathan/portfolio-site/internal/llm"
	"github.com/jonathan/portfolio-site/internal/prompts"
	"github.com/jonathan/portfolio-site/internal/schemas"
	"github.com/jonathan/portfolio-site/internal/types"
)

// Analyzer turns a job posting screenshot into an AnalysisRecord through an LLM client.
type Analyzer struct {
	client      llm.Client
	tier        llm.ModelTier
	instruction string
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithTier selects the model tier used for extraction.
func WithTier(tier llm.ModelTier) Option {
	return func(a *Analyzer) { a.tier = tier }
}

// WithLanguage selects the wording of the extraction instruction. The requested shape is the same.
func WithLanguage(lang types.Language) Option {
	return func(a *Analyzer) { a.instruction = prompts.JobPostingInstruction(lang == types.LangEN) }
}

// New creates an Analyzer. The default instruction is the Spanish wording.
func New(client llm.Client, opts ...Option) *Analyzer {
	a := &Analyzer{
		client:      client,
		tier:        llm.TierStandard,
		instruction: prompts.JobPostingInstruction(false),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze encodes the image and then infers the record; reading completes before anything is sent.
func (a *Analyzer) Analyze(ctx context.Context, r io.Reader) (*types.AnalysisRecord, error) {
	img, err := Encode(r)
	if err != nil {
		return nil, err
	}
	return a.Infer(ctx, img)
}

// Infer sends the instruction and the encoded image and parses the reply.
func (a *Analyzer) Infer(ctx context.Context, img types.EncodedImage) (*types.AnalysisRecord, error) {
	if img.Data == "" {
		return nil, &EncodingError{Message: "image is empty"}
	}

	text, err := a.client.GenerateFromImage(ctx, a.instruction, llm.Image{MIMEType: img.MimeType, Data: img.Data}, a.tier)
	if err != nil {
		return nil, classify(err, img)
	}

	return ParseRecord(text)
}

// ParseRecord strips code fences from a reply and decodes it as an AnalysisRecord.
// Missing fields are tolerated; wrongly typed ones are not.
func ParseRecord(text string) (*types.AnalysisRecord, error) {
	cleaned := llm.CleanJSONBlock(text)
	if cleaned == "" {
		return nil, &ParseError{Message: "empty reply", Raw: text}
	}

	if err := schemas.Validate(schemas.AnalysisRecord, []byte(cleaned)); err != nil {
		var docErr *schemas.DocumentError
		if errors.As(err, &docErr) {
			return nil, &ParseError{Message: "reply is not valid JSON", Raw: text, Cause: err}
		}
		return nil, &ParseError{Message: "reply does not match the record shape", Raw: text, Cause: err}
	}

	var record types.AnalysisRecord
	if err := json.Unmarshal([]byte(cleaned), &record); err != nil {
		return nil, &ParseError{Message: "failed to decode reply", Raw: text, Cause: err}
	}
	return &record, nil
}

func classify(err error, img types.EncodedImage) error {
	if errors.Is(err, llm.ErrInvalidImage) {
		return &EncodingError{Message: "image is not valid base64", Cause: err}
	}
	if errors.Is(err, llm.ErrNoText) {
		return &ParseError{Message: "reply carried no text", Cause: err}
	}

	var apiErr *llm.APIError
	if errors.As(err, &apiErr) {
		return &TransportError{
			StatusCode: apiErr.StatusCode,
			Message:    fmt.Sprintf("inference request failed for %s", describe(img)),
			Cause:      err,
		}
	}
	return &TransportError{Message: "inference request failed", Cause: err}
}
