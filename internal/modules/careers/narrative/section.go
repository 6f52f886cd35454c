package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"go.opentelemetry.io/otel/attribute"

	"github.com/cownect/cownect-backend/internal/domain/careers"
	"github.com/cownect/cownect-backend/internal/modules/careers/prompts"
	"github.com/cownect/cownect-backend/internal/observability"
)

// generateSection makes one model call for section and returns its decoded value, or
// fallback when the prompt, the call, schema validation, decoding or check fails.
// Single attempt, no retry.
func generateSection[T any](ctx context.Context, g *Generator, section Section, in prompts.Input, fallback T, check func(T) error) (T, Source) {
	name := sectionPrompts[section]
	val, err := requestJSON[T](ctx, g, name, in)
	if err == nil && check != nil {
		if err = check(val); err != nil {
			err = &outputError{issue: observability.IssueContentCheck, err: err}
		}
	}
	if err != nil {
		var oe *outputError
		if errors.As(err, &oe) {
			observability.ReportOutputQuality(ctx, g.log, string(section), oe.issue, oe.detail())
		}
		g.log.Warn("narrative section fell back", "section", section, "error", err)
		observability.Current().IncNarrativeSection(string(section), string(SourceFallback))
		return fallback, SourceFallback
	}
	observability.Current().IncNarrativeSection(string(section), string(SourceModel))
	return val, SourceModel
}

// requestJSON builds the named prompt, calls the model under the per-call timeout and
// decodes a schema-valid reply into T.
func requestJSON[T any](ctx context.Context, g *Generator, name prompts.PromptName, in prompts.Input) (T, error) {
	var zero T
	p, err := prompts.Build(name, in)
	if err != nil {
		return zero, err
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	fingerprint := p.Fingerprint()
	ctx, span := observability.StartSpan(ctx, "narrative.section",
		attribute.String("prompt", string(name)),
		attribute.Int("prompt.version", p.Version),
		attribute.String("prompt.fingerprint", fingerprint),
	)
	defer span.End()

	obj, err := g.ai.GenerateJSON(ctx, p.System, p.User, p.SchemaName, p.Schema)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err != nil {
		span.RecordError(err)
		return zero, fmt.Errorf("generate %s: %w", name, err)
	}
	if obj == nil {
		return zero, fmt.Errorf("generate %s: empty response", name)
	}
	if err := g.validate(name, obj); err != nil {
		return zero, &outputError{issue: observability.IssueSchemaValidation, prompt: fingerprint, err: err}
	}
	raw, err := json.Marshal(obj)
	if err != nil {
		return zero, fmt.Errorf("encode %s: %w", name, err)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, &outputError{issue: observability.IssueDecode, prompt: fingerprint, err: fmt.Errorf("decode %s: %w", name, err)}
	}
	return out, nil
}

// outputError marks a reply that arrived but could not be used. prompt is the
// fingerprint of the rendered prompt that produced it.
type outputError struct {
	issue  string
	prompt string
	err    error
}

func (e *outputError) Error() string { return e.err.Error() }
func (e *outputError) Unwrap() error { return e.err }

func (e *outputError) detail() string {
	if e.prompt == "" {
		return e.err.Error()
	}
	return e.err.Error() + " (prompt " + e.prompt + ")"
}

func (g *Generator) validate(name prompts.PromptName, obj map[string]any) error {
	schema, ok := g.schemas[name]
	if !ok {
		return fmt.Errorf("no schema for %s", name)
	}
	res, err := schema.Validate(gojsonschema.NewGoLoader(obj))
	if err != nil {
		return fmt.Errorf("validate %s: %w", name, err)
	}
	if !res.Valid() {
		return fmt.Errorf("%s does not match schema: %s", name, describe(res.Errors()))
	}
	return nil
}

func describe(errs []gojsonschema.ResultError) string {
	const maxShown = 3
	parts := make([]string, 0, maxShown)
	for i, e := range errs {
		if i == maxShown {
			parts = append(parts, fmt.Sprintf("and %d more", len(errs)-maxShown))
			break
		}
		parts = append(parts, e.String())
	}
	return strings.Join(parts, "; ")
}

// Content checks beyond the schema: strict schemas accept empty strings and arrays,
// which would leave a section visibly blank.

var errBlank = errors.New("section content is blank")

func checkSkillGap(v careers.SkillGapAnalysis) error {
	if blank(v.ReadinessDescription) || len(v.ExistingStrengths)+len(v.CriticalGaps) == 0 {
		return errBlank
	}
	return nil
}

func checkProgression(v careers.ProgressionOutlook) error {
	if blank(v.Summary) || len(v.Milestones) == 0 {
		return errBlank
	}
	return nil
}

func checkLearningPath(v careers.LearningPath) error {
	if v.Empty() {
		return errBlank
	}
	return nil
}

func checkMarket(v careers.MarketInsights) error {
	if blank(v.Summary) {
		return errBlank
	}
	return nil
}

func checkAdvice(v careers.PersonalizedAdvice) error {
	if blank(v.PersonalityProfile) || len(v.Advice) == 0 {
		return errBlank
	}
	return nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
