package feedback

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sirupsen/logrus"

	"github.com/valentinpelus/chatbot-feedback/pkg/types"
)

// NotAvailable is stored when an optional prompt or response is absent
const NotAvailable = "N.A."

// SubmittedAtLayout formats generated submittedAt values, e.g. "Mar 07, 2024, 01:02:03 PM"
const SubmittedAtLayout = "Jan 02, 2006, 03:04:05 PM"

// FieldRule describes one FeedbackRecord field: how it is read from the
// request, whether it is required, and how it is filled when absent.
type FieldRule struct {
	Name     string
	Aliases  []string       // Fallback input keys, consulted in order when Name is absent
	Required bool           // Required fields are checked in table order; first missing wins
	Schema   map[string]any // JSON schema fragment for the value
	Default  func(n *Normalizer, now time.Time) any
	LogLevel logrus.Level // Level used when the default is applied
}

// FieldRules is the single schema for a submission. Order matters: the first
// missing required field in this order is the one reported.
var FieldRules = []FieldRule{
	{Name: "feedback", Required: true, Schema: stringSchema()},
	{Name: "userId", Required: true, Schema: stringSchema()},
	{Name: "appIdentifier", Required: true, Schema: stringSchema()},
	{Name: "prompt", Schema: stringSchema(), Default: constant(NotAvailable), LogLevel: logrus.WarnLevel},
	{Name: "response", Schema: stringSchema(), Default: constant(NotAvailable), LogLevel: logrus.WarnLevel},
	{
		Name:     "interactionId",
		Schema:   objectNameSchema(),
		Default:  func(n *Normalizer, _ time.Time) any { return n.newID() },
		LogLevel: logrus.WarnLevel,
	},
	{Name: "comment", Schema: stringSchema(), Default: constant(""), LogLevel: logrus.InfoLevel},
	{Name: "sourceAttribution", Schema: map[string]any{}, Default: constant(""), LogLevel: logrus.WarnLevel},
	{
		Name:     "source_attribution_urls",
		Aliases:  []string{"sourceUrls"},
		Schema:   map[string]any{"type": "array", "items": stringSchema()},
		Default:  func(*Normalizer, time.Time) any { return []any{} },
		LogLevel: logrus.WarnLevel,
	},
	{
		Name:     "submittedAt",
		Schema:   stringSchema(),
		Default:  func(_ *Normalizer, now time.Time) any { return FormatSubmittedAt(now) },
		LogLevel: logrus.DebugLevel,
	},
}

func stringSchema() map[string]any {
	return map[string]any{"type": "string"}
}

// objectNameSchema accepts values usable as a single key segment: non-empty,
// no path separators, no parent references.
func objectNameSchema() map[string]any {
	return map[string]any{
		"type":      "string",
		"minLength": 1,
		"pattern":   `^[^/\\]+$`,
		"not":       map[string]any{"pattern": `\.\.`},
	}
}

func constant(v any) func(*Normalizer, time.Time) any {
	return func(*Normalizer, time.Time) any { return v }
}

// FormatSubmittedAt renders t (in UTC) the way generated submittedAt values are stored
func FormatSubmittedAt(t time.Time) string {
	return t.UTC().Format(SubmittedAtLayout)
}

// Normalizer turns raw submission bodies into FeedbackRecords
type Normalizer struct {
	rules  []FieldRule
	schema *jsonschema.Schema
	newID  func() string
	logger logrus.FieldLogger
}

// NewNormalizer compiles FieldRules into a validator
func NewNormalizer(logger logrus.FieldLogger) (*Normalizer, error) {
	schema, err := compileRules(FieldRules)
	if err != nil {
		return nil, err
	}

	return &Normalizer{
		rules:  FieldRules,
		schema: schema,
		newID:  uuid.NewString,
		logger: logger,
	}, nil
}

// SetIDGenerator overrides how missing interaction ids are generated
func (n *Normalizer) SetIDGenerator(fn func() string) {
	n.newID = fn
}

func compileRules(rules []FieldRule) (*jsonschema.Schema, error) {
	properties := make(map[string]any, len(rules))
	for _, rule := range rules {
		properties[rule.Name] = rule.Schema
	}

	doc, err := json.Marshal(map[string]any{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"type":       "object",
		"properties": properties,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal feedback schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("feedback.json", bytes.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("add feedback schema: %w", err)
	}
	schema, err := compiler.Compile("feedback.json")
	if err != nil {
		return nil, fmt.Errorf("compile feedback schema: %w", err)
	}
	return schema, nil
}

// Normalize validates body and returns the complete record. now is the
// processing time used for generated defaults. A *ValidationError is returned
// for any problem with the submission itself.
func (n *Normalizer) Normalize(body []byte, now time.Time) (*types.FeedbackRecord, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &ValidationError{Kind: MissingBody}
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &ValidationError{Kind: InvalidBody}
	}
	if decoded == nil {
		return nil, &ValidationError{Kind: MissingBody}
	}
	raw, ok := decoded.(map[string]any)
	if !ok {
		return nil, &ValidationError{Kind: InvalidBody}
	}

	values := n.collect(raw)

	for _, rule := range n.rules {
		if !rule.Required {
			continue
		}
		if _, present := values[rule.Name]; !present {
			n.logger.WithField("param", rule.Name).Error("Required parameter missing from request body")
			return nil, &ValidationError{Kind: MissingField, Param: rule.Name}
		}
	}

	if err := n.schema.Validate(values); err != nil {
		param := invalidParam(err)
		n.logger.WithFields(logrus.Fields{"param": param, "error": err}).Error("Parameter has an invalid type")
		return nil, &ValidationError{Kind: InvalidType, Param: param}
	}

	for _, rule := range n.rules {
		if _, present := values[rule.Name]; present || rule.Default == nil {
			continue
		}
		values[rule.Name] = rule.Default(n, now)
		n.logger.WithField("param", rule.Name).Logf(rule.LogLevel, "%s is missing in the request body, using default", rule.Name)
	}

	return buildRecord(values), nil
}

// collect keeps only known fields, resolving aliases and treating null as absent
func (n *Normalizer) collect(raw map[string]any) map[string]any {
	values := make(map[string]any, len(n.rules))
	for _, rule := range n.rules {
		if v, ok := raw[rule.Name]; ok && v != nil {
			values[rule.Name] = v
			continue
		}
		for _, alias := range rule.Aliases {
			if v, ok := raw[alias]; ok && v != nil {
				values[rule.Name] = v
				break
			}
		}
	}
	return values
}

// invalidParam extracts the top-level field name from a schema validation error
func invalidParam(err error) string {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return "body"
	}
	for len(verr.Causes) > 0 {
		verr = verr.Causes[0]
	}
	location := strings.TrimPrefix(verr.InstanceLocation, "/")
	if location == "" {
		return "body"
	}
	if i := strings.Index(location, "/"); i >= 0 {
		location = location[:i]
	}
	return location
}

func buildRecord(values map[string]any) *types.FeedbackRecord {
	str := func(name string) string {
		s, _ := values[name].(string)
		return s
	}

	urls := []string{}
	if list, ok := values["source_attribution_urls"].([]any); ok {
		for _, item := range list {
			if s, ok := item.(string); ok {
				urls = append(urls, s)
			}
		}
	}

	return &types.FeedbackRecord{
		InteractionID:         str("interactionId"),
		Prompt:                str("prompt"),
		Response:              str("response"),
		SourceAttributionURLs: urls,
		SourceAttribution:     values["sourceAttribution"],
		AppIdentifier:         str("appIdentifier"),
		Feedback:              str("feedback"),
		Comment:               str("comment"),
		UserID:                str("userId"),
		SubmittedAt:           str("submittedAt"),
	}
}
