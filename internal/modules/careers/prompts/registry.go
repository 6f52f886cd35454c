package prompts

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"text/template"
)

// Spec is the declaration format for a prompt. System and User may be plain text or
// templates over Input fields.
type Spec struct {
	Name       PromptName
	Version    int
	SchemaName string
	Schema     func() map[string]any
	System     string
	User       string
	Validators []Validator
}

type compiled struct {
	spec   Spec
	system *template.Template
	user   *template.Template
}

var (
	mu       sync.RWMutex
	registry = map[PromptName]compiled{}
)

func compile(s Spec) (compiled, error) {
	if strings.TrimSpace(string(s.Name)) == "" {
		return compiled{}, fmt.Errorf("missing prompt name")
	}
	if s.Version <= 0 {
		return compiled{}, fmt.Errorf("invalid version for %s", s.Name)
	}
	if strings.TrimSpace(s.SchemaName) == "" {
		return compiled{}, fmt.Errorf("missing schema name for %s", s.Name)
	}
	if s.Schema == nil {
		return compiled{}, fmt.Errorf("missing schema func for %s", s.Name)
	}
	sys, err := template.New("system").Option("missingkey=zero").Parse(s.System)
	if err != nil {
		return compiled{}, fmt.Errorf("%s system template parse: %w", s.Name, err)
	}
	usr, err := template.New("user").Option("missingkey=zero").Parse(s.User)
	if err != nil {
		return compiled{}, fmt.Errorf("%s user template parse: %w", s.Name, err)
	}
	return compiled{spec: s, system: sys, user: usr}, nil
}

// RegisterSpec compiles and registers s. A malformed spec is a programming error.
func RegisterSpec(s Spec) {
	c, err := compile(s)
	if err != nil {
		panic(err)
	}
	mu.Lock()
	registry[s.Name] = c
	mu.Unlock()
}

// Build renders the named prompt for in.
func Build(name PromptName, in Input) (Prompt, error) {
	RegisterAll()
	mu.RLock()
	c, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return Prompt{}, fmt.Errorf("unknown prompt: %s", name)
	}
	for _, v := range c.spec.Validators {
		if v == nil {
			continue
		}
		if err := v(in); err != nil {
			return Prompt{}, fmt.Errorf("%s: %w", name, err)
		}
	}
	system, err := render(c.system, in)
	if err != nil {
		return Prompt{}, fmt.Errorf("%s system: %w", name, err)
	}
	user, err := render(c.user, in)
	if err != nil {
		return Prompt{}, fmt.Errorf("%s user: %w", name, err)
	}
	return Prompt{
		Name:       string(c.spec.Name),
		Version:    c.spec.Version,
		SchemaName: strings.TrimSpace(c.spec.SchemaName),
		Schema:     c.spec.Schema(),
		System:     system,
		User:       user,
	}, nil
}

// Schema returns the registered schema for name.
func Schema(name PromptName) (schemaName string, schema map[string]any, ok bool) {
	RegisterAll()
	mu.RLock()
	c, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return "", nil, false
	}
	return c.spec.SchemaName, c.spec.Schema(), true
}

func render(t *template.Template, in Input) (string, error) {
	var b bytes.Buffer
	if err := t.Execute(&b, in); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}
