// Package codegen renders a validated Program into deployment artifacts:
// one config file per agent and one manifest per build. It treats the
// AST as read-only input; run semantic analysis first.
package codegen

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/everydev1618/goweave/ast"
)

// Generator produces build artifacts for one program. Every generator
// carries a unique build id stamped into everything it emits.
type Generator struct {
	buildID string
	now     func() time.Time
	logger  *slog.Logger
}

// New creates a generator with a fresh build id.
func New() *Generator {
	return &Generator{
		buildID: uuid.NewString(),
		now:     time.Now,
		logger:  slog.Default(),
	}
}

// BuildID returns the generator's build id.
func (g *Generator) BuildID() string { return g.buildID }

// Manifest describes one build: every workflow with its transport
// endpoints and agent ordering, plus integrations. Deployment and
// monitor metadata pass through untouched.
type Manifest struct {
	BuildID      string                `yaml:"build_id" json:"build_id"`
	GeneratedAt  string                `yaml:"generated_at" json:"generated_at"`
	Workflows    []WorkflowManifest    `yaml:"workflows" json:"workflows"`
	Subworkflows []SubworkflowManifest `yaml:"subworkflows,omitempty" json:"subworkflows,omitempty"`
	Integrations []IntegrationManifest `yaml:"integrations,omitempty" json:"integrations,omitempty"`
}

// WorkflowManifest is the deployable shape of one workflow.
type WorkflowManifest struct {
	Name       string               `yaml:"name" json:"name"`
	Source     *Endpoint            `yaml:"source,omitempty" json:"source,omitempty"`
	Target     *Endpoint            `yaml:"target,omitempty" json:"target,omitempty"`
	Agents     []string             `yaml:"agents" json:"agents"`
	Monitor    map[string]ast.Value `yaml:"monitor,omitempty" json:"monitor,omitempty"`
	Deployment map[string]ast.Value `yaml:"deployment,omitempty" json:"deployment,omitempty"`
}

// SubworkflowManifest is the deployable shape of one subworkflow.
type SubworkflowManifest struct {
	Name   string   `yaml:"name" json:"name"`
	Input  []string `yaml:"input,omitempty" json:"input,omitempty"`
	Output []string `yaml:"output,omitempty" json:"output,omitempty"`
	Agents []string `yaml:"agents" json:"agents"`
}

// IntegrationManifest is the deployable shape of one integration.
type IntegrationManifest struct {
	Workflow    string            `yaml:"workflow" json:"workflow"`
	Subworkflow string            `yaml:"subworkflow" json:"subworkflow"`
	InputMap    map[string]string `yaml:"input_map,omitempty" json:"input_map,omitempty"`
	OutputMap   map[string]string `yaml:"output_map,omitempty" json:"output_map,omitempty"`
}

// Endpoint is a transport binding: the kind plus its channel, topic,
// URL, path, or schedule. Custom transports keep their tag.
type Endpoint struct {
	Kind    string `yaml:"kind" json:"kind"`
	Channel string `yaml:"channel,omitempty" json:"channel,omitempty"`
	Tag     string `yaml:"tag,omitempty" json:"tag,omitempty"`
}

// AgentConfig is the per-agent artifact consumed by generated agent
// runtimes: identity, type, channel wiring, and configuration values.
type AgentConfig struct {
	ID           string               `yaml:"id" json:"id"`
	Workflow     string               `yaml:"workflow" json:"workflow"`
	Type         string               `yaml:"type" json:"type"`
	Preprocessor bool                 `yaml:"preprocessor,omitempty" json:"preprocessor,omitempty"`
	Input        *Endpoint            `yaml:"input,omitempty" json:"input,omitempty"`
	Output       *Endpoint            `yaml:"output,omitempty" json:"output,omitempty"`
	Context      *ContextConfig       `yaml:"context,omitempty" json:"context,omitempty"`
	Config       map[string]ast.Value `yaml:"config,omitempty" json:"config,omitempty"`
	Args         []ast.Value          `yaml:"args,omitempty" json:"args,omitempty"`
	BuildID      string               `yaml:"build_id" json:"build_id"`
}

// ContextConfig describes the knowledge resource an agent may consult.
type ContextConfig struct {
	Kind       string `yaml:"kind" json:"kind"`
	Name       string `yaml:"name,omitempty" json:"name,omitempty"`
	Connection string `yaml:"connection,omitempty" json:"connection,omitempty"`
}

// Manifest builds the deployment manifest for the program.
func (g *Generator) Manifest(prog *ast.Program) *Manifest {
	m := &Manifest{
		BuildID:     g.buildID,
		GeneratedAt: g.now().UTC().Format(time.RFC3339),
	}
	for _, wf := range prog.Workflows {
		wm := WorkflowManifest{
			Name:       wf.Name,
			Source:     sourceEndpoint(wf.Source),
			Target:     targetEndpoint(wf.Target),
			Monitor:    wf.Monitor,
			Deployment: wf.Deployment,
		}
		for _, agent := range wf.AllAgents() {
			wm.Agents = append(wm.Agents, agent.ID)
		}
		m.Workflows = append(m.Workflows, wm)
	}
	for _, sw := range prog.Subworkflows {
		sm := SubworkflowManifest{Name: sw.Name, Input: sw.Input, Output: sw.Output}
		for _, agent := range sw.Agents {
			sm.Agents = append(sm.Agents, agent.ID)
		}
		m.Subworkflows = append(m.Subworkflows, sm)
	}
	for _, in := range prog.Integrations {
		m.Integrations = append(m.Integrations, IntegrationManifest{
			Workflow:    in.Workflow,
			Subworkflow: in.Subworkflow,
			InputMap:    pathMap(in.Mapping.Input),
			OutputMap:   pathMap(in.Mapping.Output),
		})
	}
	return m
}

// AgentConfigs builds one config per agent, in declaration order.
// Preprocessors come before the main agent list, matching execution.
func (g *Generator) AgentConfigs(prog *ast.Program) []AgentConfig {
	var configs []AgentConfig
	for _, wf := range prog.Workflows {
		for _, agent := range wf.Preprocessors {
			configs = append(configs, g.agentConfig(wf, agent, true))
		}
		for _, agent := range wf.Agents {
			configs = append(configs, g.agentConfig(wf, agent, false))
		}
	}
	for _, sw := range prog.Subworkflows {
		for _, agent := range sw.Agents {
			cfg := AgentConfig{
				ID:       agent.ID,
				Workflow: sw.Name,
				Type:     agent.Type.String(),
				Context:  contextConfig(sw.Context),
				BuildID:  g.buildID,
			}
			cfg.Config, cfg.Args = splitConfig(agent)
			configs = append(configs, cfg)
		}
	}
	return configs
}

func (g *Generator) agentConfig(wf *ast.Workflow, agent *ast.Agent, pre bool) AgentConfig {
	cfg := AgentConfig{
		ID:           agent.ID,
		Workflow:     wf.Name,
		Type:         agent.Type.String(),
		Preprocessor: pre,
		Input:        sourceEndpoint(wf.Source),
		Output:       targetEndpoint(wf.Target),
		Context:      contextConfig(wf.Context),
		BuildID:      g.buildID,
	}
	cfg.Config, cfg.Args = splitConfig(agent)
	return cfg
}

// WriteDir renders the manifest and all agent configs into dir:
// manifest.yaml at the top, agents/<workflow>_<id>.yaml per agent.
func (g *Generator) WriteDir(prog *ast.Program, dir string) error {
	agentsDir := filepath.Join(dir, "agents")
	if err := os.MkdirAll(agentsDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	data, err := yaml.Marshal(g.Manifest(prog))
	if err != nil {
		return fmt.Errorf("render manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "manifest.yaml"), data, 0o644); err != nil {
		return err
	}

	configs := g.AgentConfigs(prog)
	for _, cfg := range configs {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("render agent %s: %w", cfg.ID, err)
		}
		name := fmt.Sprintf("%s_%s.yaml", cfg.Workflow, cfg.ID)
		if err := os.WriteFile(filepath.Join(agentsDir, name), data, 0o644); err != nil {
			return err
		}
	}

	g.logger.Info("build written",
		"build_id", g.buildID,
		"dir", dir,
		"agents", len(configs))
	return nil
}

func sourceEndpoint(s *ast.Source) *Endpoint {
	if s == nil {
		return nil
	}
	return &Endpoint{Kind: string(s.Kind), Channel: s.Channel, Tag: s.Tag}
}

func targetEndpoint(t *ast.Target) *Endpoint {
	if t == nil {
		return nil
	}
	return &Endpoint{Kind: string(t.Kind), Channel: t.Channel, Tag: t.Tag}
}

func contextConfig(c *ast.Context) *ContextConfig {
	if c == nil {
		return nil
	}
	name := c.Name
	if c.Kind == ast.ContextCustom {
		name = c.Tag
	}
	return &ContextConfig{Kind: string(c.Kind), Name: name, Connection: c.Connection}
}

func splitConfig(agent *ast.Agent) (map[string]ast.Value, []ast.Value) {
	var named map[string]ast.Value
	var positional []ast.Value
	for _, arg := range agent.Config {
		if arg.Positional() {
			positional = append(positional, arg.Value)
			continue
		}
		if named == nil {
			named = make(map[string]ast.Value)
		}
		named[arg.Name] = arg.Value
	}
	return named, positional
}

func pathMap(m map[string]ast.PathExpr) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, p := range m {
		out[k] = p.String()
	}
	return out
}
