// Package ast defines the abstract syntax tree for Weave programs.
//
// The parser builds the tree once; every node is immutable afterwards.
// Downstream consumers (the semantic analyzer, code generation) read it
// and never modify it. All nodes carry yaml and json tags so a validated
// Program can be serialized for external tooling.
package ast

import (
	"encoding/json"
	"strings"
)

// Program is the root node for a compiled .workflow file.
type Program struct {
	Workflows    []*Workflow    `yaml:"workflows" json:"workflows"`
	Subworkflows []*Subworkflow `yaml:"subworkflows" json:"subworkflows"`
	Integrations []*Integration `yaml:"integrations" json:"integrations"`
}

// NewProgram returns an empty program.
func NewProgram() *Program {
	return &Program{}
}

// Workflow is a top-level pipeline: events flow from Source through
// Preprocessors and Agents to Target.
type Workflow struct {
	Name          string           `yaml:"name" json:"name"`
	Source        *Source          `yaml:"source,omitempty" json:"source,omitempty"`
	Target        *Target          `yaml:"target,omitempty" json:"target,omitempty"`
	Context       *Context         `yaml:"context,omitempty" json:"context,omitempty"`
	Preprocessors []*Agent         `yaml:"preprocessors,omitempty" json:"preprocessors,omitempty"`
	Agents        []*Agent         `yaml:"agents" json:"agents"`
	Monitor       map[string]Value `yaml:"monitor,omitempty" json:"monitor,omitempty"`
	Deployment    map[string]Value `yaml:"deployment,omitempty" json:"deployment,omitempty"`
}

// AllAgents returns preprocessors followed by agents, in declaration order.
func (w *Workflow) AllAgents() []*Agent {
	if len(w.Preprocessors) == 0 {
		return w.Agents
	}
	all := make([]*Agent, 0, len(w.Preprocessors)+len(w.Agents))
	all = append(all, w.Preprocessors...)
	all = append(all, w.Agents...)
	return all
}

// Subworkflow is a reusable pipeline fragment with explicit input and
// output parameter lists. It shares a namespace with workflow names.
type Subworkflow struct {
	Name    string   `yaml:"name" json:"name"`
	Input   []string `yaml:"input,omitempty" json:"input,omitempty"`
	Output  []string `yaml:"output,omitempty" json:"output,omitempty"`
	Context *Context `yaml:"context,omitempty" json:"context,omitempty"`
	Agents  []*Agent `yaml:"agents" json:"agents"`
}

// Integration wires a subworkflow into a workflow through named path
// mappings.
type Integration struct {
	Workflow    string  `yaml:"workflow" json:"workflow"`
	Subworkflow string  `yaml:"subworkflow" json:"subworkflow"`
	Mapping     Mapping `yaml:"mapping" json:"mapping"`
}

// Mapping binds local field names to dotted path expressions for the
// input and output sides of an integration.
type Mapping struct {
	Input  map[string]PathExpr `yaml:"input,omitempty" json:"input,omitempty"`
	Output map[string]PathExpr `yaml:"output,omitempty" json:"output,omitempty"`
}

// TransportKind identifies the transport behind a source or target.
type TransportKind string

const (
	TransportNATS   TransportKind = "nats"
	TransportHTTP   TransportKind = "http"
	TransportKafka  TransportKind = "kafka"
	TransportMQTT   TransportKind = "mqtt"
	TransportTimer  TransportKind = "timer"
	TransportFile   TransportKind = "file"
	TransportCustom TransportKind = "custom"
)

// Source is where a workflow consumes events from. Channel holds the
// topic, subject, URL, path, or schedule depending on Kind. For custom
// sources Tag carries the tag name and Args the positional values.
type Source struct {
	Kind    TransportKind    `yaml:"kind" json:"kind"`
	Channel string           `yaml:"channel,omitempty" json:"channel,omitempty"`
	Options map[string]Value `yaml:"options,omitempty" json:"options,omitempty"`
	Tag     string           `yaml:"tag,omitempty" json:"tag,omitempty"`
	Args    []Value          `yaml:"args,omitempty" json:"args,omitempty"`
}

// Target is where a workflow emits results to.
type Target struct {
	Kind    TransportKind    `yaml:"kind" json:"kind"`
	Channel string           `yaml:"channel,omitempty" json:"channel,omitempty"`
	Options map[string]Value `yaml:"options,omitempty" json:"options,omitempty"`
	Tag     string           `yaml:"tag,omitempty" json:"tag,omitempty"`
	Args    []Value          `yaml:"args,omitempty" json:"args,omitempty"`
}

// ContextKind identifies the knowledge resource behind a context block.
type ContextKind string

const (
	ContextKnowledgeBase   ContextKind = "knowledge_base"
	ContextBayesianNetwork ContextKind = "bayesian_network"
	ContextDatabase        ContextKind = "database"
	ContextCustom          ContextKind = "custom"
)

// Context is an auxiliary knowledge resource consulted by a workflow.
// For databases Name is the driver and Connection the connection string.
type Context struct {
	Kind       ContextKind      `yaml:"kind" json:"kind"`
	Name       string           `yaml:"name,omitempty" json:"name,omitempty"`
	Connection string           `yaml:"connection,omitempty" json:"connection,omitempty"`
	Options    map[string]Value `yaml:"options,omitempty" json:"options,omitempty"`
	Tag        string           `yaml:"tag,omitempty" json:"tag,omitempty"`
	Args       []Value          `yaml:"args,omitempty" json:"args,omitempty"`
}

// AgentKind is the closed set of built-in agent types.
type AgentKind string

const (
	AgentLLM                 AgentKind = "llm"
	AgentMLModel             AgentKind = "ml_model"
	AgentBayesianNetwork     AgentKind = "bayesian_network"
	AgentDecisionMatrix      AgentKind = "decision_matrix"
	AgentHumanInLoop         AgentKind = "human_in_loop"
	AgentRouter              AgentKind = "router"
	AgentAggregator          AgentKind = "aggregator"
	AgentRuleEngine          AgentKind = "rule_engine"
	AgentDataNormalizer      AgentKind = "data_normalizer"
	AgentMissingValueHandler AgentKind = "missing_value_handler"
	AgentCustom              AgentKind = "custom"
)

// AgentType is an agent's type tag: one of the built-in kinds, or a
// custom tag carrying its original name.
type AgentType struct {
	Kind AgentKind `yaml:"kind" json:"kind"`
	Name string    `yaml:"name,omitempty" json:"name,omitempty"`
}

var agentTags = map[string]AgentKind{
	"LLM":                 AgentLLM,
	"MLModel":             AgentMLModel,
	"BayesianNetwork":     AgentBayesianNetwork,
	"DecisionMatrix":      AgentDecisionMatrix,
	"HumanInLoop":         AgentHumanInLoop,
	"Router":              AgentRouter,
	"Aggregator":          AgentAggregator,
	"RuleEngine":          AgentRuleEngine,
	"DataNormalizer":      AgentDataNormalizer,
	"MissingValueHandler": AgentMissingValueHandler,
}

// AgentTypeFromTag maps a tag name to an AgentType. Unknown tags become
// custom agent types; the tag name is preserved.
func AgentTypeFromTag(tag string) AgentType {
	if kind, ok := agentTags[tag]; ok {
		return AgentType{Kind: kind}
	}
	return AgentType{Kind: AgentCustom, Name: tag}
}

// String returns the source-surface tag for the agent type.
func (t AgentType) String() string {
	if t.Kind == AgentCustom {
		return t.Name
	}
	for tag, kind := range agentTags {
		if kind == t.Kind {
			return tag
		}
	}
	return string(t.Kind)
}

// Agent is one pipeline stage: a type tag plus an ordered argument list.
// ID is optional in the grammar; the analyzer requires it because
// downstream consumers key generated resources by agent id.
type Agent struct {
	ID     string     `yaml:"id,omitempty" json:"id,omitempty"`
	Type   AgentType  `yaml:"type" json:"type"`
	Config []Argument `yaml:"config,omitempty" json:"config,omitempty"`
}

// Named returns the value of the named argument, if present.
func (a *Agent) Named(name string) (Value, bool) {
	for _, arg := range a.Config {
		if arg.Name == name {
			return arg.Value, true
		}
	}
	return Value{}, false
}

// HasNamed reports whether the named argument is present.
func (a *Agent) HasNamed(name string) bool {
	_, ok := a.Named(name)
	return ok
}

// Argument is one entry of an agent's configuration. A positional
// argument has an empty Name.
type Argument struct {
	Name  string `yaml:"name,omitempty" json:"name,omitempty"`
	Value Value  `yaml:"value" json:"value"`
}

// Positional reports whether the argument has no name.
func (a Argument) Positional() bool { return a.Name == "" }

// PathExpr is a dotted identifier chain such as result.score.value.
type PathExpr struct {
	Components []string `yaml:"components" json:"components"`
}

// ParsePath splits a dotted path string into its components.
func ParsePath(s string) PathExpr {
	return PathExpr{Components: strings.Split(s, ".")}
}

// String joins the components with dots.
func (p PathExpr) String() string {
	return strings.Join(p.Components, ".")
}

// MarshalYAML renders the path in its dotted source form.
func (p PathExpr) MarshalYAML() (any, error) { return p.String(), nil }

// MarshalJSON renders the path in its dotted source form.
func (p PathExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}
