// Package semantic validates a parsed Program: name uniqueness, required
// agent configuration, and reference integrity across integrations.
//
// Unlike lexing and parsing, semantic analysis never stops at the first
// problem. Every violation is independent, so the analyzer completes both
// passes and reports the full ordered batch of diagnostics.
package semantic

import (
	"fmt"
	"strings"

	"github.com/everydev1618/goweave/ast"
)

// Diagnostic is one violated invariant found during analysis.
type Diagnostic struct {
	Message string `yaml:"message" json:"message"`
	Hint    string `yaml:"hint,omitempty" json:"hint,omitempty"`
}

func (d Diagnostic) Error() string {
	if d.Hint != "" {
		return d.Message + "\n  hint: " + d.Hint
	}
	return d.Message
}

// ErrorList is the aggregate result of a failed analysis: the complete
// ordered diagnostic batch. Callers may display only the first entry,
// but the list itself is the contract.
type ErrorList struct {
	Diagnostics []Diagnostic
}

func (e *ErrorList) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = d.Message
	}
	return fmt.Sprintf("semantic analysis failed with %d error(s):\n  %s",
		len(e.Diagnostics), strings.Join(msgs, "\n  "))
}

// requiredArgs is the required-named-argument table per agent type.
// Custom agents are open-ended and have no required arguments.
var requiredArgs = map[ast.AgentKind][]string{
	ast.AgentLLM:                 {"engine", "prompt"},
	ast.AgentMLModel:             {"model_path"},
	ast.AgentBayesianNetwork:     {"network_path"},
	ast.AgentDecisionMatrix:      {"matrix_definition"},
	ast.AgentHumanInLoop:         {"notification_channel"},
	ast.AgentRouter:              {"routing_rules"},
	ast.AgentAggregator:          {"aggregation_method"},
	ast.AgentRuleEngine:          {"rules"},
	ast.AgentDataNormalizer:      {"normalization_method"},
	ast.AgentMissingValueHandler: {"handling_strategy"},
}

// Analyzer validates programs. Its state is instance-local and cleared
// at the start of every Analyze call, so one analyzer can be reused
// across programs; concurrent use needs one analyzer per goroutine.
type Analyzer struct {
	agentIDs         map[string]bool
	workflowNames    map[string]bool
	subworkflowNames map[string]bool
	diags            []Diagnostic
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze validates the program in two passes: collect declarations,
// then validate structure and references. It returns nil if and only if
// no diagnostics were produced; otherwise the returned *ErrorList holds
// every diagnostic found, in source order.
func (a *Analyzer) Analyze(prog *ast.Program) error {
	a.reset()

	// Pass 1: collect workflow and subworkflow names. The two share one
	// namespace.
	declared := make(map[string]bool)
	for _, wf := range prog.Workflows {
		if declared[wf.Name] {
			a.report("duplicate workflow name: %s", wf.Name)
		}
		declared[wf.Name] = true
		a.workflowNames[wf.Name] = true
	}
	for _, sw := range prog.Subworkflows {
		if declared[sw.Name] {
			a.report("duplicate subworkflow name: %s", sw.Name)
		}
		declared[sw.Name] = true
		a.subworkflowNames[sw.Name] = true
	}

	// Pass 2: per-node validation.
	for _, wf := range prog.Workflows {
		a.analyzeWorkflow(wf)
	}
	for _, sw := range prog.Subworkflows {
		a.analyzeSubworkflow(sw)
	}
	for _, in := range prog.Integrations {
		a.analyzeIntegration(in)
	}

	if len(a.diags) == 0 {
		return nil
	}
	return &ErrorList{Diagnostics: a.diags}
}

// Diagnostics returns the batch from the most recent Analyze call.
func (a *Analyzer) Diagnostics() []Diagnostic {
	return a.diags
}

func (a *Analyzer) reset() {
	a.agentIDs = make(map[string]bool)
	a.workflowNames = make(map[string]bool)
	a.subworkflowNames = make(map[string]bool)
	a.diags = nil
}

func (a *Analyzer) report(format string, args ...any) {
	a.diags = append(a.diags, Diagnostic{Message: fmt.Sprintf(format, args...)})
}

func (a *Analyzer) reportHint(hint, format string, args ...any) {
	a.diags = append(a.diags, Diagnostic{Message: fmt.Sprintf(format, args...), Hint: hint})
}

func (a *Analyzer) analyzeWorkflow(wf *ast.Workflow) {
	if wf.Source == nil {
		a.report("workflow %s must have a source", wf.Name)
	} else {
		a.checkChannel(wf.Name, "source", wf.Source.Kind, wf.Source.Channel)
	}
	if wf.Target == nil {
		a.report("workflow %s must have a target", wf.Name)
	} else {
		a.checkChannel(wf.Name, "target", wf.Target.Kind, wf.Target.Channel)
	}

	// Agent ids are unique within one workflow's combined preprocessor
	// and agent lists.
	clear(a.agentIDs)
	for _, agent := range wf.AllAgents() {
		a.analyzeAgent(wf.Name, agent)
	}
}

func (a *Analyzer) analyzeSubworkflow(sw *ast.Subworkflow) {
	if len(sw.Input) == 0 {
		a.report("subworkflow %s must declare input parameters", sw.Name)
	}
	if len(sw.Output) == 0 {
		a.report("subworkflow %s must declare output parameters", sw.Name)
	}

	clear(a.agentIDs)
	for _, agent := range sw.Agents {
		a.analyzeAgent(sw.Name, agent)
	}
}

func (a *Analyzer) analyzeAgent(owner string, agent *ast.Agent) {
	// Generated resources are keyed by agent id, so ids are mandatory.
	if agent.ID == "" {
		a.reportHint(
			fmt.Sprintf("add id: %q to the %s agent", "my_agent", agent.Type),
			"agent of type %s in %s must have an id", agent.Type, owner)
	} else if a.agentIDs[agent.ID] {
		a.report("duplicate agent id in %s: %s", owner, agent.ID)
	} else {
		a.agentIDs[agent.ID] = true
	}

	for _, key := range requiredArgs[agent.Type.Kind] {
		if !agent.HasNamed(key) {
			a.report("agent %s of type %s must configure %q",
				displayID(agent), agent.Type, key)
		}
	}
}

func (a *Analyzer) analyzeIntegration(in *ast.Integration) {
	if !a.workflowNames[in.Workflow] {
		a.report("integration references unknown workflow: %s", in.Workflow)
	}
	if !a.subworkflowNames[in.Subworkflow] {
		a.report("integration references unknown subworkflow: %s", in.Subworkflow)
	}
}

// checkChannel rejects blank channel, topic, path, and schedule strings.
// Custom transports carry positional args instead and are not checked.
func (a *Analyzer) checkChannel(owner, role string, kind ast.TransportKind, channel string) {
	if kind == ast.TransportCustom {
		return
	}
	if strings.TrimSpace(channel) == "" {
		a.report("workflow %s: %s channel must not be empty", owner, role)
	}
}

func displayID(agent *ast.Agent) string {
	if agent.ID != "" {
		return agent.ID
	}
	return "(unnamed)"
}
